// Package config defines the format-agnostic configuration model for the
// build: tool names, extraction lists, readme inputs, task overrides and the
// optional publish/notify targets, along with the Loader interface.
//
// The Model is the single source of truth for the taskgraph and the step
// modules. Concrete loaders, such as the HCL one, live in separate packages.
package config
