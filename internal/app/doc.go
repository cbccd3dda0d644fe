// Package app wires the build together: it configures logging, loads the
// config file, resolves the project profile, registers the step modules and
// runs the requested tasks. It is independent of any entrypoint.
package app
