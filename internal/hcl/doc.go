// Package hcl provides the HCL implementation of config.Loader. It reads
// i18n.hcl files in two passes: the static `project` block first, then every
// other block with an evaluation context exposing `profile.*`, `env.*` and a
// small set of string functions.
package hcl
