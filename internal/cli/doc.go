// Package cli turns command-line flags and I18N_* environment variables into
// an app.Config and maps failures to process exit codes.
package cli
