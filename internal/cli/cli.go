package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/specialistvlad/i18nrun/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Usage errors exit with code 2; failed runs exit with code 1.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// environment holds the I18N_* variables. They seed the flag defaults, so an
// explicit flag always wins.
type environment struct {
	Plugin    string `env:"PLUGIN"`
	Config    string `env:"CONFIG"`
	Dir       string `env:"DIR" envDefault:"."`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	Workers   int    `env:"WORKERS"`
}

const envPrefix = "I18N_"

// Parse processes command-line arguments and the process environment. It
// returns a populated Config, a boolean indicating if the program should exit
// cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	return parse(args, output, env.Options{Prefix: envPrefix})
}

func parse(args []string, output io.Writer, opts env.Options) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var e environment
	if err := env.ParseWithOptions(&e, opts); err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	flagSet := flag.NewFlagSet("i18nrun", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, `
i18nrun - builds gettext catalogs for a project or a plugin.

Usage:
  i18nrun [options] [TASK...]

Arguments:
  TASK
    Task to run, in order. Defaults to "i18n". Use --list to see all tasks.

Environment:
  I18N_PLUGIN, I18N_CONFIG, I18N_DIR, I18N_LOG_LEVEL, I18N_LOG_FORMAT,
  I18N_WORKERS seed the matching options. A .env file is read if present.

Options:
`)
		flagSet.PrintDefaults()
	}

	pluginFlag := flagSet.String("plugin", e.Plugin, "Plugin name; selects the plugin profile.")
	configFlag := flagSet.String("config", e.Config, "Path to the config file (default <dir>/i18n.hcl if present).")
	dirFlag := flagSet.String("dir", e.Dir, "Project directory.")
	logLevelFlag := flagSet.String("log-level", e.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	logFormatFlag := flagSet.String("log-format", e.LogFormat, "Log output format. Options: 'text' or 'json'.")
	workersFlag := flagSet.Int("workers", e.Workers, "Maximum concurrent tool invocations per step. 0 is unbounded.")
	listFlag := flagSet.Bool("list", false, "List the available tasks and exit.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.", "tasks", flagSet.Args())

	cfg, err := app.NewConfig(app.Config{
		Plugin:     strings.TrimSpace(*pluginFlag),
		ConfigPath: *configFlag,
		Dir:        *dirFlag,
		LogLevel:   strings.ToLower(*logLevelFlag),
		LogFormat:  strings.ToLower(*logFormatFlag),
		Workers:    *workersFlag,
		List:       *listFlag,
		Tasks:      flagSet.Args(),
	})
	if err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", cfg)
	return cfg, false, nil
}
