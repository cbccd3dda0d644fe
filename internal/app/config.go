package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/i18nrun/internal/taskgraph"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// Plugin selects the plugin profile and overrides the config file.
	Plugin string
	// ConfigPath names the config file. Empty means <Dir>/i18n.hcl if present.
	ConfigPath string
	Dir        string

	LogFormat string
	LogLevel  string
	Workers   int

	// List prints the invocable tasks instead of running any.
	List  bool
	Tasks []string
}

// NewConfig validates cfg and fills defaults.
func NewConfig(cfg Config) (*Config, error) {
	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = "info"
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	if cfg.Workers < 0 {
		return nil, errors.New("workers cannot be negative")
	}
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	if len(cfg.Tasks) == 0 {
		cfg.Tasks = []string{taskgraph.DefaultTask}
	}
	return &cfg, nil
}
