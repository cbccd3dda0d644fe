package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/specialistvlad/i18nrun/internal/config"
	"github.com/specialistvlad/i18nrun/internal/ctxlog"
	"github.com/specialistvlad/i18nrun/internal/notify"
	"github.com/specialistvlad/i18nrun/internal/procrun"
	"github.com/specialistvlad/i18nrun/internal/profile"
	"github.com/specialistvlad/i18nrun/internal/registry"
	"github.com/specialistvlad/i18nrun/internal/step"
	"github.com/specialistvlad/i18nrun/internal/taskgraph"
	"github.com/zclconf/go-cty/cty"
)

// DefaultConfigFile is loaded from the project directory when no config file
// is named.
const DefaultConfigFile = "i18n.hcl"

// Dialer connects the progress notifier.
type Dialer func(ctx context.Context, cfg *config.Notify) (notify.Emitter, error)

// Option customizes an App.
type Option func(*App)

// WithRunner replaces the process runner, mainly for tests.
func WithRunner(r procrun.Runner) Option {
	return func(a *App) { a.runner = r }
}

// WithModules replaces the compiled-in step modules.
func WithModules(modules ...registry.Module) Option {
	return func(a *App) { a.modules = modules }
}

// WithObserver adds an observer notified around every step.
func WithObserver(o taskgraph.Observer) Option {
	return func(a *App) { a.observers = append(a.observers, o) }
}

// WithDialer replaces the socket.io dialer used when a notify block exists.
func WithDialer(d Dialer) Option {
	return func(a *App) { a.dial = d }
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	cfg    *Config
	logger *slog.Logger
	runID  string

	runner    procrun.Runner
	modules   []registry.Module
	observers []taskgraph.Observer
	dial      Dialer

	model    *config.Model
	profile  *profile.Profile
	registry *registry.Registry
	graph    *taskgraph.Graph
	notifier notify.Emitter
}

// NewApp loads the configuration, resolves the profile and registers the
// tasks. Every failure is returned before any external process runs.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader, opts ...Option) (*App, error) {
	runID := uuid.NewString()
	a := &App{
		outW:   outW,
		cfg:    cfg,
		logger: newLogger(cfg.LogLevel, cfg.LogFormat, outW).With("run_id", runID),
		runID:  runID,
		dial: func(ctx context.Context, n *config.Notify) (notify.Emitter, error) {
			return notify.Dial(ctx, n)
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	ctx := ctxlog.WithLogger(context.Background(), a.logger)
	a.logger.Debug("Logger configured successfully.")

	root, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving project directory: %w", step.ErrConfiguration, err)
	}

	paths, err := configPaths(root, cfg.ConfigPath)
	if err != nil {
		return nil, err
	}

	a.model = config.Default()
	scope := func(p config.Project) (map[string]cty.Value, error) {
		prof, err := a.resolveProfile(root, p)
		if err != nil {
			return nil, err
		}
		return map[string]cty.Value{"profile": prof.Vars()}, nil
	}
	if err := loader.Load(ctx, a.model, scope, paths...); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if a.profile, err = a.resolveProfile(root, a.model.Project); err != nil {
		return nil, err
	}
	a.logger.Info("Project profile resolved.",
		"kind", a.profile.Kind.String(),
		"project", a.profile.ProjectName,
		"template", a.profile.TemplatePath,
	)

	a.registry = registry.New()
	if a.modules == nil {
		a.modules = coreModules()
	}
	a.registry.Load(a.modules...)
	if err := a.registry.Validate(); err != nil {
		return nil, err
	}
	a.logger.Debug("All Go modules registered.", "count", len(a.modules))

	if a.runner == nil {
		a.runner = procrun.NewExecRunner(root)
	}
	env := &registry.Env{
		Profile: a.profile,
		Config:  a.model,
		Runner:  a.runner,
		Root:    root,
		Workers: cfg.Workers,
	}

	observers := taskgraph.Observers{taskgraph.LogObserver{}}
	observers = append(observers, a.observers...)
	if n := a.model.Notify; n != nil && !cfg.List {
		if em, err := a.dial(ctx, n); err != nil {
			a.logger.Warn("Notify server unreachable; continuing without progress events.", "url", n.URL, "error", err)
		} else {
			a.notifier = em
			observers = append(observers, notify.NewObserver(em, n.Event, runID))
		}
	}

	a.graph, err = taskgraph.New(a.registry, env, taskgraph.WithObserver(observers))
	if err != nil {
		a.Close()
		return nil, err
	}
	a.logger.Debug("Task graph built.", "tasks", a.graph.Tasks())
	return a, nil
}

// configPaths returns the config files to load. A file named explicitly must
// exist; the default one is optional.
func configPaths(root, explicit string) ([]string, error) {
	if explicit == "" {
		return []string{filepath.Join(root, DefaultConfigFile)}, nil
	}
	if _, err := os.Stat(explicit); err != nil {
		return nil, fmt.Errorf("%w: config file %s: %w", step.ErrConfiguration, explicit, err)
	}
	return []string{explicit}, nil
}

// resolveProfile applies the CLI plugin override and reads package metadata.
func (a *App) resolveProfile(root string, p config.Project) (*profile.Profile, error) {
	if a.cfg.Plugin != "" {
		p.Plugin = a.cfg.Plugin
	}
	meta, err := profile.LoadPackageMetadata(filepath.Join(root, p.PackageFile))
	if err != nil {
		return nil, err
	}
	return profile.Resolve(p.Plugin, meta, p.SourceExt), nil
}

// Profile returns the resolved project profile.
func (a *App) Profile() *profile.Profile {
	return a.profile
}

// Tasks lists every invocable task.
func (a *App) Tasks() []string {
	return a.graph.Tasks()
}

// Close releases the notifier connection, if any.
func (a *App) Close() {
	if a.notifier != nil {
		a.notifier.Close()
		a.notifier = nil
	}
}
