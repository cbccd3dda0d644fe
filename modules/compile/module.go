// Package compile implements the compile step: each translated catalog is
// compiled into a sibling binary catalog, concurrently.
package compile

import (
	"context"
	"strings"

	"github.com/specialistvlad/i18nrun/internal/ctxlog"
	"github.com/specialistvlad/i18nrun/internal/fanout"
	"github.com/specialistvlad/i18nrun/internal/fsutil"
	"github.com/specialistvlad/i18nrun/internal/procrun"
	"github.com/specialistvlad/i18nrun/internal/profile"
	"github.com/specialistvlad/i18nrun/internal/registry"
	"github.com/specialistvlad/i18nrun/internal/step"
	"github.com/zclconf/go-cty/cty"
)

// Name is the registered step name.
const Name = "compile"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the step and its legacy alias.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterStep(Name, New)
	r.RegisterAlias("makemo", Name)
}

// Step compiles every catalog.
type Step struct {
	env *registry.Env
}

// New builds the step for env.
func New(env *registry.Env) (step.Step, error) {
	return &Step{env: env}, nil
}

func (s *Step) Name() string { return Name }

// CompiledPath returns the binary catalog written next to catalog.
func CompiledPath(catalog string) string {
	return strings.TrimSuffix(catalog, ".po") + ".mo"
}

// Run fails when there is nothing to compile.
func (s *Step) Run(ctx context.Context) (step.Result, error) {
	logger := ctxlog.FromContext(ctx)
	p := s.env.Profile

	catalogs, err := fsutil.Expand(s.env.Root, []string{p.CatalogFilePattern}, nil)
	if err != nil {
		return step.Result{}, step.Wrap(step.ErrConfiguration, Name, err)
	}
	if len(catalogs) == 0 {
		return step.Result{}, step.Fail(step.ErrNoWork, Name, "no catalog files")
	}
	logger.Debug("Compiling catalogs.", "count", len(catalogs))

	err = fanout.RunAll(ctx, catalogs, func(ctx context.Context, catalog string) error {
		ctx, logger := ctxlog.With(ctx, "catalog", catalog, "locale", p.CatalogLocale(catalog))
		if err := s.env.Runner.Run(ctx, s.command(catalog)); err != nil {
			return err
		}
		logger.Info("Compiled catalog.", "output", CompiledPath(catalog))
		return nil
	}, fanout.WithLimit(s.env.Workers))
	if err != nil {
		return step.Result{}, step.Wrap(step.ErrExternalTool, Name, err)
	}

	compiled := make([]cty.Value, len(catalogs))
	for i, c := range catalogs {
		compiled[i] = cty.StringVal(CompiledPath(c))
	}
	return step.Result{
		Output: cty.ObjectVal(map[string]cty.Value{
			"catalogs": cty.NumberIntVal(int64(len(catalogs))),
			"compiled": cty.ListVal(compiled),
		}),
	}, nil
}

func (s *Step) command(catalog string) procrun.Command {
	tools := s.env.Config.Tools
	if s.env.Profile.Kind == profile.Plugin {
		return procrun.Command{Name: tools.WP, Args: []string{"i18n", "make-mo", catalog}, Dir: s.env.Root}
	}
	return procrun.Command{
		Name: tools.Msgfmt,
		Args: []string{"-o", CompiledPath(catalog), catalog},
		Dir:  s.env.Root,
	}
}
