// Package merge implements the merge step: every translated catalog is
// updated in place from the template, concurrently.
package merge

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/specialistvlad/i18nrun/internal/ctxlog"
	"github.com/specialistvlad/i18nrun/internal/fanout"
	"github.com/specialistvlad/i18nrun/internal/fsutil"
	"github.com/specialistvlad/i18nrun/internal/procrun"
	"github.com/specialistvlad/i18nrun/internal/registry"
	"github.com/specialistvlad/i18nrun/internal/step"
	"github.com/zclconf/go-cty/cty"
)

// Name is the registered step name.
const Name = "merge"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the step and its legacy alias.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterStep(Name, New)
	r.RegisterAlias("msgmerge", Name)
}

// Step merges the template into each catalog.
type Step struct {
	env *registry.Env
}

// New builds the step for env.
func New(env *registry.Env) (step.Step, error) {
	return &Step{env: env}, nil
}

func (s *Step) Name() string { return Name }

// Run requires the template. Having no catalogs yet is not an error.
func (s *Step) Run(ctx context.Context) (step.Result, error) {
	logger := ctxlog.FromContext(ctx)
	p := s.env.Profile

	_, err := os.Stat(filepath.Join(s.env.Root, filepath.FromSlash(p.TemplatePath)))
	if errors.Is(err, fs.ErrNotExist) {
		return step.Result{}, &step.Error{Kind: step.ErrDependencyMissing, Step: Name, Msg: "missing template", Item: p.TemplatePath}
	}
	if err != nil {
		return step.Result{}, step.Wrap(step.ErrDependencyMissing, Name, err)
	}

	catalogs, err := fsutil.Expand(s.env.Root, []string{p.CatalogFilePattern}, nil)
	if err != nil {
		return step.Result{}, step.Wrap(step.ErrConfiguration, Name, err)
	}
	if len(catalogs) == 0 {
		return step.Noted("No catalog files found; nothing to merge."), nil
	}
	logger.Debug("Merging catalogs.", "count", len(catalogs), "template", p.TemplatePath)

	err = fanout.RunAll(ctx, catalogs, func(ctx context.Context, catalog string) error {
		ctx, logger := ctxlog.With(ctx, "catalog", catalog, "locale", p.CatalogLocale(catalog))
		err := s.env.Runner.Run(ctx, procrun.Command{
			Name: s.env.Config.Tools.Msgmerge,
			Args: []string{"--update", "--backup=off", catalog, p.TemplatePath},
			Dir:  s.env.Root,
		})
		if err != nil {
			return err
		}
		logger.Info("Updated catalog from template.")
		return nil
	}, fanout.WithLimit(s.env.Workers))
	if err != nil {
		return step.Result{}, step.Wrap(step.ErrExternalTool, Name, err)
	}

	return step.Result{
		Output: cty.ObjectVal(map[string]cty.Value{
			"template": cty.StringVal(p.TemplatePath),
			"catalogs": cty.NumberIntVal(int64(len(catalogs))),
		}),
	}, nil
}
