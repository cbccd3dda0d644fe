// Package readme registers the readme regeneration chain as the "readme" and
// "readme-clean" steps of the plugin profile.
package readme

import (
	"context"
	"fmt"

	"github.com/specialistvlad/i18nrun/internal/profile"
	pipeline "github.com/specialistvlad/i18nrun/internal/readme"
	"github.com/specialistvlad/i18nrun/internal/registry"
	"github.com/specialistvlad/i18nrun/internal/step"
	"github.com/zclconf/go-cty/cty"
)

const (
	Name      = "readme"
	CleanName = "readme-clean"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers both steps for the plugin profile only.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterStep(Name, New, registry.OnlyFor(profile.Plugin))
	r.RegisterStep(CleanName, NewClean, registry.OnlyFor(profile.Plugin))
	r.RegisterAlias("makereadmetxt", Name)
}

func newPipeline(env *registry.Env) (*pipeline.Pipeline, error) {
	if env.Profile.Kind != profile.Plugin {
		return nil, fmt.Errorf("%w: the readme step requires the plugin profile", step.ErrConfiguration)
	}
	cfg := env.Config.Readme
	return pipeline.New(pipeline.Options{
		Root:            env.Root,
		Source:          cfg.Source,
		Output:          cfg.Output,
		Marker:          cfg.Marker,
		Fragments:       cfg.Fragments,
		MainSourceFile:  env.Profile.MainSourceFile,
		HostVersionFile: cfg.HostVersionFile,
	}), nil
}

// New builds the regeneration step.
func New(env *registry.Env) (step.Step, error) {
	p, err := newPipeline(env)
	if err != nil {
		return nil, err
	}
	output := env.Config.Readme.Output
	fragments := len(env.Config.Readme.Fragments)
	return &step.Func{
		StepName: Name,
		Fn: func(ctx context.Context) (step.Result, error) {
			if err := p.Run(ctx); err != nil {
				return step.Result{}, err
			}
			return step.Result{
				Output: cty.ObjectVal(map[string]cty.Value{
					"readme":    cty.StringVal(output),
					"fragments": cty.NumberIntVal(int64(fragments)),
				}),
			}, nil
		},
	}, nil
}

// NewClean builds the step that only removes temporary artifacts.
func NewClean(env *registry.Env) (step.Step, error) {
	p, err := newPipeline(env)
	if err != nil {
		return nil, err
	}
	return &step.Func{
		StepName: CleanName,
		Fn: func(ctx context.Context) (step.Result, error) {
			if err := p.Clean(ctx); err != nil {
				return step.Result{}, err
			}
			return step.Noted("Removed readme temp files."), nil
		},
	}, nil
}
