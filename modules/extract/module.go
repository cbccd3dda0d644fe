// Package extract implements the extraction step: it collects the project's
// source files and runs one extraction tool over all of them to produce the
// catalog template.
package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/i18nrun/internal/config"
	"github.com/specialistvlad/i18nrun/internal/ctxlog"
	"github.com/specialistvlad/i18nrun/internal/fsutil"
	"github.com/specialistvlad/i18nrun/internal/procrun"
	"github.com/specialistvlad/i18nrun/internal/profile"
	"github.com/specialistvlad/i18nrun/internal/registry"
	"github.com/specialistvlad/i18nrun/internal/step"
	"github.com/zclconf/go-cty/cty"
)

// Name is the registered step name.
const Name = "extract"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the step and its legacy alias.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterStep(Name, New)
	r.RegisterAlias("makepot", Name)
}

// Step extracts translatable strings into the profile's template.
type Step struct {
	env *registry.Env
	cfg config.Extract
}

// New builds the step for env.
func New(env *registry.Env) (step.Step, error) {
	return &Step{env: env, cfg: env.Config.ExtractFor(env.Profile)}, nil
}

func (s *Step) Name() string { return Name }

// Run resolves the source files and runs the extraction tool once. With no
// source files it fails without running anything.
func (s *Step) Run(ctx context.Context) (step.Result, error) {
	logger := ctxlog.FromContext(ctx)
	p := s.env.Profile

	files, err := fsutil.Expand(s.env.Root, s.cfg.Include, s.cfg.Exclude)
	if err != nil {
		return step.Result{}, step.Wrap(step.ErrConfiguration, Name, err)
	}
	logger.Debug("Resolved source files.", "count", len(files), "include", s.cfg.Include, "exclude", s.cfg.Exclude)
	if len(files) == 0 {
		return step.Result{}, step.Fail(step.ErrNoWork, Name, "no source files")
	}

	if p.Kind == profile.Plugin {
		if _, err := os.Stat(filepath.Join(s.env.Root, p.MainSourceFile)); err != nil {
			return step.Result{}, step.Missing(Name, p.MainSourceFile)
		}
	}

	if err := os.MkdirAll(filepath.Join(s.env.Root, filepath.FromSlash(p.CatalogDir)), 0o755); err != nil {
		return step.Result{}, step.Wrap(step.ErrConfiguration, Name, fmt.Errorf("creating catalog directory: %w", err))
	}

	cmd := s.command(files)
	if err := s.env.Runner.Run(ctx, cmd); err != nil {
		return step.Result{}, step.Wrap(step.ErrExternalTool, Name, err)
	}

	logger.Info("Generated catalog template.", "template", p.TemplatePath, "source_files", len(files))
	return step.Result{
		Output: cty.ObjectVal(map[string]cty.Value{
			"template":     cty.StringVal(p.TemplatePath),
			"source_files": cty.NumberIntVal(int64(len(files))),
		}),
	}, nil
}

func (s *Step) command(files []string) procrun.Command {
	p := s.env.Profile
	tools := s.env.Config.Tools

	if p.Kind == profile.Plugin {
		return procrun.Command{
			Name: tools.WP,
			Args: []string{
				"i18n", "make-pot", ".", p.TemplatePath,
				"--slug=" + p.ProjectName,
				"--domain=" + p.ProjectName,
				"--exclude=" + excludeList(s.cfg.Exclude),
			},
			Dir: s.env.Root,
		}
	}

	args := []string{"--language=" + s.cfg.Language}
	for _, kw := range s.cfg.Keywords {
		args = append(args, "--keyword="+kw)
	}
	args = append(args,
		"--from-code="+s.cfg.FromCode,
		"--add-comments="+s.cfg.CommentTag,
		"--output="+p.TemplatePath,
	)
	args = append(args, files...)
	return procrun.Command{Name: tools.Xgettext, Args: args, Dir: s.env.Root}
}

// excludeList turns directory globs such as "vendor/**" into the
// comma-separated path list the packaging CLI expects.
func excludeList(globs []string) string {
	out := make([]string, 0, len(globs))
	for _, g := range globs {
		g = strings.TrimSuffix(g, "/**")
		g = strings.TrimSuffix(g, "/*")
		if g != "" {
			out = append(out, g)
		}
	}
	return strings.Join(out, ",")
}
