package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/i18nrun/internal/config"
	"github.com/specialistvlad/i18nrun/internal/ctxlog"
	"github.com/specialistvlad/i18nrun/internal/step"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	environ func() []string
}

// Option configures a Loader.
type Option func(*Loader)

// WithEnviron replaces os.Environ as the source of `env.*` variables.
func WithEnviron(fn func() []string) Option {
	return func(l *Loader) { l.environ = fn }
}

// NewLoader creates a new HCL configuration loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{environ: os.Environ}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load parses every .hcl file found under paths and overlays it onto m.
// Paths that do not exist are skipped.
func (l *Loader) Load(ctx context.Context, m *config.Model, scope config.Scope, paths ...string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := l.findAllHCLFiles(paths)
	if err != nil {
		return err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	bodies := make([]hcl.Body, 0, len(files))

	// Pass one: the static project block.
	for _, file := range files {
		f, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return fmt.Errorf("%w: failed to parse HCL file %s: %w", step.ErrConfiguration, file, diags)
		}
		var root projectRoot
		if diags := gohcl.DecodeBody(f.Body, nil, &root); diags.HasErrors() {
			return fmt.Errorf("%w: failed to decode project block in %s: %w", step.ErrConfiguration, file, diags)
		}
		if root.Project != nil {
			l.translateProject(m, root.Project)
		}
		bodies = append(bodies, root.Remain)
	}

	vars := map[string]cty.Value{}
	if scope != nil {
		scoped, err := scope(m.Project)
		if err != nil {
			return err
		}
		for k, v := range scoped {
			vars[k] = v
		}
	}
	vars["env"] = l.envVars()
	evalCtx := &hcl.EvalContext{
		Variables: vars,
		Functions: functions(),
	}

	// Pass two: everything else.
	for i, body := range bodies {
		var root fileRoot
		if diags := gohcl.DecodeBody(body, evalCtx, &root); diags.HasErrors() {
			return fmt.Errorf("%w: failed to decode HCL file %s: %w", step.ErrConfiguration, files[i], diags)
		}
		l.translateRoot(m, &root)
	}

	logger.Debug("HCL loading complete.", "files", len(files), "tasks", len(m.Tasks), "publish", m.Publish != nil, "notify", m.Notify != nil)
	return nil
}

func (l *Loader) envVars() cty.Value {
	env := map[string]cty.Value{}
	for _, kv := range l.environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = cty.StringVal(v)
	}
	return cty.ObjectVal(env)
}

func functions() map[string]function.Function {
	return map[string]function.Function{
		"upper":   stdlib.UpperFunc,
		"lower":   stdlib.LowerFunc,
		"join":    stdlib.JoinFunc,
		"format":  stdlib.FormatFunc,
		"replace": stdlib.ReplaceFunc,
	}
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl files found.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			add(path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(p) == ".hcl" {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return allFiles, nil
}
