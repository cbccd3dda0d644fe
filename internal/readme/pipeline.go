package readme

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/i18nrun/internal/ctxlog"
	"github.com/specialistvlad/i18nrun/internal/step"
)

// StepName is used in errors raised by the pipeline.
const StepName = "readme"

// Temporary artifacts, one per stage.
const (
	HeaderCopyFile   = "readme-temp-header-1-copy.txt"
	HeaderUpdateFile = "readme-temp-header-2-update.txt"
	ConcatFile       = "readme-temp-md-1-concat.md"
	FormatFile       = "readme-temp-md-2-format.txt"
	CleanFile        = "readme-temp-md-3-clean.txt"
)

// TempFiles lists every artifact Clean removes.
var TempFiles = []string{HeaderCopyFile, ConcatFile, FormatFile, HeaderUpdateFile, CleanFile}

// Options locate the inputs and the output, relative to Root.
type Options struct {
	Root            string
	Source          string
	Output          string
	Marker          string
	Fragments       []string
	MainSourceFile  string
	HostVersionFile string
}

// Stage reads Inputs and writes Output.
type Stage struct {
	Name      string
	Inputs    []string
	Output    string
	transform func(ctx context.Context, in []string) (string, error)
}

// Pipeline is the ordered readme stage chain.
type Pipeline struct {
	opts   Options
	stages []Stage
}

// New builds the chain.
func New(opts Options) *Pipeline {
	p := &Pipeline{opts: opts}
	p.stages = []Stage{
		{
			Name:   "copy",
			Inputs: []string{opts.Source},
			Output: HeaderCopyFile,
			transform: func(_ context.Context, in []string) (string, error) {
				return CopyHeader(in[0], opts.Marker), nil
			},
		},
		{
			Name:      "update-header",
			Inputs:    []string{HeaderCopyFile, opts.MainSourceFile},
			Output:    HeaderUpdateFile,
			transform: p.updateHeader,
		},
		{
			Name:   "concat",
			Inputs: opts.Fragments,
			Output: ConcatFile,
			transform: func(_ context.Context, in []string) (string, error) {
				return strings.Join(in, "\n\n"), nil
			},
		},
		{
			Name:   "reformat",
			Inputs: []string{ConcatFile},
			Output: FormatFile,
			transform: func(_ context.Context, in []string) (string, error) {
				return Reformat(in[0]), nil
			},
		},
		{
			Name:   "strip-title",
			Inputs: []string{FormatFile},
			Output: CleanFile,
			transform: func(_ context.Context, in []string) (string, error) {
				return StripTitle(in[0]), nil
			},
		},
		{
			Name:   "combine",
			Inputs: []string{HeaderUpdateFile, CleanFile},
			Output: opts.Output,
			transform: func(_ context.Context, in []string) (string, error) {
				return strings.Join(in, "\n"), nil
			},
		},
	}
	return p
}

// Stages returns the chain in execution order.
func (p *Pipeline) Stages() []Stage {
	return p.stages
}

// Run checks every project input, then executes the stages in order and stops
// at the first failure. Temporary artifacts are removed on every exit path.
func (p *Pipeline) Run(ctx context.Context) (err error) {
	defer func() {
		if cerr := p.Clean(ctx); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	if err := p.checkInputs(p.ProjectInputs()); err != nil {
		return err
	}
	for _, s := range p.stages {
		if err := p.runStage(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// ProjectInputs lists the stage inputs no earlier stage produces, in order.
func (p *Pipeline) ProjectInputs() []string {
	produced := make(map[string]bool, len(p.stages))
	seen := make(map[string]bool)
	var out []string
	for _, s := range p.stages {
		for _, in := range s.Inputs {
			if !produced[in] && !seen[in] {
				seen[in] = true
				out = append(out, in)
			}
		}
		produced[s.Output] = true
	}
	return out
}

func (p *Pipeline) checkInputs(inputs []string) error {
	for _, in := range inputs {
		if _, err := os.Stat(p.path(in)); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return step.Missing(StepName, in)
			}
			return step.Wrap(step.ErrDependencyMissing, StepName, err)
		}
	}
	return nil
}

func (p *Pipeline) runStage(ctx context.Context, s Stage) error {
	logger := ctxlog.FromContext(ctx).With("stage", s.Name)

	// A stage never starts before all of its inputs exist.
	if err := p.checkInputs(s.Inputs); err != nil {
		return err
	}

	contents := make([]string, len(s.Inputs))
	for i, in := range s.Inputs {
		data, err := os.ReadFile(p.path(in))
		if err != nil {
			return step.Wrap(step.ErrDependencyMissing, StepName, err)
		}
		contents[i] = string(data)
	}

	out, err := s.transform(ctx, contents)
	if err != nil {
		return err
	}
	if err := os.WriteFile(p.path(s.Output), []byte(out), 0o644); err != nil {
		return fmt.Errorf("readme stage %s: writing %s: %w", s.Name, s.Output, err)
	}
	logger.Debug("Readme stage finished.", "inputs", s.Inputs, "output", s.Output, "bytes", len(out))
	return nil
}

func (p *Pipeline) updateHeader(ctx context.Context, in []string) (string, error) {
	logger := ctxlog.FromContext(ctx)

	version := ""
	if p.opts.HostVersionFile != "" {
		data, err := os.ReadFile(p.path(p.opts.HostVersionFile))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			logger.Warn("Host version file not found; leaving 'Tested up to' unchanged.", "file", p.opts.HostVersionFile)
		case err != nil:
			return "", fmt.Errorf("reading host version file: %w", err)
		default:
			v, ok := HostVersion(string(data))
			if ok {
				version = v
			} else {
				logger.Debug("No host version found in version file.", "file", p.opts.HostVersionFile)
			}
		}
	}
	return UpdateHeader(in[0], in[1], version), nil
}

// Clean removes every temporary artifact. Missing files are not an error.
func (p *Pipeline) Clean(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	var errs []error
	for _, f := range TempFiles {
		err := os.Remove(p.path(f))
		switch {
		case err == nil:
			logger.Debug("Removed temp file.", "file", f)
		case errors.Is(err, fs.ErrNotExist):
		default:
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("readme cleanup: %w", errors.Join(errs...))
	}
	return nil
}

func (p *Pipeline) path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.opts.Root, filepath.FromSlash(rel))
}
