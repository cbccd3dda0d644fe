package taskgraph

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/specialistvlad/i18nrun/internal/ctxlog"
	"github.com/specialistvlad/i18nrun/internal/profile"
	"github.com/specialistvlad/i18nrun/internal/registry"
	"github.com/specialistvlad/i18nrun/internal/step"
)

// DefaultTask is the task run when the caller names none.
const DefaultTask = "i18n"

// Graph holds the tasks registered for one profile.
type Graph struct {
	reg       *registry.Registry
	env       *registry.Env
	composite map[string][]string
	observer  Observer
	built     map[string]step.Step
}

// Option configures a Graph.
type Option func(*Graph)

// WithObserver attaches an observer notified around every step.
func WithObserver(o Observer) Option {
	return func(g *Graph) { g.observer = o }
}

// New registers the tasks for env.Profile and validates every reference.
// Task definitions from env.Config override the built-in ones.
func New(reg *registry.Registry, env *registry.Env, opts ...Option) (*Graph, error) {
	g := &Graph{
		reg:       reg,
		env:       env,
		composite: make(map[string][]string),
		observer:  LogObserver{},
		built:     make(map[string]step.Step),
	}
	for _, opt := range opts {
		opt(g)
	}

	g.composite[DefaultTask] = DefaultSequence(env.Profile.Kind)
	if env.Config != nil {
		for name, t := range env.Config.Tasks {
			g.composite[name] = append([]string(nil), t.Steps...)
		}
	}

	for _, name := range g.sortedComposites() {
		if _, err := g.Plan(name); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// DefaultSequence returns the step order of the default task. The readme is
// regenerated first so extraction never sees a stale readme.
func DefaultSequence(kind profile.Kind) []string {
	if kind == profile.Plugin {
		return []string{"readme", "extract", "merge", "compile"}
	}
	return []string{"extract", "merge", "compile"}
}

// Tasks lists every invocable task name, sorted.
func (g *Graph) Tasks() []string {
	seen := make(map[string]struct{})
	for name := range g.composite {
		seen[name] = struct{}{}
	}
	kind := g.env.Profile.Kind
	for _, name := range g.reg.StepNames(kind) {
		seen[name] = struct{}{}
	}
	for alias := range g.reg.Aliases(kind) {
		seen[alias] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Plan resolves task into its flattened, ordered list of canonical step names.
func (g *Graph) Plan(task string) ([]string, error) {
	var out []string
	if err := g.flatten(task, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Graph) flatten(name string, path []string, out *[]string) error {
	for _, p := range path {
		if p == name {
			return fmt.Errorf("%w: task cycle detected: %s", step.ErrConfiguration, strings.Join(append(path, name), " -> "))
		}
	}

	if entries, ok := g.composite[name]; ok {
		path = append(path, name)
		for _, e := range entries {
			if e == name {
				return fmt.Errorf("%w: task cycle detected: %s -> %s", step.ErrConfiguration, strings.Join(path, " -> "), e)
			}
			if err := g.flatten(e, path, out); err != nil {
				return err
			}
		}
		return nil
	}

	s, ok := g.reg.Step(name)
	if !ok {
		return g.unknown(name, path)
	}
	if !s.AvailableFor(g.env.Profile.Kind) {
		return fmt.Errorf("%w: step '%s' is not available for the %s profile", step.ErrConfiguration, name, g.env.Profile.Kind)
	}
	*out = append(*out, s.Name)
	return nil
}

func (g *Graph) unknown(name string, path []string) error {
	if len(path) == 0 {
		return fmt.Errorf("%w: unknown task '%s'", step.ErrConfiguration, name)
	}
	return fmt.Errorf("%w: task '%s' references unknown step or task '%s'", step.ErrConfiguration, path[len(path)-1], name)
}

// instantiate builds the steps of a plan, reusing ones already built.
func (g *Graph) instantiate(names []string) ([]step.Step, error) {
	steps := make([]step.Step, 0, len(names))
	for _, name := range names {
		if s, ok := g.built[name]; ok {
			steps = append(steps, s)
			continue
		}
		reg, _ := g.reg.Step(name)
		s, err := reg.Factory(g.env)
		if err != nil {
			return nil, fmt.Errorf("%w: building step '%s': %w", step.ErrConfiguration, name, err)
		}
		g.built[name] = s
		steps = append(steps, s)
	}
	return steps, nil
}

// Run executes task. Steps run in declared order; the first failure halts
// the sequence and later steps do not run. Outputs of completed steps are
// never rolled back.
func (g *Graph) Run(ctx context.Context, task string) error {
	ctx, logger := ctxlog.With(ctx, "task", task)

	names, err := g.Plan(task)
	if err != nil {
		return err
	}
	steps, err := g.instantiate(names)
	if err != nil {
		return err
	}
	logger.Debug("Task planned.", "steps", names)

	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return &RunError{Task: task, Step: s.Name(), Err: err}
		}

		stepCtx, _ := ctxlog.With(ctx, "step", s.Name())
		g.observer.StepStarted(stepCtx, task, s.Name())
		res, err := s.Run(stepCtx)
		g.observer.StepFinished(stepCtx, task, s.Name(), res, err)

		if err != nil {
			return &RunError{Task: task, Step: s.Name(), Err: err}
		}
	}
	return nil
}

func (g *Graph) sortedComposites() []string {
	names := make([]string, 0, len(g.composite))
	for name := range g.composite {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
