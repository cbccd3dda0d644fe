package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/specialistvlad/i18nrun/internal/config"
	"github.com/specialistvlad/i18nrun/internal/procrun"
	"github.com/specialistvlad/i18nrun/internal/profile"
	"github.com/specialistvlad/i18nrun/internal/step"
)

// Module is the interface that all step modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Env is what every step factory receives. It is shared by reference.
type Env struct {
	Profile *profile.Profile
	Config  *config.Model
	Runner  procrun.Runner
	// Root is the project directory all relative paths resolve against.
	Root string
	// Workers bounds fan-out concurrency; 0 means unbounded.
	Workers int
}

// Factory builds a step for the given environment.
type Factory func(env *Env) (step.Step, error)

// RegisteredStep holds a factory and the profiles it applies to.
type RegisteredStep struct {
	Name     string
	Factory  Factory
	profiles map[profile.Kind]bool
}

// AvailableFor reports whether the step exists for the given profile kind.
func (s *RegisteredStep) AvailableFor(k profile.Kind) bool {
	return len(s.profiles) == 0 || s.profiles[k]
}

// StepOption configures a registration.
type StepOption func(*RegisteredStep)

// OnlyFor restricts a step to the given profile kinds.
func OnlyFor(kinds ...profile.Kind) StepOption {
	return func(s *RegisteredStep) {
		if s.profiles == nil {
			s.profiles = make(map[profile.Kind]bool)
		}
		for _, k := range kinds {
			s.profiles[k] = true
		}
	}
}

// Registry holds every registered step factory and alias for a single
// application instance.
type Registry struct {
	steps   map[string]*RegisteredStep
	aliases map[string]string
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		steps:   make(map[string]*RegisteredStep),
		aliases: make(map[string]string),
	}
}

// Load registers every module in order.
func (r *Registry) Load(modules ...Module) {
	for _, m := range modules {
		m.Register(r)
	}
	slog.Debug("Registry loaded.", "steps", len(r.steps), "aliases", len(r.aliases))
}

// RegisterStep registers a step factory under name.
func (r *Registry) RegisterStep(name string, f Factory, opts ...StepOption) {
	if _, exists := r.steps[name]; exists {
		panic(fmt.Sprintf("step with name '%s' already registered", name))
	}
	if _, exists := r.aliases[name]; exists {
		panic(fmt.Sprintf("step name '%s' is already an alias", name))
	}
	s := &RegisteredStep{Name: name, Factory: f}
	for _, opt := range opts {
		opt(s)
	}
	slog.Debug("Registering step.", "name", name)
	r.steps[name] = s
}

// RegisterAlias makes alias an additional name for an existing step.
func (r *Registry) RegisterAlias(alias, target string) {
	if _, exists := r.aliases[alias]; exists {
		panic(fmt.Sprintf("alias '%s' already registered", alias))
	}
	if _, exists := r.steps[alias]; exists {
		panic(fmt.Sprintf("alias '%s' collides with a step name", alias))
	}
	slog.Debug("Registering alias.", "alias", alias, "target", target)
	r.aliases[alias] = target
}

// Step looks up a step by name or alias.
func (r *Registry) Step(name string) (*RegisteredStep, bool) {
	if target, ok := r.aliases[name]; ok {
		name = target
	}
	s, ok := r.steps[name]
	return s, ok
}

// StepNames returns the sorted names of steps available for kind.
func (r *Registry) StepNames(kind profile.Kind) []string {
	var names []string
	for name, s := range r.steps {
		if s.AvailableFor(kind) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Aliases returns a copy of the alias table restricted to targets available
// for kind.
func (r *Registry) Aliases(kind profile.Kind) map[string]string {
	out := make(map[string]string)
	for alias, target := range r.aliases {
		if s, ok := r.steps[target]; ok && s.AvailableFor(kind) {
			out[alias] = target
		}
	}
	return out
}
