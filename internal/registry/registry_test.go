package registry

import (
	"context"
	"testing"

	"github.com/specialistvlad/i18nrun/internal/profile"
	"github.com/specialistvlad/i18nrun/internal/step"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopFactory(name string) Factory {
	return func(*Env) (step.Step, error) {
		return &step.Func{StepName: name, Fn: func(context.Context) (step.Result, error) {
			return step.Result{}, nil
		}}, nil
	}
}

type testModule struct{}

func (testModule) Register(r *Registry) {
	r.RegisterStep("extract", noopFactory("extract"))
	r.RegisterAlias("makepot", "extract")
	r.RegisterStep("readme", noopFactory("readme"), OnlyFor(profile.Plugin))
	r.RegisterAlias("makereadmetxt", "readme")
}

func TestRegistry_LoadAndLookup(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	r := New()

	// --- Act ---
	r.Load(testModule{})

	// --- Assert ---
	require.NoError(t, r.Validate())

	s, ok := r.Step("makepot")
	require.True(t, ok)
	assert.Equal(t, "extract", s.Name)

	_, ok = r.Step("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"extract"}, r.StepNames(profile.Generic))
	assert.Equal(t, []string{"extract", "readme"}, r.StepNames(profile.Plugin))
	assert.Equal(t, map[string]string{"makepot": "extract"}, r.Aliases(profile.Generic))
	assert.Equal(t, map[string]string{"makepot": "extract", "makereadmetxt": "readme"}, r.Aliases(profile.Plugin))
}

func TestRegistry_DuplicatesPanic(t *testing.T) {
	t.Parallel()

	r := New()
	r.RegisterStep("extract", noopFactory("extract"))
	r.RegisterAlias("makepot", "extract")

	assert.Panics(t, func() { r.RegisterStep("extract", noopFactory("extract")) })
	assert.Panics(t, func() { r.RegisterStep("makepot", noopFactory("makepot")) })
	assert.Panics(t, func() { r.RegisterAlias("makepot", "extract") })
	assert.Panics(t, func() { r.RegisterAlias("extract", "extract") })
}

func TestRegistry_ValidateDanglingAlias(t *testing.T) {
	t.Parallel()

	r := New()
	r.RegisterAlias("makemo", "compile")

	err := r.Validate()

	require.Error(t, err)
	assert.ErrorIs(t, err, step.ErrConfiguration)
	assert.Contains(t, err.Error(), "alias 'makemo' points to unknown step 'compile'")
}
