package config

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// Scope builds the expression variables available to every block after the
// project block has been decoded. The returned map is keyed by variable name,
// e.g. "profile".
type Scope func(p Project) (map[string]cty.Value, error)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads configuration from paths and overlays it onto m. A nil scope
	// means no expression variables.
	Load(ctx context.Context, m *Model, scope Scope, paths ...string) error
}
