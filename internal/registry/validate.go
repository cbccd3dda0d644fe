package registry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/specialistvlad/i18nrun/internal/step"
)

// Validate checks that every alias points at a registered step.
func (r *Registry) Validate() error {
	aliases := make([]string, 0, len(r.aliases))
	for a := range r.aliases {
		aliases = append(aliases, a)
	}
	sort.Strings(aliases)

	var errs []error
	for _, alias := range aliases {
		target := r.aliases[alias]
		if _, ok := r.steps[target]; !ok {
			errs = append(errs, fmt.Errorf("alias '%s' points to unknown step '%s'", alias, target))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: registry validation failed: %w", step.ErrConfiguration, errors.Join(errs...))
	}
	return nil
}
