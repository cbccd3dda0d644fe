package app

import (
	"github.com/specialistvlad/i18nrun/internal/registry"
	"github.com/specialistvlad/i18nrun/modules/compile"
	"github.com/specialistvlad/i18nrun/modules/extract"
	"github.com/specialistvlad/i18nrun/modules/merge"
	"github.com/specialistvlad/i18nrun/modules/publish"
	"github.com/specialistvlad/i18nrun/modules/readme"
)

// coreModules is the definitive list of all modules that are compiled into
// the i18nrun binary.
func coreModules() []registry.Module {
	return []registry.Module{
		&extract.Module{},
		&merge.Module{},
		&compile.Module{},
		&readme.Module{},
		&publish.Module{},
	}
}
