package profile

import (
	"path"
	"strings"

	"golang.org/x/text/language"
)

// CatalogLocale infers the locale of a catalog path for log context, e.g.
// "locale/pt_BR/LC_MESSAGES/app.po" or "languages/my-plugin-de_DE.po".
// It returns "und" when nothing parses.
func (p *Profile) CatalogLocale(catalog string) string {
	var candidate string
	switch p.Kind {
	case Plugin:
		base := strings.TrimSuffix(path.Base(catalog), path.Ext(catalog))
		base = strings.TrimPrefix(base, p.ProjectName+"-")
		if i := strings.LastIndex(base, "-"); i >= 0 {
			base = base[i+1:]
		}
		candidate = base
	default:
		dir := path.Dir(path.Dir(catalog))
		candidate = path.Base(dir)
	}

	tag, err := language.Parse(strings.ReplaceAll(candidate, "_", "-"))
	if err != nil {
		return language.Und.String()
	}
	return tag.String()
}
