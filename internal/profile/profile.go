// Package profile resolves which of the two supported project shapes applies
// and derives the path conventions every step reads from.
package profile

import (
	"path"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Kind distinguishes the two project shapes.
type Kind int

const (
	Generic Kind = iota
	Plugin
)

func (k Kind) String() string {
	if k == Plugin {
		return "plugin"
	}
	return "generic"
}

// DefaultSourceExt is the source extension used when none is configured.
const DefaultSourceExt = "php"

const defaultProjectName = "project"

// Profile is resolved once at startup and shared by pointer. Nothing mutates
// it after Resolve returns.
type Profile struct {
	Kind               Kind
	ProjectName        string
	CatalogDir         string
	CatalogFilePattern string
	TemplatePath       string
	// MainSourceFile is empty for the generic profile.
	MainSourceFile string
}

// Resolve derives a profile from the plugin flag and the package metadata.
// It has no side effects and every input has a default.
func Resolve(plugin string, meta PackageMetadata, sourceExt string) *Profile {
	if sourceExt == "" {
		sourceExt = DefaultSourceExt
	}
	sourceExt = strings.TrimPrefix(sourceExt, ".")

	if plugin != "" {
		return &Profile{
			Kind:               Plugin,
			ProjectName:        plugin,
			CatalogDir:         "languages",
			CatalogFilePattern: "languages/*.po",
			TemplatePath:       path.Join("languages", plugin+".pot"),
			MainSourceFile:     plugin + "." + sourceExt,
		}
	}

	name := projectNameFrom(meta.Name)
	return &Profile{
		Kind:               Generic,
		ProjectName:        name,
		CatalogDir:         "locale",
		CatalogFilePattern: "locale/*/LC_MESSAGES/*.po",
		TemplatePath:       path.Join("locale", name+".pot"),
	}
}

// projectNameFrom strips any path components, e.g. "@scope/foo" -> "foo".
func projectNameFrom(name string) string {
	name = strings.TrimRight(strings.TrimSpace(name), "/")
	if name == "" {
		return defaultProjectName
	}
	base := path.Base(name)
	if base == "." || base == "/" || base == "" {
		return defaultProjectName
	}
	return base
}

// Vars exposes the profile to configuration expressions as `profile.*`.
func (p *Profile) Vars() cty.Value {
	return cty.ObjectVal(map[string]cty.Value{
		"kind":            cty.StringVal(p.Kind.String()),
		"name":            cty.StringVal(p.ProjectName),
		"catalog_dir":     cty.StringVal(p.CatalogDir),
		"catalog_pattern": cty.StringVal(p.CatalogFilePattern),
		"template":        cty.StringVal(p.TemplatePath),
		"main_file":       cty.StringVal(p.MainSourceFile),
	})
}
