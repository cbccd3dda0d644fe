package config

import (
	"testing"

	"github.com/specialistvlad/i18nrun/internal/profile"
	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	m := Default()

	assert.Equal(t, "xgettext", m.Tools.Xgettext)
	assert.Equal(t, "wp", m.Tools.WP)
	assert.Equal(t, "php", m.Project.SourceExt)
	assert.Equal(t, "== Description ==", m.Readme.Marker)
	assert.Equal(t, DefaultFragments, m.Readme.Fragments)
	assert.Equal(t, "../../../wp-includes/version.php", m.Readme.HostVersionFile)
	assert.NotNil(t, m.Tasks)
}

func TestDefault_DoesNotShareSlices(t *testing.T) {
	t.Parallel()

	a := Default()
	a.Readme.Fragments[0] = "CHANGED.md"

	assert.Equal(t, "README.md", Default().Readme.Fragments[0])
}

func TestExtractFor(t *testing.T) {
	t.Parallel()

	generic := profile.Resolve("", profile.PackageMetadata{Name: "app"}, "")
	plugin := profile.Resolve("my-plugin", profile.PackageMetadata{}, "")

	t.Run("generic defaults", func(t *testing.T) {
		t.Parallel()
		e := Default().ExtractFor(generic)
		assert.Equal(t, []string{"**/*.php"}, e.Include)
		assert.Equal(t, GenericExclude, e.Exclude)
		assert.Equal(t, DefaultKeywords, e.Keywords)
	})

	t.Run("plugin defaults", func(t *testing.T) {
		t.Parallel()
		e := Default().ExtractFor(plugin)
		assert.Contains(t, e.Exclude, ".git/**")
		assert.Contains(t, e.Exclude, "*/vendor/**")
		assert.Contains(t, e.Exclude, "node_modules/**")
	})

	t.Run("explicit values win", func(t *testing.T) {
		t.Parallel()
		m := Default()
		m.Project.SourceExt = "inc"
		m.Extract.Exclude = []string{}
		m.Extract.Keywords = []string{"t"}

		e := m.ExtractFor(generic)

		assert.Equal(t, []string{"**/*.inc"}, e.Include)
		assert.Empty(t, e.Exclude)
		assert.Equal(t, []string{"t"}, e.Keywords)
	})
}
