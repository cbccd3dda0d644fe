package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/i18nrun/internal/config"
	"github.com/specialistvlad/i18nrun/internal/step"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func writeHCL(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func profileScope(p config.Project) (map[string]cty.Value, error) {
	name := p.Plugin
	if name == "" {
		name = "generic-app"
	}
	return map[string]cty.Value{
		"profile": cty.ObjectVal(map[string]cty.Value{
			"name": cty.StringVal(name),
		}),
	}, nil
}

func TestLoader_FullFile(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	file := writeHCL(t, dir, "i18n.hcl", `
project {
  plugin     = "my-plugin"
  source_ext = "php"
}

tools {
  wp = "/usr/local/bin/wp"
}

extract {
  exclude  = ["vendor/**"]
  keywords = ["__", "_e"]
}

readme {
  fragments = ["README.md", "FAQ.md"]
}

task "release" {
  steps = ["i18n", "publish"]
}

publish {
  bucket = "cdn"
  prefix = "i18n/${profile.name}/${lower(env.STAGE)}"
  region = "eu-central-1"
}

notify {
  url = "http://localhost:3000/socket.io/"
}
`)
	loader := NewLoader(WithEnviron(func() []string { return []string{"STAGE=PROD", "BROKEN"} }))
	m := config.Default()

	// --- Act ---
	err := loader.Load(context.Background(), m, profileScope, file)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "my-plugin", m.Project.Plugin)
	assert.Equal(t, "package.json", m.Project.PackageFile, "unset attributes keep defaults")
	assert.Equal(t, "/usr/local/bin/wp", m.Tools.WP)
	assert.Equal(t, "msgfmt", m.Tools.Msgfmt)
	assert.Equal(t, []string{"vendor/**"}, m.Extract.Exclude)
	assert.Nil(t, m.Extract.Include)
	assert.Equal(t, []string{"__", "_e"}, m.Extract.Keywords)
	assert.Equal(t, []string{"README.md", "FAQ.md"}, m.Readme.Fragments)
	require.Contains(t, m.Tasks, "release")
	assert.Equal(t, []string{"i18n", "publish"}, m.Tasks["release"].Steps)
	require.NotNil(t, m.Publish)
	assert.Equal(t, "cdn", m.Publish.Bucket)
	assert.Equal(t, "i18n/my-plugin/prod", m.Publish.Prefix)
	require.NotNil(t, m.Notify)
	assert.Equal(t, "/", m.Notify.Namespace)
	assert.Equal(t, "i18n", m.Notify.Event)
}

func TestLoader_ScopeSeesProjectBlock(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := writeHCL(t, dir, "i18n.hcl", `
project { plugin = "seen" }
`)
	var got config.Project
	scope := func(p config.Project) (map[string]cty.Value, error) {
		got = p
		return nil, nil
	}

	err := NewLoader().Load(context.Background(), config.Default(), scope, file)

	require.NoError(t, err)
	assert.Equal(t, "seen", got.Plugin)
}

func TestLoader_MissingPathIsSkipped(t *testing.T) {
	t.Parallel()

	m := config.Default()
	err := NewLoader().Load(context.Background(), m, nil, filepath.Join(t.TempDir(), "nope.hcl"))

	require.NoError(t, err)
	assert.Equal(t, config.Default(), m)
}

func TestLoader_DirectoryIsWalked(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeHCL(t, dir, "a.hcl", `task "one" { steps = ["extract"] }`)
	writeHCL(t, dir, "b.hcl", `task "two" { steps = ["compile"] }`)
	writeHCL(t, dir, "notes.txt", `not hcl`)
	m := config.Default()

	err := NewLoader().Load(context.Background(), m, nil, dir)

	require.NoError(t, err)
	assert.Len(t, m.Tasks, 2)
}

func TestLoader_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		content string
	}{
		{name: "syntax error", content: `project {`},
		{name: "unknown block", content: `pipeline "x" {}`},
		{name: "unknown variable", content: `publish { bucket = var.nope }`},
		{name: "missing required attribute", content: `publish { prefix = "x" }`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			file := writeHCL(t, t.TempDir(), "i18n.hcl", tc.content)

			err := NewLoader().Load(context.Background(), config.Default(), nil, file)

			require.Error(t, err)
			assert.ErrorIs(t, err, step.ErrConfiguration)
		})
	}
}
