package app

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/i18nrun/internal/config"
	"github.com/specialistvlad/i18nrun/internal/hcl"
	"github.com/specialistvlad/i18nrun/internal/notify"
	"github.com/specialistvlad/i18nrun/internal/profile"
	"github.com/specialistvlad/i18nrun/internal/step"
	"github.com/specialistvlad/i18nrun/internal/taskgraph"
	"github.com/specialistvlad/i18nrun/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// genericProject is a generic checkout with a template already extracted and
// two locales.
func genericProject(t *testing.T, extra map[string]string) string {
	t.Helper()
	files := map[string]string{
		"package.json":                  `{"name": "@acme/shop", "version": "1.0.0"}`,
		"src/cart.php":                  `<?php echo __('Cart');`,
		"locale/shop.pot":               "msgid \"\"\n",
		"locale/de/LC_MESSAGES/shop.po": "msgid \"\"\n",
		"locale/fr/LC_MESSAGES/shop.po": "msgid \"\"\n",
		"node_modules/lib/ignored.php":  `<?php`,
	}
	for k, v := range extra {
		files[k] = v
	}
	return testutil.WriteTree(t, files)
}

func newTestApp(t *testing.T, cfg Config, opts ...Option) (*App, *testutil.SafeBuffer, error) {
	t.Helper()
	cfg.LogLevel = "debug"
	c, err := NewConfig(cfg)
	require.NoError(t, err)

	logs := &testutil.SafeBuffer{}
	a, err := NewApp(logs, c, hcl.NewLoader(hcl.WithEnviron(func() []string { return nil })), opts...)
	t.Cleanup(func() {
		if t.Failed() {
			t.Logf("--- Log output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return a, logs, err
}

func TestApp_GenericDefaultTask(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	root := genericProject(t, nil)
	runner := &testutil.RecordingRunner{}
	a, logs, err := newTestApp(t, Config{Dir: root}, WithRunner(runner))
	require.NoError(t, err)

	// --- Act ---
	err = a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, profile.Generic, a.Profile().Kind)
	assert.Equal(t, "shop", a.Profile().ProjectName)

	calls := runner.Calls()
	require.Len(t, calls, 5)
	var names []string
	for _, c := range calls {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"xgettext", "msgmerge", "msgmerge", "msgfmt", "msgfmt"}, names)
	assert.Contains(t, calls[len(calls)-1].Args, "src/cart.php")
	assert.NotContains(t, calls[len(calls)-1].Args, "node_modules/lib/ignored.php")

	out := logs.String()
	assert.Contains(t, out, "run_id=")
	assert.Contains(t, out, "🏁 Run finished.")
}

func TestApp_StopsAtFirstFailingStep(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	root := genericProject(t, nil)
	runner := &testutil.RecordingRunner{Handler: testutil.FailWhen("locale/de/LC_MESSAGES/shop.po")}
	a, _, err := newTestApp(t, Config{Dir: root}, WithRunner(runner))
	require.NoError(t, err)

	// --- Act ---
	err = a.Run(context.Background())

	// --- Assert ---
	var runErr *taskgraph.RunError
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, "merge", runErr.Step)
	assert.ErrorIs(t, err, step.ErrExternalTool)
	for _, c := range runner.Calls() {
		assert.NotEqual(t, "msgfmt", c.Name, "compile must not run after merge failed")
	}
}

func TestApp_PluginFromFlagOverridesConfigFile(t *testing.T) {
	t.Parallel()

	root := genericProject(t, map[string]string{
		"i18n.hcl": `project { plugin = "from-file" }`,
	})
	a, _, err := newTestApp(t, Config{Dir: root, Plugin: "from-flag"})
	require.NoError(t, err)

	assert.Equal(t, profile.Plugin, a.Profile().Kind)
	assert.Equal(t, "from-flag", a.Profile().ProjectName)
	assert.Equal(t, "languages/from-flag.pot", a.Profile().TemplatePath)
}

func TestApp_ConfigExpressionsSeeTheProfile(t *testing.T) {
	t.Parallel()

	root := genericProject(t, map[string]string{
		"i18n.hcl": `
project { plugin = "acme-forms" }
publish {
  bucket = "cdn"
  prefix = "i18n/${profile.name}/${profile.kind}"
}
task "release" { steps = ["i18n", "publish"] }
`,
	})
	a, _, err := newTestApp(t, Config{Dir: root})
	require.NoError(t, err)

	require.NotNil(t, a.model.Publish)
	assert.Equal(t, "i18n/acme-forms/plugin", a.model.Publish.Prefix)
	assert.Contains(t, a.Tasks(), "release")
}

func TestApp_ConfigurationErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		files map[string]string
		cfg   func(root string) Config
	}{
		{
			name:  "explicit config file missing",
			files: nil,
			cfg:   func(root string) Config { return Config{Dir: root, ConfigPath: filepath.Join(root, "nope.hcl")} },
		},
		{
			name:  "unparsable config file",
			files: map[string]string{"i18n.hcl": `tools {`},
			cfg:   func(root string) Config { return Config{Dir: root} },
		},
		{
			name:  "task references unknown step",
			files: map[string]string{"i18n.hcl": `task "ship" { steps = ["extract", "deploy"] }`},
			cfg:   func(root string) Config { return Config{Dir: root} },
		},
		{
			name:  "readme step in generic profile",
			files: map[string]string{"i18n.hcl": `task "docs" { steps = ["readme"] }`},
			cfg:   func(root string) Config { return Config{Dir: root} },
		},
		{
			name:  "malformed package metadata",
			files: map[string]string{"package.json": `{"name": `},
			cfg:   func(root string) Config { return Config{Dir: root} },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			root := genericProject(t, tc.files)
			runner := &testutil.RecordingRunner{}
			_, _, err := newTestApp(t, tc.cfg(root), WithRunner(runner))

			require.Error(t, err)
			assert.ErrorIs(t, err, step.ErrConfiguration)
			assert.Zero(t, runner.CallCount(), "no process may run before configuration is valid")
		})
	}
}

func TestApp_List(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	root := genericProject(t, nil)
	runner := &testutil.RecordingRunner{}
	dialed := false
	dial := func(context.Context, *config.Notify) (notify.Emitter, error) {
		dialed = true
		return nil, errors.New("unexpected dial")
	}
	a, logs, err := newTestApp(t, Config{Dir: root, List: true}, WithRunner(runner), WithDialer(dial))
	require.NoError(t, err)

	// --- Act ---
	err = a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	out := logs.String()
	for _, name := range []string{"i18n\n", "extract\n", "makepot\n", "msgmerge\n", "makemo\n"} {
		assert.Contains(t, out, name)
	}
	assert.NotContains(t, out, "makereadmetxt\n", "readme tasks are plugin-only")
	assert.Zero(t, runner.CallCount())
	assert.False(t, dialed)
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []notify.Event
	closed bool
}

func (r *recordingEmitter) Emit(_ string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, payload.(notify.Event))
}

func (r *recordingEmitter) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
}

func TestApp_NotifiesStepTransitions(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	root := genericProject(t, map[string]string{
		"i18n.hcl": `notify { url = "http://localhost:3000/socket.io/" }`,
	})
	em := &recordingEmitter{}
	var got *config.Notify
	dial := func(_ context.Context, n *config.Notify) (notify.Emitter, error) {
		got = n
		return em, nil
	}
	a, _, err := newTestApp(t, Config{Dir: root, Tasks: []string{"extract"}},
		WithRunner(&testutil.RecordingRunner{}), WithDialer(dial))
	require.NoError(t, err)

	// --- Act ---
	err = a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "/", got.Namespace)
	require.Len(t, em.events, 2)
	assert.Equal(t, notify.StatusStarted, em.events[0].Status)
	assert.Equal(t, notify.StatusSucceeded, em.events[1].Status)
	assert.Equal(t, "extract", em.events[1].Step)
	assert.Equal(t, a.runID, em.events[1].RunID)
	assert.True(t, em.closed, "the notifier is closed when the run ends")
}

func TestApp_UnreachableNotifierDoesNotFailTheBuild(t *testing.T) {
	t.Parallel()

	root := genericProject(t, map[string]string{
		"i18n.hcl": `notify { url = "http://localhost:1/socket.io/" }`,
	})
	dial := func(context.Context, *config.Notify) (notify.Emitter, error) {
		return nil, errors.New("connection refused")
	}
	a, logs, err := newTestApp(t, Config{Dir: root, Tasks: []string{"compile"}},
		WithRunner(&testutil.RecordingRunner{}), WithDialer(dial))
	require.NoError(t, err)

	require.NoError(t, a.Run(context.Background()))
	assert.Contains(t, logs.String(), "Notify server unreachable")
}

func TestNewConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := NewConfig(Config{})

	require.NoError(t, err)
	assert.Equal(t, ".", cfg.Dir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, []string{taskgraph.DefaultTask}, cfg.Tasks)
}
