package dotfiles_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/omarchy-setup/pkg/change"
	"github.com/arthur-debert/omarchy-setup/pkg/config"
	"github.com/arthur-debert/omarchy-setup/pkg/dotfiles"
	"github.com/arthur-debert/omarchy-setup/pkg/errors"
	"github.com/arthur-debert/omarchy-setup/pkg/testutil"
	"github.com/arthur-debert/omarchy-setup/pkg/textedit"
)

func newVSCode(env *testutil.Environment, cfg config.Editor) *dotfiles.VSCode {
	if cfg.Command == "" {
		cfg.Command = "code"
	}
	if cfg.SettingsFile == "" {
		cfg.SettingsFile = "~/.config/Code/User/settings.json"
	}
	return dotfiles.NewVSCode(textedit.NewEditor(env.FS, false), env.Runner, env.Paths, cfg)
}

func TestInstallExtensions(t *testing.T) {
	env := testutil.NewEnvironment(t)
	env.Runner.On("code --list-extensions", "ms-python.python\nGolang.Go\n", 0)

	v := newVSCode(env, config.Editor{Extensions: []string{"golang.go", "rust-lang.rust-analyzer"}})
	changes, err := v.InstallExtensions(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"code --list-extensions",
		"code --install-extension rust-lang.rust-analyzer",
	}, env.Runner.Commands())
	require.Len(t, changes, 2)
	assert.Equal(t, change.Unchanged, changes[0].Action)
	assert.Equal(t, change.Executed, changes[1].Action)
}

func TestInstallExtensionsRequiresCode(t *testing.T) {
	env := testutil.NewEnvironment(t)
	env.Runner.Missing["code"] = true

	v := newVSCode(env, config.Editor{Extensions: []string{"golang.go"}})
	_, err := v.InstallExtensions(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMissingTool))

	v = newVSCode(env, config.Editor{})
	changes, err := v.InstallExtensions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestMergeSettingsKeepsComments(t *testing.T) {
	env := testutil.NewEnvironment(t)
	v := newVSCode(env, config.Editor{Settings: []config.Setting{
		{Key: "editor.fontFamily", Value: "JetBrainsMono Nerd Font"},
		{Key: "editor.fontSize", Value: int64(14)},
		{Key: "workbench.colorTheme", Value: "Tokyo Night"},
	}})
	path := v.SettingsFile()
	env.WriteFile(path, `{
  // keep me
  "workbench.colorTheme": "Tokyo Night",
  "files.autoSave": "afterDelay",
}
`)

	c, err := v.MergeSettings()
	require.NoError(t, err)
	assert.Equal(t, change.Updated, c.Action)
	assert.Equal(t, "set editor.fontFamily, editor.fontSize", c.Detail)

	out := env.ReadFile(path)
	assert.Contains(t, out, "// keep me")
	assert.Contains(t, out, `"files.autoSave"`)
	assert.Contains(t, out, `"editor.fontFamily"`)
	assert.Equal(t, 1, strings.Count(out, "workbench.colorTheme"))

	doc, err := dotfiles.ParseJSONC([]byte(out))
	require.NoError(t, err)
	assert.True(t, doc.Equal("/editor.fontSize", 14))

	c, err = v.MergeSettings()
	require.NoError(t, err)
	assert.Equal(t, change.Unchanged, c.Action)
}

func TestMergeSettingsCreatesFile(t *testing.T) {
	env := testutil.NewEnvironment(t)
	v := newVSCode(env, config.Editor{Settings: []config.Setting{{Key: "window.titleBarStyle", Value: "custom"}}})

	c, err := v.MergeSettings()
	require.NoError(t, err)
	assert.Equal(t, change.Created, c.Action)

	doc, err := dotfiles.ParseJSONC([]byte(env.ReadFile(v.SettingsFile())))
	require.NoError(t, err)
	got, ok := doc.Get("/window.titleBarStyle")
	require.True(t, ok)
	assert.Equal(t, "custom", got)
}

func TestPointerToken(t *testing.T) {
	assert.Equal(t, "a~1b~0c", dotfiles.PointerToken("a/b~c"))
}
