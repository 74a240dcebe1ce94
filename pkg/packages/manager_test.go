package packages_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/omarchy-setup/pkg/aur"
	"github.com/arthur-debert/omarchy-setup/pkg/change"
	"github.com/arthur-debert/omarchy-setup/pkg/errors"
	"github.com/arthur-debert/omarchy-setup/pkg/packages"
	"github.com/arthur-debert/omarchy-setup/pkg/runner"
	"github.com/arthur-debert/omarchy-setup/pkg/testutil"
	"github.com/arthur-debert/omarchy-setup/pkg/textedit"
)

func newManager(env *testutil.Environment, r runner.Runner, dryRun bool) *packages.Manager {
	client := aur.New(r, env.Config.Packages.Helper, env.Config.Packages.HelperFlags)
	return packages.NewManager(client, textedit.NewEditor(env.FS, dryRun), env.Config.Packages, env.Paths)
}

func TestAddInstallsAndRecords(t *testing.T) {
	env := testutil.NewEnvironment(t)
	env.Runner.On("pacman -Qq git", "", 1)
	m := newManager(env, env.Runner, false)

	changes, err := m.Add(context.Background(), []string{"git"}, false)
	require.NoError(t, err)

	assert.True(t, env.Runner.Ran("yay -S --needed --noconfirm git"))
	assert.Equal(t, "git\n", env.ReadFile(m.ListPath()))
	assert.Contains(t, env.ReadFile(m.ScriptPath()), "  git\n")
	assert.Equal(t, filepath.Join(env.Paths.DataDir(), packages.ListFileName), m.ListPath())

	info, err := env.FS.Stat(m.ScriptPath())
	require.NoError(t, err)
	assert.Equal(t, "-rwxr-xr-x", info.Mode().Perm().String())

	require.Len(t, changes, 3)
	assert.Equal(t, change.Executed, changes[0].Action)
	assert.Equal(t, change.Created, changes[1].Action)
	assert.Equal(t, change.Created, changes[2].Action)
}

func TestAddTwiceIsNoop(t *testing.T) {
	env := testutil.NewEnvironment(t)
	env.Runner.On("pacman -Qq git", "git\n", 0)
	m := newManager(env, env.Runner, false)
	ctx := context.Background()

	_, err := m.Add(ctx, []string{"git"}, false)
	require.NoError(t, err)
	changes, err := m.Add(ctx, []string{"git"}, false)
	require.NoError(t, err)

	assert.False(t, env.Runner.RanPrefix("yay"))
	assert.Equal(t, "git\n", env.ReadFile(m.ListPath()))
	for _, c := range changes {
		assert.False(t, c.Mutated(), c.String())
	}
}

func TestAddSaveOnly(t *testing.T) {
	env := testutil.NewEnvironment(t)
	m := newManager(env, env.Runner, false)

	_, err := m.Add(context.Background(), []string{"ghostty", "waybar"}, true)
	require.NoError(t, err)

	assert.Empty(t, env.Runner.Commands())
	names, err := m.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"ghostty", "waybar"}, names)
}

func TestAddValidatesBeforeRunning(t *testing.T) {
	env := testutil.NewEnvironment(t)
	m := newManager(env, env.Runner, false)

	_, err := m.Add(context.Background(), []string{"git", "--overwrite"}, false)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPackageInvalid))
	assert.Empty(t, env.Runner.Commands())
	env.AssertMissing(m.ListPath())
}

func TestAddDryRun(t *testing.T) {
	env := testutil.NewEnvironment(t)
	env.Runner.On("pacman -Qq git", "", 1)
	dry := runner.NewDryRunner(env.Runner)
	m := newManager(env, dry, true)

	changes, err := m.Add(context.Background(), []string{"git"}, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"pacman -Qq git"}, env.Runner.Commands())
	require.Len(t, dry.Recorded(), 1)
	env.AssertMissing(m.ListPath())
	assert.Equal(t, change.Created, changes[1].Action)
}

func TestRemove(t *testing.T) {
	env := testutil.NewEnvironment(t)
	env.Runner.On("pacman -Qq ghostty", "ghostty\n", 0)
	env.Runner.On("pacman -Qq nope", "", 1)
	m := newManager(env, env.Runner, false)
	env.WriteFile(m.ListPath(), "# terminal\nghostty\ngit\n")

	changes, err := m.Remove(context.Background(), []string{"ghostty", "nope"}, true)
	require.NoError(t, err)

	assert.Equal(t, "# terminal\ngit\n", env.ReadFile(m.ListPath()))
	assert.True(t, env.Runner.Ran("yay -Rns --noconfirm ghostty"))
	assert.False(t, env.Runner.RanPrefix("yay -Rns --noconfirm nope"))

	assert.Equal(t, change.Skipped, changes[0].Action)
	assert.Equal(t, "nope", changes[0].Target)
}

func TestSyncRunInstallsMissingInOrder(t *testing.T) {
	env := testutil.NewEnvironment(t)
	env.Runner.On("pacman -Qq ghostty", "", 1)
	env.Runner.On("pacman -Qq waybar", "", 1)
	m := newManager(env, env.Runner, false)
	env.WriteFile(m.ListPath(), "waybar\ngit\nghostty\n")

	_, err := m.Sync(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, env.Runner.Commands())
	assert.Contains(t, env.ReadFile(m.ScriptPath()), "  waybar\n  git\n  ghostty\n")

	changes, err := m.Sync(context.Background(), true)
	require.NoError(t, err)
	assert.True(t, env.Runner.Ran("yay -S --needed --noconfirm waybar ghostty"))
	assert.Equal(t, change.Unchanged, changes[0].Action)
	assert.Len(t, changes, 3)
}
