package provision_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/omarchy-setup/pkg/change"
	"github.com/arthur-debert/omarchy-setup/pkg/config"
	"github.com/arthur-debert/omarchy-setup/pkg/errors"
	"github.com/arthur-debert/omarchy-setup/pkg/provision"
	"github.com/arthur-debert/omarchy-setup/pkg/state"
	"github.com/arthur-debert/omarchy-setup/pkg/testutil"
)

func deps(env *testutil.Environment, dryRun bool) provision.Deps {
	return provision.Deps{
		Config: env.Config,
		Paths:  env.Paths,
		FS:     env.FS,
		Runner: env.Runner,
		DryRun: dryRun,
	}
}

func TestSectionNames(t *testing.T) {
	assert.Equal(t, []string{"packages", "shell", "git", "editor", "dotfiles", "desktop", "snapper", "gpu"}, provision.SectionNames())
	assert.Equal(t, config.Sections, provision.SectionNames())
}

func TestPlan(t *testing.T) {
	env := testutil.NewEnvironment(t)
	d := deps(env, false)

	tests := []struct {
		name    string
		enabled []string
		only    []string
		want    []string
		wantErr errors.ErrorCode
	}{
		{name: "all", enabled: provision.SectionNames(), want: provision.SectionNames()},
		{name: "only keeps fixed order", enabled: provision.SectionNames(), only: []string{"gpu", "shell"}, want: []string{"shell", "gpu"}},
		{name: "only ignores blanks", enabled: provision.SectionNames(), only: []string{"", " git "}, want: []string{"git"}},
		{name: "disabled sections dropped", enabled: []string{"git", "shell"}, only: []string{"git", "gpu"}, want: []string{"git"}},
		{name: "unknown only", enabled: provision.SectionNames(), only: []string{"disk"}, wantErr: errors.ErrInvalidInput},
		{name: "unknown configured", enabled: []string{"shell", "printer"}, wantErr: errors.ErrConfigValid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d.Config.Setup.Sections = tt.enabled
			got, err := provision.Plan(d, tt.only)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, tt.wantErr), err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunShellAndGit(t *testing.T) {
	env := testutil.NewEnvironment(t)

	result, err := provision.Run(context.Background(), deps(env, false), provision.Options{Only: []string{"shell", "git"}})
	require.NoError(t, err)
	require.Len(t, result.Sections, 2)
	assert.Equal(t, "shell", result.Sections[0].Name)
	assert.Equal(t, "git", result.Sections[1].Name)
	assert.NoError(t, result.BestEffort)

	assert.Contains(t, env.ReadFile(env.Home(".bashrc")), "export EDITOR=nvim")
	assert.Contains(t, env.ReadFile(env.Home(".gitconfig")), "defaultBranch = main")
	assert.Equal(t, 2, result.Report.Count(change.Created))

	again, err := provision.Run(context.Background(), deps(env, false), provision.Options{Only: []string{"shell", "git"}})
	require.NoError(t, err)
	assert.Equal(t, 0, again.Report.Mutations())
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	env := testutil.NewEnvironment(t)
	env.Config.GPU.Mode = "hybrid"
	env.Runner.On("snapper -c root create-config /", "", 1)

	result, err := provision.Run(context.Background(), deps(env, false), provision.Options{Only: []string{"snapper", "gpu"}})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCommandFailed))
	assert.Equal(t, "snapper", errors.GetErrorDetails(err)["section"])

	require.Len(t, result.Sections, 1)
	assert.False(t, env.Runner.RanPrefix("supergfxctl"))
}

func TestRunBestEffortContinues(t *testing.T) {
	env := testutil.NewEnvironment(t)
	env.Config.Setup.BestEffort = []string{"snapper"}
	env.Runner.On("snapper -c root create-config /", "", 1)

	result, err := provision.Run(context.Background(), deps(env, false), provision.Options{Only: []string{"snapper", "gpu"}})
	require.NoError(t, err)
	require.Len(t, result.Sections, 2)
	assert.Error(t, result.Sections[0].Err)
	assert.NoError(t, result.Sections[1].Err)
	require.Error(t, result.BestEffort)
	assert.Contains(t, result.BestEffort.Error(), "section snapper")
}

func TestRunDryRunWritesNothing(t *testing.T) {
	env := testutil.NewEnvironment(t)

	result, err := provision.Run(context.Background(), deps(env, true), provision.Options{Only: []string{"shell", "desktop"}})
	require.NoError(t, err)
	assert.NotZero(t, result.Report.Mutations())

	env.AssertMissing(env.Home(".bashrc"))
	env.AssertMissing(env.Home(".config", "ghostty", "config"))
}

func TestRunRefusesConcurrentRuns(t *testing.T) {
	env := testutil.NewEnvironment(t)
	lockFile := filepath.Join(t.TempDir(), "omarchy-setup.lock")

	held, err := state.Acquire(lockFile)
	require.NoError(t, err)

	_, err = provision.Run(context.Background(), deps(env, false), provision.Options{Only: []string{"shell"}, LockFile: lockFile})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrLocked))
	env.AssertMissing(env.Home(".bashrc"))

	require.NoError(t, held.Release())
	_, err = provision.Run(context.Background(), deps(env, false), provision.Options{Only: []string{"shell"}, LockFile: lockFile})
	require.NoError(t, err)
}

func TestRunHonorsCancellation(t *testing.T) {
	env := testutil.NewEnvironment(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := provision.Run(ctx, deps(env, false), provision.Options{Only: []string{"shell"}})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAborted))
}
