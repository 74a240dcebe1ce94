package runner_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/omarchy-setup/pkg/errors"
	"github.com/arthur-debert/omarchy-setup/pkg/runner"
	"github.com/arthur-debert/omarchy-setup/pkg/testutil"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantName string
		wantArgs []string
		wantErr  bool
	}{
		{name: "simple", input: "supergfxctl --mode", wantName: "supergfxctl", wantArgs: []string{"--mode"}},
		{name: "quoted argument", input: `sh -c "echo hi"`, wantName: "sh", wantArgs: []string{"-c", "echo hi"}},
		{name: "empty", input: "   ", wantErr: true},
		{name: "unterminated quote", input: `echo "oops`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := runner.Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, cmd.Name)
			assert.Equal(t, tt.wantArgs, cmd.Args)
		})
	}
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "yay -S --needed foo", runner.New("yay", "-S", "--needed", "foo").String())
	assert.Equal(t, "mount -o subvol=@home,noatime /dev/sda2 /mnt/home",
		runner.New("mount", "-o", "subvol=@home,noatime", "/dev/sda2", "/mnt/home").String())
	assert.Equal(t, "git commit -m 'two words'", runner.New("git", "commit", "-m", "two words").String())
	assert.Equal(t, "echo 'it'\"'\"'s'", runner.New("echo", "it's").String())
}

func TestCommandWithDoesNotAlias(t *testing.T) {
	base := runner.New("parted", "-s", "/dev/sda")
	a := base.With("mklabel", "gpt")
	b := base.With("print")

	assert.Equal(t, []string{"-s", "/dev/sda"}, base.Args)
	assert.Equal(t, "parted -s /dev/sda mklabel gpt", a.String())
	assert.Equal(t, "parted -s /dev/sda print", b.String())
	assert.True(t, base.AsQuery().ReadOnly)
	assert.False(t, base.ReadOnly)
}

func TestResultLines(t *testing.T) {
	res := runner.Result{Stdout: "ms-python.python\n\n  golang.go  \n"}
	assert.Equal(t, []string{"ms-python.python", "golang.go"}, res.Lines())
	assert.Empty(t, runner.Result{}.Lines())
}

func TestDryRunner(t *testing.T) {
	fake := testutil.NewFakeRunner()
	fake.On("pacman -Qq foo", "foo\n", 0)
	dry := runner.NewDryRunner(fake)
	ctx := context.Background()

	res, err := dry.Run(ctx, runner.Query("pacman", "-Qq", "foo"))
	require.NoError(t, err)
	assert.Equal(t, "foo\n", res.Stdout)

	_, err = dry.Run(ctx, runner.New("yay", "-S", "foo"))
	require.NoError(t, err)

	assert.Equal(t, []string{"pacman -Qq foo"}, fake.Commands())
	recorded := dry.Recorded()
	require.Len(t, recorded, 1)
	assert.Equal(t, "yay -S foo", recorded[0].String())
}

func TestFailureAndExitCode(t *testing.T) {
	cmd := runner.New("wipefs", "-a", "/dev/sda")
	err := runner.Failure(cmd, runner.Result{Stderr: "warning\nwipefs: device busy", ExitCode: 1}, fmt.Errorf("exit status 1"))

	assert.True(t, errors.IsErrorCode(err, errors.ErrCommandFailed))
	assert.Contains(t, err.Error(), "wipefs: device busy")
	assert.NotContains(t, err.Error(), "warning")
	assert.Equal(t, 1, runner.ExitCode(err))
	assert.Equal(t, -1, runner.ExitCode(fmt.Errorf("plain")))
}

func TestRequireTools(t *testing.T) {
	fake := testutil.NewFakeRunner()
	require.NoError(t, runner.RequireTools(fake, "parted", "blkid"))

	fake.Missing["parted"] = true
	fake.Missing["wipefs"] = true
	err := runner.RequireTools(fake, "parted", "blkid", "wipefs")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMissingTool))
	assert.Equal(t, []string{"parted", "wipefs"}, errors.GetErrorDetails(err)["missing"])
}
