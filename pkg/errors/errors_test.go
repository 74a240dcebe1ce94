package errors_test

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/omarchy-setup/pkg/errors"
	"github.com/arthur-debert/omarchy-setup/pkg/runner"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "missing tool",
			err:  errors.Newf(errors.ErrMissingTool, "required tool(s) not found: %s", "snapper"),
			want: "[MISSING_TOOL] required tool(s) not found: snapper",
		},
		{
			name: "busy device",
			err:  errors.New(errors.ErrDeviceBusy, "/dev/sda is in use"),
			want: "[DEVICE_BUSY] /dev/sda is in use",
		},
		{
			name: "lock held",
			err:  errors.Wrap(fmt.Errorf("resource temporarily unavailable"), errors.ErrLocked, "another setup is running"),
			want: "[LOCKED] another setup is running: resource temporarily unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWrapNilStaysNil(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, errors.ErrFileWrite, "write failed"))
	assert.Nil(t, errors.Wrapf(nil, errors.ErrFileWrite, "write %s", "~/.bashrc"))
}

func TestCodeSurvivesWrapping(t *testing.T) {
	busy := errors.New(errors.ErrDeviceBusy, "/dev/nvme0n1 is in use")
	outer := fmt.Errorf("disk layout: %w", busy)

	assert.True(t, errors.IsErrorCode(outer, errors.ErrDeviceBusy))
	assert.False(t, errors.IsErrorCode(outer, errors.ErrAborted))
	assert.Equal(t, errors.ErrDeviceBusy, errors.GetErrorCode(outer))

	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(fmt.Errorf("plain")))
	assert.Nil(t, errors.GetErrorDetails(fmt.Errorf("plain")))
}

func TestIsMatchesOnCode(t *testing.T) {
	err := errors.Newf(errors.ErrLocked, "lock %s is held", "/state/setup.lock")

	assert.True(t, stderrors.Is(err, errors.New(errors.ErrLocked, "")))
	assert.True(t, stderrors.Is(fmt.Errorf("setup: %w", err), errors.New(errors.ErrLocked, "other text")))
	assert.False(t, stderrors.Is(err, errors.New(errors.ErrMissingTool, "")))
	assert.False(t, stderrors.Is(err, fmt.Errorf("lock /state/setup.lock is held")))
}

func TestUnwrapReachesCause(t *testing.T) {
	err := errors.Wrapf(fs.ErrNotExist, errors.ErrFileAccess, "cannot read %s", "/proc/self/mounts")
	assert.True(t, stderrors.Is(err, fs.ErrNotExist))
	assert.Equal(t, fs.ErrNotExist, stderrors.Unwrap(err))
}

func TestDetails(t *testing.T) {
	err := errors.Newf(errors.ErrMissingTool, "%d required tool(s) missing", 2).
		WithDetail("tools", []string{"snapper", "parted"}).
		WithDetails(map[string]interface{}{"section": "snapper"})

	details := errors.GetErrorDetails(err)
	assert.Equal(t, []string{"snapper", "parted"}, details["tools"])
	assert.Equal(t, "snapper", details["section"])

	var bare errors.SetupError
	bare.WithDetail("device", "/dev/sda")
	assert.Equal(t, "/dev/sda", bare.Details["device"])
}

func TestExitCodeDetail(t *testing.T) {
	failed := errors.New(errors.ErrCommandFailed, "snapper -c root create-config / failed").
		WithDetail("exitCode", 2)
	assert.Equal(t, 2, runner.ExitCode(fmt.Errorf("snapper: %w", failed)))

	require.Equal(t, -1, runner.ExitCode(errors.New(errors.ErrMissingTool, "snapper not found")))
	assert.Equal(t, -1, runner.ExitCode(fmt.Errorf("plain")))
}
