package runner

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/omarchy-setup/pkg/logging"
)

// DryRunner records mutating commands without running them. Read-only
// queries are delegated to the wrapped runner.
type DryRunner struct {
	inner    Runner
	logger   zerolog.Logger
	recorded []Command
}

// NewDryRunner wraps inner for dry-run mode.
func NewDryRunner(inner Runner) *DryRunner {
	return &DryRunner{
		inner:  inner,
		logger: logging.GetLogger("runner.dry"),
	}
}

// Run records cmd, or delegates it when it is read-only.
func (d *DryRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	if cmd.ReadOnly {
		return d.inner.Run(ctx, cmd)
	}
	d.logger.Info().Str("command", cmd.String()).Msg("Dry run - command not executed")
	d.recorded = append(d.recorded, cmd)
	return Result{}, nil
}

// LookPath delegates to the wrapped runner.
func (d *DryRunner) LookPath(name string) (string, error) {
	return d.inner.LookPath(name)
}

// Recorded returns the commands that would have been executed.
func (d *DryRunner) Recorded() []Command {
	return append([]Command(nil), d.recorded...)
}
