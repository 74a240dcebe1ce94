package runner

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/omarchy-setup/pkg/errors"
	"github.com/arthur-debert/omarchy-setup/pkg/logging"
)

// Runner runs external commands.
type Runner interface {
	// Run executes cmd. A non-zero exit status is returned as an
	// ErrCommandFailed error alongside the captured Result.
	Run(ctx context.Context, cmd Command) (Result, error)
	// LookPath resolves a binary on PATH.
	LookPath(name string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	logger zerolog.Logger
	stdout io.Writer
	stderr io.Writer
}

// NewExecRunner creates a runner that executes commands on the host.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		logger: logging.GetLogger("runner"),
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// Run executes cmd and captures its output unless it is interactive.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	logging.LogCommand(r.logger, cmd.Name, cmd.Args)

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdin = cmd.Stdin
	if len(cmd.Env) > 0 {
		c.Env = os.Environ()
		keys := make([]string, 0, len(cmd.Env))
		for k := range cmd.Env {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			c.Env = append(c.Env, fmt.Sprintf("%s=%s", k, cmd.Env[k]))
		}
	}

	var stdout, stderr bytes.Buffer
	if cmd.Interactive {
		if c.Stdin == nil {
			c.Stdin = os.Stdin
		}
		c.Stdout = r.stdout
		c.Stderr = r.stderr
	} else {
		c.Stdout = &stdout
		c.Stderr = &stderr
	}

	err := c.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if stdout.Len() > 0 {
		r.logger.Trace().Str("output", res.Stdout).Msg("Command stdout")
	}
	if stderr.Len() > 0 {
		r.logger.Debug().Str("output", res.Stderr).Msg("Command stderr")
	}

	if err != nil {
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.ExitCode = -1
		}
		r.logger.Debug().
			Err(err).
			Str("command", cmd.String()).
			Int("exitCode", res.ExitCode).
			Msg("Command failed")
		return res, Failure(cmd, res, err)
	}

	r.logger.Debug().Str("command", cmd.Name).Msg("Command executed successfully")
	return res, nil
}

// LookPath resolves name on PATH.
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Failure builds the error returned for a failed command.
func Failure(cmd Command, res Result, err error) error {
	msg := fmt.Sprintf("command failed: %s", cmd.String())
	if s := strings.TrimSpace(res.Stderr); s != "" {
		msg = fmt.Sprintf("%s: %s", msg, lastLine(s))
	}
	return errors.Wrap(err, errors.ErrCommandFailed, msg).
		WithDetail("command", cmd.String()).
		WithDetail("exitCode", res.ExitCode)
}

func lastLine(s string) string {
	if i := strings.LastIndex(s, "\n"); i >= 0 {
		return s[i+1:]
	}
	return s
}

// ExitCode returns the exit code carried by a command failure, or -1.
func ExitCode(err error) int {
	details := errors.GetErrorDetails(err)
	if code, ok := details["exitCode"].(int); ok {
		return code
	}
	return -1
}

// RequireTools fails with ErrMissingTool listing every binary not on PATH.
func RequireTools(r Runner, names ...string) error {
	var missing []string
	for _, name := range names {
		if _, err := r.LookPath(name); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return errors.Newf(errors.ErrMissingTool, "missing required commands: %s", strings.Join(missing, ", ")).
			WithDetail("missing", missing)
	}
	return nil
}
