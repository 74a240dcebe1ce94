package testutil

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/arthur-debert/omarchy-setup/pkg/runner"
)

type response struct {
	match  string
	prefix bool
	result runner.Result
	err    error
	effect func()
}

// FakeRunner is a scripted runner.Runner. Unscripted commands succeed with
// empty output.
type FakeRunner struct {
	responses []response
	calls     []runner.Command

	// Missing lists binaries LookPath should report as absent.
	Missing map[string]bool
}

// NewFakeRunner creates an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{Missing: map[string]bool{}}
}

// On scripts the result for the exact command line. A non-zero exit code
// makes Run fail the way a real process would.
func (f *FakeRunner) On(cmdline string, stdout string, exitCode int) *FakeRunner {
	f.responses = append(f.responses, response{match: cmdline, result: runner.Result{Stdout: stdout, ExitCode: exitCode}})
	return f
}

// OnPrefix scripts the result for every command line starting with prefix.
func (f *FakeRunner) OnPrefix(prefix string, stdout string, exitCode int) *FakeRunner {
	f.responses = append(f.responses, response{match: prefix, prefix: true, result: runner.Result{Stdout: stdout, ExitCode: exitCode}})
	return f
}

// OnError makes the exact command line fail without starting, as when the
// binary cannot be executed.
func (f *FakeRunner) OnError(cmdline string, err error) *FakeRunner {
	f.responses = append(f.responses, response{match: cmdline, result: runner.Result{ExitCode: -1}, err: err})
	return f
}

// OnEffect runs fn when the exact command line is run, standing in for what
// the real tool would do to the filesystem. The command succeeds.
func (f *FakeRunner) OnEffect(cmdline string, fn func()) *FakeRunner {
	f.responses = append(f.responses, response{match: cmdline, effect: fn})
	return f
}

// Run records cmd and returns the scripted result.
func (f *FakeRunner) Run(_ context.Context, cmd runner.Command) (runner.Result, error) {
	f.calls = append(f.calls, cmd)
	line := cmd.String()

	for i := len(f.responses) - 1; i >= 0; i-- {
		r := f.responses[i]
		if r.match != line && !(r.prefix && strings.HasPrefix(line, r.match)) {
			continue
		}
		if r.effect != nil {
			r.effect()
		}
		if r.err != nil {
			return r.result, runner.Failure(cmd, r.result, r.err)
		}
		if r.result.ExitCode != 0 {
			return r.result, runner.Failure(cmd, r.result, fmt.Errorf("exit status %d", r.result.ExitCode))
		}
		return r.result, nil
	}
	return runner.Result{}, nil
}

// LookPath resolves every binary except those in Missing.
func (f *FakeRunner) LookPath(name string) (string, error) {
	if f.Missing[name] {
		return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
	}
	return "/usr/bin/" + name, nil
}

// Calls returns every command passed to Run.
func (f *FakeRunner) Calls() []runner.Command {
	return append([]runner.Command(nil), f.calls...)
}

// Commands returns the recorded command lines.
func (f *FakeRunner) Commands() []string {
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.String())
	}
	return out
}

// Ran reports whether the exact command line was run.
func (f *FakeRunner) Ran(cmdline string) bool {
	for _, c := range f.calls {
		if c.String() == cmdline {
			return true
		}
	}
	return false
}

// RanPrefix reports whether any command line starting with prefix was run.
func (f *FakeRunner) RanPrefix(prefix string) bool {
	for _, c := range f.calls {
		if strings.HasPrefix(c.String(), prefix) {
			return true
		}
	}
	return false
}

// Reset forgets recorded calls but keeps scripted responses.
func (f *FakeRunner) Reset() {
	f.calls = nil
}
