package runner

import (
	"io"
	"strings"

	"al.essio.dev/pkg/shellescape"
	"github.com/google/shlex"

	"github.com/arthur-debert/omarchy-setup/pkg/errors"
)

// Command describes one external program invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
	Env  map[string]string

	Stdin io.Reader

	// ReadOnly marks queries that do not change system state. They still
	// run in dry-run mode.
	ReadOnly bool

	// Interactive attaches the process to the terminal instead of capturing
	// its output (yay prompts, search listings).
	Interactive bool
}

// New builds a Command from a program name and arguments.
func New(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// Query builds a read-only Command.
func Query(name string, args ...string) Command {
	return Command{Name: name, Args: args, ReadOnly: true}
}

// Parse splits a shell-like command string (from configuration) into a Command.
func Parse(s string) (Command, error) {
	parts, err := shlex.Split(s)
	if err != nil {
		return Command{}, errors.Wrapf(err, errors.ErrInvalidInput, "cannot parse command %q", s)
	}
	if len(parts) == 0 {
		return Command{}, errors.New(errors.ErrInvalidInput, "empty command")
	}
	return Command{Name: parts[0], Args: parts[1:]}, nil
}

// With returns a copy of c with extra arguments appended.
func (c Command) With(args ...string) Command {
	c.Args = append(append([]string{}, c.Args...), args...)
	return c
}

// AsQuery returns a read-only copy of c.
func (c Command) AsQuery() Command {
	c.ReadOnly = true
	return c
}

// String renders the command as a copy-pasteable shell line.
func (c Command) String() string {
	return shellescape.QuoteCommand(append([]string{c.Name}, c.Args...))
}

// Result is the captured outcome of a command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Lines returns the non-empty trimmed lines of stdout.
func (r Result) Lines() []string {
	var out []string
	for _, l := range strings.Split(r.Stdout, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
