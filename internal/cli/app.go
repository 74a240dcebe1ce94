package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/omarchy-setup/pkg/change"
	"github.com/arthur-debert/omarchy-setup/pkg/config"
	"github.com/arthur-debert/omarchy-setup/pkg/disk"
	"github.com/arthur-debert/omarchy-setup/pkg/dotfiles"
	"github.com/arthur-debert/omarchy-setup/pkg/filesystem"
	"github.com/arthur-debert/omarchy-setup/pkg/logging"
	"github.com/arthur-debert/omarchy-setup/pkg/paths"
	"github.com/arthur-debert/omarchy-setup/pkg/provision"
	"github.com/arthur-debert/omarchy-setup/pkg/runner"
	"github.com/arthur-debert/omarchy-setup/pkg/textedit"
	"github.com/arthur-debert/omarchy-setup/pkg/ui"
)

// annotationBare marks commands that run without paths or configuration.
const annotationBare = "omarchy-setup/bare"

// App carries the global flags and everything commands are built from.
// Zero-value fields are filled with the host implementations.
type App struct {
	FS      filesystem.FS
	Runner  runner.Runner
	System  disk.System
	Fetcher dotfiles.Fetcher
	Confirm disk.ConfirmFunc
	Out     io.Writer
	Err     io.Writer

	verbosity  int
	dryRun     bool
	configFile string
	root       string
	format     string

	cfg     *config.Config
	paths   *paths.Paths
	runner  runner.Runner
	printer *ui.Printer
}

// NewApp creates an App wired to the host system.
func NewApp() *App {
	return &App{}
}

func (a *App) defaults() {
	if a.FS == nil {
		a.FS = filesystem.NewOS()
	}
	if a.Runner == nil {
		a.Runner = runner.NewExecRunner()
	}
	if a.System == nil {
		a.System = disk.NewLocalSystem()
	}
	if a.Confirm == nil {
		a.Confirm = ui.Confirm
	}
	if a.Out == nil {
		a.Out = os.Stdout
	}
	if a.Err == nil {
		a.Err = os.Stderr
	}
}

// setup runs before every command: logging, output format and, unless the
// command is bare, paths, configuration and the command runner.
func (a *App) setup(cmd *cobra.Command) error {
	logging.SetupLogger(a.verbosity)
	a.defaults()

	format, err := ui.ParseFormat(a.format)
	if err != nil {
		return err
	}
	a.printer = ui.NewPrinter(a.Out, a.Err, format)

	if isBare(cmd) {
		return nil
	}
	return a.load()
}

func (a *App) load() error {
	if a.cfg != nil {
		return nil
	}
	a.defaults()

	p, err := paths.New(a.root)
	if err != nil {
		return err
	}

	opts := config.LoadOptions{File: a.configFile, Explicit: a.configFile != ""}
	if opts.File == "" {
		opts.File = p.ConfigFile()
	}
	cfg, err := config.Load(opts)
	if err != nil {
		return err
	}

	a.paths = p
	a.cfg = cfg
	a.runner = a.Runner
	if a.dryRun {
		a.runner = runner.NewDryRunner(a.Runner)
	}

	logger := logging.GetLogger("cli")
	logger.Debug().
		Str("config", config.Describe(opts)).
		Str("root", p.Root()).
		Bool("dryRun", a.dryRun).
		Msg("Configuration loaded")
	return nil
}

func isBare(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "help", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return true
	}
	return cmd.Annotations[annotationBare] == "true"
}

func bare() map[string]string {
	return map[string]string{annotationBare: "true"}
}

// Printer returns the output printer, creating a default one when the
// command line failed before setup ran.
func (a *App) Printer() *ui.Printer {
	if a.printer == nil {
		a.defaults()
		a.printer = ui.NewPrinter(a.Out, a.Err, ui.FormatAuto)
	}
	return a.printer
}

func (a *App) editor() *textedit.Editor {
	return textedit.NewEditor(a.FS, a.dryRun)
}

func (a *App) deps() provision.Deps {
	return provision.Deps{
		Config:  a.cfg,
		Paths:   a.paths,
		FS:      a.FS,
		Runner:  a.runner,
		Fetcher: a.Fetcher,
		DryRun:  a.dryRun,
	}
}

// section builds and applies one provisioning section and prints its report.
func (a *App) section(cmd *cobra.Command, name string) error {
	s, err := provision.NewSection(name, a.deps())
	if err != nil {
		return err
	}
	return a.finish(s.Apply(cmd.Context()))
}

// finish prints the changes of an operation, also when it failed part way.
func (a *App) finish(changes []change.Change, err error) error {
	if perr := a.report(changes); perr != nil && err == nil {
		return perr
	}
	return err
}

func (a *App) report(changes []change.Change) error {
	var report change.Report
	report.Add(changes...)
	return a.printer.Report(&report, a.dryRun)
}
