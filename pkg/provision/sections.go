package provision

import (
	"context"

	"github.com/arthur-debert/omarchy-setup/pkg/aur"
	"github.com/arthur-debert/omarchy-setup/pkg/change"
	"github.com/arthur-debert/omarchy-setup/pkg/config"
	"github.com/arthur-debert/omarchy-setup/pkg/desktop"
	"github.com/arthur-debert/omarchy-setup/pkg/dotfiles"
	"github.com/arthur-debert/omarchy-setup/pkg/filesystem"
	"github.com/arthur-debert/omarchy-setup/pkg/gpu"
	"github.com/arthur-debert/omarchy-setup/pkg/packages"
	"github.com/arthur-debert/omarchy-setup/pkg/paths"
	"github.com/arthur-debert/omarchy-setup/pkg/registry"
	"github.com/arthur-debert/omarchy-setup/pkg/runner"
	"github.com/arthur-debert/omarchy-setup/pkg/snapper"
	"github.com/arthur-debert/omarchy-setup/pkg/state"
	"github.com/arthur-debert/omarchy-setup/pkg/textedit"
)

// Section is one provisioning step.
type Section interface {
	Apply(ctx context.Context) ([]change.Change, error)
}

// SectionFunc adapts a function to Section.
type SectionFunc func(ctx context.Context) ([]change.Change, error)

// Apply calls f.
func (f SectionFunc) Apply(ctx context.Context) ([]change.Change, error) { return f(ctx) }

// Deps holds what sections are built from.
type Deps struct {
	Config  *config.Config
	Paths   *paths.Paths
	FS      filesystem.FS
	Runner  runner.Runner
	Fetcher dotfiles.Fetcher
	DryRun  bool
}

// Editor returns a text editor honoring DryRun.
func (d Deps) Editor() *textedit.Editor {
	return textedit.NewEditor(d.FS, d.DryRun)
}

// Factory builds a section.
type Factory func(d Deps) Section

var sections = registry.New[Factory]()

func init() {
	registry.MustRegister(sections, "packages", func(d Deps) Section {
		client := aur.New(d.Runner, d.Config.Packages.Helper, d.Config.Packages.HelperFlags)
		m := packages.NewManager(client, d.Editor(), d.Config.Packages, d.Paths)
		return SectionFunc(func(ctx context.Context) ([]change.Change, error) {
			return m.Sync(ctx, true)
		})
	})
	registry.MustRegister(sections, "shell", func(d Deps) Section {
		return dotfiles.NewShell(d.Editor(), d.Paths, d.Config.Shell)
	})
	registry.MustRegister(sections, "git", func(d Deps) Section {
		return dotfiles.NewGit(d.Editor(), d.Paths, d.Config.Git)
	})
	registry.MustRegister(sections, "editor", func(d Deps) Section {
		return dotfiles.NewVSCode(d.Editor(), d.Runner, d.Paths, d.Config.Editor)
	})
	registry.MustRegister(sections, "dotfiles", func(d Deps) Section {
		fetcher := d.Fetcher
		if fetcher == nil {
			fetcher = dotfiles.NewGitFetcher(d.DryRun)
		}
		return dotfiles.NewRepo(d.FS, fetcher, d.Paths, d.Config.Dotfiles, d.DryRun)
	})
	registry.MustRegister(sections, "desktop", func(d Deps) Section {
		return desktop.NewAll(d.Editor(), d.Paths, d.Config)
	})
	registry.MustRegister(sections, "snapper", func(d Deps) Section {
		return snapper.New(d.Editor(), d.Runner, d.Paths, d.Config.Snapper)
	})
	registry.MustRegister(sections, "gpu", func(d Deps) Section {
		store := state.NewStore(d.FS, d.Paths.StateDir(), d.DryRun)
		return gpu.New(d.Editor(), d.Runner, store, d.Paths, d.Config.GPU, d.Config.Hyprland.ConfigFile)
	})
}

// SectionNames returns every known section in run order.
func SectionNames() []string {
	return sections.Names()
}

// NewSection builds the named section.
func NewSection(name string, d Deps) (Section, error) {
	f, err := sections.Get(name)
	if err != nil {
		return nil, err
	}
	return f(d), nil
}
