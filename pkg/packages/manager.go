package packages

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/omarchy-setup/pkg/aur"
	"github.com/arthur-debert/omarchy-setup/pkg/change"
	"github.com/arthur-debert/omarchy-setup/pkg/config"
	"github.com/arthur-debert/omarchy-setup/pkg/errors"
	"github.com/arthur-debert/omarchy-setup/pkg/filesystem"
	"github.com/arthur-debert/omarchy-setup/pkg/logging"
	"github.com/arthur-debert/omarchy-setup/pkg/paths"
	"github.com/arthur-debert/omarchy-setup/pkg/textedit"
)

// Default file names inside the data directory.
const (
	ListFileName   = "packages.list"
	ScriptFileName = "setup-omarchy"
	component      = "packages"
)

// Manager keeps packages.list, the replay script and the installed set in
// step.
type Manager struct {
	client     *aur.Client
	editor     *textedit.Editor
	listPath   string
	scriptPath string
	flags      []string
	logger     zerolog.Logger
}

// NewManager creates a Manager. Empty list and script paths resolve to the
// data directory.
func NewManager(client *aur.Client, editor *textedit.Editor, cfg config.Packages, p *paths.Paths) *Manager {
	listPath := filepath.Join(p.DataDir(), ListFileName)
	if cfg.ListFile != "" {
		listPath = p.Expand(cfg.ListFile)
	}
	scriptPath := filepath.Join(p.DataDir(), ScriptFileName)
	if cfg.ScriptFile != "" {
		scriptPath = p.Expand(cfg.ScriptFile)
	}
	return &Manager{
		client:     client,
		editor:     editor,
		listPath:   listPath,
		scriptPath: scriptPath,
		flags:      cfg.HelperFlags,
		logger:     logging.GetLogger("packages"),
	}
}

// ListPath returns the location of packages.list.
func (m *Manager) ListPath() string { return m.listPath }

// ScriptPath returns the location of the generated script.
func (m *Manager) ScriptPath() string { return m.scriptPath }

// Load reads packages.list. A missing file is an empty list.
func (m *Manager) Load() (*List, error) {
	data, _, err := filesystem.ReadFileOrEmpty(m.editor.FS(), m.listPath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", m.listPath)
	}
	return ParseList(string(data)), nil
}

// List returns the listed package names in order.
func (m *Manager) List() ([]string, error) {
	l, err := m.Load()
	if err != nil {
		return nil, err
	}
	return l.Names(), nil
}

// Add installs names (unless saveOnly or already installed), records them
// in the list and regenerates the script. Every name is validated before
// anything runs.
func (m *Manager) Add(ctx context.Context, names []string, saveOnly bool) ([]change.Change, error) {
	for _, name := range names {
		if err := aur.ValidateName(name); err != nil {
			return nil, err
		}
	}

	list, err := m.Load()
	if err != nil {
		return nil, err
	}

	var changes []change.Change
	for _, name := range names {
		if !saveOnly {
			c, err := m.install(ctx, name)
			if err != nil {
				return changes, err
			}
			changes = append(changes, c)
		}
		if _, err := list.Add(name); err != nil {
			return changes, err
		}
	}

	return m.save(list, changes)
}

func (m *Manager) install(ctx context.Context, name string) (change.Change, error) {
	c := change.Change{Component: component, Target: name}
	installed, err := m.client.IsInstalled(ctx, name)
	if err != nil {
		return c, err
	}
	if installed {
		c.Action = change.Skipped
		c.Detail = "already installed"
		return c, nil
	}
	if err := m.client.Install(ctx, name); err != nil {
		c.Action = change.Failed
		return c, err
	}
	c.Action = change.Executed
	c.Detail = "installed with " + m.client.Helper()
	return c, nil
}

// Remove drops names from the list and optionally uninstalls the installed
// ones. Names that are not listed are reported as skipped.
func (m *Manager) Remove(ctx context.Context, names []string, uninstall bool) ([]change.Change, error) {
	list, err := m.Load()
	if err != nil {
		return nil, err
	}

	var changes []change.Change
	var toUninstall []string
	for _, name := range names {
		if !list.Remove(name) {
			m.logger.Warn().Str("package", name).Msg("Package not in list")
			changes = append(changes, change.Change{Component: component, Target: name, Action: change.Skipped, Detail: "not listed"})
		}
		if !uninstall {
			continue
		}
		installed, err := m.client.IsInstalled(ctx, name)
		if err != nil {
			return changes, err
		}
		if installed {
			toUninstall = append(toUninstall, name)
		}
	}

	if len(toUninstall) > 0 {
		if err := m.client.Remove(ctx, toUninstall...); err != nil {
			return changes, err
		}
		for _, name := range toUninstall {
			changes = append(changes, change.Change{Component: component, Target: name, Action: change.Removed, Detail: "uninstalled"})
		}
	}

	return m.save(list, changes)
}

// Sync regenerates the script from the list. With run, every listed package
// pacman reports missing is installed, in list order.
func (m *Manager) Sync(ctx context.Context, run bool) ([]change.Change, error) {
	list, err := m.Load()
	if err != nil {
		return nil, err
	}

	var changes []change.Change
	c, err := m.writeScript(list)
	if err != nil {
		return nil, err
	}
	changes = append(changes, c)

	if !run {
		return changes, nil
	}

	missing, err := m.client.Missing(ctx, list.Names())
	if err != nil {
		return changes, err
	}
	if len(missing) == 0 {
		m.logger.Info().Msg("All listed packages are installed")
		return changes, nil
	}
	if err := m.client.Install(ctx, missing...); err != nil {
		return changes, err
	}
	for _, name := range missing {
		changes = append(changes, change.Change{Component: component, Target: name, Action: change.Executed, Detail: "installed with " + m.client.Helper()})
	}
	return changes, nil
}

func (m *Manager) save(list *List, changes []change.Change) ([]change.Change, error) {
	c, err := m.editor.WriteContent(component, m.listPath, 0644, []byte(list.String()))
	if err != nil {
		return changes, err
	}
	changes = append(changes, c)

	c, err = m.writeScript(list)
	if err != nil {
		return changes, err
	}
	return append(changes, c), nil
}

func (m *Manager) writeScript(list *List) (change.Change, error) {
	script, err := RenderScript(ScriptData{
		ListFile: m.listPath,
		Helper:   m.client.Helper(),
		Flags:    m.flags,
		Packages: list.Names(),
	})
	if err != nil {
		return change.Change{Component: component, Target: m.scriptPath}, err
	}
	return m.editor.WriteContent(component, m.scriptPath, 0755, script)
}
