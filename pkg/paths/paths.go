package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/omarchy-setup/pkg/errors"
)

// Environment variable names
const (
	EnvConfigDir = "OMARCHY_SETUP_CONFIG_DIR"
	EnvDataDir   = "OMARCHY_SETUP_DATA_DIR"
	EnvStateDir  = "OMARCHY_SETUP_STATE_DIR"
	EnvHome      = "HOME"
)

// Fixed names inside the tool's own directories. User-configurable paths
// belong in pkg/config.
const (
	AppDirName     = "omarchy-setup"
	ConfigFileName = "config.toml"
	LockFileName   = "omarchy-setup.lock"
	DotfilesDir    = "dotfiles"
)

// Paths resolves every location omarchy-setup reads or writes.
type Paths struct {
	home       string
	configHome string
	configDir  string
	dataDir    string
	stateDir   string
	root       string
}

// New creates a Paths instance. root is the prefix for system paths; an
// empty root means "/".
func New(root string) (*Paths, error) {
	xdg.Reload()

	home, err := HomeDirectory()
	if err != nil {
		return nil, err
	}

	if root == "" {
		root = "/"
	}
	absRoot, err := filepath.Abs(expandWith(home, root))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to resolve system root %s", root)
	}

	p := &Paths{
		home:       home,
		configHome: xdg.ConfigHome,
		root:       absRoot,
	}

	p.configDir = overrideOr(home, EnvConfigDir, filepath.Join(xdg.ConfigHome, AppDirName))
	p.dataDir = overrideOr(home, EnvDataDir, filepath.Join(xdg.DataHome, AppDirName))
	p.stateDir = overrideOr(home, EnvStateDir, filepath.Join(xdg.StateHome, AppDirName))

	return p, nil
}

// HomeDirectory returns the user's home directory, falling back to $HOME.
func HomeDirectory() (string, error) {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return home, nil
	}
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	return "", errors.New(errors.ErrFileAccess, "unable to determine home directory: neither os.UserHomeDir() nor HOME are available")
}

func overrideOr(home, env, fallback string) string {
	if v := os.Getenv(env); v != "" {
		return expandWith(home, v)
	}
	return fallback
}

func expandWith(home, path string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

// Home returns the user's home directory
func (p *Paths) Home() string { return p.home }

// ConfigHome returns $XDG_CONFIG_HOME
func (p *Paths) ConfigHome() string { return p.configHome }

// ConfigDir returns the tool's config directory
func (p *Paths) ConfigDir() string { return p.configDir }

// DataDir returns the tool's data directory
func (p *Paths) DataDir() string { return p.dataDir }

// StateDir returns the tool's state directory
func (p *Paths) StateDir() string { return p.stateDir }

// Root returns the system root prefix
func (p *Paths) Root() string { return p.root }

// ConfigFile returns the default user config file path
func (p *Paths) ConfigFile() string { return filepath.Join(p.configDir, ConfigFileName) }

// LockFile returns the path of the run lock
func (p *Paths) LockFile() string { return filepath.Join(p.stateDir, LockFileName) }

// DotfilesRepo returns where the dotfiles repository is cloned
func (p *Paths) DotfilesRepo() string { return filepath.Join(p.dataDir, DotfilesDir) }

// UserConfig joins parts under $XDG_CONFIG_HOME
func (p *Paths) UserConfig(parts ...string) string {
	return filepath.Join(append([]string{p.configHome}, parts...)...)
}

// Expand resolves a leading ~ against the home directory. Relative paths are
// taken relative to the home directory, which is where rc files live.
func (p *Paths) Expand(path string) string {
	path = expandWith(p.home, path)
	if path != "" && !filepath.IsAbs(path) {
		return filepath.Join(p.home, path)
	}
	return path
}

// System resolves an absolute system path under the root prefix.
func (p *Paths) System(path string) string {
	if p.root == "/" {
		return filepath.Clean(path)
	}
	return filepath.Join(p.root, path)
}

// IsHostRoot reports whether system paths resolve on the running host.
func (p *Paths) IsHostRoot() bool { return p.root == "/" }
