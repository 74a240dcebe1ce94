package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/omarchy-setup/pkg/config"
	"github.com/arthur-debert/omarchy-setup/pkg/filesystem"
	"github.com/arthur-debert/omarchy-setup/pkg/paths"
)

// Virtual locations used by every Environment.
const (
	HomeDir = "/virtual/home"
	RootDir = "/virtual/root"
)

// Environment bundles the dependencies most components need, all isolated
// from the host.
type Environment struct {
	t *testing.T

	FS     filesystem.FS
	Paths  *paths.Paths
	Config *config.Config
	Runner *FakeRunner
}

// NewEnvironment creates an in-memory environment with HOME and the XDG
// variables pointing below HomeDir and system paths below RootDir.
func NewEnvironment(t *testing.T) *Environment {
	t.Helper()

	t.Setenv("HOME", HomeDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(HomeDir, ".config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(HomeDir, ".local", "share"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(HomeDir, ".local", "state"))
	t.Setenv(paths.EnvConfigDir, "")
	t.Setenv(paths.EnvDataDir, "")
	t.Setenv(paths.EnvStateDir, "")

	p, err := paths.New(RootDir)
	require.NoError(t, err)

	cfg, err := config.Load(config.LoadOptions{})
	require.NoError(t, err)

	fsys := filesystem.NewMemory()
	require.NoError(t, fsys.MkdirAll(HomeDir, 0755))
	require.NoError(t, fsys.MkdirAll(RootDir, 0755))

	return &Environment{
		t:      t,
		FS:     fsys,
		Paths:  p,
		Config: cfg,
		Runner: NewFakeRunner(),
	}
}

// Home joins parts below the virtual home directory.
func (e *Environment) Home(parts ...string) string {
	return filepath.Join(append([]string{HomeDir}, parts...)...)
}

// WriteFile creates path with content, making parent directories.
func (e *Environment) WriteFile(path, content string) {
	e.t.Helper()
	require.NoError(e.t, e.FS.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(e.t, e.FS.WriteFile(path, []byte(content), 0644))
}

// ReadFile returns the content of path, failing the test if it is missing.
func (e *Environment) ReadFile(path string) string {
	e.t.Helper()
	data, err := e.FS.ReadFile(path)
	require.NoError(e.t, err)
	return string(data)
}

// AssertMissing fails the test if path exists.
func (e *Environment) AssertMissing(path string) {
	e.t.Helper()
	_, err := e.FS.Lstat(path)
	require.Error(e.t, err, "expected %s to be absent", path)
}
