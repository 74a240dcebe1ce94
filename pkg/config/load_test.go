package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/omarchy-setup/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "yay", cfg.Packages.Helper)
	assert.Equal(t, []string{"--needed", "--noconfirm"}, cfg.Packages.HelperFlags)
	assert.Equal(t, "~/.bashrc", cfg.Shell.RCFile)
	assert.Equal(t, "nvim", cfg.Shell.Env["EDITOR"])
	assert.Equal(t, "1GiB", cfg.Disk.ESPSize)
	require.Len(t, cfg.Disk.Subvolumes, 5)
	assert.Equal(t, Subvolume{Name: "@", Mountpoint: "/"}, cfg.Disk.Subvolumes[0])
	assert.Equal(t, "5", cfg.Snapper.Limits["TIMELINE_LIMIT_HOURLY"])
	assert.True(t, cfg.Snapper.PacmanHooks)
	assert.Equal(t, []string{"hybrid", "integrated", "nvidia"}, cfg.GPU.ModeNames())
	assert.Equal(t, "AsusMuxDgpu", cfg.GPU.Modes["nvidia"].Arg)
	assert.Equal(t, Sections, cfg.Setup.Sections)
	require.Len(t, cfg.Git.Settings, 2)
	assert.Equal(t, "init.defaultBranch", cfg.Git.Settings[0].Key)
}

func TestLoadUserTOML(t *testing.T) {
	path := writeFile(t, "config.toml", `
[packages]
helper = "paru"

[disk]
esp_size = "512MiB"

[gpu]
mode = "hybrid"
`)

	cfg, err := Load(LoadOptions{File: path})
	require.NoError(t, err)

	assert.Equal(t, "paru", cfg.Packages.Helper)
	assert.Equal(t, "512MiB", cfg.Disk.ESPSize)
	assert.Equal(t, "hybrid", cfg.GPU.Mode)
	// untouched keys keep defaults
	assert.Equal(t, "omarchy", cfg.Disk.RootLabel)
}

func TestLoadUserYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
hyprland:
  binds:
    - "bind = SUPER, RETURN, exec, ghostty"
shell:
  rc_file: ~/.zshrc
`)

	cfg, err := Load(LoadOptions{File: path})
	require.NoError(t, err)

	assert.Equal(t, []string{"bind = SUPER, RETURN, exec, ghostty"}, cfg.Hyprland.Binds)
	assert.Equal(t, "~/.zshrc", cfg.Shell.RCFile)
}

func TestLoadMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")

	_, err := Load(LoadOptions{File: missing})
	assert.NoError(t, err, "implicit config file may be missing")

	_, err = Load(LoadOptions{File: missing, Explicit: true})
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestLoadInvalidTOML(t *testing.T) {
	path := writeFile(t, "config.toml", "[packages\nhelper=")
	_, err := Load(LoadOptions{File: path})
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("OMARCHY_SETUP_GPU__MODE", "nvidia")
	t.Setenv("OMARCHY_SETUP_DISK__MOUNT_TARGET", "/target")

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "nvidia", cfg.GPU.Mode)
	assert.Equal(t, "/target", cfg.Disk.MountTarget)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(LoadOptions{Overrides: map[string]interface{}{"packages.list_file": "/tmp/list"}})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/list", cfg.Packages.ListFile)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown gpu mode", "[gpu]\nmode = \"quantum\"\n"},
		{"subvolume without @", "[disk]\nsubvolumes = [{ name = \"root\", mountpoint = \"/\" }]\n"},
		{"relative mountpoint", "[disk]\nsubvolumes = [{ name = \"@x\", mountpoint = \"x\" }]\n"},
		{"unknown section", "[setup]\nsections = [\"bootloader\"]\n"},
		{"empty helper", "[packages]\nhelper = \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "config.toml", tt.content)
			_, err := Load(LoadOptions{File: path})
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid), "got %v", err)
		})
	}
}

func TestRender(t *testing.T) {
	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)

	out, err := Render(cfg)
	require.NoError(t, err)

	assert.Contains(t, string(out), "[packages]")
	assert.Contains(t, string(out), "helper = 'yay'")
	assert.Contains(t, string(out), "TIMELINE_LIMIT_DAILY = '7'")
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"A", "B", "c"}, SortedKeys(map[string]string{"c": "", "A": "", "B": ""}))
}
