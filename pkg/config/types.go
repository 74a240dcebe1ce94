package config

// Config is the complete, merged configuration.
type Config struct {
	Packages Packages `koanf:"packages" toml:"packages"`
	Shell    Shell    `koanf:"shell" toml:"shell"`
	Git      Git      `koanf:"git" toml:"git"`
	Editor   Editor   `koanf:"editor" toml:"editor"`
	Dotfiles Dotfiles `koanf:"dotfiles" toml:"dotfiles"`
	Hyprland Hyprland `koanf:"hyprland" toml:"hyprland"`
	Waybar   Waybar   `koanf:"waybar" toml:"waybar"`
	Ghostty  Ghostty  `koanf:"ghostty" toml:"ghostty"`
	Fonts    Fonts    `koanf:"fonts" toml:"fonts"`
	Disk     Disk     `koanf:"disk" toml:"disk"`
	Snapper  Snapper  `koanf:"snapper" toml:"snapper"`
	GPU      GPU      `koanf:"gpu" toml:"gpu"`
	Setup    Setup    `koanf:"setup" toml:"setup"`
}

// Packages configures the AUR helper and the package list.
type Packages struct {
	Helper      string   `koanf:"helper" toml:"helper"`
	HelperFlags []string `koanf:"helper_flags" toml:"helper_flags"`
	ListFile    string   `koanf:"list_file" toml:"list_file"`
	ScriptFile  string   `koanf:"script_file" toml:"script_file"`
}

// Shell configures the managed block in the shell rc file.
type Shell struct {
	RCFile  string            `koanf:"rc_file" toml:"rc_file"`
	Env     map[string]string `koanf:"env" toml:"env"`
	Aliases map[string]string `koanf:"aliases" toml:"aliases"`
	Sources []string          `koanf:"sources" toml:"sources"`
	Lines   []string          `koanf:"lines" toml:"lines"`
}

// Setting is a key/value pair whose key may contain dots.
type Setting struct {
	Key   string      `koanf:"key" toml:"key"`
	Value interface{} `koanf:"value" toml:"value"`
}

// Git configures ~/.gitconfig options, keyed as "section.option" or
// "section.subsection.option".
type Git struct {
	File     string    `koanf:"file" toml:"file,omitempty"`
	Settings []Setting `koanf:"settings" toml:"settings"`
}

// Editor configures VS Code.
type Editor struct {
	Command      string    `koanf:"command" toml:"command"`
	SettingsFile string    `koanf:"settings_file" toml:"settings_file"`
	Extensions   []string  `koanf:"extensions" toml:"extensions"`
	Settings     []Setting `koanf:"settings" toml:"settings"`
}

// Link maps a file in the dotfiles repository to a location in $HOME.
type Link struct {
	Source string `koanf:"source" toml:"source"`
	Target string `koanf:"target" toml:"target"`
}

// Dotfiles configures the dotfiles repository.
type Dotfiles struct {
	Repo   string `koanf:"repo" toml:"repo"`
	Branch string `koanf:"branch" toml:"branch"`
	Links  []Link `koanf:"links" toml:"links"`
}

// Hyprland configures lines ensured in hyprland.conf.
type Hyprland struct {
	ConfigFile string   `koanf:"config_file" toml:"config_file"`
	Sources    []string `koanf:"sources" toml:"sources"`
	Binds      []string `koanf:"binds" toml:"binds"`
	Env        []string `koanf:"env" toml:"env"`
	Monitors   []string `koanf:"monitors" toml:"monitors"`
}

// WaybarModule places a module in a bar section and merges its settings.
type WaybarModule struct {
	Name     string                 `koanf:"name" toml:"name"`
	Position string                 `koanf:"position" toml:"position"`
	Settings map[string]interface{} `koanf:"settings" toml:"settings,omitempty"`
}

// Waybar configures config.jsonc.
type Waybar struct {
	ConfigFile string         `koanf:"config_file" toml:"config_file"`
	Modules    []WaybarModule `koanf:"modules" toml:"modules"`
}

// Ghostty configures the ghostty config file.
type Ghostty struct {
	ConfigFile string    `koanf:"config_file" toml:"config_file"`
	Repeatable []string  `koanf:"repeatable" toml:"repeatable"`
	Settings   []Setting `koanf:"settings" toml:"settings"`
}

// Fonts configures fontconfig family preferences.
type Fonts struct {
	ConfigFile string   `koanf:"config_file" toml:"config_file"`
	Monospace  []string `koanf:"monospace" toml:"monospace"`
	SansSerif  []string `koanf:"sans_serif" toml:"sans_serif"`
	Serif      []string `koanf:"serif" toml:"serif"`
}

// Subvolume is a Btrfs subvolume and where it is mounted.
type Subvolume struct {
	Name       string `koanf:"name" toml:"name"`
	Mountpoint string `koanf:"mountpoint" toml:"mountpoint"`
}

// Disk configures the partition and Btrfs layout.
type Disk struct {
	ESPSize      string      `koanf:"esp_size" toml:"esp_size"`
	ESPLabel     string      `koanf:"esp_label" toml:"esp_label"`
	RootLabel    string      `koanf:"root_label" toml:"root_label"`
	MountTarget  string      `koanf:"mount_target" toml:"mount_target"`
	MountOptions string      `koanf:"mount_options" toml:"mount_options"`
	Subvolumes   []Subvolume `koanf:"subvolumes" toml:"subvolumes"`
}

// SnapperConfig names a snapper config and the subvolume it snapshots.
type SnapperConfig struct {
	Name string `koanf:"name" toml:"name"`
	Path string `koanf:"path" toml:"path"`
}

// Snapper configures snapshot policies.
type Snapper struct {
	Configs     []SnapperConfig   `koanf:"configs" toml:"configs"`
	Limits      map[string]string `koanf:"limits" toml:"limits"`
	PacmanHooks bool              `koanf:"pacman_hooks" toml:"pacman_hooks"`
	Timers      []string          `koanf:"timers" toml:"timers"`
	Service     string            `koanf:"service" toml:"service"`
}

// GPUMode is the switch argument and Hyprland env lines for one mode.
type GPUMode struct {
	Arg string   `koanf:"arg" toml:"arg"`
	Env []string `koanf:"env" toml:"env"`
}

// GPU configures GPU mode switching.
type GPU struct {
	Mode          string             `koanf:"mode" toml:"mode"`
	SwitchCommand string             `koanf:"switch_command" toml:"switch_command"`
	StatusCommand string             `koanf:"status_command" toml:"status_command"`
	Service       string             `koanf:"service" toml:"service"`
	EnvFile       string             `koanf:"env_file" toml:"env_file"`
	Modes         map[string]GPUMode `koanf:"modes" toml:"modes"`
}

// Setup configures the all-in-one setup command.
type Setup struct {
	Sections   []string `koanf:"sections" toml:"sections"`
	BestEffort []string `koanf:"best_effort" toml:"best_effort"`
}

// IsBestEffort reports whether a failing section should not abort setup.
func (s Setup) IsBestEffort(section string) bool {
	for _, name := range s.BestEffort {
		if name == section {
			return true
		}
	}
	return false
}
