// Package paths provides centralized path handling for omarchy-setup.
//
// It implements the XDG Base Directory specification for the tool's own
// files and resolves the user and system configuration files that the
// provisioning steps edit.
//
// # Environment Variables
//
//   - OMARCHY_SETUP_CONFIG_DIR: Override config directory (default: $XDG_CONFIG_HOME/omarchy-setup)
//   - OMARCHY_SETUP_DATA_DIR: Override data directory (default: $XDG_DATA_HOME/omarchy-setup)
//   - OMARCHY_SETUP_STATE_DIR: Override state directory (default: $XDG_STATE_HOME/omarchy-setup)
//
// # System root
//
// System files (/etc/fstab, /etc/snapper, /etc/pacman.d/hooks) are resolved
// under a configurable root, "/" by default. Pointing the root at a mounted
// target (or a temp dir in tests) keeps the host untouched.
//
//	p, err := paths.New("/")
//	rc := p.Expand("~/.bashrc")                 // /home/user/.bashrc
//	hypr := p.UserConfig("hypr", "hyprland.conf") // /home/user/.config/hypr/hyprland.conf
//	hooks := p.System("/etc/pacman.d/hooks")    // /etc/pacman.d/hooks
package paths
