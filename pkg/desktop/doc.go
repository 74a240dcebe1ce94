// Package desktop patches the Hyprland, Waybar, Ghostty and fontconfig
// configuration files.
//
// Patches are additive: user content is kept, configured entries are added
// or updated, and a file whose content would not change is not rewritten.
// Missing files are created with their parent directories.
package desktop
