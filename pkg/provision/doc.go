// Package provision runs the setup sections in their fixed order: packages,
// shell, git, editor, dotfiles, desktop, snapper and gpu. The first failing
// section stops the run unless it is configured as best-effort. Disk layout
// is never part of a run.
package provision
