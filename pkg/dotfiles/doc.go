// Package dotfiles configures the user's shell, git, VS Code and the
// dotfiles repository.
//
// Each configurator compares the current state with the configuration and
// only writes when something differs, returning one change.Change per file
// or command it touched.
package dotfiles
