package cli

import (
	"github.com/spf13/cobra"

	"github.com/arthur-debert/omarchy-setup/internal/commands"
)

// sectionCmd wraps a provisioning section in a "<name> <verb>" command pair.
func sectionCmd(app *App, use, short, verb, verbShort, section string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   verb,
		Short: verbShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.section(cmd, section)
		},
	})
	return cmd
}

func newShellCmd(app *App) *cobra.Command {
	return sectionCmd(app, "shell", commands.MsgShellShort, "setup", commands.MsgShellSetupShort, "shell")
}

func newGitCmd(app *App) *cobra.Command {
	return sectionCmd(app, "git", commands.MsgGitShort, "setup", commands.MsgGitSetupShort, "git")
}

func newEditorCmd(app *App) *cobra.Command {
	return sectionCmd(app, "editor", commands.MsgEditorShort, "setup", commands.MsgEditorSetupShort, "editor")
}

func newDotfilesCmd(app *App) *cobra.Command {
	return sectionCmd(app, "dotfiles", commands.MsgDotfilesShort, "sync", commands.MsgDotfilesSyncShort, "dotfiles")
}
