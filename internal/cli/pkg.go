package cli

import (
	"github.com/spf13/cobra"

	"github.com/arthur-debert/omarchy-setup/internal/commands"
	"github.com/arthur-debert/omarchy-setup/pkg/aur"
	"github.com/arthur-debert/omarchy-setup/pkg/packages"
	"github.com/arthur-debert/omarchy-setup/pkg/ui"
)

func (a *App) packages() *packages.Manager {
	client := aur.New(a.runner, a.cfg.Packages.Helper, a.cfg.Packages.HelperFlags)
	return packages.NewManager(client, a.editor(), a.cfg.Packages, a.paths)
}

func newPkgCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pkg",
		Aliases: []string{"package"},
		Short:   commands.MsgPkgShort,
	}

	var saveOnly bool
	add := &cobra.Command{
		Use:   "add <name>...",
		Short: commands.MsgPkgAddShort,
		Example: `  # Install and record two packages
  omarchy-setup pkg add ripgrep fd

  # Only record a package for the next setup run
  omarchy-setup pkg add -s visual-studio-code-bin`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.finish(app.packages().Add(cmd.Context(), args, saveOnly))
		},
	}
	add.Flags().BoolVarP(&saveOnly, "save-only", "s", false, commands.MsgFlagSaveOnly)

	var uninstall bool
	remove := &cobra.Command{
		Use:     "remove <name>...",
		Aliases: []string{"rm"},
		Short:   commands.MsgPkgRemoveShort,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.finish(app.packages().Remove(cmd.Context(), args, uninstall))
		},
	}
	remove.Flags().BoolVar(&uninstall, "uninstall", false, commands.MsgFlagUninstall)

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   commands.MsgPkgListShort,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := app.packages().List()
			if err != nil {
				return err
			}
			if app.printer.Format() == ui.FormatJSON {
				if names == nil {
					names = []string{}
				}
				return app.printer.JSON(names)
			}
			if len(names) == 0 {
				app.printer.Message("Muted", commands.MsgListEmpty)
				return nil
			}
			app.printer.Lines(names)
			return nil
		},
	}

	search := &cobra.Command{
		Use:   "search <term>",
		Short: commands.MsgPkgSearchShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := aur.New(app.runner, app.cfg.Packages.Helper, app.cfg.Packages.HelperFlags)
			return client.Search(cmd.Context(), args[0])
		},
	}

	var run bool
	sync := &cobra.Command{
		Use:   "sync",
		Short: commands.MsgPkgSyncShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.finish(app.packages().Sync(cmd.Context(), run))
		},
	}
	sync.Flags().BoolVar(&run, "run", false, commands.MsgFlagRun)

	cmd.AddCommand(add, remove, list, search, sync)
	return cmd
}
