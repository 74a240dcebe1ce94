package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/omarchy-setup/internal/commands"
	"github.com/arthur-debert/omarchy-setup/pkg/desktop"
)

func newDesktopCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "desktop",
		Short: commands.MsgDesktopShort,
	}

	for _, target := range desktop.Targets {
		target := target
		cmd.AddCommand(&cobra.Command{
			Use:   target,
			Short: fmt.Sprintf(commands.MsgDesktopTargetFmt, target),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				p := desktop.NewPatcher(target, app.editor(), app.paths, app.cfg)
				return app.finish(p.Apply(cmd.Context()))
			},
		})
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "all",
		Short: commands.MsgDesktopAllShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.section(cmd, "desktop")
		},
	})
	return cmd
}
