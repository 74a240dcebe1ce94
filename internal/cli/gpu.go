package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/omarchy-setup/internal/commands"
	"github.com/arthur-debert/omarchy-setup/pkg/gpu"
	"github.com/arthur-debert/omarchy-setup/pkg/state"
	"github.com/arthur-debert/omarchy-setup/pkg/ui"
)

func (a *App) gpu() *gpu.Switcher {
	store := state.NewStore(a.FS, a.paths.StateDir(), a.dryRun)
	return gpu.New(a.editor(), a.runner, store, a.paths, a.cfg.GPU, a.cfg.Hyprland.ConfigFile)
}

func newGPUCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gpu <mode>",
		Short: commands.MsgGPUShort,
		Long:  commands.MsgGPULong,
		Example: `  omarchy-setup gpu hybrid
  omarchy-setup gpu status`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 || app.load() != nil {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return app.cfg.GPU.ModeNames(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.finish(app.gpu().Switch(cmd.Context(), args[0]))
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: commands.MsgGPUStatusShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.gpu().Status(cmd.Context())
			if st == nil {
				return err
			}
			if perr := printGPUStatus(app.printer, st); perr != nil && err == nil {
				err = perr
			}
			return err
		},
	})
	return cmd
}

func printGPUStatus(pr *ui.Printer, st *gpu.Status) error {
	if pr.Format() == ui.FormatJSON {
		return pr.JSON(st)
	}
	orNone := func(s string) string {
		if s == "" {
			return commands.MsgGPUNone
		}
		return s
	}
	pr.Message("Header", fmt.Sprintf(commands.MsgGPUReported, orNone(st.Reported)))
	pr.Message("Muted", fmt.Sprintf(commands.MsgGPURecorded, orNone(st.Recorded)))
	return nil
}
