package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/omarchy-setup/internal/commands"
	"github.com/arthur-debert/omarchy-setup/pkg/config"
	"github.com/arthur-debert/omarchy-setup/pkg/snapper"
	"github.com/arthur-debert/omarchy-setup/pkg/ui"
)

func newSnapperCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapper",
		Short: commands.MsgSnapperShort,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "setup",
		Short: commands.MsgSnapperSetupShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.section(cmd, "snapper")
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: commands.MsgSnapperStatusShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := snapper.New(app.editor(), app.runner, app.paths, app.cfg.Snapper)
			st, err := s.Status(cmd.Context())
			if err != nil {
				return err
			}
			return printSnapperStatus(app.printer, st)
		},
	})
	return cmd
}

func yesNo(b bool) string {
	if b {
		return commands.MsgYes
	}
	return commands.MsgNo
}

func printSnapperStatus(pr *ui.Printer, st *snapper.Status) error {
	if pr.Format() == ui.FormatJSON {
		return pr.JSON(st)
	}

	pr.Message("Header", commands.MsgSnapperConfigs)
	var rows [][]string
	for _, c := range st.Configs {
		rows = append(rows, []string{c.Name, c.Path, yesNo(c.Present)})
	}
	if err := pr.Table([]string{"CONFIG", "PATH", "PRESENT"}, rows); err != nil {
		return err
	}

	for _, c := range st.Configs {
		if !c.Present {
			continue
		}
		pr.Message("Header", fmt.Sprintf(commands.MsgSnapperLimitsFmt, c.Name))
		rows = nil
		for _, key := range config.SortedKeys(c.Values) {
			rows = append(rows, []string{key, c.Values[key]})
		}
		if err := pr.Table([]string{"KEY", "VALUE"}, rows); err != nil {
			return err
		}
	}

	pr.Message("Header", commands.MsgSnapperHooks)
	rows = nil
	for _, h := range st.Hooks {
		rows = append(rows, []string{h.Name, yesNo(h.Present), h.Exec})
	}
	if err := pr.Table([]string{"HOOK", "PRESENT", "EXEC"}, rows); err != nil {
		return err
	}

	pr.Message("Header", commands.MsgSnapperTimers)
	rows = nil
	for _, name := range config.SortedKeys(st.Timers) {
		rows = append(rows, []string{name, st.Timers[name]})
	}
	return pr.Table([]string{"TIMER", "STATE"}, rows)
}
