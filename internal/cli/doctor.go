package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/omarchy-setup/internal/commands"
	"github.com/arthur-debert/omarchy-setup/pkg/config"
	"github.com/arthur-debert/omarchy-setup/pkg/disk"
	"github.com/arthur-debert/omarchy-setup/pkg/errors"
	"github.com/arthur-debert/omarchy-setup/pkg/runner"
)

// Tool is an external binary and the commands that call it.
type Tool struct {
	Name   string
	UsedBy []string
}

// Tools lists the binaries cfg makes omarchy-setup call, in first-use
// order.
func Tools(cfg *config.Config) []Tool {
	var tools []Tool
	index := map[string]int{}
	add := func(user string, names ...string) {
		for _, name := range names {
			if name == "" {
				continue
			}
			if i, ok := index[name]; ok {
				if !contains(tools[i].UsedBy, user) {
					tools[i].UsedBy = append(tools[i].UsedBy, user)
				}
				continue
			}
			index[name] = len(tools)
			tools = append(tools, Tool{Name: name, UsedBy: []string{user}})
		}
	}
	commandName := func(s string) string {
		cmd, err := runner.Parse(s)
		if err != nil {
			return ""
		}
		return cmd.Name
	}

	add("pkg", "pacman", cfg.Packages.Helper)
	add("editor", "code")
	add("snapper", "snapper", "systemctl")
	add("gpu", commandName(cfg.GPU.SwitchCommand), commandName(cfg.GPU.StatusCommand), "systemctl")
	add("disk", disk.RequiredTools...)
	return tools
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func newDoctorCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: commands.MsgDoctorShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows [][]string
			var missing []string
			for _, tool := range Tools(app.cfg) {
				status, where := "found", ""
				path, err := app.Runner.LookPath(tool.Name)
				if err != nil {
					status = "missing"
					missing = append(missing, tool.Name)
				} else {
					where = path
				}
				rows = append(rows, []string{tool.Name, status, where, strings.Join(tool.UsedBy, ", ")})
			}
			if err := app.printer.Table([]string{"TOOL", "STATUS", "PATH", "USED BY"}, rows); err != nil {
				return err
			}

			if len(missing) == 0 {
				app.printer.Message("Success", commands.MsgDoctorOK)
				return nil
			}
			return errors.Newf(errors.ErrMissingTool, commands.MsgDoctorMissing, len(missing)).
				WithDetail("tools", missing)
		},
	}
}
