package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/omarchy-setup/internal/commands"
	"github.com/arthur-debert/omarchy-setup/pkg/disk"
	"github.com/arthur-debert/omarchy-setup/pkg/ui"
)

type jsonStep struct {
	Phase   int    `json:"phase"`
	Title   string `json:"title"`
	Command string `json:"command"`
}

type jsonPlan struct {
	Device  string     `json:"device"`
	Summary []string   `json:"summary"`
	Steps   []jsonStep `json:"steps"`
}

func (a *App) layouter() *disk.Layouter {
	return disk.NewLayouter(a.runner, a.System, a.editor(), a.Confirm)
}

func newDiskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "disk",
		Short: commands.MsgDiskShort,
		Long:  commands.MsgDiskLong,
	}

	plan := &cobra.Command{
		Use:   "plan <device>",
		Short: commands.MsgDiskPlanShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.layouter().Plan(args[0], app.cfg.Disk)
			if err != nil {
				return err
			}
			if err := app.layouter().Check(p, disk.Options{PlanOnly: true}); err != nil {
				return err
			}
			return printPlan(app.printer, p)
		},
	}

	var force bool
	layout := &cobra.Command{
		Use:   "layout <device>",
		Short: commands.MsgDiskLayoutShort,
		Example: `  # Show what would run, touching nothing
  omarchy-setup --dry-run disk layout /dev/nvme0n1

  # Lay out the disk without the confirmation prompt
  sudo omarchy-setup disk layout -F /dev/sda`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.layouter().Plan(args[0], app.cfg.Disk)
			if err != nil {
				return err
			}
			opts := disk.Options{Force: force, DryRun: app.dryRun}
			return app.finish(app.layouter().Layout(cmd.Context(), p, opts))
		},
	}
	layout.Flags().BoolVarP(&force, "force", "F", false, commands.MsgFlagForce)

	cmd.AddCommand(plan, layout)
	return cmd
}

func printPlan(pr *ui.Printer, p *disk.Plan) error {
	if pr.Format() == ui.FormatJSON {
		doc := jsonPlan{Device: p.Device, Summary: p.Summary()}
		for _, s := range p.Steps {
			doc.Steps = append(doc.Steps, jsonStep{Phase: s.Phase, Title: s.Title, Command: s.String()})
		}
		return pr.JSON(doc)
	}

	pr.Message("Header", fmt.Sprintf(commands.MsgPlanHeader, p.Device))
	for _, line := range p.Summary() {
		pr.Message("Path", "  "+line)
	}

	phase := 0
	var lines []string
	for _, s := range p.Steps {
		if s.Phase != phase {
			phase = s.Phase
			lines = append(lines, fmt.Sprintf(commands.MsgPlanPhase, phase, disk.PhaseTitle(phase)))
		}
		lines = append(lines, "   "+s.String())
	}
	pr.Lines(lines)
	pr.Message("Warning", fmt.Sprintf(commands.MsgPlanWarning, p.Device))
	return nil
}
