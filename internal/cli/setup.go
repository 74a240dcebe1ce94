package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/omarchy-setup/internal/commands"
	"github.com/arthur-debert/omarchy-setup/pkg/logging"
	"github.com/arthur-debert/omarchy-setup/pkg/provision"
)

func newSetupCmd(app *App) *cobra.Command {
	var only []string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: commands.MsgSetupShort,
		Long:  commands.MsgSetupLong,
		Example: `  # Provision everything
  omarchy-setup setup

  # Preview the shell and git sections only
  omarchy-setup --dry-run setup --only shell,git`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cli.setup")
			logger.Info().Strs("only", only).Bool("dryRun", app.dryRun).Msg("Starting setup")

			result, err := provision.Run(cmd.Context(), app.deps(), provision.Options{
				Only:     only,
				LockFile: app.paths.LockFile(),
			})
			if result == nil {
				return err
			}

			if perr := app.printer.Report(&result.Report, app.dryRun); perr != nil && err == nil {
				err = perr
			}
			if result.BestEffort != nil {
				app.printer.Message("Warning", fmt.Sprintf(commands.MsgSetupBestEffort, result.BestEffort))
			}
			for _, s := range result.Sections {
				logger.Debug().Str("section", s.Name).Dur("took", s.Duration).Int("changes", len(s.Changes)).Msg("Section finished")
			}
			return err
		},
	}

	cmd.Flags().StringSliceVar(&only, "only", nil, commands.MsgFlagOnly)
	_ = cmd.RegisterFlagCompletionFunc("only", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return provision.SectionNames(), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}
