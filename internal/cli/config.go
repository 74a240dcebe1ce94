package cli

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/omarchy-setup/internal/commands"
	"github.com/arthur-debert/omarchy-setup/pkg/change"
	"github.com/arthur-debert/omarchy-setup/pkg/config"
	"github.com/arthur-debert/omarchy-setup/pkg/filesystem"
	"github.com/arthur-debert/omarchy-setup/pkg/ui"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: commands.MsgConfigShort,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: commands.MsgConfigShowShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.Render(app.cfg)
			if err != nil {
				return err
			}
			if app.printer.Format() == ui.FormatJSON {
				var doc map[string]interface{}
				if err := toml.Unmarshal(data, &doc); err != nil {
					return err
				}
				return app.printer.JSON(doc)
			}
			source := config.Describe(config.LoadOptions{File: app.configPath()})
			_, err = fmt.Fprintf(app.Out, commands.MsgConfigSource+"\n%s", source, data)
			return err
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: commands.MsgConfigInitShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.configPath()
			exists, err := filesystem.Exists(app.FS, path)
			if err != nil {
				return err
			}
			if exists && !force {
				app.printer.Message("Warning", fmt.Sprintf(commands.MsgConfigExists, path))
				return nil
			}
			c, err := app.editor().WriteContent("config", path, 0644, config.DefaultContent())
			if err != nil {
				return err
			}
			return app.report([]change.Change{c})
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, commands.MsgFlagOverwrite)

	cmd.AddCommand(initCmd)
	return cmd
}

func (a *App) configPath() string {
	if a.configFile != "" {
		return a.configFile
	}
	return a.paths.ConfigFile()
}
