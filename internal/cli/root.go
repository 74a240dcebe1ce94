package cli

import (
	"embed"
	"io/fs"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/omarchy-setup/internal/commands"
	"github.com/arthur-debert/omarchy-setup/internal/version"
	"github.com/arthur-debert/omarchy-setup/pkg/cobrax/topics"
)

// Command groups
const (
	groupCore   = "core"
	groupSystem = "system"
	groupMisc   = "misc"
)

//go:embed help/*.md
var helpFiles embed.FS

// HelpTopics returns the embedded help topics.
func HelpTopics() fs.FS {
	sub, err := fs.Sub(helpFiles, "help")
	if err != nil {
		panic(err)
	}
	return sub
}

// NewRootCmd creates the command tree around app.
func NewRootCmd(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "omarchy-setup",
		Short:   commands.MsgRootShort,
		Long:    commands.MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(cmd); err != nil {
				return err
			}
			log.Debug().Str("command", cmd.CommandPath()).Msg("Command started")
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&app.verbosity, "verbose", "v", commands.MsgFlagVerbose)
	flags.BoolVar(&app.dryRun, "dry-run", false, commands.MsgFlagDryRun)
	flags.StringVar(&app.configFile, "config", "", commands.MsgFlagConfig)
	flags.StringVar(&app.root, "root", "/", commands.MsgFlagRoot)
	flags.StringVar(&app.format, "format", "auto", commands.MsgFlagFormat)

	rootCmd.AddGroup(
		&cobra.Group{ID: groupCore, Title: "Provisioning:"},
		&cobra.Group{ID: groupSystem, Title: "System:"},
		&cobra.Group{ID: groupMisc, Title: "Other:"},
	)

	core := []*cobra.Command{
		newSetupCmd(app),
		newPkgCmd(app),
		newShellCmd(app),
		newGitCmd(app),
		newEditorCmd(app),
		newDotfilesCmd(app),
		newDesktopCmd(app),
	}
	system := []*cobra.Command{
		newDiskCmd(app),
		newSnapperCmd(app),
		newGPUCmd(app),
		newDoctorCmd(app),
	}
	misc := []*cobra.Command{
		newConfigCmd(app),
		newTopicsCmd(app),
		newVersionCmd(),
		newCompletionCmd(),
		newManCmd(),
	}
	addGroup(rootCmd, groupCore, core)
	addGroup(rootCmd, groupSystem, system)
	addGroup(rootCmd, groupMisc, misc)

	if _, err := topics.Initialize(rootCmd, HelpTopics(), topics.Options{Renderer: topics.NewGlamourRenderer()}); err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}
	rootCmd.SetHelpCommandGroupID(groupMisc)

	return rootCmd
}

func addGroup(root *cobra.Command, group string, cmds []*cobra.Command) {
	for _, cmd := range cmds {
		cmd.GroupID = group
		root.AddCommand(cmd)
	}
}
