package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/omarchy-setup/internal/commands"
	"github.com/arthur-debert/omarchy-setup/internal/version"
	"github.com/arthur-debert/omarchy-setup/pkg/cobrax/topics"
	"github.com/arthur-debert/omarchy-setup/pkg/errors"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       commands.MsgVersionShort,
		Long:        commands.MsgVersionLong,
		Args:        cobra.NoArgs,
		Annotations: bare(),
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, commands.MsgVersionFormat, version.Version)
			if version.Commit != "" {
				fmt.Fprintf(out, commands.MsgCommitFormat, version.Commit)
			}
			if version.Date != "" {
				fmt.Fprintf(out, commands.MsgBuiltFormat, version.Date)
			}
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: commands.MsgCompletionShort,
		Long: `To load completions:

Bash:
  $ source <(omarchy-setup completion bash)
  # To load completions for each session, execute once:
  $ omarchy-setup completion bash > /etc/bash_completion.d/omarchy-setup

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it.  You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  # To load completions for each session, execute once:
  $ omarchy-setup completion zsh > "${fpath[1]}/_omarchy-setup"
  # You will need to start a new shell for this setup to take effect.

Fish:
  $ omarchy-setup completion fish | source
  # To load completions for each session, execute once:
  $ omarchy-setup completion fish > ~/.config/fish/completions/omarchy-setup.fish

PowerShell:
  PS> omarchy-setup completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		Annotations:           bare(),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

func newManCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:         "man",
		Short:       commands.MsgManShort,
		Args:        cobra.NoArgs,
		Hidden:      true,
		Annotations: bare(),
		RunE: func(cmd *cobra.Command, args []string) error {
			header := &doc.GenManHeader{
				Title:   "OMARCHY-SETUP",
				Section: "1",
				Source:  "omarchy-setup " + version.Version,
			}
			if err := doc.GenManTree(cmd.Root(), header, dir); err != nil {
				return errors.Wrapf(err, errors.ErrFileWrite, "failed to write man pages to %s", dir)
			}
			fmt.Fprintf(cmd.OutOrStdout(), commands.MsgManWritten+"\n", dir)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", commands.MsgFlagManDir)
	return cmd
}

func newTopicsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:         "topics [name]",
		Short:       commands.MsgTopicsShort,
		Args:        cobra.MaximumNArgs(1),
		Annotations: bare(),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			tm, err := loadTopics(app)
			if err != nil || len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return tm.ListTopics(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			tm, err := loadTopics(app)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				tm.PrintList(cmd.OutOrStdout(), cmd.Root().Name())
				return nil
			}
			if !tm.Show(cmd.OutOrStdout(), args[0]) {
				return errors.Newf(errors.ErrNotFound, commands.MsgTopicNotFound, args[0]).
					WithDetail("topics", tm.ListTopics())
			}
			return nil
		},
	}
}

func loadTopics(app *App) (*topics.TopicManager, error) {
	opts := topics.Options{Renderer: topics.NewGlamourRenderer()}
	if app.format == "text" || app.format == "json" {
		opts.Renderer = &topics.PlainRenderer{}
	}
	tm := topics.NewWithOptions(HelpTopics(), opts)
	if err := tm.Load(); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load help topics")
	}
	return tm, nil
}
