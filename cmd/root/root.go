package root

import (
	"github.com/spf13/cobra"

	"github.com/eoinhurrell/mindmeld/cmd/analyze"
	"github.com/eoinhurrell/mindmeld/cmd/config"
	"github.com/eoinhurrell/mindmeld/cmd/connections"
	"github.com/eoinhurrell/mindmeld/cmd/flashcards"
	"github.com/eoinhurrell/mindmeld/cmd/mentor"
	"github.com/eoinhurrell/mindmeld/cmd/mindmap"
	"github.com/eoinhurrell/mindmeld/cmd/watch"
	"github.com/eoinhurrell/mindmeld/internal/cli"
	"github.com/eoinhurrell/mindmeld/internal/model"
)

// NewRootCommand creates the root command for mindmeld
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mindmeld",
		Short: "Turn a markdown vault into flashcards, mind maps and a learning mentor",
		Long: `mindmeld reads the markdown notes in a vault and analyzes them heuristically:
topics, keywords, complexity and tone. From those it finds related notes,
builds a mind map, generates spaced-repetition flashcards and runs a mentor
that profiles your learning style and sets adaptive challenges.`,
		Version:       "dev",
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	cli.AddGlobalFlags(cmd)

	cmd.AddCommand(analyze.NewAnalyzeCommand())
	cmd.AddCommand(connections.NewConnectionsCommand())
	cmd.AddCommand(mindmap.NewMindMapCommand())
	cmd.AddCommand(flashcards.NewFlashcardsCommand())
	cmd.AddCommand(mentor.NewMentorCommand())
	cmd.AddCommand(watch.NewWatchCommand())
	cmd.AddCommand(config.NewConfigCommand())
	cmd.AddCommand(newCompletionCommand())

	setupCustomCompletions(cmd)

	return cmd
}

// newCompletionCommand creates the completion command
func newCompletionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate completion script",
		Long: `To load completions:

Bash:

  $ source <(mindmeld completion bash)

Zsh:

  # If shell completion is not already enabled in your environment,
  # you will need to enable it.  You can execute the following once:

  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  $ mindmeld completion zsh > "${fpath[1]}/_mindmeld"

fish:

  $ mindmeld completion fish | source

PowerShell:

  PS> mindmeld completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
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

// setupCustomCompletions registers completions for the global flags and the
// flags shared by several commands
func setupCustomCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("config", CompleteConfigFiles)
	_ = cmd.RegisterFlagCompletionFunc("vault", CompleteDirs)
	_ = cmd.RegisterFlagCompletionFunc("format", cli.CompleteFormats)

	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		if c.Flags().Lookup("style") != nil {
			_ = c.RegisterFlagCompletionFunc("style", CompleteLearningStyles)
		}
		if c.Flags().Lookup("category") != nil {
			_ = c.RegisterFlagCompletionFunc("category", CompleteCategories)
		}
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(cmd)
}

// CompleteDirs provides directory completion
func CompleteDirs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return nil, cobra.ShellCompDirectiveFilterDirs
}

// CompleteConfigFiles provides config file completion
func CompleteConfigFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
}

// CompleteLearningStyles provides completion for learning styles
func CompleteLearningStyles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{
		string(model.StyleVisual),
		string(model.StyleAuditory),
		string(model.StyleKinesthetic),
		string(model.StyleBalanced),
	}, cobra.ShellCompDirectiveNoFileComp
}

// CompleteCategories provides completion for note categories
func CompleteCategories(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	out := make([]string, 0, len(model.Categories))
	for _, c := range model.Categories {
		out = append(out, string(c))
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
