package config

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/eoinhurrell/mindmeld/internal/cli"
	"github.com/eoinhurrell/mindmeld/internal/errors"
)

// DefaultPath is where config init writes when no path is given
const DefaultPath = "mindmeld.yaml"

// NewConfigCommand creates the config command
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and write mindmeld configuration",
		Long: `Show the effective configuration or write it to a file.

Settings are read from mindmeld.yaml in the current directory,
~/.config/mindmeld or /etc/mindmeld, then overridden by MINDMELD_*
environment variables and the global flags.`,
	}

	cmd.AddCommand(newShowCommand())
	cmd.AddCommand(newInitCommand())
	return cmd
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			return cli.Print(cmd, cfg, func(w io.Writer) error {
				data, err := yaml.Marshal(cfg)
				if err != nil {
					return err
				}
				_, err = w.Write(data)
				return err
			})
		},
	}
}

func newInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the effective configuration to a file",
		Example: `  # Start a config for the current vault
  mindmeld config init --vault ~/notes

  # Replace an existing file
  mindmeld config init ~/.config/mindmeld/mindmeld.yaml --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := DefaultPath
			if len(args) == 1 {
				path = args[0]
			}

			if _, err := os.Stat(path); err == nil && !force {
				return errors.NewErrorBuilder().
					WithOperation("config.init").
					WithFile(path).
					WithError(fmt.Errorf("%s already exists", path)).
					WithCode(errors.ErrCodeInvalidConfig).
					WithSuggestion("Pass --force to overwrite it.").
					Build()
			}

			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.SaveToFile(path); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote configuration to %s\n", path)
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}
