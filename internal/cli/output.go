package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --format
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists the accepted output formats
var Formats = []string{FormatText, FormatJSON, FormatYAML}

// Format reads and checks the --format flag
func Format(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		return FormatText, nil
	}
	format = strings.ToLower(format)
	for _, f := range Formats {
		if f == format {
			return format, nil
		}
	}
	return "", fmt.Errorf("unsupported output format %q (use %s)", format, strings.Join(Formats, ", "))
}

// Render writes v as JSON or YAML, or calls text for the text format
func Render(w io.Writer, format string, v any, text func(w io.Writer) error) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return text(w)
	}
}

// Print renders v to the command's output in the --format it was given
func Print(cmd *cobra.Command, v any, text func(w io.Writer) error) error {
	format, err := Format(cmd)
	if err != nil {
		return err
	}
	return Render(cmd.OutOrStdout(), format, v, text)
}

// CompleteFormats completes the --format flag
func CompleteFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return Formats, cobra.ShellCompDirectiveNoFileComp
}
