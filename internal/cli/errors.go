package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/eoinhurrell/mindmeld/internal/errors"
)

// exit is replaced in tests
var exit = os.Exit

// HandleError prints err the way the verbosity flags ask for and exits with
// the code matching its kind
func HandleError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")

	cmd.PrintErrln(errors.NewErrorHandler(verbose, quiet).Handle(err))
	exit(errors.ExitCode(err))
}

// WithErrorHandling wraps a command function with consistent error handling
func WithErrorHandling(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		if err := fn(cmd, args); err != nil {
			HandleError(cmd, err)
		}
	}
}
