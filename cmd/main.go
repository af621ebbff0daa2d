package main

import (
	"context"
	"fmt"

	"github.com/eoinhurrell/mindmeld/cmd/root"
	"github.com/eoinhurrell/mindmeld/internal/cli"
)

// Build-time variables set by goreleaser
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	rootCmd := root.NewRootCommand()
	rootCmd.Version = buildVersion()

	if cmd, err := rootCmd.ExecuteContextC(context.Background()); err != nil {
		cli.HandleError(cmd, err)
	}
}

func buildVersion() string {
	if version == "dev" {
		return "dev (built from source)"
	}

	return fmt.Sprintf("%s\ncommit: %s\nbuilt at: %s\nbuilt by: %s", version, commit, date, builtBy)
}
