package connections

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/eoinhurrell/mindmeld/internal/cli"
	"github.com/eoinhurrell/mindmeld/internal/model"
)

// NewConnectionsCommand creates the connections command
func NewConnectionsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "connections <note-id>",
		Short: "Find notes related to a note",
		Long: `Rank the notes most strongly related to the given note by shared topics,
similar keywords and category.`,
		Example: `  mindmeld connections graphs
  mindmeld connections graphs --limit 3 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Run(cmd, func(ctx context.Context, app *cli.App) error {
				notes, err := app.Notes(ctx)
				if err != nil {
					return err
				}
				conns, err := app.Engine.Connections(notes, args[0])
				if err != nil {
					return err
				}
				if limit > 0 && len(conns) > limit {
					conns = conns[:limit]
				}
				return cli.Print(cmd, conns, func(w io.Writer) error {
					return writeConnections(w, args[0], conns)
				})
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most this many connections (0 for all)")
	return cmd
}

func writeConnections(w io.Writer, id string, conns []model.Connection) error {
	if len(conns) == 0 {
		_, err := fmt.Fprintf(w, "No connections found for %s.\n", id)
		return err
	}
	for i, c := range conns {
		if _, err := fmt.Fprintf(w, "%2d. %-40s strength %.2f  (%s)\n    %s\n", i+1, c.Title, c.Strength, c.ID, c.Excerpt); err != nil {
			return err
		}
	}
	return nil
}
