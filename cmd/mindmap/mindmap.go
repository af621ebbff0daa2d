package mindmap

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/eoinhurrell/mindmeld/internal/cli"
	"github.com/eoinhurrell/mindmeld/internal/model"
)

// NewMindMapCommand creates the mindmap command
func NewMindMapCommand() *cobra.Command {
	var focus string

	cmd := &cobra.Command{
		Use:   "mindmap",
		Short: "Build a knowledge graph of the vault",
		Long: `Cluster notes by their dominant topic, lay the clusters out on a circle and
connect notes that share topics. Use --format json to feed the graph to a
renderer.`,
		Example: `  mindmeld mindmap
  mindmeld mindmap --focus algorithms --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Run(cmd, func(ctx context.Context, app *cli.App) error {
				notes, err := app.Notes(ctx)
				if err != nil {
					return err
				}
				m := app.Engine.MindMap(notes, focus)
				return cli.Print(cmd, m, func(w io.Writer) error {
					return writeMindMap(w, m)
				})
			})
		},
	}

	cmd.Flags().StringVar(&focus, "focus", "", "Central topic label for the map")
	return cmd
}

func writeMindMap(w io.Writer, m model.MindMap) error {
	if _, err := fmt.Fprintf(w, "%s\n\n", m.CentralTopic); err != nil {
		return err
	}
	labels := make(map[string]string, len(m.Nodes))
	for _, n := range m.Nodes {
		labels[n.ID] = n.Label
	}
	for _, c := range m.Clusters {
		if _, err := fmt.Fprintf(w, "%s (%d notes)\n", c.Topic, c.Size); err != nil {
			return err
		}
		for _, id := range c.NoteIDs {
			label, ok := labels[id]
			if !ok {
				continue
			}
			if _, err := fmt.Fprintf(w, "  - %s\n", label); err != nil {
				return err
			}
		}
	}
	if len(m.Connections) > 0 {
		if _, err := fmt.Fprintln(w, "\nConnections:"); err != nil {
			return err
		}
		for _, e := range m.Connections {
			if _, err := fmt.Fprintf(w, "  %s -- %s (%.2f)\n", labels[e.Source], labels[e.Target], e.Strength); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "\n%d nodes, %d connections, %d clusters, density %.2f\n",
		m.Stats.TotalNodes, m.Stats.TotalConnections, m.Stats.ClusterCount, m.Stats.ConnectionDensity)
	return err
}
