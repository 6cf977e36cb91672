package cli

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/licensetower/pkg/dag"
	"github.com/matzehuels/licensetower/pkg/deptree"
	graphio "github.com/matzehuels/licensetower/pkg/io"
	"github.com/matzehuels/licensetower/pkg/license"
)

// licensesCommand creates the licenses command, which counts the licenses
// of an annotated graph.
func (c *CLI) licensesCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "licenses <graph.json>",
		Short: "Count the licenses in an annotated graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := graphio.ImportJSON(args[0])
			if err != nil {
				return err
			}
			counts := license.Counts(g)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), counts)
			}
			writeLicenseTable(cmd.OutOrStdout(), counts, nil)
			printDetail("%d packages, %d distinct licenses", packageTotal(g), len(counts))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print counts as JSON")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// packageTotal counts the nodes of g except the root.
func packageTotal(g *dag.DAG) int {
	if g.HasNode(deptree.Root) {
		return g.NodeCount() - 1
	}
	return g.NodeCount()
}
