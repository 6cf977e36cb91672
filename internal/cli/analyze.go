package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/licensetower/pkg/analysis"
	apperrors "github.com/matzehuels/licensetower/pkg/errors"
	graphio "github.com/matzehuels/licensetower/pkg/io"
	"github.com/matzehuels/licensetower/pkg/license"
	"github.com/matzehuels/licensetower/pkg/pipeline"
)

// analyzeCommand creates the analyze command, which reports blacklisted
// packages and the packages that depend on them.
func (c *CLI) analyzeCommand() *cobra.Command {
	var (
		blacklist []string
		asJSON    bool
		maxDepth  int
	)

	cmd := &cobra.Command{
		Use:   "analyze <graph.json>",
		Short: "Find packages with blacklisted licenses and their dependents",
		Long: `Find packages with blacklisted licenses and their dependents.

A package is blacklisted when any of its licenses is on the blacklist. A
dependent is a package on some path from the root to a blacklisted package.

Examples:
  licensetower analyze deps.graph.json
  licensetower analyze deps.graph.json --blacklist GPL --blacklist "GNU General Public License v3 (GPLv3)"
  licensetower analyze deps.graph.json --blacklist GPL --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := blacklistSet(blacklist)
			if err != nil {
				return err
			}
			g, err := graphio.ImportJSON(args[0])
			if err != nil {
				return err
			}

			runner := pipeline.NewRunner(nil, loggerFromContext(cmd.Context()))
			res := runner.Analyze(cmd.Context(), g, set, analysis.WithMaxDepth(maxDepth))
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}

			writeAnalysis(cmd.OutOrStdout(), res)
			fmt.Fprintln(cmd.OutOrStdout(), summaryLine(packageTotal(g), res))
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&blacklist, "blacklist", "b", []string{defaultBlacklist}, "license to flag (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().IntVar(&maxDepth, "max-depth", analysis.DefaultMaxDepth, "path length limit for graphs with cycles")
	return cmd
}

// blacklistSet validates license names given on the command line.
func blacklistSet(names []string) (license.Set, error) {
	if err := apperrors.ValidateLicenseNames(names); err != nil {
		return nil, err
	}
	return license.NewSet(names...), nil
}
