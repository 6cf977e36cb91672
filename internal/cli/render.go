package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	graphio "github.com/matzehuels/licensetower/pkg/io"
	"github.com/matzehuels/licensetower/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string   // output file path, "-" for stdout
	blacklist []string // licenses to highlight
	pipeline.RenderOptions
}

// renderCommand creates the render command for drawing an annotated graph.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{RenderOptions: pipeline.RenderOptions{Format: pipeline.FormatSVG}}

	cmd := &cobra.Command{
		Use:   "render <graph.json>",
		Short: "Render an annotated graph as SVG or DOT",
		Long: `Render an annotated graph as SVG or DOT.

Blacklisted packages are drawn red and their dependents orange; edges take
the colour of the package they point to.

Examples:
  licensetower render deps.graph.json                       # writes deps.graph.svg
  licensetower render deps.graph.json -b GPL --hide-dependents
  licensetower render deps.graph.json -f dot -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(opts.Format); err != nil {
				return err
			}
			return runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output file, "-" for stdout (default <input>.<format>)`)
	cmd.Flags().StringVarP(&opts.Format, "format", "f", opts.Format, "output format: svg, dot, json")
	cmd.Flags().StringArrayVarP(&opts.blacklist, "blacklist", "b", []string{defaultBlacklist}, "license to highlight (repeatable)")
	cmd.Flags().BoolVar(&opts.HideBlacklisted, "hide-blacklisted", false, "leave blacklisted packages out")
	cmd.Flags().BoolVar(&opts.HideDependents, "hide-dependents", false, "leave dependents out")
	cmd.Flags().StringVar(&opts.RootLabel, "root-label", "", "label of the root node")

	return cmd
}

func runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := cmd.Context()
	set, err := blacklistSet(opts.blacklist)
	if err != nil {
		return err
	}
	g, err := graphio.ImportJSON(input)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(nil, loggerFromContext(ctx))
	res := runner.Analyze(ctx, g, set)
	data, err := runner.Render(ctx, g, res, opts.RenderOptions)
	if err != nil {
		return err
	}

	if opts.output == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	out := opts.output
	if out == "" {
		out = renderPath(input, opts.Format)
	}
	if err := writeFile(ctx, out, data); err != nil {
		return err
	}
	printSuccess("Rendered %s", strings.ToUpper(opts.Format))
	printFile(out)
	return nil
}

// renderPath swaps the input's extension for the format:
// deps.graph.json becomes deps.graph.svg. The input itself is never chosen.
func renderPath(input, format string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	if out := base + "." + format; out != input {
		return out
	}
	return base + ".rendered." + format
}

func writeFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
