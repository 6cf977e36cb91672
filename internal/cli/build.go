package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	graphio "github.com/matzehuels/licensetower/pkg/io"
	"github.com/matzehuels/licensetower/pkg/pipeline"
)

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	output  string // output graph file (default: <input>.graph.json)
	noCache bool   // bypass the license cache
	pipeline.Options
}

// buildCommand creates the build command, which turns a pipdeptree listing
// into an annotated graph file.
func (c *CLI) buildCommand() *cobra.Command {
	var opts buildOpts

	cmd := &cobra.Command{
		Use:   "build <pipdeptree.json>",
		Short: "Build a license-annotated dependency graph from pipdeptree output",
		Long: `Build a license-annotated dependency graph from pipdeptree output.

Both "pipdeptree --json" and "pipdeptree --json-tree" listings are accepted.
Every package's licenses are looked up on PyPI; packages without license data
are marked UNKNOWN.

Examples:
  pipdeptree --json > deps.json
  licensetower build deps.json                 # writes deps.graph.json
  licensetower build deps.json -o graph.json --concurrency 8`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output graph file (default <input>.graph.json)")
	cmd.Flags().BoolVar(&opts.NoRoot, "no-root", false, "omit the synthetic ROOT node")
	cmd.Flags().IntVar(&opts.Retries, "retries", 0, fmt.Sprintf("registry attempts per package (default %d)", pipeline.DefaultRetries))
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 0, fmt.Sprintf("parallel registry lookups, max %d (default %d)", pipeline.MaxConcurrency, pipeline.DefaultConcurrency))
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the license cache")

	return cmd
}

func (c *CLI) runBuild(cmd *cobra.Command, input string, opts *buildOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	runner, backend := c.newRunner(ctx, cfg, opts.noCache)
	defer backend.Close()

	prog := newProgress(logger)
	var result *pipeline.Result
	err = withProgress(ctx, cmd.ErrOrStderr(), "fetching licenses", func(ctx context.Context, onProgress func(done, total int)) error {
		popts := pipelineOptions(cfg, opts.Options)
		popts.OnProgress = onProgress
		var err error
		result, err = runner.ExecuteFile(ctx, input, popts)
		return err
	})
	if err != nil {
		return err
	}
	prog.done("Annotated dependency graph")

	out := opts.output
	if out == "" {
		out = graphPath(input)
	}
	if err := graphio.ExportJSON(result.Graph, out); err != nil {
		return err
	}

	printSuccess("Built license graph")
	printGraphStats(packageTotal(result.Graph), result.Stats.EdgeCount, result.Stats.UnknownCount)
	printFile(out)
	return nil
}

// graphPath derives the default graph file name from the input path:
// deps.json becomes deps.graph.json.
func graphPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + ".graph.json"
}
