package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/licensetower/pkg/analysis"
	"github.com/matzehuels/licensetower/pkg/dag"
	"github.com/matzehuels/licensetower/pkg/deptree"
	"github.com/matzehuels/licensetower/pkg/license"
	"github.com/matzehuels/licensetower/pkg/observability"
)

// Runner encapsulates pipeline execution against one license fetcher.
// Both CLI and API use this to avoid duplicating pipeline logic.
//
// The Runner is stateless except for the fetcher and logger; it doesn't
// store pipeline results. Multiple goroutines can safely use the same Runner.
type Runner struct {
	Fetcher license.Fetcher
	Logger  *log.Logger
}

// NewRunner creates a runner that looks licenses up through fetcher.
// If logger is nil, log output is discarded.
func NewRunner(fetcher license.Fetcher, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{Fetcher: fetcher, Logger: logger}
}

// Execute builds a graph from records and annotates it with licenses.
func (r *Runner) Execute(ctx context.Context, records []deptree.Record, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	result := &Result{}
	hooks := observability.Pipeline()

	// Stage 1: Build
	hooks.OnBuildStart(ctx, len(records))
	buildStart := time.Now()
	g := deptree.Build(records, !opts.NoRoot)
	result.Graph = g
	result.Stats.Records = len(records)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.Stats.BuildTime = time.Since(buildStart)
	hooks.OnBuildComplete(ctx, g.NodeCount(), g.EdgeCount(), result.Stats.BuildTime)

	r.Logger.Info("built dependency graph",
		"packages", packageCount(g),
		"edges", g.EdgeCount(),
		"duration", result.Stats.BuildTime)

	// Stage 2: Annotate
	hooks.OnAnnotateStart(ctx, g.NodeCount())
	annotateStart := time.Now()
	err := license.Annotate(ctx, g, r.Fetcher, opts.annotateOptions())
	result.Stats.AnnotateTime = time.Since(annotateStart)
	if err == nil {
		result.Stats.UnknownCount = license.Counts(g)[license.Unknown]
	}
	hooks.OnAnnotateComplete(ctx, g.NodeCount(), result.Stats.UnknownCount, result.Stats.AnnotateTime, err)
	if err != nil {
		return nil, fmt.Errorf("annotate: %w", err)
	}

	r.Logger.Info("annotated licenses",
		"licenses", len(license.Counts(g)),
		"unknown", result.Stats.UnknownCount,
		"duration", result.Stats.AnnotateTime)

	return result, nil
}

// ExecuteReader parses a pipdeptree JSON document from src and runs [Runner.Execute].
func (r *Runner) ExecuteReader(ctx context.Context, src io.Reader, opts Options) (*Result, error) {
	records, err := deptree.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	r.Logger.Debug("parsed dependency listing", "records", len(records))
	return r.Execute(ctx, records, opts)
}

// ExecuteFile parses the pipdeptree JSON file at path and runs [Runner.Execute].
func (r *Runner) ExecuteFile(ctx context.Context, path string, opts Options) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return r.ExecuteReader(ctx, f, opts)
}

// Analyze runs a blacklist query against an annotated graph.
func (r *Runner) Analyze(ctx context.Context, g *dag.DAG, blacklist license.Set, opts ...analysis.Option) analysis.Result {
	start := time.Now()
	res := analysis.Analyze(g, blacklist, opts...)
	elapsed := time.Since(start)
	observability.Pipeline().OnAnalyzeComplete(ctx, len(res.Blacklisted), len(res.Dependents), elapsed)

	r.Logger.Debug("analyzed blacklist",
		"blacklist", blacklist.Sorted(),
		"blacklisted", len(res.Blacklisted),
		"dependents", len(res.Dependents),
		"duration", elapsed)
	return res
}

// packageCount returns the number of nodes excluding the root.
func packageCount(g *dag.DAG) int {
	if g.HasNode(deptree.Root) {
		return g.NodeCount() - 1
	}
	return g.NodeCount()
}
