// Package pipeline provides the license pipeline shared by the CLI and the
// HTTP server.
//
// This package implements the complete parse → build → annotate pipeline and
// the query stages layered on an annotated graph. Centralizing it keeps the
// command line and the server in lockstep.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: read a pipdeptree JSON document into dependency records
//  2. Build: turn the records into a graph, with or without the ROOT node
//  3. Annotate: look up every package's licenses and normalize them
//
// The annotated graph then answers queries: license counts, blacklist
// analysis, and rendering as DOT, SVG, or JSON.
//
// # Usage
//
//	runner := pipeline.NewRunner(pypiClient, logger)
//	result, err := runner.ExecuteFile(ctx, "deptree.json", pipeline.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res := runner.Analyze(ctx, result.Graph, license.NewSet("GPL"))
//	svg, err := runner.Render(ctx, result.Graph, res, pipeline.RenderOptions{Format: "svg"})
package pipeline

import (
	"fmt"
	"time"

	"github.com/matzehuels/licensetower/pkg/dag"
	"github.com/matzehuels/licensetower/pkg/license"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultRetries is the number of registry attempts per package.
	DefaultRetries = license.DefaultRetries

	// DefaultConcurrency is the number of packages looked up in parallel.
	DefaultConcurrency = 4

	// MaxConcurrency caps parallel lookups to stay polite to the registry.
	MaxConcurrency = 32
)

// Format constants for rendered outputs.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT:  true,
	FormatSVG:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains the configuration for building and annotating a graph.
// This struct supports JSON serialization for API requests.
type Options struct {
	// NoRoot omits the synthetic ROOT node and its edges.
	NoRoot bool `json:"no_root,omitempty"`

	// Retries is the number of registry attempts per package.
	Retries int `json:"retries,omitempty"`

	// Concurrency bounds parallel registry lookups.
	Concurrency int `json:"concurrency,omitempty"`

	// Aliases extends the built-in license alias table.
	Aliases license.AliasTable `json:"aliases,omitempty"`

	// OnProgress is called after each completed registry lookup.
	OnProgress func(done, total int) `json:"-"`
}

// ValidateAndSetDefaults checks option ranges and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Retries < 0 {
		return fmt.Errorf("retries must not be negative: %d", o.Retries)
	}
	if o.Concurrency < 0 || o.Concurrency > MaxConcurrency {
		return fmt.Errorf("concurrency must be between 1 and %d: %d", MaxConcurrency, o.Concurrency)
	}
	if o.Retries == 0 {
		o.Retries = DefaultRetries
	}
	if o.Concurrency == 0 {
		o.Concurrency = DefaultConcurrency
	}
	return nil
}

// annotateOptions maps pipeline options onto the annotator's.
func (o Options) annotateOptions() license.AnnotateOptions {
	return license.AnnotateOptions{
		Aliases:     license.DefaultAliases.Merge(o.Aliases),
		Retries:     o.Retries,
		Concurrency: o.Concurrency,
		OnProgress:  o.OnProgress,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the annotated dependency graph.
	Graph *dag.DAG

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Records      int
	NodeCount    int
	EdgeCount    int
	UnknownCount int // packages left without registry data
	BuildTime    time.Duration
	AnnotateTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: dot, svg, json)", format)
	}
	return nil
}
