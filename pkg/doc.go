// Package pkg provides the core libraries for licensetower.
//
// # Overview
//
// Licensetower turns a pipdeptree listing of a Python environment into a
// license-annotated dependency graph and answers one question about it:
// which packages carry a blacklisted license, and which packages pull them
// in.
//
// # Architecture
//
//	pipdeptree JSON
//	       ↓
//	  [deptree] (parse records, build the package graph)
//	       ↓
//	  [license] (look every package up through a Fetcher)
//	       ↓
//	  [analysis] (blacklisted packages and their dependents)
//	       ↓
//	  [render/nodelink] (DOT, SVG) or [io] (graph.json)
//
// [pipeline] wires these stages together for the CLI and the HTTP server.
//
// # Quick Start
//
//	client := pypi.NewClient(cache.NewMemoryCache(), time.Hour)
//	runner := pipeline.NewRunner(client, nil)
//
//	result, err := runner.ExecuteFile(ctx, "deps.json", pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	res := runner.Analyze(ctx, result.Graph, license.NewSet("GPL"))
//	svg, err := runner.Render(ctx, result.Graph, res, pipeline.RenderOptions{Format: pipeline.FormatSVG})
//
// # Main Packages
//
// Domain:
//   - [dag]: the package graph and its path queries
//   - [deptree]: pipdeptree records and graph construction
//   - [license]: license sets, aliases, annotation and counting
//   - [analysis]: blacklist and dependent detection
//   - [render/nodelink]: Graphviz output
//
// Infrastructure:
//   - [cache]: memory, file and Redis caches for registry lookups
//   - [integrations/pypi]: the PyPI license client
//   - [session]: uploaded environments kept in memory, on disk or in MongoDB
//   - [server]: the HTTP API
//   - [config]: TOML configuration
//   - [observability]: hooks for logging and metrics
//
// [dag]: github.com/matzehuels/licensetower/pkg/dag
// [deptree]: github.com/matzehuels/licensetower/pkg/deptree
// [license]: github.com/matzehuels/licensetower/pkg/license
// [analysis]: github.com/matzehuels/licensetower/pkg/analysis
// [render/nodelink]: github.com/matzehuels/licensetower/pkg/render/nodelink
// [io]: github.com/matzehuels/licensetower/pkg/io
// [pipeline]: github.com/matzehuels/licensetower/pkg/pipeline
// [cache]: github.com/matzehuels/licensetower/pkg/cache
// [integrations/pypi]: github.com/matzehuels/licensetower/pkg/integrations/pypi
// [session]: github.com/matzehuels/licensetower/pkg/session
// [server]: github.com/matzehuels/licensetower/pkg/server
// [config]: github.com/matzehuels/licensetower/pkg/config
// [observability]: github.com/matzehuels/licensetower/pkg/observability
package pkg
