package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/licensetower/pkg/analysis"
	"github.com/matzehuels/licensetower/pkg/dag"
	graphio "github.com/matzehuels/licensetower/pkg/io"
	"github.com/matzehuels/licensetower/pkg/render/nodelink"
)

// RenderOptions configures [Runner.Render].
type RenderOptions struct {
	Format          string `json:"format,omitempty"` // dot, svg, or json (default svg)
	HideBlacklisted bool   `json:"hide_blacklisted,omitempty"`
	HideDependents  bool   `json:"hide_dependents,omitempty"`
	RootLabel       string `json:"root_label,omitempty"`
}

// Render produces the display form of g for res. Hidden groups are removed
// before rendering; JSON output is the filtered graph in the serialized
// graph format.
func (r *Runner) Render(ctx context.Context, g *dag.DAG, res analysis.Result, opts RenderOptions) ([]byte, error) {
	if opts.Format == "" {
		opts.Format = FormatSVG
	}
	if err := ValidateFormat(opts.Format); err != nil {
		return nil, err
	}

	shown := nodelink.Filter(g, res, nodelink.FilterOptions{
		HideBlacklisted: opts.HideBlacklisted,
		HideDependents:  opts.HideDependents,
	})
	r.Logger.Debug("rendering graph",
		"format", opts.Format,
		"shown", shown.NodeCount(),
		"total", g.NodeCount())

	switch opts.Format {
	case FormatJSON:
		var buf bytes.Buffer
		if err := graphio.WriteJSON(shown, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatDOT:
		return []byte(nodelink.ToDOT(shown, nodelink.Options{Result: res, RootLabel: opts.RootLabel})), nil
	default:
		dot := nodelink.ToDOT(shown, nodelink.Options{Result: res, RootLabel: opts.RootLabel})
		svg, err := nodelink.RenderSVG(ctx, dot)
		if err != nil {
			return nil, fmt.Errorf("render svg: %w", err)
		}
		return svg, nil
	}
}
