package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/licensetower/pkg/analysis"
	"github.com/matzehuels/licensetower/pkg/dag"
	"github.com/matzehuels/licensetower/pkg/deptree"
)

// DefaultRootLabel is the label drawn on the root node.
const DefaultRootLabel = "Python environment"

// Colors used for highlighted nodes and edges.
const (
	ColorBlacklisted = "red"
	ColorDependent   = "orange"
	ColorRoot        = "grey"
	ColorDefault     = "black"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Result highlights blacklisted nodes in red and their dependents in
	// orange. The zero value highlights nothing.
	Result analysis.Result

	// RootLabel replaces the ROOT identifier in the diagram.
	// Empty selects DefaultRootLabel.
	RootLabel string
}

// ToDOT converts an annotated graph to Graphviz DOT format.
//
// Every package node carries its licenses as a tooltip. Edges take the
// colour of their target, so chains leading to a blacklisted package stand
// out. The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(g *dag.DAG, opts Options) string {
	rootLabel := opts.RootLabel
	if rootLabel == "" {
		rootLabel = DefaultRootLabel
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(*n, opts.Result, rootLabel), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q [color=%s];\n", e.From, e.To, colorOf(e.To, opts.Result))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n dag.Node, res analysis.Result, rootLabel string) []string {
	if deptree.PackageID(n.ID).IsRoot() {
		return []string{
			fmt.Sprintf("label=%q", rootLabel),
			"shape=ellipse",
			"fillcolor=" + ColorRoot,
			"fontsize=18",
		}
	}
	attrs := []string{
		fmt.Sprintf("label=%q", n.ID),
		fmt.Sprintf("tooltip=%q", strings.Join(n.Licenses, ", ")),
	}
	if c := colorOf(n.ID, res); c != ColorDefault {
		attrs = append(attrs, "fillcolor="+c, "fontcolor=white")
	}
	return attrs
}

func colorOf(id string, res analysis.Result) string {
	switch {
	case res.IsDependent(id):
		return ColorDependent
	case res.IsBlacklisted(id):
		return ColorBlacklisted
	default:
		return ColorDefault
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the drawing scales with its
// container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
