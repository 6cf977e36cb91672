// Package nodelink renders license-annotated dependency graphs as node-link
// diagrams.
//
// # Usage
//
// Analyze the graph, optionally hide highlighted groups, then convert to DOT
// and render to SVG:
//
//	res := analysis.Analyze(g, license.NewSet("GPL"))
//	shown := nodelink.Filter(g, res, nodelink.FilterOptions{HideDependents: true})
//	dot := nodelink.ToDOT(shown, nodelink.Options{Result: res})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Colours
//
//   - red: the package carries a blacklisted license
//   - orange: the package pulls a blacklisted package into the environment
//   - grey ellipse: the environment root
//
// Edges take the colour of their target. Hovering a package shows its
// licenses.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is required.
package nodelink
