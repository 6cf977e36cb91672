// Package render groups the graph renderers.
//
// The [nodelink] subpackage draws the annotated dependency graph as a
// Graphviz node-link diagram. Blacklisted packages are filled red, their
// dependents orange, and the environment root grey; each edge takes the
// colour of the package it points to.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Result: res})
//	svg, err := nodelink.RenderSVG(ctx, dot)
package render
