// Package dag provides the directed package graph that licensetower builds
// from a dependency listing and annotates with license data.
//
// # Overview
//
// Nodes are package identifiers ("name==version") plus the synthetic
// environment root. An edge From→To means "From depends on To". Each node
// carries a sorted license set that stays empty until the graph is annotated.
//
// # Basic Usage
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "ROOT"})
//	g.AddEdge(dag.Edge{From: "ROOT", To: "flask==3.0.0"})
//	g.AddEdge(dag.Edge{From: "flask==3.0.0", To: "click==8.1.7"})
//
// Nodes and edges have set semantics: adding an existing node or edge is a
// no-op, so builders can emit duplicates freely. [DAG.AddEdge] creates any
// missing endpoint.
//
// # Paths
//
// [DAG.Reachable] and [DAG.ReachableReverse] compute forward and backward
// closures. [DAG.AllSimplePaths] enumerates every simple path between two
// nodes, with an optional depth bound, for graphs where cycles rule out the
// closure-based shortcut.
//
// # Concurrency
//
// A DAG is not safe for concurrent mutation. Once annotated it should be
// treated as read-only; use [DAG.Clone] to hand out independent copies.
package dag
