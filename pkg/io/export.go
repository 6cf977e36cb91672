package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/matzehuels/licensetower/pkg/dag"
)

// Document is the serialized form of an annotated graph. It is written as
// JSON by [WriteJSON] and stored as a BSON subdocument by the Mongo session
// store.
type Document struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Node is one serialized graph node.
type Node struct {
	ID       string   `json:"id" bson:"id"`
	Licenses []string `json:"licenses,omitempty" bson:"licenses,omitempty"`
}

// Edge is one serialized dependency edge.
type Edge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// FromDAG converts g into a Document. Nodes are sorted by ID; edges keep
// insertion order, so equal graphs built the same way serialize identically.
func FromDAG(g *dag.DAG) Document {
	nodes := g.Nodes()
	edges := g.Edges()
	doc := Document{
		Nodes: make([]Node, len(nodes)),
		Edges: make([]Edge, len(edges)),
	}
	for i, n := range nodes {
		doc.Nodes[i] = Node{ID: n.ID, Licenses: slices.Clone(n.Licenses)}
	}
	for i, e := range edges {
		doc.Edges[i] = Edge{From: e.From, To: e.To}
	}
	return doc
}

// WriteJSON encodes a DAG as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON] for round-trip processing.
func WriteJSON(g *dag.DAG, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromDAG(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a DAG to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(g *dag.DAG, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(g, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
