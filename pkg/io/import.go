package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/licensetower/pkg/dag"
)

// ErrDuplicateNode is returned when a document lists the same node ID twice.
var ErrDuplicateNode = errors.New("duplicate node")

// ToDAG rebuilds a graph from doc.
//
// ToDAG returns an error if:
//   - a node has an empty or duplicate ID
//   - an edge references a node ID not listed in nodes
//
// Errors are wrapped with context describing which node or edge caused the
// problem.
func ToDAG(doc Document) (*dag.DAG, error) {
	g := dag.New()
	for _, n := range doc.Nodes {
		added, err := g.AddNode(dag.Node{ID: n.ID, Licenses: n.Licenses})
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", n.ID, err)
		}
		if !added {
			return nil, fmt.Errorf("node %q: %w", n.ID, ErrDuplicateNode)
		}
	}
	for _, e := range doc.Edges {
		if !g.HasNode(e.From) || !g.HasNode(e.To) {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, dag.ErrUnknownNode)
		}
		if err := g.AddEdge(dag.Edge{From: e.From, To: e.To}); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}
	return g, nil
}

// ReadJSON decodes a JSON graph from r into a DAG:
//
//	{
//	  "nodes": [{"id": "ROOT"}, {"id": "flask==3.0.0", "licenses": ["BSD License"]}],
//	  "edges": [{"from": "ROOT", "to": "flask==3.0.0"}]
//	}
//
// The returned DAG is independent of r. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*dag.DAG, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToDAG(doc)
}

// ImportJSON reads a JSON file at path and returns the decoded DAG.
func ImportJSON(path string) (*dag.DAG, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
