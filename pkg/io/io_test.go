package io

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/licensetower/pkg/dag"
)

func sampleGraph(t *testing.T) *dag.DAG {
	t.Helper()
	g := dag.New()
	for _, e := range []dag.Edge{
		{From: "ROOT", To: "flask==3.0.0"},
		{From: "flask==3.0.0", To: "click==8.1.7"},
		{From: "flask==3.0.0", To: "jinja2==3.1.2"},
	} {
		if err := g.AddEdge(e); err != nil {
			t.Fatal(err)
		}
	}
	_ = g.SetLicenses("flask==3.0.0", []string{"BSD License"})
	_ = g.SetLicenses("click==8.1.7", []string{"BSD License", "UNKNOWN"})
	_ = g.SetLicenses("jinja2==3.1.2", []string{"BSD License"})
	return g
}

func assertSameGraph(t *testing.T, want, got *dag.DAG) {
	t.Helper()
	if got.NodeCount() != want.NodeCount() || got.EdgeCount() != want.EdgeCount() {
		t.Fatalf("got %d nodes/%d edges, want %d/%d",
			got.NodeCount(), got.EdgeCount(), want.NodeCount(), want.EdgeCount())
	}
	for _, n := range want.Nodes() {
		m, ok := got.Node(n.ID)
		if !ok {
			t.Fatalf("node %s missing", n.ID)
		}
		if strings.Join(m.Licenses, ",") != strings.Join(n.Licenses, ",") {
			t.Errorf("node %s licenses = %v, want %v", n.ID, m.Licenses, n.Licenses)
		}
	}
	for _, e := range want.Edges() {
		if !got.HasEdge(e.From, e.To) {
			t.Errorf("edge %s->%s missing", e.From, e.To)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	g := sampleGraph(t)

	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	assertSameGraph(t, g, got)
}

func TestRoundTripFile(t *testing.T) {
	g := sampleGraph(t)
	path := filepath.Join(t.TempDir(), "graph.json")

	if err := ExportJSON(g, path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	got, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	assertSameGraph(t, g, got)
}

func TestWriteJSONDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	_ = WriteJSON(sampleGraph(t), &a)
	_ = WriteJSON(sampleGraph(t), &b)
	if a.String() != b.String() {
		t.Error("repeated exports differ")
	}
}

func TestRootHasNoLicensesField(t *testing.T) {
	var buf bytes.Buffer
	_ = WriteJSON(sampleGraph(t), &buf)
	if !strings.Contains(buf.String(), `"id": "ROOT"`+"\n") {
		t.Errorf("root should be written without licenses:\n%s", buf.String())
	}
}

func TestFromDAGCopiesLicenses(t *testing.T) {
	g := sampleGraph(t)
	doc := FromDAG(g)
	for i := range doc.Nodes {
		if len(doc.Nodes[i].Licenses) > 0 {
			doc.Nodes[i].Licenses[0] = "mutated"
		}
	}
	n, _ := g.Node("flask==3.0.0")
	if n.Licenses[0] != "BSD License" {
		t.Error("document shares license slices with the graph")
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"duplicate node", `{"nodes":[{"id":"a"},{"id":"a"}],"edges":[]}`, ErrDuplicateNode},
		{"unknown edge endpoint", `{"nodes":[{"id":"a"}],"edges":[{"from":"a","to":"b"}]}`, dag.ErrUnknownNode},
		{"empty id", `{"nodes":[{"id":""}],"edges":[]}`, dag.ErrInvalidNodeID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if !errors.Is(err, tt.want) {
				t.Errorf("ReadJSON() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestReadJSONMalformed(t *testing.T) {
	if _, err := ReadJSON(strings.NewReader("{not json")); err == nil {
		t.Error("expected decode error")
	}
}

func TestImportJSONMissingFile(t *testing.T) {
	if _, err := ImportJSON(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
