package deptree

import "github.com/matzehuels/licensetower/pkg/dag"

// Build converts records into a dependency graph.
//
// Every record, at any nesting depth, becomes a node "name==version"; an
// edge record→dep is added for each direct dependency. Repeated packages and
// edges collapse.
//
// With includeRoot, a [Root] node is added and linked to every top-level
// record that declares at least one dependency, even if every declared entry
// was skipped as malformed. Top-level records without
// dependencies stay in the graph but are not linked from the root; this
// mirrors the established output format and is relied on by consumers.
func Build(records []Record, includeRoot bool) *dag.DAG {
	g := dag.New()
	if includeRoot {
		_, _ = g.AddNode(dag.Node{ID: Root})
	}
	for _, r := range records {
		addRecord(g, r)
		if includeRoot && r.HasDependencies() {
			_ = g.AddEdge(dag.Edge{From: Root, To: string(r.ID())})
		}
	}
	return g
}

func addRecord(g *dag.DAG, r Record) {
	id := string(r.ID())
	_, _ = g.AddNode(dag.Node{ID: id})
	for _, dep := range r.Dependencies {
		addRecord(g, dep)
		_ = g.AddEdge(dag.Edge{From: id, To: string(dep.ID())})
	}
}
