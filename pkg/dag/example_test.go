package dag_test

import (
	"fmt"

	"github.com/matzehuels/licensetower/pkg/dag"
)

func ExampleDAG_basic() {
	// ROOT → flask → click, with a duplicate edge that collapses
	g := dag.New()
	_ = g.AddEdge(dag.Edge{From: "ROOT", To: "flask==3.0.0"})
	_ = g.AddEdge(dag.Edge{From: "flask==3.0.0", To: "click==8.1.7"})
	_ = g.AddEdge(dag.Edge{From: "flask==3.0.0", To: "click==8.1.7"})

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Children of flask:", g.Children("flask==3.0.0"))
	// Output:
	// Nodes: 3
	// Edges: 2
	// Children of flask: [click==8.1.7]
}

func ExampleDAG_AllSimplePaths() {
	// Diamond: two chains lead from ROOT to b
	g := dag.New()
	_ = g.AddEdge(dag.Edge{From: "ROOT", To: "a"})
	_ = g.AddEdge(dag.Edge{From: "ROOT", To: "c"})
	_ = g.AddEdge(dag.Edge{From: "a", To: "b"})
	_ = g.AddEdge(dag.Edge{From: "c", To: "b"})

	g.AllSimplePaths("ROOT", "b", 0, func(path []string) bool {
		fmt.Println(path)
		return true
	})
	// Output:
	// [ROOT a b]
	// [ROOT c b]
}
