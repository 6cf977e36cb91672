package analysis

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/licensetower/pkg/dag"
	"github.com/matzehuels/licensetower/pkg/license"
)

// graph builds a DAG from "from->to" edges and per-node licenses.
func graph(t *testing.T, edges []string, licenses map[string][]string) *dag.DAG {
	t.Helper()
	g := dag.New()
	for _, e := range edges {
		from, to, ok := strings.Cut(e, " -> ")
		require.True(t, ok, e)
		require.NoError(t, g.AddEdge(dag.Edge{From: from, To: to}))
	}
	for id, ls := range licenses {
		if !g.HasNode(id) {
			_, err := g.AddNode(dag.Node{ID: id})
			require.NoError(t, err)
		}
		require.NoError(t, g.SetLicenses(id, ls))
	}
	return g
}

func TestAnalyze_Diamond(t *testing.T) {
	g := graph(t,
		[]string{"ROOT -> A", "ROOT -> C", "A -> B", "C -> B"},
		map[string][]string{"A": {"MIT License"}, "B": {"GPL"}, "C": {"BSD License"}},
	)

	res := Analyze(g, license.NewSet("GPL"))

	assert.Equal(t, []string{"B"}, res.Blacklisted)
	assert.Equal(t, []string{"A", "C"}, res.Dependents)
	assert.True(t, res.IsBlacklisted("B"))
	assert.True(t, res.IsDependent("A"))
	assert.False(t, res.IsDependent("ROOT"))
}

func TestAnalyze_EmptyBlacklist(t *testing.T) {
	g := graph(t,
		[]string{"ROOT -> A", "A -> B"},
		map[string][]string{"A": {"MIT License"}, "B": {"GPL"}},
	)

	res := Analyze(g, license.NewSet())

	assert.Empty(t, res.Blacklisted)
	assert.Empty(t, res.Dependents)
	assert.True(t, res.Empty())
}

func TestAnalyze_EmptyGraph(t *testing.T) {
	res := Analyze(dag.New(), license.NewSet("GPL"))
	assert.True(t, res.Empty())
}

func TestAnalyze_NoRoot(t *testing.T) {
	g := graph(t, []string{"A -> B"}, map[string][]string{"B": {"GPL"}})

	res := Analyze(g, license.NewSet("GPL"))

	assert.Equal(t, []string{"B"}, res.Blacklisted)
	assert.Empty(t, res.Dependents)
}

func TestAnalyze_RootNeverBlacklisted(t *testing.T) {
	g := graph(t, []string{"ROOT -> A"}, map[string][]string{"ROOT": {"GPL"}, "A": {"GPL"}})

	res := Analyze(g, license.NewSet("GPL"))

	assert.Equal(t, []string{"A"}, res.Blacklisted)
	assert.Empty(t, res.Dependents)
}

func TestAnalyze_BlacklistedAncestorNotDependent(t *testing.T) {
	// A is itself blacklisted and also sits above B.
	g := graph(t,
		[]string{"ROOT -> A", "A -> X", "X -> B"},
		map[string][]string{"A": {"GPL"}, "B": {"AGPL"}, "X": {"MIT License"}},
	)

	res := Analyze(g, license.NewSet("GPL", "AGPL"))

	assert.Equal(t, []string{"A", "B"}, res.Blacklisted)
	assert.Equal(t, []string{"X"}, res.Dependents)
}

func TestAnalyze_UnreachableBlacklisted(t *testing.T) {
	g := graph(t,
		[]string{"ROOT -> A", "Z -> B"},
		map[string][]string{"B": {"GPL"}},
	)

	res := Analyze(g, license.NewSet("GPL"))

	assert.Equal(t, []string{"B"}, res.Blacklisted)
	assert.Empty(t, res.Dependents, "Z is not reachable from the root")
}

func TestAnalyze_OnlyAncestorsOfBlacklisted(t *testing.T) {
	g := graph(t,
		[]string{"ROOT -> A", "ROOT -> D", "A -> B", "B -> L", "D -> E"},
		map[string][]string{"L": {"GPL"}},
	)

	res := Analyze(g, license.NewSet("GPL"))

	assert.Equal(t, []string{"A", "B"}, res.Dependents)
}

func TestAnalyze_Disjoint(t *testing.T) {
	g := graph(t,
		[]string{"ROOT -> A", "A -> B", "B -> C", "ROOT -> C", "C -> D"},
		map[string][]string{"B": {"GPL"}, "D": {"GPL"}, "C": {"LGPL"}},
	)

	res := Analyze(g, license.NewSet("GPL"))

	for _, id := range res.Blacklisted {
		assert.False(t, res.IsDependent(id), "%s is in both sets", id)
	}
	assert.Equal(t, []string{"B", "D"}, res.Blacklisted)
	assert.Equal(t, []string{"A", "C"}, res.Dependents)
}

func TestAnalyze_CycleMatchesSimplePaths(t *testing.T) {
	// A <-> C forms a cycle; C only reaches B by revisiting A, so it is
	// not on any simple ROOT -> B path.
	g := graph(t,
		[]string{"ROOT -> A", "A -> B", "A -> C", "C -> A"},
		map[string][]string{"B": {"GPL"}},
	)

	res := Analyze(g, license.NewSet("GPL"))

	assert.Equal(t, []string{"B"}, res.Blacklisted)
	assert.Equal(t, []string{"A"}, res.Dependents)
}

func TestAnalyze_CycleOnPath(t *testing.T) {
	g := graph(t,
		[]string{"ROOT -> A", "A -> C", "C -> A", "C -> B"},
		map[string][]string{"B": {"GPL"}},
	)

	res := Analyze(g, license.NewSet("GPL"))

	assert.Equal(t, []string{"A", "C"}, res.Dependents)
}

func TestAnalyze_CyclicAgreesWithClosedFormOnDAGPart(t *testing.T) {
	edges := []string{"ROOT -> A", "ROOT -> C", "A -> B", "C -> B", "B -> D"}
	licenses := map[string][]string{"D": {"GPL"}}

	acyclic := Analyze(graph(t, edges, licenses), license.NewSet("GPL"))

	// An unrelated cycle switches Analyze to path enumeration.
	cyclic := Analyze(graph(t, append(edges, "X -> Y", "Y -> X"), licenses), license.NewSet("GPL"))

	assert.Equal(t, acyclic, cyclic)
}

func TestAnalyze_LongChain(t *testing.T) {
	var edges []string
	prev := "ROOT"
	for i := range 200 {
		id := fmt.Sprintf("p%03d", i)
		edges = append(edges, prev+" -> "+id)
		prev = id
	}
	g := graph(t, edges, map[string][]string{prev: {"GPL"}})

	res := Analyze(g, license.NewSet("GPL"))

	assert.Len(t, res.Dependents, 199)
}

func TestAnalyze_MaxDepthOnCyclicGraph(t *testing.T) {
	edges := []string{"ROOT -> A", "A -> B", "B -> C", "C -> L", "C -> B"}
	g := graph(t, edges, map[string][]string{"L": {"GPL"}})

	assert.Equal(t, []string{"A", "B", "C"}, Analyze(g, license.NewSet("GPL")).Dependents)
	assert.Empty(t, Analyze(g, license.NewSet("GPL"), WithMaxDepth(3)).Dependents)
	assert.Equal(t, []string{"A", "B", "C"}, Analyze(g, license.NewSet("GPL"), WithMaxDepth(0)).Dependents)
}

func TestAnalyze_DoesNotMutateGraph(t *testing.T) {
	g := graph(t,
		[]string{"ROOT -> A", "A -> B"},
		map[string][]string{"B": {"GPL"}},
	)
	before := g.Clone()

	_ = Analyze(g, license.NewSet("GPL"))

	assert.Equal(t, before.Nodes(), g.Nodes())
	assert.Equal(t, before.Edges(), g.Edges())
}
