package license

import (
	"maps"
	"slices"

	"github.com/matzehuels/licensetower/pkg/dag"
	"github.com/matzehuels/licensetower/pkg/deptree"
)

// Of returns the license set attached to a node. Unknown nodes and the root
// yield an empty set.
func Of(g *dag.DAG, id string) Set {
	n, ok := g.Node(id)
	if !ok {
		return Set{}
	}
	return NewSet(n.Licenses...)
}

// Counts maps each license name to the number of packages carrying it. The
// root is excluded and a package with several licenses counts once for each.
func Counts(g *dag.DAG) map[string]int {
	counts := make(map[string]int)
	for _, n := range g.Nodes() {
		if deptree.PackageID(n.ID).IsRoot() {
			continue
		}
		for _, l := range n.Licenses {
			counts[l]++
		}
	}
	return counts
}

// Names returns every license name present in g, sorted.
func Names(g *dag.DAG) []string {
	return slices.Sorted(maps.Keys(Counts(g)))
}
