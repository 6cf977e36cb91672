package nodelink

import (
	"github.com/matzehuels/licensetower/pkg/analysis"
	"github.com/matzehuels/licensetower/pkg/dag"
	"github.com/matzehuels/licensetower/pkg/deptree"
)

// FilterOptions selects which highlighted groups are hidden from display.
type FilterOptions struct {
	HideBlacklisted bool
	HideDependents  bool
}

// Filter returns the subgraph of g shown for res under opts. The root is
// always kept. Edges touching a hidden node are dropped. g is not modified.
func Filter(g *dag.DAG, res analysis.Result, opts FilterOptions) *dag.DAG {
	if !opts.HideBlacklisted && !opts.HideDependents {
		return g.Clone()
	}
	return g.Subgraph(func(id string) bool {
		if deptree.PackageID(id).IsRoot() {
			return true
		}
		if opts.HideBlacklisted && res.IsBlacklisted(id) {
			return false
		}
		if opts.HideDependents && res.IsDependent(id) {
			return false
		}
		return true
	})
}
