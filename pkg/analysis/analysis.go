// Package analysis answers blacklist queries over a license-annotated graph.
//
// Given a set of forbidden license names, [Analyze] reports the packages that
// carry one of them and every package that pulls such a package into the
// environment, i.e. every node that sits strictly between the root and a
// blacklisted node on some simple path.
//
// Results are recomputed for every query and never cached on the graph.
package analysis

import (
	"slices"

	"github.com/matzehuels/licensetower/pkg/dag"
	"github.com/matzehuels/licensetower/pkg/deptree"
	"github.com/matzehuels/licensetower/pkg/license"
)

// DefaultMaxDepth bounds path enumeration on cyclic graphs.
const DefaultMaxDepth = 64

// Result is the outcome of one blacklist query. Both lists are sorted and
// disjoint.
type Result struct {
	Blacklisted []string `json:"blacklisted" bson:"blacklisted"`
	Dependents  []string `json:"dependents" bson:"dependents"`
}

// IsBlacklisted reports whether id carries a blacklisted license.
func (r Result) IsBlacklisted(id string) bool {
	_, ok := slices.BinarySearch(r.Blacklisted, id)
	return ok
}

// IsDependent reports whether id lies on a path from the root to a
// blacklisted node.
func (r Result) IsDependent(id string) bool {
	_, ok := slices.BinarySearch(r.Dependents, id)
	return ok
}

// Empty reports whether the query matched nothing.
func (r Result) Empty() bool { return len(r.Blacklisted) == 0 && len(r.Dependents) == 0 }

type options struct {
	maxDepth int
}

// Option configures [Analyze].
type Option func(*options)

// WithMaxDepth bounds the number of edges of the paths enumerated on cyclic
// graphs. n <= 0 removes the bound. Acyclic graphs are answered in closed
// form and ignore it.
func WithMaxDepth(n int) Option {
	return func(o *options) { o.maxDepth = n }
}

// Analyze computes the blacklisted nodes of g and their dependents.
//
// A non-root node is blacklisted when its license set intersects blacklist.
// A node is a dependent when it lies strictly between the root and a
// blacklisted node on at least one simple path and is not blacklisted itself.
// An empty blacklist, an empty graph, or a graph without a root yields an
// empty result (blacklisted nodes are still reported without a root).
//
// g is only read. Analyze never fails.
func Analyze(g *dag.DAG, blacklist license.Set, opts ...Option) Result {
	o := options{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}

	res := Result{Blacklisted: []string{}, Dependents: []string{}}
	if blacklist.Len() == 0 || g.NodeCount() == 0 {
		return res
	}

	blacklisted := make(map[string]bool)
	for _, n := range g.Nodes() {
		if deptree.PackageID(n.ID).IsRoot() {
			continue
		}
		if license.NewSet(n.Licenses...).Intersects(blacklist) {
			blacklisted[n.ID] = true
			res.Blacklisted = append(res.Blacklisted, n.ID)
		}
	}
	if len(blacklisted) == 0 || !g.HasNode(deptree.Root) {
		return res
	}

	fromRoot := g.Reachable(deptree.Root)
	cyclic := g.HasCycle()
	dependents := make(map[string]bool)
	for _, b := range res.Blacklisted {
		if !fromRoot[b] {
			continue
		}
		if cyclic {
			collectOnPaths(g, b, fromRoot, o.maxDepth, dependents)
		} else {
			collectClosedForm(g, b, fromRoot, dependents)
		}
	}

	for id := range dependents {
		if !blacklisted[id] {
			res.Dependents = append(res.Dependents, id)
		}
	}
	slices.Sort(res.Dependents)
	return res
}

// collectClosedForm marks every node reachable from the root that can reach
// b. In an acyclic graph each such node lies on a simple root-to-b path.
func collectClosedForm(g *dag.DAG, b string, fromRoot map[string]bool, out map[string]bool) {
	for id := range g.ReachableReverse(b) {
		if fromRoot[id] && id != b && id != deptree.Root {
			out[id] = true
		}
	}
}

// collectOnPaths marks the interior nodes of every simple root-to-b path.
// Enumeration stops once every candidate node has been seen.
func collectOnPaths(g *dag.DAG, b string, fromRoot map[string]bool, maxDepth int, out map[string]bool) {
	remaining := 0
	for id := range g.ReachableReverse(b) {
		if fromRoot[id] && id != b && id != deptree.Root && !out[id] {
			remaining++
		}
	}
	if remaining == 0 {
		return
	}
	g.AllSimplePaths(deptree.Root, b, maxDepth, func(path []string) bool {
		for _, id := range path[1 : len(path)-1] {
			if !out[id] {
				out[id] = true
				remaining--
			}
		}
		return remaining > 0
	})
}
