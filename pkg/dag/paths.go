package dag

// Reachable returns the set of nodes reachable from id by following edges
// forward (from dependent to dependency). The start node is included if it
// exists. Returns an empty set for unknown nodes.
func (d *DAG) Reachable(id string) map[string]bool {
	return d.walk(id, d.outgoing)
}

// ReachableReverse returns the set of nodes from which id can be reached,
// i.e. every transitive dependent of id. The node itself is included if it
// exists.
func (d *DAG) ReachableReverse(id string) map[string]bool {
	return d.walk(id, d.incoming)
}

func (d *DAG) walk(start string, adj map[string][]string) map[string]bool {
	seen := make(map[string]bool)
	if _, ok := d.nodes[start]; !ok {
		return seen
	}
	stack := []string{start}
	seen[start] = true
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range adj[id] {
			if !seen[next] {
				seen[next] = true
				stack = append(stack, next)
			}
		}
	}
	return seen
}

// AllSimplePaths enumerates every simple path (no repeated node) from one
// node to another and calls visit with the node sequence of each, including
// both endpoints. The slice passed to visit is reused between calls; copy it
// to retain it. Enumeration stops early when visit returns false.
//
// maxDepth bounds the number of edges in a path; maxDepth <= 0 means
// unbounded. Enumeration is exponential in the worst case on dense graphs.
// Branches that cannot reach the target are pruned up front, which keeps the
// sparse, shallow graphs produced by package managers cheap.
//
// AllSimplePaths reports whether enumeration ran to completion (false if
// visit stopped it). A path of length zero (from == to) is not reported.
func (d *DAG) AllSimplePaths(from, to string, maxDepth int, visit func(path []string) bool) bool {
	if from == to || !d.HasNode(from) || !d.HasNode(to) {
		return true
	}
	canReach := d.ReachableReverse(to)
	if !canReach[from] {
		return true
	}

	path := []string{from}
	onPath := map[string]bool{from: true}
	stopped := false

	var dfs func(id string)
	dfs = func(id string) {
		if maxDepth > 0 && len(path)-1 >= maxDepth {
			return
		}
		for _, next := range d.outgoing[id] {
			if stopped {
				return
			}
			if onPath[next] || !canReach[next] {
				continue
			}
			path = append(path, next)
			if next == to {
				if !visit(path) {
					stopped = true
				}
			} else {
				onPath[next] = true
				dfs(next)
				delete(onPath, next)
			}
			path = path[:len(path)-1]
		}
	}
	dfs(from)
	return !stopped
}
