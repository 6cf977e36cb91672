package dag

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [DAG.AddNode] and [DAG.AddEdge] when a
	// node ID is empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrUnknownNode is returned by [DAG.SetLicenses] when the node does not
	// exist in the graph.
	ErrUnknownNode = errors.New("unknown node")
)

// Node is a vertex of the dependency graph.
//
// The zero value is not usable - ID must be set before adding to a DAG.
type Node struct {
	ID       string   // Package identifier ("name==version" or the root sentinel)
	Licenses []string // Sorted license names (nil until annotated)
}

// Edge is a directed "depends on" relation: From depends on To.
type Edge struct {
	From string // Dependent package
	To   string // Dependency
}

// DAG is a directed graph of package nodes.
//
// Despite the name, DAG does not reject cycles on insertion: real dependency
// graphs are acyclic, but algorithms check [DAG.HasCycle] before relying on
// it. Nodes and edges have set semantics - adding an existing node or edge is
// a no-op.
//
// The zero value is not usable - use New to create a valid DAG instance.
// DAG is not safe for concurrent use without external synchronization; treat
// a graph as read-only once it has been annotated.
type DAG struct {
	nodes    map[string]*Node
	order    []string            // insertion order of node IDs
	edges    []Edge              // insertion order of edges
	edgeSet  map[Edge]struct{}   // dedup index
	outgoing map[string][]string // nodeID -> dependency IDs
	incoming map[string][]string // nodeID -> dependent IDs
}

// New creates an empty DAG.
func New() *DAG {
	return &DAG{
		nodes:    make(map[string]*Node),
		edgeSet:  make(map[Edge]struct{}),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode adds a node to the graph. It reports whether the node was newly
// added; adding an ID that already exists leaves the existing node untouched.
// Returns ErrInvalidNodeID if the node ID is empty.
func (d *DAG) AddNode(n Node) (bool, error) {
	if n.ID == "" {
		return false, ErrInvalidNodeID
	}
	if _, exists := d.nodes[n.ID]; exists {
		return false, nil
	}
	n.Licenses = sortedCopy(n.Licenses)
	d.nodes[n.ID] = &n
	d.order = append(d.order, n.ID)
	return true, nil
}

// AddEdge adds a directed edge, creating missing endpoints. Duplicate edges
// are ignored. Returns ErrInvalidNodeID if either endpoint is empty.
func (d *DAG) AddEdge(e Edge) error {
	if e.From == "" || e.To == "" {
		return ErrInvalidNodeID
	}
	_, _ = d.AddNode(Node{ID: e.From})
	_, _ = d.AddNode(Node{ID: e.To})
	if _, exists := d.edgeSet[e]; exists {
		return nil
	}
	d.edgeSet[e] = struct{}{}
	d.edges = append(d.edges, e)
	d.outgoing[e.From] = append(d.outgoing[e.From], e.To)
	d.incoming[e.To] = append(d.incoming[e.To], e.From)
	return nil
}

// SetLicenses replaces the license set of a node with a sorted copy of
// licenses. Returns ErrUnknownNode if the node does not exist.
func (d *DAG) SetLicenses(id string, licenses []string) error {
	n, ok := d.nodes[id]
	if !ok {
		return ErrUnknownNode
	}
	n.Licenses = sortedCopy(licenses)
	return nil
}

// Node returns the node with the given ID and true, or nil and false if not found.
// The returned pointer refers to the node in the graph.
func (d *DAG) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// HasNode reports whether the node exists.
func (d *DAG) HasNode(id string) bool {
	_, ok := d.nodes[id]
	return ok
}

// HasEdge reports whether the edge from→to exists.
func (d *DAG) HasEdge(from, to string) bool {
	_, ok := d.edgeSet[Edge{From: from, To: to}]
	return ok
}

// Nodes returns all nodes sorted by ID. The pointers refer to the nodes in
// the graph.
func (d *DAG) Nodes() []*Node {
	nodes := make([]*Node, 0, len(d.nodes))
	for _, id := range slices.Sorted(maps.Keys(d.nodes)) {
		nodes = append(nodes, d.nodes[id])
	}
	return nodes
}

// NodeIDs returns all node IDs in insertion order.
func (d *DAG) NodeIDs() []string { return slices.Clone(d.order) }

// Edges returns a copy of all edges in insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of nodes in the graph.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges in the graph.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Children returns the IDs of the nodes this node depends on.
// The returned slice should not be modified.
func (d *DAG) Children(id string) []string { return d.outgoing[id] }

// Parents returns the IDs of the nodes that depend on this node.
// The returned slice should not be modified.
func (d *DAG) Parents(id string) []string { return d.incoming[id] }

// OutDegree returns the number of outgoing edges from the node.
func (d *DAG) OutDegree(id string) int { return len(d.outgoing[id]) }

// InDegree returns the number of incoming edges to the node.
func (d *DAG) InDegree(id string) int { return len(d.incoming[id]) }

// Clone returns a deep copy of the graph.
func (d *DAG) Clone() *DAG {
	return d.Subgraph(func(string) bool { return true })
}

// Subgraph returns a new graph induced by the nodes for which keep returns
// true. Edges are kept when both endpoints are kept.
func (d *DAG) Subgraph(keep func(id string) bool) *DAG {
	out := New()
	for _, id := range d.order {
		if keep(id) {
			_, _ = out.AddNode(*d.nodes[id])
		}
	}
	for _, e := range d.edges {
		if out.HasNode(e.From) && out.HasNode(e.To) {
			_ = out.AddEdge(e)
		}
	}
	return out
}

// HasCycle reports whether the graph contains a directed cycle.
// Runs in O(N+E) using depth-first search with white/gray/black coloring.
func (d *DAG) HasCycle() bool {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(d.nodes))
	var hasCycle bool

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, child := range d.outgoing[id] {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				hasCycle = true
			}
			if hasCycle {
				return
			}
		}
		color[id] = black
	}

	for _, id := range d.order {
		if color[id] == white {
			dfs(id)
			if hasCycle {
				return true
			}
		}
	}
	return false
}

func sortedCopy(s []string) []string {
	if s == nil {
		return nil
	}
	out := slices.Clone(s)
	slices.Sort(out)
	return slices.Compact(out)
}
