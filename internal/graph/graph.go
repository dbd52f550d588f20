// Package graph implements the directed file-dependency graph.
//
// Nodes are identified purely by string keys (project-relative file paths).
// Neighbor relations live in two flat mappings, forward ("depends on") and
// reverse ("depended on by"), which are kept as exact mirror images of each
// other: for every edge (a,b), b is in forward[a] and a is in reverse[b].
// Nodes never hold references to other nodes, so removal needs no reference
// counting and the structure matches the snapshot format directly.
package graph

import "sort"

// Graph is a mutable directed graph over file identities.
// It is not safe for concurrent mutation; callers serialize writes.
type Graph struct {
	nodes   map[string]struct{}
	forward map[string]map[string]struct{} // id -> direct dependencies
	reverse map[string]map[string]struct{} // id -> direct dependents

	selfEdgeCycles bool // whether a lone self-edge counts as a cycle
}

// Option configures a Graph.
type Option func(*Graph)

// WithSelfEdgeCycles controls whether a self-edge (a depends on a) is
// reported by DetectCycles and blocks TopologicalSort. The default is to
// tolerate self-edges.
func WithSelfEdgeCycles(enabled bool) Option {
	return func(g *Graph) {
		g.selfEdgeCycles = enabled
	}
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		nodes:   make(map[string]struct{}),
		forward: make(map[string]map[string]struct{}),
		reverse: make(map[string]map[string]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AddNode ensures id exists in the graph. Adding an existing node is a no-op.
func (g *Graph) AddNode(id string) {
	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = struct{}{}
	g.forward[id] = make(map[string]struct{})
	g.reverse[id] = make(map[string]struct{})
}

// AddEdge records that from depends on to, implicitly adding both endpoints.
// Repeating an identical call leaves the graph unchanged. Self-edges are
// stored like any other edge.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	g.forward[from][to] = struct{}{}
	g.reverse[to][from] = struct{}{}
}

// HasNode reports whether id is present.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// HasEdge reports whether the edge from->to is present.
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.forward[from][to]
	return ok
}

// Dependencies returns the direct dependencies of id, sorted.
// An unknown id yields an empty slice, never an error.
func (g *Graph) Dependencies(id string) []string {
	return sortedKeys(g.forward[id])
}

// Dependents returns the direct dependents of id, sorted.
// An unknown id yields an empty slice, never an error.
func (g *Graph) Dependents(id string) []string {
	return sortedKeys(g.reverse[id])
}

// Nodes returns all node identities, sorted.
func (g *Graph) Nodes() []string {
	return sortedKeys(g.nodes)
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, deps := range g.forward {
		n += len(deps)
	}
	return n
}

// RemoveNode deletes id and every edge touching it, in both directions.
// Removing an unknown id is a no-op.
func (g *Graph) RemoveNode(id string) {
	if _, ok := g.nodes[id]; !ok {
		return
	}
	for dep := range g.forward[id] {
		delete(g.reverse[dep], id)
	}
	for dependent := range g.reverse[id] {
		delete(g.forward[dependent], id)
	}
	delete(g.forward, id)
	delete(g.reverse, id)
	delete(g.nodes, id)
}

// RemoveOutgoingEdges drops every edge from id to its dependencies, keeping
// the node and the edges pointing at it. Used when a file is re-indexed:
// only its own import list changed.
func (g *Graph) RemoveOutgoingEdges(id string) {
	for dep := range g.forward[id] {
		delete(g.reverse[dep], id)
	}
	if _, ok := g.nodes[id]; ok {
		g.forward[id] = make(map[string]struct{})
	}
}

// Clear resets the graph to empty.
func (g *Graph) Clear() {
	g.nodes = make(map[string]struct{})
	g.forward = make(map[string]map[string]struct{})
	g.reverse = make(map[string]map[string]struct{})
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
