package graph

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Snapshot is the flat serialized form of a graph:
// {"nodes": [id...], "edges": [{"from": id, "to": id}...]}.
// It is a persistence and debugging format, not a coordination channel.
type Snapshot struct {
	Nodes []string       `json:"nodes"`
	Edges []SnapshotEdge `json:"edges"`
}

// SnapshotEdge is one directed edge in a Snapshot.
type SnapshotEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Snapshot captures the current graph state with nodes and edges sorted,
// so identical graphs produce identical snapshots.
func (g *Graph) Snapshot() Snapshot {
	s := Snapshot{
		Nodes: g.Nodes(),
		Edges: make([]SnapshotEdge, 0, g.EdgeCount()),
	}
	for from, deps := range g.forward {
		for to := range deps {
			s.Edges = append(s.Edges, SnapshotEdge{From: from, To: to})
		}
	}
	sort.Slice(s.Edges, func(i, j int) bool {
		if s.Edges[i].From != s.Edges[j].From {
			return s.Edges[i].From < s.Edges[j].From
		}
		return s.Edges[i].To < s.Edges[j].To
	})
	return s
}

// MarshalJSON serializes the graph in snapshot form.
func (g *Graph) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Snapshot())
}

// Restore replaces the graph's contents with the snapshot. The snapshot is
// validated first: a duplicate node identity or an edge referencing a node
// absent from the node list is rejected and the graph is left untouched,
// protecting the forward/reverse mirror invariant.
func (g *Graph) Restore(s Snapshot) error {
	seen := make(map[string]struct{}, len(s.Nodes))
	for _, id := range s.Nodes {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("invalid snapshot: duplicate node %q", id)
		}
		seen[id] = struct{}{}
	}
	for _, e := range s.Edges {
		if _, ok := seen[e.From]; !ok {
			return fmt.Errorf("invalid snapshot: edge %q -> %q references unknown node %q", e.From, e.To, e.From)
		}
		if _, ok := seen[e.To]; !ok {
			return fmt.Errorf("invalid snapshot: edge %q -> %q references unknown node %q", e.From, e.To, e.To)
		}
	}

	g.Clear()
	for _, id := range s.Nodes {
		g.AddNode(id)
	}
	for _, e := range s.Edges {
		g.AddEdge(e.From, e.To)
	}
	return nil
}

// FromSnapshot builds a new graph from a snapshot, validating it first.
func FromSnapshot(s Snapshot, opts ...Option) (*Graph, error) {
	g := New(opts...)
	if err := g.Restore(s); err != nil {
		return nil, err
	}
	return g, nil
}
