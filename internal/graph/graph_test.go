package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddNodeIdempotent(t *testing.T) {
	g := New()
	g.AddNode("a")
	g.AddNode("a")

	assert.Equal(t, 1, g.NodeCount())
	assert.Equal(t, []string{"a"}, g.Nodes())
}

func TestAddEdgeAddsEndpoints(t *testing.T) {
	g := New()
	g.AddEdge("a", "b")

	assert.True(t, g.HasNode("a"))
	assert.True(t, g.HasNode("b"))
	assert.Equal(t, []string{"b"}, g.Dependencies("a"))
	assert.Equal(t, []string{"a"}, g.Dependents("b"))
}

func TestAddEdgeIdempotent(t *testing.T) {
	g := New()
	g.AddEdge("a", "b")
	g.AddEdge("a", "b")

	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 1, g.EdgeCount())
	assert.Equal(t, []string{"b"}, g.Dependencies("a"))
}

func TestSelfEdgePreserved(t *testing.T) {
	g := New()
	g.AddEdge("a", "a")

	assert.Equal(t, []string{"a"}, g.Dependencies("a"))
	assert.Equal(t, []string{"a"}, g.Dependents("a"))
}

func TestUnknownNodeQueriesReturnEmpty(t *testing.T) {
	g := New()

	assert.Empty(t, g.Dependencies("missing"))
	assert.Empty(t, g.Dependents("missing"))
	assert.Empty(t, g.AllDependencies("missing"))
	assert.Empty(t, g.ImpactedFiles("missing"))
}

func TestMirrorInvariant(t *testing.T) {
	g := New()
	g.AddEdge("a", "b")
	g.AddEdge("a", "c")
	g.AddEdge("b", "c")
	g.AddEdge("c", "a")
	g.RemoveNode("b")

	for _, from := range g.Nodes() {
		for _, to := range g.Dependencies(from) {
			assert.Contains(t, g.Dependents(to), from,
				"edge %s->%s missing from reverse mapping", from, to)
		}
	}
	for _, to := range g.Nodes() {
		for _, from := range g.Dependents(to) {
			assert.Contains(t, g.Dependencies(from), to,
				"edge %s->%s missing from forward mapping", from, to)
		}
	}
}

func TestRemoveNodeLeavesNoDanglingReferences(t *testing.T) {
	g := New()
	g.AddEdge("a", "x")
	g.AddEdge("x", "b")
	g.AddEdge("c", "x")
	g.AddEdge("x", "x")

	g.RemoveNode("x")

	assert.False(t, g.HasNode("x"))
	for _, id := range g.Nodes() {
		assert.NotContains(t, g.Dependencies(id), "x")
		assert.NotContains(t, g.Dependents(id), "x")
	}
	assert.Equal(t, 0, g.EdgeCount())
}

func TestRemoveOutgoingEdgesKeepsIncoming(t *testing.T) {
	g := New()
	g.AddEdge("a", "b")
	g.AddEdge("a", "c")
	g.AddEdge("d", "a")

	g.RemoveOutgoingEdges("a")

	assert.Empty(t, g.Dependencies("a"))
	assert.Equal(t, []string{"d"}, g.Dependents("a"))
	assert.Empty(t, g.Dependents("b"))
	assert.True(t, g.HasNode("b"), "endpoints stay as nodes")
}

func TestClear(t *testing.T) {
	g := New()
	g.AddEdge("a", "b")
	g.Clear()

	require.Equal(t, 0, g.NodeCount())
	require.Equal(t, 0, g.EdgeCount())
	g.AddEdge("a", "b") // usable after reset
	assert.Equal(t, 1, g.EdgeCount())
}
