package graph

import "sort"

// AllDependencies returns every identity reachable from id over forward
// edges, sorted. The start node is excluded unless a cycle leads back to it.
// The traversal is iterative with a visited guard, so cyclic graphs
// terminate and yield no duplicates.
func (g *Graph) AllDependencies(id string) []string {
	return g.closure(id, g.forward)
}

// ImpactedFiles returns every identity reachable from id over reverse
// edges, sorted: everything that would need re-examination if id changed.
func (g *Graph) ImpactedFiles(id string) []string {
	return g.closure(id, g.reverse)
}

func (g *Graph) closure(start string, adj map[string]map[string]struct{}) []string {
	visited := make(map[string]struct{})
	stack := make([]string, 0, len(adj[start]))
	for n := range adj[start] {
		stack = append(stack, n)
	}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := visited[n]; ok {
			continue
		}
		visited[n] = struct{}{}
		for next := range adj[n] {
			if _, ok := visited[next]; !ok {
				stack = append(stack, next)
			}
		}
	}

	return sortedKeys(visited)
}

// DFS colors.
const (
	white = iota // unvisited
	gray         // on the active DFS path
	black        // fully explored
)

// DetectCycles finds all circular dependency chains in one pass.
// Each cycle is reported as an ordered sequence of identities, starting at
// the node the back-edge returns to. Self-edges are only reported when the
// graph was built with WithSelfEdgeCycles(true). An empty result means the
// graph is acyclic (up to tolerated self-edges).
//
// The DFS is iterative with an explicit frame stack to stay safe on deep
// dependency chains.
func (g *Graph) DetectCycles() [][]string {
	color := make(map[string]int, len(g.nodes))
	var cycles [][]string

	type frame struct {
		id        string
		neighbors []string
		next      int
	}

	for _, root := range g.Nodes() {
		if color[root] != white {
			continue
		}

		stack := []frame{{id: root, neighbors: g.Dependencies(root)}}
		color[root] = gray
		path := []string{root}

		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			if f.next < len(f.neighbors) {
				n := f.neighbors[f.next]
				f.next++

				if n == f.id {
					if g.selfEdgeCycles {
						cycles = append(cycles, []string{f.id})
					}
					continue
				}
				switch color[n] {
				case white:
					color[n] = gray
					stack = append(stack, frame{id: n, neighbors: g.Dependencies(n)})
					path = append(path, n)
				case gray:
					// Back-edge: unwind the active path to recover the cycle.
					for i := len(path) - 1; i >= 0; i-- {
						if path[i] == n {
							cycle := make([]string, len(path)-i)
							copy(cycle, path[i:])
							cycles = append(cycles, cycle)
							break
						}
					}
				}
				continue
			}

			color[f.id] = black
			stack = stack[:len(stack)-1]
			path = path[:len(path)-1]
		}
	}

	return cycles
}

// TopologicalSort returns a total order consistent with every edge, with
// dependencies placed before their dependents, using Kahn's in-degree
// elimination. It returns ok=false when a cycle (other than a tolerated
// self-edge) makes such an order impossible; it never panics.
// Ties are broken lexicographically so the order is deterministic.
func (g *Graph) TopologicalSort() ([]string, bool) {
	// remaining[n] counts n's unplaced dependencies.
	remaining := make(map[string]int, len(g.nodes))
	for id, deps := range g.forward {
		count := len(deps)
		if _, self := deps[id]; self && !g.selfEdgeCycles {
			count--
		}
		remaining[id] = count
	}

	ready := make([]string, 0, len(g.nodes))
	for id, count := range remaining {
		if count == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		released := make([]string, 0)
		for dependent := range g.reverse[id] {
			if dependent == id {
				continue
			}
			remaining[dependent]--
			if remaining[dependent] == 0 {
				released = append(released, dependent)
			}
		}
		if len(released) > 0 {
			ready = append(ready, released...)
			sort.Strings(ready)
		}
	}

	if len(order) != len(g.nodes) {
		return nil, false
	}
	return order, true
}
