// Package depgraph builds directed graphs over declared ids
// (component dependencies, role inheritance) and detects cycles with
// a three-color depth-first search in O(V+E).
package depgraph

// Graph is a directed graph over string ids. Node and edge order is
// insertion order, which keeps traversal and reported cycles
// deterministic for a given document.
type Graph struct {
	order []string
	nodes map[string]bool
	edges map[string][]string
}

// New creates an empty graph
func New() *Graph {
	return &Graph{
		nodes: make(map[string]bool),
		edges: make(map[string][]string),
	}
}

// AddNode registers an id. Adding a known id is a no-op.
func (g *Graph) AddNode(id string) {
	if g.nodes[id] {
		return
	}
	g.nodes[id] = true
	g.order = append(g.order, id)
}

// AddEdge adds a directed edge from one id to another, registering
// both ids. Self-edges are legal and detected as length-1 cycles.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	g.edges[from] = append(g.edges[from], to)
}

// Nodes returns the ids in insertion order
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Edges returns the successors of an id in insertion order
func (g *Graph) Edges(id string) []string {
	return g.edges[id]
}

// DFS colors
const (
	white = iota // unvisited
	gray         // in progress
	black        // done
)

// FindCycles returns every cycle as a closed path: the ordered list of
// ids from the re-entered node around and back, e.g. [A B C A]. Cycle
// paths are rotated to start at their lexicographically smallest id so
// the result does not depend on which node the traversal starts from.
// A finished node's subtree is never revisited.
func (g *Graph) FindCycles() [][]string {
	color := make(map[string]int, len(g.order))
	var stack []string
	var cycles [][]string

	var visit func(id string)
	visit = func(id string) {
		color[id] = gray
		stack = append(stack, id)

		for _, next := range g.edges[id] {
			switch color[next] {
			case gray:
				// Back edge: the cycle is the stack suffix starting
				// at the re-entered node.
				start := 0
				for i := len(stack) - 1; i >= 0; i-- {
					if stack[i] == next {
						start = i
						break
					}
				}
				cycle := make([]string, len(stack)-start)
				copy(cycle, stack[start:])
				cycles = append(cycles, closeCycle(rotateToSmallest(cycle)))
			case white:
				visit(next)
			}
		}

		stack = stack[:len(stack)-1]
		color[id] = black
	}

	for _, id := range g.order {
		if color[id] == white {
			visit(id)
		}
	}
	return cycles
}

// rotateToSmallest rotates an open cycle so it begins at its smallest
// id
func rotateToSmallest(cycle []string) []string {
	if len(cycle) < 2 {
		return cycle
	}
	min := 0
	for i, id := range cycle {
		if id < cycle[min] {
			min = i
		}
	}
	if min == 0 {
		return cycle
	}
	rotated := make([]string, 0, len(cycle))
	rotated = append(rotated, cycle[min:]...)
	rotated = append(rotated, cycle[:min]...)
	return rotated
}

// closeCycle appends the first id so the path reads around and back
func closeCycle(cycle []string) []string {
	if len(cycle) == 0 {
		return cycle
	}
	return append(cycle, cycle[0])
}
