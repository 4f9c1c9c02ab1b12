package depgraph

import (
	"fmt"
	"reflect"
	"testing"
)

func TestFindCycles_Acyclic(t *testing.T) {
	g := New()
	g.AddEdge("api", "billing")
	g.AddEdge("api", "auth")
	g.AddEdge("billing", "db")
	g.AddEdge("auth", "db")

	if cycles := g.FindCycles(); len(cycles) != 0 {
		t.Errorf("Expected no cycles in a DAG, got %v", cycles)
	}
}

func TestFindCycles_Triangle(t *testing.T) {
	g := New()
	g.AddEdge("A", "B")
	g.AddEdge("B", "C")
	g.AddEdge("C", "A")

	cycles := g.FindCycles()
	if len(cycles) != 1 {
		t.Fatalf("Expected exactly one cycle, got %d: %v", len(cycles), cycles)
	}
	expected := []string{"A", "B", "C", "A"}
	if !reflect.DeepEqual(cycles[0], expected) {
		t.Errorf("Expected cycle %v, got %v", expected, cycles[0])
	}
}

func TestFindCycles_SelfLoop(t *testing.T) {
	g := New()
	g.AddEdge("A", "A")

	cycles := g.FindCycles()
	if len(cycles) != 1 {
		t.Fatalf("Expected one cycle, got %d", len(cycles))
	}
	expected := []string{"A", "A"}
	if !reflect.DeepEqual(cycles[0], expected) {
		t.Errorf("Expected self-loop cycle %v, got %v", expected, cycles[0])
	}
}

func TestFindCycles_IndependentOfStartNode(t *testing.T) {
	// Same cycle declared from three different starting nodes must
	// report the same closed path.
	declarations := [][][2]string{
		{{"A", "B"}, {"B", "C"}, {"C", "A"}},
		{{"B", "C"}, {"C", "A"}, {"A", "B"}},
		{{"C", "A"}, {"A", "B"}, {"B", "C"}},
	}

	expected := []string{"A", "B", "C", "A"}
	for i, edges := range declarations {
		g := New()
		for _, e := range edges {
			g.AddEdge(e[0], e[1])
		}
		cycles := g.FindCycles()
		if len(cycles) != 1 {
			t.Fatalf("Declaration %d: expected one cycle, got %v", i, cycles)
		}
		if !reflect.DeepEqual(cycles[0], expected) {
			t.Errorf("Declaration %d: expected %v, got %v", i, expected, cycles[0])
		}
	}
}

func TestFindCycles_DiamondIsNotACycle(t *testing.T) {
	g := New()
	g.AddEdge("A", "B")
	g.AddEdge("A", "C")
	g.AddEdge("B", "D")
	g.AddEdge("C", "D")

	if cycles := g.FindCycles(); len(cycles) != 0 {
		t.Errorf("Expected no cycles in a diamond, got %v", cycles)
	}
}

func TestFindCycles_MultipleDisjointCycles(t *testing.T) {
	g := New()
	g.AddEdge("A", "B")
	g.AddEdge("B", "A")
	g.AddEdge("X", "Y")
	g.AddEdge("Y", "Z")
	g.AddEdge("Z", "X")
	g.AddEdge("lonely", "A")

	cycles := g.FindCycles()
	if len(cycles) != 2 {
		t.Fatalf("Expected two cycles, got %d: %v", len(cycles), cycles)
	}
}

func TestFindCycles_SharedTailNotRevisited(t *testing.T) {
	// A long chain into a cycle: the chain nodes must not produce
	// duplicate reports when visited from multiple roots.
	g := New()
	g.AddEdge("r1", "chain")
	g.AddEdge("r2", "chain")
	g.AddEdge("chain", "A")
	g.AddEdge("A", "B")
	g.AddEdge("B", "A")

	cycles := g.FindCycles()
	if len(cycles) != 1 {
		t.Fatalf("Expected exactly one cycle, got %d: %v", len(cycles), cycles)
	}
}

func TestFindCycles_TerminatesOnLargeGraph(t *testing.T) {
	g := New()
	for i := 0; i < 5000; i++ {
		g.AddEdge(fmt.Sprintf("n%d", i), fmt.Sprintf("n%d", i+1))
	}
	g.AddEdge("n5000", "n0")

	cycles := g.FindCycles()
	if len(cycles) != 1 {
		t.Fatalf("Expected one cycle, got %d", len(cycles))
	}
	if len(cycles[0]) != 5002 {
		t.Errorf("Expected closed path of 5002 nodes, got %d", len(cycles[0]))
	}
}

func TestNodesAndEdgesOrder(t *testing.T) {
	g := New()
	g.AddEdge("b", "a")
	g.AddEdge("b", "c")
	g.AddNode("b")

	if !reflect.DeepEqual(g.Nodes(), []string{"b", "a", "c"}) {
		t.Errorf("Expected insertion order, got %v", g.Nodes())
	}
	if !reflect.DeepEqual(g.Edges("b"), []string{"a", "c"}) {
		t.Errorf("Expected edge order, got %v", g.Edges("b"))
	}
}
