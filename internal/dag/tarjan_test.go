package dag

import "testing"

func TestGraph_StronglyConnectedComponents_NoCycle(t *testing.T) {
	g := NewGraph()
	g.AddNode("a", nil)
	g.AddNode("b", nil)
	g.AddNode("c", nil)

	g.AddEdge("a", "b")
	g.AddEdge("b", "c")

	sccs := g.StronglyConnectedComponents()
	if len(sccs) != 0 {
		t.Errorf("expected no cycles, got %v", sccs)
	}
}

func TestGraph_StronglyConnectedComponents_SimpleCycle(t *testing.T) {
	g := NewGraph()
	g.AddNode("a", nil)
	g.AddNode("b", nil)
	g.AddNode("c", nil)

	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("c", "a")

	sccs := g.StronglyConnectedComponents()
	if len(sccs) != 1 {
		t.Fatalf("expected 1 cycle, got %d: %v", len(sccs), sccs)
	}
	want := []string{"a", "b", "c"}
	if !equalStrings(sccs[0], want) {
		t.Errorf("cycle members = %v, want %v", sccs[0], want)
	}
}

func TestGraph_StronglyConnectedComponents_TwoDisjointCycles(t *testing.T) {
	g := NewGraph()
	for _, id := range []string{"a", "b", "x", "y"} {
		g.AddNode(id, nil)
	}
	// a <-> b
	g.AddEdge("a", "b")
	g.AddEdge("b", "a")
	// x <-> y
	g.AddEdge("x", "y")
	g.AddEdge("y", "x")

	sccs := g.StronglyConnectedComponents()
	if len(sccs) != 2 {
		t.Fatalf("expected 2 cycles, got %d: %v", len(sccs), sccs)
	}
	if !equalStrings(sccs[0], []string{"a", "b"}) {
		t.Errorf("first cycle = %v, want [a b]", sccs[0])
	}
	if !equalStrings(sccs[1], []string{"x", "y"}) {
		t.Errorf("second cycle = %v, want [x y]", sccs[1])
	}
}

func TestGraph_StronglyConnectedComponents_ExtraChordDoesNotSplitCycle(t *testing.T) {
	// a -> b -> c -> a, plus b -> d (d is not part of the cycle)
	g := NewGraph()
	for _, id := range []string{"a", "b", "c", "d"} {
		g.AddNode(id, nil)
	}
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("c", "a")
	g.AddEdge("b", "d")

	sccs := g.StronglyConnectedComponents()
	if len(sccs) != 1 {
		t.Fatalf("expected 1 cycle, got %d: %v", len(sccs), sccs)
	}
	if !equalStrings(sccs[0], []string{"a", "b", "c"}) {
		t.Errorf("cycle members = %v, want [a b c] (d must not be included)", sccs[0])
	}
}

func TestGraph_FindCycle(t *testing.T) {
	g := NewGraph()
	g.AddNode("a", nil)
	g.AddNode("b", nil)
	g.AddEdge("a", "b")
	g.AddEdge("b", "a")

	members, ok := g.FindCycle()
	if !ok {
		t.Fatal("expected FindCycle to report a cycle")
	}
	if !equalStrings(members, []string{"a", "b"}) {
		t.Errorf("FindCycle() = %v, want [a b]", members)
	}

	g2 := NewGraph()
	g2.AddNode("a", nil)
	if _, ok := g2.FindCycle(); ok {
		t.Error("expected no cycle in single-node graph")
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
