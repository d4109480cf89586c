package topology

import "testing"

func TestUnconnectedHasNoEdges(t *testing.T) {
	topo := NewUnconnected()
	if topo.Size() != 0 {
		t.Fatalf("fresh topology must be empty, got %d", topo.Size())
	}
	topo.AddVertex()
	topo.AddVertex()
	if topo.Size() != 2 {
		t.Fatalf("unexpected size: %d", topo.Size())
	}
	if got := topo.Neighbours(0); len(got) != 0 {
		t.Fatalf("unconnected topology must have no neighbours, got %v", got)
	}
}

func TestCustomEdges(t *testing.T) {
	topo := NewCustom()
	for i := 0; i < 3; i++ {
		topo.AddVertex()
	}
	if err := topo.AddEdge(0, 1); err != nil {
		t.Fatalf("add edge: %v", err)
	}
	if err := topo.AddEdge(0, 2); err != nil {
		t.Fatalf("add edge: %v", err)
	}

	got := topo.Neighbours(0)
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("neighbours must keep insertion order, got %v", got)
	}
	if got := topo.Neighbours(1); len(got) != 0 {
		t.Fatalf("edges are directed, got %v", got)
	}
}

func TestCustomRejectsDuplicateAndOutOfRange(t *testing.T) {
	topo := NewCustom()
	topo.AddVertex()
	topo.AddVertex()
	if err := topo.AddEdge(0, 1); err != nil {
		t.Fatalf("add edge: %v", err)
	}
	if err := topo.AddEdge(0, 1); err == nil {
		t.Fatal("expected duplicate edge error")
	}
	if err := topo.AddEdge(-1, 0); err == nil {
		t.Fatal("expected origin range error")
	}
	if err := topo.AddEdge(0, 2); err == nil {
		t.Fatal("expected destination range error")
	}
}

func TestCustomNeighboursReturnsCopy(t *testing.T) {
	topo := NewCustom()
	topo.AddVertex()
	topo.AddVertex()
	if err := topo.AddEdge(0, 1); err != nil {
		t.Fatalf("add edge: %v", err)
	}
	got := topo.Neighbours(0)
	got[0] = 99
	if again := topo.Neighbours(0); again[0] != 1 {
		t.Fatal("Neighbours must not expose internal storage")
	}
	if got := topo.Neighbours(5); got != nil {
		t.Fatalf("out-of-range vertex must have no neighbours, got %v", got)
	}
}

func TestCustomSelfLoop(t *testing.T) {
	topo := NewCustom()
	topo.AddVertex()
	if err := topo.AddEdge(0, 0); err != nil {
		t.Fatalf("explicit self-loop must be allowed: %v", err)
	}
	if got := topo.Neighbours(0); len(got) != 1 || got[0] != 0 {
		t.Fatalf("unexpected neighbours: %v", got)
	}
}
