package topology

import "fmt"

// Topology is a directed graph over island indices 0..N-1. An edge i->j
// permits individuals to move from island i to island j (the archipelago
// decides which side of the edge consults it, depending on the migration
// direction).
//
// Implementations need not be safe for concurrent mutation; the archipelago
// only reads neighbour sets while an evolution is in flight and registers
// vertices only between evolutions.
type Topology interface {
	Name() string
	Size() int
	AddVertex()
	// Neighbours returns the ordered set of indices reachable from i.
	Neighbours(i int) []int
}

// Unconnected is the default topology: vertices only, no edges, therefore
// no migration.
type Unconnected struct {
	n int
}

func NewUnconnected() *Unconnected {
	return &Unconnected{}
}

func (*Unconnected) Name() string {
	return "unconnected"
}

func (t *Unconnected) Size() int {
	return t.n
}

func (t *Unconnected) AddVertex() {
	t.n++
}

func (t *Unconnected) Neighbours(i int) []int {
	return nil
}

// Custom is an explicit edge-list topology. Edges keep insertion order and
// self-loops exist only when explicitly added.
type Custom struct {
	adj [][]int
}

func NewCustom() *Custom {
	return &Custom{}
}

func (*Custom) Name() string {
	return "custom"
}

func (t *Custom) Size() int {
	return len(t.adj)
}

func (t *Custom) AddVertex() {
	t.adj = append(t.adj, nil)
}

// AddEdge inserts the directed edge from->to. Duplicate edges and
// out-of-range vertices are rejected.
func (t *Custom) AddEdge(from, to int) error {
	if from < 0 || from >= len(t.adj) {
		return fmt.Errorf("edge origin out of range: %d", from)
	}
	if to < 0 || to >= len(t.adj) {
		return fmt.Errorf("edge destination out of range: %d", to)
	}
	for _, existing := range t.adj[from] {
		if existing == to {
			return fmt.Errorf("duplicate edge: %d->%d", from, to)
		}
	}
	t.adj[from] = append(t.adj[from], to)
	return nil
}

func (t *Custom) Neighbours(i int) []int {
	if i < 0 || i >= len(t.adj) {
		return nil
	}
	return append([]int(nil), t.adj[i]...)
}
