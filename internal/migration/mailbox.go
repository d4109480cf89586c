package migration

import (
	"fmt"
	"sort"

	"pelagos/internal/model"
)

// Mailbox is the shared two-level migration store: destination index ->
// origin index -> pending individuals. In destination-pull mode the inner
// map for island n holds a single self-keyed entry with the best
// individuals island n currently publishes.
//
// The mailbox performs no locking of its own; the archipelago serializes
// every access through its migration mutex. Inner entries are created
// lazily on first write and removed when consumed.
type Mailbox struct {
	pending map[int]map[int][]model.Individual
}

func NewMailbox() *Mailbox {
	return &Mailbox{pending: make(map[int]map[int][]model.Individual)}
}

// Push appends copies of inds to the queue from origin to dest,
// accumulating with any unconsumed prior entries.
func (m *Mailbox) Push(dest, origin int, inds []model.Individual) {
	if len(inds) == 0 {
		return
	}
	inner := m.pending[dest]
	if inner == nil {
		inner = make(map[int][]model.Individual)
		m.pending[dest] = inner
	}
	for _, ind := range inds {
		inner[origin] = append(inner[origin], ind.Clone())
	}
}

// Publish overwrites island's self-keyed slot with copies of inds.
func (m *Mailbox) Publish(island int, inds []model.Individual) {
	inner := m.pending[island]
	if inner == nil {
		inner = make(map[int][]model.Individual)
		m.pending[island] = inner
	}
	published := make([]model.Individual, 0, len(inds))
	for _, ind := range inds {
		published = append(published, ind.Clone())
	}
	inner[island] = published
}

// Published returns copies of island's self-keyed slot without consuming
// it; the slot persists until the owner overwrites it.
func (m *Mailbox) Published(island int) ([]model.Individual, bool) {
	inner := m.pending[island]
	if inner == nil {
		return nil, false
	}
	slot, ok := inner[island]
	if !ok || len(slot) == 0 {
		return nil, false
	}
	out := make([]model.Individual, 0, len(slot))
	for _, ind := range slot {
		checkEntry(island, island, ind)
		out = append(out, ind.Clone())
	}
	return out, true
}

// TakeAll removes and returns every pending entry destined for dest, keyed
// and ordered by origin. The read and the clear are one atomic step with
// respect to writers because the caller holds the migration mutex.
func (m *Mailbox) TakeAll(dest int) []Delivery {
	inner := m.pending[dest]
	if len(inner) == 0 {
		return nil
	}
	origins := make([]int, 0, len(inner))
	for origin := range inner {
		origins = append(origins, origin)
	}
	sort.Ints(origins)

	out := make([]Delivery, 0, len(origins))
	for _, origin := range origins {
		inds := inner[origin]
		if len(inds) == 0 {
			continue
		}
		for _, ind := range inds {
			checkEntry(origin, dest, ind)
		}
		out = append(out, Delivery{Origin: origin, Individuals: inds})
	}
	delete(m.pending, dest)
	return out
}

// Delivery is one origin's batch of in-transit individuals.
type Delivery struct {
	Origin      int
	Individuals []model.Individual
}

// checkEntry guards the locking protocol: a half-written individual can
// only be observed if a writer ran outside the migration mutex, which is a
// fatal defect, not a recoverable condition.
func checkEntry(origin, dest int, ind model.Individual) {
	if ind.Decision == nil || ind.Fitness == nil {
		panic(fmt.Sprintf("migration mailbox: torn entry in transit %d->%d", origin, dest))
	}
}
