package migration

import (
	"fmt"
	"strings"
)

// Entry records one migration event: count individuals moved from origin
// to destination.
type Entry struct {
	Count       int
	Origin      int
	Destination int
}

// History is the append-only migration log, cleared only by an explicit
// reset. Like the mailbox it relies on the archipelago's migration mutex
// for synchronization.
type History struct {
	entries []Entry
}

func NewHistory() *History {
	return &History{}
}

func (h *History) Append(count, origin, destination int) {
	h.entries = append(h.entries, Entry{Count: count, Origin: origin, Destination: destination})
}

func (h *History) Len() int {
	return len(h.entries)
}

// Entries returns a copy of the log in append order.
func (h *History) Entries() []Entry {
	return append([]Entry(nil), h.entries...)
}

func (h *History) Clear() {
	h.entries = nil
}

// Dump renders the log as one (count,origin,destination) triple per line.
func (h *History) Dump() string {
	var b strings.Builder
	for _, e := range h.entries {
		fmt.Fprintf(&b, "(%d,%d,%d)\n", e.Count, e.Origin, e.Destination)
	}
	return b.String()
}
