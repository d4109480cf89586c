package platform

import "sync"

// roundBarrier synchronizes the start of every round across one
// evolution's worth of island workers. It is reusable: each release starts
// a new phase. The last worker to arrive runs the decide callback and its
// verdict is delivered with the release, so every worker takes the same
// continue-or-stop decision for the round.
type roundBarrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	parties int
	waiting int
	phase   uint64
	stop    bool
	broken  bool
}

func newRoundBarrier(parties int) *roundBarrier {
	b := &roundBarrier{parties: parties}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// await blocks until parties workers have arrived, then releases them all.
// It returns true when the workers must stop instead of starting the round.
func (b *roundBarrier) await(decide func() bool) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.broken {
		return true
	}
	arrival := b.phase
	b.waiting++
	if b.waiting == b.parties {
		b.stop = decide != nil && decide()
		b.waiting = 0
		b.phase++
		b.cond.Broadcast()
		return b.stop
	}
	for arrival == b.phase && !b.broken {
		b.cond.Wait()
	}
	if b.broken {
		return true
	}
	return b.stop
}

// breakBarrier releases current and all future waiters with a stop
// verdict. A worker that fails mid-round calls this because it will never
// arrive again and its peers must not wait for it.
func (b *roundBarrier) breakBarrier() {
	b.mu.Lock()
	b.broken = true
	b.cond.Broadcast()
	b.mu.Unlock()
}

// releases reports how many times the barrier has released its waiters.
func (b *roundBarrier) releases() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.phase
}
