package platform

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"pelagos/internal/migration"
	"pelagos/internal/model"
	"pelagos/internal/problem"
	"pelagos/internal/topology"
)

// DistributionType selects how emigrants spread over an island's
// neighbours.
type DistributionType string

const (
	// PointToPoint migrates to one neighbour chosen uniformly at random.
	PointToPoint DistributionType = "point_to_point"
	// Broadcast migrates to every neighbour.
	Broadcast DistributionType = "broadcast"
)

// MigrationDirection selects which side of a topology edge drives the
// exchange.
type MigrationDirection string

const (
	// DirectionSource makes the producer deposit emigrants directly into
	// its neighbours' mailbox slots.
	DirectionSource MigrationDirection = "source"
	// DirectionDestination makes every island publish its best individuals
	// into its own slot, which consumers pull from.
	DirectionDestination MigrationDirection = "destination"
)

type Config struct {
	Topology     topology.Topology
	Distribution DistributionType
	Direction    MigrationDirection
	Rate         migration.RatePolicy
	Seed         int64
}

// Archipelago owns a set of islands evolving concurrently and the shared
// migration machinery between them: the mailbox, the append-only history,
// the round-start barrier and the RNG pair used for neighbour choice. The
// mailbox, history and RNG pair are guarded by one coarse migration mutex;
// critical sections are proportional to migrant count, not population
// size.
type Archipelago struct {
	mu      sync.Mutex // islands, topology, worker lifecycle
	islands []*Island
	topo    topology.Topology
	dist    DistributionType
	dir     MigrationDirection
	rate    migration.RatePolicy
	barrier *roundBarrier
	group   *errgroup.Group
	lastErr error

	migrMu  sync.Mutex // mailbox, history, drng, urng
	mailbox *migration.Mailbox
	history *migration.History
	drng    *rand.Rand
	urng    *rand.Rand

	live        atomic.Int32
	interrupted atomic.Bool
}

func NewArchipelago(cfg Config) (*Archipelago, error) {
	if cfg.Topology == nil {
		cfg.Topology = topology.NewUnconnected()
	}
	if cfg.Distribution == "" {
		cfg.Distribution = PointToPoint
	}
	if cfg.Direction == "" {
		cfg.Direction = DirectionDestination
	}
	if err := checkMigrationAttributes(cfg.Distribution, cfg.Direction); err != nil {
		return nil, err
	}
	return &Archipelago{
		topo:    cfg.Topology,
		dist:    cfg.Distribution,
		dir:     cfg.Direction,
		rate:    cfg.Rate,
		barrier: newRoundBarrier(0),
		mailbox: migration.NewMailbox(),
		history: migration.NewHistory(),
		drng:    rand.New(rand.NewSource(cfg.Seed)),
		urng:    rand.New(rand.NewSource(cfg.Seed + 1)),
	}, nil
}

func checkMigrationAttributes(dist DistributionType, dir MigrationDirection) error {
	switch dist {
	case PointToPoint, Broadcast:
	default:
		return fmt.Errorf("%w: unknown distribution type %q", migration.ErrConfiguration, dist)
	}
	switch dir {
	case DirectionSource, DirectionDestination:
	default:
		return fmt.Errorf("%w: unknown migration direction %q", migration.ErrConfiguration, dir)
	}
	return nil
}

// PushBack registers an island, assigns it the next index, grows the
// topology by one vertex and rebuilds the round barrier to the new island
// count. It fails while an evolution is in flight.
func (a *Archipelago) PushBack(isl *Island) error {
	if isl == nil {
		return fmt.Errorf("%w: island is required", migration.ErrConfiguration)
	}
	if isl.index >= 0 {
		return fmt.Errorf("%w: island already belongs to an archipelago", migration.ErrConfiguration)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.group != nil {
		return fmt.Errorf("%w: archipelago is evolving; join first", migration.ErrConfiguration)
	}
	if len(a.islands) > 0 && !problem.Compatible(isl.Problem(), a.islands[0].Problem()) {
		return fmt.Errorf("%w: island problem %s/%d is incompatible with archipelago problem %s/%d",
			migration.ErrConfiguration,
			isl.Problem().Name(), isl.Problem().Dimension(),
			a.islands[0].Problem().Name(), a.islands[0].Problem().Dimension())
	}

	isl.index = len(a.islands)
	a.islands = append(a.islands, isl)
	if a.topo.Size() < len(a.islands) {
		a.topo.AddVertex()
	}
	a.barrier = newRoundBarrier(len(a.islands))
	return nil
}

func (a *Archipelago) Size() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.islands)
}

func (a *Archipelago) IslandAt(i int) (*Island, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if i < 0 || i >= len(a.islands) {
		return nil, fmt.Errorf("island index out of range: %d", i)
	}
	return a.islands[i], nil
}

// Champions returns the best individual of every island, in island order.
func (a *Archipelago) Champions() []model.ChampionRecord {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]model.ChampionRecord, 0, len(a.islands))
	for _, isl := range a.islands {
		champion, ok := isl.Champion()
		if !ok {
			continue
		}
		out = append(out, model.ChampionRecord{
			Island:   isl.index,
			Decision: champion.Decision,
			Fitness:  champion.Fitness,
		})
	}
	return out
}

// Evolve runs rounds migration/evolution cycles on every island, each in
// its own worker goroutine. It returns once the workers are started; Join
// blocks until they finish.
func (a *Archipelago) Evolve(rounds int) error {
	if rounds < 0 {
		return fmt.Errorf("%w: negative round count %d", migration.ErrConfiguration, rounds)
	}
	if rounds == 0 {
		return nil
	}
	return a.start(rounds, time.Time{})
}

// EvolveFor runs the same cycle but stops issuing new rounds once elapsed
// time exceeds budget. The check happens only at round boundaries, so the
// actual runtime may overrun by up to one round.
func (a *Archipelago) EvolveFor(budget time.Duration) error {
	if budget <= 0 {
		return fmt.Errorf("%w: non-positive time budget %v", migration.ErrConfiguration, budget)
	}
	return a.start(0, time.Now().Add(budget))
}

func (a *Archipelago) start(rounds int, deadline time.Time) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.group != nil {
		return fmt.Errorf("%w: evolution already in progress; join first", migration.ErrConfiguration)
	}
	if err := checkMigrationAttributes(a.dist, a.dir); err != nil {
		return err
	}
	if a.topo.Size() != len(a.islands) {
		return fmt.Errorf("%w: topology size %d does not match island count %d",
			migration.ErrConfiguration, a.topo.Size(), len(a.islands))
	}
	if len(a.islands) == 0 {
		return nil
	}

	a.lastErr = nil
	a.interrupted.Store(false)
	a.barrier = newRoundBarrier(len(a.islands))

	group := new(errgroup.Group)
	for _, isl := range a.islands {
		worker := isl
		a.live.Add(1)
		group.Go(func() error {
			defer a.live.Add(-1)
			return a.runIsland(worker, rounds, deadline)
		})
	}
	a.group = group
	return nil
}

// runIsland is one island's round loop: barrier sync, immigration, one
// evolution step, emigration. Cancellation and the time budget are
// observed only at phase boundaries; the stop decision itself is taken by
// the barrier's last arriver so all workers agree on it.
func (a *Archipelago) runIsland(isl *Island, rounds int, deadline time.Time) (err error) {
	defer func() {
		if err != nil {
			a.barrier.breakBarrier()
		}
	}()

	ctx := context.Background()
	for round := 0; rounds <= 0 || round < rounds; round++ {
		stop := a.barrier.await(func() bool {
			if a.interrupted.Load() {
				return true
			}
			return !deadline.IsZero() && !time.Now().Before(deadline)
		})
		if stop {
			return nil
		}

		a.preEvolution(isl)
		if a.interrupted.Load() {
			continue
		}
		if err := isl.EvolveStep(ctx); err != nil {
			return fmt.Errorf("island %d evolve step: %w", isl.index, err)
		}
		if a.interrupted.Load() {
			continue
		}
		if err := a.postEvolution(isl); err != nil {
			return err
		}
	}
	return nil
}

// preEvolution merges pending immigrants into the island before its
// evolution step.
func (a *Archipelago) preEvolution(isl *Island) {
	switch a.dir {
	case DirectionSource:
		a.migrMu.Lock()
		deliveries := a.mailbox.TakeAll(isl.index)
		a.migrMu.Unlock()
		for _, delivery := range deliveries {
			isl.AcceptImmigrants(delivery.Individuals)
		}

	case DirectionDestination:
		// The reader side walks the edges in pull mode: island i consults
		// its own neighbour list and pulls from each neighbour's published
		// slot. Slots are read non-destructively; the owner overwrites its
		// slot after its next evolution step.
		neighbours := a.topo.Neighbours(isl.index)
		if len(neighbours) == 0 {
			return
		}
		var deliveries []migration.Delivery
		a.migrMu.Lock()
		switch a.dist {
		case PointToPoint:
			origin := neighbours[int(a.drng.Float64()*float64(len(neighbours)))]
			if inds, ok := a.mailbox.Published(origin); ok {
				deliveries = append(deliveries, migration.Delivery{Origin: origin, Individuals: inds})
			}
		case Broadcast:
			for _, origin := range neighbours {
				if inds, ok := a.mailbox.Published(origin); ok {
					deliveries = append(deliveries, migration.Delivery{Origin: origin, Individuals: inds})
				}
			}
		}
		for _, delivery := range deliveries {
			a.history.Append(len(delivery.Individuals), delivery.Origin, isl.index)
		}
		a.migrMu.Unlock()
		for _, delivery := range deliveries {
			isl.AcceptImmigrants(delivery.Individuals)
		}
	}
}

// postEvolution exports the island's emigrants after its evolution step.
func (a *Archipelago) postEvolution(isl *Island) error {
	count, err := a.rate.CountToMigrate(isl.Size())
	if err != nil {
		return fmt.Errorf("island %d: %w", isl.index, err)
	}
	if count == 0 {
		return nil
	}
	emigrants, err := isl.Emigrants(count)
	if err != nil {
		return fmt.Errorf("island %d emigrant selection: %w", isl.index, err)
	}
	if len(emigrants) == 0 {
		return nil
	}

	switch a.dir {
	case DirectionSource:
		neighbours := a.topo.Neighbours(isl.index)
		if len(neighbours) == 0 {
			return nil
		}
		a.migrMu.Lock()
		switch a.dist {
		case PointToPoint:
			dest := neighbours[int(a.urng.Uint32()%uint32(len(neighbours)))]
			a.mailbox.Push(dest, isl.index, emigrants)
			a.history.Append(len(emigrants), isl.index, dest)
		case Broadcast:
			for _, dest := range neighbours {
				a.mailbox.Push(dest, isl.index, emigrants)
				a.history.Append(len(emigrants), isl.index, dest)
			}
		}
		a.migrMu.Unlock()

	case DirectionDestination:
		// The neighbour list is unused on the producer side in pull mode;
		// the island only refreshes its own published slot.
		a.migrMu.Lock()
		a.mailbox.Publish(isl.index, emigrants)
		a.migrMu.Unlock()
	}
	return nil
}

// Join blocks until every worker has exited its round loop. It returns the
// first collaborator or configuration error observed by a worker, sticky
// until the next Evolve. Calling Join with nothing in flight is a no-op.
func (a *Archipelago) Join() error {
	a.mu.Lock()
	group := a.group
	a.mu.Unlock()

	if group != nil {
		err := group.Wait()
		a.mu.Lock()
		if a.group == group {
			a.group = nil
			a.lastErr = err
		}
		a.mu.Unlock()
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// Busy reports whether any island worker is still inside its round loop.
func (a *Archipelago) Busy() bool {
	return a.live.Load() > 0
}

// Interrupt requests cooperative cancellation. Workers observe it only at
// phase boundaries, so an in-flight evolution step always completes first.
func (a *Archipelago) Interrupt() {
	a.interrupted.Store(true)
}

// MigrationHistory returns a copy of the append-only migration log.
func (a *Archipelago) MigrationHistory() []migration.Entry {
	a.migrMu.Lock()
	defer a.migrMu.Unlock()
	return a.history.Entries()
}

// DumpMigrationHistory renders the migration log, one
// (count,origin,destination) triple per line.
func (a *Archipelago) DumpMigrationHistory() string {
	a.migrMu.Lock()
	defer a.migrMu.Unlock()
	return a.history.Dump()
}

// ClearMigrationHistory resets the migration log to empty.
func (a *Archipelago) ClearMigrationHistory() {
	a.migrMu.Lock()
	defer a.migrMu.Unlock()
	a.history.Clear()
}

func (a *Archipelago) Distribution() DistributionType {
	return a.dist
}

func (a *Archipelago) Direction() MigrationDirection {
	return a.dir
}

func (a *Archipelago) Rate() migration.RatePolicy {
	return a.rate
}

func (a *Archipelago) Topology() topology.Topology {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.topo
}

// String renders a descriptive summary of the archipelago configuration.
func (a *Archipelago) String() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "archipelago: %d island(s)\n", len(a.islands))
	fmt.Fprintf(&b, "topology: %s (%d vertices)\n", a.topo.Name(), a.topo.Size())
	fmt.Fprintf(&b, "distribution type: %s\n", a.dist)
	fmt.Fprintf(&b, "migration direction: %s\n", a.dir)
	fmt.Fprintf(&b, "%s\n", a.rate)
	return b.String()
}
