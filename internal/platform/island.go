package platform

import (
	"context"
	"fmt"
	"math/rand"

	"pelagos/internal/evo"
	"pelagos/internal/migration"
	"pelagos/internal/model"
	"pelagos/internal/problem"
)

type IslandConfig struct {
	Population  *evo.Population
	Algorithm   evo.Algorithm
	Selector    evo.Selector          // emigrant choice, default BestSelector
	Replacement evo.ReplacementPolicy // immigrant merge, default FairReplace
	Seed        int64
}

// Island owns one population and one algorithm and runs evolution rounds
// inside its own worker goroutine. EvolveStep never touches shared
// archipelago state; mailbox and history access happens between phases,
// under the archipelago's migration mutex.
type Island struct {
	index       int
	pop         *evo.Population
	alg         evo.Algorithm
	selector    evo.Selector
	replacement evo.ReplacementPolicy
	rng         *rand.Rand
}

func NewIsland(cfg IslandConfig) (*Island, error) {
	if cfg.Population == nil {
		return nil, fmt.Errorf("%w: island population is required", migration.ErrConfiguration)
	}
	if cfg.Algorithm == nil {
		return nil, fmt.Errorf("%w: island algorithm is required", migration.ErrConfiguration)
	}
	if cfg.Selector == nil {
		cfg.Selector = evo.BestSelector{}
	}
	if cfg.Replacement == nil {
		cfg.Replacement = evo.FairReplace{}
	}
	return &Island{
		index:       -1,
		pop:         cfg.Population,
		alg:         cfg.Algorithm,
		selector:    cfg.Selector,
		replacement: cfg.Replacement,
		rng:         rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

// Index is the island's stable position within its archipelago, or -1
// before it is added.
func (isl *Island) Index() int {
	return isl.index
}

func (isl *Island) Size() int {
	return isl.pop.Size()
}

func (isl *Island) Problem() problem.Problem {
	return isl.pop.Problem()
}

func (isl *Island) Algorithm() evo.Algorithm {
	return isl.alg
}

func (isl *Island) Champion() (model.Individual, bool) {
	return isl.pop.Champion()
}

// EvolveStep advances the local population by one algorithm application.
func (isl *Island) EvolveStep(ctx context.Context) error {
	return isl.alg.Evolve(ctx, isl.pop)
}

// Emigrants returns up to count copies eligible for export, chosen by the
// island's selector without mutating the population.
func (isl *Island) Emigrants(count int) ([]model.Individual, error) {
	return isl.selector.Select(isl.rng, isl.pop, count)
}

// AcceptImmigrants merges candidates into the population through the
// replacement policy and reports how many were accepted. Population size
// is preserved exactly.
func (isl *Island) AcceptImmigrants(candidates []model.Individual) int {
	if len(candidates) == 0 {
		return 0
	}
	return isl.replacement.Replace(isl.rng, isl.pop, candidates)
}
