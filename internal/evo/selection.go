package evo

import (
	"fmt"
	"math/rand"

	"pelagos/internal/model"
)

// Selector chooses which individuals emigrate from a population. The
// returned sequence holds count duplicate-free copies; the source
// population is never mutated.
type Selector interface {
	Name() string
	Select(rng *rand.Rand, pop *Population, count int) ([]model.Individual, error)
}

// BestSelector exports the count best individuals, best first.
type BestSelector struct{}

func (BestSelector) Name() string {
	return "best"
}

func (BestSelector) Select(rng *rand.Rand, pop *Population, count int) ([]model.Individual, error) {
	if pop == nil {
		return nil, fmt.Errorf("population is required")
	}
	if count < 0 || count > pop.Size() {
		return nil, fmt.Errorf("invalid emigrant count: %d", count)
	}
	return pop.Best(count), nil
}

// RandomSelector exports count distinct individuals chosen uniformly.
type RandomSelector struct{}

func (RandomSelector) Name() string {
	return "random"
}

func (RandomSelector) Select(rng *rand.Rand, pop *Population, count int) ([]model.Individual, error) {
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}
	if pop == nil {
		return nil, fmt.Errorf("population is required")
	}
	if count < 0 || count > pop.Size() {
		return nil, fmt.Errorf("invalid emigrant count: %d", count)
	}

	out := make([]model.Individual, 0, count)
	for _, idx := range rng.Perm(pop.Size())[:count] {
		out = append(out, pop.inds[idx].Clone())
	}
	return out, nil
}
