package evo

import (
	"context"
	"fmt"
	"math/rand"
)

// Algorithm advances a population in place by one generation. An instance
// owns its random state and must not be shared across islands.
type Algorithm interface {
	Name() string
	Evolve(ctx context.Context, pop *Population) error
}

// MonteCarlo samples random points inside the problem bounds and keeps the
// ones that beat the current worst individual.
type MonteCarlo struct {
	trials int
	rng    *rand.Rand
}

func NewMonteCarlo(trials int, seed int64) *MonteCarlo {
	if trials <= 0 {
		trials = 10
	}
	return &MonteCarlo{trials: trials, rng: rand.New(rand.NewSource(seed))}
}

func (*MonteCarlo) Name() string {
	return "monte_carlo"
}

func (m *MonteCarlo) Evolve(ctx context.Context, pop *Population) error {
	if pop == nil {
		return fmt.Errorf("population is required")
	}
	if pop.Size() == 0 {
		return nil
	}

	lo, hi := pop.Problem().Bounds()
	decision := make([]float64, pop.Problem().Dimension())
	for t := 0; t < m.trials; t++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for d := range decision {
			decision[d] = lo[d] + m.rng.Float64()*(hi[d]-lo[d])
		}
		candidate := pop.evaluate(decision)
		worst := pop.worstIndex()
		if Better(candidate, pop.inds[worst]) {
			pop.inds[worst] = candidate
		}
	}
	return nil
}
