package evo

import (
	"context"
	"fmt"
	"math/rand"

	"pelagos/internal/model"
)

type SGAConfig struct {
	CrossoverRate  float64
	MutationRate   float64
	MutationSigma  float64
	TournamentSize int
	EliteCount     int
	Seed           int64
}

// SGA is a simple generational genetic algorithm: tournament selection,
// blend crossover, gaussian mutation clamped to the problem bounds, and
// elitism.
type SGA struct {
	cfg SGAConfig
	rng *rand.Rand
}

func NewSGA(cfg SGAConfig) (*SGA, error) {
	if cfg.CrossoverRate == 0 {
		cfg.CrossoverRate = 0.9
	}
	if cfg.CrossoverRate < 0 || cfg.CrossoverRate > 1 {
		return nil, fmt.Errorf("crossover rate must be in [0,1], got %v", cfg.CrossoverRate)
	}
	if cfg.MutationRate == 0 {
		cfg.MutationRate = 0.1
	}
	if cfg.MutationRate < 0 || cfg.MutationRate > 1 {
		return nil, fmt.Errorf("mutation rate must be in [0,1], got %v", cfg.MutationRate)
	}
	if cfg.MutationSigma <= 0 {
		cfg.MutationSigma = 0.1
	}
	if cfg.TournamentSize <= 0 {
		cfg.TournamentSize = 2
	}
	if cfg.EliteCount <= 0 {
		cfg.EliteCount = 1
	}
	return &SGA{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}, nil
}

func (*SGA) Name() string {
	return "sga"
}

func (s *SGA) Evolve(ctx context.Context, pop *Population) error {
	if pop == nil {
		return fmt.Errorf("population is required")
	}
	size := pop.Size()
	if size == 0 {
		return nil
	}

	lo, hi := pop.Problem().Bounds()
	order := pop.rankedIndices()

	eliteCount := s.cfg.EliteCount
	if eliteCount > size {
		eliteCount = size
	}
	next := make([]model.Individual, 0, size)
	for _, idx := range order[:eliteCount] {
		next = append(next, pop.inds[idx].Clone())
	}

	for len(next) < size {
		if err := ctx.Err(); err != nil {
			return err
		}
		a := s.tournament(pop)
		b := s.tournament(pop)
		child := make([]float64, len(a.Decision))
		for d := range child {
			child[d] = a.Decision[d]
			if s.rng.Float64() < s.cfg.CrossoverRate {
				blend := s.rng.Float64()
				child[d] = blend*a.Decision[d] + (1-blend)*b.Decision[d]
			}
			if s.rng.Float64() < s.cfg.MutationRate {
				child[d] += s.rng.NormFloat64() * s.cfg.MutationSigma * (hi[d] - lo[d])
			}
			if child[d] < lo[d] {
				child[d] = lo[d]
			}
			if child[d] > hi[d] {
				child[d] = hi[d]
			}
		}
		next = append(next, pop.evaluate(child))
	}

	pop.inds = next
	return nil
}

func (s *SGA) tournament(pop *Population) model.Individual {
	best := pop.inds[s.rng.Intn(len(pop.inds))]
	for i := 1; i < s.cfg.TournamentSize; i++ {
		candidate := pop.inds[s.rng.Intn(len(pop.inds))]
		if Better(candidate, best) {
			best = candidate
		}
	}
	return best
}
