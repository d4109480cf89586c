package evo

import (
	"math/rand"
	"sort"

	"pelagos/internal/model"
)

// ReplacementPolicy merges immigrant candidates into a resident population.
// Each accepted immigrant replaces exactly one resident, so population size
// is preserved. It reports how many candidates were accepted.
type ReplacementPolicy interface {
	Name() string
	Replace(rng *rand.Rand, pop *Population, candidates []model.Individual) int
}

// FairReplace lets the best immigrants replace the worst residents, but
// only when the immigrant is strictly better.
type FairReplace struct{}

func (FairReplace) Name() string {
	return "fair"
}

func (FairReplace) Replace(rng *rand.Rand, pop *Population, candidates []model.Individual) int {
	if pop == nil || pop.Size() == 0 || len(candidates) == 0 {
		return 0
	}

	ranked := append([]model.Individual(nil), candidates...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return Better(ranked[i], ranked[j])
	})
	order := pop.rankedIndices()

	accepted := 0
	for _, candidate := range ranked {
		if accepted >= len(order) {
			break
		}
		residentIdx := order[len(order)-1-accepted]
		if !Better(candidate, pop.inds[residentIdx]) {
			break
		}
		if err := pop.Replace(residentIdx, candidate); err != nil {
			continue
		}
		accepted++
	}
	return accepted
}

// RandomReplace unconditionally replaces uniformly chosen distinct
// residents with the candidates.
type RandomReplace struct{}

func (RandomReplace) Name() string {
	return "random"
}

func (RandomReplace) Replace(rng *rand.Rand, pop *Population, candidates []model.Individual) int {
	if rng == nil || pop == nil || pop.Size() == 0 || len(candidates) == 0 {
		return 0
	}

	count := len(candidates)
	if count > pop.Size() {
		count = pop.Size()
	}
	accepted := 0
	for i, idx := range rng.Perm(pop.Size())[:count] {
		if err := pop.Replace(idx, candidates[i]); err != nil {
			continue
		}
		accepted++
	}
	return accepted
}
