package evo

import (
	"fmt"
	"math/rand"
	"sort"

	"pelagos/internal/model"
	"pelagos/internal/problem"
)

// Population is an ordered sequence of individuals bound to one problem's
// dimensionality. It is owned by exactly one island at a time and is not
// safe for concurrent use.
type Population struct {
	prob problem.Problem
	inds []model.Individual
}

// NewPopulation samples size individuals uniformly inside the problem's box
// bounds and evaluates them.
func NewPopulation(prob problem.Problem, size int, rng *rand.Rand) (*Population, error) {
	if prob == nil {
		return nil, fmt.Errorf("problem is required")
	}
	if size < 0 {
		return nil, fmt.Errorf("population size must be >= 0, got %d", size)
	}
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}
	lo, hi := prob.Bounds()
	if len(lo) != prob.Dimension() || len(hi) != prob.Dimension() {
		return nil, fmt.Errorf("problem %s bounds do not match dimension %d", prob.Name(), prob.Dimension())
	}

	p := &Population{prob: prob, inds: make([]model.Individual, 0, size)}
	for i := 0; i < size; i++ {
		decision := make([]float64, prob.Dimension())
		for d := range decision {
			decision[d] = lo[d] + rng.Float64()*(hi[d]-lo[d])
		}
		p.inds = append(p.inds, p.evaluate(decision))
	}
	return p, nil
}

func (p *Population) evaluate(decision []float64) model.Individual {
	ind := model.Individual{
		Decision: append([]float64(nil), decision...),
		Fitness:  p.prob.Fitness(decision),
	}
	if constrained, ok := p.prob.(problem.ConstrainedProblem); ok {
		ind.Constraint = constrained.Constraints(decision)
	}
	return ind
}

func (p *Population) Size() int {
	return len(p.inds)
}

func (p *Population) Problem() problem.Problem {
	return p.prob
}

// Individual returns a copy of the individual at index i.
func (p *Population) Individual(i int) (model.Individual, error) {
	if i < 0 || i >= len(p.inds) {
		return model.Individual{}, fmt.Errorf("individual index out of range: %d", i)
	}
	return p.inds[i].Clone(), nil
}

// Individuals returns copies of all individuals in order.
func (p *Population) Individuals() []model.Individual {
	out := make([]model.Individual, 0, len(p.inds))
	for _, ind := range p.inds {
		out = append(out, ind.Clone())
	}
	return out
}

// Insert evaluates decision and replaces the individual at index i with it.
func (p *Population) Insert(i int, decision []float64) error {
	if i < 0 || i >= len(p.inds) {
		return fmt.Errorf("individual index out of range: %d", i)
	}
	if len(decision) != p.prob.Dimension() {
		return fmt.Errorf("decision dimension mismatch: got=%d want=%d", len(decision), p.prob.Dimension())
	}
	p.inds[i] = p.evaluate(decision)
	return nil
}

// Replace swaps in a copy of ind at index i. Population size never changes.
func (p *Population) Replace(i int, ind model.Individual) error {
	if i < 0 || i >= len(p.inds) {
		return fmt.Errorf("individual index out of range: %d", i)
	}
	if len(ind.Decision) != p.prob.Dimension() {
		return fmt.Errorf("immigrant dimension mismatch: got=%d want=%d", len(ind.Decision), p.prob.Dimension())
	}
	p.inds[i] = ind.Clone()
	return nil
}

// Champion returns a copy of the best individual, if the population is not
// empty.
func (p *Population) Champion() (model.Individual, bool) {
	if len(p.inds) == 0 {
		return model.Individual{}, false
	}
	best := 0
	for i := 1; i < len(p.inds); i++ {
		if Better(p.inds[i], p.inds[best]) {
			best = i
		}
	}
	return p.inds[best].Clone(), true
}

// Best returns copies of the count best individuals, best first.
func (p *Population) Best(count int) []model.Individual {
	if count <= 0 {
		return nil
	}
	if count > len(p.inds) {
		count = len(p.inds)
	}
	order := p.rankedIndices()
	out := make([]model.Individual, 0, count)
	for _, idx := range order[:count] {
		out = append(out, p.inds[idx].Clone())
	}
	return out
}

// worstIndex returns the index of the lowest-ranked individual. The
// population must not be empty.
func (p *Population) worstIndex() int {
	worst := 0
	for i := 1; i < len(p.inds); i++ {
		if Better(p.inds[worst], p.inds[i]) {
			worst = i
		}
	}
	return worst
}

// rankedIndices returns population indices ordered best first.
func (p *Population) rankedIndices() []int {
	order := make([]int, len(p.inds))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return Better(p.inds[order[a]], p.inds[order[b]])
	})
	return order
}

// Better reports whether a ranks ahead of b: feasible individuals beat
// infeasible ones, then lower total constraint violation, then the first
// fitness component, lower is better. Empty fitness ranks last.
func Better(a, b model.Individual) bool {
	av, bv := violation(a), violation(b)
	if av != bv {
		return av < bv
	}
	if len(a.Fitness) == 0 {
		return false
	}
	if len(b.Fitness) == 0 {
		return true
	}
	return a.Fitness[0] < b.Fitness[0]
}

func violation(ind model.Individual) float64 {
	total := 0.0
	for _, c := range ind.Constraint {
		if c > 0 {
			total += c
		}
	}
	return total
}
