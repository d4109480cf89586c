package platform

import (
	"context"
	"errors"
	"testing"

	"pelagos/internal/evo"
	"pelagos/internal/migration"
	"pelagos/internal/model"
)

func TestNewIslandValidation(t *testing.T) {
	if _, err := NewIsland(IslandConfig{Algorithm: evo.NewMonteCarlo(1, 1)}); !errors.Is(err, migration.ErrConfiguration) {
		t.Fatalf("expected configuration error for missing population, got %v", err)
	}
	if _, err := NewIsland(IslandConfig{Population: testPopulation(t, 3, 1)}); !errors.Is(err, migration.ErrConfiguration) {
		t.Fatalf("expected configuration error for missing algorithm, got %v", err)
	}
}

func TestIslandDefaults(t *testing.T) {
	isl := testIsland(t, 4, 1)
	if isl.Index() != -1 {
		t.Fatalf("unadded island must have index -1, got %d", isl.Index())
	}
	if isl.Size() != 4 {
		t.Fatalf("unexpected size: %d", isl.Size())
	}
	if isl.Algorithm().Name() != "monte_carlo" {
		t.Fatalf("unexpected algorithm: %s", isl.Algorithm().Name())
	}
	if isl.Problem().Name() != "sphere" {
		t.Fatalf("unexpected problem: %s", isl.Problem().Name())
	}
}

func TestIslandEvolveStepAdvancesPopulation(t *testing.T) {
	isl := testIsland(t, 6, 2)
	before, _ := isl.Champion()
	for i := 0; i < 10; i++ {
		if err := isl.EvolveStep(context.Background()); err != nil {
			t.Fatalf("evolve step: %v", err)
		}
	}
	after, _ := isl.Champion()
	if after.Fitness[0] > before.Fitness[0] {
		t.Fatalf("champion regressed: %v -> %v", before.Fitness, after.Fitness)
	}
}

func TestIslandEmigrantsAndImmigrants(t *testing.T) {
	isl := testIsland(t, 5, 3)
	emigrants, err := isl.Emigrants(2)
	if err != nil {
		t.Fatalf("emigrants: %v", err)
	}
	if len(emigrants) != 2 {
		t.Fatalf("unexpected emigrant count: %d", len(emigrants))
	}
	if isl.Size() != 5 {
		t.Fatalf("emigration mutated the population: %d", isl.Size())
	}

	optimum := model.Individual{Decision: []float64{0, 0}, Fitness: []float64{0}}
	if accepted := isl.AcceptImmigrants([]model.Individual{optimum}); accepted != 1 {
		t.Fatalf("expected acceptance, got %d", accepted)
	}
	if isl.Size() != 5 {
		t.Fatalf("immigration changed the population size: %d", isl.Size())
	}
	champion, _ := isl.Champion()
	if champion.Fitness[0] != 0 {
		t.Fatalf("accepted optimum missing: %v", champion.Fitness)
	}
	if accepted := isl.AcceptImmigrants(nil); accepted != 0 {
		t.Fatalf("no candidates must accept nothing, got %d", accepted)
	}
}
