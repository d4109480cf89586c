package pelagos

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"pelagos/internal/storage"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Init(context.Background()))
	client, err := NewWithStore(store)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, client.Close())
	})
	return client
}

func ringEdges(n int) [][2]int {
	edges := make([][2]int, 0, n)
	for i := 0; i < n; i++ {
		edges = append(edges, [2]int{i, (i + 1) % n})
	}
	return edges
}

func TestRunPersistsSummaryHistoryAndChampions(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	summary, err := client.Run(ctx, RunRequest{
		Problem:        "sphere",
		Dimension:      3,
		Algorithm:      "sga",
		Islands:        3,
		PopulationSize: 10,
		Rounds:         5,
		Seed:           1,
		Edges:          ringEdges(3),
		Distribution:   "point_to_point",
		Direction:      "source",
		Rate:           RateSpec{Kind: "absolute", Value: 1},
	})
	require.NoError(t, err)
	require.NotEmpty(t, summary.RunID)
	require.Len(t, summary.BestFitness, 1)
	require.Len(t, summary.BestDecision, 3)
	require.Greater(t, summary.MigrationEvents, 0)

	runs, err := client.Runs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, summary.RunID, runs[0].RunID)
	require.Equal(t, "sphere", runs[0].Problem)
	require.Equal(t, "custom", runs[0].Topology)
	require.Equal(t, summary.BestFitness[0], runs[0].BestFitness)

	history, err := client.History(ctx, summary.RunID)
	require.NoError(t, err)
	require.Len(t, history, summary.MigrationEvents)

	champions, err := client.Champions(ctx, summary.RunID)
	require.NoError(t, err)
	require.Len(t, champions, 3)
	for i, c := range champions {
		require.Equal(t, i, c.Island)
		require.Len(t, c.Decision, 3)
	}
}

func TestRunWithMonteCarloAndDefaults(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	summary, err := client.Run(ctx, RunRequest{
		Problem:        "rastrigin",
		Dimension:      2,
		Algorithm:      "monte_carlo",
		Islands:        2,
		PopulationSize: 8,
		Rounds:         3,
		Seed:           2,
	})
	require.NoError(t, err)

	// No edges means the unconnected default: evolution happens, nothing
	// migrates.
	require.Zero(t, summary.MigrationEvents)
	history, err := client.History(ctx, summary.RunID)
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestRunValidation(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	_, err := client.Run(ctx, RunRequest{Problem: "sphere", Dimension: 2, PopulationSize: 5, Rounds: 1})
	require.Error(t, err, "island count is required")

	_, err = client.Run(ctx, RunRequest{Problem: "sphere", Dimension: 2, Islands: 1, Rounds: 1})
	require.Error(t, err, "population size is required")

	_, err = client.Run(ctx, RunRequest{Problem: "sphere", Dimension: 2, Islands: 1, PopulationSize: 5})
	require.Error(t, err, "rounds or budget is required")

	_, err = client.Run(ctx, RunRequest{Problem: "nope", Dimension: 2, Islands: 1, PopulationSize: 5, Rounds: 1})
	require.Error(t, err, "unknown problem")

	_, err = client.Run(ctx, RunRequest{Problem: "sphere", Dimension: 2, Islands: 1, PopulationSize: 5, Rounds: 1, Algorithm: "annealing"})
	require.Error(t, err, "unknown algorithm")

	_, err = client.Run(ctx, RunRequest{
		Problem: "sphere", Dimension: 2, Islands: 2, PopulationSize: 5, Rounds: 1,
		Edges: [][2]int{{0, 7}},
	})
	require.Error(t, err, "edge out of range")
}

func TestRunRejectsExcessiveAbsoluteRate(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	_, err := client.Run(ctx, RunRequest{
		Problem:        "sphere",
		Dimension:      2,
		Islands:        2,
		PopulationSize: 3,
		Rounds:         2,
		Edges:          ringEdges(2),
		Direction:      "source",
		Rate:           RateSpec{Kind: "absolute", Value: 5},
	})
	require.ErrorContains(t, err, "absolute migration rate")
}

func TestHistoryUnknownRun(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	_, err := client.History(ctx, "missing")
	require.ErrorContains(t, err, "run not found")
	_, err = client.Champions(ctx, "missing")
	require.ErrorContains(t, err, "run not found")
}

func TestNewWithStoreRequiresStore(t *testing.T) {
	_, err := NewWithStore(nil)
	require.Error(t, err)
}
