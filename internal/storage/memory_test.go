package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"pelagos/internal/model"
)

func testRun(runID, createdAt string) model.RunRecord {
	return model.RunRecord{
		VersionedRecord: model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion},
		RunID:           runID,
		CreatedAtUTC:    createdAt,
		Problem:         "sphere",
		Algorithm:       "sga",
		Islands:         3,
		PopulationSize:  10,
		Rounds:          20,
		Topology:        "custom",
		Distribution:    "point_to_point",
		Direction:       "destination",
		Rate:            "absolute migration rate: 1",
		BestFitness:     0.5,
	}
}

func TestMemoryStoreRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Init(ctx))

	input := testRun("run-1", "2026-08-30T10:00:00Z")
	require.NoError(t, store.SaveRun(ctx, input))

	output, ok, err := store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, input, output)

	_, ok, err = store.GetRun(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreListRunsOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Init(ctx))

	require.NoError(t, store.SaveRun(ctx, testRun("run-a", "2026-08-30T10:00:00Z")))
	require.NoError(t, store.SaveRun(ctx, testRun("run-b", "2026-08-30T12:00:00Z")))
	require.NoError(t, store.SaveRun(ctx, testRun("run-c", "2026-08-30T11:00:00Z")))

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	require.Equal(t, "run-b", runs[0].RunID)
	require.Equal(t, "run-c", runs[1].RunID)
	require.Equal(t, "run-a", runs[2].RunID)

	runs, err = store.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, "run-b", runs[0].RunID)
}

func TestMemoryStoreMigrationHistoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Init(ctx))

	input := []model.MigrationRecord{{Count: 1, Origin: 0, Destination: 1}, {Count: 2, Origin: 1, Destination: 2}}
	require.NoError(t, store.SaveMigrationHistory(ctx, "run-1", input))

	output, ok, err := store.GetMigrationHistory(ctx, "run-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, input, output)

	_, ok, err = store.GetMigrationHistory(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreChampionsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Init(ctx))

	input := []model.ChampionRecord{
		{Island: 0, Decision: []float64{0.1, 0.2}, Fitness: []float64{0.05}},
		{Island: 1, Decision: []float64{0.3, 0.4}, Fitness: []float64{0.25}},
	}
	require.NoError(t, store.SaveChampions(ctx, "run-1", input))

	output, ok, err := store.GetChampions(ctx, "run-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, input, output)
}

func TestMemoryStoreReset(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Init(ctx))
	require.NoError(t, store.SaveRun(ctx, testRun("run-1", "2026-08-30T10:00:00Z")))
	require.NoError(t, store.SaveMigrationHistory(ctx, "run-1", []model.MigrationRecord{{Count: 1}}))

	require.NoError(t, store.Reset(ctx))

	_, ok, err := store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	require.False(t, ok)
	_, ok, err = store.GetMigrationHistory(ctx, "run-1")
	require.NoError(t, err)
	require.False(t, ok)
}
