package storage

import (
	"context"

	"pelagos/internal/model"
)

// Store persists evolution runs: the run summary, the migration history
// and the per-island champions.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run model.RunRecord) error
	GetRun(ctx context.Context, runID string) (model.RunRecord, bool, error)
	ListRuns(ctx context.Context, limit int) ([]model.RunRecord, error)
	SaveMigrationHistory(ctx context.Context, runID string, entries []model.MigrationRecord) error
	GetMigrationHistory(ctx context.Context, runID string) ([]model.MigrationRecord, bool, error)
	SaveChampions(ctx context.Context, runID string, champions []model.ChampionRecord) error
	GetChampions(ctx context.Context, runID string) ([]model.ChampionRecord, bool, error)
}

// Resetter is implemented by stores that can drop all persisted state.
type Resetter interface {
	Reset(ctx context.Context) error
}
