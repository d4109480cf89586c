package storage

import (
	"context"
	"sort"
	"sync"

	"pelagos/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]model.RunRecord
	history     map[string][]model.MigrationRecord
	champions   map[string][]model.ChampionRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]model.RunRecord)
	s.history = make(map[string][]model.MigrationRecord)
	s.champions = make(map[string][]model.ChampionRecord)
	return nil
}

func (s *MemoryStore) Reset(ctx context.Context) error {
	return s.Init(ctx)
}

func (s *MemoryStore) SaveRun(_ context.Context, run model.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[run.RunID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, runID string) (model.RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[runID]
	return run, ok, nil
}

func (s *MemoryStore) ListRuns(_ context.Context, limit int) ([]model.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.RunRecord, 0, len(s.runs))
	for _, run := range s.runs {
		out = append(out, run)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAtUTC == out[j].CreatedAtUTC {
			return out[i].RunID < out[j].RunID
		}
		return out[i].CreatedAtUTC > out[j].CreatedAtUTC
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) SaveMigrationHistory(_ context.Context, runID string, entries []model.MigrationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history[runID] = append([]model.MigrationRecord(nil), entries...)
	return nil
}

func (s *MemoryStore) GetMigrationHistory(_ context.Context, runID string) ([]model.MigrationRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, ok := s.history[runID]
	if !ok {
		return nil, false, nil
	}
	return append([]model.MigrationRecord(nil), entries...), true, nil
}

func (s *MemoryStore) SaveChampions(_ context.Context, runID string, champions []model.ChampionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.champions[runID] = append([]model.ChampionRecord(nil), champions...)
	return nil
}

func (s *MemoryStore) GetChampions(_ context.Context, runID string) ([]model.ChampionRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	champions, ok := s.champions[runID]
	if !ok {
		return nil, false, nil
	}
	return append([]model.ChampionRecord(nil), champions...), true, nil
}
