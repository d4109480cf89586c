package pelagos

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"pelagos/internal/evo"
	"pelagos/internal/migration"
	"pelagos/internal/model"
	"pelagos/internal/platform"
	"pelagos/internal/problem"
	"pelagos/internal/storage"
	"pelagos/internal/topology"
)

const defaultDBPath = "pelagos.db"

type Options struct {
	StoreKind string
	DBPath    string
}

// Client wires archipelago construction to run persistence. It is the
// programmatic surface the CLI is built on.
type Client struct {
	store storage.Store
}

func New(ctx context.Context, opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		return nil, err
	}
	return &Client{store: store}, nil
}

func NewWithStore(store storage.Store) (*Client, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	return &Client{store: store}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

type RateSpec struct {
	Kind  string
	Value float64
}

type RunRequest struct {
	Problem        string
	Dimension      int
	Algorithm      string
	Islands        int
	PopulationSize int
	Rounds         int
	Budget         time.Duration
	Seed           int64
	Distribution   string
	Direction      string
	Rate           RateSpec
	Edges          [][2]int
	Selector       string
	Replacement    string
}

type RunSummary struct {
	RunID           string
	BestIsland      int
	BestFitness     []float64
	BestDecision    []float64
	MigrationEvents int
}

// Run builds an archipelago from the request, evolves it to completion and
// persists the run summary, migration history and per-island champions.
func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	if req.Islands <= 0 {
		return RunSummary{}, fmt.Errorf("island count must be > 0, got %d", req.Islands)
	}
	if req.PopulationSize <= 0 {
		return RunSummary{}, fmt.Errorf("population size must be > 0, got %d", req.PopulationSize)
	}
	if req.Rounds <= 0 && req.Budget <= 0 {
		return RunSummary{}, fmt.Errorf("either rounds or a time budget is required")
	}

	prob, err := problem.ByName(req.Problem, req.Dimension)
	if err != nil {
		return RunSummary{}, err
	}
	topo, err := buildTopology(req.Islands, req.Edges)
	if err != nil {
		return RunSummary{}, err
	}
	rate := migration.DefaultRate()
	if req.Rate.Kind != "" {
		rate, err = migration.ParseRate(req.Rate.Kind, req.Rate.Value)
		if err != nil {
			return RunSummary{}, err
		}
	}

	arch, err := platform.NewArchipelago(platform.Config{
		Topology:     topo,
		Distribution: platform.DistributionType(req.Distribution),
		Direction:    platform.MigrationDirection(req.Direction),
		Rate:         rate,
		Seed:         req.Seed,
	})
	if err != nil {
		return RunSummary{}, err
	}

	for i := 0; i < req.Islands; i++ {
		islandSeed := req.Seed + int64(i)*7919
		alg, err := algorithmByName(req.Algorithm, islandSeed)
		if err != nil {
			return RunSummary{}, err
		}
		pop, err := evo.NewPopulation(prob, req.PopulationSize, rand.New(rand.NewSource(islandSeed+1)))
		if err != nil {
			return RunSummary{}, err
		}
		selector, err := selectorByName(req.Selector)
		if err != nil {
			return RunSummary{}, err
		}
		replacement, err := replacementByName(req.Replacement)
		if err != nil {
			return RunSummary{}, err
		}
		isl, err := platform.NewIsland(platform.IslandConfig{
			Population:  pop,
			Algorithm:   alg,
			Selector:    selector,
			Replacement: replacement,
			Seed:        islandSeed + 2,
		})
		if err != nil {
			return RunSummary{}, err
		}
		if err := arch.PushBack(isl); err != nil {
			return RunSummary{}, err
		}
	}

	if req.Budget > 0 {
		err = arch.EvolveFor(req.Budget)
	} else {
		err = arch.Evolve(req.Rounds)
	}
	if err != nil {
		return RunSummary{}, err
	}
	if err := arch.Join(); err != nil {
		return RunSummary{}, err
	}

	champions := arch.Champions()
	best := bestChampion(champions)
	history := arch.MigrationHistory()

	runID := uuid.NewString()
	run := model.RunRecord{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: storage.CurrentSchemaVersion,
			CodecVersion:  storage.CurrentCodecVersion,
		},
		RunID:          runID,
		CreatedAtUTC:   time.Now().UTC().Format(time.RFC3339Nano),
		Problem:        prob.Name(),
		Algorithm:      req.Algorithm,
		Islands:        req.Islands,
		PopulationSize: req.PopulationSize,
		Rounds:         req.Rounds,
		Topology:       topo.Name(),
		Distribution:   string(arch.Distribution()),
		Direction:      string(arch.Direction()),
		Rate:           rate.String(),
	}
	if best != nil && len(best.Fitness) > 0 {
		run.BestFitness = best.Fitness[0]
	}
	if err := c.store.SaveRun(ctx, run); err != nil {
		return RunSummary{}, err
	}
	records := make([]model.MigrationRecord, 0, len(history))
	for _, entry := range history {
		records = append(records, model.MigrationRecord{
			Count:       entry.Count,
			Origin:      entry.Origin,
			Destination: entry.Destination,
		})
	}
	if err := c.store.SaveMigrationHistory(ctx, runID, records); err != nil {
		return RunSummary{}, err
	}
	if err := c.store.SaveChampions(ctx, runID, champions); err != nil {
		return RunSummary{}, err
	}

	summary := RunSummary{RunID: runID, MigrationEvents: len(history)}
	if best != nil {
		summary.BestIsland = best.Island
		summary.BestFitness = best.Fitness
		summary.BestDecision = best.Decision
	}
	return summary, nil
}

func (c *Client) Runs(ctx context.Context, limit int) ([]model.RunRecord, error) {
	return c.store.ListRuns(ctx, limit)
}

func (c *Client) History(ctx context.Context, runID string) ([]model.MigrationRecord, error) {
	entries, ok, err := c.store.GetMigrationHistory(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("run not found: %s", runID)
	}
	return entries, nil
}

func (c *Client) Champions(ctx context.Context, runID string) ([]model.ChampionRecord, error) {
	champions, ok, err := c.store.GetChampions(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("run not found: %s", runID)
	}
	return champions, nil
}

func buildTopology(islands int, edges [][2]int) (topology.Topology, error) {
	if len(edges) == 0 {
		return topology.NewUnconnected(), nil
	}
	custom := topology.NewCustom()
	for i := 0; i < islands; i++ {
		custom.AddVertex()
	}
	for _, edge := range edges {
		if err := custom.AddEdge(edge[0], edge[1]); err != nil {
			return nil, err
		}
	}
	return custom, nil
}

func algorithmByName(name string, seed int64) (evo.Algorithm, error) {
	switch name {
	case "", "sga":
		return evo.NewSGA(evo.SGAConfig{Seed: seed})
	case "monte_carlo":
		return evo.NewMonteCarlo(0, seed), nil
	default:
		return nil, fmt.Errorf("unknown algorithm: %s", name)
	}
}

func selectorByName(name string) (evo.Selector, error) {
	switch name {
	case "", "best":
		return evo.BestSelector{}, nil
	case "random":
		return evo.RandomSelector{}, nil
	default:
		return nil, fmt.Errorf("unknown emigrant selector: %s", name)
	}
}

func replacementByName(name string) (evo.ReplacementPolicy, error) {
	switch name {
	case "", "fair":
		return evo.FairReplace{}, nil
	case "random":
		return evo.RandomReplace{}, nil
	default:
		return nil, fmt.Errorf("unknown replacement policy: %s", name)
	}
}

func bestChampion(champions []model.ChampionRecord) *model.ChampionRecord {
	var best *model.ChampionRecord
	for i := range champions {
		candidate := &champions[i]
		if best == nil || evo.Better(
			model.Individual{Decision: candidate.Decision, Fitness: candidate.Fitness},
			model.Individual{Decision: best.Decision, Fitness: best.Fitness},
		) {
			best = candidate
		}
	}
	return best
}
