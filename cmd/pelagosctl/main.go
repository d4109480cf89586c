package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"pelagos/internal/storage"
	pelagosapi "pelagos/pkg/pelagos"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "reset":
		return runReset(ctx, args[1:])
	case "run":
		return runRun(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "history":
		return runHistory(ctx, args[1:])
	case "champions":
		return runChampions(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: pelagosctl <init|reset|run|runs|history|champions> [flags]", msg)
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "pelagos.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := pelagosapi.New(ctx, pelagosapi.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	fmt.Printf("initialized store=%s\n", *storeKind)
	return nil
}

func runReset(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "pelagos.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := storage.NewStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()

	resetter, ok := store.(storage.Resetter)
	if !ok {
		return fmt.Errorf("store backend %s does not support reset", *storeKind)
	}
	if err := resetter.Reset(ctx); err != nil {
		return err
	}

	fmt.Printf("reset store=%s\n", *storeKind)
	return nil
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional run config YAML path")
	problemName := fs.String("problem", "sphere", "problem name: sphere|rastrigin|rosenbrock")
	dimension := fs.Int("dim", 10, "problem dimension")
	algorithmName := fs.String("algorithm", "sga", "evolution algorithm: sga|monte_carlo")
	islands := fs.Int("islands", 4, "island count")
	population := fs.Int("pop", 20, "population size per island")
	rounds := fs.Int("rounds", 50, "evolution rounds (ignored when budget-ms is set)")
	budgetMS := fs.Int("budget-ms", 0, "wall-clock evolution budget in milliseconds (0 uses rounds)")
	seed := fs.Int64("seed", 1, "rng seed")
	topologyName := fs.String("topology", "ring", "migration topology: ring|unconnected")
	distribution := fs.String("distribution", "point_to_point", "migrant distribution: point_to_point|broadcast")
	direction := fs.String("direction", "destination", "migration direction: source|destination")
	rateKind := fs.String("rate-kind", "absolute", "migration rate kind: absolute|fractional")
	rateValue := fs.Float64("rate-value", 1, "migration rate value")
	selectorName := fs.String("selector", "best", "emigrant selector: best|random")
	replacementName := fs.String("replacement", "fair", "immigrant replacement policy: fair|random")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "pelagos.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setFlags := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})

	var req pelagosapi.RunRequest
	if *configPath != "" {
		loaded, err := loadRunRequestFromConfig(*configPath)
		if err != nil {
			return err
		}
		req = loaded
	}
	if *configPath == "" || setFlags["problem"] {
		req.Problem = *problemName
	}
	if *configPath == "" || setFlags["dim"] {
		req.Dimension = *dimension
	}
	if *configPath == "" || setFlags["algorithm"] {
		req.Algorithm = *algorithmName
	}
	if *configPath == "" || setFlags["islands"] {
		req.Islands = *islands
	}
	if *configPath == "" || setFlags["pop"] {
		req.PopulationSize = *population
	}
	if *configPath == "" || setFlags["rounds"] {
		req.Rounds = *rounds
	}
	if setFlags["budget-ms"] {
		req.Budget = time.Duration(*budgetMS) * time.Millisecond
	}
	if *configPath == "" || setFlags["seed"] {
		req.Seed = *seed
	}
	if *configPath == "" || setFlags["distribution"] {
		req.Distribution = *distribution
	}
	if *configPath == "" || setFlags["direction"] {
		req.Direction = *direction
	}
	if *configPath == "" || setFlags["rate-kind"] {
		req.Rate.Kind = *rateKind
	}
	if *configPath == "" || setFlags["rate-value"] {
		req.Rate.Value = *rateValue
	}
	if *configPath == "" || setFlags["selector"] {
		req.Selector = *selectorName
	}
	if *configPath == "" || setFlags["replacement"] {
		req.Replacement = *replacementName
	}
	if len(req.Edges) == 0 && (*configPath == "" || setFlags["topology"]) {
		edges, err := topologyEdges(*topologyName, req.Islands)
		if err != nil {
			return err
		}
		req.Edges = edges
	}

	client, err := pelagosapi.New(ctx, pelagosapi.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Run(ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("run completed run_id=%s problem=%s islands=%d pop=%d rounds=%d seed=%d\n",
		summary.RunID, req.Problem, req.Islands, req.PopulationSize, req.Rounds, req.Seed)
	if len(summary.BestFitness) > 0 {
		fmt.Printf("best island=%d fitness=%.6f\n", summary.BestIsland, summary.BestFitness[0])
	}
	fmt.Printf("migration_events=%d\n", summary.MigrationEvents)
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max runs to list")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "pelagos.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	client, err := pelagosapi.New(ctx, pelagosapi.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	runs, err := client.Runs(ctx, *limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}
	for _, r := range runs {
		fmt.Printf("run_id=%s created_at=%s problem=%s algorithm=%s islands=%d pop=%d rounds=%d topology=%s distribution=%s direction=%s rate=%q best_fitness=%.6f\n",
			r.RunID,
			r.CreatedAtUTC,
			r.Problem,
			r.Algorithm,
			r.Islands,
			r.PopulationSize,
			r.Rounds,
			r.Topology,
			r.Distribution,
			r.Direction,
			r.Rate,
			r.BestFitness,
		)
	}
	return nil
}

func runHistory(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	jsonOut := fs.Bool("json", false, "emit migration history as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "pelagos.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return errors.New("history requires --run-id")
	}

	client, err := pelagosapi.New(ctx, pelagosapi.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	history, err := client.History(ctx, *runID)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		fmt.Println("no migration events")
		return nil
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(history)
	}
	for _, entry := range history {
		fmt.Printf("(%d,%d,%d)\n", entry.Count, entry.Origin, entry.Destination)
	}
	return nil
}

func runChampions(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("champions", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	jsonOut := fs.Bool("json", false, "emit champions as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "pelagos.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return errors.New("champions requires --run-id")
	}

	client, err := pelagosapi.New(ctx, pelagosapi.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	champions, err := client.Champions(ctx, *runID)
	if err != nil {
		return err
	}
	if len(champions) == 0 {
		fmt.Println("no champions")
		return nil
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(champions)
	}
	for _, c := range champions {
		fitness := 0.0
		if len(c.Fitness) > 0 {
			fitness = c.Fitness[0]
		}
		fmt.Printf("island=%d fitness=%.6f decision=%v\n", c.Island, fitness, c.Decision)
	}
	return nil
}

func topologyEdges(name string, islands int) ([][2]int, error) {
	switch name {
	case "unconnected":
		return nil, nil
	case "ring":
		if islands < 2 {
			return nil, nil
		}
		edges := make([][2]int, 0, islands)
		for i := 0; i < islands; i++ {
			edges = append(edges, [2]int{i, (i + 1) % islands})
		}
		return edges, nil
	default:
		return nil, fmt.Errorf("unknown topology: %s", name)
	}
}
