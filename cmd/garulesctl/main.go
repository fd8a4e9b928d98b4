package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"garules/internal/storage"
	garulesapi "garules/pkg/garules"
)

const (
	benchmarksDir = "benchmarks"
	exportsDir    = "exports"
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
	case "train":
		return runTrain(ctx, args[1:])
	case "benchmark":
		return runBenchmark(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "fitness":
		return runFitness(ctx, args[1:])
	case "diagnostics":
		return runDiagnostics(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "garules.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := garulesapi.NewClient(ctx, garulesapi.Options{
		StoreKind:     *storeKind,
		DBPath:        *dbPath,
		BenchmarksDir: benchmarksDir,
		ExportsDir:    exportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	fmt.Println("store initialized")
	return nil
}

func runReset(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "garules.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := garulesapi.NewClient(ctx, garulesapi.Options{
		StoreKind:     *storeKind,
		DBPath:        *dbPath,
		BenchmarksDir: benchmarksDir,
		ExportsDir:    exportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Reset(ctx); err != nil {
		return err
	}

	fmt.Printf("reset store=%s\n", *storeKind)
	return nil
}

func runTrain(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "garules.db", "sqlite database path")
	datasetFlag := fs.String("dataset", "blobs", "csv path, or blobs for a synthetic dataset")
	csvHeader := fs.Bool("csv-header", false, "skip the first csv row as a header")
	classes := fs.Int("classes", 2, "blobs: number of classes")
	rowsPerClass := fs.Int("rows-per-class", 50, "blobs: rows per class")
	features := fs.Int("features", 2, "blobs: feature count")
	spread := fs.Float64("spread", 1.0, "blobs: cluster standard deviation")
	variant := fs.String("variant", garulesapi.VariantMultimodal, "classifier variant: multimodal|ensemble")
	iterations := fs.Int("iterations", 10, "generations per search")
	nModels := fs.Int("models", 3, "ensemble: prototypes per class")
	chromosomes := fs.Int("chromosomes", 100, "population size")
	eliteCount := fs.Int("elite", 3, "elite count")
	pMutation := fs.Float64("p-mutation", 0.3, "per-child mutation probability")
	workers := fs.Int("workers", 1, "parallel fitness workers")
	seed := fs.Int64("seed", 0, "random seed, 0 for entropy")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := garulesapi.NewClient(ctx, garulesapi.Options{
		StoreKind:     *storeKind,
		DBPath:        *dbPath,
		BenchmarksDir: benchmarksDir,
		ExportsDir:    exportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	req := garulesapi.TrainRequest{
		Dataset:      *datasetFlag,
		CSVHeader:    *csvHeader,
		Classes:      *classes,
		RowsPerClass: *rowsPerClass,
		Features:     *features,
		Spread:       *spread,
		Variant:      *variant,
		NIterations:  *iterations,
		NModels:      *nModels,
		Chromosomes:  *chromosomes,
		EliteCount:   *eliteCount,
		PMutation:    *pMutation,
		Workers:      *workers,
	}
	if *seed != 0 {
		req.Seed = seed
	}

	summary, err := client.Train(ctx, req)
	if err != nil {
		return err
	}
	return printJSON(summary)
}

func runBenchmark(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("benchmark", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "garules.db", "sqlite database path")
	datasetFlag := fs.String("dataset", "blobs", "csv path, or blobs for a synthetic dataset")
	csvHeader := fs.Bool("csv-header", false, "skip the first csv row as a header")
	classes := fs.Int("classes", 2, "blobs: number of classes")
	rowsPerClass := fs.Int("rows-per-class", 50, "blobs: rows per class")
	features := fs.Int("features", 2, "blobs: feature count")
	spread := fs.Float64("spread", 1.0, "blobs: cluster standard deviation")
	trainFraction := fs.Float64("train-fraction", 0.7, "holdout split fraction")
	variant := fs.String("variant", garulesapi.VariantMultimodal, "classifier variant: multimodal|ensemble")
	iterations := fs.Int("iterations", 10, "generations per search")
	nModels := fs.Int("models", 3, "ensemble: prototypes per class")
	chromosomes := fs.Int("chromosomes", 100, "population size")
	eliteCount := fs.Int("elite", 3, "elite count")
	pMutation := fs.Float64("p-mutation", 0.3, "per-child mutation probability")
	workers := fs.Int("workers", 1, "parallel fitness workers")
	seed := fs.Int64("seed", 0, "random seed, 0 for entropy")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := garulesapi.NewClient(ctx, garulesapi.Options{
		StoreKind:     *storeKind,
		DBPath:        *dbPath,
		BenchmarksDir: benchmarksDir,
		ExportsDir:    exportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	req := garulesapi.BenchmarkRequest{
		Dataset:       *datasetFlag,
		CSVHeader:     *csvHeader,
		Classes:       *classes,
		RowsPerClass:  *rowsPerClass,
		Features:      *features,
		Spread:        *spread,
		TrainFraction: *trainFraction,
		Variant:       *variant,
		NIterations:   *iterations,
		NModels:       *nModels,
		Chromosomes:   *chromosomes,
		EliteCount:    *eliteCount,
		PMutation:     *pMutation,
		Workers:       *workers,
	}
	if *seed != 0 {
		req.Seed = seed
	}

	summary, err := client.Benchmark(ctx, req)
	if err != nil {
		return err
	}
	return printJSON(summary)
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "garules.db", "sqlite database path")
	limit := fs.Int("limit", 20, "maximum runs to list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := garulesapi.NewClient(ctx, garulesapi.Options{
		StoreKind:     *storeKind,
		DBPath:        *dbPath,
		BenchmarksDir: benchmarksDir,
		ExportsDir:    exportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	items, err := client.Runs(ctx, garulesapi.RunsRequest{Limit: *limit})
	if err != nil {
		return err
	}
	return printJSON(items)
}

func runFitness(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("fitness", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "garules.db", "sqlite database path")
	runID := fs.String("run-id", "", "run id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := garulesapi.NewClient(ctx, garulesapi.Options{
		StoreKind:     *storeKind,
		DBPath:        *dbPath,
		BenchmarksDir: benchmarksDir,
		ExportsDir:    exportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	history, err := client.Fitness(ctx, *runID)
	if err != nil {
		return err
	}
	return printJSON(history)
}

func runDiagnostics(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("diagnostics", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "garules.db", "sqlite database path")
	runID := fs.String("run-id", "", "run id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := garulesapi.NewClient(ctx, garulesapi.Options{
		StoreKind:     *storeKind,
		DBPath:        *dbPath,
		BenchmarksDir: benchmarksDir,
		ExportsDir:    exportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	diagnostics, err := client.Diagnostics(ctx, *runID)
	if err != nil {
		return err
	}
	return printJSON(diagnostics)
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "export the most recent run")
	outDir := fs.String("out", exportsDir, "output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := garulesapi.NewClient(ctx, garulesapi.Options{
		StoreKind:     "memory",
		BenchmarksDir: benchmarksDir,
		ExportsDir:    exportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Export(ctx, garulesapi.ExportRequest{
		RunID:  *runID,
		Latest: *latest,
		OutDir: *outDir,
	})
	if err != nil {
		return err
	}
	return printJSON(summary)
}

func printJSON(value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: garulesctl <init|reset|train|benchmark|runs|fitness|diagnostics|export> [flags]", msg)
}
