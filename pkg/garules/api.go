// Package garules exposes the evolutionary prototype classifiers behind a
// small client API: run benchmarks, list past runs, and export artifacts.
package garules

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"garules/internal/classifier"
	"garules/internal/dataset"
	"garules/internal/model"
	"garules/internal/stats"
	"garules/internal/storage"
)

const (
	defaultBenchmarksDir = "benchmarks"
	defaultExportsDir    = "exports"
	defaultDBPath        = "garules.db"

	VariantMultimodal = "multimodal"
	VariantEnsemble   = "ensemble"
)

type Options struct {
	StoreKind     string
	DBPath        string
	BenchmarksDir string
	ExportsDir    string
}

type Client struct {
	store storage.Store

	benchmarksDir string
	exportsDir    string
}

func NewClient(ctx context.Context, opts Options) (*Client, error) {
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	store, err := storage.NewStore(opts.StoreKind, dbPath)
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		return nil, err
	}

	benchmarksDir := opts.BenchmarksDir
	if benchmarksDir == "" {
		benchmarksDir = defaultBenchmarksDir
	}
	exportsDir := opts.ExportsDir
	if exportsDir == "" {
		exportsDir = defaultExportsDir
	}
	return &Client{store: store, benchmarksDir: benchmarksDir, exportsDir: exportsDir}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

// Reset drops all persisted run history and reinitializes the store.
// Artifact directories on disk are left untouched.
func (c *Client) Reset(ctx context.Context) error {
	if resetter, ok := c.store.(storage.Resetter); ok {
		if err := resetter.Reset(ctx); err != nil {
			return err
		}
	}
	return c.store.Init(ctx)
}

type BenchmarkRequest struct {
	// Dataset is a CSV path, or "blobs" to generate a synthetic cluster
	// dataset.
	Dataset   string
	CSVHeader bool
	// Blobs parameters.
	Classes      int
	RowsPerClass int
	Features     int
	Spread       float64
	// TrainFraction is the holdout split; zero selects 0.7.
	TrainFraction float64
	// Variant selects the classifier: "multimodal" (default) or "ensemble".
	Variant     string
	NIterations int
	NModels     int
	Chromosomes int
	EliteCount  int
	PMutation   float64
	Workers     int
	Seed        *int64
}

type TrainRequest struct {
	// Dataset is a CSV path, or "blobs" to generate a synthetic cluster
	// dataset.
	Dataset   string
	CSVHeader bool
	// Blobs parameters.
	Classes      int
	RowsPerClass int
	Features     int
	Spread       float64
	// Variant selects the classifier: "multimodal" (default) or "ensemble".
	Variant     string
	NIterations int
	NModels     int
	Chromosomes int
	EliteCount  int
	PMutation   float64
	Workers     int
	Seed        *int64
}

type RunSummary struct {
	RunID        string
	ArtifactsDir string
	Variant      string
	Classes      []string
	Accuracy     float64
	Report       stats.Report
}

type RunItem struct {
	RunID        string
	CreatedAtUTC string
	Dataset      string
	Variant      string
	Seed         int64
	NIterations  int
	NModels      int
	Accuracy     float64
}

type RunsRequest struct {
	Limit int
}

type ExportRequest struct {
	RunID  string
	Latest bool
	OutDir string
}

type ExportSummary struct {
	RunID     string
	Directory string
}

// Benchmark trains the requested classifier variant on a train split,
// scores it on the holdout, and persists the run record, fitness history,
// diagnostics and artifacts.
func (c *Client) Benchmark(ctx context.Context, req BenchmarkRequest) (RunSummary, error) {
	variant := req.Variant
	if variant == "" {
		variant = VariantMultimodal
	}
	if variant != VariantMultimodal && variant != VariantEnsemble {
		return RunSummary{}, fmt.Errorf("unsupported variant: %s", variant)
	}

	seed, seeded := resolveSeed(req.Seed)

	table, datasetName, err := c.resolveDataset(req, seed)
	if err != nil {
		return RunSummary{}, err
	}

	trainFraction := req.TrainFraction
	if trainFraction == 0 {
		trainFraction = 0.7
	}
	splitRNG := rand.New(rand.NewSource(seed + 1000))
	train, test, err := dataset.Split(table, trainFraction, splitRNG)
	if err != nil {
		return RunSummary{}, err
	}

	fitSeed := seed
	predicted, classes, history, diagnostics, err := c.runVariant(ctx, variant, req, &fitSeed, train, test)
	if err != nil {
		return RunSummary{}, err
	}

	report, err := stats.BuildReport(predicted, test.Labels)
	if err != nil {
		return RunSummary{}, err
	}

	now := time.Now().UTC()
	runID := uuid.NewString()
	record := model.RunRecord{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: storage.CurrentSchemaVersion,
			CodecVersion:  storage.CurrentCodecVersion,
		},
		RunID:        runID,
		CreatedAtUTC: now.Format(time.RFC3339),
		Dataset:      datasetName,
		Variant:      variant,
		Seed:         seed,
		Seeded:       seeded,
		NIterations:  req.NIterations,
		NModels:      req.NModels,
		TrainRows:    train.Rows(),
		TestRows:     test.Rows(),
		Features:     train.Features(),
		Classes:      classes,
		Accuracy:     report.Accuracy,
	}

	runDir, err := c.persistRun(ctx, record, history, diagnostics, report)
	if err != nil {
		return RunSummary{}, err
	}

	return RunSummary{
		RunID:        runID,
		ArtifactsDir: runDir,
		Variant:      variant,
		Classes:      classes,
		Accuracy:     report.Accuracy,
		Report:       report,
	}, nil
}

// Train fits the requested variant on the full dataset without a holdout
// split and records resubstitution accuracy. Everything else matches
// Benchmark: the run is persisted and its artifacts written.
func (c *Client) Train(ctx context.Context, req TrainRequest) (RunSummary, error) {
	variant := req.Variant
	if variant == "" {
		variant = VariantMultimodal
	}
	if variant != VariantMultimodal && variant != VariantEnsemble {
		return RunSummary{}, fmt.Errorf("unsupported variant: %s", variant)
	}

	seed, seeded := resolveSeed(req.Seed)

	benchReq := BenchmarkRequest{
		Dataset:      req.Dataset,
		CSVHeader:    req.CSVHeader,
		Classes:      req.Classes,
		RowsPerClass: req.RowsPerClass,
		Features:     req.Features,
		Spread:       req.Spread,
		Variant:      variant,
		NIterations:  req.NIterations,
		NModels:      req.NModels,
		Chromosomes:  req.Chromosomes,
		EliteCount:   req.EliteCount,
		PMutation:    req.PMutation,
		Workers:      req.Workers,
	}
	table, datasetName, err := c.resolveDataset(benchReq, seed)
	if err != nil {
		return RunSummary{}, err
	}

	fitSeed := seed
	predicted, classes, history, diagnostics, err := c.runVariant(ctx, variant, benchReq, &fitSeed, table, table)
	if err != nil {
		return RunSummary{}, err
	}

	report, err := stats.BuildReport(predicted, table.Labels)
	if err != nil {
		return RunSummary{}, err
	}

	runID := uuid.NewString()
	record := model.RunRecord{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: storage.CurrentSchemaVersion,
			CodecVersion:  storage.CurrentCodecVersion,
		},
		RunID:        runID,
		CreatedAtUTC: time.Now().UTC().Format(time.RFC3339),
		Dataset:      datasetName,
		Variant:      variant,
		Seed:         seed,
		Seeded:       seeded,
		NIterations:  req.NIterations,
		NModels:      req.NModels,
		TrainRows:    table.Rows(),
		Features:     table.Features(),
		Classes:      classes,
		Accuracy:     report.Accuracy,
	}

	runDir, err := c.persistRun(ctx, record, history, diagnostics, report)
	if err != nil {
		return RunSummary{}, err
	}

	return RunSummary{
		RunID:        runID,
		ArtifactsDir: runDir,
		Variant:      variant,
		Classes:      classes,
		Accuracy:     report.Accuracy,
		Report:       report,
	}, nil
}

func (c *Client) persistRun(ctx context.Context, record model.RunRecord, history map[string][]float64, diagnostics []model.GenerationDiagnostics, report stats.Report) (string, error) {
	if err := c.store.SaveRunRecord(ctx, record); err != nil {
		return "", err
	}
	if err := c.store.SaveFitnessHistory(ctx, record.RunID, history); err != nil {
		return "", err
	}
	if err := c.store.SaveDiagnostics(ctx, record.RunID, diagnostics); err != nil {
		return "", err
	}

	runDir, err := stats.WriteRunArtifacts(c.benchmarksDir, stats.RunArtifacts{
		Record:         record,
		FitnessHistory: history,
		Diagnostics:    diagnostics,
		Report:         report,
	})
	if err != nil {
		return "", err
	}
	if err := stats.AppendRunIndex(c.benchmarksDir, stats.RunIndexEntry{
		RunID:        record.RunID,
		Dataset:      record.Dataset,
		Variant:      record.Variant,
		Seed:         record.Seed,
		NIterations:  record.NIterations,
		NModels:      record.NModels,
		Accuracy:     record.Accuracy,
		CreatedAtUTC: record.CreatedAtUTC,
	}); err != nil {
		return "", err
	}
	return runDir, nil
}

func (c *Client) runVariant(ctx context.Context, variant string, req BenchmarkRequest, seed *int64, train, test dataset.Table) ([]string, []string, map[string][]float64, []model.GenerationDiagnostics, error) {
	switch variant {
	case VariantMultimodal:
		clf := classifier.NewMultimodal(classifier.MultimodalConfig{
			NIterations: req.NIterations,
			Chromosomes: req.Chromosomes,
			EliteCount:  req.EliteCount,
			PMutation:   req.PMutation,
			Workers:     req.Workers,
			Seed:        seed,
		})
		if err := clf.Fit(ctx, train.X, train.Labels); err != nil {
			return nil, nil, nil, nil, err
		}
		predicted, err := clf.Predict(test.X)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		return predicted, clf.Classes(), clf.FitnessHistory(), clf.Diagnostics(), nil
	case VariantEnsemble:
		clf := classifier.NewEnsemble(classifier.EnsembleConfig{
			NIterations: req.NIterations,
			NModels:     req.NModels,
			Chromosomes: req.Chromosomes,
			EliteCount:  req.EliteCount,
			PMutation:   req.PMutation,
			Workers:     req.Workers,
			Seed:        seed,
		})
		if err := clf.Fit(ctx, train.X, train.Labels); err != nil {
			return nil, nil, nil, nil, err
		}
		predicted, err := clf.Predict(test.X)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		return predicted, clf.Classes(), clf.FitnessHistory(), clf.Diagnostics(), nil
	default:
		return nil, nil, nil, nil, fmt.Errorf("unsupported variant: %s", variant)
	}
}

func (c *Client) resolveDataset(req BenchmarkRequest, seed int64) (dataset.Table, string, error) {
	if req.Dataset == "" || req.Dataset == "blobs" {
		classes := req.Classes
		if classes <= 0 {
			classes = 2
		}
		rowsPerClass := req.RowsPerClass
		if rowsPerClass <= 0 {
			rowsPerClass = 50
		}
		features := req.Features
		if features <= 0 {
			features = 2
		}
		spread := req.Spread
		if spread <= 0 {
			spread = 1.0
		}
		centers := make([][]float64, classes)
		for cIdx := range centers {
			center := make([]float64, features)
			for f := range center {
				center[f] = float64(cIdx) * 10
			}
			centers[cIdx] = center
		}
		table, err := dataset.Blobs(dataset.BlobsConfig{
			Centers:      centers,
			RowsPerClass: rowsPerClass,
			Spread:       spread,
			Rand:         rand.New(rand.NewSource(seed + 2000)),
		})
		if err != nil {
			return dataset.Table{}, "", err
		}
		return table, "blobs", nil
	}

	in, err := os.Open(req.Dataset)
	if err != nil {
		return dataset.Table{}, "", err
	}
	defer in.Close()

	table, err := dataset.ReadCSV(in, req.CSVHeader)
	if err != nil {
		return dataset.Table{}, "", fmt.Errorf("load dataset %s: %w", req.Dataset, err)
	}
	return table, filepath.Base(req.Dataset), nil
}

// Runs lists stored run records, newest first.
func (c *Client) Runs(ctx context.Context, req RunsRequest) ([]RunItem, error) {
	records, err := c.store.ListRunRecords(ctx)
	if err != nil {
		return nil, err
	}
	if req.Limit > 0 && len(records) > req.Limit {
		records = records[:req.Limit]
	}

	items := make([]RunItem, 0, len(records))
	for _, record := range records {
		items = append(items, RunItem{
			RunID:        record.RunID,
			CreatedAtUTC: record.CreatedAtUTC,
			Dataset:      record.Dataset,
			Variant:      record.Variant,
			Seed:         record.Seed,
			NIterations:  record.NIterations,
			NModels:      record.NModels,
			Accuracy:     record.Accuracy,
		})
	}
	return items, nil
}

// Fitness returns the stored per-class fitness history of a run.
func (c *Client) Fitness(ctx context.Context, runID string) (map[string][]float64, error) {
	if runID == "" {
		return nil, errors.New("run id is required")
	}
	history, ok, err := c.store.GetFitnessHistory(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no fitness history for run %s", runID)
	}
	return history, nil
}

// Diagnostics returns the stored generation diagnostics of a run.
func (c *Client) Diagnostics(ctx context.Context, runID string) ([]model.GenerationDiagnostics, error) {
	if runID == "" {
		return nil, errors.New("run id is required")
	}
	diagnostics, ok, err := c.store.GetDiagnostics(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no diagnostics for run %s", runID)
	}
	return diagnostics, nil
}

// Export copies a run's artifacts directory into the exports directory.
func (c *Client) Export(ctx context.Context, req ExportRequest) (ExportSummary, error) {
	runID := req.RunID
	if req.Latest {
		entries, err := stats.ListRunIndex(c.benchmarksDir)
		if err != nil {
			return ExportSummary{}, err
		}
		if len(entries) == 0 {
			return ExportSummary{}, errors.New("no runs recorded")
		}
		runID = entries[0].RunID
	}
	if runID == "" {
		return ExportSummary{}, errors.New("run id is required")
	}

	outDir := req.OutDir
	if outDir == "" {
		outDir = c.exportsDir
	}
	exportedDir, err := stats.ExportRunArtifacts(c.benchmarksDir, runID, outDir)
	if err != nil {
		return ExportSummary{}, err
	}
	return ExportSummary{RunID: runID, Directory: filepath.Clean(exportedDir)}, nil
}

func resolveSeed(seed *int64) (int64, bool) {
	if seed != nil {
		return *seed, true
	}
	return time.Now().UnixNano(), false
}
