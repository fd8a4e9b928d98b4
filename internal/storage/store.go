package storage

import (
	"context"

	"garules/internal/model"
)

// Store persists run history: run records, per-class fitness histories, and
// generation diagnostics. Fitted models are not stored.
type Store interface {
	Init(ctx context.Context) error
	SaveRunRecord(ctx context.Context, record model.RunRecord) error
	GetRunRecord(ctx context.Context, runID string) (model.RunRecord, bool, error)
	ListRunRecords(ctx context.Context) ([]model.RunRecord, error)
	SaveFitnessHistory(ctx context.Context, runID string, history map[string][]float64) error
	GetFitnessHistory(ctx context.Context, runID string) (map[string][]float64, bool, error)
	SaveDiagnostics(ctx context.Context, runID string, diagnostics []model.GenerationDiagnostics) error
	GetDiagnostics(ctx context.Context, runID string) ([]model.GenerationDiagnostics, bool, error)
}

// Resetter is implemented by stores that can drop all persisted run history.
type Resetter interface {
	Reset(ctx context.Context) error
}
