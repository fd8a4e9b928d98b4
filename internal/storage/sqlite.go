//go:build sqlite

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"garules/internal/model"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func newSQLiteStore(path string) (Store, error) {
	return NewSQLiteStore(path), nil
}

// DefaultStoreKind names the backend used when no explicit kind is chosen.
func DefaultStoreKind() string {
	return "sqlite"
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveRunRecord(ctx context.Context, record model.RunRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeRunRecord(record)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (run_id, created_at_utc, schema_version, codec_version, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			created_at_utc = excluded.created_at_utc,
			schema_version = excluded.schema_version,
			codec_version = excluded.codec_version,
			payload = excluded.payload
	`, record.RunID, record.CreatedAtUTC, record.SchemaVersion, record.CodecVersion, payload)
	return err
}

func (s *SQLiteStore) GetRunRecord(ctx context.Context, runID string) (model.RunRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.RunRecord{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM runs WHERE run_id = ?`, runID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.RunRecord{}, false, nil
		}
		return model.RunRecord{}, false, err
	}

	record, err := DecodeRunRecord(payload)
	if err != nil {
		return model.RunRecord{}, false, fmt.Errorf("decode run %s: %w", runID, err)
	}
	return record, true, nil
}

func (s *SQLiteStore) ListRunRecords(ctx context.Context) ([]model.RunRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT payload FROM runs ORDER BY created_at_utc DESC, run_id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []model.RunRecord
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		record, err := DecodeRunRecord(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SaveFitnessHistory(ctx context.Context, runID string, history map[string][]float64) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeFitnessHistory(history)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO fitness_history (run_id, payload)
		VALUES (?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			payload = excluded.payload
	`, runID, payload)
	return err
}

func (s *SQLiteStore) GetFitnessHistory(ctx context.Context, runID string) (map[string][]float64, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM fitness_history WHERE run_id = ?`, runID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	history, err := DecodeFitnessHistory(payload)
	if err != nil {
		return nil, false, fmt.Errorf("decode fitness history %s: %w", runID, err)
	}
	return history, true, nil
}

func (s *SQLiteStore) SaveDiagnostics(ctx context.Context, runID string, diagnostics []model.GenerationDiagnostics) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeDiagnostics(diagnostics)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO diagnostics (run_id, payload)
		VALUES (?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			payload = excluded.payload
	`, runID, payload)
	return err
}

func (s *SQLiteStore) GetDiagnostics(ctx context.Context, runID string) ([]model.GenerationDiagnostics, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM diagnostics WHERE run_id = ?`, runID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	diagnostics, err := DecodeDiagnostics(payload)
	if err != nil {
		return nil, false, fmt.Errorf("decode diagnostics %s: %w", runID, err)
	}
	return diagnostics, true, nil
}

func (s *SQLiteStore) Reset(ctx context.Context) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	for _, table := range []string{"runs", "fitness_history", "diagnostics"} {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			created_at_utc TEXT NOT NULL,
			schema_version INTEGER NOT NULL,
			codec_version INTEGER NOT NULL,
			payload BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS fitness_history (
			run_id TEXT PRIMARY KEY,
			payload BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS diagnostics (
			run_id TEXT PRIMARY KEY,
			payload BLOB NOT NULL
		);
	`)
	return err
}
