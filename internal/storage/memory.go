package storage

import (
	"context"
	"sort"
	"sync"

	"garules/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	records     map[string]model.RunRecord
	history     map[string]map[string][]float64
	diagnostics map[string][]model.GenerationDiagnostics
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.records = make(map[string]model.RunRecord)
	s.history = make(map[string]map[string][]float64)
	s.diagnostics = make(map[string][]model.GenerationDiagnostics)
	return nil
}

func (s *MemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]model.RunRecord)
	s.history = make(map[string]map[string][]float64)
	s.diagnostics = make(map[string][]model.GenerationDiagnostics)
	return nil
}

func (s *MemoryStore) SaveRunRecord(_ context.Context, record model.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[record.RunID] = record
	return nil
}

func (s *MemoryStore) GetRunRecord(_ context.Context, runID string) (model.RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[runID]
	return record, ok, nil
}

func (s *MemoryStore) ListRunRecords(_ context.Context) ([]model.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.RunRecord, 0, len(s.records))
	for _, record := range s.records {
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAtUTC != out[j].CreatedAtUTC {
			return out[i].CreatedAtUTC > out[j].CreatedAtUTC
		}
		return out[i].RunID < out[j].RunID
	})
	return out, nil
}

func (s *MemoryStore) SaveFitnessHistory(_ context.Context, runID string, history map[string][]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make(map[string][]float64, len(history))
	for class, h := range history {
		copied[class] = append([]float64(nil), h...)
	}
	s.history[runID] = copied
	return nil
}

func (s *MemoryStore) GetFitnessHistory(_ context.Context, runID string) (map[string][]float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.history[runID]
	if !ok {
		return nil, false, nil
	}
	out := make(map[string][]float64, len(history))
	for class, h := range history {
		out[class] = append([]float64(nil), h...)
	}
	return out, true, nil
}

func (s *MemoryStore) SaveDiagnostics(_ context.Context, runID string, diagnostics []model.GenerationDiagnostics) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.diagnostics[runID] = append([]model.GenerationDiagnostics(nil), diagnostics...)
	return nil
}

func (s *MemoryStore) GetDiagnostics(_ context.Context, runID string) ([]model.GenerationDiagnostics, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	diagnostics, ok := s.diagnostics[runID]
	if !ok {
		return nil, false, nil
	}
	return append([]model.GenerationDiagnostics(nil), diagnostics...), true, nil
}
