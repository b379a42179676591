package memory

import (
	"context"
	"sync"

	"screening-service/internal/domain"
)

// ResultStore is an in-memory implementation of app.ResultRepository.
type ResultStore struct {
	mu      sync.RWMutex
	records map[string]domain.ScreeningRecord
	byChild map[string][]string
}

func NewResultStore() *ResultStore {
	return &ResultStore{
		records: make(map[string]domain.ScreeningRecord),
		byChild: make(map[string][]string),
	}
}

func (s *ResultStore) Save(_ context.Context, record domain.ScreeningRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[record.ID]; !ok {
		s.byChild[record.ChildID] = append(s.byChild[record.ChildID], record.ID)
	}
	s.records[record.ID] = record
	return nil
}

func (s *ResultStore) Get(_ context.Context, id string) (domain.ScreeningRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[id]
	if !ok {
		return domain.ScreeningRecord{}, domain.ErrScreeningNotFound
	}
	return record, nil
}

func (s *ResultStore) ListByChild(_ context.Context, childID string) ([]domain.ScreeningRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.byChild[childID]
	out := make([]domain.ScreeningRecord, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		out = append(out, s.records[ids[i]])
	}
	return out, nil
}
