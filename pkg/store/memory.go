package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory level store for development and testing.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*LevelRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*LevelRecord)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*LevelRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (s *MemoryStore) Put(ctx context.Context, rec *LevelRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[rec.ID] = rec
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context, limit int) ([]*LevelRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*LevelRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
