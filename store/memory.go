package store

import (
	"context"
	"sync"

	"docsync/model"
	"docsync/resource"
)

var _ Source = (*MemoryStore)(nil)

type MemoryStore struct {
	mu sync.RWMutex

	// table: rows in insertion order
	rows map[string][]map[string]any
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rows: map[string][]map[string]any{},
	}
}

func (s *MemoryStore) Insert(table string, rows ...map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows[table] = append(s.rows[table], rows...)
}

func (s *MemoryStore) All(_ context.Context, rc *resource.Config) ([]*model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.rows[rc.Table]
	out := make([]*model.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.NewRecord(rc, row))
	}
	return out, nil
}

func (s *MemoryStore) ByKeys(_ context.Context, rc *resource.Config, keys []any) ([]*model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]bool, len(keys))
	for _, k := range keys {
		wanted[model.KeyString(k)] = true
	}

	var out []*model.Record
	for _, row := range s.rows[rc.Table] {
		if wanted[model.KeyString(row[rc.PrimaryKey])] {
			out = append(out, model.NewRecord(rc, row))
		}
	}
	return out, nil
}
