package denomination

import (
	"context"
	"sort"
)

// Store exposes denomination retrieval for HTTP handlers.
type Store interface {
	List(ctx context.Context) ([]Denomination, error)
}

// MemoryStore implements Store with an in-memory slice, suitable for local runs.
type MemoryStore struct {
	items []Denomination
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied denominations.
func NewMemoryStore(items []Denomination) *MemoryStore {
	return &MemoryStore{items: append([]Denomination(nil), items...)}
}

// List returns the denominations ordered by name.
func (s *MemoryStore) List(_ context.Context) ([]Denomination, error) {
	items := append([]Denomination(nil), s.items...)
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

// FindByID looks up a denomination by identifier.
func (s *MemoryStore) FindByID(id int) (Denomination, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Denomination{}, false
}
