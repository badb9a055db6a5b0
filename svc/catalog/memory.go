package catalog

import (
	"context"
	"maps"
	"sync"
)

// Memory is an in-process Store.
type Memory struct {
	mu    sync.RWMutex
	items map[string]Item
}

// NewMemory returns a Memory store holding a copy of items.
func NewMemory(items map[string]Item) *Memory {
	return &Memory{items: cloneItems(items)}
}

// Get returns a copy of the item so callers cannot mutate the catalogue.
func (m *Memory) Get(ctx context.Context, id string) (Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return maps.Clone(item), nil
}

// Seed replaces the catalogue contents.
func (m *Memory) Seed(_ context.Context, items map[string]Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = cloneItems(items)
	return nil
}

// Len returns the number of items.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
