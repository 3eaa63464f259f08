package storage

import (
	"context"
	"sync"
)

// MemoryAdapter is process-local storage. Data is lost on restart.
type MemoryAdapter struct {
	mu    sync.RWMutex
	items map[string]map[string]string
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{items: make(map[string]map[string]string)}
}

func (m *MemoryAdapter) GetItem(_ context.Context, profile, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.items[profile][key]
	return value, ok, nil
}

func (m *MemoryAdapter) SetItem(_ context.Context, profile, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	bucket, ok := m.items[profile]
	if !ok {
		bucket = make(map[string]string)
		m.items[profile] = bucket
	}
	bucket[key] = value
	return nil
}

func (m *MemoryAdapter) RemoveItem(_ context.Context, profile, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items[profile], key)
	if len(m.items[profile]) == 0 {
		delete(m.items, profile)
	}
	return nil
}
