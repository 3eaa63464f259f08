package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rl1809/bata-cart/internal/core/domain"
)

// Mock LocalStorage
type mockStorage struct {
	mu     sync.Mutex
	items  map[string]string
	writes int
	getErr error
	setErr error
}

func newMockStorage() *mockStorage {
	return &mockStorage{items: make(map[string]string)}
}

func (m *mockStorage) GetItem(ctx context.Context, profile, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getErr != nil {
		return "", false, m.getErr
	}
	value, ok := m.items[profile+"/"+key]
	return value, ok, nil
}

func (m *mockStorage) SetItem(ctx context.Context, profile, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.setErr != nil {
		return m.setErr
	}
	m.writes++
	m.items[profile+"/"+key] = value
	return nil
}

func (m *mockStorage) RemoveItem(ctx context.Context, profile, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, profile+"/"+key)
	return nil
}

func (m *mockStorage) raw(profile string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	value, ok := m.items[profile+"/"+domain.StorageKey]
	return value, ok
}

func (m *mockStorage) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

var errStorageDown = errors.New("storage down")

// Mock Renderer
type mockRenderer struct {
	views []domain.CartView
}

func (m *mockRenderer) Render(view domain.CartView) {
	m.views = append(m.views, view)
}

// Mock Notifier
type mockNotifier struct {
	messages []domain.Notification
}

func (m *mockNotifier) Notify(message string, kind domain.NotificationKind) {
	m.messages = append(m.messages, domain.NewNotification(message, kind))
}
