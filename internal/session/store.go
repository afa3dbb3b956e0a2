package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrNotFound = errors.New("session not found")

// Store keeps session data keyed by session id.
type Store interface {
	Get(ctx context.Context, id string) (*Data, error)
	Set(ctx context.Context, id string, data *Data, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

type memoryEntry struct {
	data    Data
	expires time.Time
}

// MemoryStore is a process-local Store. Sessions are lost on restart and are
// not shared between instances.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		now:      time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Data, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if m.now().After(entry.expires) {
		delete(m.sessions, id)
		return nil, ErrNotFound
	}

	data := entry.data
	data.Flashes = append([]Flash(nil), entry.data.Flashes...)
	return &data, nil
}

func (m *MemoryStore) Set(_ context.Context, id string, data *Data, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *data
	stored.Flashes = append([]Flash(nil), data.Flashes...)
	m.sessions[id] = memoryEntry{data: stored, expires: m.now().Add(ttl)}
	m.sweep()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

// sweep drops expired entries. Caller holds mu.
func (m *MemoryStore) sweep() {
	now := m.now()
	for id, entry := range m.sessions {
		if now.After(entry.expires) {
			delete(m.sessions, id)
		}
	}
}
