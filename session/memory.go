package session

import (
	"context"
	"sync"
)

// MemoryStore defines a public type used by taskpilot APIs.
//
// MemoryStore keeps session entries in process memory only. It is intended
// for tests and short-lived tools where durability across restarts does not
// matter.
type MemoryStore struct {
	mu       sync.Mutex
	token    string
	hasToken bool
	snap     []byte
}

// NewMemoryStore describes the newmemorystore operation and its observable behavior.
//
// NewMemoryStore does not mutate shared global state and the returned store is safe for concurrent use.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// SaveToken describes the savetoken operation and its observable behavior.
//
// SaveToken does not mutate shared global state and can be used concurrently.
func (m *MemoryStore) SaveToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.hasToken = true
	return nil
}

// LoadToken describes the loadtoken operation and its observable behavior.
//
// LoadToken returns [ErrNotFound] when no token has been saved.
func (m *MemoryStore) LoadToken(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasToken {
		return "", ErrNotFound
	}
	return m.token, nil
}

// SaveSnapshot describes the savesnapshot operation and its observable behavior.
//
// SaveSnapshot does not mutate shared global state and can be used concurrently.
func (m *MemoryStore) SaveSnapshot(_ context.Context, snap Snapshot) error {
	data, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = data
	return nil
}

// LoadSnapshot describes the loadsnapshot operation and its observable behavior.
//
// LoadSnapshot returns [ErrNotFound] when no snapshot has been saved.
func (m *MemoryStore) LoadSnapshot(_ context.Context) (Snapshot, error) {
	m.mu.Lock()
	data := m.snap
	m.mu.Unlock()
	if data == nil {
		return Snapshot{}, ErrNotFound
	}
	return decodeSnapshot(data)
}

// Clear describes the clear operation and its observable behavior.
//
// Clear removes both entries and is idempotent.
func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.hasToken = false
	m.snap = nil
	return nil
}
