package store

import (
	"context"
	"sync"
)

// Mem is an in-memory SnapshotStore for tests and ephemeral sessions.
// Safe for concurrent use.
type Mem struct {
	mu       sync.RWMutex
	payloads map[string][]byte
}

// NewMem creates an empty in-memory store.
func NewMem() *Mem {
	return &Mem{payloads: make(map[string][]byte)}
}

func (m *Mem) Save(_ context.Context, key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(payload))
	copy(cp, payload)
	m.payloads[key] = cp
	return nil
}

func (m *Mem) Load(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payload, ok := m.payloads[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(payload))
	copy(cp, payload)
	return cp, true, nil
}

func (m *Mem) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.payloads, key)
	return nil
}

// Len returns the number of stored snapshots. Used for testing.
func (m *Mem) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.payloads)
}
