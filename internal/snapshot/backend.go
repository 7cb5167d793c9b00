// Package snapshot stores one timestamped snapshot per dataset behind a
// key-value backend and reads it back, degrading to an empty dataset when
// the stored value is missing or malformed.
package snapshot

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by a Backend when no value exists for a key.
var ErrNotFound = errors.New("snapshot: key not found")

// Backend is a key-value store holding whole snapshot values.
// Set fully replaces any prior value for the key.
type Backend interface {
	Set(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Close() error
}

// MemoryBackend keeps values in process memory.
type MemoryBackend struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string][]byte)}
}

// Set implements Backend.
func (m *MemoryBackend) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}

// Get implements Backend.
func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Close implements Backend.
func (m *MemoryBackend) Close() error { return nil }
