package kvstore

import (
	"context"
	"sync"
	"time"
)

// MemoryBackend is the ephemeral, process-shared store. It backs the session
// storage class and carries no durability guarantees.
type MemoryBackend struct {
	mu      sync.RWMutex
	entries map[string]Envelope
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{entries: make(map[string]Envelope)}
}

func (m *MemoryBackend) Name() string { return "memory" }

func (m *MemoryBackend) Available() bool { return true }

func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	env, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if env.Expired(time.Now()) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, false, nil
	}
	value := make([]byte, len(env.Value))
	copy(value, env.Value)
	return value, true, nil
}

func (m *MemoryBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	m.mu.Lock()
	m.entries[key] = Envelope{
		Value:     stored,
		StoredAt:  time.Now(),
		TTLMillis: ttl.Milliseconds(),
	}
	m.mu.Unlock()
	return nil
}

func (m *MemoryBackend) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}
