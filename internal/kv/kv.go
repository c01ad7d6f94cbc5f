// Package kv defines the persistence collaborator: a key-value store addressed
// by collection name, holding each collection as one serialized blob. The core
// depends only on Get/Set semantics, not on any storage technology.
package kv

import "sync"

// Store is the persistence contract. Each collection is read once at startup
// and written back in full after every mutation.
type Store interface {
	// Get returns the stored bytes for a collection name.
	// The second return is false when the key is absent.
	Get(name string) ([]byte, bool, error)

	// Set stores the bytes for a collection name, replacing any previous value.
	Set(name string, data []byte) error
}

// Memory is an in-process Store used by tests and as a default substrate.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(name string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.data[name]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp, true, nil
}

func (m *Memory) Set(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	m.data[name] = cp
	return nil
}

// Keys returns the stored collection names. Test helper.
func (m *Memory) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys
}
