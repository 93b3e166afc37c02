// Package storage selects a StorageManager implementation.
package storage

import (
	"context"
	"sync"

	"github.com/fundedlabs/signal-center/internal/common"
	"github.com/fundedlabs/signal-center/internal/config"
	"github.com/fundedlabs/signal-center/internal/interfaces"
	"github.com/fundedlabs/signal-center/internal/storage/badger"
)

// NewStorageManager creates the default (Badger-backed) storage manager.
func NewStorageManager(logger *common.Logger, cfg *config.StorageConfig) (interfaces.StorageManager, error) {
	return badger.NewManager(logger, &cfg.Badger)
}

// MemoryKV is an in-memory KeyValueStorage used by tests and by callers that
// do not need persistence.
type MemoryKV struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemoryKV creates an empty in-memory key-value store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{items: make(map[string]string)}
}

// Get retrieves a value by key.
func (m *MemoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	if !ok {
		return "", interfaces.ErrKeyNotFound
	}
	return v, nil
}

// Set stores a key-value pair.
func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

// Delete removes a key-value pair.
func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// GetAll retrieves all key-value pairs.
func (m *MemoryKV) GetAll(_ context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.items))
	for k, v := range m.items {
		out[k] = v
	}
	return out, nil
}
