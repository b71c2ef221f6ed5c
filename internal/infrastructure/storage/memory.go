package storage

import (
	"context"
	"fmt"
	"sync"
)

// Ensure MemoryFileStorage implements FileStorage
var _ FileStorage = (*MemoryFileStorage)(nil)

// MemoryFileStorage implements FileStorage in memory, for tests
type MemoryFileStorage struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemoryFileStorage creates an empty MemoryFileStorage
func NewMemoryFileStorage() *MemoryFileStorage {
	return &MemoryFileStorage{files: make(map[string][]byte)}
}

// Upload stores a file under the given key
func (m *MemoryFileStorage) Upload(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	m.files[key] = stored
	return nil
}

// Download fetches the whole file stored under the given key
func (m *MemoryFileStorage) Download(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[key]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", key)
	}
	return data, nil
}
