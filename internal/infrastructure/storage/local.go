package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Ensure LocalFileStorage implements FileStorage
var _ FileStorage = (*LocalFileStorage)(nil)

// LocalFileStorage implements FileStorage on the local filesystem.
// Intended for development and single-node deployments.
type LocalFileStorage struct {
	baseDir string
}

// NewLocalFileStorage creates a LocalFileStorage rooted at baseDir
func NewLocalFileStorage(baseDir string) (*LocalFileStorage, error) {
	if baseDir == "" {
		return nil, errors.New("storage base directory is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalFileStorage{baseDir: baseDir}, nil
}

// resolve maps a key to a path under the base directory, rejecting keys
// that would escape it
func (l *LocalFileStorage) resolve(key string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	path := filepath.Join(l.baseDir, filepath.FromSlash(key))
	base, err := filepath.Abs(l.baseDir)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if abs != base && !strings.HasPrefix(abs, base+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid storage key: %s", key)
	}
	return abs, nil
}

// Upload stores a file under the given key
func (l *LocalFileStorage) Upload(ctx context.Context, key string, data []byte) error {
	path, err := l.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", key, err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Download fetches the whole file stored under the given key
func (l *LocalFileStorage) Download(ctx context.Context, key string) ([]byte, error) {
	path, err := l.resolve(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}
