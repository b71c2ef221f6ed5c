// Package storage provides object storage implementations for uploaded
// marketplace export files.
package storage

import "context"

// FileStorage abstracts where uploaded export files live. The import
// pipeline only ever reads whole files; uploads happen before a job is
// created.
type FileStorage interface {
	// Upload stores a file under the given key
	Upload(ctx context.Context, key string, data []byte) error

	// Download fetches the whole file stored under the given key
	Download(ctx context.Context, key string) ([]byte, error)
}
