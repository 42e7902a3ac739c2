package storage

import (
	"context"
	"io"
)

// MediaStore abstracts where uploaded source media lives. Keys are opaque
// to callers; a Session only records the key returned by Save.
type MediaStore interface {
	// Save persists an upload under key and returns the stored key.
	Save(ctx context.Context, key string, contentType string, r io.Reader) (string, error)

	// Resolve makes the stored media readable on the local filesystem and
	// returns its path. cleanup releases anything Resolve had to stage
	// locally and is safe to call exactly once; for stores that are already
	// local it is a no-op.
	Resolve(ctx context.Context, key string) (localPath string, cleanup func(), err error)

	// Remove deletes the stored media.
	Remove(ctx context.Context, key string) error
}
