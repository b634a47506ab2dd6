// Package metadata is a small key/value table for local bookkeeping, such as
// when the last backup was created and where it was written.
package metadata

import (
	"context"
	"time"
)

type Repository interface {
	// Get returns nil without an error when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error

	// List returns every stored entry.
	List(ctx context.Context) (map[string][]byte, error)

	// Clear drops all entries.
	Clear(ctx context.Context) error

	// SetTime stores t (UTC, RFC 3339) under key.
	SetTime(ctx context.Context, key string, t time.Time) error

	// GetTime returns the time stored under key; ok is false if the key is
	// absent.
	GetTime(ctx context.Context, key string) (t time.Time, ok bool, err error)
}
