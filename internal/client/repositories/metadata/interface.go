// Package metadata is the key/value table of the local session database.
// Values are opaque bytes; callers own their encoding.
package metadata

import (
	"context"
)

type Repository interface {
	// Get returns (nil, nil) when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetIfAbsent stores value unless key already exists and returns the
	// value that ends up stored.
	SetIfAbsent(ctx context.Context, key string, value []byte) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
