package repository

import "context"

// KVRepository is a byte-oriented key-value store. Get returns nil, nil for
// an absent key.
type KVRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
