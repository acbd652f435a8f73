// Package memory provides an in-process KVRepository for tests and
// ephemeral deployments.
package memory

import (
	"context"
	"sync"

	"github.com/vytor/gauntlet/internal/logger"
	"github.com/vytor/gauntlet/internal/repository"
)

type kvRepository struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewKVRepository returns an empty in-memory store.
func NewKVRepository() repository.KVRepository {
	return &kvRepository{data: make(map[string][]byte)}
}

func (r *kvRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	value, ok := r.data[key]
	if !ok {
		logger.FromContext(ctx).WithPrefix("kv_repo").Debug("key not found: %s", key)
		return nil, nil
	}
	return append([]byte(nil), value...), nil
}

func (r *kvRepository) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[key] = append([]byte(nil), value...)
	return nil
}

func (r *kvRepository) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, key)
	return nil
}
