package repository

import (
	"context"
	"sync"

	"github.com/fekuna/omnipos-stocktake-service/internal/store"
)

type MemoryRepository struct {
	mu     sync.RWMutex
	prefix string
	data   map[string][]byte
}

func NewMemoryRepository(prefix string) *MemoryRepository {
	return &MemoryRepository{
		prefix: prefix,
		data:   make(map[string][]byte),
	}
}

func (r *MemoryRepository) Read(ctx context.Context, c store.Collection) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.data[c.Key(r.prefix)]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (r *MemoryRepository) WriteAll(ctx context.Context, entries ...store.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range entries {
		v := make([]byte, len(e.Data))
		copy(v, e.Data)
		r.data[e.Collection.Key(r.prefix)] = v
	}
	return nil
}

func (r *MemoryRepository) Close() error {
	return nil
}
