package adapter

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"qbank/internal/domain"
)

// MemoryCacheAdapter implements domain.Cache in-process with go-cache. It is
// used when no Redis address is configured.
type MemoryCacheAdapter struct {
	store *cache.Cache
}

func NewMemoryCacheAdapter(defaultExpiration, cleanupInterval time.Duration) domain.Cache {
	return &MemoryCacheAdapter{store: cache.New(defaultExpiration, cleanupInterval)}
}

func (m *MemoryCacheAdapter) Get(_ context.Context, key string) (string, error) {
	v, ok := m.store.Get(key)
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return v.(string), nil
}

// Set with a zero expiration never expires the item.
func (m *MemoryCacheAdapter) Set(_ context.Context, key string, value string, expiration time.Duration) error {
	if expiration <= 0 {
		expiration = cache.NoExpiration
	}
	m.store.Set(key, value, expiration)
	return nil
}

func (m *MemoryCacheAdapter) Ping(context.Context) error {
	return nil
}
