package adapter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qbank/internal/domain"
)

func TestMemoryCacheAdapter(t *testing.T) {
	c := NewMemoryCacheAdapter(time.Hour, time.Minute)
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "k", "v", 0))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	assert.NoError(t, c.Ping(ctx))
}

func TestMemoryCacheAdapter_Expiration(t *testing.T) {
	c := NewMemoryCacheAdapter(time.Hour, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", "v", 20*time.Millisecond))
	assert.Eventually(t, func() bool {
		_, err := c.Get(ctx, "short")
		return err == domain.ErrCacheMiss
	}, time.Second, 10*time.Millisecond)
}
