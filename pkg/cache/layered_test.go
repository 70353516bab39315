package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayeredCachePromotesFromShared(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)}
	near := NewMemoryCache(WithMemoryClock(clock.Now), WithMemoryCleanup(time.Hour))
	shared := NewMemoryCache(WithMemoryClock(clock.Now), WithMemoryCleanup(time.Hour))
	lc := NewLayeredCache(near, shared, WithLayeredL1TTL(time.Minute))
	defer lc.Close()
	ctx := context.Background()

	require.NoError(t, lc.Set(ctx, "k", []byte("v"), time.Hour))
	assert.Equal(t, 1, near.Len())
	assert.Equal(t, 1, shared.Len())

	// near copy expires first
	clock.Advance(2 * time.Minute)
	_, err := near.Get(ctx, "k")
	require.ErrorIs(t, err, ErrCacheMiss)

	got, err := lc.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
	assert.Equal(t, 1, near.Len())

	require.NoError(t, lc.Delete(ctx, "k"))
	_, err = lc.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestLayeredCacheShortTTLNotExtended(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)}
	near := NewMemoryCache(WithMemoryClock(clock.Now), WithMemoryCleanup(time.Hour))
	lc := NewLayeredCache(near, Noop{}, WithLayeredL1TTL(time.Hour))
	defer lc.Close()
	ctx := context.Background()

	require.NoError(t, lc.Set(ctx, "k", []byte("v"), time.Second))
	clock.Advance(2 * time.Second)
	_, err := lc.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
