package cache

import (
	"context"
	"errors"
	"time"
)

// LayeredCache implements two-level cache (L1: near, L2: shared).
// Entries promoted from L2 live in L1 for at most the L1 TTL.
type LayeredCache struct {
	near   Service
	shared Service
	l1TTL  time.Duration
}

// NewLayeredCache layers near (usually a MemoryCache) over shared
// (usually a RedisCache).
func NewLayeredCache(near, shared Service, opts ...LayeredOption) *LayeredCache {
	cfg := &LayeredConfig{
		L1TTL: time.Minute,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return &LayeredCache{near: near, shared: shared, l1TTL: cfg.L1TTL}
}

func (lc *LayeredCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	// Write-through: shared first, then near
	if err := lc.shared.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	_ = lc.near.Set(ctx, key, value, lc.nearTTL(ttl))
	return nil
}

func (lc *LayeredCache) Get(ctx context.Context, key string) ([]byte, error) {
	if v, err := lc.near.Get(ctx, key); err == nil {
		return v, nil
	}

	v, err := lc.shared.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	_ = lc.near.Set(ctx, key, v, lc.l1TTL)
	return v, nil
}

func (lc *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	_ = lc.near.Delete(ctx, keys...)
	return lc.shared.Delete(ctx, keys...)
}

func (lc *LayeredCache) Close() error {
	return errors.Join(lc.near.Close(), lc.shared.Close())
}

func (lc *LayeredCache) nearTTL(ttl time.Duration) time.Duration {
	if ttl > 0 && ttl < lc.l1TTL {
		return ttl
	}
	return lc.l1TTL
}
