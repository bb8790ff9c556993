package cachemanager

import (
	"context"
	"sync/atomic"
	"time"
)

// Loader produces the value for input on a cache miss.
type Loader[V any, I any] func(ctx context.Context, input I) (V, error)

// Stats counts read-through lookups.
type Stats struct {
	Hits   int64
	Misses int64
}

// ReadThroughCache fronts a Loader with a CacheManager. Values are cached
// only when the loader succeeds.
type ReadThroughCache[K ~string, V any, I any] struct {
	cache  CacheManager[K, V]
	load   Loader[V, I]
	bypass bool

	hits   atomic.Int64
	misses atomic.Int64
}

// NewReadThroughCache wraps load with cache. With bypass set every call
// goes straight to the loader.
func NewReadThroughCache[K ~string, V any, I any](cache CacheManager[K, V], load Loader[V, I], bypass bool) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{
		cache:  cache,
		load:   load,
		bypass: bypass,
	}
}

// Get returns the cached value for key or loads it from input.
func (r *ReadThroughCache[K, V, I]) Get(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	return r.get(ctx, key, input, ttl, r.cache.Get)
}

// GetWithRefresh is Get but a hit also extends the entry to ttl.
func (r *ReadThroughCache[K, V, I]) GetWithRefresh(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	return r.get(ctx, key, input, ttl, func(ctx context.Context, key K) (V, bool) {
		return r.cache.GetWithRefresh(ctx, key, ttl)
	})
}

func (r *ReadThroughCache[K, V, I]) get(
	ctx context.Context,
	key K,
	input I,
	ttl time.Duration,
	lookup func(context.Context, K) (V, bool),
) (V, error) {
	if r.bypass {
		return r.load(ctx, input)
	}

	if v, ok := lookup(ctx, key); ok {
		r.hits.Add(1)
		return v, nil
	}
	r.misses.Add(1)

	v, err := r.load(ctx, input)
	if err != nil {
		return v, err
	}
	r.cache.Set(ctx, key, v, ttl)
	return v, nil
}

// Invalidate drops every cached value.
func (r *ReadThroughCache[K, V, I]) Invalidate(ctx context.Context) error {
	return r.cache.Flush(ctx)
}

// Stats returns the hit and miss counts since creation.
func (r *ReadThroughCache[K, V, I]) Stats() Stats {
	return Stats{Hits: r.hits.Load(), Misses: r.misses.Load()}
}
