// Package cachemanager provides a small generic cache abstraction with an
// in-memory implementation and a read-through wrapper.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager stores values by key with a per-entry time to live.
type CacheManager[K ~string, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	GetMultiple(ctx context.Context, keys []K) (map[K]V, bool)
	GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
	Flush(ctx context.Context) error
	Len() int
}
