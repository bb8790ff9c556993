package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type shortcode string

type glyph struct {
	Name    string
	Unicode string
}

func newGlyphCache() *InMemoryCacheManager[shortcode, glyph] {
	return NewInMemoryCacheManager[shortcode, glyph]("glyphs", DefaultExpiration, DefaultCleanupInterval)
}

func TestInMemoryCacheManager_SetGet(t *testing.T) {
	ctx := context.Background()
	cache := newGlyphCache()
	smile := glyph{Name: "smile", Unicode: "😄"}

	cache.Set(ctx, "smile", smile, DefaultExpiration)

	got, ok := cache.Get(ctx, "smile")
	require.True(t, ok)
	require.Equal(t, smile, got)
	require.Equal(t, 1, cache.Len())
}

func TestInMemoryCacheManager_GetMissing(t *testing.T) {
	got, ok := newGlyphCache().Get(context.Background(), "nope")
	require.False(t, ok)
	require.Zero(t, got)
}

func TestInMemoryCacheManager_GetWrongType(t *testing.T) {
	cache := newGlyphCache()
	cache.cache.Set("smile", 123, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "smile")
	require.False(t, ok)
	require.Zero(t, got)
}

func TestInMemoryCacheManager_Expiry(t *testing.T) {
	ctx := context.Background()
	cache := newGlyphCache()
	cache.Set(ctx, "smile", glyph{Name: "smile"}, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		_, ok := cache.Get(ctx, "smile")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestInMemoryCacheManager_GetWithRefresh(t *testing.T) {
	ctx := context.Background()
	cache := newGlyphCache()
	cache.Set(ctx, "smile", glyph{Name: "smile"}, 30*time.Millisecond)

	_, ok := cache.GetWithRefresh(ctx, "smile", time.Hour)
	require.True(t, ok)

	time.Sleep(60 * time.Millisecond)
	_, ok = cache.Get(ctx, "smile")
	require.True(t, ok, "refresh should have extended the ttl")

	_, ok = cache.GetWithRefresh(ctx, "missing", time.Hour)
	require.False(t, ok)
	require.Equal(t, 1, cache.Len())
}

func TestInMemoryCacheManager_GetMultiple(t *testing.T) {
	ctx := context.Background()
	cache := newGlyphCache()

	got, ok := cache.GetMultiple(ctx, nil)
	require.False(t, ok)
	require.Nil(t, got)

	got, ok = cache.GetMultiple(ctx, []shortcode{"a", "b"})
	require.False(t, ok)
	require.Nil(t, got)

	cache.Set(ctx, "a", glyph{Name: "a"}, DefaultExpiration)
	cache.Set(ctx, "b", glyph{Name: "b"}, DefaultExpiration)

	got, ok = cache.GetMultiple(ctx, []shortcode{"a", "b", "c"})
	require.True(t, ok)
	require.Equal(t, map[shortcode]glyph{"a": {Name: "a"}, "b": {Name: "b"}}, got)
}

func TestInMemoryCacheManager_DeleteAndFlush(t *testing.T) {
	ctx := context.Background()
	cache := newGlyphCache()
	cache.Set(ctx, "a", glyph{Name: "a"}, DefaultExpiration)
	cache.Set(ctx, "b", glyph{Name: "b"}, DefaultExpiration)
	cache.Set(ctx, "c", glyph{Name: "c"}, DefaultExpiration)

	require.NoError(t, cache.Delete(ctx))
	require.Equal(t, 3, cache.Len())

	require.NoError(t, cache.Delete(ctx, "a", "b"))
	_, ok := cache.Get(ctx, "a")
	require.False(t, ok)
	require.Equal(t, 1, cache.Len())

	require.NoError(t, cache.Flush(ctx))
	require.Zero(t, cache.Len())
}
