package catalog

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/rawfmt/internal/editor"
	"github.com/zjrosen/rawfmt/internal/markup"
)

const sampleCatalog = `emoji:
  - name: smile
    unicode: "😄"
  - id: e-1024
    name: partyparrot
    image_url: https://cdn.example.com/partyparrot.gif
`

var _ editor.EmojiResolver = (*Catalog)(nil)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "emoji.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	c, err := Load(writeCatalog(t, sampleCatalog), time.Minute)
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	e, err := c.Lookup(context.Background(), "smile")
	require.NoError(t, err)
	require.Equal(t, markup.Emoji{EmojiID: "smile", Name: "smile", Unicode: "😄"}, e)

	e, err = c.Lookup(context.Background(), "partyparrot")
	require.NoError(t, err)
	require.Equal(t, "e-1024", e.EmojiID)
	require.Equal(t, "https://cdn.example.com/partyparrot.gif", e.ImageURL)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "emoji: [", "parsing emoji catalog"},
		{"invalid name", "emoji:\n  - name: 1abc\n    unicode: x\n", "invalid name"},
		{"no glyph", "emoji:\n  - name: smile\n", "needs unicode or image_url"},
		{"duplicate", "emoji:\n  - name: a\n    unicode: x\n  - name: a\n    unicode: y\n", "duplicate name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeCatalog(t, tt.content), 0)
			require.ErrorContains(t, err, tt.wantErr)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), 0)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLookup_NotFound(t *testing.T) {
	c, err := New([]Entry{{Name: "smile", Unicode: "😄"}}, 0)
	require.NoError(t, err)

	_, err = c.Lookup(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)

	_, ok := c.ResolveEmoji("nope")
	require.False(t, ok)
}

func TestLookup_Cached(t *testing.T) {
	c, err := New([]Entry{{Name: "smile", Unicode: "😄"}}, 0)
	require.NoError(t, err)

	for range 3 {
		_, ok := c.ResolveEmoji("smile")
		require.True(t, ok)
	}
	stats := c.Stats()
	require.EqualValues(t, 1, stats.Misses)
	require.EqualValues(t, 2, stats.Hits)
}

func TestReload(t *testing.T) {
	path := writeCatalog(t, sampleCatalog)
	c, err := Load(path, time.Minute)
	require.NoError(t, err)
	require.Equal(t, path, c.Path())

	_, ok := c.ResolveEmoji("smile")
	require.True(t, ok)

	require.NoError(t, os.WriteFile(path, []byte("emoji:\n  - name: smile\n    unicode: \"🙂\"\n"), 0o644))
	require.NoError(t, c.Reload(context.Background()))
	require.Equal(t, 1, c.Len())

	e, ok := c.ResolveEmoji("smile")
	require.True(t, ok)
	require.Equal(t, "🙂", e.Unicode)

	_, ok = c.ResolveEmoji("partyparrot")
	require.False(t, ok)

	// a broken file keeps the previous entries
	require.NoError(t, os.WriteFile(path, []byte("emoji: ["), 0o644))
	require.Error(t, c.Reload(context.Background()))
	require.Equal(t, 1, c.Len())
}

func TestReload_ConcurrentLookupsSeeNewEntries(t *testing.T) {
	path := writeCatalog(t, sampleCatalog)
	c, err := Load(path, time.Minute)
	require.NoError(t, err)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					c.ResolveEmoji("smile")
				}
			}
		}()
	}

	for i, unicode := range []string{"🙂", "😀", "😁", "😃"} {
		content := "emoji:\n  - name: smile\n    unicode: \"" + unicode + "\"\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		require.NoError(t, c.Reload(context.Background()))

		e, err := c.Lookup(context.Background(), "smile")
		require.NoError(t, err)
		require.Equal(t, unicode, e.Unicode, "reload %d", i)
	}

	close(stop)
	wg.Wait()
}

func TestReload_NotFromFile(t *testing.T) {
	c, err := New(nil, 0)
	require.NoError(t, err)
	require.Error(t, c.Reload(context.Background()))
}

func TestResolveThroughEditor(t *testing.T) {
	c, err := New([]Entry{{Name: "smile", Unicode: "😄"}}, 0)
	require.NoError(t, err)

	root := editor.ParseRaw("hi :smile: :nope:", editor.WithEmojiResolver(c))
	require.Equal(t, "hi 😄 :nope:", editor.TreeToPlain(root))
	require.Equal(t, "hi :smile: :nope:", editor.TreeToRaw(root))
}
