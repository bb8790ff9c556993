// Package catalog loads an emoji catalog from YAML and resolves shortcodes
// against it through a read-through in-memory cache.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/rawfmt/internal/cachemanager"
	"github.com/zjrosen/rawfmt/internal/log"
	"github.com/zjrosen/rawfmt/internal/markup"
)

// DefaultTTL is how long a resolved emoji stays cached.
const DefaultTTL = 10 * time.Minute

// ErrNotFound is returned when a shortcode is not in the catalog.
var ErrNotFound = errors.New("emoji not found")

// Entry is one emoji in the catalog file.
//
//	emoji:
//	  - name: smile
//	    unicode: "😄"
//	  - id: e-1024
//	    name: partyparrot
//	    image_url: https://cdn.example.com/partyparrot.gif
type Entry struct {
	ID       string `yaml:"id,omitempty"`
	Name     string `yaml:"name"`
	Unicode  string `yaml:"unicode,omitempty"`
	ImageURL string `yaml:"image_url,omitempty"`
}

type file struct {
	Emoji []Entry `yaml:"emoji"`
}

// Catalog resolves emoji shortcodes. It is safe for concurrent use.
type Catalog struct {
	path string
	ttl  time.Duration

	mu    sync.RWMutex
	index map[string]markup.Emoji

	cache *cachemanager.ReadThroughCache[string, markup.Emoji, string]
}

// Load reads the catalog at path. A non-positive ttl uses DefaultTTL.
func Load(path string, ttl time.Duration) (*Catalog, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from config
	if err != nil {
		return nil, fmt.Errorf("reading emoji catalog: %w", err)
	}
	entries, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	c, err := New(entries, ttl)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	c.path = path
	log.Info(log.CatCatalog, "emoji catalog loaded", "path", path, "entries", len(entries))
	return c, nil
}

// Parse decodes catalog YAML.
func Parse(data []byte) ([]Entry, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing emoji catalog: %w", err)
	}
	return f.Emoji, nil
}

// New builds an in-memory catalog from entries. Every entry needs a valid
// shortcode name and either unicode or image_url; names must be unique.
func New(entries []Entry, ttl time.Duration) (*Catalog, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	index, err := buildIndex(entries)
	if err != nil {
		return nil, err
	}

	c := &Catalog{ttl: ttl, index: index}
	store := cachemanager.NewInMemoryCacheManager[string, markup.Emoji]("emoji", ttl, 2*ttl)
	c.cache = cachemanager.NewReadThroughCache[string, markup.Emoji, string](store, c.load, false)
	return c, nil
}

func buildIndex(entries []Entry) (map[string]markup.Emoji, error) {
	index := make(map[string]markup.Emoji, len(entries))
	for i, e := range entries {
		if _, ok := markup.DeserializeEmoji(":" + e.Name + ":"); !ok {
			return nil, fmt.Errorf("entry %d: invalid name %q", i, e.Name)
		}
		if e.Unicode == "" && e.ImageURL == "" {
			return nil, fmt.Errorf("entry %d (%s): needs unicode or image_url", i, e.Name)
		}
		if _, dup := index[e.Name]; dup {
			return nil, fmt.Errorf("entry %d: duplicate name %q", i, e.Name)
		}
		id := e.ID
		if id == "" {
			id = e.Name
		}
		index[e.Name] = markup.Emoji{EmojiID: id, Name: e.Name, Unicode: e.Unicode, ImageURL: e.ImageURL}
	}
	return index, nil
}

// load runs inside Lookup, which holds c.mu for reading.
func (c *Catalog) load(_ context.Context, name string) (markup.Emoji, error) {
	e, ok := c.index[name]
	if !ok {
		return markup.Emoji{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return e, nil
}

// Lookup returns the catalog entry for name. The read lock is held across
// the cache fill so Reload cannot flush between a load and its store.
func (c *Catalog) Lookup(ctx context.Context, name string) (markup.Emoji, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cache.GetWithRefresh(ctx, name, name, c.ttl)
}

// ResolveEmoji implements editor.EmojiResolver.
func (c *Catalog) ResolveEmoji(name string) (markup.Emoji, bool) {
	e, err := c.Lookup(context.Background(), name)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.ErrorErr(log.CatCatalog, "emoji lookup failed", err, "name", name)
		}
		return markup.Emoji{}, false
	}
	return e, true
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.index)
}

// Stats returns cache hit and miss counts.
func (c *Catalog) Stats() cachemanager.Stats {
	return c.cache.Stats()
}

// Reload re-reads the catalog file and drops cached lookups. On error the
// previous entries stay in effect.
func (c *Catalog) Reload(ctx context.Context) error {
	if c.path == "" {
		return errors.New("catalog was not loaded from a file")
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("reading emoji catalog: %w", err)
	}
	entries, err := Parse(data)
	if err != nil {
		return fmt.Errorf("reloading %s: %w", c.path, err)
	}
	index, err := buildIndex(entries)
	if err != nil {
		return fmt.Errorf("reloading %s: %w", c.path, err)
	}

	c.mu.Lock()
	c.index = index
	err = c.cache.Invalidate(ctx)
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("flushing emoji cache: %w", err)
	}
	log.Info(log.CatCatalog, "emoji catalog reloaded", "path", c.path, "entries", len(index))
	return nil
}

// Path returns the file the catalog was loaded from, if any.
func (c *Catalog) Path() string {
	return c.path
}
