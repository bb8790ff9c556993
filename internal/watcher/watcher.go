// Package watcher reports debounced changes to a set of files. Editors
// usually save by writing a temp file and renaming it over the original,
// so the parent directories are watched and events filtered by name.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/rawfmt/internal/log"
	"github.com/zjrosen/rawfmt/internal/pubsub"
)

// DefaultDebounce is the quiet period before a change is reported.
const DefaultDebounce = 200 * time.Millisecond

// Change lists the watched files modified during one debounce window.
type Change struct {
	Paths []string
}

// Config holds watcher configuration options.
type Config struct {
	Paths    []string
	Debounce time.Duration
}

// DefaultConfig watches paths with DefaultDebounce.
func DefaultConfig(paths ...string) Config {
	return Config{Paths: paths, Debounce: DefaultDebounce}
}

// Watcher publishes a Change after writes to any watched file settle.
type Watcher struct {
	fs       *fsnotify.Watcher
	files    map[string]struct{}
	dirs     []string
	debounce time.Duration
	broker   *pubsub.Broker[Change]

	started  atomic.Bool
	stopOnce sync.Once
	done     chan struct{}
	exited   chan struct{}
}

// New creates a watcher for cfg.Paths.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Paths) == 0 {
		return nil, fmt.Errorf("watcher: no paths")
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	files := make(map[string]struct{}, len(cfg.Paths))
	var dirs []string
	for _, p := range cfg.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		files[abs] = struct{}{}
		if dir := filepath.Dir(abs); !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	return &Watcher{
		fs:       fsw,
		files:    files,
		dirs:     dirs,
		debounce: debounce,
		broker:   pubsub.NewBroker[Change](),
		done:     make(chan struct{}),
		exited:   make(chan struct{}),
	}, nil
}

// Subscribe returns a channel of changes that closes when ctx is done or
// the watcher stops.
func (w *Watcher) Subscribe(ctx context.Context) <-chan pubsub.Event[Change] {
	return w.broker.Subscribe(ctx)
}

// Start begins watching. Subscribe before calling Start to see every
// change.
func (w *Watcher) Start() error {
	for _, dir := range w.dirs {
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("watching directory %s: %w", dir, err)
		}
	}
	log.Debug(log.CatWatcher, "watching", "files", len(w.files), "debounce", w.debounce)
	w.started.Store(true)
	go w.loop()
	return nil
}

// Stop terminates the watcher and closes all subscriptions.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fs.Close()
		if w.started.Load() {
			<-w.exited
		}
		w.broker.Close()
	})
	return err
}

func (w *Watcher) loop() {
	defer close(w.exited)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	pending := make(map[string]struct{})
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			path, relevant := w.relevant(ev)
			if !relevant {
				continue
			}
			pending[path] = struct{}{}
			timer.Reset(w.debounce)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			change := Change{Paths: make([]string, 0, len(pending))}
			for p := range pending {
				change.Paths = append(change.Paths, p)
			}
			slices.Sort(change.Paths)
			clear(pending)
			log.Debug(log.CatWatcher, "files changed", "paths", change.Paths)
			w.broker.Publish(pubsub.FilesChangedEvent, change)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "watch error", err)

		case <-w.done:
			return
		}
	}
}

// relevant reports whether ev touches a watched file and returns its
// absolute path.
func (w *Watcher) relevant(ev fsnotify.Event) (string, bool) {
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
		return "", false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return "", false
	}
	_, ok := w.files[abs]
	return abs, ok
}
