// Package watch notifies the client when another process writes the
// cache database, so the REPL can re-read its collections.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 300 * time.Millisecond

// CacheWatcher watches the cache database file and emits one
// notification per burst of writes. SQLite touches the main file and
// its -wal/-journal siblings on every transaction, so raw events are
// debounced before they reach the consumer.
type CacheWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	changes  chan struct{}
}

// NewCacheWatcher watches the directory containing path. Watching the
// directory instead of the file keeps the watch alive across the
// rename-and-replace writes SQLite may perform.
func NewCacheWatcher(path string) (*CacheWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher error: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s error: %w", filepath.Dir(abs), err)
	}

	return &CacheWatcher{
		watcher:  w,
		path:     abs,
		debounce: defaultDebounce,
		changes:  make(chan struct{}, 1),
	}, nil
}

// Changes emits one value per burst of cache writes.
func (cw *CacheWatcher) Changes() <-chan struct{} {
	return cw.changes
}

// Run processes events until ctx is cancelled.
func (cw *CacheWatcher) Run(ctx context.Context) {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if !cw.matches(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(cw.debounce)
				fire = timer.C
			} else {
				timer.Reset(cw.debounce)
			}

		case <-fire:
			timer, fire = nil, nil
			select {
			case cw.changes <- struct{}{}:
			default:
				// a notification is already pending
			}

		case _, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// Close stops the underlying watcher.
func (cw *CacheWatcher) Close() error {
	return cw.watcher.Close()
}

func (cw *CacheWatcher) matches(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Clean(event.Name)
	return name == cw.path || name == cw.path+"-wal" || name == cw.path+"-journal"
}
