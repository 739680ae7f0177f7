// Package watch reloads the state file whenever it changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"turnavg/internal/record"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Stats counts watcher activity.
type Stats struct {
	Events  int
	Reloads int
	Errors  int
}

// Watcher follows one state file. It watches the parent directory because
// editors and atomic writers replace the file instead of writing it in place.
type Watcher struct {
	store    *record.Store
	path     string
	debounce time.Duration
	logger   *zap.Logger
	ready    chan struct{}

	mu    sync.Mutex
	stats Stats
}

// New returns a watcher for the store's state file.
func New(store *record.Store, debounce time.Duration, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = 10 * time.Millisecond
	}
	return &Watcher{
		store:    store,
		path:     filepath.Clean(store.Path()),
		debounce: debounce,
		logger:   logger,
		ready:    make(chan struct{}),
	}
}

// Ready is closed once the directory watch is registered.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Stats returns a snapshot of the counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// Run blocks until ctx is done, calling onChange with each reloaded record.
// Unreadable or invalid states are logged and skipped.
func (w *Watcher) Run(ctx context.Context, onChange func(record.Record)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.logger.Debug("watching state file", zap.String("path", w.path))
	close(w.ready)

	ticker := time.NewTicker(w.tick())
	defer ticker.Stop()

	var pending time.Time
	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("watch stopped", zap.Error(ctx.Err()))
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			w.mu.Lock()
			w.stats.Events++
			w.mu.Unlock()
			pending = time.Now()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case now := <-ticker.C:
			if pending.IsZero() || now.Sub(pending) < w.debounce {
				continue
			}
			pending = time.Time{}
			w.reload(ctx, onChange)
		}
	}
}

func (w *Watcher) reload(ctx context.Context, onChange func(record.Record)) {
	rec, err := w.store.Load(ctx)
	if err != nil {
		w.logger.Warn("reload failed", zap.String("path", w.path), zap.Error(err))
		w.mu.Lock()
		w.stats.Errors++
		w.mu.Unlock()
		return
	}

	w.mu.Lock()
	w.stats.Reloads++
	w.mu.Unlock()

	w.logger.Debug("state reloaded", zap.Int64("amount", rec.Amount), zap.Int64("total", rec.Total))
	onChange(rec)
}

// tick polls at a quarter of the debounce window, bounded to [5ms, 100ms].
func (w *Watcher) tick() time.Duration {
	d := w.debounce / 4
	if d < 5*time.Millisecond {
		d = 5 * time.Millisecond
	}
	if d > 100*time.Millisecond {
		d = 100 * time.Millisecond
	}
	return d
}
