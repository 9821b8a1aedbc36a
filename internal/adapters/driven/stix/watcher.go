package stix

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/stixnav/internal/core/domain"
	"github.com/custodia-labs/stixnav/internal/core/ports/driven"
	"github.com/custodia-labs/stixnav/internal/logger"
)

const (
	// defaultSettle is how long a burst of writes must be quiet before reloading.
	defaultSettle = 200 * time.Millisecond

	// minReloadInterval caps how often a large bundle is decoded again.
	minReloadInterval = time.Second
)

// Watcher re-decodes a bundle file when it changes on disk and replaces the
// snapshot in the domain store.
type Watcher struct {
	path      string
	versionID string
	decoder   driven.BundleDecoder
	store     driven.DomainStore

	fs       *fsnotify.Watcher
	limiter  *rate.Limiter
	settle   time.Duration
	onReload func(*domain.Domain, error)
}

// NewWatcher starts watching the directory holding path. Editors that save by
// renaming a temp file over the original still produce an event this way.
func NewWatcher(
	path, versionID string,
	decoder driven.BundleDecoder,
	store driven.DomainStore,
) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(absPath), err)
	}

	return &Watcher{
		path:      absPath,
		versionID: versionID,
		decoder:   decoder,
		store:     store,
		fs:        fsw,
		limiter:   rate.NewLimiter(rate.Every(minReloadInterval), 1),
		settle:    defaultSettle,
	}, nil
}

// WithSettle overrides the quiet period before a reload.
func (w *Watcher) WithSettle(d time.Duration) *Watcher {
	if d > 0 {
		w.settle = d
	}
	return w
}

// OnReload registers a callback run after every reload attempt.
// It runs on the watcher goroutine.
func (w *Watcher) OnReload(fn func(*domain.Domain, error)) {
	w.onReload = fn
}

// Run processes file events until ctx is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	var settle *time.Timer
	var settleC <-chan time.Time
	defer func() {
		if settle != nil {
			settle.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if settle == nil {
				settle = time.NewTimer(w.settle)
			} else {
				settle.Reset(w.settle)
			}
			settleC = settle.C

		case <-settleC:
			settleC = nil
			if err := w.limiter.Wait(ctx); err != nil {
				return nil
			}
			w.reload()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			logger.Warn("bundle watcher: %v", err)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create) != 0
}

func (w *Watcher) reload() {
	d, err := w.load()
	if err != nil {
		logger.Warn("reloading %s: %v", w.path, err)
	} else {
		logger.Info("Reloaded %s (%d techniques)", w.versionID, len(d.AllTechniques()))
	}
	if w.onReload != nil {
		w.onReload(d, err)
	}
}

func (w *Watcher) load() (*domain.Domain, error) {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}
	d, err := w.decoder.Decode(data, w.versionID)
	if err != nil {
		return nil, err
	}
	if err := w.store.Put(d); err != nil {
		return nil, err
	}
	return d, nil
}
