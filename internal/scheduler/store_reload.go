package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/linonon/aibookmarks/internal/logger"
)

// DefaultSettleDelay is how long the store file must stay quiet before a
// reload, so a burst of writes triggers a single reload.
const DefaultSettleDelay = 150 * time.Millisecond

// Reloadable is the part of the store the reloader drives.
type Reloadable interface {
	Reload(ctx context.Context) error
	ResetToDefault()
}

// StoreReloader reloads a store when its backing file changes on disk or
// when a manual reload is requested.
type StoreReloader struct {
	store  Reloadable
	path   string
	watch  bool
	settle time.Duration
	logger logger.Logger

	manualTrigger chan struct{}
	stopCh        chan struct{}
	done          chan struct{}
	stopOnce      sync.Once

	watcher *fsnotify.Watcher
}

// NewStoreReloader creates a reloader for the store file at path. With watch
// disabled only manual triggers cause reloads.
func NewStoreReloader(
	store Reloadable,
	path string,
	watch bool,
	settle time.Duration,
	log logger.Logger,
	manualTrigger chan struct{},
) *StoreReloader {
	if settle <= 0 {
		settle = DefaultSettleDelay
	}
	return &StoreReloader{
		store:         store,
		path:          filepath.Clean(path),
		watch:         watch,
		settle:        settle,
		logger:        log,
		manualTrigger: manualTrigger,
		stopCh:        make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Start sets up the file watch and begins processing events.
func (r *StoreReloader) Start(ctx context.Context) error {
	var events <-chan fsnotify.Event
	var watchErrs <-chan error

	if r.watch {
		w, err := r.newWatcher()
		if err != nil {
			return err
		}
		r.watcher = w
		events, watchErrs = w.Events, w.Errors
		r.logger.Info("watching store file",
			logger.String("file", r.path),
			logger.Duration("settle", r.settle))
	}

	go r.loop(ctx, events, watchErrs)
	return nil
}

// Stop ends event processing and releases the watch.
func (r *StoreReloader) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopCh)
		<-r.done
		if r.watcher != nil {
			if err := r.watcher.Close(); err != nil {
				r.logger.Warn("failed to close store file watcher", logger.Error(err))
			}
		}
	})
}

// newWatcher watches the parent directory, since editors and our own
// persister replace the file rather than writing it in place.
func (r *StoreReloader) newWatcher() (*fsnotify.Watcher, error) {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	return w, nil
}

func (r *StoreReloader) loop(ctx context.Context, events <-chan fsnotify.Event, watchErrs <-chan error) {
	defer close(r.done)

	settle := time.NewTimer(r.settle)
	if !settle.Stop() {
		<-settle.C
	}
	defer settle.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if filepath.Clean(ev.Name) != r.path {
				continue
			}
			switch {
			case ev.Has(fsnotify.Write), ev.Has(fsnotify.Create):
				settle.Reset(r.settle)
			case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
				settle.Stop()
				r.handleRemoval()
			}

		case err, ok := <-watchErrs:
			if !ok {
				watchErrs = nil
				continue
			}
			r.logger.Warn("store file watcher error", logger.Error(err))

		case <-settle.C:
			r.reload(ctx, "store file changed")

		case <-r.manualTrigger:
			r.reload(ctx, "manual store reload triggered")

		case <-r.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (r *StoreReloader) reload(ctx context.Context, reason string) {
	r.logger.Debug(reason, logger.String("file", r.path))
	if err := r.store.Reload(ctx); err != nil {
		r.logger.Error("failed to reload store", logger.Error(err))
	}
}

// handleRemoval resets the store when the file is really gone. A rename
// away followed by a new file at the same path shows up as a Create.
func (r *StoreReloader) handleRemoval() {
	if _, err := os.Stat(r.path); errors.Is(err, fs.ErrNotExist) {
		r.store.ResetToDefault()
	}
}
