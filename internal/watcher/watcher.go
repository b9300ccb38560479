// Package watcher keeps the project set and stats cache fresh by watching
// the logs root for filesystem changes.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ErrWatcherFailed indicates the filesystem watcher failed to initialize.
var ErrWatcherFailed = errors.New("failed to initialize filesystem watcher")

// debounceDelay coalesces bursts of root-level events into one refresh.
const debounceDelay = 250 * time.Millisecond

// Watcher watches the logs root. Added or removed project directories
// trigger a refresh; writes inside a project directory invalidate that
// project's cached stats.
type Watcher struct {
	root       string
	refresh    func(ctx context.Context) error
	invalidate func(logPath string)
	logger     *zap.Logger

	watcher *fsnotify.Watcher
	stop    chan struct{}

	mu           sync.Mutex
	refreshTimer *time.Timer
}

// New creates a watcher for the logs root. refresh rescans projects,
// invalidate drops a project's cached stats.
func New(root string, refresh func(ctx context.Context) error, invalidate func(logPath string), logger *zap.Logger) (*Watcher, error) {
	if root == "" {
		return nil, fmt.Errorf("logs root cannot be empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatcherFailed, err)
	}

	return &Watcher{
		root:       root,
		refresh:    refresh,
		invalidate: invalidate,
		logger:     logger,
		watcher:    fsw,
		stop:       make(chan struct{}),
	}, nil
}

// Start begins watching. Existing project directories are watched so that
// stats file changes invalidate their cache entries.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(w.root); err != nil {
		return fmt.Errorf("watching logs root %s: %w", w.root, err)
	}

	entries, err := os.ReadDir(w.root)
	if err != nil {
		return fmt.Errorf("reading logs root: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			// A dropped per-project watch only delays invalidation.
			_ = w.watcher.Add(filepath.Join(w.root, entry.Name()))
		}
	}

	go w.processEvents(ctx)
	return nil
}

// Stop stops the watcher and releases its resources.
func (w *Watcher) Stop() {
	select {
	case <-w.stop:
		// Already stopped.
	default:
		close(w.stop)
	}
	_ = w.watcher.Close()

	w.mu.Lock()
	if w.refreshTimer != nil {
		w.refreshTimer.Stop()
	}
	w.mu.Unlock()
}

func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if filepath.Dir(event.Name) == w.root {
		// Root-level change: a project directory appeared or vanished.
		if event.Op.Has(fsnotify.Create) {
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				_ = w.watcher.Add(event.Name)
			}
		}
		if event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename) {
			w.logger.Debug("logs root changed", zap.String("path", event.Name))
			w.scheduleRefresh(ctx)
		}
		return
	}

	// Change inside a project directory: its cached stats are stale.
	logPath := filepath.Dir(event.Name)
	w.logger.Debug("project logs changed",
		zap.String("log_path", logPath),
		zap.String("file", filepath.Base(event.Name)))
	if w.invalidate != nil {
		w.invalidate(logPath)
	}
}

func (w *Watcher) scheduleRefresh(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.refreshTimer != nil {
		w.refreshTimer.Stop()
	}
	w.refreshTimer = time.AfterFunc(debounceDelay, func() {
		if ctx.Err() != nil {
			return
		}
		if err := w.refresh(ctx); err != nil {
			w.logger.Warn("refresh after filesystem change failed", zap.Error(err))
		}
	})
}
