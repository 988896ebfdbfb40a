// Package watch re-runs a handler whenever a settings file changes.
package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = 300 * time.Millisecond

// Handler is called after the watched file settles. Calls never overlap.
type Handler func(ctx context.Context, path string)

// Watcher watches one file. The parent directory is watched rather than the file
// itself so atomic replace-by-rename writes keep being observed.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
	handler  Handler
}

// New returns a Watcher for path. A non-positive debounce selects DefaultDebounce;
// a nil logger discards output.
func New(path string, debounce time.Duration, logger *slog.Logger, handler Handler) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve watch path %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Watcher{path: abs, debounce: debounce, logger: logger, handler: handler}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Run blocks until ctx is done, invoking the handler once per burst of changes.
// started, when non-nil, is closed once the underlying watch is registered.
func (w *Watcher) Run(ctx context.Context, started chan<- struct{}) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	w.logger.Info("settings watcher started", "path", w.path, "debounce", w.debounce)
	if started != nil {
		close(started)
	}

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("settings watcher stopped", "path", w.path)
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("settings file event", "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.handler(ctx, w.path)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("settings watcher error", "error", err)
		}
	}
}
