package csvfile

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow coalesces the event bursts that editors and atomic-rename
// writers emit into a single reload signal.
const debounceWindow = 500 * time.Millisecond

// Watcher signals on its Events channel when either input file changes on
// disk. It watches the parent directories rather than the files themselves:
// atomic renames replace the inode, and a file-level watch would be lost
// after the first swap.
type Watcher struct {
	fsw    *fsnotify.Watcher
	paths  map[string]struct{}
	events chan struct{}
	logger *slog.Logger
}

// NewWatcher creates a Watcher over the given file paths.
func NewWatcher(paths []string, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		fsw:    fsw,
		paths:  make(map[string]struct{}, len(paths)),
		events: make(chan struct{}, 1),
		logger: logger,
	}

	dirs := make(map[string]struct{})
	for _, p := range paths {
		w.paths[filepath.Clean(p)] = struct{}{}
		dirs[filepath.Dir(filepath.Clean(p))] = struct{}{}
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	return w, nil
}

// Events delivers one signal per debounced burst of input-file changes.
// The channel has capacity 1; signals arriving while a reload is pending
// are dropped, which is fine because a reload always reads current state.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Run forwards debounced file-change events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	timer := time.NewTimer(debounceWindow)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if _, watched := w.paths[filepath.Clean(ev.Name)]; !watched {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("input file changed", "path", ev.Name, "op", ev.Op.String())
			timer.Reset(debounceWindow)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", "error", err)

		case <-timer.C:
			select {
			case w.events <- struct{}{}:
			default:
			}
		}
	}
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
