package watcher

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// shouldSkipDirectories are directories that should not be watched.
var shouldSkipDirectories = map[string]bool{
	".git":         true,
	".jj":          true,
	"node_modules": true,
}

const eventChannelBuffer = 100

// Watcher implements file system watching using fsnotify.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	logger    ports.Logger
	events    chan ports.WatchEvent
	stopOnce  sync.Once
}

// NewWatcher creates a new file system watcher. Watch errors are reported to log.
func NewWatcher(log ports.Logger) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create file watcher")
	}
	return &Watcher{
		fsWatcher: watcher,
		logger:    log,
		events:    make(chan ports.WatchEvent, eventChannelBuffer),
	}, nil
}

// Start begins watching the given root directory recursively.
func (w *Watcher) Start(ctx context.Context, root string) error {
	if _, err := os.Stat(root); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to watch source root"), "root", root)
	}

	for dir := range w.watchRecursively(root) {
		if err := w.fsWatcher.Add(dir); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to watch directory"), "path", dir)
		}
	}

	go w.processEvents(ctx)

	return nil
}

// Stop stops the watcher and releases all resources. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		err = w.fsWatcher.Close()
	})
	return err
}

// Events returns an iterator of file system events.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

// watchRecursively walks the directory tree and yields all directories.
func (w *Watcher) watchRecursively(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // Unreadable directories are not watched
			}
			if d.IsDir() {
				if path != root && shouldSkipDirectories[d.Name()] {
					return fs.SkipDir
				}
				if !yield(path) {
					return filepath.SkipAll
				}
			}
			return nil
		})
	}
}

// processEvents converts raw fsnotify events to ports.WatchEvent until ctx ends or the
// watcher is stopped.
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			watchEvent, ok := convertEvent(event)
			if !ok {
				continue
			}

			// New directories are watched before the event is delivered, so files created
			// in them right away are not missed.
			if watchEvent.Operation == ports.OpCreate {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !shouldSkipDirectories[info.Name()] {
					for dir := range w.watchRecursively(event.Name) {
						_ = w.fsWatcher.Add(dir)
					}
				}
			}

			select {
			case w.events <- watchEvent:
			case <-ctx.Done():
				return
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Error(zerr.Wrap(err, "file watcher error"))
			}
		}
	}
}

// convertEvent converts an fsnotify event to a ports.WatchEvent.
// Chmod-only events are dropped.
func convertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	var op ports.WatchOp
	switch {
	case event.Has(fsnotify.Write):
		op = ports.OpWrite
	case event.Has(fsnotify.Create):
		op = ports.OpCreate
	case event.Has(fsnotify.Remove):
		op = ports.OpRemove
	case event.Has(fsnotify.Rename):
		op = ports.OpRename
	default:
		return ports.WatchEvent{}, false
	}
	return ports.WatchEvent{Path: event.Name, Operation: op}, true
}
