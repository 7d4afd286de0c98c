// Package watch monitors the markdown source tree and triggers debounced
// rebuilds when documents change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors a source directory for markdown changes and invokes a
// rebuild callback, coalescing rapid change bursts into a single rebuild.
type Watcher struct {
	root      string
	watcher   *fsnotify.Watcher
	debounce  time.Duration
	onRebuild func(context.Context)
}

// New creates a watcher over root. onRebuild is invoked from the watch loop
// after the debounce window closes.
func New(root string, debounce time.Duration, onRebuild func(context.Context)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to resolve watch root: %w", err)
	}

	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	return &Watcher{
		root:      absRoot,
		watcher:   fsw,
		debounce:  debounce,
		onRebuild: onRebuild,
	}, nil
}

// Start watches the tree until the context is canceled. Directories created
// while watching are added on the fly so new sections are picked up.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addRecursive(w.root); err != nil {
		return err
	}

	slog.Info("Watching source tree", "root", w.root, "debounce", w.debounce.String())

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if event.Op.Has(fsnotify.Create) {
				// New directories must be watched explicitly.
				if err := w.addRecursive(event.Name); err != nil {
					slog.Debug("Failed to watch new path", "path", event.Name, "error", err)
				}
			}
			slog.Debug("Source change detected", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("File watcher error", "error", err)

		case <-timerC:
			timer = nil
			timerC = nil
			w.onRebuild(ctx)
		}
	}
}

// relevant filters events down to markdown content and directory changes.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op.Has(fsnotify.Chmod) {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	if strings.HasSuffix(base, ".md") {
		return true
	}
	// Directory events carry no extension; treat them as relevant so newly
	// created sections trigger a rebuild.
	return filepath.Ext(base) == ""
}

func (w *Watcher) addRecursive(root string) error {
	info, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	return filepath.WalkDir(info, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// The path may have vanished between the event and the walk.
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != info {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

// Close releases the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
