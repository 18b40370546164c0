// Package watch reports writes to a set of files until its context is cancelled.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Files monitors paths and calls onChange with the cleaned path each time one
// of them is written or recreated. It runs until ctx is cancelled.
//
// The parent directories are watched rather than the files, so a save that
// renames a temp file over the target keeps being reported.
//
// onChange runs on the watcher goroutine; a slow callback delays later events.
func Files(ctx context.Context, paths []string, onChange func(path string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	watched := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		clean := filepath.Clean(p)
		if _, err := os.Stat(clean); err != nil {
			return err
		}
		watched[clean] = true

		dir := filepath.Dir(clean)
		if !dirs[dir] {
			if err := watcher.Add(dir); err != nil {
				return err
			}
			dirs[dir] = true
		}
		slog.Info("watch: watching for changes", "path", clean)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// A rename over the target arrives as Create on its name.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Clean(event.Name)
			if !watched[name] {
				continue
			}

			slog.Debug("watch: change detected", "path", name, "op", event.Op.String())
			onChange(name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("watch: watcher error", "err", err)
		}
	}
}
