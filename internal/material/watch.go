package material

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch reloads the library file at path through p whenever it is written
// or replaced, and swaps the result into store. A reload that fails is
// logged and the previous library stays active. Watch blocks until ctx is
// cancelled.
//
// The parent directory is watched rather than the file so that saves done
// by rename keep being seen.
func Watch(ctx context.Context, path string, p Provider, store *Store, logger *zap.SugaredLogger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	path = filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	logger.Infow("watching material library for changes", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			lib, err := p.Load()
			if err != nil {
				logger.Errorw("material library reload failed, keeping previous library", "path", path, "error", err)
				continue
			}
			store.Replace(lib)
			logger.Infow("material library reloaded", "path", path, "materials", lib.Len())

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Errorw("material library watcher error", "error", err)
		}
	}
}
