package placement

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/julianstephens/wth/internal/logger"
)

// DefaultDebounce collapses the burst of events an editor save produces.
const DefaultDebounce = 300 * time.Millisecond

// Watch reloads the catalog whenever its file changes until ctx is done. The
// parent directory is watched so atomic replace-by-rename is seen. Watch
// blocks; run it on its own goroutine.
func (c *Catalog) Watch(ctx context.Context, debounce time.Duration) error {
	if c.path == "" {
		<-ctx.Done()
		return nil
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(c.path)); err != nil {
		return err
	}

	log := logger.With("component", "catalog")
	target := filepath.Clean(c.path)

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			log.Debug("Catalog changed", "op", event.Op.String())
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("Catalog watcher error", "error", err)

		case <-timer.C:
			if err := c.Reload(); err != nil {
				log.Warn("Catalog reload failed, keeping previous", "error", err)
			}
		}
	}
}
