package artifacts

import (
	"context"
	"errors"
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
)

// ErrWatchUnsupported is returned when the registry is not backed by the OS filesystem.
var ErrWatchUnsupported = errors.New("artifacts: watching requires the OS filesystem")

// Watch reloads the registry whenever an artifact file in the directory
// changes. It returns once the watcher is running; watching stops when ctx is
// cancelled.
func (r *Registry) Watch(ctx context.Context) error {
	if _, ok := r.fs.(*afero.OsFs); !ok {
		return ErrWatchUnsupported
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file system watcher: %w", err)
	}
	if err := watcher.Add(r.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", r.dir, err)
	}

	go r.watchFiles(ctx, watcher)
	r.logger.Info("Watching contract artifacts", "dir", r.dir)
	return nil
}

func (r *Registry) watchFiles(ctx context.Context, watcher *fsnotify.Watcher) {
	defer func() {
		watcher.Close()
		r.logger.Info("Artifact watcher stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			r.handleFileEvent(event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			r.logger.Error("Artifact watcher error", "error", err)
		}
	}
}

func (r *Registry) handleFileEvent(event fsnotify.Event) {
	if !isArtifactFile(event.Name) {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	r.logger.Debug("Artifact changed, reloading", "event", event.Op.String(), "path", event.Name)
	if err := r.Load(); err != nil {
		r.logger.Error("Failed to reload artifacts", "error", err)
	}
}
