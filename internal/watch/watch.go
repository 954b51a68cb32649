// internal/watch/watch.go
package watch

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reports changes to a fixed set of file names inside one directory.
type Watcher struct {
	watcher *fsnotify.Watcher
	names   map[string]bool
	logger  *zap.Logger
}

// New starts watching dir. Only events for the given base names are reported;
// with no names every event is reported.
func New(dir string, names []string, logger *zap.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("adding directory to watcher: %w", err)
	}

	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}

	return &Watcher{
		watcher: w,
		names:   set,
		logger:  logger,
	}, nil
}

// Run calls onChange with the base name of every matching write, create,
// rename or remove until ctx is done.
func (w *Watcher) Run(ctx context.Context, onChange func(name string)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(event.Name)
			if len(w.names) > 0 && !w.names[name] {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				w.logger.Debug("repository file changed",
					zap.String("name", name),
					zap.String("op", event.Op.String()))
				onChange(name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", zap.Error(err))
		}
	}
}

// Close cleans up resources
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
