package file

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/leadsheet/internal/logger"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 250 * time.Millisecond

// Watcher calls a reload function when the config file changes on disk.
// The parent directory is watched because editors often replace the file
// instead of writing it in place.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func()
}

// NewWatcher creates a watcher for the store's file.
func NewWatcher(store *ConfigStore, onChange func()) *Watcher {
	return &Watcher{
		path:     filepath.Clean(store.Path()),
		debounce: DefaultDebounce,
		onChange: onChange,
	}
}

// Run blocks until ctx is cancelled, calling onChange once per burst of
// create/write/rename events on the file.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	logger.Debug("config: watching %s", w.path)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher: %v", err)

		case <-timer.C:
			logger.Info("config: %s changed, reloading", w.path)
			w.onChange()
		}
	}
}
