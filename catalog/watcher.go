package catalog

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/optiview/partbench/errors"
	"github.com/optiview/partbench/logger"
)

// ReloadCallback is called with the freshly loaded document whenever the
// watched catalog file changes.
type ReloadCallback func(*Document)

// Watcher watches a catalog file for changes and reloads it. Rapid
// successive writes are debounced so a save from an editor that touches
// the file several times produces one reload.
type Watcher struct {
	path           string
	watcher        *fsnotify.Watcher
	callbacks      []ReloadCallback
	mu             sync.RWMutex
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
}

// NewWatcher creates a watcher for the given catalog file
func NewWatcher(path string) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, errors.Wrapf(err, "failed to watch catalog file %s", path)
	}

	w := &Watcher{
		path:           path,
		watcher:        watcher,
		callbacks:      make([]ReloadCallback, 0),
		debouncePeriod: 500 * time.Millisecond,
	}

	return w, nil
}

// OnReload registers a callback to run after each successful reload
func (w *Watcher) OnReload(callback ReloadCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start begins watching for catalog file changes
func (w *Watcher) Start() {
	go w.watchLoop()
}

// Close stops watching. Pending debounced reloads are cancelled.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

// watchLoop monitors file system events
func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// Only reload on Write or Create events
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				logger.Debugw("Catalog watcher detected change",
					"file", event.Name,
					"op", event.Op.String())
				w.scheduleReload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnw("Catalog watcher error", "error", err)
		}
	}
}

// scheduleReload debounces rapid changes before reloading
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debouncePeriod, w.reload)
}

// reload loads the catalog file and notifies callbacks
func (w *Watcher) reload() {
	doc, err := LoadFile(w.path)
	if err != nil {
		logger.Warnw("Failed to reload catalog after change",
			"file", w.path,
			"error", err)
		return
	}

	logger.Infow("Catalog reloaded",
		"file", w.path,
		"parts", len(doc.Parts))

	w.mu.RLock()
	callbacks := make([]ReloadCallback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.RUnlock()

	for _, callback := range callbacks {
		callback(doc)
	}
}
