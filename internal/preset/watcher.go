package preset

import (
	"errors"
	"io/fs"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/keybind/internal/input/binding"
	"github.com/dshills/keybind/internal/logging"
)

// Reload describes one preset file change the watcher applied.
type Reload struct {
	// Tag is the preset affected. Empty if the file failed to load.
	Tag string
	// Path is the changed file.
	Path string
	// Removed is true when the preset was unregistered.
	Removed bool
	// Err is set when the file could not be loaded.
	Err error
}

// ReloadHandler is called after each applied change.
type ReloadHandler func(Reload)

// Watcher reloads presets into a catalog when files in a directory change.
// Rapid changes to one file are coalesced.
type Watcher struct {
	catalog *Catalog
	cfg     binding.Config
	dir     string
	delay   time.Duration
	handler ReloadHandler
	logger  *logging.Logger

	fsw *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer
	closed  bool

	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets how long a file must be quiet before it is reloaded.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithReloadHandler sets the function called after each applied change.
func WithReloadHandler(h ReloadHandler) WatcherOption {
	return func(w *Watcher) {
		w.handler = h
	}
}

// WithWatcherLogger sets the watcher's logger.
func WithWatcherLogger(l *logging.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = l
	}
}

// NewWatcher starts watching dir for preset file changes.
func NewWatcher(catalog *Catalog, cfg binding.Config, dir string, opts ...WatcherOption) (*Watcher, error) {
	w := &Watcher{
		catalog: catalog,
		cfg:     cfg,
		dir:     dir,
		delay:   100 * time.Millisecond,
		pending: make(map[string]*time.Timer),
		closeCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = logging.OrNull(w.logger).WithComponent("preset-watcher")

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	w.fsw = fsw

	w.closedWg.Add(1)
	go w.processLoop()

	w.logger.Info("watching %s", dir)
	return w, nil
}

// Close stops the watcher. Pending reloads are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	close(w.closeCh)
	w.mu.Unlock()

	w.closedWg.Wait()
	return w.fsw.Close()
}

func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !IsPresetFile(ev.Name) {
				continue
			}
			if ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Write) ||
				ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename) {
				w.schedule(ev.Name)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error: %v", err)
		}
	}
}

// schedule reloads path once it has been quiet for the debounce delay.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if t, ok := w.pending[path]; ok {
		t.Reset(w.delay)
		return
	}
	w.pending[path] = time.AfterFunc(w.delay, func() {
		w.fire(path)
	})
}

func (w *Watcher) fire(path string) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	delete(w.pending, path)
	w.mu.Unlock()

	w.apply(path)
}

// apply loads or unregisters the preset at path and reports the result.
func (w *Watcher) apply(path string) {
	r := Reload{Path: path}

	if _, err := w.catalog.fs.Stat(path); errors.Is(err, fs.ErrNotExist) {
		tag, ok := w.catalog.RemoveSource(path)
		if !ok {
			return
		}
		r.Tag, r.Removed = tag, true
		w.logger.Info("preset %q removed", tag)
	} else {
		p, err := w.catalog.LoadFile(w.cfg, path)
		if err != nil {
			r.Err = err
			w.logger.Error("reloading %s: %v", path, err)
		} else {
			r.Tag = p.Tag
			w.logger.Info("preset %q reloaded", p.Tag)
		}
	}

	if w.handler != nil {
		w.handler(r)
	}
}
