// Package watcher reloads the configuration file when it changes on disk.
//
// The watcher observes the file's directory rather than the file itself so
// that editors which save by writing a temp file and renaming it over the
// original are picked up. Bursts of events are coalesced into one reload.
package watcher

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/pauseclick/internal/logging"
)

// DefaultDebounce is how long the watcher waits for a burst of events to
// settle before reloading.
const DefaultDebounce = 100 * time.Millisecond

// ErrWatcherClosed is returned by Start after Close.
var ErrWatcherClosed = errors.New("watcher closed")

// Operation represents the type of file operation.
type Operation int

const (
	// OpWrite indicates the file was modified.
	OpWrite Operation = iota

	// OpCreate indicates a new file was created.
	OpCreate

	// OpRemove indicates the file was deleted.
	OpRemove

	// OpRename indicates the file was renamed.
	OpRename
)

// String returns the operation name.
func (op Operation) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Reloader installs a config file. *config.Store satisfies it. A failed
// load must leave the previous layer in place.
type Reloader interface {
	LoadFile(path string) error
}

// ReloadEvent reports one reload attempt.
type ReloadEvent struct {
	// Path is the absolute path to the config file.
	Path string

	// Op is the last operation seen before the reload.
	Op Operation

	// Err is the load error, if any. The previous layer stays active.
	Err error

	// Time is when the reload ran.
	Time time.Time
}

// Handler is called after every reload attempt.
type Handler func(event ReloadEvent)

// Watcher reloads one config file on change.
type Watcher struct {
	mu sync.Mutex

	path   string
	target Reloader
	logger *logging.Logger

	handlers []Handler
	debounce time.Duration
	pending  *time.Timer
	lastOp   Operation

	fsw     *fsnotify.Watcher
	running bool
	closed  bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce duration for rapid changes. Zero reloads on
// every event.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(w *Watcher) {
		w.logger = l
	}
}

// New creates a watcher for path. Call Start to begin watching.
func New(path string, target Reloader, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		target:   target,
		debounce: DefaultDebounce,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = logging.OrNull(w.logger).WithComponent("watcher")
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// OnReload registers a handler for reload events.
func (w *Watcher) OnReload(handler Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, handler)
}

// Start begins watching. The file does not need to exist yet, but its
// directory does.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if w.running {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		_ = fsw.Close()
		return err
	}

	w.fsw = fsw
	w.running = true
	w.wg.Add(1)
	go w.loop(fsw)

	w.logger.Debug("watching %s", w.path)
	return nil
}

// IsRunning returns whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Reload loads the file now and notifies handlers.
func (w *Watcher) Reload() ReloadEvent {
	w.mu.Lock()
	op := w.lastOp
	w.mu.Unlock()
	return w.reload(op)
}

// Close stops watching. Pending reloads are dropped. It is safe to call
// Close multiple times.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.running = false
	if w.pending != nil {
		w.pending.Stop()
	}
	fsw := w.fsw
	close(w.done)
	w.mu.Unlock()

	w.wg.Wait()
	if fsw != nil {
		return fsw.Close()
	}
	return nil
}

func (w *Watcher) loop(fsw *fsnotify.Watcher) {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			op, ok := convertOp(ev.Op)
			if !ok {
				continue
			}
			w.schedule(op)

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error: %v", err)
		}
	}
}

func (w *Watcher) schedule(op Operation) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	w.lastOp = op

	if w.debounce == 0 {
		go w.reload(op)
		return
	}
	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		closed := w.closed
		last := w.lastOp
		w.mu.Unlock()
		if !closed {
			w.reload(last)
		}
	})
}

func (w *Watcher) reload(op Operation) ReloadEvent {
	err := w.target.LoadFile(w.path)
	if err != nil {
		w.logger.Warn("reload of %s failed, keeping previous settings: %v", w.path, err)
	} else {
		w.logger.Info("reloaded %s after %s", w.path, op)
	}

	event := ReloadEvent{Path: w.path, Op: op, Err: err, Time: time.Now()}

	w.mu.Lock()
	handlers := make([]Handler, len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.Unlock()

	for _, h := range handlers {
		h(event)
	}
	return event
}

// convertOp maps an fsnotify op to the operation that matters for a reload.
// Chmod alone is ignored.
func convertOp(op fsnotify.Op) (Operation, bool) {
	switch {
	case op.Has(fsnotify.Remove):
		return OpRemove, true
	case op.Has(fsnotify.Rename):
		return OpRename, true
	case op.Has(fsnotify.Create):
		return OpCreate, true
	case op.Has(fsnotify.Write):
		return OpWrite, true
	}
	return 0, false
}
