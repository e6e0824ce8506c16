// Package watch follows one file on disk and reports debounced changes.
//
// Editors often save by writing a temporary file and renaming it over the
// original, which drops a watch placed on the file itself. The watcher
// therefore watches the parent directory and filters events by name.
package watch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/recolor/internal/logging"
)

// Errors returned by the watcher.
var (
	ErrClosed       = errors.New("watcher is closed")
	ErrPathNotExist = errors.New("path does not exist")
	ErrIsDirectory  = errors.New("path is a directory")
)

// DefaultDelay is the default debounce delay.
const DefaultDelay = 100 * time.Millisecond

// Op is a set of file operations.
type Op uint32

// Operations.
const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
)

// Has reports whether op includes o.
func (op Op) Has(o Op) bool {
	return op&o == o
}

// String returns the operations joined by "|".
func (op Op) String() string {
	var parts []string
	for _, p := range []struct {
		op   Op
		name string
	}{{OpCreate, "CREATE"}, {OpWrite, "WRITE"}, {OpRemove, "REMOVE"}, {OpRename, "RENAME"}} {
		if op.Has(p.op) {
			parts = append(parts, p.name)
		}
	}
	if len(parts) == 0 {
		return "NONE"
	}
	return strings.Join(parts, "|")
}

func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	if fsOp.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if fsOp.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if fsOp.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if fsOp.Has(fsnotify.Rename) {
		op |= OpRename
	}
	return op
}

// Event is a debounced change to the watched file. Op combines every
// operation seen during the delay window.
type Event struct {
	Path string
	Op   Op
	Time time.Time
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDelay sets the debounce delay.
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// Watcher reports changes to a single file.
type Watcher struct {
	fsw    *fsnotify.Watcher
	path   string
	delay  time.Duration
	logger *logging.Logger

	events chan Event
	errors chan error

	mu      sync.Mutex
	pending Op
	timer   *time.Timer
	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// New starts watching path, which must be an existing regular file.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrPathNotExist, path)
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		fsw:     fsw,
		path:    abs,
		delay:   DefaultDelay,
		logger:  logging.Default().WithComponent("watch"),
		events:  make(chan Event, 16),
		errors:  make(chan error, 16),
		closeCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Events returns the debounced event channel. It is closed by Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the error channel. It is closed by Close.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.closeCh:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if op := convertOp(ev.Op); op != 0 {
				w.logger.Debug("%s %s", op, ev.Name)
				w.schedule(op)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
				w.logger.Warn("dropped watch error: %v", err)
			}
		}
	}
}

// schedule coalesces op into the pending event and restarts the delay.
func (w *Watcher) schedule(op Op) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	w.pending |= op
	if w.timer != nil {
		w.timer.Reset(w.delay)
		return
	}
	w.timer = time.AfterFunc(w.delay, w.fire)
}

// fire delivers the pending event. The send happens under w.mu so Close
// cannot close the channel while it is in progress.
func (w *Watcher) fire() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || w.pending == 0 {
		return
	}
	ev := Event{Path: w.path, Op: w.pending, Time: time.Now()}
	w.pending = 0
	w.timer = nil

	select {
	case w.events <- ev:
	default:
		w.logger.Warn("dropped change event for %s", w.path)
	}
}

// Flush delivers the pending event at once.
func (w *Watcher) Flush() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	w.fire()
}

// Close stops watching and closes both channels.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.closeCh)
	w.mu.Unlock()

	w.wg.Wait()
	close(w.events)
	close(w.errors)
	return w.fsw.Close()
}
