package highlight

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/dshills/recolor/internal/engine/buffer"
	"github.com/dshills/recolor/internal/lexer"
)

// Engine keeps a style sink in step with a buffer.
//
// The engine subscribes to the buffer. Every change renumbers the restart
// index at once and queues damage; passes then repair the damage in FIFO
// order. In inline mode passes run to completion inside the change
// notification. In worker mode they run in slices from Run, Step or
// Drain, each slice holding the buffer's read lock, and edits that land
// between slices are folded into the suspended pass.
//
// Locks are always taken buffer first, engine second. Engine methods must
// not be called from a buffer listener or a diagnostic handler.
type Engine struct {
	mu   sync.Mutex
	buf  *buffer.Buffer
	proc *Processor
	cfg  config

	unsubscribe func()
	wake        chan struct{}
	done        chan struct{}
	running     atomic.Bool
	closed      bool
}

// New attaches an engine to buf. Existing content is colored at once in
// inline mode and on the first slice in worker mode. A Layer sink must be
// created with the buffer's current length.
func New(buf *buffer.Buffer, tok lexer.Tokenizer, sink StyleSink, opts ...Option) *Engine {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Engine{
		buf:  buf,
		proc: newProcessor(tok, sink, cfg),
		cfg:  cfg,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	e.unsubscribe = buf.Subscribe(e.onEdit)

	buf.View(func(t buffer.Text) {
		if t.Len() == 0 {
			return
		}
		e.mu.Lock()
		defer e.mu.Unlock()
		e.proc.Invalidate(t.Len())
		e.drainInline(t)
	})
	e.signal()

	e.cfg.logger.Debug("attached %s tokenizer in %s mode", tok.Language(), cfg.mode)
	return e
}

// Mode returns the engine mode.
func (e *Engine) Mode() Mode {
	return e.cfg.mode
}

// Tokenizer returns the engine's tokenizer.
func (e *Engine) Tokenizer() lexer.Tokenizer {
	return e.proc.Tokenizer()
}

// onEdit is the buffer listener. It runs under the buffer's write lock.
func (e *Engine) onEdit(ch buffer.Change, view buffer.Text) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.proc.Edited(ch.Offset, ch.Delta)
	e.drainInline(view)
	e.signal()
}

func (e *Engine) drainInline(t buffer.Text) {
	if e.cfg.mode == ModeInline {
		e.proc.Rescan(t, 0)
	}
}

// signal wakes Run without blocking.
func (e *Engine) signal() {
	if e.cfg.mode != ModeWorker {
		return
	}
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

// ColorAll forgets every restart position and recolors the whole
// document.
func (e *Engine) ColorAll() {
	e.buf.View(func(t buffer.Text) {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.closed {
			return
		}
		e.proc.Invalidate(t.Len())
		e.drainInline(t)
	})
	e.signal()
}

// Step runs one slice of pending work and reports whether work remains.
func (e *Engine) Step() bool {
	more := false
	e.buf.View(func(t buffer.Text) {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.closed {
			return
		}
		more = e.proc.Rescan(t, e.cfg.sliceTokens)
	})
	return more
}

// Drain runs slices until no work remains.
func (e *Engine) Drain() {
	for e.Step() {
	}
}

// Idle reports whether no pass is in flight and no damage is pending.
func (e *Engine) Idle() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.proc.Busy()
}

func (e *Engine) inFlight() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.proc.InFlight()
}

// Run processes damage in worker mode until ctx is done or the engine is
// closed. A pass in flight when ctx is cancelled still runs to completion.
func (e *Engine) Run(ctx context.Context) error {
	if e.cfg.mode != ModeWorker {
		return ErrNotWorker
	}
	if !e.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer e.running.Store(false)

	e.cfg.logger.Debug("worker started")
	defer e.cfg.logger.Debug("worker stopped")

	for {
		for e.Step() {
			if ctx.Err() != nil && !e.inFlight() {
				return ctx.Err()
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.done:
			return nil
		case <-e.wake:
		}
	}
}

// RestartPositions returns the restart index as a sorted slice.
func (e *Engine) RestartPositions() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.proc.Index().Positions()
}

// Pending returns the queued damage regions, oldest first.
func (e *Engine) Pending() []Damage {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.proc.Scheduler().PendingDamage()
}

// Stats returns processing statistics.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.proc.Stats()
}

// Close detaches the engine from its buffer and abandons pending work.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.proc.Close()
	close(e.done)
	e.mu.Unlock()

	e.unsubscribe()
	return nil
}
