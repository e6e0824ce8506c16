package buffer

import (
	"io"
	"slices"
	"sync"
)

// Text is read access to buffer content.
type Text interface {
	// Len returns the content length in bytes.
	Len() int

	// Slice returns up to n bytes starting at offset. Out-of-range
	// requests are clamped to the content bounds.
	Slice(offset, n int) string
}

// Listener receives a change after the mutation is applied and before the
// mutating call returns. The view is valid only for the duration of the
// call.
type Listener func(ch Change, view Text)

type listenerEntry struct {
	id int
	fn Listener
}

// Buffer is a mutable byte buffer that notifies listeners of every change.
// All methods are thread-safe.
type Buffer struct {
	mu        sync.RWMutex
	data      []byte
	revision  uint64
	listeners []listenerEntry
	nextID    int
}

// New creates a new empty buffer.
func New(opts ...Option) *Buffer {
	b := &Buffer{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewFromString creates a buffer with initial content. No change is
// reported for the initial content.
func NewFromString(s string, opts ...Option) *Buffer {
	b := New(opts...)
	b.data = append(b.data, s...)
	return b
}

// NewFromReader creates a buffer from an io.Reader.
func NewFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewFromString(string(data), opts...), nil
}

// Read Operations

// Len returns the total byte length of the buffer.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.data)
}

// Slice returns up to n bytes starting at offset, clamped to the buffer.
func (b *Buffer) Slice(offset, n int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return clampSlice(b.data, offset, n)
}

// String returns the full buffer content.
func (b *Buffer) String() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return string(b.data)
}

// Revision returns a counter incremented by every mutation.
func (b *Buffer) Revision() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}

// View calls fn with unlocked read access while holding the read lock.
// Mutations wait until fn returns. fn must not call back into the Buffer.
func (b *Buffer) View(fn func(Text)) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	fn(view{b})
}

// Write Operations

// Insert inserts text at the given offset.
func (b *Buffer) Insert(offset int, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if offset < 0 || offset > len(b.data) {
		return ErrOffsetOutOfRange
	}
	b.insertLocked(offset, text)
	return nil
}

// Delete removes n bytes starting at offset.
func (b *Buffer) Delete(offset, n int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkRange(offset, n); err != nil {
		return err
	}
	b.deleteLocked(offset, n)
	return nil
}

// Replace replaces n bytes at offset with text. Listeners see a deletion
// followed by an insertion.
func (b *Buffer) Replace(offset, n int, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkRange(offset, n); err != nil {
		return err
	}
	b.deleteLocked(offset, n)
	b.insertLocked(offset, text)
	return nil
}

// ApplyEdit applies a single edit to the buffer.
func (b *Buffer) ApplyEdit(e Edit) error {
	if e.IsNoOp() {
		return nil
	}
	return b.Replace(e.Offset, e.Length, e.Text)
}

// SetText replaces the entire content.
func (b *Buffer) SetText(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.deleteLocked(0, len(b.data))
	b.insertLocked(0, text)
}

// Listeners

// Subscribe registers a listener and returns a function that removes it.
// Listeners are called in subscription order.
func (b *Buffer) Subscribe(l Listener) (cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.subscribe(l)
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.listeners = slices.DeleteFunc(b.listeners, func(e listenerEntry) bool {
			return e.id == id
		})
	}
}

func (b *Buffer) subscribe(l Listener) int {
	b.nextID++
	b.listeners = append(b.listeners, listenerEntry{id: b.nextID, fn: l})
	return b.nextID
}

func (b *Buffer) checkRange(offset, n int) error {
	if offset < 0 || offset > len(b.data) {
		return ErrOffsetOutOfRange
	}
	if n < 0 || offset+n > len(b.data) {
		return ErrRangeInvalid
	}
	return nil
}

func (b *Buffer) insertLocked(offset int, text string) {
	if text == "" {
		return
	}
	b.data = slices.Insert(b.data, offset, []byte(text)...)
	b.notify(Change{Offset: offset, Delta: len(text)})
}

func (b *Buffer) deleteLocked(offset, n int) {
	if n == 0 {
		return
	}
	b.data = slices.Delete(b.data, offset, offset+n)
	b.notify(Change{Offset: offset, Delta: -n})
}

func (b *Buffer) notify(ch Change) {
	b.revision++
	ch.Revision = b.revision
	v := view{b}
	for _, l := range b.listeners {
		l.fn(ch, v)
	}
}

// view reads buffer content without locking. It is only handed out while
// a lock is held.
type view struct {
	b *Buffer
}

func (v view) Len() int {
	return len(v.b.data)
}

func (v view) Slice(offset, n int) string {
	return clampSlice(v.b.data, offset, n)
}

func clampSlice(data []byte, offset, n int) string {
	offset = min(max(offset, 0), len(data))
	end := offset + max(n, 0)
	if end > len(data) || end < offset {
		end = len(data)
	}
	return string(data[offset:end])
}
