package highlight

import (
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/dshills/recolor/internal/lexer"
)

// Span is a run of bytes with the same category.
type Span struct {
	Start    int
	End      int
	Category lexer.Category
}

// String formats the span as category[start,end).
func (s Span) String() string {
	return fmt.Sprintf("%s[%d,%d)", s.Category, s.Start, s.End)
}

// Layer stores one category per byte of a buffer. Categories are interned
// so each byte costs two bytes of storage. Untagged bytes report
// lexer.CategoryNone.
//
// Layer is safe for concurrent use.
type Layer struct {
	mu    sync.RWMutex
	tags  []uint16
	names []lexer.Category
	ids   map[lexer.Category]uint16
}

// NewLayer creates a layer for a buffer of size bytes.
func NewLayer(size int) *Layer {
	return &Layer{
		tags:  make([]uint16, max(size, 0)),
		names: []lexer.Category{lexer.CategoryNone},
		ids:   map[lexer.Category]uint16{lexer.CategoryNone: 0},
	}
}

// Len returns the number of bytes covered.
func (l *Layer) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.tags)
}

// SetStyle implements StyleSink. The span is clamped to the layer.
func (l *Layer) SetStyle(offset, length int, category lexer.Category) {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := min(max(offset, 0), len(l.tags))
	end := min(max(offset+length, start), len(l.tags))
	if start == end {
		return
	}
	id := l.intern(category)
	for i := start; i < end; i++ {
		l.tags[i] = id
	}
}

// Edited implements EditAware. Inserted bytes start untagged.
func (l *Layer) Edited(pos, delta int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pos = min(max(pos, 0), len(l.tags))
	switch {
	case delta > 0:
		l.tags = slices.Insert(l.tags, pos, make([]uint16, delta)...)
	case delta < 0:
		l.tags = slices.Delete(l.tags, pos, min(pos-delta, len(l.tags)))
	}
}

// Resize truncates or extends the layer to size bytes. New bytes are
// untagged.
func (l *Layer) Resize(size int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	size = max(size, 0)
	if size <= len(l.tags) {
		l.tags = l.tags[:size]
		return
	}
	l.tags = append(l.tags, make([]uint16, size-len(l.tags))...)
}

// TagAt returns the category of the byte at offset.
func (l *Layer) TagAt(offset int) lexer.Category {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if offset < 0 || offset >= len(l.tags) {
		return lexer.CategoryNone
	}
	return l.names[l.tags[offset]]
}

// Tags returns the category of every byte.
func (l *Layer) Tags() []lexer.Category {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]lexer.Category, len(l.tags))
	for i, id := range l.tags {
		out[i] = l.names[id]
	}
	return out
}

// Spans returns maximal runs of equal category, untagged runs included.
func (l *Layer) Spans() []Span {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var spans []Span
	for i := 0; i < len(l.tags); {
		j := i + 1
		for j < len(l.tags) && l.tags[j] == l.tags[i] {
			j++
		}
		spans = append(spans, Span{Start: i, End: j, Category: l.names[l.tags[i]]})
		i = j
	}
	return spans
}

func (l *Layer) intern(category lexer.Category) uint16 {
	if id, ok := l.ids[category]; ok {
		return id
	}
	if len(l.names) > math.MaxUint16 {
		return 0
	}
	id := uint16(len(l.names))
	l.names = append(l.names, category)
	l.ids[category] = id
	return id
}
