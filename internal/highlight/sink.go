package highlight

import (
	"fmt"
	"sync"

	"github.com/dshills/recolor/internal/lexer"
)

// StyleSink receives style assignments.
type StyleSink interface {
	// SetStyle tags length bytes starting at offset with category.
	SetStyle(offset, length int, category lexer.Category)
}

// EditAware is implemented by sinks that keep per-offset storage. Edited
// is called for every buffer change before any pass sees it.
type EditAware interface {
	Edited(pos, delta int)
}

// SinkFunc adapts a function to StyleSink.
type SinkFunc func(offset, length int, category lexer.Category)

// SetStyle calls f.
func (f SinkFunc) SetStyle(offset, length int, category lexer.Category) {
	f(offset, length, category)
}

// MultiSink fans calls out to several sinks in order.
type MultiSink []StyleSink

// SetStyle implements StyleSink.
func (m MultiSink) SetStyle(offset, length int, category lexer.Category) {
	for _, s := range m {
		s.SetStyle(offset, length, category)
	}
}

// Edited forwards to the members that implement EditAware.
func (m MultiSink) Edited(pos, delta int) {
	for _, s := range m {
		if ea, ok := s.(EditAware); ok {
			ea.Edited(pos, delta)
		}
	}
}

// Style is one recorded SetStyle call.
type Style struct {
	Offset   int
	Length   int
	Category lexer.Category
}

// End returns the offset just past the styled span.
func (s Style) End() int {
	return s.Offset + s.Length
}

// String formats the style as category[start,end).
func (s Style) String() string {
	return fmt.Sprintf("%s[%d,%d)", s.Category, s.Offset, s.End())
}

// Recorder is a sink that records every call.
type Recorder struct {
	mu     sync.Mutex
	styles []Style
}

// SetStyle implements StyleSink.
func (r *Recorder) SetStyle(offset, length int, category lexer.Category) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.styles = append(r.styles, Style{Offset: offset, Length: length, Category: category})
}

// Styles returns a copy of the recorded calls.
func (r *Recorder) Styles() []Style {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Style, len(r.styles))
	copy(out, r.styles)
	return out
}

// Strings returns the recorded calls formatted with Style.String.
func (r *Recorder) Strings() []string {
	styles := r.Styles()
	out := make([]string, len(styles))
	for i, s := range styles {
		out[i] = s.String()
	}
	return out
}

// Len returns the number of recorded calls.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.styles)
}

// Reset discards the recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.styles = nil
}
