// Package source provides a seekable character reader over buffer content
// that keeps its cursor valid across edits.
package source

import (
	"io"
	"unicode/utf8"

	"github.com/dshills/recolor/internal/engine/buffer"
)

// chunkSize is the read-ahead window cached between reads.
const chunkSize = 256

// Source reads buffer content from a movable cursor.
//
// Reads past the end of the content report io.EOF; seeks are clamped to
// [0, Len()]. A single mark may be set with Mark and returned to with Reset.
// Source is not safe for concurrent use.
type Source struct {
	text buffer.Text
	pos  int
	mark int

	chunk      string
	chunkStart int
}

// New creates a source positioned at 0.
func New(t buffer.Text) *Source {
	return &Source{text: t, mark: -1}
}

// Bind switches the content the source reads from without moving the
// cursor. Callers bind a locked buffer view for the duration of a scan.
func (s *Source) Bind(t buffer.Text) {
	s.text = t
	s.invalidate()
}

// Len returns the length of the bound content.
func (s *Source) Len() int {
	return s.text.Len()
}

// Position returns the cursor offset.
func (s *Source) Position() int {
	return s.pos
}

// Seek moves the cursor to pos, clamped to [0, Len()], and returns the new
// position.
func (s *Source) Seek(pos int) int {
	s.pos = min(max(pos, 0), s.text.Len())
	return s.pos
}

// Read implements io.Reader.
func (s *Source) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n := 0
	for n < len(p) {
		if !s.fill() {
			break
		}
		c := copy(p[n:], s.chunk[s.pos-s.chunkStart:])
		n += c
		s.pos += c
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// ReadByte implements io.ByteReader.
func (s *Source) ReadByte() (byte, error) {
	if !s.fill() {
		return 0, io.EOF
	}
	c := s.chunk[s.pos-s.chunkStart]
	s.pos++
	return c, nil
}

// ReadRune implements io.RuneReader. Invalid UTF-8 decodes as
// utf8.RuneError with size 1.
func (s *Source) ReadRune() (rune, int, error) {
	if !s.fill() {
		return 0, 0, io.EOF
	}
	rest := s.chunk[s.pos-s.chunkStart:]
	if len(rest) < utf8.UTFMax && s.chunkStart+len(s.chunk) < s.text.Len() {
		// The rune may straddle the cached window.
		s.load(s.pos)
		rest = s.chunk
	}
	r, size := utf8.DecodeRuneInString(rest)
	s.pos += size
	return r, size, nil
}

// Mark remembers the cursor position for a later Reset.
func (s *Source) Mark() {
	s.mark = s.pos
}

// Reset returns the cursor to the mark and clears it. Without a mark the
// cursor returns to 0.
func (s *Source) Reset() {
	if s.mark < 0 {
		s.pos = 0
	} else {
		s.pos = min(s.mark, s.text.Len())
	}
	s.mark = -1
}

// Skip advances the cursor by up to n bytes and returns how many were
// skipped.
func (s *Source) Skip(n int) int {
	if n <= 0 {
		return 0
	}
	n = min(n, s.text.Len()-s.pos)
	if n < 0 {
		return 0
	}
	s.pos += n
	return n
}

// Close is a no-op; the source stays usable. Tokenizers may close their
// reader without affecting the engine that owns it.
func (s *Source) Close() error {
	return nil
}

// NotifyEdited keeps the cursor and mark on the same character after an
// edit of delta bytes at editPos. Positions inside a deleted span collapse
// to editPos.
func (s *Source) NotifyEdited(editPos, delta int) {
	s.pos = Adjust(s.pos, editPos, delta)
	if s.mark >= 0 {
		s.mark = Adjust(s.mark, editPos, delta)
	}
	s.invalidate()
}

// Adjust maps pos across an edit of delta bytes at editPos. Positions at
// or before editPos are unchanged; positions inside a deleted span collapse
// to editPos.
func Adjust(pos, editPos, delta int) int {
	if editPos >= pos {
		return pos
	}
	if pos < editPos-delta {
		return editPos
	}
	return pos + delta
}

// fill makes sure the cached window covers the cursor. It returns false at
// the end of the content.
func (s *Source) fill() bool {
	if s.pos >= s.chunkStart && s.pos < s.chunkStart+len(s.chunk) {
		return true
	}
	if s.pos >= s.text.Len() {
		return false
	}
	s.load(s.pos)
	return len(s.chunk) > 0
}

func (s *Source) load(at int) {
	s.chunkStart = at
	s.chunk = s.text.Slice(at, chunkSize)
}

func (s *Source) invalidate() {
	s.chunk = ""
	s.chunkStart = 0
}
