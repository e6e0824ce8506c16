package lexer

import "io"

// scanner wraps a Reader with offset tracking and the text of the token
// being scanned.
type scanner struct {
	r    Reader
	pos  int
	text []rune
	err  error

	markPos int
	markLen int
}

func (s *scanner) begin() {
	s.text = s.text[:0]
}

// read consumes one rune. It returns false at end of input or on a read
// error, which is kept in s.err.
func (s *scanner) read() (rune, bool) {
	c, size, err := s.r.ReadRune()
	if err != nil {
		if err != io.EOF && s.err == nil {
			s.err = err
		}
		return 0, false
	}
	s.pos += size
	s.text = append(s.text, c)
	return c, true
}

func (s *scanner) mark() {
	s.r.Mark()
	s.markPos = s.pos
	s.markLen = len(s.text)
}

func (s *scanner) reset() {
	s.r.Reset()
	s.pos = s.markPos
	s.text = s.text[:s.markLen]
}

// accept consumes the next rune if fn matches it.
func (s *scanner) accept(fn func(rune) bool) bool {
	s.mark()
	if c, ok := s.read(); ok && fn(c) {
		return true
	}
	s.reset()
	return false
}

func (s *scanner) acceptRune(want rune) bool {
	return s.accept(func(c rune) bool { return c == want })
}

func (s *scanner) acceptRun(fn func(rune) bool) {
	for s.accept(fn) {
	}
}

// acceptRunes consumes want only if the whole sequence follows.
func (s *scanner) acceptRunes(want []rune) bool {
	if len(want) == 0 {
		return true
	}
	s.mark()
	for _, w := range want {
		if c, ok := s.read(); !ok || c != w {
			s.reset()
			return false
		}
	}
	return true
}

func (s *scanner) word() string {
	return string(s.text)
}
