package lexer

import (
	"fmt"
	"io"
	"iter"
)

// State is the tokenizer state after a token.
type State uint32

// Tokenizer states.
const (
	// Neutral is the state from which lexing may begin without context.
	Neutral State = iota
	StateBlockComment
	StateTextBlock
	StateRawString
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Neutral:
		return "neutral"
	case StateBlockComment:
		return "blockComment"
	case StateTextBlock:
		return "textBlock"
	case StateRawString:
		return "rawString"
	default:
		return fmt.Sprintf("state(%d)", uint32(s))
	}
}

// Token is a classified span of text.
type Token struct {
	// Start is the absolute byte offset of the first byte.
	Start int

	// End is the offset just past the last byte.
	End int

	// Category is the style tag for the span.
	Category Category

	// State is the tokenizer state after this token.
	State State
}

// Len returns the length of the token in bytes.
func (t Token) Len() int {
	return t.End - t.Start
}

// Contains returns true if the offset is within the token.
func (t Token) Contains(offset int) bool {
	return offset >= t.Start && offset < t.End
}

// String formats the token as category[start,end).
func (t Token) String() string {
	if t.State != Neutral {
		return fmt.Sprintf("%s[%d,%d)/%s", t.Category, t.Start, t.End, t.State)
	}
	return fmt.Sprintf("%s[%d,%d)", t.Category, t.Start, t.End)
}

// Reader is the character stream a tokenizer consumes.
//
// Mark remembers the current position; Reset returns to it and clears the
// mark. Reset without a mark returns to the start of the stream.
type Reader interface {
	io.RuneReader
	Mark()
	Reset()
}

// Tokenizer produces tokens from a Reader.
type Tokenizer interface {
	// Tokenize returns a lazy token sequence starting at the reader's
	// current position, which has absolute offset bias, in the given
	// initial state. The sequence ends at end of input or after yielding
	// a non-nil error. Each call starts afresh; no state is kept between
	// calls.
	//
	// When a token is yielded the reader must be positioned at its End:
	// lookahead past the token is undone with Mark and Reset. Callers may
	// move the reader between yields to follow edits.
	Tokenize(r Reader, bias int, initial State) iter.Seq2[Token, error]

	// Language returns the language this tokenizer supports.
	Language() string

	// FileExtensions returns the file extensions this tokenizer handles.
	FileExtensions() []string
}
