package buffer

import "fmt"

// Edit represents a text edit operation: replace Length bytes at Offset
// with Text.
type Edit struct {
	Offset int
	Length int
	Text   string
}

// NewInsert creates an Edit that inserts text at an offset.
func NewInsert(offset int, text string) Edit {
	return Edit{Offset: offset, Text: text}
}

// NewDelete creates an Edit that deletes n bytes starting at offset.
func NewDelete(offset, n int) Edit {
	return Edit{Offset: offset, Length: n}
}

// NewReplace creates an Edit that replaces n bytes at offset with text.
func NewReplace(offset, n int, text string) Edit {
	return Edit{Offset: offset, Length: n, Text: text}
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	switch {
	case e.Length == 0:
		return fmt.Sprintf("Insert(%d, %q)", e.Offset, e.Text)
	case e.Text == "":
		return fmt.Sprintf("Delete(%d, %d)", e.Offset, e.Length)
	default:
		return fmt.Sprintf("Replace(%d, %d, %q)", e.Offset, e.Length, e.Text)
	}
}

// IsNoOp returns true if this edit does nothing.
func (e Edit) IsNoOp() bool {
	return e.Length == 0 && e.Text == ""
}

// Delta returns the change in buffer length caused by this edit.
func (e Edit) Delta() int {
	return len(e.Text) - e.Length
}

// Change describes one applied mutation.
// Delta > 0 is an insertion of Delta bytes at Offset; Delta < 0 is a
// deletion of -Delta bytes starting at Offset.
type Change struct {
	Offset   int
	Delta    int
	Revision uint64
}

// String returns a human-readable representation of the change.
func (c Change) String() string {
	if c.Delta >= 0 {
		return fmt.Sprintf("+%d@%d", c.Delta, c.Offset)
	}
	return fmt.Sprintf("%d@%d", c.Delta, c.Offset)
}

// End returns Offset + |Delta|, the end of the damaged span.
func (c Change) End() int {
	if c.Delta < 0 {
		return c.Offset - c.Delta
	}
	return c.Offset + c.Delta
}
