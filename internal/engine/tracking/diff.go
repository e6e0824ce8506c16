package tracking

import (
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/dshills/recolor/internal/engine/buffer"
)

// DiffOptions configures diff computation.
type DiffOptions struct {
	// Timeout bounds the time spent looking for a minimal diff.
	// Zero means no limit.
	Timeout time.Duration

	// LineMode diffs whole lines first on inputs above 100 bytes.
	LineMode bool

	// Semantic merges small equalities into larger edits, trading
	// minimality for fewer edits.
	Semantic bool
}

// DefaultDiffOptions returns default diff options.
func DefaultDiffOptions() DiffOptions {
	return DiffOptions{
		Timeout:  time.Second,
		LineMode: true,
	}
}

func (o DiffOptions) engine() *diffmatchpatch.DiffMatchPatch {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = o.Timeout
	return dmp
}

// Diff returns edits that turn oldText into newText. The edits are in ascending
// order and each offset is expressed in the text produced by applying the
// edits before it.
//
// Texts are compared byte by byte, so offsets stay exact for input that is
// not valid UTF-8. An edit may split a multi-byte character; the text after
// all edits is still newText.
func Diff(oldText, newText string, opts DiffOptions) []buffer.Edit {
	if oldText == newText {
		return nil
	}
	dmp := opts.engine()
	diffs := dmp.DiffMainRunes(byteRunes(oldText), byteRunes(newText), opts.LineMode)
	if opts.Semantic {
		diffs = dmp.DiffCleanupSemantic(diffs)
	}
	return editsOf(diffs)
}

// editsOf folds diff operations into edits. A deletion directly followed
// or preceded by an insertion becomes one replacement.
func editsOf(diffs []diffmatchpatch.Diff) []buffer.Edit {
	var edits []buffer.Edit
	pos := 0
	var cur *buffer.Edit

	flush := func() {
		if cur != nil {
			edits = append(edits, *cur)
			pos += len(cur.Text)
			cur = nil
		}
	}

	for _, d := range diffs {
		text := runeBytes(d.Text)
		if text == "" {
			continue
		}
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			pos += len(text)
		case diffmatchpatch.DiffDelete:
			if cur == nil {
				cur = &buffer.Edit{Offset: pos}
			}
			cur.Length += len(text)
		case diffmatchpatch.DiffInsert:
			if cur == nil {
				cur = &buffer.Edit{Offset: pos}
			}
			cur.Text += text
		}
	}
	flush()
	return edits
}

// byteRunes maps every byte of s to the rune with the same value.
func byteRunes(s string) []rune {
	r := make([]rune, len(s))
	for i := range len(s) {
		r[i] = rune(s[i])
	}
	return r
}

// runeBytes reverses byteRunes on diff text.
func runeBytes(s string) string {
	b := make([]byte, 0, len(s))
	for _, r := range s {
		b = append(b, byte(r))
	}
	return string(b)
}

// Apply returns text with edits applied in order. Offsets are clamped.
func Apply(text string, edits []buffer.Edit) string {
	for _, e := range edits {
		off := min(max(e.Offset, 0), len(text))
		end := min(off+max(e.Length, 0), len(text))
		text = text[:off] + e.Text + text[end:]
	}
	return text
}
