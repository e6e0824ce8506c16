package tracking

import (
	"fmt"
	"time"

	"github.com/dshills/recolor/internal/engine/buffer"
)

// Revision records one synchronization.
type Revision struct {
	// Number is the buffer revision after the edits were applied.
	Number uint64

	Timestamp time.Time
	Edits     []buffer.Edit
	Inserted  int
	Deleted   int
	Length    int
}

func newRevision(number uint64, edits []buffer.Edit, length int) Revision {
	r := Revision{Number: number, Timestamp: time.Now(), Edits: edits, Length: length}
	for _, e := range edits {
		r.Inserted += len(e.Text)
		r.Deleted += e.Length
	}
	return r
}

// String returns a summary such as "r12 +5 -3 (2 edits)".
func (r Revision) String() string {
	return fmt.Sprintf("r%d +%d -%d (%d edits)", r.Number, r.Inserted, r.Deleted, len(r.Edits))
}

// history is a ring of the most recent revisions.
type history struct {
	items []Revision
	head  int
	count int
}

func newHistory(n int) *history {
	if n <= 0 {
		n = DefaultMaxRevisions
	}
	return &history{items: make([]Revision, n)}
}

func (h *history) add(r Revision) {
	i := (h.head + h.count) % len(h.items)
	h.items[i] = r
	if h.count < len(h.items) {
		h.count++
		return
	}
	h.head = (h.head + 1) % len(h.items)
}

// all returns revisions oldest first.
func (h *history) all() []Revision {
	out := make([]Revision, 0, h.count)
	for i := range h.count {
		out = append(out, h.items[(h.head+i)%len(h.items)])
	}
	return out
}
