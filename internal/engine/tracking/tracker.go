package tracking

import (
	"fmt"
	"sync"

	"github.com/dshills/recolor/internal/engine/buffer"
)

// DefaultMaxRevisions is the default number of revisions kept.
const DefaultMaxRevisions = 100

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithMaxRevisions sets how many revisions History keeps.
func WithMaxRevisions(n int) TrackerOption {
	return func(t *Tracker) {
		t.history = newHistory(n)
	}
}

// WithDiffOptions sets the diff options.
func WithDiffOptions(o DiffOptions) TrackerOption {
	return func(t *Tracker) {
		t.opts = o
	}
}

// Tracker brings a buffer to new content through incremental edits.
// The tracker must be the buffer's only writer while Sync runs.
type Tracker struct {
	mu      sync.Mutex
	buf     *buffer.Buffer
	opts    DiffOptions
	history *history
}

// NewTracker creates a tracker for buf.
func NewTracker(buf *buffer.Buffer, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		buf:     buf,
		opts:    DefaultDiffOptions(),
		history: newHistory(DefaultMaxRevisions),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Sync applies the edits that turn the buffer's content into text and
// records a revision. An unchanged text records nothing and returns a
// revision with no edits.
func (t *Tracker) Sync(text string) (Revision, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	edits := Diff(t.buf.String(), text, t.opts)
	if len(edits) == 0 {
		return Revision{Number: t.buf.Revision(), Length: t.buf.Len()}, nil
	}
	for i, e := range edits {
		if err := t.buf.ApplyEdit(e); err != nil {
			return Revision{}, fmt.Errorf("apply edit %d of %d (%v): %w", i+1, len(edits), e, err)
		}
	}

	rev := newRevision(t.buf.Revision(), edits, t.buf.Len())
	t.history.add(rev)
	return rev, nil
}

// History returns the recorded revisions, oldest first.
func (t *Tracker) History() []Revision {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.history.all()
}
