package restart

import (
	"iter"
	"math"
	"strconv"
	"strings"
)

// Index is an ordered, de-duplicated set of restart positions.
// The origin 0 is always a member and is never stored or removed.
type Index struct {
	root *node
}

// New creates an index holding only the origin.
func New() *Index {
	return &Index{root: newLeafNode()}
}

// FromPositions creates an index holding the origin and the given positions.
// Non-positive positions are ignored.
func FromPositions(positions ...int) *Index {
	x := New()
	for _, p := range positions {
		x.Insert(p)
	}
	return x
}

// Len returns the number of restart positions, including the origin.
func (x *Index) Len() int {
	return x.root.summary.Count + 1
}

// Last returns the greatest restart position.
func (x *Index) Last() int {
	return x.root.summary.Span
}

// Reset drops every entry except the origin.
func (x *Index) Reset() {
	x.root = newLeafNode()
}

// Insert adds pos to the index. It reports whether the index changed;
// inserting an existing or non-positive position is a no-op.
func (x *Index) Insert(pos int) bool {
	if pos <= 0 || x.Contains(pos) {
		return false
	}
	if right := x.root.insert(pos); right != nil {
		x.root = newInternalNode([]*node{x.root, right})
	}
	return true
}

// Contains reports whether pos is a restart position.
func (x *Index) Contains(pos int) bool {
	if pos == 0 {
		return true
	}
	if pos < 0 {
		return false
	}
	c := x.root.countLE(pos)
	return c > 0 && x.root.at(c-1) == pos
}

// Floor returns the greatest restart position <= pos, or 0 if none.
func (x *Index) Floor(pos int) int {
	if pos <= 0 {
		return 0
	}
	c := x.root.countLE(pos)
	if c == 0 {
		return 0
	}
	return x.root.at(c - 1)
}

// FloorBefore returns the greatest restart position strictly below pos,
// or 0 if none.
func (x *Index) FloorBefore(pos int) int {
	return x.Floor(pos - 1)
}

// Ceil returns the smallest restart position >= pos.
// The second result is false when every position lies below pos.
func (x *Index) Ceil(pos int) (int, bool) {
	if pos <= 0 {
		return 0, true
	}
	c := x.root.countLE(pos - 1)
	if c >= x.root.summary.Count {
		return 0, false
	}
	return x.root.at(c), true
}

// RemoveRange removes every restart position in the half-open range
// [lo, hi) and returns how many were removed. Later positions keep their
// absolute values. The origin is never removed.
func (x *Index) RemoveRange(lo, hi int) int {
	lo = max(lo, 1)
	if lo >= hi {
		return 0
	}
	a := x.root.countLE(lo - 1)
	b := x.root.countLE(hi - 1)
	if a >= b {
		return 0
	}

	hasNext := b < x.root.summary.Count
	var next, prev int
	if hasNext {
		next = x.root.at(b)
		if a > 0 {
			prev = x.root.at(a - 1)
		}
	}

	x.root.removeRange(a, b)
	x.collapse()

	if hasNext {
		x.root.addGap(a, next-prev-x.root.gapAt(a))
	}
	return b - a
}

// ShiftFrom adds delta to every restart position >= threshold.
// For a negative delta the positions in [threshold, threshold-delta) are
// removed first, so the order of entries is preserved. The origin never
// moves; a position that would land on it merges into it.
func (x *Index) ShiftFrom(threshold, delta int) {
	if delta == 0 {
		return
	}
	threshold = max(threshold, 0)
	if delta < 0 {
		hi := threshold - delta
		if threshold == 0 {
			hi++
		}
		x.RemoveRange(threshold, hi)
	}
	c := x.root.countLE(threshold - 1)
	if c >= x.root.summary.Count {
		return
	}
	x.root.addGap(c, delta)
}

// TrimAfter removes every restart position greater than limit and returns
// how many were removed.
func (x *Index) TrimAfter(limit int) int {
	if limit >= math.MaxInt-1 {
		return 0
	}
	return x.RemoveRange(limit+1, math.MaxInt)
}

// From returns an iterator over the restart positions >= pos in ascending
// order.
func (x *Index) From(pos int) iter.Seq[int] {
	return func(yield func(int) bool) {
		if pos <= 0 && !yield(0) {
			return
		}
		x.root.walk(0, max(pos, 1), yield)
	}
}

// All returns an iterator over every restart position in ascending order.
func (x *Index) All() iter.Seq[int] {
	return x.From(0)
}

// Positions returns the restart positions as a sorted slice.
func (x *Index) Positions() []int {
	out := make([]int, 0, x.Len())
	for p := range x.All() {
		out = append(out, p)
	}
	return out
}

// String returns the positions formatted as {0, 5, 10}.
func (x *Index) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	for p := range x.All() {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(strconv.Itoa(p))
	}
	sb.WriteByte('}')
	return sb.String()
}

// collapse removes redundant levels at the root.
func (x *Index) collapse() {
	for !x.root.isLeaf() {
		switch len(x.root.children) {
		case 0:
			x.root = newLeafNode()
		case 1:
			x.root = x.root.children[0]
		default:
			return
		}
	}
}

// validate checks the structural invariants of the tree.
func (x *Index) validate() error {
	return x.root.validate(true)
}
