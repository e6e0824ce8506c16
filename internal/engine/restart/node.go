package restart

import (
	"fmt"
	"slices"
)

// Tree structure constants
const (
	// MinChildren is the fill level below which an internal node is merged
	// with a neighbor when possible.
	MinChildren = 4

	// MaxChildren is the maximum children per internal node before splitting.
	MaxChildren = 8

	// MaxGapsPerLeaf is the maximum entries in a leaf node before splitting.
	MaxGapsPerLeaf = 16
)

// node represents a node in the gap B+ tree.
// Leaf nodes (height == 0) hold gaps.
// Internal nodes (height > 0) hold child node references.
type node struct {
	height  uint8
	summary summary

	// Internal node fields (height > 0)
	children       []*node
	childSummaries []summary

	// Leaf node fields (height == 0). gaps[i] is the distance from the
	// previous entry (or the subtree origin) to entry i.
	gaps []int
}

func newLeafNode() *node {
	return &node{gaps: make([]int, 0, MaxGapsPerLeaf)}
}

func newLeafNodeWithGaps(gaps []int) *node {
	n := &node{gaps: gaps}
	n.recomputeSummary()
	return n
}

func newInternalNode(children []*node) *node {
	if len(children) == 0 {
		return newLeafNode()
	}
	n := &node{
		height:   children[0].height + 1,
		children: children,
	}
	n.recomputeSummary()
	return n
}

func (n *node) isLeaf() bool {
	return n.height == 0
}

// recomputeSummary recalculates the summary from children or gaps.
func (n *node) recomputeSummary() {
	if n.isLeaf() {
		n.summary = summary{Count: len(n.gaps)}
		for _, g := range n.gaps {
			n.summary.Span += g
		}
		return
	}
	n.summary = summary{}
	n.childSummaries = make([]summary, len(n.children))
	for i, child := range n.children {
		n.childSummaries[i] = child.summary
		n.summary = n.summary.Add(child.summary)
	}
}

// findChildByIndex finds the child holding the entry with the given index.
// Returns the child index, the entry index within that child and the span
// preceding the child.
func (n *node) findChildByIndex(i int) (int, int, int) {
	span := 0
	for j, s := range n.childSummaries {
		if i < s.Count {
			return j, i, span
		}
		i -= s.Count
		span += s.Span
	}
	last := len(n.children) - 1
	return last, i + n.childSummaries[last].Count, span - n.childSummaries[last].Span
}

// findChildForInsert finds the child that should receive a new entry at the
// given position: the first child whose last entry lies past pos.
// Returns the child index and the span preceding the child.
func (n *node) findChildForInsert(pos int) (int, int) {
	span := 0
	for j, s := range n.childSummaries {
		if span+s.Span > pos {
			return j, span
		}
		span += s.Span
	}
	last := len(n.children) - 1
	return last, span - n.childSummaries[last].Span
}

// countLE returns the number of entries at or before pos, relative to the
// node origin.
func (n *node) countLE(pos int) int {
	count := 0
	for !n.isLeaf() {
		next := -1
		for j, s := range n.childSummaries {
			if s.Span <= pos {
				pos -= s.Span
				count += s.Count
				continue
			}
			next = j
			break
		}
		if next < 0 {
			return count
		}
		n = n.children[next]
	}
	for _, g := range n.gaps {
		if g > pos {
			break
		}
		pos -= g
		count++
	}
	return count
}

// at returns the position of entry i relative to the node origin.
func (n *node) at(i int) int {
	pos := 0
	for !n.isLeaf() {
		j, rest, span := n.findChildByIndex(i)
		pos += span
		i = rest
		n = n.children[j]
	}
	for _, g := range n.gaps[:i+1] {
		pos += g
	}
	return pos
}

// gapAt returns the stored gap of entry i.
func (n *node) gapAt(i int) int {
	for !n.isLeaf() {
		j, rest, _ := n.findChildByIndex(i)
		i = rest
		n = n.children[j]
	}
	return n.gaps[i]
}

// addGap adds d to the gap of entry i, moving it and every later entry.
func (n *node) addGap(i, d int) {
	if n.isLeaf() {
		n.gaps[i] += d
		n.summary.Span += d
		return
	}
	j, rest, _ := n.findChildByIndex(i)
	n.children[j].addGap(rest, d)
	n.childSummaries[j].Span += d
	n.summary.Span += d
}

// insert adds an entry at pos, relative to the node origin. The entry must
// not exist yet and pos must be positive. A non-nil result is a new right
// sibling produced by splitting n.
func (n *node) insert(pos int) *node {
	if n.isLeaf() {
		i, cur := 0, 0
		for ; i < len(n.gaps); i++ {
			if cur+n.gaps[i] > pos {
				break
			}
			cur += n.gaps[i]
		}
		g := pos - cur
		if i < len(n.gaps) {
			n.gaps[i] -= g
		}
		n.gaps = slices.Insert(n.gaps, i, g)
		n.recomputeSummary()
		if len(n.gaps) > MaxGapsPerLeaf {
			return n.split()
		}
		return nil
	}

	j, span := n.findChildForInsert(pos)
	if right := n.children[j].insert(pos - span); right != nil {
		n.children = slices.Insert(n.children, j+1, right)
	}
	n.recomputeSummary()
	if len(n.children) > MaxChildren {
		return n.split()
	}
	return nil
}

// split moves the upper half of n into a new right sibling.
// Gaps need no adjustment: the right sibling's origin is n's last entry.
func (n *node) split() *node {
	if n.isLeaf() {
		h := len(n.gaps) / 2
		right := newLeafNodeWithGaps(slices.Clone(n.gaps[h:]))
		n.gaps = slices.Clip(n.gaps[:h])
		n.recomputeSummary()
		return right
	}
	h := len(n.children) / 2
	right := newInternalNode(slices.Clone(n.children[h:]))
	n.children = slices.Clip(n.children[:h])
	n.recomputeSummary()
	return right
}

// removeRange removes the entries with index in [a, b). Covered subtrees
// are dropped whole. The gap of the entry following the range is left for
// the caller to repair.
func (n *node) removeRange(a, b int) {
	if a >= b {
		return
	}
	if n.isLeaf() {
		n.gaps = slices.Delete(n.gaps, a, b)
		n.recomputeSummary()
		return
	}

	kept := make([]*node, 0, len(n.children))
	start := 0
	for _, child := range n.children {
		count := child.summary.Count
		end := start + count
		lo, hi := max(a, start)-start, min(b, end)-start
		switch {
		case lo <= 0 && hi >= count:
			// Fully covered
		case lo < hi:
			child.removeRange(lo, hi)
			kept = append(kept, child)
		default:
			kept = append(kept, child)
		}
		start = end
	}
	n.children = kept
	n.rebalance()
	n.recomputeSummary()
}

// rebalance merges adjacent children when one is underfull and the pair
// fits in a single node.
func (n *node) rebalance() {
	for i := 0; i+1 < len(n.children); {
		left, right := n.children[i], n.children[i+1]
		if (left.underfull() || right.underfull()) && left.fits(right) {
			n.children[i] = mergeNodes(left, right)
			n.children = slices.Delete(n.children, i+1, i+2)
			continue
		}
		i++
	}
}

func (n *node) underfull() bool {
	if n.isLeaf() {
		return len(n.gaps) < MaxGapsPerLeaf/2
	}
	return len(n.children) < MinChildren
}

func (n *node) fits(other *node) bool {
	if n.isLeaf() {
		return len(n.gaps)+len(other.gaps) <= MaxGapsPerLeaf
	}
	return len(n.children)+len(other.children) <= MaxChildren
}

// mergeNodes merges two adjacent nodes of the same height.
func mergeNodes(left, right *node) *node {
	if left.isLeaf() {
		gaps := make([]int, 0, MaxGapsPerLeaf)
		gaps = append(gaps, left.gaps...)
		gaps = append(gaps, right.gaps...)
		return newLeafNodeWithGaps(gaps)
	}
	children := make([]*node, 0, len(left.children)+len(right.children))
	children = append(children, left.children...)
	children = append(children, right.children...)
	return newInternalNode(children)
}

// walk yields every entry at or after from in ascending order. origin is
// the absolute position of the subtree origin. Returns false when the
// consumer stopped early.
func (n *node) walk(origin, from int, yield func(int) bool) bool {
	if n.isLeaf() {
		pos := origin
		for _, g := range n.gaps {
			pos += g
			if pos >= from && !yield(pos) {
				return false
			}
		}
		return true
	}
	for j, child := range n.children {
		s := n.childSummaries[j]
		if origin+s.Span >= from && !child.walk(origin, from, yield) {
			return false
		}
		origin += s.Span
	}
	return true
}

// validate checks structural invariants of the subtree.
func (n *node) validate(root bool) error {
	if n.isLeaf() {
		for i, g := range n.gaps {
			if g <= 0 {
				return fmt.Errorf("leaf gap %d is %d, want > 0", i, g)
			}
		}
		want := n.summary
		n.recomputeSummary()
		if n.summary != want {
			return fmt.Errorf("leaf summary %+v, gaps add up to %+v", want, n.summary)
		}
		return nil
	}
	if len(n.children) == 0 {
		return fmt.Errorf("internal node at height %d has no children", n.height)
	}
	if len(n.children) > MaxChildren {
		return fmt.Errorf("internal node has %d children, max %d", len(n.children), MaxChildren)
	}
	if root && len(n.children) == 1 {
		return fmt.Errorf("root has a single child")
	}
	var total summary
	for j, child := range n.children {
		if child.height+1 != n.height {
			return fmt.Errorf("child height %d under node height %d", child.height, n.height)
		}
		if child.summary.IsEmpty() {
			return fmt.Errorf("empty child %d", j)
		}
		if n.childSummaries[j] != child.summary {
			return fmt.Errorf("stale child summary %d: %+v != %+v", j, n.childSummaries[j], child.summary)
		}
		if err := child.validate(false); err != nil {
			return err
		}
		total = total.Add(child.summary)
	}
	if total != n.summary {
		return fmt.Errorf("summary %+v, children add up to %+v", n.summary, total)
	}
	return nil
}
