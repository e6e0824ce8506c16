// Package restart provides an ordered set of restart positions for an
// incremental tokenizer.
//
// A restart position is a byte offset at which the tokenizer is known to be
// in its neutral state, so lexing may begin there without context. The set
// always contains the implicit origin 0.
//
// Entries are stored in a B+ tree where every entry is encoded as the gap to
// its predecessor. Internal nodes carry per-child summaries (entry count and
// total span), which makes the operations an editor needs cheap:
//
//   - Floor/Ceil lookups descend by span in O(log n)
//   - ShiftFrom renumbers every entry past an edit by changing a single gap
//   - RemoveRange drops covered subtrees whole
//
// Basic usage:
//
//	idx := restart.New()
//	idx.Insert(5)
//	idx.Insert(10)
//	idx.ShiftFrom(3, 2)        // {0, 7, 12}
//	start := idx.FloorBefore(7) // 0
//
// An Index is not safe for concurrent use; callers serialize access.
package restart
