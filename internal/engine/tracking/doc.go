// Package tracking moves a buffer to new content through incremental
// edits.
//
// When a file changes on disk the new text arrives whole. Replacing the
// buffer with SetText would damage the entire document; instead [Diff]
// computes the ordered edits that turn the old text into the new one, and
// [Tracker] applies them so listeners see only the regions that changed.
//
//	tr := tracking.NewTracker(buf)
//	rev, err := tr.Sync(newText)
//	fmt.Println(rev.Inserted, rev.Deleted)
//
// Diffs are computed with diff-match-patch. Large inputs fall back to a
// line-level diff and every diff is bounded by a timeout, after which the
// result is still correct but less minimal.
package tracking
