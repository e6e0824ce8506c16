// Package buffer provides a thread-safe, editable text buffer that reports
// every mutation to its listeners synchronously.
//
// Offsets are byte offsets. Each mutation is reported as a Change: a
// positive Delta is an insertion of Delta bytes at Offset, a negative Delta
// a deletion of -Delta bytes starting at Offset. A replacement is reported
// as a deletion followed by an insertion.
//
// Basic usage:
//
//	buf := buffer.NewFromString("Hello, World!")
//	cancel := buf.Subscribe(func(ch buffer.Change, view buffer.Text) {
//	    fmt.Println(ch.Offset, ch.Delta, view.Len())
//	})
//	defer cancel()
//
//	buf.Insert(7, "Beautiful ")  // "Hello, Beautiful World!"
//	buf.Delete(0, 7)             // "Beautiful World!"
//
// Thread Safety:
//
// All Buffer methods are thread-safe. Listeners run while the write lock is
// held, so a listener must not call back into the Buffer; it reads through
// the view it is handed instead. View gives the same unlocked access to
// readers that need several consistent reads.
package buffer
