// Package highlight keeps per-byte style tags correct while a buffer is
// edited, without re-lexing the whole document on every change.
//
// The Processor maintains a restart index: offsets at which the tokenizer
// is in its neutral state, so lexing can begin there without context. An
// edit renumbers the index immediately and queues a damage region. A pass
// re-lexes from the last restart position before the damage and stops
// once it reaches, in the neutral state, a restart position at or after
// the end of the damage; everything after that point is unchanged.
//
// Passes can be suspended between tokens. The Scheduler then tracks how
// far the scan has reached in live coordinates and the bias between the
// tokenizer's offsets and the buffer's, so edits landing mid-pass never
// invalidate it.
//
// Basic usage:
//
//	buf := buffer.NewFromString(src)
//	layer := highlight.NewLayer(buf.Len())
//	eng := highlight.New(buf, lexer.Java(), layer)
//	defer eng.Close()
//
//	buf.Insert(0, "int x = 1;\n")
//	tags := layer.Tags()
package highlight
