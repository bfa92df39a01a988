// Package encoder defines the translator between application-level
// {Add(value) | Del(value)} operations and the fixed-size Word stream the
// chain layer stores, and provides a reference implementation.
//
// # Reference encoding
//
// Each operation is serialized as:
//
//	tag(1 byte) || length(varint) || bytes
//
// where tag is tagAdd or tagDel. The concatenated stream is split into
// 16-byte words; the final word is zero-padded. A reserved tagEnd tag
// terminates the logical stream inside the last word so Decode can tell
// padding from a truncated trailing record.
//
// # Tombstones
//
// Decode interprets the word stream as a log: a Del(v) anywhere in the
// stream suppresses every Add(v) that appears earlier in the stream. A
// later Add(v) after a Del(v) re-inserts v. This is the convention
// spec.md §9 calls out as the encoder-defined Open Question, resolved
// here exactly as stated: callers wanting "absolute deletion" (purging
// tombstones) must run a separate compaction pass, which this package
// does not implement.
package encoder
