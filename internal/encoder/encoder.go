package encoder

import (
	"github.com/dreamware/findex/internal/memaddr"
)

// Kind distinguishes an Add from a Del operation in the application-level
// log handed to Encode.
type Kind byte

const (
	// KindAdd inserts a value.
	KindAdd Kind = 0x00
	// KindDel tombstones a value, suppressing every earlier Add of it.
	KindDel Kind = 0x01
)

// Op is one application-level operation to encode: insert or delete a
// single value.
type Op struct {
	Kind  Kind
	Value []byte
}

// Add constructs an insert operation.
func Add(v []byte) Op { return Op{Kind: KindAdd, Value: v} }

// Del constructs a delete (tombstone) operation.
func Del(v []byte) Op { return Op{Kind: KindDel, Value: v} }

// Encoder translates between application Values and the chain layer's Word
// stream. Encode is total (any ops sequence produces a Word sequence);
// Decode may fail on a malformed payload, which the caller should surface
// as an encoding error rather than an invariant violation — a bad payload
// does not corrupt Memory state.
type Encoder interface {
	Encode(ops []Op) ([]memaddr.Word, error)
	Decode(words []memaddr.Word) ([][]byte, error)
}
