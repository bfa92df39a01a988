package encoder

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/dreamware/findex/internal/memaddr"
)

// tagAdd/tagDel mirror Kind's wire values; tagEnd is the reserved
// end-of-log marker spec.md §4.4 calls for, letting Decode distinguish the
// last real record from the zero-padding that fills out the final word.
const (
	tagAdd byte = 0x00
	tagDel byte = 0x01
	tagEnd byte = 0xFF
)

// ErrMalformedPayload is returned by Decode when a chain's word stream
// cannot be parsed as a valid op log. This is an Encoding error in
// spec.md §7's taxonomy: it is returned to the caller and does not imply
// any corruption of Memory state.
var ErrMalformedPayload = errors.New("findex: malformed encoder payload")

// Reference is the default Encoder: each op is serialized as
// tag || varint(len(value)) || value, the concatenated stream is chunked
// into memaddr.WordLen-byte words, and the final word is zero-padded after
// a tagEnd marker.
type Reference struct{}

// Encode implements Encoder.
func (Reference) Encode(ops []Op) ([]memaddr.Word, error) {
	buf := make([]byte, 0, len(ops)*8+1)
	var lenBuf [binary.MaxVarintLen64]byte

	for _, op := range ops {
		tag := tagAdd
		if op.Kind == KindDel {
			tag = tagDel
		}
		buf = append(buf, tag)
		n := binary.PutUvarint(lenBuf[:], uint64(len(op.Value)))
		buf = append(buf, lenBuf[:n]...)
		buf = append(buf, op.Value...)
	}
	buf = append(buf, tagEnd)

	numWords := (len(buf) + memaddr.WordLen - 1) / memaddr.WordLen
	if numWords == 0 {
		numWords = 1
	}
	words := make([]memaddr.Word, numWords)
	for i := 0; i < numWords; i++ {
		start := i * memaddr.WordLen
		end := start + memaddr.WordLen
		if end > len(buf) {
			end = len(buf)
		}
		copy(words[i][:], buf[start:end])
	}
	return words, nil
}

// Decode implements Encoder. It replays the op log in order, applying
// tombstone semantics: a Del(v) suppresses every Add(v) that precedes it;
// a later Add(v) re-inserts. The returned slice preserves the order in
// which each surviving value first appeared in the log (as an Add or a Del).
func (Reference) Decode(words []memaddr.Word) ([][]byte, error) {
	buf := make([]byte, 0, len(words)*memaddr.WordLen)
	for _, w := range words {
		buf = append(buf, w[:]...)
	}

	alive := make(map[string]bool)
	var order []string

	pos := 0
	for {
		if pos >= len(buf) {
			// Ran off the end without an explicit tagEnd. Treat as
			// malformed rather than silently accepting a truncated log.
			return nil, fmt.Errorf("%w: missing end-of-log marker", ErrMalformedPayload)
		}
		tag := buf[pos]
		pos++
		if tag == tagEnd {
			break
		}
		if tag != tagAdd && tag != tagDel {
			return nil, fmt.Errorf("%w: unknown tag 0x%02x", ErrMalformedPayload, tag)
		}

		length, n := binary.Uvarint(buf[pos:])
		if n <= 0 {
			return nil, fmt.Errorf("%w: invalid varint length prefix", ErrMalformedPayload)
		}
		pos += n

		if pos+int(length) > len(buf) {
			return nil, fmt.Errorf("%w: value length %d exceeds remaining payload", ErrMalformedPayload, length)
		}
		value := string(buf[pos : pos+int(length)])
		pos += int(length)

		if _, seen := alive[value]; !seen {
			order = append(order, value)
		}
		alive[value] = tag == tagAdd
	}

	out := make([][]byte, 0, len(order))
	for _, v := range order {
		if alive[v] {
			out = append(out, []byte(v))
		}
	}
	return out, nil
}
