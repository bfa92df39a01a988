package chain

import (
	"encoding/binary"

	"github.com/dreamware/findex/internal/memaddr"
)

// header is the decoded view of a chain's position-0 word: a big-endian
// uint32 counter of committed payload words, followed by 12 reserved bytes
// that are always zero in this implementation.
type header struct {
	counter uint32
}

func decodeHeader(w memaddr.Word) header {
	return header{counter: binary.BigEndian.Uint32(w[0:4])}
}

func (h header) encode() memaddr.Word {
	var w memaddr.Word
	binary.BigEndian.PutUint32(w[0:4], h.counter)
	return w
}
