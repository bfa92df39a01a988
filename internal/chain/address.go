package chain

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"

	"github.com/dreamware/findex/internal/memaddr"
)

const (
	domainSeedForKeyword byte = 0x10
	domainAddrForIndex   byte = 0x11
)

// seedForKeyword derives the per-keyword seed s_kw = PRF(addressKey, kw),
// domain-separated from the final address derivation below so that the
// intermediate seed and the addresses it produces are independent outputs
// of the address-derivation key.
func seedForKeyword(addressKey [32]byte, keyword []byte) [32]byte {
	h := sha3.New256()
	h.Write([]byte{domainSeedForKeyword})
	h.Write(addressKey[:])
	h.Write(keyword)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// addressAt derives addr(kw, i) = PRF'(s_kw, i) for the big-endian 64-bit
// index i. Distinct (keyword, index) pairs yield addresses that are
// indistinguishable from uniform random 32-byte strings as long as s_kw is
// unknown to the observer, which is exactly the collision-freeness
// invariant spec.md §3 requires.
func addressAt(skw [32]byte, index uint64) memaddr.Address {
	var idxBytes [8]byte
	binary.BigEndian.PutUint64(idxBytes[:], index)

	h := sha3.New256()
	h.Write([]byte{domainAddrForIndex})
	h.Write(skw[:])
	h.Write(idxBytes[:])

	var a memaddr.Address
	copy(a[:], h.Sum(nil))
	return a
}

// addressRange derives addr(kw, start) .. addr(kw, start+count-1).
func addressRange(skw [32]byte, start uint64, count uint64) []memaddr.Address {
	out := make([]memaddr.Address, count)
	for i := uint64(0); i < count; i++ {
		out[i] = addressAt(skw, start+i)
	}
	return out
}
