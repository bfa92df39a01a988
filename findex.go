package findex

import (
	"context"
	"errors"

	"github.com/dreamware/findex/internal/chain"
	"github.com/dreamware/findex/internal/crypto"
	"github.com/dreamware/findex/internal/encoder"
	"github.com/dreamware/findex/internal/memaddr"
)

// Findex is a searchable encrypted multi-map: Insert and Delete append
// tombstone-aware operations under a keyword's chain, and Search replays
// that chain through the Encoder to recover the surviving values. A Findex
// value holds no mutable state beyond its derived keys and is safe for
// concurrent use by multiple goroutines, and by multiple Findex handles
// built from the same seed over the same Memory (scenario 6).
type Findex struct {
	mem        *crypto.EncryptedMemory
	addressKey [32]byte
	enc        encoder.Encoder
}

// New derives the address, tweak and data keys from seed and constructs a
// Findex ready for Insert, Delete and Search against mem using enc to
// translate values to and from the chain's word stream. enc is typically
// encoder.Reference{}.
func New(seed [crypto.SeedLen]byte, mem memaddr.Memory, enc encoder.Encoder) (*Findex, error) {
	keys := crypto.DeriveKeys(seed)
	defer keys.Zero()

	em, err := crypto.NewEncryptedMemory(mem, keys)
	if err != nil {
		return nil, wrapErr(KindCrypto, "new", err)
	}

	return &Findex{
		mem:        em,
		addressKey: keys.AddressKey,
		enc:        enc,
	}, nil
}

// Insert adds values to the set indexed under keyword. Values already
// present are unaffected; a value previously deleted under this keyword is
// re-inserted, per the encoder's tombstone semantics.
func (f *Findex) Insert(ctx context.Context, keyword []byte, values [][]byte) error {
	return f.appendOps(ctx, keyword, values, encoder.KindAdd)
}

// Delete removes values from the set indexed under keyword. A value not
// currently present is a no-op once its chain is replayed: the tombstone is
// recorded regardless, matching the append-only chain this package builds
// on.
func (f *Findex) Delete(ctx context.Context, keyword []byte, values [][]byte) error {
	return f.appendOps(ctx, keyword, values, encoder.KindDel)
}

func (f *Findex) appendOps(ctx context.Context, keyword []byte, values [][]byte, kind encoder.Kind) error {
	if len(values) == 0 {
		return nil
	}

	ops := make([]encoder.Op, len(values))
	for i, v := range values {
		ops[i] = encoder.Op{Kind: kind, Value: v}
	}

	words, err := f.enc.Encode(ops)
	if err != nil {
		return wrapErr(KindEncoding, "insert", err)
	}

	c := chain.New(f.mem, f.addressKey, keyword)
	if err := c.Insert(ctx, words); err != nil {
		return wrapErr(classifyChainErr(err), "insert", err)
	}
	return nil
}

// Search returns every value currently alive under keyword: every Add not
// cancelled by a later Del, in first-seen order. An unwritten keyword
// returns an empty, non-nil slice and no error.
func (f *Findex) Search(ctx context.Context, keyword []byte) ([][]byte, error) {
	c := chain.New(f.mem, f.addressKey, keyword)
	words, err := c.Read(ctx)
	if err != nil {
		return nil, wrapErr(classifyChainErr(err), "search", err)
	}
	if len(words) == 0 {
		return [][]byte{}, nil
	}

	values, err := f.enc.Decode(words)
	if err != nil {
		return nil, wrapErr(KindEncoding, "search", err)
	}
	return values, nil
}

// classifyChainErr maps an error surfaced by internal/chain to the public
// error taxonomy: an invariant violation stays an invariant violation,
// everything else originates from the Memory the chain was built over.
func classifyChainErr(err error) Kind {
	if errors.Is(err, chain.ErrInvariantViolation) {
		return KindInvariant
	}
	return KindMemory
}
