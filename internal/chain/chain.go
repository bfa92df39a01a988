package chain

import (
	"context"
	"errors"
	"fmt"

	"github.com/dreamware/findex/internal/memaddr"
)

// ErrInvariantViolation is returned when the underlying Memory behaves in a
// way a correct Memory never would — most notably, a header whose counter
// decreased. A correct Memory never does this; surfacing it as a distinct,
// fatal error kind aids debugging rather than silently corrupting state.
var ErrInvariantViolation = errors.New("findex: chain invariant violation")

// Chain binds one keyword to the Memory it is stored in, deriving its own
// addresses from the address-derivation key. A Chain value is cheap to
// construct and holds no mutable state of its own — all state lives in
// Memory.
type Chain struct {
	mem memaddr.Memory
	skw [32]byte
}

// New derives the per-keyword seed and returns a Chain ready for Insert and
// Read against mem.
func New(mem memaddr.Memory, addressKey [32]byte, keyword []byte) Chain {
	return Chain{mem: mem, skw: seedForKeyword(addressKey, keyword)}
}

// Insert appends words to the chain, retrying on guard contention until the
// write succeeds. An empty words slice is a no-op. Insert never returns
// without either succeeding, hitting a Memory-level error, or observing a
// header counter regression (ErrInvariantViolation); contention is
// not an error and is retried unboundedly, so callers who want an upper
// bound on retry latency must impose their own context deadline.
func (c Chain) Insert(ctx context.Context, words []memaddr.Word) error {
	if len(words) == 0 {
		return nil
	}

	headerAddr := addressAt(c.skw, 0)

	curHeaderWords, err := c.mem.BatchRead(ctx, []memaddr.Address{headerAddr})
	if err != nil {
		return fmt.Errorf("findex: read chain header: %w", err)
	}
	var curHeader *header
	if curHeaderWords[0] != nil {
		h := decodeHeader(*curHeaderWords[0])
		curHeader = &h
	}

	for {
		counter := uint32(0)
		if curHeader != nil {
			counter = curHeader.counter
		}

		newCounter := counter + uint32(len(words))
		newHeader := header{counter: newCounter}

		bindings := make([]memaddr.Binding, 0, len(words)+1)
		bindings = append(bindings, memaddr.Binding{Addr: headerAddr, Word: newHeader.encode()})
		payloadAddrs := addressRange(c.skw, uint64(counter)+1, uint64(len(words)))
		for i, w := range words {
			bindings = append(bindings, memaddr.Binding{Addr: payloadAddrs[i], Word: w})
		}

		var guardPrev *memaddr.Word
		if curHeader != nil {
			hw := curHeader.encode()
			guardPrev = &hw
		}

		observed, ok, err := c.mem.GuardedWrite(ctx, memaddr.Guard{Addr: headerAddr, Prev: guardPrev}, bindings)
		if err != nil {
			return fmt.Errorf("findex: guarded write: %w", err)
		}
		if ok {
			return nil
		}

		if observed == nil {
			// This attempt guarded on an existing header, but the guard
			// address reads as unwritten: start over as if the chain
			// were empty.
			curHeader = nil
			continue
		}
		observedHeader := decodeHeader(*observed)
		if curHeader != nil && observedHeader.counter < curHeader.counter {
			return fmt.Errorf("%w: header counter regressed from %d to %d", ErrInvariantViolation, curHeader.counter, observedHeader.counter)
		}
		curHeader = &observedHeader
	}
}

// Read performs the wait-free search protocol: one header read followed by
// one batch read of the committed payload range. It returns an empty slice
// if the chain has never been written.
func (c Chain) Read(ctx context.Context) ([]memaddr.Word, error) {
	headerAddr := addressAt(c.skw, 0)

	headerWords, err := c.mem.BatchRead(ctx, []memaddr.Address{headerAddr})
	if err != nil {
		return nil, fmt.Errorf("findex: read chain header: %w", err)
	}
	if headerWords[0] == nil {
		return nil, nil
	}

	h := decodeHeader(*headerWords[0])
	if h.counter == 0 {
		return nil, nil
	}

	payloadAddrs := addressRange(c.skw, 1, uint64(h.counter))
	payload, err := c.mem.BatchRead(ctx, payloadAddrs)
	if err != nil {
		return nil, fmt.Errorf("findex: read chain payload: %w", err)
	}

	out := make([]memaddr.Word, len(payload))
	for i, w := range payload {
		if w == nil {
			return nil, fmt.Errorf("%w: payload word %d missing for a committed chain", ErrInvariantViolation, i+1)
		}
		out[i] = *w
	}
	return out, nil
}
