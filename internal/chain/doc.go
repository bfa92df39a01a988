// Package chain implements Findex's Chain Layer: deterministic per-keyword
// address derivation, chain header/counter maintenance, lock-free append
// under contention, and wait-free batched reads.
//
// # Address derivation
//
// Given the per-seed address-derivation key k, a chain is the sequence of
// addresses
//
//	addr(kw, 0), addr(kw, 1), addr(kw, 2), ...
//
// where addr(kw, i) = PRF'(PRF(k, kw), i). Position 0 is the header; it is
// never a payload word. Both PRF and PRF' are instantiated with SHA3-256,
// domain-separated from the KDF in internal/crypto by construction (they
// consume a different key).
//
// # Header
//
// The header word (memaddr.Word, 16 bytes) holds a big-endian uint32
// counter in its first 4 bytes followed by 12 reserved zero bytes. The
// counter is the number of committed payload words; the chain therefore
// occupies counter+1 words in total, including the header.
//
// # Insert
//
// Insert implements the six-step protocol from spec.md §4.3: read the
// header, compute the new header and the target payload addresses from the
// observed counter, and attempt a single GuardedWrite that lands the new
// header and every payload word atomically. On guard mismatch, the
// returned header carries the up-to-date counter; Insert recomputes target
// addresses from it and retries. Every retry observes a strictly larger
// counter, so the loop always terminates.
//
// # Search
//
// Read is wait-free: one header read, one batch read of the committed
// payload range, no retry loop. It observes a prefix of some linearization
// of completed inserts up to the moment the header was read.
package chain
