// Package memaddr defines the abstract Memory contract that every Findex
// back-end must satisfy, and provides an in-memory reference implementation.
// See doc.go for the package overview; see store.go for the types.
//
// # Overview
//
// The Memory abstraction is the single I/O boundary of the Findex engine.
// Everything above it — the encryption layer, the chain layer, the encoder,
// the facade — is pure CPU-bound computation between Memory calls. Memory
// itself is asynchronous from the caller's point of view: a back-end may be
// a local mutex-protected map, or a network round trip to Redis, PostgreSQL,
// or SQLite.
//
// # Architecture
//
//	┌─────────────────────────────────────┐
//	│           Findex facade             │
//	└─────────────────────────────────────┘
//	                 │
//	                 ▼
//	┌─────────────────────────────────────┐
//	│           Chain layer               │
//	└─────────────────────────────────────┘
//	                 │
//	                 ▼
//	┌─────────────────────────────────────┐
//	│        Encryption layer             │
//	└─────────────────────────────────────┘
//	                 │
//	                 ▼
//	┌─────────────────────────────────────┐
//	│         Memory interface            │
//	│   (BatchRead, GuardedWrite)          │
//	└─────────────────────────────────────┘
//	    │            │            │
//	    ▼            ▼            ▼
//	┌────────┐  ┌──────────┐ ┌──────────┐
//	│ in-mem │  │  redis   │ │ postgres │  ...
//	└────────┘  └──────────┘ └──────────┘
//
// # Guarded write
//
// GuardedWrite is the only mutation primitive. It is a compare-and-set over
// a batch: the caller supplies a guard address and the word it believes is
// currently stored there. If the stored word matches, every binding in the
// batch is applied atomically and the guard value is returned unchanged. If
// it does not match, nothing changes and the actually-observed word is
// returned so the caller can retry with up-to-date information.
//
// There are no server-side locks in this design. Concurrent writers race to
// install their batch; exactly one wins per guard address per round, and
// every loser observes forward progress (a strictly newer guard value) so
// retries terminate.
package memaddr
