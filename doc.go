// Package findex implements a symmetric searchable encryption index: an
// encrypted multi-map from keyword to a set of opaque values, backed by any
// Memory that satisfies memaddr.Memory. See doc.go in internal/memaddr,
// internal/crypto, internal/chain and internal/encoder for the layering this
// package composes.
//
// # Composition
//
// A Findex is three layers wrapped around a caller-supplied Memory:
//
//	chain.Chain  -- per-keyword address derivation, CAS append, batched read
//	  |
//	crypto.EncryptedMemory -- tweakable-cipher encryption of every word
//	  |
//	memaddr.Memory -- the caller's storage backend
//
// New derives the three sub-keys (AddressKey, TweakKey, DataKey) from a
// single 32-byte seed via internal/crypto.DeriveKeys, wraps the given Memory
// in an EncryptedMemory under TweakKey/DataKey, and keeps AddressKey to seed
// a fresh chain.Chain per keyword on every call. Two Findex handles built
// from the same seed over the same Memory interoperate: scenario 6 of this
// package's tests constructs exactly that pair.
//
// # Errors
//
// All errors returned from Insert, Delete and Search are *Error, carrying a
// Kind that distinguishes the taxonomy of § 7: KindMemory, KindCrypto,
// KindEncoding and KindInvariant. Contention is not part of this
// taxonomy; guard-mismatch retries are invisible to callers and never
// surfaced as an error.
package findex
