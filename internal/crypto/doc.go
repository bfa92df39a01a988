// Package crypto implements Findex's key schedule and Encryption Layer.
//
// # Key schedule
//
// A single 32-byte user seed is expanded, via a SHA3-based KDF with
// domain-separated labels, into three independent sub-keys:
//
//   - the address-derivation key, consumed only by internal/chain;
//   - the tweak key and the data key of the Encryption Layer below.
//
// # Encryption Layer
//
// Every Word is exactly one AES block (16 bytes), so the "AES-XTS"
// construction described in spec.md §4.2 reduces to XEX: encrypt the
// Address into a tweak block under the tweak key, XOR it into the
// plaintext, encrypt under the data key, and XOR the tweak back in. This
// gives every address its own independent permutation while keeping the
// cipher length-preserving and deterministic, which is what lets
// GuardedWrite compose with encryption (the ciphertext comparison the
// underlying Memory performs is equivalent to a plaintext comparison).
//
// golang.org/x/crypto/xts is not used here because its tweak is a
// uint64 sector number; Findex needs a tweak keyed by an arbitrary
// 32-byte Address, so the tweak-block construction is implemented
// directly on top of crypto/aes, in the same spirit as the tweakable
// and format-preserving constructions (FF3-1, white-box AES) found
// elsewhere in this ecosystem.
package crypto
