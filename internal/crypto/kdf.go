package crypto

import (
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/sha3"
)

// SeedLen is the fixed width of the user-supplied seed.
const SeedLen = 32

// domain tags separate the three sub-keys derived from a single seed so
// that compromising one (e.g. the address-derivation key leaking through a
// side channel in the chain layer) does not help recover the others.
const (
	domainAddressKey byte = 0x01
	domainTweakKey   byte = 0x02
	domainDataKey    byte = 0x03
)

// Keys holds the three sub-keys derived from a Findex seed. AddressKey is
// consumed by the chain layer for PRF-based address derivation; TweakKey
// and DataKey are consumed by the Encryption Layer.
type Keys struct {
	AddressKey [32]byte
	TweakKey   [16]byte
	DataKey    [16]byte
}

// Zero overwrites every derived key with zero bytes. Callers should defer
// Zero as soon as a Keys value is no longer needed, mirroring the secrets
// handling discipline spec.md §9 requires of the seed itself.
func (k *Keys) Zero() {
	for i := range k.AddressKey {
		k.AddressKey[i] = 0
	}
	for i := range k.TweakKey {
		k.TweakKey[i] = 0
	}
	for i := range k.DataKey {
		k.DataKey[i] = 0
	}
}

// DeriveKeys expands a 32-byte seed into the address-derivation key and the
// two Encryption Layer keys via a SHA3-512-backed HKDF, one Expand call per
// domain tag. HKDF's Extract step is run once against the seed; each
// sub-key is a distinct Expand of that pseudorandom key under a one-byte
// info label, so the three outputs are independent even though they share
// an Extract.
func DeriveKeys(seed [SeedLen]byte) Keys {
	var keys Keys

	prk := hkdf.Extract(sha3.New512, seed[:], nil)

	readInto := func(tag byte, dst []byte) {
		r := hkdf.Expand(sha3.New512, prk, []byte{tag})
		if _, err := io.ReadFull(r, dst); err != nil {
			// hkdf.Expand only fails if more output is requested than the
			// hash's expansion limit (255 * hash size) allows; none of our
			// fixed-size outputs can ever hit that ceiling.
			panic("findex: hkdf expand: " + err.Error())
		}
	}

	readInto(domainAddressKey, keys.AddressKey[:])
	readInto(domainTweakKey, keys.TweakKey[:])
	readInto(domainDataKey, keys.DataKey[:])

	return keys
}
