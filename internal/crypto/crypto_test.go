package crypto

import (
	"context"
	"testing"

	"github.com/dreamware/findex/internal/memaddr"
)

func TestDeriveKeysIsDeterministicAndDomainSeparated(t *testing.T) {
	var seed [SeedLen]byte
	for i := range seed {
		seed[i] = byte(i)
	}

	k1 := DeriveKeys(seed)
	k2 := DeriveKeys(seed)
	if k1 != k2 {
		t.Fatalf("DeriveKeys must be deterministic for a fixed seed")
	}

	if k1.AddressKey == [32]byte{} {
		t.Fatalf("address key must not be zero")
	}
	if k1.TweakKey == k1.DataKey {
		t.Fatalf("tweak key and data key must be domain-separated")
	}

	var other [SeedLen]byte
	copy(other[:], seed[:])
	other[0] ^= 0xFF
	k3 := DeriveKeys(other)
	if k1.AddressKey == k3.AddressKey {
		t.Fatalf("distinct seeds must not derive the same address key")
	}
}

func TestEncryptedMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	var seed [SeedLen]byte
	seed[0] = 7
	keys := DeriveKeys(seed)

	enc, err := NewEncryptedMemory(memaddr.NewMemoryStore(), keys)
	if err != nil {
		t.Fatalf("NewEncryptedMemory failed: %v", err)
	}

	var a memaddr.Address
	a[0] = 1
	var w memaddr.Word
	copy(w[:], "hello world!!!!")

	if _, ok, err := enc.GuardedWrite(ctx, memaddr.Guard{Addr: a}, []memaddr.Binding{{Addr: a, Word: w}}); err != nil || !ok {
		t.Fatalf("GuardedWrite failed: ok=%v err=%v", ok, err)
	}

	got, err := enc.BatchRead(ctx, []memaddr.Address{a})
	if err != nil {
		t.Fatalf("BatchRead failed: %v", err)
	}
	if got[0] == nil || *got[0] != w {
		t.Errorf("expected %v, got %v", w, got[0])
	}
}

func TestEncryptedWordsAreIndistinguishableAcrossAddresses(t *testing.T) {
	// P6: two chains with identical plaintext but different addresses
	// must produce distinct ciphertext words.
	var seed [SeedLen]byte
	seed[0] = 9
	keys := DeriveKeys(seed)

	enc, err := NewEncryptedMemory(memaddr.NewMemoryStore(), keys)
	if err != nil {
		t.Fatalf("NewEncryptedMemory failed: %v", err)
	}

	var a1, a2 memaddr.Address
	a1[0], a2[0] = 1, 2
	var w memaddr.Word
	copy(w[:], "same plaintext!!")

	ct1 := enc.encryptWord(a1, w)
	ct2 := enc.encryptWord(a2, w)
	if ct1 == ct2 {
		t.Fatalf("identical plaintext at distinct addresses must not produce identical ciphertext")
	}
}
