package crypto

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/dreamware/findex/internal/memaddr"
)

// EncryptedMemory wraps a plaintext memaddr.Memory to form a ciphertext
// Memory of identical shape: every Word write is encrypted and every Word
// read is decrypted, with the Address itself used as the per-word tweak.
// Addresses are never encrypted — they are already indistinguishable from
// uniform random bytes by construction (internal/chain), and the Memory
// interface requires them as plaintext lookup keys.
type EncryptedMemory struct {
	inner    memaddr.Memory
	tweakBlk cipher.Block
	dataBlk  cipher.Block
}

// NewEncryptedMemory constructs the Encryption Layer over inner, using the
// tweak and data keys from a derived Keys value.
func NewEncryptedMemory(inner memaddr.Memory, keys Keys) (*EncryptedMemory, error) {
	tweakBlk, err := aes.NewCipher(keys.TweakKey[:])
	if err != nil {
		return nil, fmt.Errorf("findex: tweak cipher: %w", err)
	}
	dataBlk, err := aes.NewCipher(keys.DataKey[:])
	if err != nil {
		return nil, fmt.Errorf("findex: data cipher: %w", err)
	}
	return &EncryptedMemory{inner: inner, tweakBlk: tweakBlk, dataBlk: dataBlk}, nil
}

// tweak derives the 16-byte XEX tweak block for an address by folding the
// 32-byte address into one AES block (XOR of its two halves) and running
// it through the tweak cipher. Folding keeps 128 bits of the address's
// PRF output; distinct addresses get distinct pseudorandom permutations
// unless their folded halves collide.
func (e *EncryptedMemory) tweak(a memaddr.Address) [memaddr.WordLen]byte {
	var folded [memaddr.WordLen]byte
	for i := 0; i < memaddr.WordLen; i++ {
		folded[i] = a[i] ^ a[i+memaddr.WordLen]
	}
	var out [memaddr.WordLen]byte
	e.tweakBlk.Encrypt(out[:], folded[:])
	return out
}

func (e *EncryptedMemory) encryptWord(a memaddr.Address, w memaddr.Word) memaddr.Word {
	tw := e.tweak(a)
	var xored [memaddr.WordLen]byte
	for i := range xored {
		xored[i] = w[i] ^ tw[i]
	}
	var ct memaddr.Word
	e.dataBlk.Encrypt(ct[:], xored[:])
	for i := range ct {
		ct[i] ^= tw[i]
	}
	return ct
}

func (e *EncryptedMemory) decryptWord(a memaddr.Address, ct memaddr.Word) memaddr.Word {
	tw := e.tweak(a)
	var xored [memaddr.WordLen]byte
	for i := range xored {
		xored[i] = ct[i] ^ tw[i]
	}
	var pt memaddr.Word
	e.dataBlk.Decrypt(pt[:], xored[:])
	for i := range pt {
		pt[i] ^= tw[i]
	}
	return pt
}

// BatchRead reads ciphertext words from the underlying Memory and decrypts
// each one under its own address's tweak.
func (e *EncryptedMemory) BatchRead(ctx context.Context, addrs []memaddr.Address) ([]*memaddr.Word, error) {
	raw, err := e.inner.BatchRead(ctx, addrs)
	if err != nil {
		return nil, err
	}
	out := make([]*memaddr.Word, len(raw))
	for i, ct := range raw {
		if ct == nil {
			continue
		}
		pt := e.decryptWord(addrs[i], *ct)
		out[i] = &pt
	}
	return out, nil
}

// GuardedWrite encrypts the guard's expected previous word and every
// binding under its own address's tweak, then delegates to the underlying
// Memory. The returned "current" word, if any, is decrypted back to
// plaintext before being handed to the caller.
func (e *EncryptedMemory) GuardedWrite(ctx context.Context, guard memaddr.Guard, bindings []memaddr.Binding) (*memaddr.Word, bool, error) {
	var ctGuard memaddr.Guard
	ctGuard.Addr = guard.Addr
	if guard.Prev != nil {
		ct := e.encryptWord(guard.Addr, *guard.Prev)
		ctGuard.Prev = &ct
	}

	ctBindings := make([]memaddr.Binding, len(bindings))
	for i, b := range bindings {
		ctBindings[i] = memaddr.Binding{Addr: b.Addr, Word: e.encryptWord(b.Addr, b.Word)}
	}

	cur, ok, err := e.inner.GuardedWrite(ctx, ctGuard, ctBindings)
	if err != nil {
		return nil, false, err
	}
	if cur == nil {
		return nil, ok, nil
	}
	pt := e.decryptWord(guard.Addr, *cur)
	return &pt, ok, nil
}
