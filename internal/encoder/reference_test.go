package encoder

import (
	"bytes"
	"errors"
	"testing"

	"github.com/dreamware/findex/internal/memaddr"
)

func decodeSorted(t *testing.T, got [][]byte) []string {
	t.Helper()
	out := make([]string, len(got))
	for i, v := range got {
		out[i] = string(v)
	}
	return out
}

func containsAll(t *testing.T, got [][]byte, want ...string) {
	t.Helper()
	set := make(map[string]bool, len(got))
	for _, v := range got {
		set[string(v)] = true
	}
	for _, w := range want {
		if !set[w] {
			t.Errorf("expected %q in decoded set %v", w, decodeSorted(t, got))
		}
	}
	if len(set) != len(want) {
		t.Errorf("expected exactly %v, got %v", want, decodeSorted(t, got))
	}
}

func TestReferenceEncoderRoundTrip(t *testing.T) {
	var ref Reference

	words, err := ref.Encode([]Op{Add([]byte("1")), Add([]byte("3")), Add([]byte("5"))})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	got, err := ref.Decode(words)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	containsAll(t, got, "1", "3", "5")
}

func TestReferenceEncoderTombstoneSemantics(t *testing.T) {
	var ref Reference

	// scenario 2 from spec.md §8: insert 1, delete 1, re-insert 1.
	words, err := ref.Encode([]Op{Add([]byte("1")), Del([]byte("1")), Add([]byte("1"))})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	got, err := ref.Decode(words)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	containsAll(t, got, "1")

	words, err = ref.Encode([]Op{Add([]byte("1")), Del([]byte("1"))})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	got, err = ref.Decode(words)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no values after trailing delete, got %v", decodeSorted(t, got))
	}
}

func TestReferenceEncoderLargeValueChunksAcrossManyWords(t *testing.T) {
	var ref Reference
	big := bytes.Repeat([]byte{0xAB}, 10*1024) // scenario 5: a 10 KB value

	words, err := ref.Encode([]Op{Add(big)})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(words) < 10*1024/16 {
		t.Fatalf("expected at least %d words for a 10KB value, got %d", 10*1024/16, len(words))
	}

	got, err := ref.Decode(words)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(got) != 1 || !bytes.Equal(got[0], big) {
		t.Errorf("expected the exact 10KB value back, got %d bytes", len(got))
	}
}

func TestReferenceEncoderEmptyOpsProducesDecodableEmptyLog(t *testing.T) {
	var ref Reference
	words, err := ref.Encode(nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	got, err := ref.Decode(words)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty decode, got %v", decodeSorted(t, got))
	}
}

func TestReferenceEncoderRejectsMalformedPayload(t *testing.T) {
	var ref Reference

	t.Run("missing end marker", func(t *testing.T) {
		// A value big enough to span multiple words, with the final word
		// (carrying the tagEnd marker) stripped off to simulate truncation.
		big := bytes.Repeat([]byte{0x42}, 64)
		words, err := ref.Encode([]Op{Add(big)})
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		truncated := words[:len(words)-1]
		if _, err := ref.Decode(truncated); !errors.Is(err, ErrMalformedPayload) {
			t.Errorf("expected ErrMalformedPayload, got %v", err)
		}
	})

	t.Run("unknown tag", func(t *testing.T) {
		var w memaddr.Word
		w[0] = 0x7F // neither tagAdd, tagDel, nor tagEnd
		if _, err := ref.Decode([]memaddr.Word{w}); !errors.Is(err, ErrMalformedPayload) {
			t.Errorf("expected ErrMalformedPayload, got %v", err)
		}
	})

	t.Run("truncated varint", func(t *testing.T) {
		var w memaddr.Word
		w[0] = tagAdd
		for i := 1; i < len(w); i++ {
			w[i] = 0xFF // continuation bit set all the way to the end of the word
		}
		if _, err := ref.Decode([]memaddr.Word{w}); !errors.Is(err, ErrMalformedPayload) {
			t.Errorf("expected ErrMalformedPayload, got %v", err)
		}
	})

	t.Run("length exceeds remaining payload", func(t *testing.T) {
		var w memaddr.Word
		w[0] = tagAdd
		w[1] = 0x7F // claims a 127-byte value but only one word (16 bytes) exists
		if _, err := ref.Decode([]memaddr.Word{w}); !errors.Is(err, ErrMalformedPayload) {
			t.Errorf("expected ErrMalformedPayload, got %v", err)
		}
	})
}
