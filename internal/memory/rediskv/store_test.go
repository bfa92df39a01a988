package rediskv

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/dreamware/findex/internal/memaddr"
)

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("FINDEX_TEST_REDIS_ADDR")
	if addr == "" {
		addr = "127.0.0.1:6379"
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("no redis reachable at %s: %v", addr, err)
	}
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func wordFromByte(b byte) memaddr.Word {
	var w memaddr.Word
	w[0] = b
	return w
}

func TestMemoryBatchReadOfUnwrittenAddressIsNil(t *testing.T) {
	ctx := context.Background()
	rdb := newTestClient(t)
	m := New(rdb, "findex-test:batchread-empty:")

	var addr memaddr.Address
	addr[0] = 1
	got, err := m.BatchRead(ctx, []memaddr.Address{addr})
	if err != nil {
		t.Fatalf("BatchRead failed: %v", err)
	}
	if got[0] != nil {
		t.Errorf("expected nil for unwritten address, got %v", got[0])
	}
}

func TestMemoryGuardedWriteInsertsWhenUnwritten(t *testing.T) {
	ctx := context.Background()
	rdb := newTestClient(t)
	m := New(rdb, "findex-test:insert:")

	var addr memaddr.Address
	addr[0] = 2
	w := wordFromByte(9)

	cur, ok, err := m.GuardedWrite(ctx, memaddr.Guard{Addr: addr, Prev: nil}, []memaddr.Binding{{Addr: addr, Word: w}})
	if err != nil {
		t.Fatalf("GuardedWrite failed: %v", err)
	}
	if !ok {
		t.Fatalf("expected guarded write on unwritten address to succeed")
	}
	if cur != nil {
		t.Errorf("expected nil cur on success against nil guard, got %v", cur)
	}

	got, err := m.BatchRead(ctx, []memaddr.Address{addr})
	if err != nil {
		t.Fatalf("BatchRead failed: %v", err)
	}
	if got[0] == nil || *got[0] != w {
		t.Errorf("expected %v stored, got %v", w, got[0])
	}
}

func TestMemoryGuardedWriteRejectsStaleGuard(t *testing.T) {
	ctx := context.Background()
	rdb := newTestClient(t)
	m := New(rdb, "findex-test:stale-guard:")

	var addr memaddr.Address
	addr[0] = 3
	w1 := wordFromByte(1)
	w2 := wordFromByte(2)

	if _, ok, err := m.GuardedWrite(ctx, memaddr.Guard{Addr: addr, Prev: nil}, []memaddr.Binding{{Addr: addr, Word: w1}}); err != nil || !ok {
		t.Fatalf("seed write failed: ok=%v err=%v", ok, err)
	}

	wrongPrev := wordFromByte(0xFF)
	cur, ok, err := m.GuardedWrite(ctx, memaddr.Guard{Addr: addr, Prev: &wrongPrev}, []memaddr.Binding{{Addr: addr, Word: w2}})
	if err != nil {
		t.Fatalf("GuardedWrite failed: %v", err)
	}
	if ok {
		t.Fatalf("expected guarded write with a stale guard to be rejected")
	}
	if cur == nil || *cur != w1 {
		t.Errorf("expected observed current value %v, got %v", w1, cur)
	}
}

func TestMemoryGuardedWriteAppliesEntireBatchAtomically(t *testing.T) {
	ctx := context.Background()
	rdb := newTestClient(t)
	m := New(rdb, "findex-test:batch:")

	var header, payload1, payload2 memaddr.Address
	header[0] = 10
	payload1[0] = 11
	payload2[0] = 12

	headerWord := wordFromByte(1)
	bindings := []memaddr.Binding{
		{Addr: header, Word: headerWord},
		{Addr: payload1, Word: wordFromByte(0xA1)},
		{Addr: payload2, Word: wordFromByte(0xA2)},
	}

	if _, ok, err := m.GuardedWrite(ctx, memaddr.Guard{Addr: header, Prev: nil}, bindings); err != nil || !ok {
		t.Fatalf("batch write failed: ok=%v err=%v", ok, err)
	}

	got, err := m.BatchRead(ctx, []memaddr.Address{header, payload1, payload2})
	if err != nil {
		t.Fatalf("BatchRead failed: %v", err)
	}
	for i, want := range []memaddr.Word{headerWord, wordFromByte(0xA1), wordFromByte(0xA2)} {
		if got[i] == nil || *got[i] != want {
			t.Errorf("binding %d: expected %v, got %v", i, want, got[i])
		}
	}
}
