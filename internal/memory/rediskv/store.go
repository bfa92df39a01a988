package rediskv

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dreamware/findex/internal/memaddr"
)

// guardedWriteScript implements the compare-and-set described in doc.go.
// KEYS[1] is the guard key; KEYS[2:] are the binding keys (the guard key may
// also appear among them, when the header address is itself one of the
// bindings). ARGV[1] is the expected previous value at the guard key, or the
// empty string to mean "I believe this key is unwritten" — safe because
// every real stored value is exactly memaddr.WordLen bytes, never empty.
// ARGV[2:] are the binding values, positionally matched to KEYS[2:].
var guardedWriteScript = redis.NewScript(`
local cur = redis.call('GET', KEYS[1])
local expected = ARGV[1]
local matches
if expected == '' then
  matches = (cur == false)
else
  matches = (cur == expected)
end
if not matches then
  if cur == false then
    return {0, ''}
  end
  return {0, cur}
end
for i = 2, #KEYS do
  redis.call('SET', KEYS[i], ARGV[i])
end
return {1, expected}
`)

// Memory adapts a Redis client to memaddr.Memory. Every key written by this
// adapter is namespaced under prefix, so multiple Findex instances may share
// one Redis database by using distinct prefixes.
type Memory struct {
	rdb    *redis.Client
	prefix string
}

// New returns a Memory storing words under keys of the form prefix+hex(addr).
func New(rdb *redis.Client, prefix string) *Memory {
	return &Memory{rdb: rdb, prefix: prefix}
}

func (m *Memory) key(a memaddr.Address) string {
	return m.prefix + hex.EncodeToString(a[:])
}

// BatchRead performs a single MGET across all addresses.
func (m *Memory) BatchRead(ctx context.Context, addrs []memaddr.Address) ([]*memaddr.Word, error) {
	if len(addrs) == 0 {
		return nil, nil
	}
	keys := make([]string, len(addrs))
	for i, a := range addrs {
		keys[i] = m.key(a)
	}

	raw, err := m.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: redis mget: %v", memaddr.ErrMemory, err)
	}

	out := make([]*memaddr.Word, len(addrs))
	for i, v := range raw {
		if v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected redis value type at index %d", memaddr.ErrMemory, i)
		}
		var w memaddr.Word
		if len(s) != memaddr.WordLen {
			return nil, fmt.Errorf("%w: stored value at %s has length %d, want %d", memaddr.ErrMemory, keys[i], len(s), memaddr.WordLen)
		}
		copy(w[:], s)
		out[i] = &w
	}
	return out, nil
}

// GuardedWrite runs guardedWriteScript to compare-and-set the guard address
// and apply every binding atomically.
func (m *Memory) GuardedWrite(ctx context.Context, guard memaddr.Guard, bindings []memaddr.Binding) (*memaddr.Word, bool, error) {
	if len(bindings) == 0 {
		return nil, false, errors.New("findex: guarded write requires at least one binding")
	}

	keys := make([]string, 0, len(bindings)+1)
	args := make([]interface{}, 0, len(bindings)+1)

	keys = append(keys, m.key(guard.Addr))
	if guard.Prev != nil {
		args = append(args, string(guard.Prev[:]))
	} else {
		args = append(args, "")
	}

	for _, b := range bindings {
		keys = append(keys, m.key(b.Addr))
		args = append(args, string(b.Word[:]))
	}

	res, err := guardedWriteScript.Run(ctx, m.rdb, keys, args...).Result()
	if err != nil {
		return nil, false, fmt.Errorf("%w: redis guarded write script: %v", memaddr.ErrMemory, err)
	}

	result, ok := res.([]interface{})
	if !ok || len(result) != 2 {
		return nil, false, fmt.Errorf("%w: unexpected guarded write script reply", memaddr.ErrMemory)
	}

	matched, ok := result[0].(int64)
	if !ok {
		return nil, false, fmt.Errorf("%w: unexpected guarded write match flag type", memaddr.ErrMemory)
	}

	valStr, _ := result[1].(string)
	if matched == 1 {
		return guard.Prev, true, nil
	}
	if valStr == "" {
		return nil, false, nil
	}
	if len(valStr) != memaddr.WordLen {
		return nil, false, fmt.Errorf("%w: observed guard value has length %d, want %d", memaddr.ErrMemory, len(valStr), memaddr.WordLen)
	}
	var cur memaddr.Word
	copy(cur[:], valStr)
	return &cur, false, nil
}
