// Package rediskv adapts a github.com/redis/go-redis/v9 client to
// memaddr.Memory, storing every word as a raw 16-byte value under a key
// derived from its address, namespaced by an instance-chosen prefix.
//
// BatchRead is a single MGET. GuardedWrite is a single Lua script
// (guardedWriteScript) executed via EVALSHA/EVAL: it GETs the guard key,
// compares it against the expected previous value, and on a match SETs every
// binding atomically before returning the match; Redis's single-threaded
// script execution makes the whole sequence atomic without a client-side
// transaction. On mismatch the script returns the value actually stored at
// the guard key (or a sentinel for "never written"), exactly mirroring
// memaddr.Memory's GuardedWrite contract.
package rediskv
