// Command findexctl is a minimal CLI wiring a selectable Memory backend to
// the findex facade. It exists to exercise the core from the command line
// (insert/delete/search against a chosen backend); embedding a server
// around Findex is an explicit non-goal of the core itself, so this stays
// thin rather than growing into a daemon.
//
// Configuration:
//   - FINDEX_SEED_HEX: 64 hex characters (32 bytes), required.
//   - FINDEX_MEMORY: "memory" (default), "redis", "postgres", or "sqlite".
//   - FINDEX_REDIS_ADDR: required when FINDEX_MEMORY=redis.
//   - FINDEX_POSTGRES_DSN: required when FINDEX_MEMORY=postgres.
//   - FINDEX_SQLITE_PATH: required when FINDEX_MEMORY=sqlite.
//
// Usage:
//
//	findexctl insert <keyword> <value> [<value>...]
//	findexctl delete <keyword> <value> [<value>...]
//	findexctl search <keyword>
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dreamware/findex"
	"github.com/dreamware/findex/internal/encoder"
	"github.com/dreamware/findex/internal/memaddr"
	"github.com/dreamware/findex/internal/memory/postgreskv"
	"github.com/dreamware/findex/internal/memory/rediskv"
	"github.com/dreamware/findex/internal/memory/sqlitekv"
)

// logFatal is a variable to allow mocking log.Fatal in tests.
var logFatal = log.Fatalf

func main() {
	if len(os.Args) < 3 {
		logFatal("usage: findexctl <insert|delete|search> <keyword> [<value>...]")
		return
	}

	ctx := context.Background()
	seed := mustSeed()
	mem, closeMem := mustMemory(ctx)
	if closeMem != nil {
		defer closeMem()
	}

	f, err := findex.New(seed, mem, encoder.Reference{})
	if err != nil {
		logFatal("findex.New: %v", err)
		return
	}

	cmd := os.Args[1]
	keyword := []byte(os.Args[2])

	switch cmd {
	case "insert":
		values := toByteSlices(os.Args[3:])
		if err := f.Insert(ctx, keyword, values); err != nil {
			logFatal("insert: %v", err)
			return
		}
	case "delete":
		values := toByteSlices(os.Args[3:])
		if err := f.Delete(ctx, keyword, values); err != nil {
			logFatal("delete: %v", err)
			return
		}
	case "search":
		values, err := f.Search(ctx, keyword)
		if err != nil {
			logFatal("search: %v", err)
			return
		}
		for _, v := range values {
			fmt.Println(string(v))
		}
	default:
		logFatal("unknown command %q", cmd)
	}
}

func mustSeed() [32]byte {
	hexSeed := mustGetenv("FINDEX_SEED_HEX")
	raw, err := hex.DecodeString(hexSeed)
	if err != nil || len(raw) != 32 {
		logFatal("FINDEX_SEED_HEX must be 64 hex characters (32 bytes)")
		return [32]byte{}
	}
	var seed [32]byte
	copy(seed[:], raw)
	return seed
}

func mustMemory(ctx context.Context) (memaddr.Memory, func()) {
	switch getenv("FINDEX_MEMORY", "memory") {
	case "memory":
		return memaddr.NewMemoryStore(), nil
	case "redis":
		addr := mustGetenv("FINDEX_REDIS_ADDR")
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		return rediskv.New(rdb, "findex:"), func() { rdb.Close() }
	case "postgres":
		dsn := mustGetenv("FINDEX_POSTGRES_DSN")
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			logFatal("postgres connect: %v", err)
			return nil, nil
		}
		m := postgreskv.New(pool, "findex_words")
		if err := m.EnsureSchema(ctx); err != nil {
			logFatal("postgres schema: %v", err)
			return nil, nil
		}
		return m, pool.Close
	case "sqlite":
		path := mustGetenv("FINDEX_SQLITE_PATH")
		m, err := sqlitekv.Open(ctx, path, "findex_words")
		if err != nil {
			logFatal("sqlite open: %v", err)
			return nil, nil
		}
		return m, func() { m.Close() }
	default:
		logFatal("unknown FINDEX_MEMORY backend")
		return nil, nil
	}
}

func toByteSlices(args []string) [][]byte {
	out := make([][]byte, len(args))
	for i, a := range args {
		out[i] = []byte(a)
	}
	return out
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustGetenv(k string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	logFatal("missing env %s", k)
	return ""
}
