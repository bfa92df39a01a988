package postgreskv

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dreamware/findex/internal/memaddr"
)

// Memory adapts a Postgres connection pool to memaddr.Memory. Table must
// already exist with the schema documented in doc.go; EnsureSchema creates
// it if the caller prefers not to manage migrations separately.
type Memory struct {
	pool  *pgxpool.Pool
	table string
}

// New returns a Memory backed by pool, reading and writing rows in table.
func New(pool *pgxpool.Pool, table string) *Memory {
	return &Memory{pool: pool, table: table}
}

// EnsureSchema creates the backing table if it does not already exist.
func (m *Memory) EnsureSchema(ctx context.Context) error {
	_, err := m.pool.Exec(ctx, fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (addr BYTEA PRIMARY KEY, word BYTEA NOT NULL)`, m.table))
	if err != nil {
		return fmt.Errorf("%w: ensure schema: %v", memaddr.ErrMemory, err)
	}
	return nil
}

// BatchRead issues a single parameterised SELECT across all addresses.
func (m *Memory) BatchRead(ctx context.Context, addrs []memaddr.Address) ([]*memaddr.Word, error) {
	if len(addrs) == 0 {
		return nil, nil
	}

	keys := make([][]byte, len(addrs))
	index := make(map[memaddr.Address]int, len(addrs))
	for i, a := range addrs {
		keys[i] = a[:]
		index[a] = i
	}

	rows, err := m.pool.Query(ctx, fmt.Sprintf(`SELECT addr, word FROM %s WHERE addr = ANY($1)`, m.table), keys)
	if err != nil {
		return nil, fmt.Errorf("%w: select: %v", memaddr.ErrMemory, err)
	}
	defer rows.Close()

	out := make([]*memaddr.Word, len(addrs))
	for rows.Next() {
		var addrBytes, wordBytes []byte
		if err := rows.Scan(&addrBytes, &wordBytes); err != nil {
			return nil, fmt.Errorf("%w: scan row: %v", memaddr.ErrMemory, err)
		}
		if len(addrBytes) != memaddr.AddressLen || len(wordBytes) != memaddr.WordLen {
			return nil, fmt.Errorf("%w: unexpected row width (addr=%d, word=%d)", memaddr.ErrMemory, len(addrBytes), len(wordBytes))
		}
		var a memaddr.Address
		copy(a[:], addrBytes)
		i, ok := index[a]
		if !ok {
			continue
		}
		var w memaddr.Word
		copy(w[:], wordBytes)
		out[i] = &w
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: row iteration: %v", memaddr.ErrMemory, err)
	}
	return out, nil
}

// GuardedWrite serializes on the guard row via SELECT ... FOR UPDATE inside
// a transaction, then applies the batch only if the observed word matches.
func (m *Memory) GuardedWrite(ctx context.Context, guard memaddr.Guard, bindings []memaddr.Binding) (*memaddr.Word, bool, error) {
	if len(bindings) == 0 {
		return nil, false, errors.New("findex: guarded write requires at least one binding")
	}

	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, false, fmt.Errorf("%w: begin tx: %v", memaddr.ErrMemory, err)
	}
	defer tx.Rollback(ctx)

	var observed []byte
	err = tx.QueryRow(ctx, fmt.Sprintf(`SELECT word FROM %s WHERE addr = $1 FOR UPDATE`, m.table), guard.Addr[:]).Scan(&observed)
	exists := true
	if errors.Is(err, pgx.ErrNoRows) {
		exists = false
		err = nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: select for update: %v", memaddr.ErrMemory, err)
	}

	match := (guard.Prev == nil && !exists) || (guard.Prev != nil && exists && bytesEqual(observed, guard.Prev[:]))
	if !match {
		if !exists {
			return nil, false, nil
		}
		if len(observed) != memaddr.WordLen {
			return nil, false, fmt.Errorf("%w: observed guard value has length %d, want %d", memaddr.ErrMemory, len(observed), memaddr.WordLen)
		}
		var cur memaddr.Word
		copy(cur[:], observed)
		return &cur, false, nil
	}

	batch := &pgx.Batch{}
	for _, b := range bindings {
		batch.Queue(fmt.Sprintf(
			`INSERT INTO %s (addr, word) VALUES ($1, $2) ON CONFLICT (addr) DO UPDATE SET word = EXCLUDED.word`, m.table),
			b.Addr[:], b.Word[:])
	}
	br := tx.SendBatch(ctx, batch)
	for range bindings {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return nil, false, fmt.Errorf("%w: batch insert: %v", memaddr.ErrMemory, err)
		}
	}
	if err := br.Close(); err != nil {
		return nil, false, fmt.Errorf("%w: close batch: %v", memaddr.ErrMemory, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("%w: commit: %v", memaddr.ErrMemory, err)
	}
	return guard.Prev, true, nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
