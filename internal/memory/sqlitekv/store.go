package sqlitekv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/dreamware/findex/internal/memaddr"
)

// Memory adapts a *sql.DB opened against the modernc.org/sqlite driver to
// memaddr.Memory.
type Memory struct {
	db    *sql.DB
	table string
}

// Open opens path with the modernc.org/sqlite driver and returns a ready
// Memory backed by table, creating the table if it does not already exist.
func Open(ctx context.Context, path string, table string) (*Memory, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %v", memaddr.ErrMemory, err)
	}
	// A single open connection: every BatchRead and GuardedWrite queues on
	// it, and GuardedWrite additionally runs under BEGIN IMMEDIATE.
	db.SetMaxOpenConns(1)

	m := &Memory{db: db, table: table}
	if err := m.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return m, nil
}

// New wraps an already-opened *sql.DB; the caller retains ownership of db.
func New(db *sql.DB, table string) *Memory {
	return &Memory{db: db, table: table}
}

func (m *Memory) ensureSchema(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (addr BLOB PRIMARY KEY, word BLOB NOT NULL)`, m.table))
	if err != nil {
		return fmt.Errorf("%w: ensure schema: %v", memaddr.ErrMemory, err)
	}
	return nil
}

// Close closes the underlying *sql.DB. Only meaningful when the Memory was
// constructed via Open.
func (m *Memory) Close() error { return m.db.Close() }

// BatchRead issues one SELECT per address inside a single read transaction,
// since database/sql's driver interface gives no portable way to bind a
// slice parameter for an IN clause across drivers.
func (m *Memory) BatchRead(ctx context.Context, addrs []memaddr.Address) ([]*memaddr.Word, error) {
	if len(addrs) == 0 {
		return nil, nil
	}

	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("%w: begin read tx: %v", memaddr.ErrMemory, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`SELECT word FROM %s WHERE addr = ?`, m.table))
	if err != nil {
		return nil, fmt.Errorf("%w: prepare select: %v", memaddr.ErrMemory, err)
	}
	defer stmt.Close()

	out := make([]*memaddr.Word, len(addrs))
	for i, a := range addrs {
		var wordBytes []byte
		err := stmt.QueryRowContext(ctx, a[:]).Scan(&wordBytes)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: select: %v", memaddr.ErrMemory, err)
		}
		if len(wordBytes) != memaddr.WordLen {
			return nil, fmt.Errorf("%w: stored value has length %d, want %d", memaddr.ErrMemory, len(wordBytes), memaddr.WordLen)
		}
		var w memaddr.Word
		copy(w[:], wordBytes)
		out[i] = &w
	}
	return out, nil
}

// GuardedWrite runs inside a BEGIN IMMEDIATE transaction, serializing
// against every other writer for the duration of the compare-and-set.
func (m *Memory) GuardedWrite(ctx context.Context, guard memaddr.Guard, bindings []memaddr.Binding) (*memaddr.Word, bool, error) {
	if len(bindings) == 0 {
		return nil, false, errors.New("findex: guarded write requires at least one binding")
	}

	conn, err := m.db.Conn(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("%w: acquire conn: %v", memaddr.ErrMemory, err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return nil, false, fmt.Errorf("%w: begin immediate: %v", memaddr.ErrMemory, err)
	}
	committed := false
	defer func() {
		if !committed {
			conn.ExecContext(ctx, "ROLLBACK")
		}
	}()

	var observed []byte
	err = conn.QueryRowContext(ctx, fmt.Sprintf(`SELECT word FROM %s WHERE addr = ?`, m.table), guard.Addr[:]).Scan(&observed)
	exists := true
	if errors.Is(err, sql.ErrNoRows) {
		exists = false
		err = nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: select guard: %v", memaddr.ErrMemory, err)
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

	for _, b := range bindings {
		_, err := conn.ExecContext(ctx, fmt.Sprintf(
			`INSERT INTO %s (addr, word) VALUES (?, ?) ON CONFLICT (addr) DO UPDATE SET word = excluded.word`, m.table),
			b.Addr[:], b.Word[:])
		if err != nil {
			return nil, false, fmt.Errorf("%w: upsert binding: %v", memaddr.ErrMemory, err)
		}
	}

	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return nil, false, fmt.Errorf("%w: commit: %v", memaddr.ErrMemory, err)
	}
	committed = true
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
