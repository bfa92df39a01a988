// Package postgreskv adapts a github.com/jackc/pgx/v5/pgxpool.Pool to
// memaddr.Memory, storing every address/word pair as a row in a single
// table:
//
//	CREATE TABLE IF NOT EXISTS <table> (
//	    addr BYTEA PRIMARY KEY,
//	    word BYTEA NOT NULL
//	)
//
// BatchRead issues one parameterised SELECT ... WHERE addr = ANY($1).
// GuardedWrite runs inside a single transaction: it takes SELECT ... FOR
// UPDATE on the guard row to serialize concurrent attempts against the same
// address, compares the observed word against the caller's expectation, and
// on a match applies every binding with a batched INSERT ... ON CONFLICT
// (addr) DO UPDATE before committing. A mismatch rolls back without writing
// anything and returns the row's actual current content.
package postgreskv
