// Package sqlitekv adapts a database/sql *sql.DB opened against the
// modernc.org/sqlite driver to memaddr.Memory, using the same two-column
// schema as internal/memory/postgreskv:
//
//	CREATE TABLE IF NOT EXISTS <table> (
//	    addr BLOB PRIMARY KEY,
//	    word BLOB NOT NULL
//	)
//
// SQLite has no row-level locking, so GuardedWrite instead runs inside a
// single write-exclusive transaction (BEGIN IMMEDIATE), which serializes
// against every other writer for the duration of the compare-and-set. The
// modernc.org/sqlite driver is pure Go, needing no cgo toolchain, which is
// why it is the reference choice here over mattn/go-sqlite3.
package sqlitekv
