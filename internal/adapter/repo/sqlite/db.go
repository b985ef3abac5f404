// Package sqlite stores simulation state in a local SQLite file. It backs the
// simctl command line tool, where running postgres is overkill.
package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS player_states (
		player_id TEXT PRIMARY KEY,
		day INTEGER NOT NULL,
		energy REAL NOT NULL,
		stress REAL NOT NULL,
		knowledge REAL NOT NULL,
		social REAL NOT NULL,
		money REAL NOT NULL,
		alloc_study REAL NOT NULL,
		alloc_work REAL NOT NULL,
		alloc_social REAL NOT NULL,
		alloc_rest REAL NOT NULL,
		alloc_exercise REAL NOT NULL,
		is_paused INTEGER NOT NULL,
		recovery_kind TEXT NOT NULL DEFAULT '',
		recovery_days INTEGER NOT NULL DEFAULT 0,
		pre_crash_allocation TEXT,
		version INTEGER NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS characters (
		player_id TEXT PRIMARY KEY,
		document TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tick_journal (
		id TEXT PRIMARY KEY,
		player_id TEXT NOT NULL,
		day INTEGER NOT NULL,
		deltas_json TEXT NOT NULL,
		resources_json TEXT NOT NULL,
		crash_kind TEXT NOT NULL DEFAULT '',
		narrative_triggered INTEGER NOT NULL,
		applied_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tick_journal_player ON tick_journal(player_id, applied_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

type txKeyType struct{}

var txKey = txKeyType{}

type querier interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

func (db *DB) q(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey).(*sqlx.Tx); ok && tx != nil {
		return tx
	}
	return db.conn
}

// RunInTx joins an outer transaction when one is already on ctx.
func (db *DB) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey).(*sqlx.Tx); ok {
		return fn(ctx)
	}
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(context.WithValue(ctx, txKey, tx)); err != nil {
		return err
	}
	return tx.Commit()
}
