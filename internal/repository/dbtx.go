package repository

import (
	"context"
	"database/sql"
)

// DBTX is the executable context the repository runs on. *sql.DB, *sql.Tx and
// *sql.Conn all satisfy it, so callers decide whether operations share a
// transaction. Nothing in this package begins, commits or rolls back.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
	_ DBTX = (*sql.Conn)(nil)
)
