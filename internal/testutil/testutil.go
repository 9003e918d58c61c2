package testutil

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"staff-service/internal/repository"
	"staff-service/migrations"
)

// OpenInMemoryDB opens a named in-memory SQLite database with the users table
// in place. The pool is capped at one connection so every statement sees the
// same memory database; do not use the pool while a transaction from it is open.
func OpenInMemoryDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	d, err := sql.Open(repository.SQLite.DriverName(), "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	d.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = d.Close() })

	if err := migrations.AutoMigrateUsers(0, repository.SQLite, d); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return d
}

// WithRollback runs fn inside a transaction that is always rolled back.
func WithRollback(t *testing.T, db *sql.DB, fn func(tx *sql.Tx)) {
	t.Helper()
	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	defer func() { _ = tx.Rollback() }()
	fn(tx)
}

// SeedUser inserts a fixture user unless the username already exists.
func SeedUser(t *testing.T, db repository.DBTX, dialect repository.Dialect, username string) {
	t.Helper()
	var query string
	switch dialect.Name() {
	case "mysql":
		query = `INSERT IGNORE INTO users (username, first_name, last_name, role) VALUES (?, 'Test', 'User', 'doctor')`
	default:
		query = `INSERT INTO users (username, first_name, last_name, role) VALUES (?, 'Test', 'User', 'doctor')
			ON CONFLICT (username) DO NOTHING`
	}
	if _, err := db.ExecContext(context.Background(), dialect.Rebind(query), username); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
}

// TruncateUsers empties the users table.
func TruncateUsers(t *testing.T, db repository.DBTX, dialect repository.Dialect) {
	t.Helper()
	query := `TRUNCATE TABLE users`
	if dialect.Name() == "sqlite3" {
		query = `DELETE FROM users`
	}
	if _, err := db.ExecContext(context.Background(), query); err != nil {
		t.Fatalf("truncate users: %v", err)
	}
}
