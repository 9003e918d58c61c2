package migrations

import (
	"database/sql"
	"fmt"
	"time"

	"staff-service/internal/repository"
)

var usersTable = map[string]string{
	"mysql": `
		CREATE TABLE IF NOT EXISTS users (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			username VARCHAR(255) NOT NULL UNIQUE,
			first_name VARCHAR(255) NOT NULL DEFAULT '',
			last_name VARCHAR(255) NOT NULL DEFAULT '',
			role VARCHAR(64) NOT NULL DEFAULT 'user'
		);
	`,
	"postgres": `
		CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username VARCHAR(255) NOT NULL UNIQUE,
			first_name VARCHAR(255) NOT NULL DEFAULT '',
			last_name VARCHAR(255) NOT NULL DEFAULT '',
			role VARCHAR(64) NOT NULL DEFAULT 'user'
		);
	`,
	"sqlite3": `
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT 'user'
		);
	`,
}

// AutoMigrateUsers creates the users table if it does not exist, retrying
// each database up to retries extra times.
func AutoMigrateUsers(retries int, dialect repository.Dialect, dbs ...*sql.DB) error {
	query, ok := usersTable[dialect.Name()]
	if !ok {
		return fmt.Errorf("no users schema for dialect %q", dialect.Name())
	}

	for _, db := range dbs {
		_, err := db.Exec(query)
		// Retry creating the table
		for i := 0; err != nil && i < retries; i++ {
			time.Sleep(1 * time.Second)
			_, err = db.Exec(query)
		}
		if err != nil {
			return fmt.Errorf("create users table: %w", err)
		}
	}
	return nil
}
