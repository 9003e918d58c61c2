package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"staff-service/internal/entity"
)

type UserRepository struct {
	db      DBTX
	dialect Dialect
}

// NewUserRepository returns a repository running its statements on db, which
// may be the pool or an open transaction.
func NewUserRepository(db DBTX, dialect Dialect) *UserRepository {
	return &UserRepository{db: db, dialect: dialect}
}

// WithTx returns a copy of the repository bound to tx. The caller owns tx.
func (r *UserRepository) WithTx(tx *sql.Tx) *UserRepository {
	return &UserRepository{db: tx, dialect: r.dialect}
}

// Create inserts user. A taken username yields ErrConflict.
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	query := r.dialect.Rebind(`INSERT INTO users (username, first_name, last_name, role) VALUES (?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query, user.Username, user.FirstName, user.LastName, user.Role)
	if err != nil {
		if r.dialect.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrConflict, user.Username)
		}
		return storageErr("create user", err)
	}

	return nil
}

// Delete removes the user with the given username. It returns ErrNotFound
// when no row was affected.
func (r *UserRepository) Delete(ctx context.Context, username string) error {
	query := r.dialect.Rebind(`DELETE FROM users WHERE username = ?`)
	res, err := r.db.ExecContext(ctx, query, username)
	if err != nil {
		return storageErr("delete user", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("delete user", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, username)
	}

	return nil
}

// Get fetches a user by username. A missing row is not an error: it returns nil, nil.
func (r *UserRepository) Get(ctx context.Context, username string) (*entity.User, error) {
	query := r.dialect.Rebind(`SELECT username, first_name, last_name, role FROM users WHERE username = ?`)

	var u entity.User
	err := r.db.QueryRowContext(ctx, query, username).Scan(&u.Username, &u.FirstName, &u.LastName, &u.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("get user", err)
	}

	return &u, nil
}

// List returns every user in insertion order.
func (r *UserRepository) List(ctx context.Context) ([]entity.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT username, first_name, last_name, role FROM users ORDER BY id`)
	if err != nil {
		return nil, storageErr("list users", err)
	}
	defer rows.Close()

	users := make([]entity.User, 0)
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.Username, &u.FirstName, &u.LastName, &u.Role); err != nil {
			return nil, storageErr("list users", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list users", err)
	}

	return users, nil
}

// Ping runs a trivial query to prove the database answers.
func (r *UserRepository) Ping(ctx context.Context) error {
	var one int
	if err := r.db.QueryRowContext(ctx, `SELECT 1`).Scan(&one); err != nil {
		return storageErr("ping", err)
	}
	return nil
}
