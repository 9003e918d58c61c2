package repository

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

const (
	mysqlDuplicateEntry     = 1062
	postgresUniqueViolation = "23505"
)

// Dialect carries the per-driver differences the repository cares about:
// placeholder syntax and how a unique-key violation is reported.
type Dialect struct {
	name          string
	driverName    string
	numberedBinds bool
	isUnique      func(error) bool
}

var (
	MySQL = Dialect{
		name:       "mysql",
		driverName: "mysql",
		isUnique: func(err error) bool {
			var me *mysql.MySQLError
			return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
		},
	}

	Postgres = Dialect{
		name:          "postgres",
		driverName:    "pgx",
		numberedBinds: true,
		isUnique: func(err error) bool {
			var pgErr *pgconn.PgError
			return errors.As(err, &pgErr) && pgErr.Code == postgresUniqueViolation
		},
	}

	SQLite = Dialect{
		name:       "sqlite3",
		driverName: "sqlite3",
		isUnique: func(err error) bool {
			var se sqlite3.Error
			if !errors.As(err, &se) {
				return false
			}
			return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
				se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
		},
	}
)

// DialectFor maps a configured driver name to its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "mysql":
		return MySQL, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Name is the dialect's canonical name.
func (d Dialect) Name() string { return d.name }

// DriverName is the name to pass to sql.Open.
func (d Dialect) DriverName() string { return d.driverName }

// Rebind rewrites '?' placeholders to the dialect's syntax. Question marks
// inside single-quoted literals are left alone.
func (d Dialect) Rebind(query string) string {
	if !d.numberedBinds {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	inQuote := false
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsUniqueViolation reports whether err is the driver's unique-constraint error.
func (d Dialect) IsUniqueViolation(err error) bool {
	if err == nil || d.isUnique == nil {
		return false
	}
	return d.isUnique(err)
}
