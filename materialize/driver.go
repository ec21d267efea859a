// Package materialize turns an inferred schema into DDL for a live database
// and applies it.
package materialize

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"    // SQLite driver
)

// Dialect is a target SQL dialect
type Dialect string

const (
	DialectSQLite     Dialect = "sqlite"
	DialectPostgreSQL Dialect = "postgresql"
	DialectMySQL      Dialect = "mysql"
)

// NormalizeDriverName maps user facing driver names to database/sql driver names
func NormalizeDriverName(driver string) string {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "postgres", "postgresql", "pgx":
		return "pgx"
	case "mysql", "mariadb":
		return "mysql"
	case "sqlite", "sqlite3":
		return "sqlite3"
	default:
		return strings.ToLower(strings.TrimSpace(driver))
	}
}

// DialectFromDriver returns the dialect spoken by a driver
func DialectFromDriver(driver string) (Dialect, error) {
	switch NormalizeDriverName(driver) {
	case "":
		return "", ErrEmptyDriver
	case "pgx":
		return DialectPostgreSQL, nil
	case "mysql":
		return DialectMySQL, nil
	case "sqlite3":
		return DialectSQLite, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedDatabase, driver)
	}
}

// Open opens and pings a database. In-memory SQLite databases are limited
// to one connection so that every statement sees the same database.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, Dialect, error) {
	dialect, err := DialectFromDriver(driver)
	if err != nil {
		return nil, "", err
	}

	db, err := sql.Open(NormalizeDriverName(driver), dsn)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	if dialect == DialectSQLite && strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	return db, dialect, nil
}
