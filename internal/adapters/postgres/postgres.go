// Package postgres lists table columns from a PostgreSQL catalog.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq" // registers the postgres driver
)

const (
	driverName   = "postgres"
	maxOpenConns = 2
	maxIdleConns = 1

	columnsQuery = `SELECT column_name
FROM information_schema.columns
WHERE table_schema = $1 AND table_name = $2
ORDER BY ordinal_position`

	defaultSchema = "public"
)

var (
	ErrNoDSN   = errors.New("database url is empty")
	ErrConnect = errors.New("connect to database")
	ErrQuery   = errors.New("query columns")
)

// DB is a column lister backed by database/sql.
type DB struct {
	db *sql.DB
}

// Open connects and pings the database at dsn.
func Open(ctx context.Context, dsn string) (*DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, ErrNoDSN
	}
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	return &DB{db: db}, nil
}

// New wraps an existing handle.
func New(db *sql.DB) *DB {
	return &DB{db: db}
}

// Columns returns the column names of table in catalog order. A table may be
// schema-qualified ("auth.users"); otherwise the public schema is used.
func (d *DB) Columns(ctx context.Context, table string) ([]string, error) {
	schema, name := splitTable(table)
	rows, err := d.db.QueryContext(ctx, columnsQuery, schema, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrQuery, table, err)
	}
	defer func() { _ = rows.Close() }()

	var cols []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrQuery, table, err)
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrQuery, table, err)
	}
	return cols, nil
}

// Close releases the underlying pool.
func (d *DB) Close() error {
	return d.db.Close()
}

func splitTable(table string) (schema, name string) {
	if s, n, ok := strings.Cut(table, "."); ok && s != "" && n != "" {
		return s, n
	}
	return defaultSchema, table
}
