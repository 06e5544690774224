// Package schemacheck compares a table's columns against an expected set.
package schemacheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Defaults for the users profile table.
const DefaultTable = "users"

// DefaultColumns are the columns the user profile table is expected to carry.
var DefaultColumns = []string{"id", "email", "name", "avatar_url", "created_at", "updated_at"}

var (
	ErrNoLister      = errors.New("column lister is nil")
	ErrTableNotFound = errors.New("table not found")
)

// ColumnLister returns the column names of a table.
type ColumnLister interface {
	Columns(ctx context.Context, table string) ([]string, error)
}

// Report is the outcome of a check.
type Report struct {
	Table   string
	Columns []string
	Present []string
	Missing []string
}

// OK reports whether every expected column exists.
func (r Report) OK() bool {
	return len(r.Missing) == 0
}

// WriteTo prints a human readable summary.
func (r Report) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "table %s: %d columns\n", r.Table, len(r.Columns))
	for _, c := range r.Columns {
		fmt.Fprintf(&b, "  - %s\n", c)
	}
	for _, c := range r.Present {
		fmt.Fprintf(&b, "ok      %s\n", c)
	}
	for _, c := range r.Missing {
		fmt.Fprintf(&b, "missing %s\n", c)
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// Checker runs the comparison.
type Checker struct {
	lister   ColumnLister
	table    string
	expected []string
}

// Option configures a Checker.
type Option func(*Checker)

// WithTable overrides DefaultTable.
func WithTable(table string) Option {
	return func(c *Checker) {
		if table != "" {
			c.table = table
		}
	}
}

// WithExpected overrides DefaultColumns.
func WithExpected(cols ...string) Option {
	return func(c *Checker) {
		if len(cols) > 0 {
			c.expected = append([]string(nil), cols...)
		}
	}
}

// New creates a Checker.
func New(lister ColumnLister, opts ...Option) *Checker {
	c := &Checker{
		lister:   lister,
		table:    DefaultTable,
		expected: append([]string(nil), DefaultColumns...),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check lists the table's columns and classifies each expected column.
// Column names compare case-insensitively.
func (c *Checker) Check(ctx context.Context) (Report, error) {
	if c.lister == nil {
		return Report{}, ErrNoLister
	}
	cols, err := c.lister.Columns(ctx, c.table)
	if err != nil {
		return Report{}, fmt.Errorf("list columns: %w", err)
	}
	if len(cols) == 0 {
		return Report{}, fmt.Errorf("%w: %s", ErrTableNotFound, c.table)
	}

	have := make(map[string]struct{}, len(cols))
	for _, col := range cols {
		have[strings.ToLower(col)] = struct{}{}
	}

	r := Report{Table: c.table, Columns: cols}
	for _, want := range c.expected {
		if _, ok := have[strings.ToLower(want)]; ok {
			r.Present = append(r.Present, want)
		} else {
			r.Missing = append(r.Missing, want)
		}
	}
	return r, nil
}
