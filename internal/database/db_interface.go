// Package database provides database access and management for the Tunegie
// API. It implements a connection pool, transaction management, and common
// database operations.
package database

import (
	"context"
	"database/sql"
)

// Querier is the subset of connection operations the repositories,
// migrations, and seed scripts rely on. Everything is context-aware so
// callers keep control over timeouts.
type Querier interface {
	// ExecContext executes a statement without returning rows.
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)

	// QueryContext executes a query that returns rows.
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)

	// QueryRowContext executes a query expected to return at most one row.
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row

	// BeginTx starts a transaction with the provided context and options.
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)

	// PingContext verifies the connection is still alive.
	PingContext(ctx context.Context) error

	// Close closes the database, releasing any open resources.
	Close() error
}

// Compile-time checks that both the raw connection and the pool wrapper
// satisfy the data-layer contract.
var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*Pool)(nil)
)
