// Package database hides the differences between the PostgreSQL and SQLite
// backends behind one Executor interface so repositories and the unit of
// work can run inside or outside a transaction.
package database

import (
	"context"
	"database/sql"
)

// Row is a single result row (pgx.Row or *sql.Row).
type Row interface {
	Scan(dest ...any) error
}

// Rows is a result cursor (pgx.Rows or *sql.Rows).
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error
}

// Result reports the outcome of Exec.
type Result interface {
	RowsAffected() (int64, error)
}

// Executor runs statements against a connection or a transaction.
type Executor interface {
	Exec(ctx context.Context, query string, args ...any) (Result, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
	Query(ctx context.Context, query string, args ...any) (Rows, error)
}

// Transaction is an Executor that can be committed or rolled back.
type Transaction interface {
	Executor
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Connection is a pooled handle to one of the supported backends.
type Connection interface {
	Executor
	BeginTx(ctx context.Context) (Transaction, error)
	Ping(ctx context.Context) error
	Close() error
	Driver() Driver
}

// SQLExecutor adapts a database/sql handle (*sql.DB or *sql.Tx) to Executor.
type SQLExecutor struct {
	Handle interface {
		ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
		QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
		QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	}
}

func (e SQLExecutor) Exec(ctx context.Context, query string, args ...any) (Result, error) {
	res, err := e.Handle.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (e SQLExecutor) QueryRow(ctx context.Context, query string, args ...any) Row {
	return e.Handle.QueryRowContext(ctx, query, args...)
}

func (e SQLExecutor) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := e.Handle.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
