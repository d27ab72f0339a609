// Package postgres registers the pgx-backed PostgreSQL driver.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/felixgeelhaar/therapytrack/internal/shared/infrastructure/database"
)

func init() {
	database.Register(database.DriverPostgres, Open)
}

// Connection is a pgxpool.Pool behind database.Connection.
type Connection struct {
	pool *pgxpool.Pool
}

// Open creates a pool from cfg.URL.
func Open(ctx context.Context, cfg database.Config) (database.Connection, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database URL is required for PostgreSQL")
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	return &Connection{pool: pool}, nil
}

func (c *Connection) Driver() database.Driver { return database.DriverPostgres }

func (c *Connection) Close() error {
	c.pool.Close()
	return nil
}

func (c *Connection) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

func (c *Connection) BeginTx(ctx context.Context) (database.Transaction, error) {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &transaction{tx: tx}, nil
}

func (c *Connection) Exec(ctx context.Context, query string, args ...any) (database.Result, error) {
	return execPgx(ctx, c.pool, query, args...)
}

func (c *Connection) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	return c.pool.QueryRow(ctx, query, args...)
}

func (c *Connection) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	return queryPgx(ctx, c.pool, query, args...)
}

type transaction struct {
	tx pgx.Tx
}

func (t *transaction) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t *transaction) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

func (t *transaction) Exec(ctx context.Context, query string, args ...any) (database.Result, error) {
	return execPgx(ctx, t.tx, query, args...)
}

func (t *transaction) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	return t.tx.QueryRow(ctx, query, args...)
}

func (t *transaction) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	return queryPgx(ctx, t.tx, query, args...)
}

// pgxExecutor is the subset shared by *pgxpool.Pool and pgx.Tx.
type pgxExecutor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func execPgx(ctx context.Context, e pgxExecutor, sql string, args ...any) (database.Result, error) {
	tag, err := e.Exec(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return commandTag{tag: tag}, nil
}

func queryPgx(ctx context.Context, e pgxExecutor, sql string, args ...any) (database.Rows, error) {
	r, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return rows{r}, nil
}

type commandTag struct {
	tag pgconn.CommandTag
}

func (c commandTag) RowsAffected() (int64, error) {
	return c.tag.RowsAffected(), nil
}

// rows adapts pgx.Rows, whose Close has no error result.
type rows struct {
	pgx.Rows
}

func (r rows) Close() error {
	r.Rows.Close()
	return nil
}
