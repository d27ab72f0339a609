// Package sqlite registers the pure-Go SQLite driver used in local mode.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/felixgeelhaar/therapytrack/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/therapytrack/internal/shared/infrastructure/security"
)

func init() {
	database.Register(database.DriverSQLite, Open)
}

const pragmas = "_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

// Connection is a *sql.DB behind database.Connection.
type Connection struct {
	database.SQLExecutor
	db *sql.DB
}

// Open opens the database file at cfg.SQLitePath, creating its directory.
// The pool is limited to one connection since SQLite has a single writer;
// this also keeps a ":memory:" database alive for the connection's lifetime.
func Open(ctx context.Context, cfg database.Config) (database.Connection, error) {
	path := cfg.SQLitePath
	if path == "" {
		path = database.DefaultSQLitePath()
	}
	path, err := security.ValidateDatabasePath(path)
	if err != nil {
		return nil, err
	}
	if path != ":memory:" {
		if err := database.EnsureDirectory(path); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}

	db, err := sql.Open("sqlite", path+sep+pragmas)
	if err != nil {
		return nil, fmt.Errorf("open SQLite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping SQLite database: %w", err)
	}

	return Wrap(db), nil
}

// Wrap adapts an already open *sql.DB.
func Wrap(db *sql.DB) *Connection {
	return &Connection{SQLExecutor: database.SQLExecutor{Handle: db}, db: db}
}

// DB exposes the underlying handle for migrations.
func (c *Connection) DB() *sql.DB { return c.db }

func (c *Connection) Driver() database.Driver { return database.DriverSQLite }

func (c *Connection) Close() error { return c.db.Close() }

func (c *Connection) Ping(ctx context.Context) error { return c.db.PingContext(ctx) }

func (c *Connection) BeginTx(ctx context.Context) (database.Transaction, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &transaction{SQLExecutor: database.SQLExecutor{Handle: tx}, tx: tx}, nil
}

type transaction struct {
	database.SQLExecutor
	tx *sql.Tx
}

func (t *transaction) Commit(context.Context) error   { return t.tx.Commit() }
func (t *transaction) Rollback(context.Context) error { return t.tx.Rollback() }
