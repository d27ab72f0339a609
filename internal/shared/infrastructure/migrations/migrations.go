// Package migrations applies the embedded schema for each database backend.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/felixgeelhaar/therapytrack/internal/shared/infrastructure/database"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

const createVersionTable = `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY)`

// Run applies every pending .up.sql file for the connection's driver in
// name order and records it in schema_migrations. It returns the names of
// the files it applied.
func Run(ctx context.Context, conn database.Connection) ([]string, error) {
	dir := string(conn.Driver())
	pending, err := upFiles(dir)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(ctx, createVersionTable); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	placeholder := "?"
	if conn.Driver() == database.DriverPostgres {
		placeholder = "$1"
	}

	var applied []string
	for _, name := range pending {
		var count int
		err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM schema_migrations WHERE version = `+placeholder, name).Scan(&count)
		if err != nil {
			return applied, fmt.Errorf("check migration %s: %w", name, err)
		}
		if count > 0 {
			continue
		}

		body, err := files.ReadFile(dir + "/" + name)
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", name, err)
		}

		uow := database.NewUnitOfWork(conn)
		err = database.WithUnitOfWork(ctx, uow, func(txCtx context.Context) error {
			exec := database.ExecutorFromContext(txCtx, conn)
			if _, err := exec.Exec(txCtx, string(body)); err != nil {
				return err
			}
			_, err := exec.Exec(txCtx, `INSERT INTO schema_migrations (version) VALUES (`+placeholder+`)`, name)
			return err
		})
		if err != nil {
			return applied, fmt.Errorf("apply migration %s: %w", name, err)
		}
		applied = append(applied, name)
	}

	return applied, nil
}

func upFiles(dir string) ([]string, error) {
	entries, err := fs.ReadDir(files, dir)
	if err != nil {
		return nil, fmt.Errorf("no migrations for driver %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
