package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Driver names a database backend.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

func (d Driver) String() string {
	return string(d)
}

// IsValid reports whether d is a supported backend.
func (d Driver) IsValid() bool {
	return d == DriverPostgres || d == DriverSQLite
}

// DetectDriver infers the backend from a connection string. An empty URL
// selects SQLite so the CLI works without any setup.
func DetectDriver(url string) Driver {
	switch {
	case url == "":
		return DriverSQLite
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres
	case strings.HasPrefix(url, "sqlite://"),
		strings.HasPrefix(url, "file:"),
		strings.HasSuffix(url, ".db"),
		strings.HasSuffix(url, ".sqlite"),
		strings.HasSuffix(url, ".sqlite3"):
		return DriverSQLite
	default:
		return DriverPostgres
	}
}

// Config selects and configures a backend.
type Config struct {
	// Driver is detected from URL when empty or "auto".
	Driver Driver
	// URL is the PostgreSQL connection string.
	URL string
	// SQLitePath defaults to ~/.therapytrack/therapytrack.db.
	SQLitePath string
	// MaxConns caps the PostgreSQL pool.
	MaxConns int
}

// Opener creates a connection for one backend.
type Opener func(ctx context.Context, cfg Config) (Connection, error)

var openers = map[Driver]Opener{}

// Register makes a backend available to Open. Backend packages call it from
// init, so importing them for side effects enables the driver.
func Register(driver Driver, open Opener) {
	openers[driver] = open
}

// Open connects to the backend selected by cfg.
func Open(ctx context.Context, cfg Config) (Connection, error) {
	driver := cfg.Driver
	if driver == "" || driver == "auto" {
		driver = DetectDriver(cfg.URL)
	}
	if !driver.IsValid() {
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	open, ok := openers[driver]
	if !ok {
		return nil, fmt.Errorf("database driver %s is not registered", driver)
	}
	return open(ctx, cfg)
}

// DefaultSQLitePath returns the local-mode database file.
func DefaultSQLitePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".therapytrack", "therapytrack.db")
}

// EnsureDirectory creates the parent directory of path.
func EnsureDirectory(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
