// Package security validates user-supplied file paths.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// dangerousChars are shell metacharacters that never appear in a legitimate
// database path.
var dangerousChars = []string{";", "&", "|", "$", "`", "(", ")", "{", "}", "<", ">", "!", "\n", "\r"}

// ValidateFilePath cleans path, makes it absolute and resolves symlinks when
// the file exists. Paths containing shell metacharacters are rejected.
func ValidateFilePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("file path cannot be empty")
	}

	for _, char := range dangerousChars {
		if strings.Contains(path, char) {
			return "", fmt.Errorf("file path contains forbidden character %q: %s", char, path)
		}
	}

	cleanPath := filepath.Clean(path)
	if !filepath.IsAbs(cleanPath) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		cleanPath = filepath.Join(cwd, cleanPath)
	}

	resolvedPath, err := filepath.EvalSymlinks(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cleanPath, nil
		}
		return "", fmt.Errorf("failed to resolve file path: %w", err)
	}

	return resolvedPath, nil
}

// ValidateDatabasePath validates the file part of a SQLite DSN. A query
// string ("?mode=ro") is kept as is and the in-memory name is passed through.
func ValidateDatabasePath(dsn string) (string, error) {
	if dsn == ":memory:" {
		return dsn, nil
	}

	file, query, hasQuery := strings.Cut(dsn, "?")
	cleanPath, err := ValidateFilePath(file)
	if err != nil {
		return "", fmt.Errorf("invalid database path: %w", err)
	}
	if hasQuery {
		return cleanPath + "?" + query, nil
	}
	return cleanPath, nil
}
