package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFilePath(t *testing.T) {
	t.Run("rejects empty path", func(t *testing.T) {
		_, err := ValidateFilePath("")
		assert.Error(t, err)
	})

	t.Run("rejects shell metacharacters", func(t *testing.T) {
		for _, path := range []string{"data;rm -rf.db", "a|b.db", "$(whoami).db", "x`y`.db", "a\nb.db"} {
			_, err := ValidateFilePath(path)
			assert.Error(t, err, path)
		}
	})

	t.Run("cleans traversal components", func(t *testing.T) {
		dir := t.TempDir()
		got, err := ValidateFilePath(filepath.Join(dir, "sub", "..", "therapytrack.db"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "therapytrack.db"), got)
	})

	t.Run("makes relative paths absolute", func(t *testing.T) {
		got, err := ValidateFilePath("therapytrack.db")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got))
		assert.Equal(t, "therapytrack.db", filepath.Base(got))
	})

	t.Run("resolves symlinks", func(t *testing.T) {
		dir, err := filepath.EvalSymlinks(t.TempDir())
		require.NoError(t, err)
		target := filepath.Join(dir, "real.db")
		require.NoError(t, os.WriteFile(target, nil, 0o600))
		link := filepath.Join(dir, "link.db")
		require.NoError(t, os.Symlink(target, link))

		got, err := ValidateFilePath(link)
		require.NoError(t, err)
		assert.Equal(t, target, got)
	})
}

func TestValidateDatabasePath(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		dsn     string
		want    string
		wantErr bool
	}{
		{name: "memory", dsn: ":memory:", want: ":memory:"},
		{name: "plain file", dsn: filepath.Join(dir, "a.db"), want: filepath.Join(dir, "a.db")},
		{name: "keeps query", dsn: filepath.Join(dir, "a.db") + "?mode=ro", want: filepath.Join(dir, "a.db") + "?mode=ro"},
		{name: "bad file part", dsn: "a;b.db", wantErr: true},
		{name: "empty", dsn: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateDatabasePath(tt.dsn)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
