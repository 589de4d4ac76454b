package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindMigrationsDir(t *testing.T) {
	root := t.TempDir()
	migrations := filepath.Join(root, "database", "migrations")
	require.NoError(t, os.MkdirAll(migrations, 0o755))

	t.Run("from repo root", func(t *testing.T) {
		got, err := FindMigrationsDir(root)
		require.NoError(t, err)
		assert.Equal(t, migrations, got)
	})

	t.Run("walks up from cmd dir", func(t *testing.T) {
		cmdDir := filepath.Join(root, "cmd", "migrate")
		require.NoError(t, os.MkdirAll(cmdDir, 0o755))

		got, err := FindMigrationsDir(cmdDir)
		require.NoError(t, err)
		assert.Equal(t, migrations, got)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := FindMigrationsDir(t.TempDir())
		assert.Error(t, err)
	})
}
