package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// migrationsSubdir is where the SQL migrations live relative to the repo root
const migrationsSubdir = "database/migrations"

// FindMigrationsDir locates the migrations directory starting from startDir
// and walking up the directory tree, so the migration runner works from the
// repo root as well as from inside cmd/.
func FindMigrationsDir(startDir string) (string, error) {
	dir := startDir
	for i := 0; i < 5; i++ {
		candidate := filepath.Join(dir, migrationsSubdir)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return filepath.Abs(candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("no %s directory found from %s upward", migrationsSubdir, startDir)
}
