// Package dbpath resolves the SQLite database location for CLI commands.
package dbpath

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ResolveSQLitePath finds the archive database. Precedence: explicit
// override, OMNIVERO_SQLITE / OMNIVERO_DB environment variables, then the
// first existing candidate location.
func ResolveSQLitePath(override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if envPath := strings.TrimSpace(os.Getenv("OMNIVERO_SQLITE")); envPath != "" {
		return envPath, nil
	}
	if envPath := strings.TrimSpace(os.Getenv("OMNIVERO_DB")); envPath != "" {
		return envPath, nil
	}

	for _, candidate := range sqliteCandidates() {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", errors.New("could not find omnivero SQLite database; pass --sqlite")
}

// DefaultSQLitePath is the location used when no database exists yet:
// omnivero.db inside the given dot-directory.
func DefaultSQLitePath(dotDir string) string {
	return filepath.Join(dotDir, "omnivero.db")
}

// DefaultVectorPath is the default sqlite-vec database location inside the
// given dot-directory. It is kept separate from the archive database so
// the vec0 virtual tables can be rebuilt without touching the archive.
func DefaultVectorPath(dotDir string) string {
	return filepath.Join(dotDir, "vectors.db")
}

func sqliteCandidates() []string {
	candidates := []string{
		"omnivero.db",
		"omnivero.sqlite",
		filepath.Join(".omnivero", "omnivero.db"),
		filepath.Join(".omnivero", "omnivero.sqlite"),
	}

	home, err := os.UserHomeDir()
	if err == nil {
		candidates = append([]string{
			filepath.Join(home, ".omnivero", "omnivero.db"),
			filepath.Join(home, ".omnivero", "omnivero.sqlite"),
		}, candidates...)
	}

	if xdgHome := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); xdgHome != "" {
		candidates = append([]string{
			filepath.Join(xdgHome, "omnivero", "omnivero.db"),
			filepath.Join(xdgHome, "omnivero", "omnivero.sqlite"),
		}, candidates...)
	}

	return candidates
}
