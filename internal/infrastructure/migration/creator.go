package migration

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Drivers with their own migration directory under sql/
var driverDirs = []string{"postgres", "sqlite"}

// MigrationFile describes one created migration version
type MigrationFile struct {
	Version int
	Name    string
	Paths   []string
}

// CreateMigration writes empty up/down files for the next sequential version
// into every driver directory below root (normally
// internal/infrastructure/migration/sql).
func CreateMigration(root, name string) (*MigrationFile, error) {
	clean := sanitizeName(name)
	if clean == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}

	next := 1
	for _, d := range driverDirs {
		names, err := ListMigrations(os.DirFS(filepath.Join(root, d)))
		if err != nil {
			return nil, err
		}
		for _, n := range names {
			if v := versionOf(n); v >= next {
				next = v + 1
			}
		}
	}

	mf := &MigrationFile{Version: next, Name: clean}
	base := fmt.Sprintf("%06d_%s", next, clean)
	for _, d := range driverDirs {
		dir := filepath.Join(root, d)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create migrations directory: %w", err)
		}
		for _, suffix := range []string{".up.sql", ".down.sql"} {
			path := filepath.Join(dir, base+suffix)
			header := fmt.Sprintf("-- %s (%s%s)\n", name, d, strings.TrimSuffix(suffix, ".sql"))
			if err := os.WriteFile(path, []byte(header), 0o644); err != nil {
				return nil, fmt.Errorf("failed to create %s: %w", path, err)
			}
			mf.Paths = append(mf.Paths, path)
		}
	}
	return mf, nil
}

// ListMigrations returns the sorted base names of the up migrations in fsys
func ListMigrations(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	migrations := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if base, ok := strings.CutSuffix(entry.Name(), ".up.sql"); ok {
			migrations = append(migrations, base)
		}
	}
	sort.Strings(migrations)
	return migrations, nil
}

// Embedded lists the migrations compiled into the binary for a database URL
func Embedded(databaseURL string) ([]string, error) {
	src, err := Source(databaseURL)
	if err != nil {
		return nil, err
	}
	return ListMigrations(src)
}

func versionOf(base string) int {
	prefix, _, _ := strings.Cut(base, "_")
	v, err := strconv.Atoi(prefix)
	if err != nil {
		return 0
	}
	return v
}

// sanitizeName converts a migration name to a safe file name format
func sanitizeName(name string) string {
	result := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			result = append(result, c)
		case c >= 'A' && c <= 'Z':
			result = append(result, c+'a'-'A')
		case c == ' ' || c == '-' || c == '_':
			if len(result) > 0 && result[len(result)-1] != '_' {
				result = append(result, '_')
			}
		}
	}
	return strings.TrimSuffix(string(result), "_")
}
