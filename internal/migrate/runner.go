package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

// Migration is one versioned schema change. Versions apply in ascending
// order and record through PRAGMA user_version.
type Migration struct {
	Version int64
	Name    string
	SQL     string
}

// Runner applies pending migrations to an open database. It performs no
// locking of its own; run it through a Guard.
type Runner struct {
	db         *sql.DB
	migrations []Migration
}

// NewRunner creates a runner over migrations, which are sorted by
// version before use.
func NewRunner(db *sql.DB, migrations []Migration) *Runner {
	sorted := make([]Migration, len(migrations))
	copy(sorted, migrations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Version < sorted[j].Version })
	return &Runner{db: db, migrations: sorted}
}

// Version reads the current schema version.
func (r *Runner) Version(ctx context.Context) (int64, error) {
	var version int64
	if err := r.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("get user_version: %w", err)
	}
	return version, nil
}

// Pending returns the migrations newer than the recorded version.
func (r *Runner) Pending(ctx context.Context) ([]Migration, error) {
	version, err := r.Version(ctx)
	if err != nil {
		return nil, err
	}
	var pending []Migration
	for _, m := range r.migrations {
		if m.Version > version {
			pending = append(pending, m)
		}
	}
	return pending, nil
}

// Apply runs all pending migrations in order, each in its own
// transaction, advancing user_version as it goes. It returns the number
// of migrations applied.
func (r *Runner) Apply(ctx context.Context) (int, error) {
	pending, err := r.Pending(ctx)
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, m := range pending {
		if err := r.applyOne(ctx, m); err != nil {
			return applied, fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
		}
		applied++
	}
	return applied, nil
}

func (r *Runner) applyOne(ctx context.Context, m Migration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		tx.Rollback()
		return err
	}
	// PRAGMA user_version cannot take a bind parameter.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
		tx.Rollback()
		return fmt.Errorf("set user_version: %w", err)
	}
	return tx.Commit()
}

// migrationFile matches NNN_name.sql.
var migrationFile = regexp.MustCompile(`^(\d+)_(.+)\.sql$`)

// LoadDir reads migrations from dir. Files are named NNN_name.sql; the
// numeric prefix is the version. Non-matching files are ignored.
func LoadDir(dir string) ([]Migration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	var migrations []Migration
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := migrationFile.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		version, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("migration %s: bad version: %w", entry.Name(), err)
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		migrations = append(migrations, Migration{Version: version, Name: m[2], SQL: string(data)})
	}

	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	return migrations, nil
}
