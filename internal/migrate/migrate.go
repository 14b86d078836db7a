// Package migrate applies the embedded SQL migrations, tracking progress in
// a schema_migrations table with a dirty flag.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/emiliopalmerini/activitybot/migrations"
)

// Migration is a single versioned schema change. The down SQL is optional.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
	DownSQL string
}

var upPattern = regexp.MustCompile(`^(\d+)_(.+)\.up\.sql$`)

// Load reads the embedded migration files, sorted by version.
func Load() ([]Migration, error) {
	var result []Migration

	err := fs.WalkDir(migrations.FS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		matches := upPattern.FindStringSubmatch(filepath.Base(path))
		if matches == nil {
			return nil
		}

		version, _ := strconv.Atoi(matches[1])
		name := matches[2]

		upSQL, err := fs.ReadFile(migrations.FS, path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		// The down migration is optional.
		downSQL, err := fs.ReadFile(migrations.FS, fmt.Sprintf("%03d_%s.down.sql", version, name))
		if err != nil {
			downSQL = nil
		}

		result = append(result, Migration{
			Version: version,
			Name:    name,
			UpSQL:   string(upSQL),
			DownSQL: string(downSQL),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Version < result[j].Version
	})
	return result, nil
}

// Runner applies migrations to one database.
type Runner struct {
	db *sql.DB
}

func NewRunner(db *sql.DB) *Runner {
	return &Runner{db: db}
}

// Version returns the current migration version and dirty state.
func (r *Runner) Version(ctx context.Context) (int, bool, error) {
	var version, dirty int
	err := r.db.QueryRowContext(ctx, `SELECT version, dirty FROM schema_migrations ORDER BY version DESC LIMIT 1`).Scan(&version, &dirty)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return version, dirty == 1, nil
}

// Up applies all pending migrations and returns how many ran.
func (r *Runner) Up(ctx context.Context) (int, error) {
	current, all, err := r.prepare(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, m := range all {
		if m.Version <= current {
			continue
		}
		if err := r.apply(ctx, m, true); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// To migrates up or down to the target version. Target 0 rolls everything
// back.
func (r *Runner) To(ctx context.Context, target int) (int, error) {
	current, all, err := r.prepare(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	if target >= current {
		for _, m := range all {
			if m.Version <= current || m.Version > target {
				continue
			}
			if err := r.apply(ctx, m, true); err != nil {
				return count, err
			}
			count++
		}
		return count, nil
	}

	for i := len(all) - 1; i >= 0; i-- {
		m := all[i]
		if m.Version > current || m.Version <= target {
			continue
		}
		if m.DownSQL == "" {
			return count, fmt.Errorf("no down migration for version %d", m.Version)
		}
		if err := r.apply(ctx, m, false); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// All applies all pending migrations, for callers that do not care about the
// count (serve startup, tests).
func (r *Runner) All(ctx context.Context) error {
	_, err := r.Up(ctx)
	return err
}

func (r *Runner) prepare(ctx context.Context) (int, []Migration, error) {
	if err := r.ensureTable(ctx); err != nil {
		return 0, nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	current, dirty, err := r.Version(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to get current version: %w", err)
	}
	if dirty {
		return 0, nil, fmt.Errorf("database is in dirty state at version %d, manual intervention required", current)
	}

	all, err := Load()
	if err != nil {
		return 0, nil, fmt.Errorf("failed to load migrations: %w", err)
	}
	return current, all, nil
}

func (r *Runner) ensureTable(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			dirty INTEGER NOT NULL DEFAULT 0
		)
	`)
	return err
}

func (r *Runner) setVersion(ctx context.Context, version int, dirty bool) error {
	dirtyInt := 0
	if dirty {
		dirtyInt = 1
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM schema_migrations`); err != nil {
		return err
	}
	if version > 0 {
		_, err := r.db.ExecContext(ctx, `INSERT INTO schema_migrations (version, dirty) VALUES (?, ?)`, version, dirtyInt)
		return err
	}
	return nil
}

func (r *Runner) apply(ctx context.Context, m Migration, up bool) error {
	direction := "up"
	sqlContent := m.UpSQL
	target := m.Version
	if !up {
		direction = "down"
		sqlContent = m.DownSQL
		target = m.Version - 1
	}

	if err := r.setVersion(ctx, m.Version, true); err != nil {
		return fmt.Errorf("failed to set dirty flag: %w", err)
	}

	// Split by semicolons; none of our migrations embed one in a string.
	for _, stmt := range strings.Split(sqlContent, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute migration %d %s: %w", m.Version, direction, err)
		}
	}

	if err := r.setVersion(ctx, target, false); err != nil {
		return fmt.Errorf("failed to clear dirty flag: %w", err)
	}
	return nil
}
