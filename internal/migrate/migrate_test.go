package migrate_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/emiliopalmerini/activitybot/internal/migrate"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("libsql", "file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query sqlite_master: %v", err)
	}
	return count > 0
}

func TestRunnerUpAndRollback(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	runner := migrate.NewRunner(db)

	applied, err := runner.Up(ctx)
	if err != nil {
		t.Fatalf("Up failed: %v", err)
	}
	if applied == 0 {
		t.Fatal("expected at least one migration to run")
	}

	for _, table := range []string{"activities", "goals", "quick_buttons"} {
		if !tableExists(t, db, table) {
			t.Errorf("table %s missing after Up", table)
		}
	}

	version, dirty, err := runner.Version(ctx)
	if err != nil {
		t.Fatalf("Version failed: %v", err)
	}
	if dirty {
		t.Error("database left dirty after Up")
	}
	if version == 0 {
		t.Error("version still 0 after Up")
	}

	// A second Up is a no-op.
	applied, err = runner.Up(ctx)
	if err != nil {
		t.Fatalf("second Up failed: %v", err)
	}
	if applied != 0 {
		t.Errorf("second Up applied %d migrations, want 0", applied)
	}

	// Rolling back to 0 drops everything.
	if _, err := runner.To(ctx, 0); err != nil {
		t.Fatalf("To(0) failed: %v", err)
	}
	for _, table := range []string{"activities", "goals", "quick_buttons"} {
		if tableExists(t, db, table) {
			t.Errorf("table %s still present after rollback", table)
		}
	}

	version, _, err = runner.Version(ctx)
	if err != nil {
		t.Fatalf("Version after rollback failed: %v", err)
	}
	if version != 0 {
		t.Errorf("version = %d after rollback, want 0", version)
	}
}
