package turso_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/emiliopalmerini/activitybot/internal/domain"
	"github.com/emiliopalmerini/activitybot/internal/migrate"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("libsql", "file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	if err := migrate.NewRunner(db).All(context.Background()); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

// seedEntry inserts an activity row with an explicit timestamp, bypassing
// the store's clock.
func seedEntry(t *testing.T, db *sql.DB, userID int64, activity string, minutes int, at time.Time) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO activities (user_id, activity_name, duration_minutes, logged_at, log_date, notes)
		VALUES (?, ?, ?, ?, ?, NULL)`,
		userID, activity, minutes, at.Format(time.RFC3339), at.Format(domain.DateLayout),
	)
	if err != nil {
		t.Fatalf("Failed to seed entry: %v", err)
	}
}
