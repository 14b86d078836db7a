// Package turso persists activity data in a libsql/SQLite database.
package turso

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/emiliopalmerini/activitybot/internal/database"
	"github.com/emiliopalmerini/activitybot/internal/domain"
	"github.com/emiliopalmerini/activitybot/internal/ports"
	"github.com/emiliopalmerini/activitybot/internal/util"
)

// Store implements ports.Store on three tables (activities, goals,
// quick_buttons), all keyed by the Telegram user ID. Timestamps are stored
// as RFC3339 TEXT, with the calendar date denormalized into log_date so the
// window queries stay index-friendly.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ ports.Store = (*Store)(nil)

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// NewStoreAt pins the store's clock. Tests use it to control the calendar
// windows the aggregate queries compute against.
func NewStoreAt(db *sql.DB, now func() time.Time) *Store {
	return &Store{db: db, now: now}
}

func (s *Store) LogActivity(ctx context.Context, userID int64, activity string, minutes int, notes *string) error {
	now := s.now()
	_, err := database.WithRetry(ctx, 2, func() (sql.Result, error) {
		return s.db.ExecContext(ctx, `
			INSERT INTO activities (user_id, activity_name, duration_minutes, logged_at, log_date, notes)
			VALUES (?, ?, ?, ?, ?, ?)`,
			userID, activity, minutes, now.Format(time.RFC3339), now.Format(domain.DateLayout), util.NullStringPtr(notes),
		)
	})
	if err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}
	return nil
}

func (s *Store) TodayActivities(ctx context.Context, userID int64) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT activity_name, duration_minutes, logged_at, notes
		FROM activities
		WHERE user_id = ? AND log_date = ?
		ORDER BY id DESC`,
		userID, s.now().Format(domain.DateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query today's activities: %w", err)
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		var (
			e        domain.Entry
			loggedAt string
			notes    sql.NullString
		)
		if err := rows.Scan(&e.Activity, &e.Minutes, &loggedAt, &notes); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		e.UserID = userID
		e.LoggedAt = util.ParseTimeRFC3339(loggedAt)
		e.Notes = util.NullStringToPtr(notes)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) WeekSummary(ctx context.Context, userID int64) ([]domain.ActivitySummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT activity_name, SUM(duration_minutes), COUNT(*)
		FROM activities
		WHERE user_id = ? AND log_date >= ?
		GROUP BY activity_name
		ORDER BY SUM(duration_minutes) DESC, activity_name ASC`,
		userID, domain.WeekStart(s.now()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query week summary: %w", err)
	}
	defer rows.Close()

	var summaries []domain.ActivitySummary
	for rows.Next() {
		var row domain.ActivitySummary
		if err := rows.Scan(&row.Activity, &row.TotalMinutes, &row.Count); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		summaries = append(summaries, row)
	}
	return summaries, rows.Err()
}

func (s *Store) Streak(ctx context.Context, userID int64, activity string) (int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT log_date
		FROM activities
		WHERE user_id = ? AND activity_name = ?`,
		userID, activity,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to query logged dates: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return 0, fmt.Errorf("failed to scan logged date: %w", err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	return domain.StreakFromDateStrings(dates, s.now()), nil
}

func (s *Store) SetGoal(ctx context.Context, userID int64, activity string, targetMinutes int, period domain.Period) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE goals SET active = 0
		WHERE user_id = ? AND activity_name = ? AND period = ? AND active = 1`,
		userID, activity, string(period),
	); err != nil {
		return fmt.Errorf("failed to deactivate previous goal: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO goals (user_id, activity_name, target_minutes, period, active, created_at)
		VALUES (?, ?, ?, ?, 1, ?)`,
		userID, activity, targetMinutes, string(period), s.now().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("failed to insert goal: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit goal: %w", err)
	}
	return nil
}

func (s *Store) ActiveGoals(ctx context.Context, userID int64) ([]domain.GoalProgress, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT activity_name, target_minutes, period
		FROM goals
		WHERE user_id = ? AND active = 1
		ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query active goals: %w", err)
	}
	defer rows.Close()

	var goals []domain.GoalProgress
	for rows.Next() {
		var (
			g      domain.GoalProgress
			period string
		)
		if err := rows.Scan(&g.Activity, &g.TargetMinutes, &period); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		g.Period = domain.Period(period)
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Progress is recomputed from the log on every read, never cached.
	now := s.now()
	for i := range goals {
		err := s.db.QueryRowContext(ctx, `
			SELECT COALESCE(SUM(duration_minutes), 0)
			FROM activities
			WHERE user_id = ? AND activity_name = ? AND log_date >= ?`,
			userID, goals[i].Activity, goals[i].Period.WindowStart(now),
		).Scan(&goals[i].CurrentMinutes)
		if err != nil {
			return nil, fmt.Errorf("failed to compute goal progress: %w", err)
		}
	}
	return goals, nil
}

func (s *Store) AddQuickButton(ctx context.Context, userID int64, activity string, minutes int) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO quick_buttons (user_id, activity_name, duration_minutes)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, activity_name, duration_minutes) DO NOTHING`,
		userID, activity, minutes,
	)
	if err != nil {
		return false, fmt.Errorf("failed to add quick button: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *Store) QuickButtons(ctx context.Context, userID int64) ([]domain.QuickButton, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT activity_name, duration_minutes
		FROM quick_buttons
		WHERE user_id = ?
		ORDER BY activity_name, duration_minutes`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query quick buttons: %w", err)
	}
	defer rows.Close()

	var buttons []domain.QuickButton
	for rows.Next() {
		b := domain.QuickButton{UserID: userID}
		if err := rows.Scan(&b.Activity, &b.Minutes); err != nil {
			return nil, fmt.Errorf("failed to scan quick button: %w", err)
		}
		buttons = append(buttons, b)
	}
	return buttons, rows.Err()
}
