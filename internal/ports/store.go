// Package ports defines the interfaces the conversation layer depends on.
package ports

import (
	"context"

	"github.com/emiliopalmerini/activitybot/internal/domain"
)

// Store is the persistence port shared by both storage backends. Every
// derived metric is recomputed from the activity log on each read; no
// backend maintains running counters.
type Store interface {
	// LogActivity appends one immutable entry with a store-assigned timestamp.
	LogActivity(ctx context.Context, userID int64, activity string, minutes int, notes *string) error

	// TodayActivities returns the current calendar day's entries, newest first.
	TodayActivities(ctx context.Context, userID int64) ([]domain.Entry, error)

	// WeekSummary aggregates the trailing 7-day window per activity, ordered
	// by descending total minutes.
	WeekSummary(ctx context.Context, userID int64) ([]domain.ActivitySummary, error)

	// Streak counts consecutive logged days for one activity, ending at the
	// most recent logged day.
	Streak(ctx context.Context, userID int64, activity string) (int, error)

	// SetGoal deactivates the active goal for (activity, period), if any,
	// then records the new one. The two steps are atomic per key.
	SetGoal(ctx context.Context, userID int64, activity string, targetMinutes int, period domain.Period) error

	// ActiveGoals returns every active goal with progress recomputed from
	// the log over the goal's current window.
	ActiveGoals(ctx context.Context, userID int64) ([]domain.GoalProgress, error)

	// AddQuickButton saves a one-tap shortcut. Returns false when the same
	// (activity, minutes) pair already exists.
	AddQuickButton(ctx context.Context, userID int64, activity string, minutes int) (bool, error)

	// QuickButtons lists saved shortcuts sorted by activity name.
	QuickButtons(ctx context.Context, userID int64) ([]domain.QuickButton, error)
}
