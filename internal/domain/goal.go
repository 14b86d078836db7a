package domain

import (
	"strings"
	"time"
)

// Period is a goal recurrence window.
type Period string

const (
	PeriodDay  Period = "day"
	PeriodWeek Period = "week"
)

// ParsePeriod maps the keywords users type to a Period.
// Accepts daily/day/d and weekly/week/w, case-insensitive.
func ParsePeriod(s string) (Period, bool) {
	switch strings.ToLower(s) {
	case "daily", "day", "d":
		return PeriodDay, true
	case "weekly", "week", "w":
		return PeriodWeek, true
	}
	return "", false
}

// WindowStart returns the first calendar date counted toward a goal of this
// period: today for daily goals, six days back for weekly ones.
func (p Period) WindowStart(today time.Time) string {
	if p == PeriodWeek {
		return WeekStart(today)
	}
	return today.Format(DateLayout)
}

// Goal is a per-user target for one activity. At most one goal is active per
// (user, activity, period); superseded goals are deactivated, never deleted.
type Goal struct {
	UserID        int64
	Activity      string
	TargetMinutes int
	Period        Period
	Active        bool
	CreatedAt     time.Time
}

// GoalProgress pairs an active goal with the minutes logged inside its
// current window.
type GoalProgress struct {
	Activity       string
	TargetMinutes  int
	CurrentMinutes int
	Period         Period
}

// Percent returns progress toward the target as a percentage. A target of
// zero or less yields 0 rather than dividing by zero.
func (g GoalProgress) Percent() float64 {
	if g.TargetMinutes <= 0 {
		return 0
	}
	return float64(g.CurrentMinutes) / float64(g.TargetMinutes) * 100
}
