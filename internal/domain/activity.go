package domain

import (
	"sort"
	"time"
)

// DateLayout is the calendar-date format shared by both storage backends.
// ISO dates compare correctly as plain strings, which the sheets backend
// relies on when filtering rows.
const DateLayout = "2006-01-02"

// Entry is a single logged activity. Entries are immutable once written;
// identity is insertion order within a user's log.
type Entry struct {
	UserID   int64
	Activity string // normalized to lowercase
	Minutes  int
	LoggedAt time.Time
	Notes    *string
}

// Date returns the calendar date the entry was logged on.
func (e *Entry) Date() string {
	return e.LoggedAt.Format(DateLayout)
}

// ActivitySummary is one row of a week summary: total minutes and entry
// count for a single activity.
type ActivitySummary struct {
	Activity     string
	TotalMinutes int
	Count        int
}

// SortSummaries orders summary rows by descending total minutes, ties broken
// by activity name. Both storage backends use this ordering so the week view
// cannot differ between them.
func SortSummaries(rows []ActivitySummary) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalMinutes != rows[j].TotalMinutes {
			return rows[i].TotalMinutes > rows[j].TotalMinutes
		}
		return rows[i].Activity < rows[j].Activity
	})
}

// WeekStart returns the first calendar date of the trailing 7-day window
// ending at today.
func WeekStart(today time.Time) string {
	return today.AddDate(0, 0, -6).Format(DateLayout)
}

// SummarizeWeek aggregates entries from the trailing 7-day window ending at
// today into per-activity totals.
func SummarizeWeek(entries []Entry, today time.Time) []ActivitySummary {
	cutoff := WeekStart(today)

	totals := make(map[string]*ActivitySummary)
	for i := range entries {
		e := &entries[i]
		if e.Date() < cutoff {
			continue
		}
		s, ok := totals[e.Activity]
		if !ok {
			s = &ActivitySummary{Activity: e.Activity}
			totals[e.Activity] = s
		}
		s.TotalMinutes += e.Minutes
		s.Count++
	}

	rows := make([]ActivitySummary, 0, len(totals))
	for _, s := range totals {
		rows = append(rows, *s)
	}
	SortSummaries(rows)
	return rows
}
