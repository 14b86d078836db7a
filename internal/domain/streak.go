package domain

import (
	"sort"
	"time"
)

// Streak counts consecutive calendar days with at least one entry, walking
// backward from the most recent logged day. The chain is dead (0) when the
// most recent day is before yesterday; otherwise the count is the length of
// the maximal run of dates each exactly one day before the previous.
func Streak(days []time.Time, today time.Time) int {
	if len(days) == 0 {
		return 0
	}

	seen := make(map[string]time.Time, len(days))
	for _, d := range days {
		d = truncateToDay(d)
		seen[d.Format(DateLayout)] = d
	}

	dates := make([]time.Time, 0, len(seen))
	for _, d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })

	yesterday := truncateToDay(today).AddDate(0, 0, -1)
	if dates[0].Before(yesterday) {
		return 0
	}

	streak := 1
	current := dates[0]
	for _, d := range dates[1:] {
		if !current.AddDate(0, 0, -1).Equal(d) {
			break
		}
		streak++
		current = d
	}
	return streak
}

// StreakFromDateStrings is Streak over DateLayout-formatted strings, the form
// both storage backends hold dates in. Malformed dates are skipped.
func StreakFromDateStrings(dates []string, today time.Time) int {
	days := make([]time.Time, 0, len(dates))
	for _, s := range dates {
		d, err := time.Parse(DateLayout, s)
		if err != nil {
			continue
		}
		days = append(days, d)
	}
	return Streak(days, today)
}

// truncateToDay drops the time-of-day and time zone so day arithmetic is not
// affected by DST transitions.
func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
