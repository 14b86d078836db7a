package sheets

import (
	"strconv"
	"strings"
	"time"

	"github.com/emiliopalmerini/activitybot/internal/domain"
)

// timestampLayout is the human-readable form written into the Timestamp
// column; the Date column is the one the window queries filter on.
const timestampLayout = "2006-01-02 15:04:05"

func cellString(row []interface{}, i int) string {
	if i >= len(row) {
		return ""
	}
	s, _ := row[i].(string)
	return strings.TrimSpace(s)
}

// cellInt tolerates the two shapes the Values API returns numbers in:
// strings for RAW-written cells and float64 for formatted ones.
func cellInt(row []interface{}, i int) int {
	if i >= len(row) {
		return 0
	}
	switch v := row[i].(type) {
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(v))
		return n
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// entryFromRow decodes one Activities row
// (Activity Name, Duration (min), Timestamp, Notes, Date).
func entryFromRow(userID int64, row []interface{}) (domain.Entry, bool) {
	e := domain.Entry{
		UserID:   userID,
		Activity: cellString(row, 0),
		Minutes:  cellInt(row, 1),
	}
	if e.Activity == "" || e.Minutes <= 0 {
		return domain.Entry{}, false
	}

	if notes := cellString(row, 3); notes != "" {
		e.Notes = &notes
	}

	// The Timestamp column carries time-of-day; fall back to the Date column
	// when a user has hand-edited it into something unparseable.
	if ts, err := time.Parse(timestampLayout, cellString(row, 2)); err == nil {
		e.LoggedAt = ts
	} else if d, err := time.Parse(domain.DateLayout, cellString(row, 4)); err == nil {
		e.LoggedAt = d
	} else {
		return domain.Entry{}, false
	}
	return e, true
}

// goalFromRow decodes one Goals row
// (Activity Name, Target (min), Period, Active).
func goalFromRow(userID int64, row []interface{}) (domain.Goal, bool) {
	g := domain.Goal{
		UserID:        userID,
		Activity:      cellString(row, 0),
		TargetMinutes: cellInt(row, 1),
		Period:        domain.Period(strings.ToLower(cellString(row, 2))),
		Active:        cellString(row, 3) == "TRUE",
	}
	if g.Activity == "" || (g.Period != domain.PeriodDay && g.Period != domain.PeriodWeek) {
		return domain.Goal{}, false
	}
	return g, true
}

// buttonFromRow decodes one Quick Buttons row (Activity Name, Duration (min)).
func buttonFromRow(userID int64, row []interface{}) (domain.QuickButton, bool) {
	b := domain.QuickButton{
		UserID:   userID,
		Activity: cellString(row, 0),
		Minutes:  cellInt(row, 1),
	}
	if b.Activity == "" || b.Minutes <= 0 {
		return domain.QuickButton{}, false
	}
	return b, true
}
