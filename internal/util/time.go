package util

import "time"

// ParseTimeRFC3339 parses an RFC3339 timestamp string to time.Time.
// Returns zero time if parsing fails.
func ParseTimeRFC3339(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}
