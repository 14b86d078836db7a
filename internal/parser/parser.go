// Package parser turns free-form chat text into structured activity entries.
package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// Activity is the parsed form of a log message like "exercise 30m" or
// "reading 1h great book". Notes is nil when the message carried none.
type Activity struct {
	Name    string // normalized to lowercase
	Minutes int
	Notes   *string
}

// Grammar: one or two words, an integer, a unit token, optional trailing
// notes. Longest unit alternatives come first: Go regexps are leftmost-first,
// so "m" before "minutes" would split "45 minutes" into unit "m" plus notes
// "inutes".
var activityPattern = regexp.MustCompile(`(?i)^(\w+(?:\s+\w+)?)\s+(\d+)\s*(minutes?|min|m|hours?|h)(?:\s+(.+))?$`)

// Parse returns nil when text does not match the activity grammar.
// Hour units are converted to minutes. A duration of zero is rejected:
// every entry represents at least one minute.
func Parse(text string) *Activity {
	m := activityPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return nil
	}

	minutes, err := strconv.Atoi(m[2])
	if err != nil || minutes == 0 {
		return nil
	}

	if strings.HasPrefix(strings.ToLower(m[3]), "h") {
		minutes *= 60
	}

	a := &Activity{
		Name:    strings.ToLower(m[1]),
		Minutes: minutes,
	}
	if notes := strings.TrimSpace(m[4]); notes != "" {
		a.Notes = &notes
	}
	return a
}
