package domain

import "strings"

const (
	barSegments = 10
	barFilled   = "█"
	barEmpty    = "░"
)

// ProgressBar renders a 10-segment bar for a percentage, one segment per 10
// points. Fill saturates at 10 segments so progress past 100% does not
// overflow the bar.
func ProgressBar(percent float64) string {
	filled := int(percent / 10)
	if filled > barSegments {
		filled = barSegments
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat(barFilled, filled) + strings.Repeat(barEmpty, barSegments-filled)
}
