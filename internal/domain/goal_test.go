package domain

import (
	"testing"
	"time"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in   string
		want Period
		ok   bool
	}{
		{"daily", PeriodDay, true},
		{"day", PeriodDay, true},
		{"d", PeriodDay, true},
		{"weekly", PeriodWeek, true},
		{"week", PeriodWeek, true},
		{"w", PeriodWeek, true},
		{"WEEKLY", PeriodWeek, true},
		{"monthly", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParsePeriod(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParsePeriod(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestPeriodWindowStart(t *testing.T) {
	today := time.Date(2025, 3, 15, 9, 30, 0, 0, time.UTC)

	if got := PeriodDay.WindowStart(today); got != "2025-03-15" {
		t.Errorf("day window start = %q, want 2025-03-15", got)
	}
	if got := PeriodWeek.WindowStart(today); got != "2025-03-09" {
		t.Errorf("week window start = %q, want 2025-03-09", got)
	}
}

func TestGoalProgressPercent(t *testing.T) {
	tests := []struct {
		name    string
		current int
		target  int
		want    float64
	}{
		{"partial", 90, 150, 60},
		{"complete", 150, 150, 100},
		{"over target", 195, 150, 130},
		{"zero target guards division", 90, 0, 0},
		{"negative target guards division", 90, -10, 0},
		{"nothing logged", 0, 150, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := GoalProgress{CurrentMinutes: tt.current, TargetMinutes: tt.target}
			if got := g.Percent(); got != tt.want {
				t.Errorf("percent = %v, want %v", got, tt.want)
			}
		})
	}
}
