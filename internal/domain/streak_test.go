package domain

import (
	"testing"
	"time"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func TestStreak(t *testing.T) {
	today := "2025-03-15"

	tests := []struct {
		name  string
		dates []string
		want  int
	}{
		{"no entries", nil, 0},
		{"three consecutive days ending today", []string{"2025-03-15", "2025-03-14", "2025-03-13"}, 3},
		{"gap yesterday keeps only today", []string{"2025-03-15", "2025-03-13"}, 1},
		{"chain ending yesterday still counts", []string{"2025-03-14", "2025-03-13"}, 2},
		{"most recent two days ago is dead", []string{"2025-03-13", "2025-03-12", "2025-03-11"}, 0},
		{"single entry today", []string{"2025-03-15"}, 1},
		{"duplicate dates count once", []string{"2025-03-15", "2025-03-15", "2025-03-14"}, 2},
		{"unsorted input", []string{"2025-03-13", "2025-03-15", "2025-03-14"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StreakFromDateStrings(tt.dates, day(t, today))
			if got != tt.want {
				t.Errorf("streak = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStreakIgnoresTimeOfDay(t *testing.T) {
	today := time.Date(2025, 3, 15, 23, 50, 0, 0, time.Local)
	days := []time.Time{
		time.Date(2025, 3, 15, 0, 5, 0, 0, time.Local),
		time.Date(2025, 3, 14, 18, 0, 0, 0, time.Local),
	}

	if got := Streak(days, today); got != 2 {
		t.Errorf("streak = %d, want 2", got)
	}
}
