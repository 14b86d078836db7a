package domain

import "testing"

func TestProgressBar(t *testing.T) {
	tests := []struct {
		percent float64
		want    string
	}{
		{0, "░░░░░░░░░░"},
		{9, "░░░░░░░░░░"},
		{10, "█░░░░░░░░░"},
		{60, "██████░░░░"},
		{99, "█████████░"},
		{100, "██████████"},
		// Saturates instead of overflowing the 10 segments.
		{130, "██████████"},
		{-5, "░░░░░░░░░░"},
	}

	for _, tt := range tests {
		if got := ProgressBar(tt.percent); got != tt.want {
			t.Errorf("ProgressBar(%v) = %q, want %q", tt.percent, got, tt.want)
		}
	}
}
