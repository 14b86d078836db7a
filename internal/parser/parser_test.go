package parser

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    *Activity
		wantNil bool
	}{
		{
			name: "minutes shorthand",
			text: "exercise 30m",
			want: &Activity{Name: "exercise", Minutes: 30},
		},
		{
			name: "hour with notes",
			text: "reading 1h great book",
			want: &Activity{Name: "reading", Minutes: 60, Notes: strPtr("great book")},
		},
		{
			name: "full minutes word",
			text: "coding 45 minutes",
			want: &Activity{Name: "coding", Minutes: 45},
		},
		{
			name: "two-word activity",
			text: "deep work 90 min",
			want: &Activity{Name: "deep work", Minutes: 90},
		},
		{
			name: "uppercase normalized",
			text: "Exercise 30M",
			want: &Activity{Name: "exercise", Minutes: 30},
		},
		{
			name: "hours plural",
			text: "gaming 2 hours",
			want: &Activity{Name: "gaming", Minutes: 120},
		},
		{
			name: "surrounding whitespace",
			text: "  yoga 15m  ",
			want: &Activity{Name: "yoga", Minutes: 15},
		},
		{name: "plain chatter", text: "just chatting", wantNil: true},
		{name: "missing unit", text: "exercise 30", wantNil: true},
		{name: "missing duration", text: "exercise minutes", wantNil: true},
		{name: "zero duration rejected", text: "exercise 0m", wantNil: true},
		{name: "three-word activity", text: "very deep work 30m", wantNil: true},
		{name: "unit stuck to garbage", text: "coding 45 minutesfoo", wantNil: true},
		{name: "empty", text: "", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.text)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("Parse(%q) = %+v, want nil", tt.text, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("Parse(%q) = nil, want %+v", tt.text, tt.want)
			}
			if got.Name != tt.want.Name {
				t.Errorf("name = %q, want %q", got.Name, tt.want.Name)
			}
			if got.Minutes != tt.want.Minutes {
				t.Errorf("minutes = %d, want %d", got.Minutes, tt.want.Minutes)
			}
			switch {
			case tt.want.Notes == nil && got.Notes != nil:
				t.Errorf("notes = %q, want none", *got.Notes)
			case tt.want.Notes != nil && got.Notes == nil:
				t.Errorf("notes = nil, want %q", *tt.want.Notes)
			case tt.want.Notes != nil && *got.Notes != *tt.want.Notes:
				t.Errorf("notes = %q, want %q", *got.Notes, *tt.want.Notes)
			}
		})
	}
}

func strPtr(s string) *string { return &s }
