package domain

import "sort"

// QuickButton is a saved one-tap logging shortcut. Buttons are unique per
// (user, activity, minutes); re-adding an existing one is a no-op.
type QuickButton struct {
	UserID   int64
	Activity string
	Minutes  int
}

// SortButtons orders buttons by activity name, then duration.
func SortButtons(buttons []QuickButton) {
	sort.Slice(buttons, func(i, j int) bool {
		if buttons[i].Activity != buttons[j].Activity {
			return buttons[i].Activity < buttons[j].Activity
		}
		return buttons[i].Minutes < buttons[j].Minutes
	})
}
