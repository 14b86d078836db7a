package bot

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/emiliopalmerini/activitybot/internal/domain"
)

const (
	parseHint    = "Try: `exercise 30m` or /help"
	failedReply  = "❌ Something went wrong, please try again!"
	notConnected = "⚠️ No sheet connected! Send /start for setup."
)

var titleCaser = cases.Title(language.English)

func title(s string) string {
	return titleCaser.String(s)
}

// formatMinutes renders minutes as "1h 30m", dropping the hour part when
// zero.
func formatMinutes(minutes int) string {
	h, m := minutes/60, minutes%60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

func periodAdverb(p domain.Period) string {
	if p == domain.PeriodDay {
		return "daily"
	}
	return "weekly"
}

func periodNoun(p domain.Period) string {
	if p == domain.PeriodDay {
		return "day"
	}
	return "week"
}

func logReply(activity string, minutes int, notes *string, goals []domain.GoalProgress) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "✅ %s: %dm", title(activity), minutes)
	if notes != nil {
		fmt.Fprintf(&sb, "\n💭 %s", *notes)
	}

	for _, g := range goals {
		if g.Activity != activity {
			continue
		}
		fmt.Fprintf(&sb, "\n\n🎯 Goal: %d/%dm (%.0f%%)", g.CurrentMinutes, g.TargetMinutes, g.Percent())
	}
	return sb.String()
}

func todayReply(entries []domain.Entry, goals []domain.GoalProgress) string {
	if len(entries) == 0 {
		return "No activities today yet! 💪"
	}

	totals := make(map[string]int)
	for i := range entries {
		totals[entries[i].Activity] += entries[i].Minutes
	}
	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("📊 *Today's Activities:*\n\n")

	total := 0
	for _, name := range names {
		fmt.Fprintf(&sb, "• %s: %s\n", title(name), formatMinutes(totals[name]))
		total += totals[name]
	}
	fmt.Fprintf(&sb, "\n*Total: %s*", formatMinutes(total))

	var goalLines []string
	for _, g := range goals {
		if _, loggedToday := totals[g.Activity]; !loggedToday {
			continue
		}
		goalLines = append(goalLines, fmt.Sprintf("• %s: %d/%dm (%.0f%%) - %s",
			title(g.Activity), g.CurrentMinutes, g.TargetMinutes, g.Percent(), periodAdverb(g.Period)))
	}
	if len(goalLines) > 0 {
		sb.WriteString("\n\n🎯 *Goal Progress:*\n")
		sb.WriteString(strings.Join(goalLines, "\n"))
	}
	return sb.String()
}

func weekReply(rows []domain.ActivitySummary, streaks map[string]int) string {
	if len(rows) == 0 {
		return "No activities this week!"
	}

	var sb strings.Builder
	sb.WriteString("📈 *This Week:*\n\n")
	for _, row := range rows {
		fmt.Fprintf(&sb, "• %s: %s (%dx)", title(row.Activity), formatMinutes(row.TotalMinutes), row.Count)
		if streak := streaks[row.Activity]; streak > 0 {
			fmt.Fprintf(&sb, " 🔥%d", streak)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func goalsReply(goals []domain.GoalProgress) string {
	if len(goals) == 0 {
		return "No goals set!\n\n" +
			"Examples:\n" +
			"• `/setgoal exercise 150` (weekly)\n" +
			"• `/setgoal meditation 15 daily`"
	}

	var sb strings.Builder
	sb.WriteString("🎯 *Your Goals:*\n\n")
	for _, g := range goals {
		pct := g.Percent()
		fmt.Fprintf(&sb, "*%s* (%s)\n%s %.0f%%\n%d/%dm\n\n",
			title(g.Activity), periodAdverb(g.Period), domain.ProgressBar(pct), pct, g.CurrentMinutes, g.TargetMinutes)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func streakReply(rows []domain.ActivitySummary, streaks map[string]int) string {
	if len(rows) == 0 {
		return "No activities yet!"
	}

	var sb strings.Builder
	sb.WriteString("🔥 *Streaks:*\n\n")
	for _, row := range rows {
		streak := streaks[row.Activity]
		switch {
		case streak == 1:
			fmt.Fprintf(&sb, "• %s: 1 day 🔥\n", title(row.Activity))
		case streak > 1:
			fmt.Fprintf(&sb, "• %s: %d days 🔥\n", title(row.Activity), streak)
		default:
			fmt.Fprintf(&sb, "• %s: No streak\n", title(row.Activity))
		}
	}
	return sb.String()
}

func goalSetReply(activity string, target int, period domain.Period) string {
	return fmt.Sprintf("✅ Goal set!\n%s: %s/%s 💪", title(activity), formatMinutes(target), periodNoun(period))
}

func buttonsReply(buttons []domain.QuickButton) string {
	if len(buttons) == 0 {
		return "No quick buttons yet!\n\nAdd one with `/addbutton exercise 30`"
	}
	return "⚡ *Quick log:*"
}

func buttonLabel(b domain.QuickButton) string {
	return fmt.Sprintf("%s · %dm", title(b.Activity), b.Minutes)
}

const setGoalUsage = "Usage: `/setgoal <activity> <minutes> [period]`\n\n" +
	"Examples:\n" +
	"• `/setgoal exercise 150` - 150 min/week (default)\n" +
	"• `/setgoal exercise 30 daily` - 30 min/day\n" +
	"• `/setgoal reading 300 weekly` - 300 min/week"

const invalidPeriodReply = "Invalid period! Use 'daily' or 'weekly'\n\n" +
	"Example: `/setgoal exercise 30 daily`"

const addButtonUsage = "Usage: `/addbutton <activity> <minutes>`\n\n" +
	"Example: `/addbutton exercise 30`"

func helpReply() string {
	return "📚 *How to use:*\n\n" +
		"*Log activities:*\n" +
		"• `exercise 30m`\n" +
		"• `reading 1h great book`\n\n" +
		"*Commands:*\n" +
		"/today - Today's activities\n" +
		"/week - Week summary\n" +
		"/goals - Goal progress\n" +
		"/setgoal <activity> <min> [period] - Set goal\n" +
		"/streak - View streaks\n" +
		"/quick - One-tap logging buttons\n" +
		"/addbutton <activity> <min> - Save a quick button"
}

func startReplyDatabase(firstName string) string {
	return fmt.Sprintf("👋 Hey %s! Welcome to Activity Bot!\n\n", firstName) +
		"📝 Log an activity: `exercise 30m`\n" +
		"📊 Today: /today\n" +
		"🎯 Goals: /goals\n\n" +
		"All commands: /help"
}

func startReplySheets(firstName string, connected bool, serviceEmail string) string {
	if connected {
		return fmt.Sprintf("👋 Welcome back, %s!\n\n", firstName) +
			"Your Google Sheet is connected! ✅\n\n" +
			"📝 Log: `exercise 30m`\n" +
			"📊 Today: /today\n" +
			"🎯 Goals: /goals\n" +
			"📄 Sheet: /sheet"
	}
	return fmt.Sprintf("👋 Hey %s! Welcome to Activity Bot!\n\n", firstName) +
		"*Setup Instructions:*\n\n" +
		"1. Create a new Google Sheet at sheets.google.com\n" +
		"2. Share it with this email (Editor access):\n" +
		fmt.Sprintf("   `%s`\n", serviceEmail) +
		"3. Copy the sheet URL\n" +
		"4. Send me: `/connect <sheet-url>`\n\n" +
		"✅ Your data stays in YOUR Google account!"
}

const connectUsage = "Please provide your Google Sheet URL:\n\n" +
	"Usage: `/connect <sheet-url>`\n\n" +
	"Example:\n" +
	"`/connect https://docs.google.com/spreadsheets/d/abc123...`"

const connectBadURL = "❌ That doesn't look like a Google Sheets URL!\n\n" +
	"It should look like:\n" +
	"`https://docs.google.com/spreadsheets/d/...`"

const connectSuccess = "✅ *Connected successfully!*\n\n" +
	"Your activity tracker is ready!\n\n" +
	"Try logging an activity:\n" +
	"`exercise 30m`\n\n" +
	"Commands: /help"

func connectFailed(serviceEmail string) string {
	return "❌ *Connection failed!*\n\n" +
		"Please make sure:\n" +
		"1. The sheet exists\n" +
		"2. You shared it with:\n" +
		fmt.Sprintf("   `%s`\n", serviceEmail) +
		"3. You gave 'Editor' access\n" +
		"4. The URL is correct\n\n" +
		"Try again with: `/connect <url>`"
}

func sheetLinkReply(url string) string {
	return "📊 *Your Activity Spreadsheet:*\n\n" +
		url + "\n\n" +
		"You can view and edit it anytime!"
}
