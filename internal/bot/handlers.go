package bot

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/emiliopalmerini/activitybot/internal/domain"
	"github.com/emiliopalmerini/activitybot/internal/observability"
	"github.com/emiliopalmerini/activitybot/internal/parser"
	"github.com/emiliopalmerini/activitybot/internal/ports"
)

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.handleStart(msg)
	case "help":
		b.reply(msg, helpReply())
	case "connect":
		b.handleConnect(ctx, msg)
	case "sheet":
		b.handleSheet(msg)
	case "today":
		b.handleToday(ctx, msg)
	case "week":
		b.handleWeek(ctx, msg)
	case "goals":
		b.handleGoals(ctx, msg)
	case "setgoal":
		b.handleSetGoal(ctx, msg)
	case "streak":
		b.handleStreak(ctx, msg)
	case "quick":
		b.handleQuick(ctx, msg)
	case "addbutton":
		b.handleAddButton(ctx, msg)
	default:
		b.reply(msg, "Unknown command. Try /help")
	}
}

func (b *Bot) handleStart(msg *tgbotapi.Message) {
	firstName := "there"
	if msg.From != nil && msg.From.FirstName != "" {
		firstName = msg.From.FirstName
	}

	if b.sheets == nil {
		b.reply(msg, startReplyDatabase(firstName))
		return
	}
	_, connected := b.sheets.URLFor(msg.From.ID)
	b.reply(msg, startReplySheets(firstName, connected, b.sheets.ServiceAccountEmail()))
}

func (b *Bot) handleConnect(ctx context.Context, msg *tgbotapi.Message) {
	if b.sheets == nil {
		b.reply(msg, "This bot keeps your data in its own database, no setup needed!\n\nJust log an activity: `exercise 30m`")
		return
	}

	url := strings.TrimSpace(msg.CommandArguments())
	if url == "" {
		b.reply(msg, connectUsage)
		return
	}
	if !strings.Contains(url, "docs.google.com/spreadsheets") {
		b.reply(msg, connectBadURL)
		return
	}

	b.reply(msg, "🔄 Connecting to your sheet...")
	if err := b.sheets.Connect(ctx, msg.From.ID, url); err != nil {
		b.log.Error().Err(err).Int64("user_id", msg.From.ID).Msg("connect sheet")
		b.reply(msg, connectFailed(b.sheets.ServiceAccountEmail()))
		return
	}
	b.reply(msg, connectSuccess)
}

func (b *Bot) handleSheet(msg *tgbotapi.Message) {
	if b.sheets == nil {
		b.reply(msg, "This bot keeps your data in its own database. Try /today or /week!")
		return
	}
	url, ok := b.sheets.URLFor(msg.From.ID)
	if !ok {
		b.reply(msg, notConnected)
		return
	}
	b.reply(msg, sheetLinkReply(url))
}

func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	parsed := parser.Parse(msg.Text)
	if parsed == nil {
		b.reply(msg, parseHint)
		return
	}

	store, ok := b.store(msg, msg.From.ID)
	if !ok {
		return
	}
	b.logActivity(ctx, store, msg.From.ID, msg.Chat.ID, parsed.Name, parsed.Minutes, parsed.Notes)
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	// Answer first so the client stops its spinner even when logging fails.
	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		b.log.Error().Err(err).Msg("answer callback")
	}

	activity, minutes, ok := decodeQuickAction(cq.Data)
	if !ok || cq.Message == nil {
		return
	}

	store, sok := b.stores.StoreFor(cq.From.ID)
	if !sok {
		b.send(cq.Message.Chat.ID, notConnected)
		return
	}
	b.logActivity(ctx, store, cq.From.ID, cq.Message.Chat.ID, activity, minutes, nil)
}

// logActivity is the shared tail of free-text messages and quick-button
// callbacks: write the entry, then confirm with goal progress when the
// activity has an active goal.
func (b *Bot) logActivity(ctx context.Context, store ports.Store, userID, chatID int64, activity string, minutes int, notes *string) {
	if err := store.LogActivity(ctx, userID, activity, minutes, notes); err != nil {
		observability.StorageErrors.WithLabelValues("log_activity").Inc()
		b.log.Error().Err(err).Int64("user_id", userID).Str("activity", activity).Msg("log activity")
		b.send(chatID, failedReply)
		return
	}
	observability.ActivitiesLogged.Inc()

	goals, err := store.ActiveGoals(ctx, userID)
	if err != nil {
		// The entry is saved; confirm without progress.
		observability.StorageErrors.WithLabelValues("active_goals").Inc()
		b.log.Error().Err(err).Int64("user_id", userID).Msg("goal progress")
		goals = nil
	}
	b.send(chatID, logReply(activity, minutes, notes, goals))
}

func (b *Bot) handleToday(ctx context.Context, msg *tgbotapi.Message) {
	store, ok := b.store(msg, msg.From.ID)
	if !ok {
		return
	}

	entries, err := store.TodayActivities(ctx, msg.From.ID)
	if err != nil {
		b.storageError(msg, "today_activities", err)
		return
	}
	goals, err := store.ActiveGoals(ctx, msg.From.ID)
	if err != nil {
		b.storageError(msg, "active_goals", err)
		return
	}
	b.reply(msg, todayReply(entries, goals))
}

func (b *Bot) handleWeek(ctx context.Context, msg *tgbotapi.Message) {
	store, ok := b.store(msg, msg.From.ID)
	if !ok {
		return
	}

	rows, err := store.WeekSummary(ctx, msg.From.ID)
	if err != nil {
		b.storageError(msg, "week_summary", err)
		return
	}
	streaks := b.streaksFor(ctx, store, msg.From.ID, rows)
	b.reply(msg, weekReply(rows, streaks))
}

func (b *Bot) handleGoals(ctx context.Context, msg *tgbotapi.Message) {
	store, ok := b.store(msg, msg.From.ID)
	if !ok {
		return
	}

	goals, err := store.ActiveGoals(ctx, msg.From.ID)
	if err != nil {
		b.storageError(msg, "active_goals", err)
		return
	}
	b.reply(msg, goalsReply(goals))
}

func (b *Bot) handleSetGoal(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) < 2 {
		b.reply(msg, setGoalUsage)
		return
	}

	activity := strings.ToLower(args[0])
	target, err := strconv.Atoi(args[1])
	if err != nil || target <= 0 {
		b.reply(msg, "Invalid number of minutes!")
		return
	}

	period := domain.PeriodWeek
	if len(args) >= 3 {
		p, ok := domain.ParsePeriod(args[2])
		if !ok {
			b.reply(msg, invalidPeriodReply)
			return
		}
		period = p
	}

	store, ok := b.store(msg, msg.From.ID)
	if !ok {
		return
	}
	if err := store.SetGoal(ctx, msg.From.ID, activity, target, period); err != nil {
		b.storageError(msg, "set_goal", err)
		return
	}
	b.reply(msg, goalSetReply(activity, target, period))
}

func (b *Bot) handleStreak(ctx context.Context, msg *tgbotapi.Message) {
	store, ok := b.store(msg, msg.From.ID)
	if !ok {
		return
	}

	rows, err := store.WeekSummary(ctx, msg.From.ID)
	if err != nil {
		b.storageError(msg, "week_summary", err)
		return
	}
	streaks := b.streaksFor(ctx, store, msg.From.ID, rows)
	b.reply(msg, streakReply(rows, streaks))
}

func (b *Bot) handleQuick(ctx context.Context, msg *tgbotapi.Message) {
	store, ok := b.store(msg, msg.From.ID)
	if !ok {
		return
	}

	buttons, err := store.QuickButtons(ctx, msg.From.ID)
	if err != nil {
		b.storageError(msg, "quick_buttons", err)
		return
	}
	if len(buttons) == 0 {
		b.reply(msg, buttonsReply(buttons))
		return
	}
	b.sendWithKeyboard(msg.Chat.ID, buttonsReply(buttons), quickKeyboard(buttons))
}

func (b *Bot) handleAddButton(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) < 2 {
		b.reply(msg, addButtonUsage)
		return
	}

	activity := strings.ToLower(args[0])
	minutes, err := strconv.Atoi(args[1])
	if err != nil || minutes <= 0 {
		b.reply(msg, "Invalid number of minutes!")
		return
	}

	store, ok := b.store(msg, msg.From.ID)
	if !ok {
		return
	}
	created, err := store.AddQuickButton(ctx, msg.From.ID, activity, minutes)
	if err != nil {
		b.storageError(msg, "add_quick_button", err)
		return
	}
	if !created {
		b.reply(msg, "You already have that quick button!")
		return
	}
	b.reply(msg, "✅ Quick button added: "+buttonLabel(domain.QuickButton{Activity: activity, Minutes: minutes})+"\n\nUse it with /quick")
}

// streaksFor looks up the streak for each summarized activity. Lookup errors
// degrade to a missing streak rather than failing the whole reply.
func (b *Bot) streaksFor(ctx context.Context, store ports.Store, userID int64, rows []domain.ActivitySummary) map[string]int {
	streaks := make(map[string]int, len(rows))
	for _, row := range rows {
		streak, err := store.Streak(ctx, userID, row.Activity)
		if err != nil {
			observability.StorageErrors.WithLabelValues("streak").Inc()
			b.log.Error().Err(err).Str("activity", row.Activity).Msg("streak lookup")
			continue
		}
		streaks[row.Activity] = streak
	}
	return streaks
}

func (b *Bot) storageError(msg *tgbotapi.Message, op string, err error) {
	observability.StorageErrors.WithLabelValues(op).Inc()
	b.log.Error().Err(err).Int64("user_id", msg.From.ID).Str("op", op).Msg("storage operation")
	b.reply(msg, failedReply)
}
