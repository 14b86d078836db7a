package bot

import (
	"context"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/emiliopalmerini/activitybot/internal/domain"
	"github.com/emiliopalmerini/activitybot/internal/ports"
)

type fakeAPI struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return make(chan tgbotapi.Update)
}

func (f *fakeAPI) StopReceivingUpdates() {}

func (f *fakeAPI) lastText(t *testing.T) string {
	t.Helper()
	if len(f.sent) == 0 {
		t.Fatal("no messages sent")
	}
	msg, ok := f.sent[len(f.sent)-1].(tgbotapi.MessageConfig)
	if !ok {
		t.Fatalf("last sent is %T, want MessageConfig", f.sent[len(f.sent)-1])
	}
	return msg.Text
}

type loggedEntry struct {
	userID   int64
	activity string
	minutes  int
	notes    *string
}

// fakeStore is an in-memory ports.Store for handler tests.
type fakeStore struct {
	logged  []loggedEntry
	goals   []domain.GoalProgress
	buttons []domain.QuickButton
	week    []domain.ActivitySummary
	streaks map[string]int
}

var _ ports.Store = (*fakeStore)(nil)

func (s *fakeStore) LogActivity(_ context.Context, userID int64, activity string, minutes int, notes *string) error {
	s.logged = append(s.logged, loggedEntry{userID, activity, minutes, notes})
	return nil
}

func (s *fakeStore) TodayActivities(context.Context, int64) ([]domain.Entry, error) {
	entries := make([]domain.Entry, 0, len(s.logged))
	for _, l := range s.logged {
		entries = append(entries, domain.Entry{
			UserID: l.userID, Activity: l.activity, Minutes: l.minutes,
			LoggedAt: time.Now(), Notes: l.notes,
		})
	}
	return entries, nil
}

func (s *fakeStore) WeekSummary(context.Context, int64) ([]domain.ActivitySummary, error) {
	return s.week, nil
}

func (s *fakeStore) Streak(_ context.Context, _ int64, activity string) (int, error) {
	return s.streaks[activity], nil
}

func (s *fakeStore) SetGoal(_ context.Context, _ int64, activity string, target int, period domain.Period) error {
	s.goals = append(s.goals, domain.GoalProgress{Activity: activity, TargetMinutes: target, Period: period})
	return nil
}

func (s *fakeStore) ActiveGoals(context.Context, int64) ([]domain.GoalProgress, error) {
	return s.goals, nil
}

func (s *fakeStore) AddQuickButton(_ context.Context, _ int64, activity string, minutes int) (bool, error) {
	for _, b := range s.buttons {
		if b.Activity == activity && b.Minutes == minutes {
			return false, nil
		}
	}
	s.buttons = append(s.buttons, domain.QuickButton{Activity: activity, Minutes: minutes})
	return true, nil
}

func (s *fakeStore) QuickButtons(context.Context, int64) ([]domain.QuickButton, error) {
	return s.buttons, nil
}

// noStores simulates the sheets backend before /connect.
type noStores struct{}

func (noStores) StoreFor(int64) (ports.Store, bool) { return nil, false }

func newTestBot(t *testing.T) (*Bot, *fakeAPI, *fakeStore) {
	t.Helper()
	api := &fakeAPI{}
	store := &fakeStore{streaks: map[string]int{}}
	return New(api, SingleStore{Store: store}, nil, zerolog.Nop()), api, store
}

func textMsg(text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		Text: text,
		From: &tgbotapi.User{ID: 42, FirstName: "Ada"},
		Chat: &tgbotapi.Chat{ID: 42},
	}
}

func commandMsg(text string) *tgbotapi.Message {
	msg := textMsg(text)
	length := len(text)
	if i := strings.Index(text, " "); i >= 0 {
		length = i
	}
	msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}}
	return msg
}

func TestFreeTextLogsActivity(t *testing.T) {
	bot, api, store := newTestBot(t)

	bot.handleUpdate(context.Background(), tgbotapi.Update{Message: textMsg("exercise 30m")})

	if len(store.logged) != 1 {
		t.Fatalf("logged %d entries, want 1", len(store.logged))
	}
	got := store.logged[0]
	if got.userID != 42 || got.activity != "exercise" || got.minutes != 30 || got.notes != nil {
		t.Errorf("logged %+v", got)
	}
	if reply := api.lastText(t); !strings.Contains(reply, "✅ Exercise: 30m") {
		t.Errorf("reply = %q", reply)
	}
}

func TestFreeTextWithGoalProgress(t *testing.T) {
	bot, api, store := newTestBot(t)
	store.goals = []domain.GoalProgress{
		{Activity: "exercise", TargetMinutes: 150, Period: domain.PeriodWeek, CurrentMinutes: 90},
	}

	bot.handleUpdate(context.Background(), tgbotapi.Update{Message: textMsg("exercise 1h felt great")})

	if store.logged[0].minutes != 60 {
		t.Errorf("minutes = %d, want 60", store.logged[0].minutes)
	}
	reply := api.lastText(t)
	if !strings.Contains(reply, "💭 felt great") || !strings.Contains(reply, "🎯 Goal: 90/150m (60%)") {
		t.Errorf("reply = %q", reply)
	}
}

func TestFreeTextParseMiss(t *testing.T) {
	bot, api, store := newTestBot(t)

	bot.handleUpdate(context.Background(), tgbotapi.Update{Message: textMsg("just chatting")})

	if len(store.logged) != 0 {
		t.Errorf("logged %d entries, want 0", len(store.logged))
	}
	if reply := api.lastText(t); reply != parseHint {
		t.Errorf("reply = %q, want hint", reply)
	}
}

func TestNoStoreAsksForSetup(t *testing.T) {
	api := &fakeAPI{}
	bot := New(api, noStores{}, nil, zerolog.Nop())

	bot.handleUpdate(context.Background(), tgbotapi.Update{Message: textMsg("exercise 30m")})

	if reply := api.lastText(t); reply != notConnected {
		t.Errorf("reply = %q, want setup prompt", reply)
	}
}

func TestSetGoalCommand(t *testing.T) {
	bot, api, store := newTestBot(t)

	bot.handleUpdate(context.Background(), tgbotapi.Update{Message: commandMsg("/setgoal Exercise 150")})

	if len(store.goals) != 1 {
		t.Fatalf("goals = %d, want 1", len(store.goals))
	}
	g := store.goals[0]
	if g.Activity != "exercise" || g.TargetMinutes != 150 || g.Period != domain.PeriodWeek {
		t.Errorf("goal = %+v", g)
	}
	if reply := api.lastText(t); !strings.Contains(reply, "✅ Goal set!") {
		t.Errorf("reply = %q", reply)
	}
}

func TestSetGoalRejectsBadInput(t *testing.T) {
	bot, api, store := newTestBot(t)
	ctx := context.Background()

	bot.handleUpdate(ctx, tgbotapi.Update{Message: commandMsg("/setgoal exercise")})
	if reply := api.lastText(t); !strings.Contains(reply, "Usage:") {
		t.Errorf("short args reply = %q", reply)
	}

	bot.handleUpdate(ctx, tgbotapi.Update{Message: commandMsg("/setgoal exercise ten")})
	if reply := api.lastText(t); !strings.Contains(reply, "Invalid number") {
		t.Errorf("bad number reply = %q", reply)
	}

	bot.handleUpdate(ctx, tgbotapi.Update{Message: commandMsg("/setgoal exercise 30 fortnightly")})
	if reply := api.lastText(t); !strings.Contains(reply, "Invalid period") {
		t.Errorf("bad period reply = %q", reply)
	}

	if len(store.goals) != 0 {
		t.Errorf("goals = %d, want 0", len(store.goals))
	}
}

func TestAddButtonTwice(t *testing.T) {
	bot, api, _ := newTestBot(t)
	ctx := context.Background()

	bot.handleUpdate(ctx, tgbotapi.Update{Message: commandMsg("/addbutton exercise 30")})
	if reply := api.lastText(t); !strings.Contains(reply, "✅ Quick button added") {
		t.Errorf("first reply = %q", reply)
	}

	bot.handleUpdate(ctx, tgbotapi.Update{Message: commandMsg("/addbutton exercise 30")})
	if reply := api.lastText(t); !strings.Contains(reply, "already have") {
		t.Errorf("second reply = %q", reply)
	}
}

func TestQuickSendsKeyboard(t *testing.T) {
	bot, api, store := newTestBot(t)
	store.buttons = []domain.QuickButton{
		{Activity: "exercise", Minutes: 30},
		{Activity: "reading", Minutes: 45},
	}

	bot.handleUpdate(context.Background(), tgbotapi.Update{Message: commandMsg("/quick")})

	msg, ok := api.sent[len(api.sent)-1].(tgbotapi.MessageConfig)
	if !ok {
		t.Fatalf("sent %T, want MessageConfig", api.sent[len(api.sent)-1])
	}
	keyboard, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	if !ok {
		t.Fatalf("reply markup is %T, want InlineKeyboardMarkup", msg.ReplyMarkup)
	}
	if len(keyboard.InlineKeyboard) != 2 {
		t.Fatalf("keyboard rows = %d, want 2", len(keyboard.InlineKeyboard))
	}
	btn := keyboard.InlineKeyboard[0][0]
	if btn.Text != "Exercise · 30m" {
		t.Errorf("label = %q", btn.Text)
	}
	if btn.CallbackData == nil || *btn.CallbackData != "log_exercise_30" {
		t.Errorf("callback data = %v", btn.CallbackData)
	}
}

func TestQuickWithoutButtons(t *testing.T) {
	bot, api, _ := newTestBot(t)

	bot.handleUpdate(context.Background(), tgbotapi.Update{Message: commandMsg("/quick")})

	if reply := api.lastText(t); !strings.Contains(reply, "No quick buttons yet!") {
		t.Errorf("reply = %q", reply)
	}
}

func TestCallbackLogsActivity(t *testing.T) {
	bot, api, store := newTestBot(t)

	cq := &tgbotapi.CallbackQuery{
		ID:      "cb1",
		Data:    "log_deep work_45",
		From:    &tgbotapi.User{ID: 42},
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 42}},
	}
	bot.handleUpdate(context.Background(), tgbotapi.Update{CallbackQuery: cq})

	if len(api.requests) != 1 {
		t.Fatalf("callback answers = %d, want 1", len(api.requests))
	}
	if len(store.logged) != 1 {
		t.Fatalf("logged %d entries, want 1", len(store.logged))
	}
	got := store.logged[0]
	if got.activity != "deep work" || got.minutes != 45 || got.notes != nil {
		t.Errorf("logged %+v", got)
	}
	if reply := api.lastText(t); !strings.Contains(reply, "✅ Deep Work: 45m") {
		t.Errorf("reply = %q", reply)
	}
}

func TestCallbackIgnoresForeignData(t *testing.T) {
	bot, _, store := newTestBot(t)

	cq := &tgbotapi.CallbackQuery{
		ID:      "cb2",
		Data:    "page_next",
		From:    &tgbotapi.User{ID: 42},
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 42}},
	}
	bot.handleUpdate(context.Background(), tgbotapi.Update{CallbackQuery: cq})

	if len(store.logged) != 0 {
		t.Errorf("logged %d entries, want 0", len(store.logged))
	}
}

func TestWeekCommand(t *testing.T) {
	bot, api, store := newTestBot(t)
	store.week = []domain.ActivitySummary{
		{Activity: "exercise", TotalMinutes: 90, Count: 3},
	}
	store.streaks["exercise"] = 3

	bot.handleUpdate(context.Background(), tgbotapi.Update{Message: commandMsg("/week")})

	if reply := api.lastText(t); !strings.Contains(reply, "• Exercise: 1h 30m (3x) 🔥3") {
		t.Errorf("reply = %q", reply)
	}
}

func TestHelpCommand(t *testing.T) {
	bot, api, _ := newTestBot(t)

	bot.handleUpdate(context.Background(), tgbotapi.Update{Message: commandMsg("/help")})

	if reply := api.lastText(t); !strings.Contains(reply, "/setgoal") {
		t.Errorf("reply = %q", reply)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	bot, _, _ := newTestBot(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := bot.Run(ctx); err != context.Canceled {
		t.Errorf("Run returned %v, want context.Canceled", err)
	}
}
