// Package bot implements the Telegram front end: a long-poll loop that
// dispatches commands, free-text activity messages and quick-button
// callbacks against a per-user store.
package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/emiliopalmerini/activitybot/internal/observability"
	"github.com/emiliopalmerini/activitybot/internal/ports"
)

// api is the slice of tgbotapi.BotAPI the bot uses. Narrowed so tests can
// substitute a fake.
type api interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Stores resolves the store for a Telegram user. The second return is false
// when the user has no store yet (sheets backend before /connect).
type Stores interface {
	StoreFor(userID int64) (ports.Store, bool)
}

// SheetSessions is the extra surface the sheets backend exposes for the
// /connect, /sheet and /start flows. Nil when running on the database
// backend.
type SheetSessions interface {
	Connect(ctx context.Context, userID int64, url string) error
	URLFor(userID int64) (string, bool)
	ServiceAccountEmail() string
}

// SingleStore adapts one shared store to the Stores interface. Used by the
// database backend, where every user lives in the same SQLite file.
type SingleStore struct {
	Store ports.Store
}

func (s SingleStore) StoreFor(int64) (ports.Store, bool) {
	return s.Store, true
}

type Bot struct {
	api    api
	stores Stores
	sheets SheetSessions
	log    zerolog.Logger
}

// New builds a Bot. sheets may be nil; the /connect and /sheet commands then
// answer that no setup is needed.
func New(api api, stores Stores, sheets SheetSessions, log zerolog.Logger) *Bot {
	return &Bot{api: api, stores: stores, sheets: sheets, log: log}
}

// Run long-polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		observability.UpdatesHandled.WithLabelValues("callback").Inc()
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		observability.UpdatesHandled.WithLabelValues("command").Inc()
		b.handleCommand(ctx, update.Message)
	case update.Message != nil && update.Message.Text != "":
		observability.UpdatesHandled.WithLabelValues("message").Inc()
		b.handleText(ctx, update.Message)
	}
}

// send delivers a Markdown message to a chat. Send errors are logged, not
// propagated; the long-poll loop must keep running.
func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error().Err(err).Int64("chat_id", chatID).Msg("send message")
	}
}

func (b *Bot) sendWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = keyboard
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error().Err(err).Int64("chat_id", chatID).Msg("send keyboard")
	}
}

func (b *Bot) reply(msg *tgbotapi.Message, text string) {
	b.send(msg.Chat.ID, text)
}

// store resolves the user's store, answering with setup instructions when
// there is none.
func (b *Bot) store(msg *tgbotapi.Message, userID int64) (ports.Store, bool) {
	store, ok := b.stores.StoreFor(userID)
	if !ok {
		b.reply(msg, notConnected)
	}
	return store, ok
}
