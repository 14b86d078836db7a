package bot

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/emiliopalmerini/activitybot/internal/domain"
)

const quickActionPrefix = "log_"

// encodeQuickAction packs a button into callback data: "log_<activity>_<minutes>".
func encodeQuickAction(b domain.QuickButton) string {
	return fmt.Sprintf("%s%s_%d", quickActionPrefix, b.Activity, b.Minutes)
}

// decodeQuickAction is the inverse of encodeQuickAction. The activity name
// may itself contain underscores or spaces, so the minutes are taken from
// the last separator.
func decodeQuickAction(data string) (activity string, minutes int, ok bool) {
	rest, found := strings.CutPrefix(data, quickActionPrefix)
	if !found {
		return "", 0, false
	}
	i := strings.LastIndex(rest, "_")
	if i <= 0 {
		return "", 0, false
	}
	minutes, err := strconv.Atoi(rest[i+1:])
	if err != nil || minutes <= 0 {
		return "", 0, false
	}
	return rest[:i], minutes, true
}

func quickKeyboard(buttons []domain.QuickButton) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, btn := range buttons {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(buttonLabel(btn), encodeQuickAction(btn)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
