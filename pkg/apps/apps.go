package apps

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"f1analysisbot/pkg/model"
)

// Accepter is implemented by every application. A handler is returned only
// when the app claims the command, button or callback.
type Accepter interface {
	AcceptCommand(command string) (bool, func(ctx context.Context, chatId int64) error)
	AcceptButton(button string) (bool, func(ctx context.Context, chatId int64) error)
	AcceptCallback(query *tgbotapi.CallbackQuery) (bool, func(ctx context.Context, query *tgbotapi.CallbackQuery) error)
}

const (
	// Callback subcommands shared by the analysis apps. The payload after
	// the subcommand is always year:round:session.
	SubcommandFastest     = "fastest"
	SubcommandDegradation = "deg"
	SubcommandStrategy    = "strategy"
	SubcommandH2H         = "h2h"

	symbolTimes       = "⏱"
	symbolDegradation = "📉"
	symbolStrategy    = "🗺"
	symbolH2H         = "⚔️"

	tableDriver = "PIL"
	tableLap    = "LAP"
)

// analysisCallback builds the callback payload for a session analysis.
func analysisCallback(subcommand string, ref model.SessionRef) string {
	return fmt.Sprintf("%s:%d:%d:%s", subcommand, ref.Year, ref.Round, ref.Session)
}

// parseAnalysisCallback reads year:round:session from the split callback
// data after the subcommand. Session names may contain ":"-free spaces, so
// everything after round is rejoined.
func parseAnalysisCallback(data []string) (model.SessionRef, bool) {
	if len(data) < 3 {
		return model.SessionRef{}, false
	}
	year, err1 := strconv.Atoi(data[0])
	round, err2 := strconv.Atoi(data[1])
	if err1 != nil || err2 != nil {
		return model.SessionRef{}, false
	}
	return model.SessionRef{
		Year:    year,
		Round:   round,
		Session: strings.Join(data[2:], ":"),
	}, true
}

// analysisKeyboard is the menu shown once a session is picked. Tyre
// analyses only make sense with race running, so they are offered for
// races and sprints only.
func analysisKeyboard(ref model.SessionRef) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Fastest "+symbolTimes, analysisCallback(SubcommandFastest, ref)),
		),
	}
	if model.IsRaceSession(ref.Session) {
		rows = append(rows,
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Degradation "+symbolDegradation, analysisCallback(SubcommandDegradation, ref)),
				tgbotapi.NewInlineKeyboardButtonData("Strategy "+symbolStrategy, analysisCallback(SubcommandStrategy, ref)),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("H2H "+symbolH2H, analysisCallback(SubcommandH2H, ref)),
			),
		)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
