package apps

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jedib0t/go-pretty/v6/table"

	"f1analysisbot/pkg/analysis"
	"f1analysisbot/pkg/helper"
	"f1analysisbot/pkg/model"
	"f1analysisbot/pkg/timing"
)

// SessionApp renders the fastest-lap classification of any session.
type SessionApp struct {
	bot *tgbotapi.BotAPI
	tm  *timing.Manager
}

func NewSessionApp(bot *tgbotapi.BotAPI, tm *timing.Manager) *SessionApp {
	return &SessionApp{
		bot: bot,
		tm:  tm,
	}
}

func (sa *SessionApp) AcceptCommand(command string) (bool, func(ctx context.Context, chatId int64) error) {
	return false, nil
}

func (sa *SessionApp) AcceptButton(button string) (bool, func(ctx context.Context, chatId int64) error) {
	return false, nil
}

func (sa *SessionApp) AcceptCallback(query *tgbotapi.CallbackQuery) (bool, func(ctx context.Context, query *tgbotapi.CallbackQuery) error) {
	data := strings.Split(query.Data, ":")
	if data[0] != SubcommandFastest {
		return false, nil
	}
	ref, ok := parseAnalysisCallback(data[1:])
	if !ok {
		return false, nil
	}
	return true, func(ctx context.Context, query *tgbotapi.CallbackQuery) error {
		return sa.renderFastestLaps(ctx, query.Message.Chat.ID, ref)
	}
}

func (sa *SessionApp) renderFastestLaps(ctx context.Context, chatId int64, ref model.SessionRef) error {
	event, found, err := sa.tm.Event(ctx, ref.Year, ref.Round)
	if err != nil || !found {
		msg := tgbotapi.NewMessage(chatId, "Session not found, pick a race again")
		_, err := sa.bot.Send(msg)
		return err
	}

	data, err := sa.tm.Load(ctx, ref, event.OfficialName)
	if err != nil {
		log.Printf("Error loading session %s: %s", ref, err.Error())
		msg := tgbotapi.NewMessage(chatId, fmt.Sprintf("Could not load timing data for %s", ref))
		_, err := sa.bot.Send(msg)
		return err
	}

	fastest := analysis.FastestLaps(data.Laps)
	if len(fastest) == 0 {
		msg := tgbotapi.NewMessage(chatId, "No valid laps in this session")
		_, err := sa.bot.Send(msg)
		return err
	}

	var b bytes.Buffer
	t := table.NewWriter()
	t.SetOutputMirror(&b)
	t.SetStyle(table.StyleRounded)
	t.AppendSeparator()

	t.AppendHeader(table.Row{tableDriver, "TIME", "TYRE", "AGE"})
	for _, fl := range fastest {
		t.AppendRow([]interface{}{
			fl.Driver,
			helper.SecondsToMinutes(fl.LapTime),
			fl.Compound.String(),
			helper.TyreAge(fl.TyreAge),
		})
	}
	t.Render()

	msg := tgbotapi.NewMessage(chatId, fmt.Sprintf("```\nFastest laps in %q (%s)\n\n%s```", event.OfficialName, ref.Session, b.String()))
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	_, err = sa.bot.Send(msg)
	return err
}
