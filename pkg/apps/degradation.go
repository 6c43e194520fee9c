package apps

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"

	"f1analysisbot/pkg/analysis"
	"f1analysisbot/pkg/helper"
	"f1analysisbot/pkg/model"
	"f1analysisbot/pkg/timing"
)

// DegradationApp renders the tyre degradation estimates of a race or
// sprint session: one fitted rate per team and compound, bias-corrected
// for fuel burn and track evolution.
type DegradationApp struct {
	bot *tgbotapi.BotAPI
	tm  *timing.Manager
}

func NewDegradationApp(bot *tgbotapi.BotAPI, tm *timing.Manager) *DegradationApp {
	return &DegradationApp{
		bot: bot,
		tm:  tm,
	}
}

func (da *DegradationApp) AcceptCommand(command string) (bool, func(ctx context.Context, chatId int64) error) {
	return false, nil
}

func (da *DegradationApp) AcceptButton(button string) (bool, func(ctx context.Context, chatId int64) error) {
	return false, nil
}

func (da *DegradationApp) AcceptCallback(query *tgbotapi.CallbackQuery) (bool, func(ctx context.Context, query *tgbotapi.CallbackQuery) error) {
	data := strings.Split(query.Data, ":")
	if data[0] != SubcommandDegradation {
		return false, nil
	}
	ref, ok := parseAnalysisCallback(data[1:])
	if !ok {
		return false, nil
	}
	return true, func(ctx context.Context, query *tgbotapi.CallbackQuery) error {
		return da.renderDegradation(ctx, query.Message.Chat.ID, ref)
	}
}

func (da *DegradationApp) renderDegradation(ctx context.Context, chatId int64, ref model.SessionRef) error {
	event, found, err := da.tm.Event(ctx, ref.Year, ref.Round)
	if err != nil || !found {
		msg := tgbotapi.NewMessage(chatId, "Session not found, pick a race again")
		_, err := da.bot.Send(msg)
		return err
	}

	data, err := da.tm.Load(ctx, ref, event.OfficialName)
	if err != nil {
		log.Printf("Error loading session %s: %s", ref, err.Error())
		msg := tgbotapi.NewMessage(chatId, fmt.Sprintf("Could not load timing data for %s", ref))
		_, err := da.bot.Send(msg)
		return err
	}

	estimates, err := analysis.EstimateDegradation(data.Laps, data.Results)
	if err != nil {
		if errors.Is(err, analysis.ErrSchema) {
			log.Printf("Schema mismatch for %s: %s", ref, err.Error())
			msg := tgbotapi.NewMessage(chatId, "The timing provider returned unusable data for this session")
			_, err := da.bot.Send(msg)
			return err
		}
		return err
	}

	if len(estimates) == 0 {
		message := "Not enough clean laps for a degradation estimate (each team/compound needs more than 10)"
		msg := tgbotapi.NewMessage(chatId, message)
		_, err := da.bot.Send(msg)
		return err
	}

	var b bytes.Buffer
	t := table.NewWriter()
	t.SetOutputMirror(&b)
	t.SetStyle(table.StyleRounded)
	t.AppendSeparator()

	t.AppendHeader(table.Row{"TEAM", "TYRE", "DEG", "LAPS"})
	for _, e := range estimates {
		t.AppendRow([]interface{}{
			e.TeamName,
			e.Compound.String(),
			helper.DegRate(e.DegRate),
			fmt.Sprintf("%d", e.LapsAnalyzed),
		})
	}
	t.Render()

	msg := tgbotapi.NewMessage(chatId, fmt.Sprintf("```\nTyre degradation in %q (%s)\n\n%s```", event.OfficialName, ref.Session, b.String()))
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	_, err = da.bot.Send(msg)
	return err
}
