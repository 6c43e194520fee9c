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
	"f1analysisbot/pkg/model"
	"f1analysisbot/pkg/timing"
)

// StrategyApp renders the pit strategy timeline of a race: every stint of
// every driver with its lap range and compound, in classification order.
type StrategyApp struct {
	bot *tgbotapi.BotAPI
	tm  *timing.Manager
}

func NewStrategyApp(bot *tgbotapi.BotAPI, tm *timing.Manager) *StrategyApp {
	return &StrategyApp{
		bot: bot,
		tm:  tm,
	}
}

func (st *StrategyApp) AcceptCommand(command string) (bool, func(ctx context.Context, chatId int64) error) {
	return false, nil
}

func (st *StrategyApp) AcceptButton(button string) (bool, func(ctx context.Context, chatId int64) error) {
	return false, nil
}

func (st *StrategyApp) AcceptCallback(query *tgbotapi.CallbackQuery) (bool, func(ctx context.Context, query *tgbotapi.CallbackQuery) error) {
	data := strings.Split(query.Data, ":")
	if data[0] != SubcommandStrategy {
		return false, nil
	}
	ref, ok := parseAnalysisCallback(data[1:])
	if !ok {
		return false, nil
	}
	return true, func(ctx context.Context, query *tgbotapi.CallbackQuery) error {
		return st.renderStrategy(ctx, query.Message.Chat.ID, ref)
	}
}

func (st *StrategyApp) renderStrategy(ctx context.Context, chatId int64, ref model.SessionRef) error {
	event, found, err := st.tm.Event(ctx, ref.Year, ref.Round)
	if err != nil || !found {
		msg := tgbotapi.NewMessage(chatId, "Session not found, pick a race again")
		_, err := st.bot.Send(msg)
		return err
	}

	data, err := st.tm.Load(ctx, ref, event.OfficialName)
	if err != nil {
		log.Printf("Error loading session %s: %s", ref, err.Error())
		msg := tgbotapi.NewMessage(chatId, fmt.Sprintf("Could not load timing data for %s", ref))
		_, err := st.bot.Send(msg)
		return err
	}

	stints := analysis.Stints(data.Laps, data.Results)
	if len(stints) == 0 {
		msg := tgbotapi.NewMessage(chatId, "No stint data in this session")
		_, err := st.bot.Send(msg)
		return err
	}

	var b bytes.Buffer
	t := table.NewWriter()
	t.SetOutputMirror(&b)
	t.SetStyle(table.StyleRounded)
	t.AppendSeparator()

	t.AppendHeader(table.Row{tableDriver, "STINT", "LAPS", "TYRE"})
	for _, s := range stints {
		t.AppendRow([]interface{}{
			s.Driver,
			fmt.Sprintf("%d", s.Stint),
			fmt.Sprintf("%d-%d (%d)", s.LapStart, s.LapEnd, s.Length()),
			s.Compound.String(),
		})
	}
	t.Render()

	msg := tgbotapi.NewMessage(chatId, fmt.Sprintf("```\nPit strategy in %q (%s)\n\n%s```", event.OfficialName, ref.Session, b.String()))
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	_, err = st.bot.Send(msg)
	return err
}
