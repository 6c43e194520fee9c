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
	"f1analysisbot/pkg/settings"
	"f1analysisbot/pkg/timing"
)

const (
	subcommandH2HFirst  = "h2hp1"
	subcommandH2HSecond = "h2hp2"
)

// H2HApp compares two drivers lap by lap. The drivers are picked through
// two rounds of inline keyboards; a user's favourite pairing (settings)
// gets a shortcut button.
type H2HApp struct {
	bot *tgbotapi.BotAPI
	tm  *timing.Manager
	sm  *settings.Manager
}

func NewH2HApp(bot *tgbotapi.BotAPI, tm *timing.Manager, sm *settings.Manager) *H2HApp {
	return &H2HApp{
		bot: bot,
		tm:  tm,
		sm:  sm,
	}
}

func (h *H2HApp) AcceptCommand(command string) (bool, func(ctx context.Context, chatId int64) error) {
	return false, nil
}

func (h *H2HApp) AcceptButton(button string) (bool, func(ctx context.Context, chatId int64) error) {
	return false, nil
}

func (h *H2HApp) AcceptCallback(query *tgbotapi.CallbackQuery) (bool, func(ctx context.Context, query *tgbotapi.CallbackQuery) error) {
	data := strings.Split(query.Data, ":")
	switch data[0] {
	case SubcommandH2H:
		ref, ok := parseAnalysisCallback(data[1:])
		if !ok {
			return false, nil
		}
		return true, func(ctx context.Context, query *tgbotapi.CallbackQuery) error {
			return h.renderDriverPick(ctx, query, ref, "")
		}
	case subcommandH2HFirst:
		ref, first, ok := parseH2HCallback(data[1:], 1)
		if !ok {
			return false, nil
		}
		return true, func(ctx context.Context, query *tgbotapi.CallbackQuery) error {
			return h.renderDriverPick(ctx, query, ref, first[0])
		}
	case subcommandH2HSecond:
		ref, drivers, ok := parseH2HCallback(data[1:], 2)
		if !ok {
			return false, nil
		}
		return true, func(ctx context.Context, query *tgbotapi.CallbackQuery) error {
			return h.renderComparison(ctx, query.Message.Chat.ID, ref, drivers[0], drivers[1])
		}
	}
	return false, nil
}

// parseH2HCallback splits year:round:session:driver... where the trailing
// driverCount elements are driver abbreviations.
func parseH2HCallback(data []string, driverCount int) (model.SessionRef, []string, bool) {
	if len(data) < 3+driverCount {
		return model.SessionRef{}, nil, false
	}
	drivers := data[len(data)-driverCount:]
	ref, ok := parseAnalysisCallback(data[:len(data)-driverCount])
	if !ok {
		return model.SessionRef{}, nil, false
	}
	return ref, drivers, true
}

// renderDriverPick shows the driver keyboard. With first == "" the pick is
// for the first driver, otherwise for the opponent.
func (h *H2HApp) renderDriverPick(ctx context.Context, query *tgbotapi.CallbackQuery, ref model.SessionRef, first string) error {
	chatId := query.Message.Chat.ID
	data, err := h.loadSession(ctx, chatId, ref)
	if err != nil || data == nil {
		return err
	}

	drivers := analysis.Drivers(data.Laps)
	if len(drivers) < 2 {
		msg := tgbotapi.NewMessage(chatId, "Not enough drivers in this session to compare")
		_, err := h.bot.Send(msg)
		return err
	}

	subcommand := subcommandH2HFirst
	prompt := "Pick the first driver:"
	if first != "" {
		subcommand = subcommandH2HSecond
		prompt = fmt.Sprintf("Pick the opponent for %s:", first)
	}

	buttons := [][]tgbotapi.InlineKeyboardButton{}
	idx := 0
	for _, d := range drivers {
		if d == first {
			continue
		}
		if idx%4 == 0 {
			buttons = append(buttons, []tgbotapi.InlineKeyboardButton{})
		}
		payload := fmt.Sprintf("%s:%s", subcommand, callbackRef(ref))
		if first != "" {
			payload += ":" + first
		}
		payload += ":" + d
		buttons[len(buttons)-1] = append(buttons[len(buttons)-1], tgbotapi.NewInlineKeyboardButtonData(d, payload))
		idx++
	}

	if first == "" {
		if fav, ok := h.favouritePairing(query, drivers); ok {
			buttons = append(buttons, []tgbotapi.InlineKeyboardButton{
				tgbotapi.NewInlineKeyboardButtonData(
					fmt.Sprintf("⭐ %s vs %s", fav[0], fav[1]),
					fmt.Sprintf("%s:%s:%s:%s", subcommandH2HSecond, callbackRef(ref), fav[0], fav[1]),
				),
			})
		}
	}

	markup := tgbotapi.NewInlineKeyboardMarkup(buttons...)
	msg := tgbotapi.NewEditMessageText(chatId, query.Message.MessageID, prompt)
	msg.ReplyMarkup = &markup
	_, err = h.bot.Send(msg)
	return err
}

// favouritePairing returns the user's stored pairing when both drivers
// are in the session.
func (h *H2HApp) favouritePairing(query *tgbotapi.CallbackQuery, drivers []string) ([2]string, bool) {
	if query.From == nil {
		return [2]string{}, false
	}
	prefs, err := h.sm.Preferences(fmt.Sprint(query.From.ID))
	if err != nil || prefs.FirstDriver == "" || prefs.SecondDriver == "" {
		return [2]string{}, false
	}
	present := make(map[string]bool, len(drivers))
	for _, d := range drivers {
		present[d] = true
	}
	if !present[prefs.FirstDriver] || !present[prefs.SecondDriver] {
		return [2]string{}, false
	}
	return [2]string{prefs.FirstDriver, prefs.SecondDriver}, true
}

func (h *H2HApp) renderComparison(ctx context.Context, chatId int64, ref model.SessionRef, driver1, driver2 string) error {
	data, err := h.loadSession(ctx, chatId, ref)
	if err != nil || data == nil {
		return err
	}

	comparison := analysis.HeadToHead(data.Laps, driver1, driver2)
	if len(comparison) == 0 {
		message := fmt.Sprintf("%s and %s share no clean lap in this session", driver1, driver2)
		msg := tgbotapi.NewMessage(chatId, message)
		_, err := h.bot.Send(msg)
		return err
	}

	var total float64
	var b bytes.Buffer
	t := table.NewWriter()
	t.SetOutputMirror(&b)
	t.SetStyle(table.StyleRounded)
	t.AppendSeparator()

	t.AppendHeader(table.Row{tableLap, driver1, driver2, "DELTA"})
	for _, c := range comparison {
		total += c.Delta
		t.AppendRow([]interface{}{
			fmt.Sprintf("%d", c.LapNumber),
			helper.SecondsToMinutes(c.Time1),
			helper.SecondsToMinutes(c.Time2),
			helper.SignedSeconds(c.Delta),
		})
	}
	t.Render()

	summary := fmt.Sprintf("Total over %d laps: %s (positive means %s slower)",
		len(comparison), helper.SignedSeconds(total), driver1)
	msg := tgbotapi.NewMessage(chatId, fmt.Sprintf("```\n%s vs %s\n\n%s\n%s```", driver1, driver2, b.String(), summary))
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	_, err = h.bot.Send(msg)
	return err
}

func (h *H2HApp) loadSession(ctx context.Context, chatId int64, ref model.SessionRef) (*timing.SessionData, error) {
	event, found, err := h.tm.Event(ctx, ref.Year, ref.Round)
	if err != nil || !found {
		msg := tgbotapi.NewMessage(chatId, "Session not found, pick a race again")
		_, err := h.bot.Send(msg)
		return nil, err
	}
	data, err := h.tm.Load(ctx, ref, event.OfficialName)
	if err != nil {
		log.Printf("Error loading session %s: %s", ref, err.Error())
		msg := tgbotapi.NewMessage(chatId, fmt.Sprintf("Could not load timing data for %s", ref))
		_, err := h.bot.Send(msg)
		return nil, err
	}
	return data, nil
}

func callbackRef(ref model.SessionRef) string {
	return fmt.Sprintf("%d:%d:%s", ref.Year, ref.Round, ref.Session)
}
