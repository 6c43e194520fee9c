package apps

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"f1analysisbot/pkg/menus"
	"f1analysisbot/pkg/model"
	"f1analysisbot/pkg/settings"
	"f1analysisbot/pkg/timing"
)

const (
	buttonSeasonPrefix = "Season "

	racesPerPage = 10
)

// supportedYears are the seasons the timing provider carries full data
// for, newest first.
var supportedYears = []int{2024, 2023, 2022}

var (
	commandRound   = regexp.MustCompile(`^\/r(\d{4})_(\d+)$`)
	commandSession = regexp.MustCompile(`^\/s(\d{4})_(\d+)_(\d+)$`)
)

// SeasonApp is the entry point of the dashboard: pick a season, browse its
// races, pick a session, then hand over to the analysis apps through the
// inline keyboard.
type SeasonApp struct {
	bot          *tgbotapi.BotAPI
	appMenu      menus.ApplicationMenu
	tm           *timing.Manager
	sm           *settings.Manager
	menuKeyboard tgbotapi.ReplyKeyboardMarkup
}

func NewSeasonApp(bot *tgbotapi.BotAPI, appMenu menus.ApplicationMenu, tm *timing.Manager, sm *settings.Manager) *SeasonApp {
	yearButtons := []tgbotapi.KeyboardButton{}
	for _, y := range supportedYears {
		yearButtons = append(yearButtons, tgbotapi.NewKeyboardButton(buttonSeasonPrefix+strconv.Itoa(y)))
	}
	menuKeyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(yearButtons...),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(appMenu.ButtonBackTo()),
		),
	)

	return &SeasonApp{
		bot:          bot,
		appMenu:      appMenu,
		tm:           tm,
		sm:           sm,
		menuKeyboard: menuKeyboard,
	}
}

func (sa *SeasonApp) AcceptCommand(command string) (bool, func(ctx context.Context, chatId int64) error) {
	if commandRound.MatchString(command) {
		year, _ := strconv.Atoi(commandRound.FindStringSubmatch(command)[1])
		round, _ := strconv.Atoi(commandRound.FindStringSubmatch(command)[2])
		return true, sa.renderSessions(year, round)
	} else if commandSession.MatchString(command) {
		year, _ := strconv.Atoi(commandSession.FindStringSubmatch(command)[1])
		round, _ := strconv.Atoi(commandSession.FindStringSubmatch(command)[2])
		sessionIdx, _ := strconv.Atoi(commandSession.FindStringSubmatch(command)[3])
		return true, sa.renderAnalysisMenu(year, round, sessionIdx)
	}
	return false, nil
}

func (sa *SeasonApp) AcceptCallback(query *tgbotapi.CallbackQuery) (bool, func(ctx context.Context, query *tgbotapi.CallbackQuery) error) {
	data := strings.Split(query.Data, ":")
	if data[0] == "pager" && len(data) == 5 {
		return true, func(ctx context.Context, query *tgbotapi.CallbackQuery) error {
			return sa.handlePagerCallback(ctx, query.Message.Chat.ID, query.Message.MessageID, data[1:])
		}
	}
	return false, nil
}

func (sa *SeasonApp) AcceptButton(button string) (bool, func(ctx context.Context, chatId int64) error) {
	if button == sa.appMenu.Name {
		return true, func(ctx context.Context, chatId int64) error {
			message := fmt.Sprintf("%s application\n\n", sa.appMenu.Name)
			msg := tgbotapi.NewMessage(chatId, message)
			msg.ReplyMarkup = sa.menuKeyboard
			_, err := sa.bot.Send(msg)
			return err
		}
	} else if button == sa.appMenu.ButtonBackTo() {
		return true, func(ctx context.Context, chatId int64) error {
			msg := tgbotapi.NewMessage(chatId, "OK")
			msg.ReplyMarkup = sa.appMenu.PrevMenu()
			_, err := sa.bot.Send(msg)
			return err
		}
	} else if strings.HasPrefix(button, buttonSeasonPrefix) {
		year, err := strconv.Atoi(strings.TrimPrefix(button, buttonSeasonPrefix))
		if err != nil {
			return false, nil
		}
		return true, func(ctx context.Context, chatId int64) error {
			// the picked season becomes the user's default
			if user, ok := ctx.Value(UserContextKey).(*tgbotapi.User); ok {
				err := sa.sm.SetDefaultSeason(fmt.Sprintf("%d", user.ID), fmt.Sprintf("%d", chatId), year)
				if err != nil {
					log.Println(err)
				}
			}
			return sa.sendRaceList(ctx, chatId, year, 0, nil)
		}
	}
	return false, nil
}

func (sa *SeasonApp) sendRaceList(ctx context.Context, chatId int64, year, page int, messageId *int) error {
	events, err := sa.tm.Schedule(ctx, year)
	if err != nil {
		log.Printf("Error fetching %d schedule: %s", year, err.Error())
		message := fmt.Sprintf("No race data available for %d", year)
		msg := tgbotapi.NewMessage(chatId, message)
		_, err := sa.bot.Send(msg)
		return err
	}
	if len(events) == 0 {
		msg := tgbotapi.NewMessage(chatId, fmt.Sprintf("No races found for %d", year))
		_, err := sa.bot.Send(msg)
		return err
	}

	text, keyboard := sa.raceListTextMarkup(events, year, page)

	var cfg tgbotapi.Chattable
	if messageId == nil {
		msg := tgbotapi.NewMessage(chatId, text)
		msg.ReplyMarkup = keyboard
		cfg = msg
	} else {
		msg := tgbotapi.NewEditMessageText(chatId, *messageId, text)
		msg.ReplyMarkup = &keyboard
		cfg = msg
	}
	_, err = sa.bot.Send(cfg)
	return err
}

func (sa *SeasonApp) raceListTextMarkup(events []model.Event, year, page int) (string, tgbotapi.InlineKeyboardMarkup) {
	start := page * racesPerPage
	end := start + racesPerPage
	if start > len(events) {
		start = len(events)
	}
	if end > len(events) {
		end = len(events)
	}

	lines := []string{fmt.Sprintf("Races in %d:\n", year)}
	for _, e := range events[start:end] {
		lines = append(lines, fmt.Sprintf(" ▸ %s ➡ /r%d_%d", e.String(), year, e.Round))
	}
	text := strings.Join(lines, "\n")

	maxPages := (len(events) + racesPerPage - 1) / racesPerPage
	var row []tgbotapi.InlineKeyboardButton
	if page > 0 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("Prev", fmt.Sprintf("pager:%d:prev:%d:%d", year, page, racesPerPage)))
	}
	if page < maxPages-1 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("Next", fmt.Sprintf("pager:%d:next:%d:%d", year, page, racesPerPage)))
	}
	if len(row) == 0 {
		return text, tgbotapi.NewInlineKeyboardMarkup()
	}
	return text, tgbotapi.NewInlineKeyboardMarkup(row)
}

func (sa *SeasonApp) handlePagerCallback(ctx context.Context, chatId int64, messageId int, data []string) error {
	year, _ := strconv.Atoi(data[0])
	pagerType := data[1]
	currentPage, _ := strconv.Atoi(data[2])

	page := currentPage
	if pagerType == "next" {
		page = currentPage + 1
	} else if pagerType == "prev" && currentPage > 0 {
		page = currentPage - 1
	}
	return sa.sendRaceList(ctx, chatId, year, page, &messageId)
}

func (sa *SeasonApp) renderSessions(year, round int) func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		event, found, err := sa.tm.Event(ctx, year, round)
		if err != nil || !found {
			message := fmt.Sprintf("No sessions available for round %d of %d", round, year)
			msg := tgbotapi.NewMessage(chatId, message)
			_, err := sa.bot.Send(msg)
			return err
		}

		message := fmt.Sprintf("Sessions of %s:\n\n", event.OfficialName)
		sessionStrings := make([]string, len(event.Sessions))
		for i, s := range event.Sessions {
			sessionStrings[i] = fmt.Sprintf(" ▸ %s ➡ /s%d_%d_%d", s, year, round, i+1)
		}
		message += strings.Join(sessionStrings, "\n")
		msg := tgbotapi.NewMessage(chatId, message)
		_, err = sa.bot.Send(msg)
		return err
	}
}

func (sa *SeasonApp) renderAnalysisMenu(year, round, sessionIdx int) func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		event, found, err := sa.tm.Event(ctx, year, round)
		if err != nil || !found || sessionIdx < 1 || sessionIdx > len(event.Sessions) {
			message := "Session not found, pick a race again"
			msg := tgbotapi.NewMessage(chatId, message)
			_, err := sa.bot.Send(msg)
			return err
		}

		ref := model.SessionRef{Year: year, Round: round, Session: event.Sessions[sessionIdx-1]}
		keyboard := analysisKeyboard(ref)
		msg := tgbotapi.NewMessage(chatId, fmt.Sprintf("Pick an analysis for %s - %s:", event.OfficialName, ref.Session))
		msg.ReplyMarkup = keyboard
		_, err = sa.bot.Send(msg)
		return err
	}
}
