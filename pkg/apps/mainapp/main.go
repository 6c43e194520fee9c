package mainapp

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"f1analysisbot/pkg/apps"
	"f1analysisbot/pkg/menus"
	"f1analysisbot/pkg/settings"
	"f1analysisbot/pkg/timing"
)

const (
	menuStart      = "/start"
	menuMenu       = "/menu"
	buttonSeasons  = "Seasons"
	buttonSettings = "Settings"
	appName        = "menu"
)

var (
	menuKeyboard = tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonSeasons),
			tgbotapi.NewKeyboardButton(buttonSettings),
		),
	)
)

type menuer struct{}

func (m menuer) Menu() tgbotapi.ReplyKeyboardMarkup {
	return menuKeyboard
}

type MainApp struct {
	bot       *tgbotapi.BotAPI
	accepters []apps.Accepter
}

func NewMainApp(ctx context.Context, bot *tgbotapi.BotAPI, tm *timing.Manager, sm *settings.Manager) (*MainApp, error) {
	seasonAppMenu := menus.NewApplicationMenu(buttonSeasons, appName, menuer{})
	seasonApp := apps.NewSeasonApp(bot, seasonAppMenu, tm, sm)

	settingsAppMenu := menus.NewApplicationMenu(buttonSettings, appName, menuer{})
	settingsApp := apps.NewSettingsApp(bot, settingsAppMenu, sm)

	sessionApp := apps.NewSessionApp(bot, tm)
	degradationApp := apps.NewDegradationApp(bot, tm)
	strategyApp := apps.NewStrategyApp(bot, tm)
	h2hApp := apps.NewH2HApp(bot, tm, sm)

	accepters := []apps.Accepter{seasonApp, settingsApp, sessionApp, degradationApp, strategyApp, h2hApp}

	return &MainApp{
		bot:       bot,
		accepters: accepters,
	}, nil
}

func (m *MainApp) AcceptCommand(command string) (bool, func(ctx context.Context, chatId int64) error) {
	if command == menuStart {
		return true, m.renderStart()
	} else if command == menuMenu {
		return true, m.renderMenu()
	}
	for _, accepter := range m.accepters {
		accept, handler := accepter.AcceptCommand(command)
		if accept {
			return true, handler
		}
	}

	return false, nil
}

func (m *MainApp) AcceptCallback(query *tgbotapi.CallbackQuery) (bool, func(ctx context.Context, query *tgbotapi.CallbackQuery) error) {
	for _, accepter := range m.accepters {
		accept, handler := accepter.AcceptCallback(query)
		if accept {
			return true, handler
		}
	}

	return false, nil
}

func (m *MainApp) AcceptButton(button string) (bool, func(ctx context.Context, chatId int64) error) {
	for _, accepter := range m.accepters {
		accept, handler := accepter.AcceptButton(button)
		if accept {
			return true, handler
		}
	}
	return false, nil
}

func (m *MainApp) renderStart() func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		message := "Hi, I am the F1 timing analysis bot. Pick a season, a round and a session and I will crunch the laps for you.\n\n"
		message += "You can use the following command:\n\n"
		message += fmt.Sprintf("%s - Show the bot menu\n", menuMenu)
		msg := tgbotapi.NewMessage(chatId, message)
		msg.ReplyMarkup = menuKeyboard
		_, err := m.bot.Send(msg)
		return err
	}
}

func (m *MainApp) renderMenu() func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		message := "Bot menu.\n\n"
		msg := tgbotapi.NewMessage(chatId, message)
		msg.ReplyMarkup = menuKeyboard
		_, err := m.bot.Send(msg)
		return err
	}
}
