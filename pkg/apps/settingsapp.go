package apps

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"f1analysisbot/pkg/menus"
	"f1analysisbot/pkg/settings"
)

type ContextUser string
type ContextChatID string

const (
	UserContextKey ContextUser   = "user"
	ChatContextKey ContextChatID = "chat"

	inlineKeyboardPractice = settings.Practice
	inlineKeyboardQual     = settings.Qual
	inlineKeyboardSprint   = settings.Sprint
	inlineKeyboardRace     = settings.Race

	subcommandNotifications = "notifications"
)

var commandFavourite = regexp.MustCompile(`^\/fav ([A-Za-z]{2,3}) ([A-Za-z]{2,3})$`)

// SettingsApp manages per-user defaults: which session loads to be
// notified about and the favourite head-to-head pairing (/fav VER NOR).
type SettingsApp struct {
	bot          *tgbotapi.BotAPI
	appMenu      menus.ApplicationMenu
	menuKeyboard tgbotapi.ReplyKeyboardMarkup
	sm           *settings.Manager
	mu           sync.Mutex
}

func NewSettingsApp(bot *tgbotapi.BotAPI, appMenu menus.ApplicationMenu, sm *settings.Manager) *SettingsApp {
	sa := &SettingsApp{
		bot:     bot,
		sm:      sm,
		appMenu: appMenu,
	}

	return sa
}

func (sa *SettingsApp) Menu() tgbotapi.ReplyKeyboardMarkup {
	return sa.menuKeyboard
}

func (sa *SettingsApp) AcceptCommand(command string) (bool, func(ctx context.Context, chatId int64) error) {
	if commandFavourite.MatchString(command) {
		first := strings.ToUpper(commandFavourite.FindStringSubmatch(command)[1])
		second := strings.ToUpper(commandFavourite.FindStringSubmatch(command)[2])
		return true, sa.storeFavourite(first, second)
	}
	return false, nil
}

func (sa *SettingsApp) AcceptCallback(query *tgbotapi.CallbackQuery) (bool, func(ctx context.Context, query *tgbotapi.CallbackQuery) error) {
	data := strings.Split(query.Data, ":")
	if data[0] == subcommandNotifications {
		sa.mu.Lock()
		defer sa.mu.Unlock()
		return true, func(ctx context.Context, query *tgbotapi.CallbackQuery) error {
			userID := data[1]
			sessionType := data[2]

			chatCtxValue := ctx.Value(ChatContextKey)
			if chatCtxValue == nil {
				msg := tgbotapi.NewMessage(query.Message.Chat.ID, "Could not read chat information")
				msg.ReplyMarkup = sa.appMenu.PrevMenu()
				_, err := sa.bot.Send(msg)
				return err
			}
			chat := chatCtxValue.(*tgbotapi.Chat)
			chatID := fmt.Sprintf("%d", chat.ID)

			err := sa.sm.ToggleLoadNotification(userID, chatID, sessionType)
			if err != nil {
				msg := tgbotapi.NewMessage(query.Message.Chat.ID, "Could not change the notification state")
				msg.ReplyMarkup = sa.appMenu.PrevMenu()
				_, err := sa.bot.Send(msg)
				return err
			}
			return sa.renderNotifications(&query.Message.MessageID)(ctx, query.Message.Chat.ID)
		}
	}
	return false, nil
}

func (sa *SettingsApp) AcceptButton(button string) (bool, func(ctx context.Context, chatId int64) error) {
	sa.mu.Lock()
	defer sa.mu.Unlock()

	if button == sa.appMenu.Name {
		return true, sa.renderNotifications(nil)
	} else if button == sa.appMenu.ButtonBackTo() {
		return true, func(ctx context.Context, chatId int64) error {
			msg := tgbotapi.NewMessage(chatId, "OK")
			msg.ReplyMarkup = sa.appMenu.PrevMenu()
			_, err := sa.bot.Send(msg)
			return err
		}
	}
	return false, nil
}

func (sa *SettingsApp) storeFavourite(first, second string) func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		userCtxValue := ctx.Value(UserContextKey)
		if userCtxValue == nil {
			msg := tgbotapi.NewMessage(chatId, "Could not read the user")
			_, err := sa.bot.Send(msg)
			return err
		}
		user := userCtxValue.(*tgbotapi.User)

		err := sa.sm.SetFavouriteDrivers(fmt.Sprintf("%d", user.ID), fmt.Sprintf("%d", chatId), first, second)
		if err != nil {
			log.Println(err)
			msg := tgbotapi.NewMessage(chatId, "Could not store the favourite pairing")
			_, err := sa.bot.Send(msg)
			return err
		}
		msg := tgbotapi.NewMessage(chatId, fmt.Sprintf("Favourite pairing stored: %s vs %s", first, second))
		_, err = sa.bot.Send(msg)
		return err
	}
}

func (sa *SettingsApp) renderNotifications(messageID *int) func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		userCtxValue := ctx.Value(UserContextKey)
		if userCtxValue == nil {
			msg := tgbotapi.NewMessage(chatId, "Could not read the user")
			msg.ReplyMarkup = sa.appMenu.PrevMenu()
			_, err := sa.bot.Send(msg)
			return err
		}
		user := userCtxValue.(*tgbotapi.User)
		userID := fmt.Sprintf("%d", user.ID)
		prefs, err := sa.sm.Preferences(userID)
		if err != nil {
			log.Println(err)
			msg := tgbotapi.NewMessage(chatId, "Could not read the settings for the user")
			msg.ReplyMarkup = sa.appMenu.PrevMenu()
			_, err := sa.bot.Send(msg)
			return err
		}

		text := "Notify me when session data finishes loading:\n\n"
		text += "Set a favourite pairing with /fav VER NOR"
		keyboard := getSettingsInlineKeyboard(userID, prefs.Notifications)
		var cfg tgbotapi.Chattable
		if messageID == nil {
			msg := tgbotapi.NewMessage(chatId, text)
			msg.ReplyMarkup = keyboard
			cfg = msg
		} else {
			msg := tgbotapi.NewEditMessageText(chatId, *messageID, text)
			msg.ReplyMarkup = &keyboard
			cfg = msg
		}
		_, err = sa.bot.Send(cfg)
		return err
	}
}

func getSettingsInlineKeyboard(userID string, n settings.Notifications) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(inlineKeyboardPractice+" "+n.PracticeSymbol(), fmt.Sprintf("%s:%s:%s", subcommandNotifications, userID, inlineKeyboardPractice)),
			tgbotapi.NewInlineKeyboardButtonData(inlineKeyboardQual+" "+n.QualSymbol(), fmt.Sprintf("%s:%s:%s", subcommandNotifications, userID, inlineKeyboardQual)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(inlineKeyboardSprint+" "+n.SprintSymbol(), fmt.Sprintf("%s:%s:%s", subcommandNotifications, userID, inlineKeyboardSprint)),
			tgbotapi.NewInlineKeyboardButtonData(inlineKeyboardRace+" "+n.RaceSymbol(), fmt.Sprintf("%s:%s:%s", subcommandNotifications, userID, inlineKeyboardRace)),
		),
	)
}
