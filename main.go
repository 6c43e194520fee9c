package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"f1analysisbot/pkg/apps"
	"f1analysisbot/pkg/apps/mainapp"
	"f1analysisbot/pkg/notification"
	"f1analysisbot/pkg/pubsub"
	"f1analysisbot/pkg/settings"
	"f1analysisbot/pkg/timing"
	"f1analysisbot/pkg/webserver"
)

var (
	bot *tgbotapi.BotAPI
	app *mainapp.MainApp
)

func main() {
	var err error
	// get token from env
	token := os.Getenv("TELEGRAM_TOKEN")
	bot, err = tgbotapi.NewBotAPI(token)
	if err != nil {
		// Abort if something is wrong
		log.Panic(err)
	}

	apiDomain := os.Getenv("TIMING_API_DOMAIN")
	if apiDomain == "" {
		log.Panic("TIMING_API_DOMAIN is not set")
	}

	// Set this to true to log all interactions with telegram servers
	bot.Debug = false

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	// Create a new cancellable background context. Calling `cancel()` leads to the cancellation of the context
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)

	sm, err := settings.NewManager()
	if err != nil {
		log.Panic(err)
	}
	defer sm.Close()

	pubsubMgr := pubsub.NewPubSub[string]()
	tm := timing.NewManager(timing.NewProvider(apiDomain), pubsubMgr)

	app, err = mainapp.NewMainApp(ctx, bot, tm, sm)
	if err != nil {
		log.Panic(err)
	}

	exitChan := make(chan bool)

	nm := notification.NewManager(ctx, token, sm, pubsubMgr)
	go nm.Start(exitChan)

	ws := webserver.NewManager(tm, pubsubMgr)
	go ws.Serve()

	// session caches are dropped every hour so a reloaded session
	// picks up late timing corrections
	ticker := time.NewTicker(60 * time.Minute)
	tm.Sync(ticker, exitChan)

	// `updates` is a golang channel which receives telegram updates
	updates := bot.GetUpdatesChan(u)

	// Pass cancellable context to goroutine
	go receiveUpdates(ctx, updates)

	// Tell the user the bot is online
	log.Println("Start listening for updates. Press Ctrl-C to stop it")

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	// lock the main thread until we receive a signal
	<-sigs

	ticker.Stop()
	close(exitChan)

	cancel()
}

func receiveUpdates(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	// `for {` means the loop is infinite until we manually stop it
	for {
		select {
		// stop looping if ctx is cancelled
		case <-ctx.Done():
			return
		// receive update from channel and then handle it
		case update := <-updates:
			handleUpdate(ctx, update)
		}
	}
}

func handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	// Handle messages
	case update.Message != nil:
		handleMessage(ctx, update.Message)
	// Handle button clicks
	case update.CallbackQuery != nil:
		handleCallbackQuery(ctx, update.CallbackQuery)
	}
}

func handleMessage(ctx context.Context, message *tgbotapi.Message) {
	user := message.From
	text := message.Text

	if user == nil {
		return
	}

	// Print to console
	log.Printf("%s wrote %s", user.FirstName, text)

	// apps read the user and the chat from the context
	ctx = context.WithValue(ctx, apps.UserContextKey, user)
	ctx = context.WithValue(ctx, apps.ChatContextKey, message.Chat)

	var err error
	if message.IsCommand() {
		err = handleCommand(ctx, message.Chat.ID, text)
	} else if len(text) > 0 {
		err = handleButton(ctx, message.Chat.ID, text)
	}

	if err != nil {
		log.Printf("An error occured: %s", err.Error())
	}
}

// When we get a command, we react accordingly
func handleCommand(ctx context.Context, chatId int64, command string) error {
	accept, handler := app.AcceptCommand(command)
	if accept {
		return handler(ctx, chatId)
	}
	return nil
}

func handleButton(ctx context.Context, chatId int64, button string) error {
	accept, handler := app.AcceptButton(button)
	if accept {
		return handler(ctx, chatId)
	}
	return nil
}

func handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.From != nil {
		ctx = context.WithValue(ctx, apps.UserContextKey, query.From)
	}
	if query.Message != nil {
		ctx = context.WithValue(ctx, apps.ChatContextKey, query.Message.Chat)
	}

	accept, handler := app.AcceptCallback(query)
	if accept {
		// telegram expects the callback to be acknowledged
		callback := tgbotapi.NewCallback(query.ID, "")
		if _, err := bot.Request(callback); err != nil {
			log.Println(err)
		}
		err := handler(ctx, query)
		if err != nil {
			log.Printf("An error occured: %s", err.Error())
		}
	}
}
