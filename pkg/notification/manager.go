package notification

import (
	"context"
	"log"
	"strconv"
	"strings"

	"github.com/nikoksr/notify"
	"github.com/nikoksr/notify/service/telegram"

	"f1analysisbot/pkg/caster"
	"f1analysisbot/pkg/model"
	"f1analysisbot/pkg/pubsub"
	"f1analysisbot/pkg/settings"
	"f1analysisbot/pkg/timing"
)

// Lister yields the users who opted into load notifications for a session
// type.
type Lister interface {
	ListUsersForSessionLoaded(sessionType string) ([]settings.TelegramUser, error)
}

// Manager watches the session-loaded topic and tells opted-in users when a
// session's timing data becomes available. Loads can take a while on the
// provider side, so users ask to be pinged instead of waiting.
type Manager struct {
	ctx          context.Context
	lister       Lister
	token        string
	loadedChan   <-chan string
	loadedCaster caster.ChannelCaster[model.SessionLoaded]
}

func NewManager(ctx context.Context, token string, lister Lister, pubsubMgr *pubsub.PubSub[string]) *Manager {
	return &Manager{
		ctx:          ctx,
		lister:       lister,
		token:        token,
		loadedChan:   pubsubMgr.Subscribe(timing.PubSubSessionLoadedTopic),
		loadedCaster: caster.JSONChannelCaster[model.SessionLoaded]{},
	}
}

func (m *Manager) Start(exitChan <-chan bool) {
	for {
		select {
		case <-exitChan:
			return
		case payload := <-m.loadedChan:
			loaded, err := m.loadedCaster.From(payload)
			if err != nil {
				log.Printf("Error casting session loaded event: %s", err.Error())
				continue
			}
			sessionType := sessionTypeFor(loaded.Ref.Session)
			if sessionType == "" {
				continue
			}
			m.handleNotification(loaded, sessionType)
		}
	}
}

func (m *Manager) handleNotification(loaded model.SessionLoaded, sessionType string) {
	recipients, err := m.lister.ListUsersForSessionLoaded(sessionType)
	if err != nil {
		log.Printf("Error listing users for session loaded: %s", err.Error())
		return
	}
	log.Printf("Sending load notification for %s to %d telegram users\n", loaded.Ref, len(recipients))
	err = m.sendNotification(recipients, loaded)
	if err != nil {
		log.Printf("Error notifying users: %s", err.Error())
	}
}

func (m *Manager) sendNotification(tusers []settings.TelegramUser, loaded model.SessionLoaded) error {
	if len(tusers) == 0 {
		return nil
	}

	tg, err := telegram.New(m.token)
	if err != nil {
		return err
	}

	for _, tuser := range tusers {
		chatID, _ := strconv.ParseInt(tuser.ChatID, 0, 64)
		tg.AddReceivers(chatID)
	}

	n := notify.NewWithServices(tg)
	return n.Send(m.ctx, "Session data ready:", loaded.String())
}

// sessionTypeFor maps a provider session name to the notification toggle
// it falls under. Unknown names get no notification.
func sessionTypeFor(session string) string {
	switch {
	case strings.HasPrefix(session, "Practice"), strings.HasPrefix(session, "FP"):
		return settings.Practice
	case session == "Qualifying", session == "Q",
		session == "Sprint Shootout", session == "Sprint Qualifying", session == "SQ":
		return settings.Qual
	case session == "Sprint", session == "S":
		return settings.Sprint
	case session == "Race", session == "R":
		return settings.Race
	}
	return ""
}
