package timing

import (
	"context"
	"log"
	"sync"
	"time"

	"f1analysisbot/pkg/caster"
	"f1analysisbot/pkg/model"
	"f1analysisbot/pkg/pubsub"
)

const (
	// PubSubSessionLoadedTopic announces sessions whose tables arrived in
	// the cache. Payload is a JSON model.SessionLoaded.
	PubSubSessionLoadedTopic = "sessionLoaded"
)

// SessionData bundles the two tables of one loaded session.
type SessionData struct {
	Ref       model.SessionRef   `json:"ref"`
	EventName string             `json:"eventName"`
	Laps      *model.LapTable    `json:"laps"`
	Results   *model.ResultTable `json:"results"`
}

// Manager caches loaded sessions and season schedules in memory. Loading a
// session is slow on the provider side, so loaded sessions are announced
// on the pubsub for anyone who wants to know (notifications, websocket).
type Manager struct {
	mu       sync.Mutex
	provider *Provider

	schedules map[int][]model.Event
	sessions  map[string]*SessionData

	pubsubMgr    *pubsub.PubSub[string]
	loadedCaster caster.ChannelCaster[model.SessionLoaded]
}

func NewManager(provider *Provider, pubsubMgr *pubsub.PubSub[string]) *Manager {
	return &Manager{
		provider:     provider,
		schedules:    map[int][]model.Event{},
		sessions:     map[string]*SessionData{},
		pubsubMgr:    pubsubMgr,
		loadedCaster: caster.JSONChannelCaster[model.SessionLoaded]{},
	}
}

// Schedule returns the season calendar, fetching it once per cache cycle.
func (m *Manager) Schedule(ctx context.Context, year int) ([]model.Event, error) {
	m.mu.Lock()
	if events, ok := m.schedules[year]; ok {
		m.mu.Unlock()
		return events, nil
	}
	m.mu.Unlock()

	events, err := m.provider.Schedule(ctx, year)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.schedules[year] = events
	m.mu.Unlock()
	return events, nil
}

// Event looks up one schedule entry by round number.
func (m *Manager) Event(ctx context.Context, year, round int) (model.Event, bool, error) {
	events, err := m.Schedule(ctx, year)
	if err != nil {
		return model.Event{}, false, err
	}
	for _, e := range events {
		if e.Round == round {
			return e, true, nil
		}
	}
	return model.Event{}, false, nil
}

// Load returns the tables of a session, fetching them from the provider on
// first use and announcing fresh loads on the pubsub.
func (m *Manager) Load(ctx context.Context, ref model.SessionRef, eventName string) (*SessionData, error) {
	m.mu.Lock()
	if data, ok := m.sessions[ref.ID()]; ok {
		m.mu.Unlock()
		return data, nil
	}
	m.mu.Unlock()

	laps, err := m.provider.Laps(ctx, ref)
	if err != nil {
		return nil, err
	}
	results, err := m.provider.Results(ctx, ref)
	if err != nil {
		return nil, err
	}

	data := &SessionData{
		Ref:       ref,
		EventName: eventName,
		Laps:      laps,
		Results:   results,
	}

	m.mu.Lock()
	m.sessions[ref.ID()] = data
	m.mu.Unlock()

	m.announce(data)
	return data, nil
}

func (m *Manager) announce(data *SessionData) {
	loaded := model.SessionLoaded{
		Ref:       data.Ref,
		EventName: data.EventName,
		LapCount:  len(data.Laps.Laps),
	}
	payload, err := m.loadedCaster.To(loaded)
	if err != nil {
		log.Printf("Error casting session loaded event: %s", err.Error())
		return
	}
	m.pubsubMgr.Publish(PubSubSessionLoadedTopic, payload)
}

// Sync periodically drops the caches so a running bot picks up provider
// corrections (timing data gets revised after sessions).
func (m *Manager) Sync(ticker *time.Ticker, exitChan chan bool) {
	go func() {
		for {
			select {
			case <-exitChan:
				return
			case t := <-ticker.C:
				log.Println("Resetting timing caches at: ", t)
				m.mu.Lock()
				m.schedules = map[int][]model.Event{}
				m.sessions = map[string]*SessionData{}
				m.mu.Unlock()
			}
		}
	}()
}
