package webserver

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"f1analysisbot/pkg/analysis"
	"f1analysisbot/pkg/caster"
	"f1analysisbot/pkg/model"
	"f1analysisbot/pkg/pubsub"
	"f1analysisbot/pkg/timing"

	"github.com/pkg/errors"
)

var addr = ":8080"
var upgrader = websocket.Upgrader{} // use default options

const (
	mtSessionLoaded = "sessionLoaded"
)

// Message is the envelope for websocket pushes.
type Message struct {
	MessageType string `json:"type"`
	Body        any    `json:"body,omitempty"`
}

// Manager exposes the analysis outputs as a JSON API and pushes
// session-loaded events over a websocket, for chart frontends that want
// the raw rows instead of rendered tables.
type Manager struct {
	r  *mux.Router
	tm *timing.Manager

	connMu sync.Mutex
	conns  []*websocket.Conn

	loadedChan   <-chan string
	loadedCaster caster.ChannelCaster[model.SessionLoaded]
}

func NewManager(tm *timing.Manager, pubsubMgr *pubsub.PubSub[string]) *Manager {
	m := &Manager{
		r:            mux.NewRouter(),
		tm:           tm,
		loadedChan:   pubsubMgr.Subscribe(timing.PubSubSessionLoadedTopic),
		loadedCaster: caster.JSONChannelCaster[model.SessionLoaded]{},
	}

	m.routes()
	go m.broadcastLoop()
	return m
}

func (m *Manager) router() *mux.Router {
	return m.r
}

func (m *Manager) routes() {
	m.r.HandleFunc("/api/schedule/{year}", m.handleSchedule).Methods(http.MethodGet)
	m.r.HandleFunc("/api/{year}/{round}/{session}/degradation", m.handleDegradation).Methods(http.MethodGet)
	m.r.HandleFunc("/api/{year}/{round}/{session}/fastest", m.handleFastest).Methods(http.MethodGet)
	m.r.HandleFunc("/api/{year}/{round}/{session}/strategy", m.handleStrategy).Methods(http.MethodGet)
	m.r.HandleFunc("/api/{year}/{round}/{session}/h2h", m.handleHeadToHead).Methods(http.MethodGet)
	m.r.HandleFunc("/ws", m.handleWebsocket)
}

func (m *Manager) handleSchedule(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(mux.Vars(r)["year"])
	if err != nil {
		http.Error(w, "bad year", http.StatusBadRequest)
		return
	}
	events, err := m.tm.Schedule(r.Context(), year)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, events)
}

func (m *Manager) handleDegradation(w http.ResponseWriter, r *http.Request) {
	data, ok := m.loadSession(w, r)
	if !ok {
		return
	}
	estimates, err := analysis.EstimateDegradation(data.Laps, data.Results)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, analysis.ErrSchema) {
			status = http.StatusBadGateway
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, estimates)
}

func (m *Manager) handleFastest(w http.ResponseWriter, r *http.Request) {
	data, ok := m.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, analysis.FastestLaps(data.Laps))
}

func (m *Manager) handleStrategy(w http.ResponseWriter, r *http.Request) {
	data, ok := m.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, analysis.Stints(data.Laps, data.Results))
}

func (m *Manager) handleHeadToHead(w http.ResponseWriter, r *http.Request) {
	driver1 := r.URL.Query().Get("driver1")
	driver2 := r.URL.Query().Get("driver2")
	if driver1 == "" || driver2 == "" || driver1 == driver2 {
		http.Error(w, "need two distinct drivers", http.StatusBadRequest)
		return
	}
	data, ok := m.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, analysis.HeadToHead(data.Laps, driver1, driver2))
}

func (m *Manager) loadSession(w http.ResponseWriter, r *http.Request) (*timing.SessionData, bool) {
	vars := mux.Vars(r)
	year, err1 := strconv.Atoi(vars["year"])
	round, err2 := strconv.Atoi(vars["round"])
	if err1 != nil || err2 != nil {
		http.Error(w, "bad year/round", http.StatusBadRequest)
		return nil, false
	}
	ref := model.SessionRef{Year: year, Round: round, Session: vars["session"]}

	event, found, err := m.tm.Event(r.Context(), year, round)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return nil, false
	}
	if !found {
		http.Error(w, "unknown round", http.StatusNotFound)
		return nil, false
	}

	data, err := m.tm.Load(r.Context(), ref, event.OfficialName)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return nil, false
	}
	return data, true
}

func (m *Manager) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("ws upgrade:", err)
		return
	}
	m.connMu.Lock()
	m.conns = append(m.conns, c)
	m.connMu.Unlock()
}

func (m *Manager) broadcastLoop() {
	for payload := range m.loadedChan {
		loaded, err := m.loadedCaster.From(payload)
		if err != nil {
			log.Printf("Error casting session loaded event: %s", err.Error())
			continue
		}
		m.broadcast(Message{MessageType: mtSessionLoaded, Body: loaded})
	}
}

func (m *Manager) broadcast(msg Message) {
	m.connMu.Lock()
	defer m.connMu.Unlock()
	alive := m.conns[:0]
	for _, c := range m.conns {
		if err := c.WriteJSON(msg); err != nil {
			c.Close()
			continue
		}
		alive = append(alive, c)
	}
	m.conns = alive
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("encoding response:", err)
	}
}

func (m *Manager) Serve() {
	if os.Getenv("WEBSERVER_ADDRESS") != "" {
		addr = os.Getenv("WEBSERVER_ADDRESS")
	}
	srv := &http.Server{
		Addr: addr,
		// Good practice to set timeouts to avoid Slowloris attacks.
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      m.router(),
	}

	// Run our server in a goroutine so that it doesn't block.
	go func() {
		log.Printf("webserver listening on %s\n", addr)
		if err := srv.ListenAndServe(); err != nil {
			log.Println(err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	// Block until we receive our signal.
	<-c

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv.Shutdown(ctx)
	log.Println("webserver shutting down")
}
