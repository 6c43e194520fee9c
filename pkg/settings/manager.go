package settings

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

const (
	DbName = "./f1analysis-bot.db"

	Practice = "Practice"
	Qual     = "Qual"
	Sprint   = "Sprint"
	Race     = "Race"

	// DefaultSeason is used until a user picks their own.
	DefaultSeason = 2024
)

type TelegramUser struct {
	ID     string
	Name   string
	ChatID string
}

// Preferences are the per-user dashboard defaults.
type Preferences struct {
	Season        int
	FirstDriver   string
	SecondDriver  string
	Notifications Notifications
}

// Notifications maps session types to whether the user wants a message
// when that session's data finishes loading.
type Notifications map[string]bool

func AllEnabled() Notifications {
	return Notifications{
		Practice: true,
		Qual:     true,
		Sprint:   true,
		Race:     true,
	}
}

func AllDisabled() Notifications {
	return Notifications{
		Practice: false,
		Qual:     false,
		Sprint:   false,
		Race:     false,
	}
}

func (n Notifications) PracticeSymbol() string {
	return symbolStatus(n[Practice])
}

func (n Notifications) QualSymbol() string {
	return symbolStatus(n[Qual])
}

func (n Notifications) SprintSymbol() string {
	return symbolStatus(n[Sprint])
}

func (n Notifications) RaceSymbol() string {
	return symbolStatus(n[Race])
}

func (n Notifications) String() string {
	status := []string{}
	status = append(status, fmt.Sprintf("%s Notify when %q data is ready", symbolStatus(n[Practice]), Practice))
	status = append(status, fmt.Sprintf("%s Notify when %q data is ready", symbolStatus(n[Qual]), Qual))
	status = append(status, fmt.Sprintf("%s Notify when %q data is ready", symbolStatus(n[Sprint]), Sprint))
	status = append(status, fmt.Sprintf("%s Notify when %q data is ready", symbolStatus(n[Race]), Race))
	return strings.Join(status, "\n")
}

func symbolStatus(enabled bool) string {
	if enabled {
		return "🔔"
	}
	return "🔕"
}

func (n *Notifications) setSessionTypeEnabledFlag(sessionType string, enabled bool) {
	(*n)[sessionType] = enabled
}

func enabledInt(enabled bool) int {
	if enabled {
		return 1
	}
	return 0
}

type Manager struct {
	db *sql.DB
	mu sync.Mutex
}

func NewManager() (*Manager, error) {
	return NewManagerWithDB(DbName)
}

func NewManagerWithDB(dbName string) (*Manager, error) {
	db, err := sql.Open("sqlite3", dbName)
	if err != nil {
		log.Printf("error opening database: %s\n", err)
		return nil, err
	}

	_, err = db.Exec(buildCreatePreferencesTable())
	if err != nil {
		log.Printf("error init database: %s\n", err)
		return nil, err
	}

	return &Manager{
		db: db,
		mu: sync.Mutex{},
	}, nil
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.db.Close()
}

// Preferences loads a user's stored defaults, falling back to the default
// season and disabled notifications for users never seen before.
func (m *Manager) Preferences(userID string) (Preferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.loadPreferences(userID)
}

func (m *Manager) SetDefaultSeason(userID, chatID string, season int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := m.loadPreferences(userID)
	if err != nil {
		return err
	}
	p.Season = season
	return m.store(userID, chatID, p)
}

func (m *Manager) SetFavouriteDrivers(userID, chatID, first, second string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := m.loadPreferences(userID)
	if err != nil {
		return err
	}
	p.FirstDriver = first
	p.SecondDriver = second
	return m.store(userID, chatID, p)
}

// ToggleLoadNotification flips one session-type notification for a user.
func (m *Manager) ToggleLoadNotification(userID, chatID, sessionType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := m.loadPreferences(userID)
	if err != nil {
		return err
	}
	p.Notifications.setSessionTypeEnabledFlag(sessionType, !p.Notifications[sessionType])
	return m.store(userID, chatID, p)
}

// ListUsersForSessionLoaded returns the users who opted into load
// notifications for a session type.
func (m *Manager) ListUsersForSessionLoaded(sessionType string) ([]TelegramUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := []TelegramUser{}
	stmt, read := buildSelectSessionLoadedCommand(sessionType)
	rows, err := m.db.Query(stmt)
	if err != nil {
		return users, err
	}
	return read(rows)
}

func (m *Manager) loadPreferences(userID string) (Preferences, error) {
	stmt, read := buildSelectUserCommand(userID)
	rows, err := m.db.Query(stmt)
	if err != nil {
		return defaultPreferences(), err
	}
	return read(rows)
}

func (m *Manager) store(userID, chatID string, p Preferences) error {
	_, err := m.db.Exec(buildUpsertUserCommand(userID, chatID, p))
	if err != nil {
		log.Printf("error updating database: %s\n", err)
		return err
	}
	return nil
}

func defaultPreferences() Preferences {
	return Preferences{
		Season:        DefaultSeason,
		Notifications: AllDisabled(),
	}
}
