package settings

import (
	"database/sql"
	"fmt"
	"strings"
)

func buildCreatePreferencesTable() string {
	return `CREATE TABLE IF NOT EXISTS preferences (
		userid TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		chatid TEXT NOT NULL,
		season INTEGER,
		driver1 TEXT,
		driver2 TEXT,
		practice INTEGER,
		qual INTEGER,
		sprint INTEGER,
		race INTEGER);`
}

func buildSelectUserCommand(userID string) (string, func(*sql.Rows) (Preferences, error)) {
	fields := "season, driver1, driver2, practice, qual, sprint, race"
	return fmt.Sprintf(`SELECT %s FROM preferences WHERE userid = '%s'`, fields, sanitize(userID)), processSelectUserRows
}

func processSelectUserRows(rows *sql.Rows) (Preferences, error) {
	defer rows.Close()

	p := defaultPreferences()
	// only can be one row
	if rows.Next() {
		var season int
		var driver1 string
		var driver2 string
		var practice int
		var qual int
		var sprint int
		var race int
		err := rows.Scan(&season, &driver1, &driver2, &practice, &qual, &sprint, &race)
		if err != nil {
			return p, err
		}
		if season > 0 {
			p.Season = season
		}
		p.FirstDriver = driver1
		p.SecondDriver = driver2
		p.Notifications.setSessionTypeEnabledFlag(Practice, practice == 1)
		p.Notifications.setSessionTypeEnabledFlag(Qual, qual == 1)
		p.Notifications.setSessionTypeEnabledFlag(Sprint, sprint == 1)
		p.Notifications.setSessionTypeEnabledFlag(Race, race == 1)
		return p, nil
	}
	err := rows.Err()
	if err != nil {
		return p, err
	}
	return p, err
}

func buildSelectSessionLoadedCommand(sessionType string) (string, func(rows *sql.Rows) ([]TelegramUser, error)) {
	fields := "userid, name, chatid"
	column := strings.ToLower(sanitize(sessionType))
	return fmt.Sprintf(`SELECT %s FROM preferences WHERE %s = 1`, fields, column), processSelectSessionLoadedRows
}

func processSelectSessionLoadedRows(rows *sql.Rows) ([]TelegramUser, error) {
	defer rows.Close()

	users := make([]TelegramUser, 0)
	for rows.Next() {
		var id string
		var name string
		var chatid string
		err := rows.Scan(&id, &name, &chatid)
		if err != nil {
			return users, err
		}
		users = append(users, TelegramUser{
			ID:     id,
			Name:   name,
			ChatID: chatid,
		})
	}
	err := rows.Err()
	if err != nil {
		return users, err
	}
	return users, err
}

func buildUpsertUserCommand(userID, chatID string, p Preferences) string {
	fields := "userid, name, chatid, season, driver1, driver2, practice, qual, sprint, race"
	values := fmt.Sprintf(`'%s', '%s', '%s', %d, '%s', '%s', %d, %d, %d, %d`,
		sanitize(userID), sanitize(userID), sanitize(chatID), p.Season,
		sanitize(p.FirstDriver), sanitize(p.SecondDriver),
		enabledInt(p.Notifications[Practice]), enabledInt(p.Notifications[Qual]),
		enabledInt(p.Notifications[Sprint]), enabledInt(p.Notifications[Race]))
	return fmt.Sprintf(`INSERT OR REPLACE INTO preferences (%s) VALUES (%s)`, fields, values)
}

func sanitize(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
