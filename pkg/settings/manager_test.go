package settings

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManagerWithDB(filepath.Join(t.TempDir(), "settings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestPreferencesDefaults(t *testing.T) {
	m := newTestManager(t)

	p, err := m.Preferences("12345")
	require.NoError(t, err)
	assert.Equal(t, DefaultSeason, p.Season)
	assert.Empty(t, p.FirstDriver)
	assert.Empty(t, p.SecondDriver)
	assert.Equal(t, AllDisabled(), p.Notifications)
}

func TestSetFavouriteDrivers(t *testing.T) {
	m := newTestManager(t)

	require.NoError(t, m.SetFavouriteDrivers("12345", "678", "VER", "NOR"))

	p, err := m.Preferences("12345")
	require.NoError(t, err)
	assert.Equal(t, "VER", p.FirstDriver)
	assert.Equal(t, "NOR", p.SecondDriver)
}

func TestSetDefaultSeason(t *testing.T) {
	m := newTestManager(t)

	require.NoError(t, m.SetDefaultSeason("12345", "678", 2023))

	p, err := m.Preferences("12345")
	require.NoError(t, err)
	assert.Equal(t, 2023, p.Season)
}

func TestToggleLoadNotification(t *testing.T) {
	m := newTestManager(t)

	require.NoError(t, m.ToggleLoadNotification("12345", "678", Race))

	p, err := m.Preferences("12345")
	require.NoError(t, err)
	assert.True(t, p.Notifications[Race])
	assert.False(t, p.Notifications[Practice])

	require.NoError(t, m.ToggleLoadNotification("12345", "678", Race))
	p, err = m.Preferences("12345")
	require.NoError(t, err)
	assert.False(t, p.Notifications[Race])
}

func TestListUsersForSessionLoaded(t *testing.T) {
	m := newTestManager(t)

	require.NoError(t, m.ToggleLoadNotification("111", "201", Race))
	require.NoError(t, m.ToggleLoadNotification("222", "202", Qual))

	users, err := m.ListUsersForSessionLoaded(Race)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "111", users[0].ID)
	assert.Equal(t, "201", users[0].ChatID)

	users, err = m.ListUsersForSessionLoaded(Sprint)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestStoreSanitizesQuotes(t *testing.T) {
	m := newTestManager(t)

	require.NoError(t, m.SetFavouriteDrivers("o'brien", "678", "VER", "NOR"))

	p, err := m.Preferences("o'brien")
	require.NoError(t, err)
	assert.Equal(t, "VER", p.FirstDriver)
}
