package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortSessions(t *testing.T) {
	sorted := SortSessions([]string{"Race", "Practice 2", "Qualifying", "Practice 1", "Unknown Thing"})
	assert.Equal(t, []string{"Practice 1", "Practice 2", "Qualifying", "Race"}, sorted)
}

func TestIsRaceSession(t *testing.T) {
	assert.True(t, IsRaceSession("Race"))
	assert.True(t, IsRaceSession("R"))
	assert.True(t, IsRaceSession("Sprint"))
	assert.False(t, IsRaceSession("Qualifying"))
	assert.False(t, IsRaceSession("Practice 1"))
	assert.False(t, IsRaceSession("not a session"))
}

func TestIsQualifyingLike(t *testing.T) {
	assert.True(t, IsQualifyingLike("Qualifying"))
	assert.True(t, IsQualifyingLike("Sprint Shootout"))
	assert.True(t, IsQualifyingLike("FP3"))
	assert.False(t, IsQualifyingLike("Race"))
	assert.False(t, IsQualifyingLike("not a session"))
}

func TestSessionRefIDHasNoSpaces(t *testing.T) {
	ref := SessionRef{Year: 2024, Round: 5, Session: "Practice 1"}
	assert.Equal(t, "2024_5_Practice1", ref.ID())
	assert.Equal(t, "2024/R5/Practice 1", ref.String())
}
