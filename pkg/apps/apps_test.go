package apps

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"f1analysisbot/pkg/model"
)

func TestAnalysisCallbackRoundTrip(t *testing.T) {
	ref := model.SessionRef{Year: 2024, Round: 5, Session: "Practice 1"}

	payload := analysisCallback(SubcommandDegradation, ref)
	data := strings.Split(payload, ":")
	require.Equal(t, SubcommandDegradation, data[0])

	parsed, ok := parseAnalysisCallback(data[1:])
	require.True(t, ok)
	assert.Equal(t, ref, parsed)
}

func TestParseAnalysisCallbackRejectsGarbage(t *testing.T) {
	_, ok := parseAnalysisCallback([]string{"2024"})
	assert.False(t, ok)

	_, ok = parseAnalysisCallback([]string{"year", "5", "Race"})
	assert.False(t, ok)
}

func TestParseH2HCallback(t *testing.T) {
	ref, drivers, ok := parseH2HCallback([]string{"2024", "5", "Race", "VER"}, 1)
	require.True(t, ok)
	assert.Equal(t, model.SessionRef{Year: 2024, Round: 5, Session: "Race"}, ref)
	assert.Equal(t, []string{"VER"}, drivers)

	ref, drivers, ok = parseH2HCallback([]string{"2024", "5", "Sprint Shootout", "VER", "NOR"}, 2)
	require.True(t, ok)
	assert.Equal(t, "Sprint Shootout", ref.Session)
	assert.Equal(t, []string{"VER", "NOR"}, drivers)

	_, _, ok = parseH2HCallback([]string{"2024", "5", "Race"}, 1)
	assert.False(t, ok)
}

func TestAnalysisKeyboardOffersTyreAnalysesForRacesOnly(t *testing.T) {
	race := analysisKeyboard(model.SessionRef{Year: 2024, Round: 5, Session: "Race"})
	assert.Len(t, race.InlineKeyboard, 3)

	quali := analysisKeyboard(model.SessionRef{Year: 2024, Round: 5, Session: "Qualifying"})
	assert.Len(t, quali.InlineKeyboard, 1)
}
