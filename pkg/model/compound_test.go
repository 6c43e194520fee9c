package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCompound(t *testing.T) {
	assert.Equal(t, CompoundSoft, ParseCompound("SOFT"))
	assert.Equal(t, CompoundMedium, ParseCompound("medium"))
	assert.Equal(t, CompoundHard, ParseCompound(" Hard "))
	assert.Equal(t, CompoundIntermediate, ParseCompound("INTERMEDIATE"))
	assert.Equal(t, CompoundWet, ParseCompound("WET"))
	assert.Equal(t, CompoundUnknown, ParseCompound(""))
	assert.Equal(t, CompoundUnknown, ParseCompound("SUPERSOFT"))
}

func TestCompoundOrdinal(t *testing.T) {
	ordered := []Compound{CompoundSoft, CompoundMedium, CompoundHard, CompoundIntermediate, CompoundWet, CompoundUnknown}
	for i := 1; i < len(ordered); i++ {
		assert.Less(t, ordered[i-1].Ordinal(), ordered[i].Ordinal())
	}
}

func TestCompoundJSONRoundTrip(t *testing.T) {
	for _, c := range []Compound{CompoundUnknown, CompoundSoft, CompoundMedium, CompoundHard, CompoundIntermediate, CompoundWet} {
		data, err := json.Marshal(c)
		require.NoError(t, err)

		var back Compound
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, c, back)
	}
}

func TestLapAccurate(t *testing.T) {
	lap := Lap{Driver: "VER", LapNumber: 5, LapTime: 92.0, TrackStatus: TrackStatusClear}
	assert.True(t, lap.Accurate())

	noTime := lap
	noTime.LapTime = 0
	assert.False(t, noTime.Accurate())

	pit := lap
	pit.PitOutTime = 1204.8
	assert.False(t, pit.Accurate())

	yellow := lap
	yellow.TrackStatus = "4"
	assert.False(t, yellow.Accurate())

	opening := lap
	opening.LapNumber = 1
	assert.False(t, opening.Accurate())
}

func TestTableHasFieldIsCaseInsensitive(t *testing.T) {
	table := LapTable{Fields: []string{"Driver", "LapTime"}}
	assert.True(t, table.HasField("driver"))
	assert.True(t, table.HasField("lapTime"))
	assert.False(t, table.HasField("compound"))
}
