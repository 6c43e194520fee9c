package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"f1analysisbot/pkg/model"
)

func TestFastestLaps(t *testing.T) {
	laps := &model.LapTable{Laps: []model.Lap{
		{Driver: "VER", LapNumber: 2, LapTime: 92.1, Compound: model.CompoundSoft, TyreAge: 3, Stint: 1},
		{Driver: "VER", LapNumber: 3, LapTime: 91.4, Compound: model.CompoundSoft, TyreAge: 4, Stint: 1},
		{Driver: "HAM", LapNumber: 2, LapTime: 91.9, Compound: model.CompoundMedium, TyreAge: 2, Stint: 1},
		{Driver: "HAM", LapNumber: 3, LapTime: 92.5, Compound: model.CompoundMedium, TyreAge: 3, Stint: 1},
		// never sets a valid time
		{Driver: "SAI", LapNumber: 2, LapTime: 0},
	}}

	fastest := FastestLaps(laps)
	require.Len(t, fastest, 2)

	assert.Equal(t, "VER", fastest[0].Driver)
	assert.InDelta(t, 91.4, fastest[0].LapTime, 1e-9)
	assert.Equal(t, model.CompoundSoft, fastest[0].Compound)
	assert.Equal(t, 4, fastest[0].TyreAge)

	assert.Equal(t, "HAM", fastest[1].Driver)
	assert.InDelta(t, 91.9, fastest[1].LapTime, 1e-9)
}

func TestFastestLapsEmptyTable(t *testing.T) {
	fastest := FastestLaps(&model.LapTable{})
	assert.Empty(t, fastest)
}
