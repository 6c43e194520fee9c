package analysis

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"f1analysisbot/pkg/model"
)

var testLapFields = []string{
	"driver", "lapNumber", "lapTime", "pitInTime", "pitOutTime",
	"trackStatus", "compound", "tyreAge", "stint",
}

var testResultFields = []string{"abbreviation", "teamName", "position"}

// cleanLap builds a green-flag lap whose corrected time comes out to
// exactly the given value, by adding the fuel penalty back and removing
// the track evolution gain from the raw time.
func cleanLap(driver string, lapNumber, tyreAge int, corrected float64, compound model.Compound) model.Lap {
	fuelPenalty := (startingFuelKG - float64(lapNumber)*fuelBurnKGPerLap) * fuelEffectSecPerKG
	trackEvoGain := float64(lapNumber-1) * trackEvoSecPerLap
	return model.Lap{
		Driver:      driver,
		LapNumber:   lapNumber,
		LapTime:     corrected + fuelPenalty - trackEvoGain,
		TrackStatus: model.TrackStatusClear,
		Compound:    compound,
		TyreAge:     tyreAge,
		Stint:       1,
	}
}

// degradingStint builds count clean laps where the corrected time rises by
// rate seconds per lap of tyre age, starting from base.
func degradingStint(driver string, count int, base, rate float64, compound model.Compound) []model.Lap {
	laps := make([]model.Lap, 0, count)
	for age := 1; age <= count; age++ {
		laps = append(laps, cleanLap(driver, age+1, age, base+rate*float64(age), compound))
	}
	return laps
}

func tables(laps []model.Lap, results []model.Result) (*model.LapTable, *model.ResultTable) {
	return &model.LapTable{Fields: testLapFields, Laps: laps},
		&model.ResultTable{Fields: testResultFields, Results: results}
}

func TestEstimateDegradationRecoversSlope(t *testing.T) {
	laps, results := tables(
		degradingStint("VER", 15, 90.0, 0.05, model.CompoundSoft),
		[]model.Result{{Abbreviation: "VER", TeamName: "Alpha", Position: 1}},
	)

	estimates, err := EstimateDegradation(laps, results)
	require.NoError(t, err)
	require.Len(t, estimates, 1)

	assert.Equal(t, "Alpha", estimates[0].TeamName)
	assert.Equal(t, model.CompoundSoft, estimates[0].Compound)
	assert.Equal(t, 15, estimates[0].LapsAnalyzed)
	assert.InDelta(t, 0.05, estimates[0].DegRate, 1e-9)
}

func TestEstimateDegradationNeedsMoreThanTenLaps(t *testing.T) {
	results := []model.Result{{Abbreviation: "VER", TeamName: "Alpha", Position: 1}}

	laps, res := tables(degradingStint("VER", 10, 90.0, 0.05, model.CompoundSoft), results)
	estimates, err := EstimateDegradation(laps, res)
	require.NoError(t, err)
	assert.Empty(t, estimates, "exactly 10 laps must not produce an estimate")

	laps, res = tables(degradingStint("VER", 11, 90.0, 0.05, model.CompoundSoft), results)
	estimates, err = EstimateDegradation(laps, res)
	require.NoError(t, err)
	require.Len(t, estimates, 1)
	assert.Equal(t, 11, estimates[0].LapsAnalyzed)
}

func TestEstimateDegradationExcludesDirtyLaps(t *testing.T) {
	clean := degradingStint("VER", 12, 90.0, 0.05, model.CompoundSoft)

	pitLap := cleanLap("VER", 20, 18, 150.0, model.CompoundSoft)
	pitLap.PitInTime = 4512.2

	yellowLap := cleanLap("VER", 21, 19, 85.0, model.CompoundSoft)
	yellowLap.TrackStatus = "2"

	noTimeLap := cleanLap("VER", 22, 20, 90.0, model.CompoundSoft)
	noTimeLap.LapTime = 0

	openingLap := cleanLap("VER", 1, 0, 70.0, model.CompoundSoft)

	laps, results := tables(
		append(clean, pitLap, yellowLap, noTimeLap, openingLap),
		[]model.Result{{Abbreviation: "VER", TeamName: "Alpha", Position: 1}},
	)

	estimates, err := EstimateDegradation(laps, results)
	require.NoError(t, err)
	require.Len(t, estimates, 1)
	assert.Equal(t, 12, estimates[0].LapsAnalyzed)
	assert.InDelta(t, 0.05, estimates[0].DegRate, 1e-9)
}

func TestEstimateDegradationDropsDriversWithoutTeam(t *testing.T) {
	laps, results := tables(
		append(
			degradingStint("VER", 12, 90.0, 0.05, model.CompoundSoft),
			degradingStint("XXX", 12, 80.0, 0.50, model.CompoundSoft)...,
		),
		[]model.Result{{Abbreviation: "VER", TeamName: "Alpha", Position: 1}},
	)

	estimates, err := EstimateDegradation(laps, results)
	require.NoError(t, err)
	require.Len(t, estimates, 1)
	assert.Equal(t, "Alpha", estimates[0].TeamName)
	assert.Equal(t, 12, estimates[0].LapsAnalyzed)
}

func TestEstimateDegradationDropsUnknownTyreAge(t *testing.T) {
	clean := degradingStint("VER", 12, 90.0, 0.05, model.CompoundSoft)
	unknownAge := cleanLap("VER", 30, -1, 90.0, model.CompoundSoft)

	laps, results := tables(
		append(clean, unknownAge),
		[]model.Result{{Abbreviation: "VER", TeamName: "Alpha", Position: 1}},
	)

	estimates, err := EstimateDegradation(laps, results)
	require.NoError(t, err)
	require.Len(t, estimates, 1)
	assert.Equal(t, 12, estimates[0].LapsAnalyzed)
}

func TestEstimateDegradationSkipsZeroVarianceGroups(t *testing.T) {
	laps := make([]model.Lap, 0, 12)
	for n := 2; n < 14; n++ {
		laps = append(laps, cleanLap("VER", n, 5, 90.0, model.CompoundSoft))
	}
	lapTable, results := tables(laps, []model.Result{{Abbreviation: "VER", TeamName: "Alpha", Position: 1}})

	estimates, err := EstimateDegradation(lapTable, results)
	require.NoError(t, err)
	assert.Empty(t, estimates)
}

func TestEstimateDegradationOrdering(t *testing.T) {
	laps := degradingStint("VER", 12, 90.0, 0.05, model.CompoundHard)
	laps = append(laps, degradingStint("PER", 12, 90.2, 0.08, model.CompoundSoft)...)
	laps = append(laps, degradingStint("HAM", 12, 90.5, 0.06, model.CompoundSoft)...)
	laps = append(laps, degradingStint("RUS", 12, 90.6, 0.07, model.CompoundUnknown)...)

	lapTable, results := tables(laps, []model.Result{
		{Abbreviation: "VER", TeamName: "Beta", Position: 1},
		{Abbreviation: "PER", TeamName: "Beta", Position: 2},
		{Abbreviation: "HAM", TeamName: "Alpha", Position: 3},
		{Abbreviation: "RUS", TeamName: "Alpha", Position: 4},
	})

	estimates, err := EstimateDegradation(lapTable, results)
	require.NoError(t, err)
	require.Len(t, estimates, 4)

	assert.Equal(t, "Alpha", estimates[0].TeamName)
	assert.Equal(t, model.CompoundSoft, estimates[0].Compound)
	assert.Equal(t, "Alpha", estimates[1].TeamName)
	assert.Equal(t, model.CompoundUnknown, estimates[1].Compound, "unknown compound sorts after known ones")
	assert.Equal(t, "Beta", estimates[2].TeamName)
	assert.Equal(t, model.CompoundSoft, estimates[2].Compound)
	assert.Equal(t, "Beta", estimates[3].TeamName)
	assert.Equal(t, model.CompoundHard, estimates[3].Compound)
}

func TestEstimateDegradationIsDeterministic(t *testing.T) {
	laps := degradingStint("VER", 14, 90.0, 0.05, model.CompoundSoft)
	laps = append(laps, degradingStint("HAM", 14, 91.0, 0.03, model.CompoundMedium)...)
	lapTable, results := tables(laps, []model.Result{
		{Abbreviation: "VER", TeamName: "Beta", Position: 1},
		{Abbreviation: "HAM", TeamName: "Alpha", Position: 2},
	})

	first, err := EstimateDegradation(lapTable, results)
	require.NoError(t, err)
	second, err := EstimateDegradation(lapTable, results)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEstimateDegradationSchemaMismatch(t *testing.T) {
	goodLaps, goodResults := tables(nil, nil)

	badLaps := &model.LapTable{Fields: []string{"driver", "lapNumber"}}
	_, err := EstimateDegradation(badLaps, goodResults)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchema))
	assert.Contains(t, err.Error(), "lapTime")

	badResults := &model.ResultTable{Fields: []string{"abbreviation"}}
	_, err = EstimateDegradation(goodLaps, badResults)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchema))
	assert.Contains(t, err.Error(), "teamName")
}

func TestCorrectLapTime(t *testing.T) {
	lap := model.Lap{LapNumber: 10, LapTime: 95.0}
	// fuel load 94kg -> 2.82s penalty, 9 laps of evolution -> 0.09s gain
	assert.InDelta(t, 92.27, correctLapTime(lap), 1e-9)
}
