package analysis

import (
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"f1analysisbot/pkg/model"
)

// Model constants for the bias correction. A car starts the race with a
// full tank and burns fuel linearly, each kg carried costs lap time, and
// the track itself gains grip as rubber goes down.
const (
	startingFuelKG     = 110.0
	fuelBurnKGPerLap   = 1.6
	fuelEffectSecPerKG = 0.03
	trackEvoSecPerLap  = 0.01

	// A team/compound pairing must have strictly more than this many
	// qualifying laps before a regression is attempted.
	minLapsPerGroup = 10
)

// ErrSchema is returned when an input table lacks a field the analysis
// needs. Use errors.Is to detect it.
var ErrSchema = errors.New("input table schema mismatch")

var lapRequiredFields = []string{
	"driver", "lapNumber", "lapTime", "pitInTime", "pitOutTime",
	"trackStatus", "compound", "tyreAge",
}

var resultRequiredFields = []string{"abbreviation", "teamName"}

// correctedLap is one clean lap joined with its team, with the fuel and
// track evolution effects removed from the raw lap time.
type correctedLap struct {
	teamName  string
	compound  model.Compound
	tyreAge   int
	corrected float64
}

type groupKey struct {
	teamName string
	compound model.Compound
}

// EstimateDegradation fits, per team and tyre compound, a linear model of
// bias-corrected lap time against tyre age. The slope of each fit is the
// degradation rate in seconds lost per lap of tyre age.
//
// Laps without a valid time, laps with pit activity, laps not run under
// green-flag conditions and first laps are excluded, as are laps whose
// driver has no entry in the results table. A group produces an estimate
// only when more than minLapsPerGroup laps with a known tyre age remain.
// An empty result is not an error.
func EstimateDegradation(laps *model.LapTable, results *model.ResultTable) ([]model.DegradationEstimate, error) {
	if err := checkSchema(laps, results); err != nil {
		return nil, err
	}

	teamByDriver := make(map[string]string, len(results.Results))
	for _, r := range results.Results {
		teamByDriver[r.Abbreviation] = r.TeamName
	}

	clean := make([]correctedLap, 0, len(laps.Laps))
	for _, lap := range laps.Laps {
		if !lap.Accurate() {
			continue
		}
		// Left-join semantics: a driver missing from the results table
		// leaves the lap without a team, and teamless laps cannot be
		// grouped, so they drop out here.
		team, ok := teamByDriver[lap.Driver]
		if !ok || team == "" {
			continue
		}
		clean = append(clean, correctedLap{
			teamName:  team,
			compound:  lap.Compound,
			tyreAge:   lap.TyreAge,
			corrected: correctLapTime(lap),
		})
	}

	groups := make(map[groupKey][]correctedLap)
	for _, cl := range clean {
		if cl.tyreAge < 0 {
			continue
		}
		key := groupKey{teamName: cl.teamName, compound: cl.compound}
		groups[key] = append(groups[key], cl)
	}

	estimates := make([]model.DegradationEstimate, 0, len(groups))
	for key, rows := range groups {
		if len(rows) <= minLapsPerGroup {
			continue
		}
		xs := make([]float64, len(rows))
		ys := make([]float64, len(rows))
		for i, row := range rows {
			xs[i] = float64(row.tyreAge)
			ys[i] = row.corrected
		}
		// A group where every lap has the same tyre age has no defined
		// slope and is skipped.
		if !hasVariance(xs) {
			continue
		}
		_, slope := stat.LinearRegression(xs, ys, nil, false)
		estimates = append(estimates, model.DegradationEstimate{
			TeamName:     key.teamName,
			Compound:     key.compound,
			DegRate:      slope,
			LapsAnalyzed: len(rows),
		})
	}

	sort.Slice(estimates, func(i, j int) bool {
		if estimates[i].TeamName != estimates[j].TeamName {
			return estimates[i].TeamName < estimates[j].TeamName
		}
		return estimates[i].Compound.Ordinal() < estimates[j].Compound.Ordinal()
	})

	return estimates, nil
}

// correctLapTime removes the fuel load advantage and adds back the track
// evolution gain, so that laps from different race phases compare on tyre
// age alone.
func correctLapTime(lap model.Lap) float64 {
	fuelLoad := startingFuelKG - float64(lap.LapNumber)*fuelBurnKGPerLap
	fuelPenalty := fuelLoad * fuelEffectSecPerKG
	trackEvoGain := float64(lap.LapNumber-1) * trackEvoSecPerLap
	return lap.LapTime - fuelPenalty + trackEvoGain
}

func checkSchema(laps *model.LapTable, results *model.ResultTable) error {
	for _, f := range lapRequiredFields {
		if !laps.HasField(f) {
			return errors.Wrapf(ErrSchema, "laps table is missing field %q", f)
		}
	}
	for _, f := range resultRequiredFields {
		if !results.HasField(f) {
			return errors.Wrapf(ErrSchema, "results table is missing field %q", f)
		}
	}
	return nil
}

func hasVariance(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return true
		}
	}
	return false
}
