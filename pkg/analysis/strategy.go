package analysis

import (
	"sort"

	"f1analysisbot/pkg/model"
)

// Stints condenses the laps table into one row per driver and stint, with
// the lap range and the compound the stint was run on. Rows are ordered by
// the classification order of the results table (unclassified drivers come
// last, alphabetically), then by stint number, which is the order a
// strategy timeline is read in.
func Stints(laps *model.LapTable, results *model.ResultTable) []model.Stint {
	type stintKey struct {
		driver string
		stint  int
	}

	byKey := make(map[stintKey]*model.Stint)
	for _, lap := range laps.Laps {
		key := stintKey{driver: lap.Driver, stint: lap.Stint}
		s, ok := byKey[key]
		if !ok {
			byKey[key] = &model.Stint{
				Driver:   lap.Driver,
				Stint:    lap.Stint,
				LapStart: lap.LapNumber,
				LapEnd:   lap.LapNumber,
				Compound: lap.Compound,
			}
			continue
		}
		if lap.LapNumber < s.LapStart {
			s.LapStart = lap.LapNumber
		}
		if lap.LapNumber > s.LapEnd {
			s.LapEnd = lap.LapNumber
		}
	}

	position := make(map[string]int, len(results.Results))
	for _, r := range results.Results {
		position[r.Abbreviation] = r.Position
	}
	rank := func(driver string) int {
		if p, ok := position[driver]; ok && p > 0 {
			return p
		}
		return len(position) + 1
	}

	stints := make([]model.Stint, 0, len(byKey))
	for _, s := range byKey {
		stints = append(stints, *s)
	}
	sort.Slice(stints, func(i, j int) bool {
		ri, rj := rank(stints[i].Driver), rank(stints[j].Driver)
		if ri != rj {
			return ri < rj
		}
		if stints[i].Driver != stints[j].Driver {
			return stints[i].Driver < stints[j].Driver
		}
		return stints[i].Stint < stints[j].Stint
	})
	return stints
}
