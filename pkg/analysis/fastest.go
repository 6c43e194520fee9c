package analysis

import (
	"sort"

	"f1analysisbot/pkg/model"
)

// FastestLaps picks each driver's best valid lap and orders the result by
// lap time. Drivers without a single valid lap are left out.
func FastestLaps(laps *model.LapTable) []model.FastestLap {
	best := make(map[string]model.Lap)
	for _, lap := range laps.Laps {
		if !lap.HasTime() {
			continue
		}
		if current, ok := best[lap.Driver]; !ok || lap.LapTime < current.LapTime {
			best[lap.Driver] = lap
		}
	}

	fastest := make([]model.FastestLap, 0, len(best))
	for _, lap := range best {
		fastest = append(fastest, model.FastestLap{
			Driver:   lap.Driver,
			LapTime:  lap.LapTime,
			Compound: lap.Compound,
			TyreAge:  lap.TyreAge,
			Stint:    lap.Stint,
		})
	}
	sort.Slice(fastest, func(i, j int) bool {
		return fastest[i].LapTime < fastest[j].LapTime
	})
	return fastest
}
