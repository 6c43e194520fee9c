package analysis

import (
	"sort"

	"f1analysisbot/pkg/model"
)

// HeadToHead compares the race pace of two drivers lap by lap. Only laps
// both drivers completed cleanly (accurate laps) are paired; the delta is
// driver1's time minus driver2's, so a positive delta means driver1 was
// slower on that lap.
func HeadToHead(laps *model.LapTable, driver1, driver2 string) []model.PaceComparison {
	times1 := accurateTimesByLap(laps, driver1)
	times2 := accurateTimesByLap(laps, driver2)

	comparison := make([]model.PaceComparison, 0, len(times1))
	for lapNumber, t1 := range times1 {
		t2, ok := times2[lapNumber]
		if !ok {
			continue
		}
		comparison = append(comparison, model.PaceComparison{
			LapNumber: lapNumber,
			Time1:     t1,
			Time2:     t2,
			Delta:     t1 - t2,
		})
	}
	sort.Slice(comparison, func(i, j int) bool {
		return comparison[i].LapNumber < comparison[j].LapNumber
	})
	return comparison
}

// Drivers lists the drivers appearing in the laps table, sorted.
func Drivers(laps *model.LapTable) []string {
	seen := make(map[string]bool)
	for _, lap := range laps.Laps {
		seen[lap.Driver] = true
	}
	drivers := make([]string, 0, len(seen))
	for d := range seen {
		drivers = append(drivers, d)
	}
	sort.Strings(drivers)
	return drivers
}

func accurateTimesByLap(laps *model.LapTable, driver string) map[int]float64 {
	times := make(map[int]float64)
	for _, lap := range laps.Laps {
		if lap.Driver != driver || !lap.Accurate() {
			continue
		}
		times[lap.LapNumber] = lap.LapTime
	}
	return times
}
