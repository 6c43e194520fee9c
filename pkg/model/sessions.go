package model

import "sort"

// sessionOrder ranks session names in their on-track order. Both the long
// names and the short codes the provider may use are covered.
var sessionOrder = map[string]int{
	"Practice 1":       1,
	"FP1":              1,
	"Practice 2":       2,
	"FP2":              2,
	"Practice 3":       3,
	"FP3":              3,
	"Sprint Shootout":  4,
	"SQ":               4,
	"Sprint Qualifying": 4,
	"Qualifying":       5,
	"Q":                5,
	"Sprint":           6,
	"S":                6,
	"Race":             7,
	"R":                7,
}

// SortSessions orders session names chronologically, dropping names the
// provider reports that are not known session types.
func SortSessions(names []string) []string {
	sorted := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := sessionOrder[n]; ok {
			sorted = append(sorted, n)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sessionOrder[sorted[i]] < sessionOrder[sorted[j]]
	})
	return sorted
}

// IsRaceSession reports whether a session name denotes a race or sprint,
// the only sessions with enough green-flag running for stint analysis.
func IsRaceSession(name string) bool {
	return sessionOrder[name] >= 6
}

// IsQualifyingLike reports whether a session is a qualifying or practice
// session, where only fastest laps are meaningful.
func IsQualifyingLike(name string) bool {
	o, ok := sessionOrder[name]
	return ok && o < 6
}
