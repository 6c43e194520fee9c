package model

import (
	"fmt"
	"strings"
)

const (
	// TrackStatusClear is the all-clear (green flag) track status code.
	TrackStatusClear = "1"
)

// Lap is one timing row for one car on one lap. Times are in seconds.
// A LapTime <= 0 means the lap has no valid time (e.g. a pit lap).
// PitInTime/PitOutTime are session timestamps; 0 means no pit activity on
// that lap. TyreAge < 0 means the provider did not report the tyre age.
type Lap struct {
	Driver      string   `json:"driver"`
	LapNumber   int      `json:"lapNumber"`
	LapTime     float64  `json:"lapTime"`
	PitInTime   float64  `json:"pitInTime"`
	PitOutTime  float64  `json:"pitOutTime"`
	TrackStatus string   `json:"trackStatus"`
	Compound    Compound `json:"compound"`
	TyreAge     int      `json:"tyreAge"`
	Stint       int      `json:"stint"`
}

func (l Lap) HasTime() bool {
	return l.LapTime > 0
}

func (l Lap) HasPitActivity() bool {
	return l.PitInTime > 0 || l.PitOutTime > 0
}

// Accurate reports whether the lap is a representative flying lap: a valid
// time, no pit entry or exit, green-flag conditions and not the opening lap
// after a start or restart.
func (l Lap) Accurate() bool {
	return l.HasTime() && !l.HasPitActivity() && l.TrackStatus == TrackStatusClear && l.LapNumber > 1
}

// Result is one classification row for one driver in a session.
type Result struct {
	Abbreviation string `json:"abbreviation"`
	TeamName     string `json:"teamName"`
	Position     int    `json:"position"`
}

// LapTable carries lap rows together with the field names the provider
// resolved for them, so consumers can detect schema mismatches.
type LapTable struct {
	Fields []string `json:"fields"`
	Laps   []Lap    `json:"laps"`
}

// ResultTable carries result rows together with their resolved field names.
type ResultTable struct {
	Fields  []string `json:"fields"`
	Results []Result `json:"results"`
}

func (t *LapTable) HasField(name string) bool {
	return hasField(t.Fields, name)
}

func (t *ResultTable) HasField(name string) bool {
	return hasField(t.Fields, name)
}

func hasField(fields []string, name string) bool {
	for _, f := range fields {
		if strings.EqualFold(f, name) {
			return true
		}
	}
	return false
}

// DegradationEstimate is one fitted degradation rate for a team and
// compound. DegRate is the regression slope in seconds lost per lap of
// tyre age, after fuel and track evolution correction.
type DegradationEstimate struct {
	TeamName     string   `json:"teamName"`
	Compound     Compound `json:"compound"`
	DegRate      float64  `json:"degRateSecPerLap"`
	LapsAnalyzed int      `json:"lapsAnalyzed"`
}

// FastestLap is one driver's best valid lap in a session.
type FastestLap struct {
	Driver   string   `json:"driver"`
	LapTime  float64  `json:"lapTime"`
	Compound Compound `json:"compound"`
	TyreAge  int      `json:"tyreAge"`
	Stint    int      `json:"stint"`
}

// Stint is one continuous run on a tyre set, for the strategy timeline.
type Stint struct {
	Driver   string   `json:"driver"`
	Stint    int      `json:"stint"`
	LapStart int      `json:"lapStart"`
	LapEnd   int      `json:"lapEnd"`
	Compound Compound `json:"compound"`
}

func (s Stint) Length() int {
	return s.LapEnd - s.LapStart + 1
}

// PaceComparison is one common lap of a head-to-head pairing. Delta is
// positive when the first driver was slower on that lap.
type PaceComparison struct {
	LapNumber int     `json:"lapNumber"`
	Time1     float64 `json:"time1"`
	Time2     float64 `json:"time2"`
	Delta     float64 `json:"delta"`
}

// SessionRef identifies one session of one event.
type SessionRef struct {
	Year    int    `json:"year"`
	Round   int    `json:"round"`
	Session string `json:"session"`
}

func (r SessionRef) String() string {
	return fmt.Sprintf("%d/R%d/%s", r.Year, r.Round, r.Session)
}

func (r SessionRef) ID() string {
	return fmt.Sprintf("%d_%d_%s", r.Year, r.Round, strings.ReplaceAll(r.Session, " ", ""))
}

// Event is one schedule entry of a season.
type Event struct {
	Year         int      `json:"year"`
	Round        int      `json:"round"`
	OfficialName string   `json:"officialName"`
	Country      string   `json:"country"`
	Sessions     []string `json:"sessions"`
}

func (e Event) String() string {
	return fmt.Sprintf("R%02d %s", e.Round, e.OfficialName)
}

// SessionLoaded is published when a session's timing data becomes
// available in the cache.
type SessionLoaded struct {
	Ref       SessionRef `json:"ref"`
	EventName string     `json:"eventName"`
	LapCount  int        `json:"lapCount"`
}

func (s SessionLoaded) String() string {
	return fmt.Sprintf("%s %q: %d laps available", s.Ref.String(), s.EventName, s.LapCount)
}
