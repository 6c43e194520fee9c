package model

import (
	"encoding/json"
	"strings"
)

// Compound is a tyre compound. The zero value is CompoundUnknown so that
// rows with missing or unrecognized compound strings stay identifiable.
type Compound int

const (
	CompoundUnknown Compound = iota
	CompoundSoft
	CompoundMedium
	CompoundHard
	CompoundIntermediate
	CompoundWet
)

var compoundNames = map[Compound]string{
	CompoundUnknown:      "UNKNOWN",
	CompoundSoft:         "SOFT",
	CompoundMedium:       "MEDIUM",
	CompoundHard:         "HARD",
	CompoundIntermediate: "INTERMEDIATE",
	CompoundWet:          "WET",
}

func ParseCompound(s string) Compound {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SOFT":
		return CompoundSoft
	case "MEDIUM":
		return CompoundMedium
	case "HARD":
		return CompoundHard
	case "INTERMEDIATE":
		return CompoundIntermediate
	case "WET":
		return CompoundWet
	}
	return CompoundUnknown
}

func (c Compound) String() string {
	if name, ok := compoundNames[c]; ok {
		return name
	}
	return compoundNames[CompoundUnknown]
}

func (c Compound) Known() bool {
	return c != CompoundUnknown
}

// Ordinal gives the display ordering SOFT < MEDIUM < HARD < INTERMEDIATE <
// WET. Unknown compounds sort after every known one.
func (c Compound) Ordinal() int {
	switch c {
	case CompoundSoft:
		return 0
	case CompoundMedium:
		return 1
	case CompoundHard:
		return 2
	case CompoundIntermediate:
		return 3
	case CompoundWet:
		return 4
	}
	return 5
}

func (c Compound) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Compound) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = ParseCompound(s)
	return nil
}
