package helper

import (
	"fmt"
	"hash/fnv"
)

// method to convert from seconds to minutes:seconds.milliseconds
func SecondsToMinutes(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	minutes := int(seconds / 60)
	seconds = seconds - float64(minutes*60)
	milliseconds := int((seconds - float64(int(seconds))) * 1000)
	return fmt.Sprintf("%02d:%02d.%03d", minutes, int(seconds), milliseconds)
}

// SignedSeconds formats a pace delta keeping the sign, e.g. "+0.312s".
func SignedSeconds(seconds float64) string {
	return fmt.Sprintf("%+.3fs", seconds)
}

// DegRate formats a degradation slope in seconds per lap of tyre age.
func DegRate(rate float64) string {
	return fmt.Sprintf("%+.4f s/lap", rate)
}

// TyreAge renders a tyre age, "-" when the provider did not report one.
func TyreAge(age int) string {
	if age < 0 {
		return "-"
	}
	return fmt.Sprintf("%d", age)
}

// convert name to a hash with a limit of 15 characters
func ToID(name string) string {
	h := fnv.New32a()
	h.Write([]byte(name))
	return fmt.Sprint(h.Sum32())
}
