// Package traffic provides the static time-of-day congestion model.
package traffic

import "time"

// DefaultFactor applies outside every congestion band.
const DefaultFactor = 1.0

// band is a half-open [start, end) clock interval in minutes since midnight.
// A band with start > end wraps past midnight.
type band struct {
	startMin int
	endMin   int
	factor   float64
}

// Bands are evaluated in this fixed priority order, first match wins.
var bands = []band{
	{startMin: 7 * 60, endMin: 9 * 60, factor: 1.5},         // morning peak
	{startMin: 17 * 60, endMin: 19 * 60, factor: 1.6},       // evening peak
	{startMin: 11*60 + 30, endMin: 13*60 + 30, factor: 1.2}, // lunch
	{startMin: 22 * 60, endMin: 5 * 60, factor: 0.8},        // night, wraps midnight
}

// FactorAt returns the congestion multiplier for the given wall-clock time.
// Pure function of the clock, no external state.
func FactorAt(t time.Time) float64 {
	return FactorAtClock(t.Hour(), t.Minute())
}

// FactorAtClock is FactorAt over an explicit hour and minute.
func FactorAtClock(hour, minute int) float64 {
	clock := hour*60 + minute

	for _, b := range bands {
		if b.contains(clock) {
			return b.factor
		}
	}

	return DefaultFactor
}

func (b band) contains(clock int) bool {
	if b.startMin <= b.endMin {
		return clock >= b.startMin && clock < b.endMin
	}

	return clock >= b.startMin || clock < b.endMin
}
