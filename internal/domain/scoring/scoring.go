// Package scoring maps raw event attributes into normalized attractiveness
// scores and combines them into a synthetic ticket-click estimate.
//
// Every scorer is a pure function of its input. The only source of
// non-determinism is the NoiseSource injected into a Synthesizer.
package scoring

import (
	"math"
	"strconv"
)

// Rounding precision per score family.
const (
	weatherPrecision     = 2
	competitionPrecision = 2
	dateTimePrecision    = 3
	weightedSumPrecision = 9
)

// lookup returns table[key], or def when key is not present.
func lookup[K comparable](table map[K]float64, key K, def float64) float64 {
	if v, ok := table[key]; ok {
		return v
	}
	return def
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// round rounds v to the given number of decimal places using the decimal
// expansion of the binary value, so 0.875 becomes 0.88 and 2.675 becomes 2.67.
func round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return r
}
