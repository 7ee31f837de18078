package metrics

import (
	"math"
	"strconv"
	"strings"
)

// CleanNumeric parses a source cell as a float. Sentinel strings ("NA",
// "NaN", any casing) and unparseable values report missing via the second
// return. Missing is distinct from zero: excluded from means and sums, never
// counted as 0.
func CleanNumeric(value string) (float64, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0, false
	}
	switch strings.ToUpper(v) {
	case "NA", "NAN":
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// CoverageRatio computes a percentage, rounded to 2 decimals. A zero,
// negative, or missing denominator yields 0 rather than an error or
// NaN/Inf. Every displayed rate in the dashboard goes through this.
func CoverageRatio(numerator, denominator float64) float64 {
	if denominator <= 0 || math.IsNaN(denominator) {
		return 0
	}
	return roundTo(numerator/denominator*100, 2)
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
