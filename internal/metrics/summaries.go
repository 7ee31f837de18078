package metrics

import (
	"gonum.org/v1/gonum/stat"

	"github.com/civicdata/citypulse/internal/dataset"
	"github.com/civicdata/citypulse/internal/pollutants"
)

// Summarize computes the aggregate dictionary for a dataset. An absent or
// empty dataset yields an empty map, never an error. Metrics whose source
// column is missing are omitted from the map so callers can tell "no data"
// from a computed zero.
func (e *Engine) Summarize(name string) map[string]float64 {
	t, ok := e.src.Get(name)
	if !ok || t.IsEmpty() {
		return map[string]float64{}
	}

	switch name {
	case dataset.WaterSanitation:
		return e.summarizeWater(t)
	case dataset.Environment:
		return e.summarizeEnvironment(t)
	case dataset.Crimes:
		return e.summarizeCrimes()
	case dataset.Intersections:
		return e.summarizeIntersections(t)
	case dataset.Employment:
		return e.summarizeEmployment(t)
	default:
		return map[string]float64{}
	}
}

func (e *Engine) summarizeWater(t *dataset.Table) map[string]float64 {
	out := map[string]float64{}

	counts := map[string]string{
		"total_households":    dataset.ColTotalHouseholds,
		"sewerage_coverage":   dataset.ColSewerageHH,
		"toilet_coverage":     dataset.ColToiletHH,
		"public_toilets":      dataset.ColPublicToilets,
		"free_toilets_female": dataset.ColFreeToiletsFemale,
		"free_toilets_male":   dataset.ColFreeToiletsMale,
		"paid_toilets_female": dataset.ColPaidToiletsFemale,
		"paid_toilets_male":   dataset.ColPaidToiletsMale,
	}
	for key, col := range counts {
		if sum, ok := sumColumn(t, col); ok {
			out[key] = sum
		}
	}

	if t.HasColumn(dataset.ColSewerageHH) && t.HasColumn(dataset.ColTotalHouseholds) {
		out["sewerage_pct"] = CoverageRatio(out["sewerage_coverage"], out["total_households"])
	}
	if t.HasColumn(dataset.ColToiletHH) && t.HasColumn(dataset.ColTotalHouseholds) {
		out["toilet_pct"] = CoverageRatio(out["toilet_coverage"], out["total_households"])
	}
	return out
}

func (e *Engine) summarizeEnvironment(t *dataset.Table) map[string]float64 {
	out := map[string]float64{}
	keys := map[string]string{
		pollutants.PM25: "pm25_avg",
		pollutants.PM10: "pm10_avg",
		pollutants.NO2:  "no2_avg",
		pollutants.SO2:  "so2_avg",
		pollutants.O3:   "o3_avg",
	}
	for _, p := range pollutants.ValidPollutants {
		col, _ := pollutants.Column(p)
		if !t.HasColumn(col) {
			continue
		}
		out[keys[p]] = roundTo(meanColumn(t, col), 2)
	}
	return out
}

func (e *Engine) summarizeCrimes() map[string]float64 {
	// lean on Trend for the chronological ordering
	points, status := e.Trend(dataset.Crimes, dataset.ColYear, dataset.ColTotalCrimes)
	if status != StatusOK || len(points) == 0 {
		return map[string]float64{}
	}

	out := map[string]float64{}
	latest := points[len(points)-1]
	if year, ok := CleanNumeric(latest.Period); ok {
		out["latest_year"] = year
	}
	out["latest_crimes"] = latest.Value

	values := make([]float64, len(points))
	total := 0.0
	for i, p := range points {
		values[i] = p.Value
		total += p.Value
	}
	out["total_crimes"] = total
	out["avg_crimes"] = roundTo(stat.Mean(values, nil), 2)

	if len(points) > 1 {
		previous := points[len(points)-2]
		change := latest.Value - previous.Value
		out["yoy_change"] = change
		if previous.Value > 0 {
			out["yoy_change_pct"] = roundTo(change/previous.Value*100, 2)
		} else {
			out["yoy_change_pct"] = 0
		}
	} else {
		out["yoy_change"] = 0
		out["yoy_change_pct"] = 0
	}
	return out
}

func (e *Engine) summarizeIntersections(t *dataset.Table) map[string]float64 {
	out := map[string]float64{}
	if sum, ok := sumColumn(t, dataset.ColIntersections); ok {
		out["total_intersections"] = sum
	}
	if sum, ok := sumColumn(t, dataset.ColSignalized); ok {
		out["signalized_intersections"] = sum
	}
	if t.HasColumn(dataset.ColIntersections) && t.HasColumn(dataset.ColSignalized) {
		out["signalization_pct"] = CoverageRatio(out["signalized_intersections"], out["total_intersections"])
	}
	return out
}

// summarizeEmployment reads the single aggregate row the employment dataset
// carries instead of summing per-ward rows.
func (e *Engine) summarizeEmployment(t *dataset.Table) map[string]float64 {
	out := map[string]float64{}
	fields := map[string]string{
		"employed":     dataset.ColEmployed,
		"unemployed":   dataset.ColUnemployed,
		"labour_force": dataset.ColLabourForce,
	}
	for key, col := range fields {
		raw, ok := t.Cell(0, col)
		if !ok {
			continue
		}
		if v, valid := CleanNumeric(raw); valid {
			out[key] = v
		}
	}

	if _, ok := out["labour_force"]; ok {
		out["unemployment_rate"] = CoverageRatio(out["unemployed"], out["labour_force"])
		out["employment_rate"] = CoverageRatio(out["employed"], out["labour_force"])
	}
	return out
}

// sumColumn sums the cleaned values of a column, skipping missing cells.
// The second return is false when the column does not exist.
func sumColumn(t *dataset.Table, column string) (float64, bool) {
	if !t.HasColumn(column) {
		return 0, false
	}
	total := 0.0
	for i := 0; i < t.Len(); i++ {
		raw, _ := t.Cell(i, column)
		if v, ok := CleanNumeric(raw); ok {
			total += v
		}
	}
	return total, true
}

// meanColumn averages the cleaned values of a column. Missing readings are
// excluded from the mean, not counted as zero. Returns 0 when the column
// has no valid readings at all.
func meanColumn(t *dataset.Table, column string) float64 {
	values := make([]float64, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		raw, _ := t.Cell(i, column)
		if v, ok := CleanNumeric(raw); ok {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}
