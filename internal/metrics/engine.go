// Package metrics derives summary statistics, zone/ward groupings, and time
// series from the loaded city datasets. Every query is a pure function of
// the current table snapshot and fails soft: data problems come back as a
// Status, never as an error or panic.
package metrics

import (
	"sort"
	"strconv"
	"time"

	"github.com/civicdata/citypulse/internal/dataset"
)

// TableSource supplies loaded tables by dataset name. *dataset.Store
// satisfies it; tests may substitute a stub.
type TableSource interface {
	Get(name string) (*dataset.Table, bool)
}

// Engine computes derived statistics over a TableSource. It holds no state
// of its own and is safe for concurrent use once the source is loaded.
type Engine struct {
	src TableSource
}

// NewEngine creates an engine reading from src.
func NewEngine(src TableSource) *Engine {
	return &Engine{src: src}
}

// GroupEntry is one group in a GroupBy result.
type GroupEntry struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// TrendPoint is one point in a Trend result.
type TrendPoint struct {
	Period string  `json:"period"`
	Value  float64 `json:"value"`
}

// GroupBy sums the value column per distinct group key and returns entries
// sorted descending by sum. Group keys are matched verbatim; rows with an
// empty group cell are skipped, and missing values contribute nothing to a
// group's sum. topN > 0 truncates after sorting.
func (e *Engine) GroupBy(name, groupColumn, valueColumn string, topN int) ([]GroupEntry, Status) {
	t, ok := e.src.Get(name)
	if !ok || t.IsEmpty() {
		return nil, StatusNoDataset
	}
	if !t.HasColumn(groupColumn) || !t.HasColumn(valueColumn) {
		return nil, StatusNoColumn
	}

	sums := make(map[string]float64)
	order := make([]string, 0)
	for i := 0; i < t.Len(); i++ {
		key, _ := t.Cell(i, groupColumn)
		if key == "" {
			continue
		}
		if _, seen := sums[key]; !seen {
			order = append(order, key)
		}
		raw, _ := t.Cell(i, valueColumn)
		if v, valid := CleanNumeric(raw); valid {
			sums[key] += v
		}
	}

	entries := make([]GroupEntry, 0, len(order))
	for _, key := range order {
		entries = append(entries, GroupEntry{Key: key, Value: sums[key]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value > entries[j].Value
	})

	if topN > 0 && len(entries) > topN {
		entries = entries[:topN]
	}
	return entries, StatusOK
}

// Trend returns one point per row with a non-empty time cell and a clean
// value, sorted ascending by the time column regardless of input order.
// Rows whose value is missing are omitted rather than plotted as zero.
func (e *Engine) Trend(name, timeColumn, valueColumn string) ([]TrendPoint, Status) {
	t, ok := e.src.Get(name)
	if !ok || t.IsEmpty() {
		return nil, StatusNoDataset
	}
	if !t.HasColumn(timeColumn) || !t.HasColumn(valueColumn) {
		return nil, StatusNoColumn
	}

	points := make([]TrendPoint, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		period, _ := t.Cell(i, timeColumn)
		if period == "" {
			continue
		}
		raw, _ := t.Cell(i, valueColumn)
		v, valid := CleanNumeric(raw)
		if !valid {
			continue
		}
		points = append(points, TrendPoint{Period: period, Value: v})
	}

	sortTrend(points)
	return points, StatusOK
}

// sortTrend orders points ascending by period. Numeric periods (years) sort
// numerically; "Jan-2006" style month labels sort chronologically; anything
// else falls back to lexicographic order.
func sortTrend(points []TrendPoint) {
	allNumeric := true
	for _, p := range points {
		if _, err := strconv.ParseFloat(p.Period, 64); err != nil {
			allNumeric = false
			break
		}
	}
	if allNumeric {
		sort.SliceStable(points, func(i, j int) bool {
			ni, _ := strconv.ParseFloat(points[i].Period, 64)
			nj, _ := strconv.ParseFloat(points[j].Period, 64)
			return ni < nj
		})
		return
	}

	allMonths := true
	for _, p := range points {
		if monthOrder(p.Period) == 0 {
			allMonths = false
			break
		}
	}
	if allMonths {
		sort.SliceStable(points, func(i, j int) bool {
			return monthOrder(points[i].Period) < monthOrder(points[j].Period)
		})
		return
	}

	sort.SliceStable(points, func(i, j int) bool { return points[i].Period < points[j].Period })
}

// monthOrder converts "Jan-2021" to a sortable int (202101), or 0 when the
// label is not a month-year.
func monthOrder(period string) int {
	t, err := time.Parse("Jan-2006", period)
	if err != nil {
		return 0
	}
	return t.Year()*100 + int(t.Month())
}
