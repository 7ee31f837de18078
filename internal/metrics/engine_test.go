package metrics

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicdata/citypulse/internal/dataset"
)

// stubSource serves fixed tables by name.
type stubSource map[string]*dataset.Table

func (s stubSource) Get(name string) (*dataset.Table, bool) {
	t, ok := s[name]
	if !ok || t == nil {
		return nil, false
	}
	return t, true
}

func TestGroupBySumsAndSortsDescending(t *testing.T) {
	table := dataset.NewTable(
		[]string{"Zone Name", "Count"},
		[][]string{
			{"North", "10"},
			{"South", "30"},
			{"North", "5"},
			{"East", "20"},
		},
	)
	engine := NewEngine(stubSource{"zones": table})

	entries, status := engine.GroupBy("zones", "Zone Name", "Count", 0)
	require.Equal(t, StatusOK, status)

	want := []GroupEntry{
		{Key: "South", Value: 30},
		{Key: "East", Value: 20},
		{Key: "North", Value: 15},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("GroupBy mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupByTopNTruncatesAfterSorting(t *testing.T) {
	table := dataset.NewTable(
		[]string{"Ward Name", "Toilets"},
		[][]string{
			{"Ward A", "1"},
			{"Ward B", "9"},
			{"Ward C", "5"},
			{"Ward D", "7"},
		},
	)
	engine := NewEngine(stubSource{"water": table})

	entries, status := engine.GroupBy("water", "Ward Name", "Toilets", 2)
	require.Equal(t, StatusOK, status)
	require.Len(t, entries, 2)
	assert.Equal(t, "Ward B", entries[0].Key)
	assert.Equal(t, "Ward D", entries[1].Key)
}

func TestGroupByMatchesKeysVerbatim(t *testing.T) {
	// "Zone 1" and "zone 1 " are distinct groups: no trimming, no case folding
	table := dataset.NewTable(
		[]string{"Zone Name", "Count"},
		[][]string{
			{"Zone 1", "10"},
			{"zone 1 ", "20"},
		},
	)
	engine := NewEngine(stubSource{"zones": table})

	entries, status := engine.GroupBy("zones", "Zone Name", "Count", 0)
	require.Equal(t, StatusOK, status)
	require.Len(t, entries, 2)
}

func TestGroupBySkipsMissingValuesAndEmptyKeys(t *testing.T) {
	table := dataset.NewTable(
		[]string{"Zone Name", "Count"},
		[][]string{
			{"North", "NA"},
			{"North", "10"},
			{"", "99"},
		},
	)
	engine := NewEngine(stubSource{"zones": table})

	entries, status := engine.GroupBy("zones", "Zone Name", "Count", 0)
	require.Equal(t, StatusOK, status)
	require.Len(t, entries, 1)
	assert.Equal(t, GroupEntry{Key: "North", Value: 10}, entries[0])
}

func TestGroupByStatuses(t *testing.T) {
	empty := dataset.NewTable([]string{"Zone Name", "Count"}, nil)
	table := dataset.NewTable([]string{"Zone Name"}, [][]string{{"North"}})
	engine := NewEngine(stubSource{"empty": empty, "zones": table})

	_, status := engine.GroupBy("missing", "Zone Name", "Count", 0)
	assert.Equal(t, StatusNoDataset, status)

	_, status = engine.GroupBy("empty", "Zone Name", "Count", 0)
	assert.Equal(t, StatusNoDataset, status)

	_, status = engine.GroupBy("zones", "Zone Name", "Count", 0)
	assert.Equal(t, StatusNoColumn, status)
}

func TestTrendSortsYearsAscendingRegardlessOfInputOrder(t *testing.T) {
	table := dataset.NewTable(
		[]string{"Year", "Total"},
		[][]string{
			{"2019", "100"},
			{"2021", "300"},
			{"2020", "200"},
		},
	)
	engine := NewEngine(stubSource{"crimes": table})

	points, status := engine.Trend("crimes", "Year", "Total")
	require.Equal(t, StatusOK, status)

	want := []TrendPoint{
		{Period: "2019", Value: 100},
		{Period: "2020", Value: 200},
		{Period: "2021", Value: 300},
	}
	if diff := cmp.Diff(want, points); diff != "" {
		t.Errorf("Trend mismatch (-want +got):\n%s", diff)
	}
}

func TestTrendSortsMonthLabelsChronologically(t *testing.T) {
	table := dataset.NewTable(
		[]string{"Month -Year", "Reading"},
		[][]string{
			{"Mar-2021", "30"},
			{"Jan-2021", "10"},
			{"Dec-2020", "5"},
			{"Feb-2021", "20"},
		},
	)
	engine := NewEngine(stubSource{"environment": table})

	points, status := engine.Trend("environment", "Month -Year", "Reading")
	require.Equal(t, StatusOK, status)

	periods := make([]string, len(points))
	for i, p := range points {
		periods[i] = p.Period
	}
	assert.Equal(t, []string{"Dec-2020", "Jan-2021", "Feb-2021", "Mar-2021"}, periods)
}

func TestTrendOmitsMissingValues(t *testing.T) {
	table := dataset.NewTable(
		[]string{"Year", "Total"},
		[][]string{
			{"2019", "100"},
			{"2020", "NA"},
			{"2021", "300"},
		},
	)
	engine := NewEngine(stubSource{"crimes": table})

	points, status := engine.Trend("crimes", "Year", "Total")
	require.Equal(t, StatusOK, status)
	require.Len(t, points, 2)
	assert.Equal(t, "2019", points[0].Period)
	assert.Equal(t, "2021", points[1].Period)
}

func TestTrendFallsBackToLexicographicOrder(t *testing.T) {
	table := dataset.NewTable(
		[]string{"Quarter", "Total"},
		[][]string{
			{"Q3", "3"},
			{"Q1", "1"},
			{"Q2", "2"},
		},
	)
	engine := NewEngine(stubSource{"misc": table})

	points, status := engine.Trend("misc", "Quarter", "Total")
	require.Equal(t, StatusOK, status)
	assert.Equal(t, "Q1", points[0].Period)
	assert.Equal(t, "Q2", points[1].Period)
	assert.Equal(t, "Q3", points[2].Period)
}

func TestTrendStatuses(t *testing.T) {
	table := dataset.NewTable([]string{"Year"}, [][]string{{"2020"}})
	engine := NewEngine(stubSource{"crimes": table})

	_, status := engine.Trend("missing", "Year", "Total")
	assert.Equal(t, StatusNoDataset, status)

	_, status = engine.Trend("crimes", "Year", "Total")
	assert.Equal(t, StatusNoColumn, status)
}
