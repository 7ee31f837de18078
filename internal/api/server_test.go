package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicdata/citypulse/internal/dataset"
	"github.com/civicdata/citypulse/internal/fsutil"
	"github.com/civicdata/citypulse/internal/metrics"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	fs := fsutil.NewMemoryFileSystem()
	files := map[string]string{
		"data/unified_crimes.csv": "Year,Total number of crimes recorded\n2021,300\n2019,100\n2020,200\n",
		"data/unified_water_sanitation.csv": "Zone Name,Ward Name,Total number of households (HH),HH part of the city sewerage network\n" +
			"Zone 1,Ward A,120,90\n" +
			"Zone 1,Ward B,80,60\n",
	}
	for name, content := range files {
		require.NoError(t, fs.WriteFile(name, []byte(content), 0o644))
	}

	store := dataset.NewStore(fs, "data")
	store.LoadAll()
	engine := metrics.NewEngine(store)

	srv := httptest.NewServer(NewServer(store, engine).ServeMux())
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestListDatasets(t *testing.T) {
	srv := newTestServer(t)

	var out []struct {
		Name   string `json:"name"`
		Loaded bool   `json:"loaded"`
		Rows   int    `json:"rows"`
	}
	code := getJSON(t, srv.URL+"/datasets", &out)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, out, 5)

	byName := map[string]bool{}
	for _, ds := range out {
		byName[ds.Name] = ds.Loaded
	}
	assert.True(t, byName[dataset.Crimes])
	assert.True(t, byName[dataset.WaterSanitation])
	assert.False(t, byName[dataset.Environment])
}

func TestSummaryEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var out map[string]float64
	code := getJSON(t, srv.URL+"/summary?dataset=water_sanitation", &out)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 200.0, out["total_households"])
	assert.Equal(t, 75.0, out["sewerage_pct"])
}

func TestSummaryEndpointNoData(t *testing.T) {
	srv := newTestServer(t)

	code := getJSON(t, srv.URL+"/summary?dataset=environment", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestSummaryEndpointMissingParam(t *testing.T) {
	srv := newTestServer(t)

	code := getJSON(t, srv.URL+"/summary", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestGroupByEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var out []struct {
		Key   string  `json:"key"`
		Value float64 `json:"value"`
	}
	url := srv.URL + "/groupby?dataset=water_sanitation&group_by=Ward+Name&value=Total+number+of+households+%28HH%29&top_n=1"
	code := getJSON(t, url, &out)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, out, 1)
	assert.Equal(t, "Ward A", out[0].Key)
	assert.Equal(t, 120.0, out[0].Value)
}

func TestGroupByEndpointUnknownColumn(t *testing.T) {
	srv := newTestServer(t)

	code := getJSON(t, srv.URL+"/groupby?dataset=water_sanitation&group_by=Nope&value=Nope", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestGroupByEndpointBadTopN(t *testing.T) {
	srv := newTestServer(t)

	code := getJSON(t, srv.URL+"/groupby?dataset=crimes&group_by=Year&value=Year&top_n=zero", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestTrendEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var out []struct {
		Period string  `json:"period"`
		Value  float64 `json:"value"`
	}
	url := srv.URL + "/trend?dataset=crimes&time=Year&value=Total+number+of+crimes+recorded"
	code := getJSON(t, url, &out)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, out, 3)
	assert.Equal(t, "2019", out[0].Period)
	assert.Equal(t, "2021", out[2].Period)
}

func TestTrendEndpointAbsentDataset(t *testing.T) {
	srv := newTestServer(t)

	code := getJSON(t, srv.URL+"/trend?dataset=employment&time=Year&value=x", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/summary?dataset=crimes", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestVersionEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var out map[string]string
	code := getJSON(t, srv.URL+"/version", &out)
	require.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, out["version"])
}
