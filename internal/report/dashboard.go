// Package report renders the dashboard views. HTML charts go through
// go-echarts; PNG exports go through gonum/plot (see export.go).
package report

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/civicdata/citypulse/internal/config"
	"github.com/civicdata/citypulse/internal/dataset"
	"github.com/civicdata/citypulse/internal/httputil"
	"github.com/civicdata/citypulse/internal/metrics"
	"github.com/civicdata/citypulse/internal/pollutants"
)

// Dashboard renders the chart views over the metrics engine.
type Dashboard struct {
	engine     *metrics.Engine
	cfg        *config.DashboardConfig
	theme      string
	assetsHost string
}

// NewDashboard creates a dashboard bound to the given engine and config.
func NewDashboard(engine *metrics.Engine, cfg *config.DashboardConfig) *Dashboard {
	theme := "white"
	if cfg.GetChartTheme() == "dark" {
		theme = "dark"
	}
	return &Dashboard{
		engine:     engine,
		cfg:        cfg,
		theme:      theme,
		assetsHost: cfg.GetAssetsHost(),
	}
}

// ServeMux returns the chart routes.
func (d *Dashboard) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", d.HandleIndex)
	mux.HandleFunc("/water", d.handleWaterChart)
	mux.HandleFunc("/environment", d.handleEnvironmentChart)
	mux.HandleFunc("/crimes", d.handleCrimesChart)
	mux.HandleFunc("/intersections", d.handleIntersectionsChart)
	mux.HandleFunc("/employment", d.handleEmploymentChart)
	return mux
}

func (d *Dashboard) initOpts(title string) charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		PageTitle:  title,
		Theme:      d.theme,
		Width:      "100%",
		Height:     "600px",
		AssetsHost: d.assetsHost,
	})
}

func (d *Dashboard) renderPage(w http.ResponseWriter, chart components.Charter) {
	page := components.NewPage()
	if d.assetsHost != "" {
		page.SetAssetsHost(d.assetsHost)
	}
	page.AddCharts(chart)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render chart: %v", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleWaterChart renders zone household totals alongside the busiest wards
// by public toilet count.
func (d *Dashboard) handleWaterChart(w http.ResponseWriter, r *http.Request) {
	zones, status := d.engine.GroupBy(dataset.WaterSanitation, dataset.ColZoneName, dataset.ColTotalHouseholds, 0)
	if status != metrics.StatusOK {
		httputil.NoData(w)
		return
	}

	x := make([]string, 0, len(zones))
	y := make([]opts.BarData, 0, len(zones))
	for _, entry := range zones {
		x = append(x, entry.Key)
		y = append(y, opts.BarData{Value: entry.Value})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		d.initOpts("Water & Sanitation"),
		charts.WithTitleOpts(opts.Title{Title: "Households by Zone", Subtitle: fmt.Sprintf("zones=%d", len(zones))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).AddSeries("households", y,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
	)

	topWards, status := d.engine.GroupBy(dataset.WaterSanitation, dataset.ColWardName, dataset.ColPublicToilets, d.cfg.GetTopWards())
	if status != metrics.StatusOK {
		d.renderPage(w, bar)
		return
	}

	wx := make([]string, 0, len(topWards))
	wy := make([]opts.BarData, 0, len(topWards))
	for _, entry := range topWards {
		wx = append(wx, entry.Key)
		wy = append(wy, opts.BarData{Value: entry.Value})
	}

	wardBar := charts.NewBar()
	wardBar.SetGlobalOptions(
		d.initOpts("Water & Sanitation"),
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("Top %d Wards by Public Toilets", len(topWards))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	wardBar.SetXAxis(wx).AddSeries("public toilets", wy)
	wardBar.XYReversal()

	page := components.NewPage()
	if d.assetsHost != "" {
		page.SetAssetsHost(d.assetsHost)
	}
	page.AddCharts(bar, wardBar)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render chart: %v", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleEnvironmentChart renders monthly pollutant trends. The pollutant
// defaults to PM2.5; ?pollutant= selects another.
func (d *Dashboard) handleEnvironmentChart(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("pollutant")
	if key == "" {
		key = pollutants.PM25
	}
	if !pollutants.IsValid(key) {
		httputil.BadRequest(w, fmt.Sprintf("unknown pollutant %q", key))
		return
	}
	col, _ := pollutants.Column(key)

	points, status := d.engine.Trend(dataset.Environment, dataset.ColMonthYear, col)
	if status != metrics.StatusOK {
		httputil.NoData(w)
		return
	}

	// show only the trailing window
	if months := d.cfg.GetTrendMonths(); len(points) > months {
		points = points[len(points)-months:]
	}

	x := make([]string, 0, len(points))
	y := make([]opts.LineData, 0, len(points))
	for _, p := range points {
		x = append(x, p.Period)
		y = append(y, opts.LineData{Value: p.Value})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		d.initOpts("Air Quality"),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Monthly %s (%s)", key, pollutants.Unit()),
			Subtitle: fmt.Sprintf("WHO guideline: %g %s", pollutants.Guideline(key), pollutants.Unit()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	line.SetXAxis(x).AddSeries(key, y,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
	)

	d.renderPage(w, line)
}

// handleCrimesChart renders yearly crime totals as bars with a trend line
// overlaid.
func (d *Dashboard) handleCrimesChart(w http.ResponseWriter, r *http.Request) {
	points, status := d.engine.Trend(dataset.Crimes, dataset.ColYear, dataset.ColTotalCrimes)
	if status != metrics.StatusOK {
		httputil.NoData(w)
		return
	}

	x := make([]string, 0, len(points))
	bars := make([]opts.BarData, 0, len(points))
	lines := make([]opts.LineData, 0, len(points))
	for _, p := range points {
		x = append(x, p.Period)
		bars = append(bars, opts.BarData{Value: p.Value})
		lines = append(lines, opts.LineData{Value: p.Value})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		d.initOpts("Crime Statistics"),
		charts.WithTitleOpts(opts.Title{Title: "Total Crimes by Year"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).AddSeries("crimes", bars,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
	)

	line := charts.NewLine()
	line.SetXAxis(x).AddSeries("trend", lines,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
	)
	bar.Overlap(line)

	d.renderPage(w, bar)
}

// handleIntersectionsChart renders total vs signalized intersections per zone.
func (d *Dashboard) handleIntersectionsChart(w http.ResponseWriter, r *http.Request) {
	totals, status := d.engine.GroupBy(dataset.Intersections, dataset.ColZoneName, dataset.ColIntersections, 0)
	if status != metrics.StatusOK {
		httputil.NoData(w)
		return
	}
	signalized, status := d.engine.GroupBy(dataset.Intersections, dataset.ColZoneName, dataset.ColSignalized, 0)
	if status != metrics.StatusOK {
		httputil.NoData(w)
		return
	}

	byZone := make(map[string]float64, len(signalized))
	for _, entry := range signalized {
		byZone[entry.Key] = entry.Value
	}

	x := make([]string, 0, len(totals))
	totalBars := make([]opts.BarData, 0, len(totals))
	signalBars := make([]opts.BarData, 0, len(totals))
	for _, entry := range totals {
		x = append(x, entry.Key)
		totalBars = append(totalBars, opts.BarData{Value: entry.Value})
		signalBars = append(signalBars, opts.BarData{Value: byZone[entry.Key]})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		d.initOpts("Traffic Intersections"),
		charts.WithTitleOpts(opts.Title{Title: "Intersections by Zone", Subtitle: "total vs signalized"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).
		AddSeries("total", totalBars).
		AddSeries("signalized", signalBars)

	d.renderPage(w, bar)
}

// handleEmploymentChart renders the employed/unemployed split as a pie.
func (d *Dashboard) handleEmploymentChart(w http.ResponseWriter, r *http.Request) {
	summary := d.engine.Summarize(dataset.Employment)
	employed, okE := summary["employed"]
	unemployed, okU := summary["unemployed"]
	if !okE || !okU {
		httputil.NoData(w)
		return
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		d.initOpts("Employment"),
		charts.WithTitleOpts(opts.Title{Title: "Labour Force Composition", Subtitle: "ages 15-59"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	pie.AddSeries("labour force", []opts.PieData{
		{Name: "Employed", Value: employed},
		{Name: "Unemployed", Value: unemployed},
	}, charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c}"}))

	d.renderPage(w, pie)
}

const indexHTML = `<!DOCTYPE html>
<html>
<head><title>City Statistics Dashboard</title></head>
<body>
<h1>City Statistics Dashboard</h1>
<ul>
<li><a href="/charts/water">Water &amp; Sanitation</a></li>
<li><a href="/charts/environment">Air Quality</a></li>
<li><a href="/charts/crimes">Crime Statistics</a></li>
<li><a href="/charts/intersections">Traffic Intersections</a></li>
<li><a href="/charts/employment">Employment</a></li>
</ul>
<p>JSON API: <a href="/api/datasets">/api/datasets</a>, /api/summary, /api/groupby, /api/trend</p>
</body>
</html>
`

// HandleIndex serves the landing page linking out to the chart views.
func (d *Dashboard) HandleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}
