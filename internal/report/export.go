package report

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/civicdata/citypulse/internal/fsutil"
	"github.com/civicdata/citypulse/internal/httputil"
	"github.com/civicdata/citypulse/internal/metrics"
	"github.com/civicdata/citypulse/internal/monitoring"
)

// Exporter writes trend charts as PNG files for offline reports.
type Exporter struct {
	engine *metrics.Engine
	fs     fsutil.FileSystem
	dir    string
}

// NewExporter creates an exporter that writes under dir on the given
// filesystem.
func NewExporter(engine *metrics.Engine, fs fsutil.FileSystem, dir string) *Exporter {
	return &Exporter{engine: engine, fs: fs, dir: dir}
}

// ExportResult identifies a finished export.
type ExportResult struct {
	RunID    string `json:"run_id"`
	Filename string `json:"filename"`
	Points   int    `json:"points"`
}

// ExportTrendPNG renders the dataset's time series to a PNG under the export
// directory. Each export gets a fresh run ID so repeated exports never
// clobber each other.
func (e *Exporter) ExportTrendPNG(datasetName, timeColumn, valueColumn string) (*ExportResult, error) {
	points, status := e.engine.Trend(datasetName, timeColumn, valueColumn)
	if status != metrics.StatusOK {
		return nil, fmt.Errorf("no data for %s/%s/%s: %s", datasetName, timeColumn, valueColumn, status)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s over %s", valueColumn, timeColumn)
	p.X.Label.Text = timeColumn
	p.Y.Label.Text = valueColumn

	xys := make(plotter.XYs, 0, len(points))
	labels := make([]string, 0, len(points))
	for i, pt := range points {
		xys = append(xys, plotter.XY{X: float64(i), Y: pt.Value})
		labels = append(labels, pt.Period)
	}

	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, fmt.Errorf("failed to build line: %w", err)
	}
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add(valueColumn, line)
	p.Legend.Top = true
	p.NominalX(labels...)

	runID := uuid.New().String()
	filename := fmt.Sprintf("trend_%s_%s.png", datasetName, runID)

	if err := e.fs.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export dir: %w", err)
	}

	wt, err := p.WriterTo(10*vg.Inch, 5*vg.Inch, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to render png: %w", err)
	}

	f, err := e.fs.Create(filepath.Join(e.dir, filename))
	if err != nil {
		return nil, fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	if _, err := wt.WriteTo(f); err != nil {
		return nil, fmt.Errorf("failed to write png: %w", err)
	}

	monitoring.Logf("exported trend png run_id=%s file=%s points=%d", runID, filename, len(xys))
	return &ExportResult{RunID: runID, Filename: filename, Points: len(xys)}, nil
}

// HandleExport exposes ExportTrendPNG over HTTP. Query params mirror the
// trend API: dataset, time, value.
func (e *Exporter) HandleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	q := r.URL.Query()
	name := q.Get("dataset")
	timeCol := q.Get("time")
	value := q.Get("value")
	if name == "" || timeCol == "" || value == "" {
		httputil.BadRequest(w, "dataset, time, and value parameters are required")
		return
	}

	result, err := e.ExportTrendPNG(name, timeCol, value)
	if err != nil {
		httputil.NoData(w)
		return
	}
	httputil.WriteJSONOK(w, result)
}
