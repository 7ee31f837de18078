// Package api exposes the aggregation layer as a read-only JSON API. The
// handlers never mutate store or engine state; a query with no data answers
// 404 with a stable "no data available" body.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/civicdata/citypulse/internal/dataset"
	"github.com/civicdata/citypulse/internal/httputil"
	"github.com/civicdata/citypulse/internal/metrics"
	"github.com/civicdata/citypulse/internal/monitoring"
	"github.com/civicdata/citypulse/internal/version"
)

// ANSI escape codes for request logging
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// Server answers JSON queries against the dataset store and metrics engine.
type Server struct {
	store  *dataset.Store
	engine *metrics.Engine
}

// NewServer creates an API server over the given store and engine.
func NewServer(store *dataset.Store, engine *metrics.Engine) *Server {
	return &Server{store: store, engine: engine}
}

// ServeMux returns the API routes.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/datasets", s.listDatasets)
	mux.HandleFunc("/summary", s.showSummary)
	mux.HandleFunc("/groupby", s.showGroupBy)
	mux.HandleFunc("/trend", s.showTrend)
	mux.HandleFunc("/version", s.showVersion)
	return mux
}

type datasetStatus struct {
	Name   string `json:"name"`
	Loaded bool   `json:"loaded"`
	Rows   int    `json:"rows"`
}

// listDatasets reports which datasets loaded and their row counts.
func (s *Server) listDatasets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	out := make([]datasetStatus, 0, len(s.store.Names()))
	for _, name := range s.store.Names() {
		ds := datasetStatus{Name: name}
		if t, ok := s.store.Get(name); ok {
			ds.Loaded = true
			ds.Rows = t.Len()
		}
		out = append(out, ds)
	}
	httputil.WriteJSONOK(w, out)
}

// showSummary returns the aggregate dictionary for ?dataset=<name>.
func (s *Server) showSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	name := r.URL.Query().Get("dataset")
	if name == "" {
		httputil.BadRequest(w, "dataset parameter is required")
		return
	}

	summary := s.engine.Summarize(name)
	if len(summary) == 0 {
		httputil.NoData(w)
		return
	}
	httputil.WriteJSONOK(w, summary)
}

// showGroupBy returns grouped sums for ?dataset=&group_by=&value=[&top_n=].
func (s *Server) showGroupBy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	q := r.URL.Query()
	name := q.Get("dataset")
	groupBy := q.Get("group_by")
	value := q.Get("value")
	if name == "" || groupBy == "" || value == "" {
		httputil.BadRequest(w, "dataset, group_by, and value parameters are required")
		return
	}

	topN := 0
	if v := q.Get("top_n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			httputil.BadRequest(w, "top_n must be a positive integer")
			return
		}
		topN = parsed
	}

	entries, status := s.engine.GroupBy(name, groupBy, value, topN)
	if status != metrics.StatusOK {
		httputil.NoData(w)
		return
	}
	httputil.WriteJSONOK(w, entries)
}

// showTrend returns a time series for ?dataset=&time=&value=.
func (s *Server) showTrend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
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

	points, status := s.engine.Trend(name, timeCol, value)
	if status != metrics.StatusOK {
		httputil.NoData(w)
		return
	}
	httputil.WriteJSONOK(w, points)
}

func (s *Server) showVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, map[string]string{
		"version":    version.Version,
		"git_sha":    version.GitSHA,
		"build_time": version.BuildTime,
	})
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	default:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	}
}

// LoggingMiddleware logs method, path, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		monitoring.Logf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}
