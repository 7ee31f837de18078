package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/civicdata/citypulse/internal/api"
	"github.com/civicdata/citypulse/internal/config"
	"github.com/civicdata/citypulse/internal/dataset"
	"github.com/civicdata/citypulse/internal/fsutil"
	"github.com/civicdata/citypulse/internal/metrics"
	"github.com/civicdata/citypulse/internal/report"
	"github.com/civicdata/citypulse/internal/version"
)

var (
	listen     = flag.String("listen", "", "Listen address (overrides config)")
	dataDir    = flag.String("data", "", "Dataset directory (overrides config)")
	configPath = flag.String("config", "", "Path to JSON config file")
)

func main() {
	flag.Parse()

	cfg := config.EmptyDashboardConfig()
	if *configPath != "" {
		loaded, err := config.LoadDashboardConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		cfg = loaded
	}

	dir := cfg.GetDataDir()
	if *dataDir != "" {
		dir = *dataDir
	}
	addr := cfg.GetListen()
	if *listen != "" {
		addr = *listen
	}

	log.Printf("citypulse %s (%s) starting", version.Version, version.GitSHA)

	fs := fsutil.OSFileSystem{}
	store := dataset.NewStore(fs, dir)
	store.LoadAll()
	for _, name := range store.Names() {
		if store.Loaded(name) {
			t, _ := store.Get(name)
			log.Printf("dataset %s: %d rows", name, t.Len())
		} else {
			log.Printf("dataset %s: not available", name)
		}
	}

	engine := metrics.NewEngine(store)

	mux := http.NewServeMux()

	apiMux := api.NewServer(store, engine).ServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", apiMux))

	dashboard := report.NewDashboard(engine, cfg)
	mux.Handle("/charts/", http.StripPrefix("/charts", dashboard.ServeMux()))

	exporter := report.NewExporter(engine, fs, cfg.GetReportDir())
	mux.HandleFunc("/export", exporter.HandleExport)
	mux.Handle("/reports/", http.StripPrefix("/reports/", http.FileServer(http.Dir(cfg.GetReportDir()))))

	mux.HandleFunc("/", dashboard.HandleIndex)

	server := &http.Server{
		Addr:    addr,
		Handler: api.LoggingMiddleware(mux),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	log.Printf("graceful shutdown complete")
}
