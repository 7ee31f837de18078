// citystats prints the aggregate summaries of every dataset as JSON. It is
// the offline counterpart of the /api/summary endpoint, useful for checking
// a data drop before pointing the dashboard at it.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/civicdata/citypulse/internal/dataset"
	"github.com/civicdata/citypulse/internal/fsutil"
	"github.com/civicdata/citypulse/internal/metrics"
	"github.com/civicdata/citypulse/internal/version"
)

var (
	dataDir     = flag.String("data", "datasets/unified", "Dataset directory")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("citystats %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	store := dataset.NewStore(fsutil.OSFileSystem{}, *dataDir)
	store.LoadAll()

	engine := metrics.NewEngine(store)

	out := make(map[string]map[string]float64, len(store.Names()))
	for _, name := range store.Names() {
		out[name] = engine.Summarize(name)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("failed to encode summaries: %v", err)
	}
}
