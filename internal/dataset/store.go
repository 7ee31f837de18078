// Package dataset locates, loads, and caches the tabular city datasets.
// Loading is fail-soft: a dataset whose file is missing or malformed is
// recorded as absent and never aborts the load of its siblings.
package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/civicdata/citypulse/internal/fsutil"
	"github.com/civicdata/citypulse/internal/monitoring"
)

// Dataset name constants
const (
	WaterSanitation = "water_sanitation"
	Environment     = "environment"
	Crimes          = "crimes"
	Intersections   = "intersections"
	Employment      = "employment"
)

// datasetFiles maps dataset names to their fixed filenames under the base
// directory.
var datasetFiles = map[string]string{
	WaterSanitation: "unified_water_sanitation.csv",
	Environment:     "unified_environment.csv",
	Crimes:          "unified_crimes.csv",
	Intersections:   "unified_intersections.csv",
	Employment:      "unified_employment.csv",
}

// Store loads the five city datasets once and caches them for the process
// lifetime. Tables are read-only after LoadAll and safe to share across
// requests without synchronization.
type Store struct {
	fs     fsutil.FileSystem
	dir    string
	tables map[string]*Table
}

// NewStore creates a store reading from the given base directory.
func NewStore(fs fsutil.FileSystem, dir string) *Store {
	return &Store{
		fs:     fs,
		dir:    dir,
		tables: make(map[string]*Table),
	}
}

// LoadAll attempts to load every dataset. A failed dataset is logged and
// marked absent; the others still load. LoadAll never returns an error.
func (s *Store) LoadAll() {
	for name, filename := range datasetFiles {
		path := filepath.Join(s.dir, filename)
		t, err := s.loadTable(path)
		if err != nil {
			monitoring.Logf("dataset %q unavailable: %v", name, err)
			s.tables[name] = nil
			continue
		}
		s.tables[name] = t
	}
}

// Get returns the cached table for a dataset name. The second return is
// false when the dataset is unknown or failed to load. Get never touches
// the filesystem.
func (s *Store) Get(name string) (*Table, bool) {
	t, ok := s.tables[name]
	if !ok || t == nil {
		return nil, false
	}
	return t, true
}

// Names returns all known dataset names, sorted.
func (s *Store) Names() []string {
	names := make([]string, 0, len(datasetFiles))
	for name := range datasetFiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Loaded reports whether the named dataset loaded successfully.
func (s *Store) Loaded(name string) bool {
	_, ok := s.Get(name)
	return ok
}

func (s *Store) loadTable(path string) (*Table, error) {
	f, err := s.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(bufio.NewReader(f))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("file has no header row")
	}

	return NewTable(records[0], records[1:]), nil
}
