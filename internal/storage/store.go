package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/attractor/internal/config"
	"github.com/san-kum/attractor/internal/density"
	"github.com/san-kum/attractor/internal/geom"
)

const (
	metadataFile = "metadata.json"
	densityFile  = "density.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Params    config.Params `json:"params"`
	Bounds    geom.Bounds   `json:"bounds"`
	MaxCount  int           `json:"max_count"`
	Visited   int           `json:"visited"`
	Total     int           `json:"total"`
	Output    string        `json:"output,omitempty"`
}

// Save writes metadata.json and density.csv under a new run directory and
// returns the run id.
func (s *Store) Save(p config.Params, grid *density.Grid, bounds geom.Bounds, output string) (string, error) {
	now := time.Now()
	runID, runDir, err := s.newRunDir(now)
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Timestamp: now,
		Params:    p,
		Bounds:    bounds,
		MaxCount:  grid.Max,
		Visited:   grid.Visited(),
		Total:     grid.Total(),
		Output:    output,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeGrid(filepath.Join(runDir, densityFile), grid); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) newRunDir(now time.Time) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	base := fmt.Sprintf("lorenz_%d", now.UnixNano())
	runID := base
	for i := 1; ; i++ {
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s_%d", base, i)
	}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeGrid(path string, grid *density.Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	row := make([]string, grid.Size)
	for y := 0; y < grid.Size; y++ {
		for x := 0; x < grid.Size; x++ {
			row[x] = strconv.Itoa(grid.At(x, y))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns all readable runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadGrid(runID string) (*density.Grid, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, densityFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	rows := make([][]int, len(records))
	for y, record := range records {
		rows[y] = make([]int, len(record))
		for x, field := range record {
			v, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("run %s: row %d col %d: %w", runID, y, x, err)
			}
			rows[y][x] = v
		}
	}
	return density.FromRows(rows)
}
