package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/dangle/internal/config"
	"github.com/san-kum/dangle/internal/dynamo"
	"github.com/san-kum/dangle/internal/rig"
	"github.com/san-kum/dangle/internal/sim"
)

const (
	metadataFile = "metadata.json"
	outputsFile  = "outputs.csv"
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

type DriverMeta struct {
	Param   string `json:"param"`
	Node    string `json:"node"`
	System  string `json:"system"`
	MapMode string `json:"map_mode"`
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Scene     string             `json:"scene"`
	Timestamp time.Time          `json:"timestamp"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Frames    int                `json:"frames"`
	Drivers   []DriverMeta       `json:"drivers"`
	Skipped   int                `json:"skipped"`
	Held      int                `json:"held"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Params lists the recorded parameters in column order.
func (m *RunMetadata) Params() []string {
	out := make([]string, len(m.Drivers))
	for i, d := range m.Drivers {
		out[i] = d.Param
	}
	return out
}

// Save writes a run's metadata and outputs under a new run id.
func (s *Store) Save(scene *config.Scene, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", scene.Name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scene:     scene.Name,
		Timestamp: now,
		Dt:        scene.Dt,
		Duration:  scene.Duration,
		Frames:    len(result.Times),
		Drivers:   make([]DriverMeta, len(scene.Drivers)),
		Skipped:   result.Skipped,
		Held:      result.Held,
		Metrics:   result.Metrics,
	}
	for i, d := range scene.Drivers {
		meta.Drivers[i] = DriverMeta{Param: d.Param, Node: d.Node, System: d.System, MapMode: d.MapMode}
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, outputsFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, result); err != nil {
		return "", err
	}
	return runID, csvFile.Close()
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

// List returns every readable run, oldest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
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

// LoadOutputs reads a run's recorded outputs back into a result.
func (s *Store) LoadOutputs(runID string) (*sim.Result, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, outputsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("run %s: empty outputs", runID)
	}

	params, err := parseHeader(records[0])
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	result := &sim.Result{
		Params:  params,
		Times:   make([]float64, 0, len(records)-1),
		Outputs: make([][]dynamo.Vec2, 0, len(records)-1),
		Metrics: make(map[string]float64),
	}
	for i, record := range records[1:] {
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("run %s row %d: %w", runID, i+1, err)
		}
		row := make([]dynamo.Vec2, len(params))
		for j := range params {
			for k := 0; k < 2; k++ {
				v, err := strconv.ParseFloat(record[1+2*j+k], 64)
				if err != nil {
					return nil, fmt.Errorf("run %s row %d: %w", runID, i+1, err)
				}
				row[j][k] = v
			}
		}
		result.Times = append(result.Times, t)
		result.Outputs = append(result.Outputs, row)
	}
	return result, nil
}

// parseHeader turns "time,a.x,a.y,b.x,b.y" into [a b].
func parseHeader(header []string) ([]rig.ParamID, error) {
	if len(header) == 0 || header[0] != "time" || len(header)%2 != 1 {
		return nil, fmt.Errorf("bad outputs header %v", header)
	}
	params := make([]rig.ParamID, 0, len(header)/2)
	for i := 1; i < len(header); i += 2 {
		x, okX := strings.CutSuffix(header[i], ".x")
		y, okY := strings.CutSuffix(header[i+1], ".y")
		if !okX || !okY || x != y {
			return nil, fmt.Errorf("bad outputs header columns %q %q", header[i], header[i+1])
		}
		params = append(params, rig.ParamID(x))
	}
	return params, nil
}
