package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/carbosim/internal/scenario"
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
	ID              string             `json:"id"`
	Scenario        string             `json:"scenario"`
	Model           string             `json:"model"`
	Integrator      string             `json:"integrator"`
	Forcing         string             `json:"forcing"`
	Timestamp       time.Time          `json:"timestamp"`
	Dt              float64            `json:"dt"`
	Duration        float64            `json:"duration"`
	ConservationTol float64            `json:"conservation_tol,omitempty"`
	ProxyTau        float64            `json:"proxy_tau,omitempty"`
	Metrics         map[string]float64 `json:"metrics"`
}

func (s *Store) Save(out *scenario.Outcome) (string, error) {
	// Nanosecond timestamps keep rapid back-to-back saves from colliding
	// on one run directory.
	runID := fmt.Sprintf("%s_%d", out.Config.Model, time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.Mkdir(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:              runID,
		Scenario:        out.Config.Name,
		Model:           out.Config.Model,
		Integrator:      out.Config.Integrator,
		Forcing:         out.Config.Forcing.Name(),
		Timestamp:       time.Now(),
		Dt:              out.Config.Dt,
		Duration:        out.Config.Duration,
		ConservationTol: out.Config.ConservationTol,
		ProxyTau:        out.ProxyTau,
		Metrics:         out.Result.Metrics,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "trajectory.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(out.Trajectory.Columns); err != nil {
		return "", err
	}

	row := make([]string, len(out.Trajectory.Columns))
	for _, vals := range out.Trajectory.Rows {
		for j, v := range vals {
			row[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

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

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadTrajectory(runID string) (*scenario.Trajectory, error) {
	csvPath := filepath.Join(s.baseDir, runID, "trajectory.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("storage: empty trajectory in run %s", runID)
	}

	traj := &scenario.Trajectory{
		Columns: records[0],
		Rows:    make([][]float64, 0, len(records)-1),
	}
	for _, rec := range records[1:] {
		row := make([]float64, len(rec))
		for j, field := range rec {
			row[j], err = strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("storage: run %s: %w", runID, err)
			}
		}
		traj.Rows = append(traj.Rows, row)
	}

	return traj, nil
}
