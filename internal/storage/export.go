package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/carbosim/internal/scenario"
)

type ExportData struct {
	Scenario   string             `json:"scenario"`
	Model      string             `json:"model"`
	Integrator string             `json:"integrator"`
	Forcing    string             `json:"forcing"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	ProxyTau   float64            `json:"proxy_tau,omitempty"`
	Columns    []string           `json:"columns"`
	Rows       [][]float64        `json:"rows"`
	Metrics    map[string]float64 `json:"metrics"`
}

func exportData(out *scenario.Outcome) ExportData {
	return ExportData{
		Scenario:   out.Config.Name,
		Model:      out.Config.Model,
		Integrator: out.Config.Integrator,
		Forcing:    out.Config.Forcing.Name(),
		Dt:         out.Config.Dt,
		Duration:   out.Config.Duration,
		ProxyTau:   out.ProxyTau,
		Columns:    out.Trajectory.Columns,
		Rows:       out.Trajectory.Rows,
		Metrics:    out.Result.Metrics,
	}
}

func ExportJSON(path string, out *scenario.Outcome) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeJSON(file, out)
}

func ExportJSONStdout(out *scenario.Outcome) error {
	return writeJSON(os.Stdout, out)
}

func writeJSON(w io.Writer, out *scenario.Outcome) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(exportData(out))
}
