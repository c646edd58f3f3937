package scenario

import (
	"fmt"

	"github.com/san-kum/carbosim/internal/dynamo"
)

// Trajectory is the tabular form of a run: one row per time point, with
// derived columns alongside the raw state.
type Trajectory struct {
	Columns []string
	Rows    [][]float64
}

// Tabulate assembles the trajectory table from a simulation result:
// time, cumulative CO2, each pool, total pool carbon, instantaneous
// respiration rate, instantaneous input rate. Respiration is recomputed
// from the model's derivative at each stored point; Derive is pure, so
// this cannot disturb the run it came from.
func Tabulate(model Model, result *dynamo.Result) (*Trajectory, error) {
	names := model.StateNames()
	cols := append([]string{"time"}, names...)
	cols = append(cols, "total", "respiration", "input")

	rows := make([][]float64, 0, len(result.Times))
	for i, t := range result.Times {
		x := result.States[i]
		dx, err := model.Derive(x, t)
		if err != nil {
			return nil, fmt.Errorf("scenario: tabulating t=%g: %w", t, err)
		}

		row := make([]float64, 0, len(cols))
		row = append(row, t)
		row = append(row, x...)
		row = append(row, model.Total(x), dx[0], model.InputRate(t))
		rows = append(rows, row)
	}

	return &Trajectory{Columns: cols, Rows: rows}, nil
}

// Column returns the named column, or nil if absent.
func (tr *Trajectory) Column(name string) []float64 {
	idx := -1
	for i, c := range tr.Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]float64, len(tr.Rows))
	for i, row := range tr.Rows {
		out[i] = row[idx]
	}
	return out
}

func (tr *Trajectory) Len() int { return len(tr.Rows) }
