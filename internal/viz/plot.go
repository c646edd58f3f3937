// Package viz renders trajectories and run summaries for the terminal.
package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/carbosim/internal/scenario"
)

// PlotColumn renders one trajectory column as an ascii line chart.
func PlotColumn(traj *scenario.Trajectory, column string, height, width int) (string, error) {
	data := traj.Column(column)
	if data == nil {
		return "", fmt.Errorf("viz: no column %q in trajectory (have %v)", column, traj.Columns)
	}
	graph := asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(column),
	)
	return graph, nil
}

// PlotComparison overlays the full-model and proxy totals.
func PlotComparison(c *scenario.Comparison, height, width int) string {
	graph := asciigraph.PlotMany([][]float64{c.FullTotal, c.ProxyTotal},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(asciigraph.Green, asciigraph.Red),
		asciigraph.Caption("total carbon: full (green) vs proxy (red)"),
	)
	return graph
}

// Summary renders labeled values as an aligned, styled block.
func Summary(title string, pairs [][2]string) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n")

	labelWidth := 0
	for _, p := range pairs {
		if len(p[0]) > labelWidth {
			labelWidth = len(p[0])
		}
	}
	for _, p := range pairs {
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			LabelStyle.Render(fmt.Sprintf("%-*s", labelWidth, p[0])),
			ValueStyle.Render(p[1])))
	}
	return PanelStyle.Render(b.String())
}
