// Package tui provides a live terminal view of a running scenario.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/carbosim/internal/dynamo"
	"github.com/san-kum/carbosim/internal/scenario"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ccff"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	errStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444"))
)

const historyLen = 240

type model struct {
	cfg   scenario.Config
	sys   scenario.Model
	integ dynamo.Integrator

	x      dynamo.State
	t      float64
	speed  int // integration steps per frame
	paused bool
	done   bool
	runErr error

	totals []float64
	width  int
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func newModel(cfg scenario.Config) (model, error) {
	sys, err := scenario.BuildModel(cfg)
	if err != nil {
		return model{}, err
	}
	reg := scenario.NewRegistry()
	integ, err := reg.GetIntegrator(cfg.Integrator)
	if err != nil {
		return model{}, err
	}
	x0, err := scenario.InitialState(cfg, sys)
	if err != nil {
		return model{}, err
	}
	return model{
		cfg:    cfg,
		sys:    sys,
		integ:  integ,
		x:      x0,
		speed:  4,
		totals: make([]float64, 0, historyLen),
		width:  80,
	}, nil
}

func (m model) Init() tea.Cmd { return tick() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "+":
			if m.speed < 64 {
				m.speed *= 2
			}
		case "-":
			if m.speed > 1 {
				m.speed /= 2
			}
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tickMsg:
		if m.paused || m.done || m.runErr != nil {
			return m, tick()
		}
		for i := 0; i < m.speed && m.t < m.cfg.Duration; i++ {
			newX, err := m.integ.Step(m.sys, m.x, m.t, m.cfg.Dt)
			if err != nil {
				m.runErr = err
				return m, tick()
			}
			m.x = newX
			m.t += m.cfg.Dt
		}
		m.totals = append(m.totals, m.sys.Total(m.x))
		if len(m.totals) > historyLen {
			m.totals = m.totals[1:]
		}
		if m.t >= m.cfg.Duration {
			m.done = true
		}
		return m, tick()
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("carbosim %s", m.cfg.Model)))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  t=%.2f / %.2f  input=%.3f", m.t, m.cfg.Duration, m.sys.InputRate(m.t))))
	b.WriteString("\n\n")

	names := m.sys.StateNames()
	maxVal := 0.0
	for _, v := range m.x {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}
	barWidth := m.width - 28
	if barWidth < 10 {
		barWidth = 10
	}
	for i, name := range names {
		n := int(m.x[i] / maxVal * float64(barWidth))
		if n < 0 {
			n = 0
		}
		b.WriteString(fmt.Sprintf("  %-12s %9.3f %s\n", name, m.x[i],
			barStyle.Render(strings.Repeat("█", n))))
	}

	b.WriteString(fmt.Sprintf("\n  %s %s\n", dimStyle.Render("total"),
		sparkline(m.totals, barWidth)))

	switch {
	case m.runErr != nil:
		b.WriteString("\n" + errStyle.Render(m.runErr.Error()) + "\n")
	case m.done:
		b.WriteString("\n" + dimStyle.Render("  finished, q to quit") + "\n")
	default:
		b.WriteString("\n" + dimStyle.Render("  space pause  +/- speed  q quit") + "\n")
	}
	return b.String()
}

func sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	rang := maxVal - minVal
	if rang == 0 {
		rang = 1
	}
	step := len(data) / width
	if step < 1 {
		step = 1
	}
	var sb strings.Builder
	for i := 0; i < width && i*step < len(data); i++ {
		v := data[i*step]
		idx := int((v - minVal) / rang * 7)
		if idx > 7 {
			idx = 7
		}
		if idx < 0 {
			idx = 0
		}
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}

// RunLive animates a scenario in the terminal instead of running it to
// completion silently.
func RunLive(cfg scenario.Config) error {
	m, err := newModel(cfg)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
