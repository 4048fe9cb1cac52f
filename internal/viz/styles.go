package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styles derived from the current theme
type palette struct {
	canvas   lipgloss.Style
	panel    lipgloss.Style
	header   lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	active   lipgloss.Style
	graph    lipgloss.Style
	help     lipgloss.Style
	running  lipgloss.Style
	paused   lipgloss.Style
	errText  lipgloss.Style
	sparkHi  lipgloss.Style
	sparkMid lipgloss.Style
	sparkLo  lipgloss.Style
}

func newPalette(th Theme) palette {
	return palette{
		canvas: lipgloss.NewStyle().Padding(1, 2).Foreground(th.Secondary),
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(th.Muted).
			Padding(1, 2).
			Width(46),
		header:   lipgloss.NewStyle().Foreground(th.Primary).Bold(true).MarginBottom(1),
		label:    lipgloss.NewStyle().Foreground(th.Muted).Width(12),
		value:    lipgloss.NewStyle().Foreground(th.Text),
		active:   lipgloss.NewStyle().Foreground(th.Primary).Bold(true),
		graph:    lipgloss.NewStyle().Foreground(th.Accent).Padding(1, 0),
		help:     lipgloss.NewStyle().Foreground(th.Muted).MarginTop(1),
		running:  lipgloss.NewStyle().Foreground(th.Success).Bold(true),
		paused:   lipgloss.NewStyle().Foreground(th.Warning).Bold(true),
		errText:  lipgloss.NewStyle().Foreground(th.Error),
		sparkHi:  lipgloss.NewStyle().Foreground(th.Success),
		sparkMid: lipgloss.NewStyle().Foreground(th.Warning),
		sparkLo:  lipgloss.NewStyle().Foreground(th.Error),
	}
}

// OffsetBar draws an offset on a log scale, 1.0 at the centre.
func OffsetBar(v float64, width int) string {
	if width < 3 {
		return ""
	}
	pos := width / 2
	if v > 0 {
		// x0.25 .. x4 spans the bar
		l := math.Log(v) / math.Log(4)
		pos = int(float64(width/2) * (1 + l))
	} else {
		pos = 0
	}
	pos = min(max(pos, 0), width-1)
	return "[" + strings.Repeat("-", pos) + "|" + strings.Repeat("-", width-1-pos) + "]"
}

// SparklineChart renders a mini sparkline from values
func (p palette) SparklineChart(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}

	var result strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / rng
		idx := min(max(int(norm*float64(len(chars)-1)), 0), len(chars)-1)

		c := string(chars[idx])
		switch {
		case norm > 0.7:
			result.WriteString(p.sparkHi.Render(c))
		case norm > 0.3:
			result.WriteString(p.sparkMid.Render(c))
		default:
			result.WriteString(p.sparkLo.Render(c))
		}
	}
	return result.String()
}
