package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/lfreitas/redator/internal/ui/theme"
)

// Bar is one entry in a horizontal bar chart.
type Bar struct {
	Label string
	Value int
}

// BarChart renders a horizontal bar chart scaled against a fixed
// maximum, used for the top-5 essay scores on the 0-1000 scale.
type BarChart struct {
	Bars  []Bar
	Max   int
	Width int
}

// NewBarChart creates a bar chart. max is the full-scale value; bars
// above it are clamped.
func NewBarChart(bars []Bar, max, width int) BarChart {
	return BarChart{Bars: bars, Max: max, Width: width}
}

// View renders the chart, one row per bar.
func (c BarChart) View() string {
	if len(c.Bars) == 0 {
		return theme.Hint.Render("Nothing to show yet.")
	}

	labelWidth := 0
	for _, b := range c.Bars {
		if w := lipgloss.Width(b.Label); w > labelWidth {
			labelWidth = w
		}
	}

	valueWidth := len(fmt.Sprintf("%d", c.Max)) + 2
	barWidth := c.Width - labelWidth - valueWidth - 3
	if barWidth < 8 {
		barWidth = 8
	}

	var rows []string
	for _, b := range c.Bars {
		value := b.Value
		if value > c.Max {
			value = c.Max
		}
		if value < 0 {
			value = 0
		}

		filled := 0
		if c.Max > 0 {
			filled = value * barWidth / c.Max
		}

		label := lipgloss.NewStyle().
			Foreground(theme.Text).
			Width(labelWidth).
			Render(b.Label)
		bar := theme.BarFilled.Render(strings.Repeat("█", filled)) +
			lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", barWidth-filled))
		score := lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf(" %d", b.Value))

		rows = append(rows, label+"  "+bar+score)
	}

	return strings.Join(rows, "\n")
}
