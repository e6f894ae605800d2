package components

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/guptarohit/asciigraph"
)

// ChartSeries is one line of a terminal chart. NaN points are drawn as gaps.
type ChartSeries struct {
	Label  string
	Values []float64
	Color  color.Color
}

// ChartLevel is a horizontal reference line.
type ChartLevel struct {
	Label string
	Value float64
	Color color.Color
}

// axisWidth is the room left of the plot for price labels.
const axisWidth = 12

// ansi maps a colour to the nearest xterm-256 colour cube entry.
func ansi(c color.Color) asciigraph.AnsiColor {
	if c == nil {
		return asciigraph.Default
	}
	r, g, b, _ := c.RGBA()
	step := func(v uint32) int { return int(math.Round(float64(v>>8) / 255 * 5)) }
	return asciigraph.AnsiColor(16 + 36*step(r) + 6*step(g) + step(b))
}

// finite counts the non-NaN points of values.
func finite(values []float64) int {
	n := 0
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			n++
		}
	}
	return n
}

// RenderChart plots series on a width × height area with a price axis and a
// legend. The first series is drawn last so it stays on top. Series with
// fewer than two points are left out.
func RenderChart(series []ChartSeries, level *ChartLevel, width, height int) string {
	plotW := width - axisWidth
	if plotW < 8 || height < 3 {
		return ""
	}

	var (
		data   [][]float64
		colors []asciigraph.AnsiColor
		shown  []ChartSeries
	)
	for i := len(series) - 1; i >= 0; i-- {
		s := series[i]
		if finite(s.Values) < 2 {
			continue
		}
		data = append(data, s.Values)
		colors = append(colors, ansi(s.Color))
	}
	for _, s := range series {
		if finite(s.Values) >= 2 {
			shown = append(shown, s)
		}
	}
	if len(data) == 0 {
		return ""
	}
	if level != nil {
		flat := make([]float64, plotW)
		for i := range flat {
			flat[i] = level.Value
		}
		data = append([][]float64{flat}, data...)
		colors = append([]asciigraph.AnsiColor{ansi(level.Color)}, colors...)
	}

	plot := asciigraph.PlotMany(data,
		asciigraph.Height(height-1),
		asciigraph.Width(plotW),
		asciigraph.Precision(2),
		asciigraph.SeriesColors(colors...),
	)
	clip := lipgloss.NewStyle().MaxWidth(width).MaxHeight(height)
	return clip.Render(plot) + "\n" + legend(shown, level)
}

func legend(series []ChartSeries, level *ChartLevel) string {
	var parts []string
	for _, s := range series {
		if s.Label == "" {
			continue
		}
		parts = append(parts, lipgloss.NewStyle().Foreground(s.Color).Render("━ "+s.Label))
	}
	if level != nil {
		parts = append(parts, lipgloss.NewStyle().Foreground(level.Color).
			Render(fmt.Sprintf("─ %s: $%.2f", level.Label, level.Value)))
	}
	return strings.Repeat(" ", axisWidth) + strings.Join(parts, "   ")
}
