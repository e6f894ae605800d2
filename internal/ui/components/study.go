package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/wallstreet101/internal/catalog"
	"github.com/abhisek/wallstreet101/internal/charts"
	"github.com/abhisek/wallstreet101/internal/ui/theme"
)

// separateScale lists concepts whose overlay is drawn in its own panel.
func separateScale(c catalog.Concept) bool {
	return c == catalog.ConceptRSI || c == catalog.ConceptVolume
}

// StudyChart renders a concept study: price with overlays, a reference
// level, and RSI or volume in a lower panel.
func StudyChart(v charts.View, width, height int) string {
	if v.Empty() {
		return Message("No chart data available.", width)
	}

	price := ChartSeries{Label: "Price", Values: v.Closes, Color: theme.Hex(charts.ColorPrice)}
	main := []ChartSeries{price}
	var lower []ChartSeries
	for _, l := range v.Lines {
		s := ChartSeries{Label: l.Label, Values: l.Values, Color: theme.Hex(l.Color)}
		if separateScale(v.Concept) {
			lower = append(lower, s)
			continue
		}
		main = append(main, s)
	}

	var level *ChartLevel
	if v.Level != nil {
		level = &ChartLevel{Label: v.Level.Label, Value: v.Level.Value, Color: theme.Hex(v.Level.Color)}
	}

	mainH := height - 2
	if len(lower) > 0 {
		mainH = height * 2 / 3
	}
	parts := []string{
		theme.Heading.Render(v.Title()),
		RenderChart(main, level, width, max(mainH, 3)),
	}
	if len(lower) > 0 {
		parts = append(parts, RenderChart(lower, nil, width, max(height-mainH-3, 3)))
	}
	if v.Note != "" {
		parts = append(parts, theme.Hint.Width(width).Render(v.Note))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
