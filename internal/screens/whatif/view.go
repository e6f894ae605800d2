package whatif

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/wallstreet101/internal/ui/components"
	"github.com/abhisek/wallstreet101/internal/ui/theme"
)

const growthHeight = 10

func (s *WhatIfScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var form []string
	for i := range s.fields {
		form = append(form, s.fields[i].View())
	}
	form = append(form, "", components.ButtonRow(
		components.NewButton("Enter", "Calculate", !s.running),
		components.NewButton("Ctrl+R", "Fun fact", len(s.env.Session.Catalog().Facts()) > 0),
	))

	sections := []string{components.Panel("If I had invested...", strings.Join(form, "\n"), cw)}
	if s.fact != nil {
		sections = append(sections, components.Panel("💡 Did you know?",
			theme.Body.Width(cw-6).Render(s.fact.Text), cw))
	}

	switch {
	case s.running:
		sections = append(sections, components.Message("Crunching the numbers...", cw))
	case s.errMsg != "":
		sections = append(sections, components.Panel("", components.ErrorLine(s.errMsg), cw))
	case s.result != nil:
		sections = append(sections, s.renderResult(cw))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (s *WhatIfScreen) renderResult(cw int) string {
	r := s.result
	roi := r.ROI.InexactFloat64()
	lines := []string{
		theme.Body.Width(cw - 6).Render(r.Summary()),
		"",
		fmt.Sprintf("%s %s   %s %s",
			theme.Hint.Render("Final value:"),
			theme.Heading.Render(r.FinalDisplay()),
			theme.Hint.Render("Return:"),
			lipgloss.NewStyle().Foreground(theme.Change(roi)).Bold(true).Render(r.ROIDisplay()),
		),
		"",
		components.RenderChart([]components.ChartSeries{{
			Label:  "Portfolio value",
			Values: r.GrowthValues(),
			Color:  theme.Primary,
		}}, nil, cw-6, growthHeight),
	}
	return components.Panel("Result", strings.Join(lines, "\n"), cw)
}
