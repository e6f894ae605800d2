package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/wallstreet101/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used by stacked panels so
// they line up.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 96 {
		w = 96
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Panel wraps content in a rounded card of the given content width.
func Panel(title, content string, cw int) string {
	if title != "" {
		content = theme.Heading.Render(title) + "\n\n" + content
	}
	return theme.Card.
		Width(cw).
		Render(content)
}

// Center places s in the middle of the content area.
func Center(s string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, s)
}

// Message renders a dimmed, centered notice such as a loading line.
func Message(s string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n" + s)
}

// ErrorLine renders an inline error message.
func ErrorLine(s string) string {
	return lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render(s)
}
