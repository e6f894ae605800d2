package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/wallstreet101/internal/mastery"
	"github.com/abhisek/wallstreet101/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	percentWidth := 0
	if p.ShowPercent {
		percentWidth = 6 // "  100%"
	}

	barWidth := max(p.Width-labelWidth-percentWidth, 4)
	filled := min(max(int(float64(barWidth)*p.Percent), 0), barWidth)

	result += theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled))

	if p.ShowPercent {
		result += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %d%%", int(p.Percent*100)))
	}

	return result
}

// ShieldWidth is the outer width of a shield card.
const ShieldWidth = 26

// ShieldCard renders a module's mastery shield: percentage, level and what
// the next level needs, bordered in the level colour.
func ShieldCard(title string, s mastery.Shield) string {
	c := theme.Hex(s.Color())
	pct := lipgloss.NewStyle().Foreground(c).Bold(true).Render(fmt.Sprintf("🛡  %d%%", s.AnsweredPct))
	level := lipgloss.NewStyle().Foreground(c).Render(s.Label())

	next := "Max level reached!"
	if s.Level < mastery.MaxLevel {
		next = fmt.Sprintf("%d more for Level %d", s.Needed, s.Level+1)
	}
	body := strings.Join([]string{
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(title),
		pct,
		level,
		theme.Hint.Render(next),
	}, "\n")

	return lipgloss.NewStyle().
		Width(ShieldWidth).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(c).
		Render(body)
}

// ShieldGrid lays shield cards out in rows of perRow.
func ShieldGrid(cards []string, perRow int) string {
	if perRow < 1 {
		perRow = 1
	}
	var rows []string
	for i := 0; i < len(cards); i += perRow {
		end := min(i+perRow, len(cards))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
