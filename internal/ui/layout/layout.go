// Package layout draws the chrome around every screen: the header with the
// learner's standing, the key hint footer and the frame joining them.
package layout

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/wallstreet101/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	// CompactWidthThreshold is the width below which screens pack tighter.
	CompactWidthThreshold = 100
)

const (
	brand      = "📈 Wall Street 101"
	hintSep    = "  ·  "
	chromeSide = 2
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsCompactWidth reports whether screens should use their narrow layout.
func IsCompactWidth(width int) bool {
	return width < CompactWidthThreshold
}

// IsTooSmall reports whether the terminal cannot fit the frame.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks for a larger terminal.
func RenderMinSizeMessage(width, height int) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Warning).
		Padding(1, 2).
		Align(lipgloss.Center).
		Render(fmt.Sprintf("%s needs a %d×%d terminal.\n\n%s",
			theme.Heading.Render(brand), MinWidth, MinHeight,
			theme.Hint.Render(fmt.Sprintf("This one is %d×%d.", width, height))))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// HeaderStats are the counters shown on the right of the header.
type HeaderStats struct {
	Badges      int
	TotalBadges int
	Mastered    int
	TotalCards  int
}

func (s HeaderStats) masteredPct() int {
	if s.TotalCards == 0 {
		return 0
	}
	return s.Mastered * 100 / s.TotalCards
}

func (s HeaderStats) render() string {
	badges := lipgloss.NewStyle().Foreground(theme.Accent).
		Render(fmt.Sprintf("🏆 %d/%d", s.Badges, s.TotalBadges))
	cards := lipgloss.NewStyle().Foreground(theme.Primary).
		Render(fmt.Sprintf("📚 %d/%d (%d%%)", s.Mastered, s.TotalCards, s.masteredPct()))
	return badges + "   " + cards
}

// bar wraps a single line of chrome.
func bar(content string, width int, border color.Color) string {
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Render(content)
}

// RenderHeader shows the brand, the screen title centred, and the learner's
// badge and mastery counts.
func RenderHeader(title string, stats HeaderStats, width int) string {
	inner := max(width-chromeSide*2, 0)
	side := inner / 3

	left := lipgloss.PlaceHorizontal(side, lipgloss.Left,
		lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(brand))
	right := lipgloss.PlaceHorizontal(side, lipgloss.Right, stats.render())
	center := lipgloss.PlaceHorizontal(max(inner-2*side, 0), lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(title))

	return bar(lipgloss.JoinHorizontal(lipgloss.Top, left, center, right), width, theme.Border)
}

// fitHints keeps as many hints as fit in width. Ctrl+C is last in the list
// and is kept whenever anything is dropped.
func fitHints(hints []KeyHint, width int) []string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key) + " " +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description)
	}
	for len(parts) > 1 && lipgloss.Width(strings.Join(parts, hintSep)) > width {
		parts = append(parts[:len(parts)-2], parts[len(parts)-1])
	}
	return parts
}

// RenderFooter lists key hints. A non-empty toast replaces them.
func RenderFooter(hints []KeyHint, toast string, width int) string {
	if toast != "" {
		return bar(theme.Toast.Render(toast), width, theme.Accent)
	}
	inner := max(width-chromeSide*2, 0)
	return bar(strings.Join(fitHints(hints, inner), hintSep), width, theme.Border)
}

// RenderFrame stacks header, content and footer. Content is padded or clipped
// to the rows left between them so the footer stays on screen.
func RenderFrame(header, content, footer string, width, height int) string {
	rows := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().
		Width(width).
		Height(rows).
		MaxHeight(rows).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
