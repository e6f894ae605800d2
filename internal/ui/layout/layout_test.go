package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
)

func TestHeaderShowsStats(t *testing.T) {
	h := RenderHeader("Learn", HeaderStats{Badges: 2, TotalBadges: 8, Mastered: 6, TotalCards: 23}, 120)

	assert.Contains(t, h, "Wall Street 101")
	assert.Contains(t, h, "Learn")
	assert.Contains(t, h, "🏆 2/8")
	assert.Contains(t, h, "📚 6/23 (26%)")
}

func TestMasteredPctWithoutCards(t *testing.T) {
	assert.Equal(t, 0, HeaderStats{}.masteredPct())
}

func TestFooterToastReplacesHints(t *testing.T) {
	hints := []KeyHint{{Key: "Enter", Description: "Select"}}

	assert.Contains(t, RenderFooter(hints, "", 100), "Select")

	f := RenderFooter(hints, "🏆 Badge unlocked", 100)
	assert.Contains(t, f, "Badge unlocked")
	assert.NotContains(t, f, "Select")
}

func TestFitHintsKeepsLast(t *testing.T) {
	hints := []KeyHint{
		{Key: "Enter", Description: "Select"},
		{Key: "Tab", Description: "Next module"},
		{Key: "←→", Description: "Cards"},
		{Key: "Ctrl+C", Description: "Quit"},
	}

	all := fitHints(hints, 200)
	assert.Len(t, all, 4)

	narrow := fitHints(hints, 30)
	assert.Less(t, len(narrow), 4)
	assert.Contains(t, narrow[len(narrow)-1], "Quit")
	assert.LessOrEqual(t, lipgloss.Width(strings.Join(narrow, hintSep)), 30)
}

func TestFrameClipsContent(t *testing.T) {
	header := RenderHeader("Home", HeaderStats{}, 80)
	footer := RenderFooter([]KeyHint{{Key: "Ctrl+C", Description: "Quit"}}, "", 80)
	content := strings.Repeat("line\n", 100)

	frame := RenderFrame(header, content, footer, 80, 30)

	assert.Equal(t, 30, lipgloss.Height(frame))
	lines := strings.Split(frame, "\n")
	footerLines := strings.Split(footer, "\n")
	assert.Equal(t, footerLines[len(footerLines)-1], lines[len(lines)-1])
}

func TestTooSmall(t *testing.T) {
	assert.True(t, IsTooSmall(79, 30))
	assert.True(t, IsTooSmall(100, 23))
	assert.False(t, IsTooSmall(MinWidth, MinHeight))
	assert.Contains(t, RenderMinSizeMessage(60, 20), "This one is 60×20.")
}
