// Package achievements lists earned and locked badges.
package achievements

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/wallstreet101/internal/catalog"
	"github.com/abhisek/wallstreet101/internal/screen"
	"github.com/abhisek/wallstreet101/internal/ui/components"
	"github.com/abhisek/wallstreet101/internal/ui/layout"
	"github.com/abhisek/wallstreet101/internal/ui/theme"
)

// LegendLine is shown once every badge is earned.
const LegendLine = "👑 You are a Trading Legend!"

// AchievementsScreen shows badge progress.
type AchievementsScreen struct {
	env *screen.Env
}

var _ screen.Screen = (*AchievementsScreen)(nil)
var _ screen.KeyHintProvider = (*AchievementsScreen)(nil)

// New creates a new AchievementsScreen.
func New(env *screen.Env) *AchievementsScreen {
	return &AchievementsScreen{env: env}
}

func (s *AchievementsScreen) Init() tea.Cmd                           { return nil }
func (s *AchievementsScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *AchievementsScreen) Title() string                           { return "Achievements" }

func (s *AchievementsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

func badgeLine(b catalog.Badge, earned bool) string {
	if !earned {
		return theme.Disabled.Render(fmt.Sprintf("🔒 %-20s %s", b.Name, b.Description))
	}
	return fmt.Sprintf("%s %s %s", b.Icon,
		lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Width(20).Render(b.Name),
		theme.Body.Render(b.Description))
}

func (s *AchievementsScreen) View(width, height int) string {
	ov := s.env.Session.Overview()
	cw := components.ContentWidth(width)
	total := len(ov.Earned) + len(ov.Locked)

	var sections []string
	if ov.AllBadgesEarned() {
		sections = append(sections, lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
			Render(theme.Toast.Render(LegendLine)))
	}

	earned := make([]string, 0, len(ov.Earned))
	for _, b := range ov.Earned {
		earned = append(earned, badgeLine(b, true))
	}
	if len(earned) == 0 {
		earned = append(earned, theme.Hint.Render("No badges yet. Pass your first quiz to earn one!"))
	}
	sections = append(sections, components.Panel(
		fmt.Sprintf("Earned %d/%d", len(ov.Earned), total), strings.Join(earned, "\n"), cw))

	if len(ov.Locked) > 0 {
		locked := make([]string, 0, len(ov.Locked))
		for _, b := range ov.Locked {
			locked = append(locked, badgeLine(b, false))
		}
		sections = append(sections, components.Panel("Locked", strings.Join(locked, "\n"), cw))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, sections...))
}
