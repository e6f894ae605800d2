// Package home is the dashboard: overall progress, shields and the menu.
package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/wallstreet101/internal/router"
	"github.com/abhisek/wallstreet101/internal/screen"
	"github.com/abhisek/wallstreet101/internal/screens/achievements"
	"github.com/abhisek/wallstreet101/internal/screens/analyzer"
	"github.com/abhisek/wallstreet101/internal/screens/funds"
	"github.com/abhisek/wallstreet101/internal/screens/history"
	"github.com/abhisek/wallstreet101/internal/screens/learn"
	"github.com/abhisek/wallstreet101/internal/screens/whatif"
	"github.com/abhisek/wallstreet101/internal/ui/components"
	"github.com/abhisek/wallstreet101/internal/ui/layout"
	"github.com/abhisek/wallstreet101/internal/ui/theme"
)

// ShieldsPerRow is how many module shields share a row.
const ShieldsPerRow = 3

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	env        *screen.Env
	menu       components.Menu
	confirming bool
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

// New creates a new HomeScreen.
func New(env *screen.Env) *HomeScreen {
	h := &HomeScreen{env: env}
	h.menu = components.NewMenu([]components.MenuItem{
		{Label: "Learn", Hotkey: "l", Action: func() tea.Cmd { return push(learn.New(env)) }},
		{Label: "Fund Explorer", Hotkey: "f", Action: func() tea.Cmd { return push(funds.New(env)) }},
		{Label: "What If Calculator", Hotkey: "w", Action: func() tea.Cmd { return push(whatif.New(env)) }},
		{Label: "Stock Analyzer", Hotkey: "a", Action: func() tea.Cmd { return push(analyzer.New(env)) }},
		{Label: "Achievements", Hotkey: "b", Action: func() tea.Cmd { return push(achievements.New(env)) }},
		{Label: "History", Hotkey: "h", Disabled: env.EventRepo == nil, Action: func() tea.Cmd {
			return push(history.New(env.EventRepo))
		}},
		{Label: "Reset Progress", Hotkey: "r", Action: func() tea.Cmd {
			h.confirming = true
			return nil
		}},
		{Label: "Exit", Hotkey: "x", Action: func() tea.Cmd { return tea.Quit }},
	})
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if h.confirming {
		return []layout.KeyHint{
			{Key: "Y", Description: "Reset everything"},
			{Key: "N", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if h.confirming {
		if k, ok := msg.(tea.KeyPressMsg); ok {
			switch k.String() {
			case "y", "Y":
				h.confirming = false
				h.env.Session.Reset(context.Background())
			case "n", "N", "esc":
				h.confirming = false
			}
		}
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	ov := h.env.Session.Overview()
	cw := components.ContentWidth(width)

	title := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
		Render(theme.Title.Render("📈 Wall Street 101"))

	stats := fmt.Sprintf("%s   %s",
		theme.Heading.Render(fmt.Sprintf("%d/%d Concepts (%d%%)", ov.Overall.Completed, ov.Overall.Total, ov.Overall.Pct())),
		lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("🏆 %d/%d Badges", len(ov.Earned), len(ov.Earned)+len(ov.Locked))),
	)
	bar := components.NewProgressBar("Learning Progress", ov.Overall.Fraction, true, cw-4).View()

	var shields []string
	for _, m := range ov.Modules {
		shields = append(shields, components.ShieldCard(m.Title, m.Shield))
	}
	perRow := ShieldsPerRow
	if layout.IsCompactWidth(width) {
		perRow = max((width-4)/components.ShieldWidth, 1)
	}

	sections := []string{
		title,
		components.Panel("", stats+"\n\n"+bar, cw),
		components.ShieldGrid(shields, perRow),
	}
	if h.confirming {
		sections = append(sections, components.Panel("Reset Progress",
			components.ErrorLine("This wipes all progress and badges. Continue? (y/n)"), cw))
	} else {
		sections = append(sections, components.Panel("", strings.TrimRight(h.menu.View(), "\n"), cw))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Center, sections...))
}
