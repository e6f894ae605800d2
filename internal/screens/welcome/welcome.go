// Package welcome is the splash screen shown at launch.
package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/wallstreet101/internal/router"
	"github.com/abhisek/wallstreet101/internal/screen"
	"github.com/abhisek/wallstreet101/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	tickerEnd    = 1500 * time.Millisecond
	totalDur     = 2500 * time.Millisecond
)

const bannerArt = `██╗    ██╗ █████╗ ██╗     ██╗         ███████╗████████╗
██║    ██║██╔══██╗██║     ██║         ██╔════╝╚══██╔══╝
██║ █╗ ██║███████║██║     ██║         ███████╗   ██║
██║███╗██║██╔══██║██║     ██║         ╚════██║   ██║
╚███╔███╔╝██║  ██║███████╗███████╗    ███████║   ██║
 ╚══╝╚══╝ ╚═╝  ╚═╝╚══════╝╚══════╝    ╚══════╝   ╚═╝   1 0 1`

const bannerCompact = "W A L L   S T R E E T   1 0 1"

const tagline = "Learn the language of the markets."

// tape is the rising price the intro draws, one bar per tick.
var tape = []rune("▁▁▂▁▂▃▂▃▄▃▄▅▄▅▆▅▆▇▆▇█")

type tickMsg time.Time

// WelcomeScreen shows a splash animation before transitioning to the home screen.
type WelcomeScreen struct {
	homeFactory  func() screen.Screen
	elapsed      time.Duration
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced by homeFactory.
func New(homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{homeFactory: homeFactory}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.elapsed >= totalDur {
			return w, nil
		}
		w.elapsed += tickInterval
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	homeScreen := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: homeScreen}
	}
}

// tapeView returns the part of the ticker drawn so far.
func (w *WelcomeScreen) tapeView() string {
	n := int(w.elapsed * time.Duration(len(tape)) / tickerEnd)
	n = min(n, len(tape))
	return string(tape[:n]) + strings.Repeat(" ", len(tape)-n)
}

func (w *WelcomeScreen) View(width, height int) string {
	sections := []string{
		lipgloss.NewStyle().Foreground(theme.Success).Render(w.tapeView()),
	}

	if w.elapsed >= tickerEnd {
		banner := bannerArt
		if width < 64 {
			banner = bannerCompact
		}
		sections = append(sections,
			"",
			lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(banner),
			"",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(tagline),
			"",
			theme.Hint.Render("press any key to continue"),
		)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, sections...))
}
