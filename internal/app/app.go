package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/wallstreet101/internal/router"
	"github.com/abhisek/wallstreet101/internal/screen"
	"github.com/abhisek/wallstreet101/internal/screens/home"
	"github.com/abhisek/wallstreet101/internal/screens/welcome"
	"github.com/abhisek/wallstreet101/internal/ui/layout"
)

// ToastDuration is how long a badge announcement stays in the footer.
const ToastDuration = 5 * time.Second

type toastExpiredMsg struct {
	seq int
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	env    *screen.Env
	router *router.Router
	width  int
	height int

	toast    string
	toastSeq int
}

// newAppModel creates a new AppModel starting on the welcome splash.
func newAppModel(env *screen.Env) AppModel {
	splash := welcome.New(func() screen.Screen { return home.New(env) })
	return AppModel{
		env:    env,
		router: router.New(splash),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

// toastText renders the announcement for a batch of awards.
func toastText(msg screen.BadgesAwardedMsg) string {
	names := make([]string, len(msg.Awards))
	for i, a := range msg.Awards {
		names[i] = a.Badge.Icon + " " + a.Badge.Name
	}
	label := "Badge unlocked: "
	if len(names) > 1 {
		label = "Badges unlocked: "
	}
	return "🏆 " + label + strings.Join(names, ", ")
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.BadgesAwardedMsg:
		for _, a := range msg.Awards {
			m.env.Logger.Info("badge awarded", zap.String("badge", string(a.Badge.ID)))
		}
		m.toast = toastText(msg)
		m.toastSeq++
		seq := m.toastSeq
		return m, tea.Tick(ToastDuration, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} })

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil

	case tea.KeyPressMsg:
		m.toast = ""
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) headerStats() layout.HeaderStats {
	ov := m.env.Session.Overview()
	return layout.HeaderStats{
		Badges:      len(ov.Earned),
		TotalBadges: len(ov.Earned) + len(ov.Locked),
		Mastered:    ov.Overall.Completed,
		TotalCards:  ov.Overall.Total,
	}
}

func (m AppModel) footerHints() []layout.KeyHint {
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		return append(p.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Any key", Description: "Continue"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.headerStats(), m.width)
	footer := layout.RenderFooter(m.footerHints(), m.toast, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program and journals the end of the session once
// it exits.
func Run(env *screen.Env) error {
	if env.Logger == nil {
		env.Logger = zap.NewNop()
	}
	p := tea.NewProgram(newAppModel(env))
	_, err := p.Run()
	env.Session.End(context.Background())
	if err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
