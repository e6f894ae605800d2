package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/wallstreet101/internal/catalog"
	"github.com/abhisek/wallstreet101/internal/screen"
	"github.com/abhisek/wallstreet101/internal/store"
	"github.com/abhisek/wallstreet101/internal/ui/layout"
	"github.com/abhisek/wallstreet101/internal/ui/theme"
)

// SessionLimit caps how many sessions are listed.
const SessionLimit = 50

// Summary is one journaled session.
type Summary struct {
	SessionID string
	Started   time.Time
	LastSeen  time.Time
	Ended     bool
	Resets    int
	Answers   int
	Correct   int
	Badges    []catalog.Badge
}

// Duration returns the time between the first and last event.
func (s Summary) Duration() time.Duration {
	return s.LastSeen.Sub(s.Started)
}

// Accuracy returns the correct share of answers as a percentage.
func (s Summary) Accuracy() float64 {
	if s.Answers == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Answers) * 100
}

type historyLoadedMsg struct {
	Sessions []Summary
	Err      error
}

// Load reads the journal and groups it by session, newest first.
func Load(ctx context.Context, repo store.EventRepo) ([]Summary, error) {
	events, err := repo.QuerySessionEvents(ctx, "", store.QueryOpts{})
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	answers, err := repo.QueryAnswerEvents(ctx, "", store.QueryOpts{})
	if err != nil {
		return nil, fmt.Errorf("query answer events: %w", err)
	}
	awards, err := repo.QueryBadgeEvents(ctx, "", store.QueryOpts{})
	if err != nil {
		return nil, fmt.Errorf("query badge events: %w", err)
	}

	var order []string
	byID := map[string]*Summary{}
	get := func(id string, ts time.Time) *Summary {
		s, ok := byID[id]
		if !ok {
			s = &Summary{SessionID: id, Started: ts, LastSeen: ts}
			byID[id] = s
			order = append(order, id)
		}
		if ts.Before(s.Started) {
			s.Started = ts
		}
		if ts.After(s.LastSeen) {
			s.LastSeen = ts
		}
		return s
	}

	// Queries come back newest first, so sessions are ordered by their
	// latest lifecycle event.
	for _, e := range events {
		s := get(e.SessionID, e.Timestamp)
		switch e.Action {
		case store.ActionEnd:
			s.Ended = true
		case store.ActionReset:
			s.Resets++
		}
	}
	for _, a := range answers {
		s := get(a.SessionID, a.Timestamp)
		s.Answers++
		if a.Correct {
			s.Correct++
		}
	}
	for i := len(awards) - 1; i >= 0; i-- {
		b := awards[i]
		s := get(b.SessionID, b.Timestamp)
		s.Badges = append(s.Badges, catalog.BadgeFor(catalog.BadgeID(b.BadgeID)))
	}

	out := make([]Summary, 0, min(len(order), SessionLimit))
	for _, id := range order {
		if len(out) == SessionLimit {
			break
		}
		out = append(out, *byID[id])
	}
	return out, nil
}

// HistoryScreen displays past sessions and their badge awards.
type HistoryScreen struct {
	eventRepo store.EventRepo
	sessions  []Summary
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		sessions, err := Load(context.Background(), repo)
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No sessions yet. Start learning!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, sess := range s.sessions {
		dur := sess.Duration().Round(time.Second)
		durationStr := fmt.Sprintf("%d:%02d", int(dur.Minutes()), int(dur.Seconds())%60)

		badgeStr := ""
		if n := len(sess.Badges); n > 0 {
			badgeStr = fmt.Sprintf("  🏆 %d", n)
		}
		status := ""
		if !sess.Ended {
			status = "  (open)"
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %s  %d answers  %.0f%% correct%s%s",
			prefix, sess.Started.Local().Format("Jan 02, 2006 15:04"), durationStr,
			sess.Answers, sess.Accuracy(), badgeStr, status)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(s.renderDetail(sess, width))
		}
	}

	return b.String()
}

func (s *HistoryScreen) renderDetail(sess Summary, width int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true)
	var b strings.Builder
	if sess.Resets > 0 {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			dim.Render(fmt.Sprintf("    Progress reset %d time(s)", sess.Resets))))
		b.WriteString("\n")
	}
	if len(sess.Badges) == 0 {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render("    No badges this session")))
		b.WriteString("\n")
		return b.String()
	}
	for _, badge := range sess.Badges {
		line := fmt.Sprintf("    %s %s: %s", badge.Icon, badge.Name, badge.Description)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Accent).Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}
