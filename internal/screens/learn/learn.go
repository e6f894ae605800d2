// Package learn is the flashcard and quiz screen.
package learn

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/glamour"

	"github.com/abhisek/wallstreet101/internal/catalog"
	"github.com/abhisek/wallstreet101/internal/charts"
	"github.com/abhisek/wallstreet101/internal/market"
	"github.com/abhisek/wallstreet101/internal/progress"
	"github.com/abhisek/wallstreet101/internal/quiz"
	"github.com/abhisek/wallstreet101/internal/screen"
	"github.com/abhisek/wallstreet101/internal/session"
	"github.com/abhisek/wallstreet101/internal/ui/components"
	"github.com/abhisek/wallstreet101/internal/ui/layout"
)

// chartLoadedMsg carries a fetched concept study.
type chartLoadedMsg struct {
	key  string
	view charts.View
}

// quizKey identifies the question the selector was built for.
type quizKey struct {
	module catalog.ModuleID
	card   int
	tier   int
}

// LearnScreen shows the current module's flashcard and runs its quiz.
type LearnScreen struct {
	env *screen.Env

	mc     components.MultiChoice
	mcKey  quizKey
	hasMC  bool
	notice string

	chartKey string
	chart    charts.View
	loading  bool

	renderer      *glamour.TermRenderer
	rendererWidth int
}

var _ screen.Screen = (*LearnScreen)(nil)
var _ screen.KeyHintProvider = (*LearnScreen)(nil)
var _ screen.EscapeHandler = (*LearnScreen)(nil)

// New creates a new LearnScreen.
func New(env *screen.Env) *LearnScreen {
	return &LearnScreen{env: env}
}

func (s *LearnScreen) sess() *session.Session { return s.env.Session }

func (s *LearnScreen) Init() tea.Cmd {
	s.syncQuiz()
	return s.loadChart()
}

func (s *LearnScreen) Title() string {
	return "Learn: " + s.sess().CurrentModule().Title()
}

// HandlesEscape keeps Esc on the screen while a quiz is open.
func (s *LearnScreen) HandlesEscape() bool {
	_, ok := s.sess().ActiveQuiz()
	return ok
}

// Leave clears the active quiz when the screen is closed.
func (s *LearnScreen) Leave() {
	if _, ok := s.sess().ActiveQuiz(); ok {
		s.sess().LeaveQuiz(context.Background())
	}
}

func (s *LearnScreen) KeyHints() []layout.KeyHint {
	v, ok := s.sess().ActiveQuiz()
	if !ok {
		return []layout.KeyHint{
			{Key: "←→", Description: "Cards"},
			{Key: "Tab", Description: "Module"},
			{Key: "Enter", Description: s.sess().CurrentCard().QuizLabel()},
			{Key: "Esc", Description: "Back"},
		}
	}
	switch v.Status {
	case progress.StatusPassed:
		hints := []layout.KeyHint{}
		if v.HasNextTier {
			hints = append(hints, layout.KeyHint{Key: "T", Description: "Next question"})
		}
		return append(hints,
			layout.KeyHint{Key: "Enter", Description: "Continue"},
			layout.KeyHint{Key: "Esc", Description: "Close quiz"},
		)
	case progress.StatusFailed:
		return []layout.KeyHint{
			{Key: "R", Description: "Try again"},
			{Key: "Esc", Description: "Close quiz"},
		}
	default:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "1-8", Description: "Answer"},
			{Key: "Esc", Description: "Close quiz"},
		}
	}
}

func (s *LearnScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case chartLoadedMsg:
		return s, s.handleChart(msg)
	case components.ChoiceMsg:
		return s, s.answer(msg.Index)
	case tea.KeyPressMsg:
		s.notice = ""
		if _, ok := s.sess().ActiveQuiz(); ok {
			return s, s.handleQuizKey(msg)
		}
		return s, s.handleCardKey(msg)
	}
	return s, nil
}

// apply runs a mutation, resynchronizes the quiz widget and chart, and
// announces any badges.
func (s *LearnScreen) apply(op func(context.Context) error) tea.Cmd {
	if err := op(context.Background()); err != nil {
		s.notice = noticeFor(err)
		return nil
	}
	s.syncQuiz()
	return tea.Batch(screen.Announce(s.sess().NewBadges()), s.loadChart())
}

func noticeFor(err error) string {
	switch {
	case errors.Is(err, quiz.ErrCardLocked):
		return "🔒 Pass this card's quiz to unlock the next one."
	case errors.Is(err, quiz.ErrLastCard):
		return "This is the last card of the module."
	case errors.Is(err, quiz.ErrFirstCard):
		return "This is the first card of the module."
	default:
		return err.Error()
	}
}

func (s *LearnScreen) handleCardKey(k tea.KeyPressMsg) tea.Cmd {
	switch k.String() {
	case "right", "l", "n":
		return s.apply(s.sess().NextCard)
	case "left", "h", "p":
		return s.apply(s.sess().PrevCard)
	case "tab":
		return s.switchModule(1)
	case "shift+tab":
		return s.switchModule(-1)
	case "enter", "q":
		return s.apply(s.sess().StartQuiz)
	}
	return nil
}

func (s *LearnScreen) switchModule(delta int) tea.Cmd {
	mods := s.sess().Catalog().Modules()
	cur := s.sess().CurrentModule().ID
	for i, m := range mods {
		if m.ID == cur {
			next := mods[(i+delta+len(mods))%len(mods)].ID
			return s.apply(func(ctx context.Context) error { return s.sess().SelectModule(ctx, next) })
		}
	}
	return nil
}

func (s *LearnScreen) handleQuizKey(k tea.KeyPressMsg) tea.Cmd {
	v, _ := s.sess().ActiveQuiz()
	key := k.String()
	if key == "esc" {
		return s.apply(func(ctx context.Context) error {
			s.sess().LeaveQuiz(ctx)
			return nil
		})
	}

	switch v.Status {
	case progress.StatusPending:
		var cmd tea.Cmd
		s.mc, cmd = s.mc.Update(k)
		return cmd
	case progress.StatusPassed:
		switch key {
		case "t", "T":
			if v.HasNextTier {
				return s.apply(s.sess().AdvanceTier)
			}
		case "enter", "c":
			if v.HasNextCard {
				return s.apply(s.sess().NextCard)
			}
			return s.apply(func(ctx context.Context) error {
				s.sess().LeaveQuiz(ctx)
				return nil
			})
		}
	case progress.StatusFailed:
		if key == "r" || key == "R" || key == "enter" {
			return s.apply(s.sess().Retry)
		}
	}
	return nil
}

func (s *LearnScreen) answer(option int) tea.Cmd {
	return s.apply(func(ctx context.Context) error {
		_, err := s.sess().SelectOption(ctx, option)
		return err
	})
}

// syncQuiz rebuilds the selector when the active question changes and
// grades it once answered.
func (s *LearnScreen) syncQuiz() {
	v, ok := s.sess().ActiveQuiz()
	if !ok {
		s.hasMC = false
		return
	}
	key := quizKey{module: v.Module, card: v.Card, tier: v.Tier}
	if !s.hasMC || key != s.mcKey || (v.Status == progress.StatusPending && s.mc.Graded()) {
		options := make([]string, len(v.Question.Options))
		for i, o := range v.Question.Options {
			options[i] = o.Text
		}
		s.mc = components.NewMultiChoice(v.Question.Prompt, options)
		s.mcKey = key
		s.hasMC = true
	}
	if v.Status != progress.StatusPending && v.Selected != progress.NoSelection {
		s.mc = s.mc.Grade(v.Selected, v.Status == progress.StatusPassed)
	}
}

func chartKey(c *catalog.Chart) string {
	if c == nil {
		return ""
	}
	return c.Symbol + "|" + string(c.Concept)
}

// loadChart fetches the current card's study when it is not on screen yet.
func (s *LearnScreen) loadChart() tea.Cmd {
	c := s.sess().CurrentCard().Card.Chart
	key := chartKey(c)
	if key == s.chartKey {
		return nil
	}
	s.chartKey = key
	s.chart = charts.View{}
	if c == nil {
		s.loading = false
		return nil
	}
	s.loading = true
	provider := s.env.Market
	symbol, concept := c.Symbol, c.Concept
	return func() tea.Msg {
		series := provider.RecentHistory(context.Background(), symbol, market.DefaultPeriod)
		return chartLoadedMsg{key: key, view: charts.Study(series, concept)}
	}
}

func (s *LearnScreen) handleChart(msg chartLoadedMsg) tea.Cmd {
	if msg.key != s.chartKey {
		return nil
	}
	s.loading = false
	s.chart = msg.view
	if msg.view.Empty() {
		return nil
	}
	s.sess().RecordChartView(context.Background())
	return screen.Announce(s.sess().NewBadges())
}
