package server

import (
	"time"

	"github.com/abhisek/wallstreet101/internal/badges"
	"github.com/abhisek/wallstreet101/internal/catalog"
	"github.com/abhisek/wallstreet101/internal/progress"
	"github.com/abhisek/wallstreet101/internal/quiz"
	"github.com/abhisek/wallstreet101/internal/session"
	"github.com/abhisek/wallstreet101/internal/store"
)

// Request bodies.

type selectModuleRequest struct {
	Module string `json:"module" validate:"required"`
}

type answerRequest struct {
	Option *int `json:"option" validate:"required"`
}

type analyzerRequest struct {
	Symbol string `json:"symbol" validate:"required,max=16"`
}

type whatIfRequest struct {
	Symbol string `json:"symbol" validate:"required,max=16"`
	Start  string `json:"start" validate:"required,datetime=2006-01-02"`
	Amount int    `json:"amount" validate:"required,min=1"`
}

// Responses.

type moduleSummary struct {
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	Cards     int    `json:"cards"`
	Questions int    `json:"questions"`
}

func summarizeModule(m catalog.Module) moduleSummary {
	return moduleSummary{Slug: m.Slug, Name: m.Name, Icon: m.Icon, Cards: len(m.Cards), Questions: m.TotalQuestions()}
}

type moduleDetail struct {
	moduleSummary
	Terms []string `json:"terms"`
}

type cardResponse struct {
	Module      string               `json:"module"`
	Index       int                  `json:"index"`
	Total       int                  `json:"total"`
	Term        string               `json:"term"`
	Definition  string               `json:"definition"`
	Example     string               `json:"example"`
	Chart       *catalog.Chart       `json:"chart,omitempty"`
	Tiers       int                  `json:"tiers"`
	Mastered    bool                 `json:"mastered"`
	QuizLabel   string               `json:"quiz_label"`
	QuickReview *catalog.QuickReview `json:"quick_review,omitempty"`
	CanNext     bool                 `json:"can_next"`
	CanPrev     bool                 `json:"can_prev"`
}

func newCardResponse(v session.CardView) cardResponse {
	r := cardResponse{
		Module:     v.Module.Slug,
		Index:      v.Index,
		Total:      v.Total,
		Term:       v.Card.Term,
		Definition: v.Card.Definition,
		Example:    v.Card.Example,
		Chart:      v.Card.Chart,
		Tiers:      v.Card.Tiers(),
		Mastered:   v.Mastered,
		QuizLabel:  v.QuizLabel(),
		CanNext:    v.CanNext,
		CanPrev:    v.CanPrev,
	}
	if v.Mastered {
		qr := v.Card.QuickReview()
		r.QuickReview = &qr
	}
	return r
}

// quizResponse hides the answer key until the tier is graded.
type quizResponse struct {
	Card           int                 `json:"card"`
	Term           string              `json:"term"`
	Tier           int                 `json:"tier"`
	Tiers          int                 `json:"tiers"`
	Question       string              `json:"question"`
	Options        []string            `json:"options"`
	Status         progress.QuizStatus `json:"status"`
	Selected       *int                `json:"selected,omitempty"`
	Message        string              `json:"message,omitempty"`
	Feedback       string              `json:"feedback,omitempty"`
	Explanation    string              `json:"explanation,omitempty"`
	HasNextTier    bool                `json:"has_next_tier"`
	HasNextCard    bool                `json:"has_next_card"`
	ModuleComplete bool                `json:"module_complete"`
}

func newQuizResponse(v session.QuizView) *quizResponse {
	r := &quizResponse{
		Card:           v.Card,
		Term:           v.Term,
		Tier:           v.Tier,
		Tiers:          v.Tiers,
		Question:       v.Question.Prompt,
		Status:         v.Status,
		Feedback:       v.Feedback,
		Explanation:    v.Explanation,
		HasNextTier:    v.HasNextTier,
		HasNextCard:    v.HasNextCard,
		ModuleComplete: v.ModuleComplete,
	}
	for _, o := range v.Question.Options {
		r.Options = append(r.Options, o.Text)
	}
	if v.Selected != progress.NoSelection {
		sel := v.Selected
		r.Selected = &sel
	}
	switch v.Status {
	case progress.StatusPassed:
		r.Message = "Correct! 🎉"
	case progress.StatusFailed:
		r.Message = "Not quite..."
	}
	return r
}

type outcomeResponse struct {
	Correct     bool   `json:"correct"`
	Option      int    `json:"option"`
	Reasoning   string `json:"reasoning"`
	Explanation string `json:"explanation,omitempty"`
	Unlocked    bool   `json:"unlocked"`
}

func newOutcomeResponse(o quiz.Outcome) outcomeResponse {
	r := outcomeResponse{Correct: o.Correct, Option: o.Option, Reasoning: o.Reasoning, Unlocked: o.Unlocked}
	if o.Correct {
		r.Explanation = o.Explanation
	}
	return r
}

// stateResponse is returned by every learning interaction.
type stateResponse struct {
	Card      cardResponse     `json:"card"`
	Quiz      *quizResponse    `json:"quiz,omitempty"`
	Outcome   *outcomeResponse `json:"outcome,omitempty"`
	NewBadges []catalog.Badge  `json:"new_badges,omitempty"`
}

func newState(s *session.Session, awards []badges.Award) stateResponse {
	r := stateResponse{Card: newCardResponse(s.CurrentCard()), NewBadges: badgeList(awards)}
	if v, ok := s.ActiveQuiz(); ok {
		r.Quiz = newQuizResponse(v)
	}
	return r
}

func badgeList(awards []badges.Award) []catalog.Badge {
	if len(awards) == 0 {
		return nil
	}
	out := make([]catalog.Badge, len(awards))
	for i, a := range awards {
		out[i] = a.Badge
	}
	return out
}

type sessionResponse struct {
	ID        string           `json:"id"`
	StartedAt time.Time        `json:"started_at"`
	Overview  session.Overview `json:"overview"`
	Card      cardResponse     `json:"card"`
	Message   string           `json:"message,omitempty"`
}

func newSessionResponse(s *session.Session) sessionResponse {
	ov := s.Overview()
	r := sessionResponse{
		ID:        s.ID(),
		StartedAt: s.StartedAt(),
		Overview:  ov,
		Card:      newCardResponse(s.CurrentCard()),
	}
	switch {
	case ov.AllBadgesEarned():
		r.Message = "👑 You are a Trading Legend! You've collected all the badges!"
	case len(ov.Earned) == 0:
		r.Message = "No badges yet. Complete learning modules and use the app's tools to start earning them!"
	}
	return r
}

type answerEvent struct {
	Sequence  int64     `json:"sequence"`
	Timestamp time.Time `json:"timestamp"`
	Module    string    `json:"module"`
	Card      int       `json:"card"`
	Tier      int       `json:"tier"`
	Option    int       `json:"option"`
	Correct   bool      `json:"correct"`
	Term      string    `json:"term"`
	Question  string    `json:"question"`
}

type badgeEvent struct {
	Sequence  int64         `json:"sequence"`
	Timestamp time.Time     `json:"timestamp"`
	Badge     catalog.Badge `json:"badge"`
}

type sessionEvent struct {
	Sequence  int64     `json:"sequence"`
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
}

type moduleStats struct {
	Module   string  `json:"module"`
	Attempts int     `json:"attempts"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

type historyResponse struct {
	Answers []answerEvent  `json:"answers"`
	Badges  []badgeEvent   `json:"badges"`
	Events  []sessionEvent `json:"events"`
	Stats   []moduleStats  `json:"stats"`
}

func newHistory(answers []store.AnswerEventRecord, awards []store.BadgeEventRecord,
	events []store.SessionEventRecord, stats []store.ModuleAnswerStats) historyResponse {
	h := historyResponse{
		Answers: make([]answerEvent, 0, len(answers)),
		Badges:  make([]badgeEvent, 0, len(awards)),
		Events:  make([]sessionEvent, 0, len(events)),
		Stats:   make([]moduleStats, 0, len(stats)),
	}
	for _, a := range answers {
		h.Answers = append(h.Answers, answerEvent{
			Sequence: a.Sequence, Timestamp: a.Timestamp, Module: a.ModuleSlug, Card: a.CardIndex,
			Tier: a.Tier, Option: a.Option, Correct: a.Correct, Term: a.Term, Question: a.Question,
		})
	}
	for _, b := range awards {
		h.Badges = append(h.Badges, badgeEvent{
			Sequence: b.Sequence, Timestamp: b.Timestamp, Badge: catalog.BadgeFor(catalog.BadgeID(b.BadgeID)),
		})
	}
	for _, e := range events {
		h.Events = append(h.Events, sessionEvent{
			Sequence: e.Sequence, Timestamp: e.Timestamp, Action: e.Action, Detail: e.Detail,
		})
	}
	for _, st := range stats {
		h.Stats = append(h.Stats, moduleStats{
			Module: st.ModuleSlug, Attempts: st.Attempts, Correct: st.Correct, Accuracy: st.Accuracy(),
		})
	}
	return h
}

