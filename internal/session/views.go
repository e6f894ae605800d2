package session

import (
	"github.com/abhisek/wallstreet101/internal/catalog"
	"github.com/abhisek/wallstreet101/internal/mastery"
	"github.com/abhisek/wallstreet101/internal/progress"
	"github.com/abhisek/wallstreet101/internal/quiz"
)

// Overview is the dashboard view of a session.
type Overview struct {
	SessionID     string                 `json:"session_id"`
	CurrentModule catalog.ModuleID       `json:"current_module"`
	Modules       []mastery.ModuleStatus `json:"modules"`
	Overall       mastery.Overall        `json:"overall"`
	Earned        []catalog.Badge        `json:"earned"`
	Locked        []catalog.Badge        `json:"locked"`
	Counters      progress.Counters      `json:"counters"`
	FundsVisited  bool                   `json:"funds_visited"`
	WhatIf        progress.WhatIfInputs  `json:"what_if"`

	AnalyzerSymbol string `json:"analyzer_symbol"`
}

// AllBadgesEarned reports whether nothing is left to unlock.
func (o Overview) AllBadgesEarned() bool {
	return len(o.Locked) == 0
}

// Overview computes the dashboard view from current progress.
func (s *Session) Overview() Overview {
	o := Overview{
		SessionID:      s.id,
		CurrentModule:  s.p.CurrentModule,
		Modules:        mastery.Summarize(s.p, s.cat),
		Overall:        mastery.OverallProgress(s.p, s.cat),
		Counters:       s.p.Counters,
		FundsVisited:   s.p.FundsVisited,
		WhatIf:         s.p.WhatIf,
		AnalyzerSymbol: s.p.AnalyzerSymbol,
	}
	for _, b := range s.cat.Badges() {
		if s.p.HasBadge(b.ID) {
			o.Earned = append(o.Earned, b)
		} else {
			o.Locked = append(o.Locked, b)
		}
	}
	return o
}

// CurrentModule returns the module on the learning screen.
func (s *Session) CurrentModule() catalog.Module {
	m, _ := s.cat.Module(s.p.CurrentModule)
	return m
}

// CardView is the flashcard currently displayed.
type CardView struct {
	Module catalog.Module `json:"-"`
	Index  int            `json:"index"`
	Total  int            `json:"total"`
	Card   catalog.Card   `json:"card"`

	// Mastered is set once the card's tier 1 has been passed.
	Mastered bool `json:"mastered"`

	CanNext bool `json:"can_next"`
	CanPrev bool `json:"can_prev"`
}

// QuizLabel is the call to action for the card's quiz.
func (v CardView) QuizLabel() string {
	if v.Mastered {
		return "Review Quiz"
	}
	return "Test My Understanding"
}

// CurrentCard returns the displayed card of the current module.
func (s *Session) CurrentCard() CardView {
	m := s.CurrentModule()
	idx := s.p.CardIndex[m.ID]
	card, _ := m.Card(idx)
	return CardView{
		Module:   m,
		Index:    idx,
		Total:    len(m.Cards),
		Card:     card,
		Mastered: s.CardMastered(),
		CanNext:  s.CanNext(),
		CanPrev:  s.CanPrev(),
	}
}

// CanNext reports whether the next card is reachable.
func (s *Session) CanNext() bool { return quiz.CanNext(s.p, s.cat) }

// CanPrev reports whether there is a previous card.
func (s *Session) CanPrev() bool { return quiz.CanPrev(s.p) }

// CardMastered reports whether the displayed card is behind the unlock cursor.
func (s *Session) CardMastered() bool {
	m := s.p.CurrentModule
	return s.p.CardIndex[m] < s.p.ModuleProgress[m]
}

// QuizView is the active quiz as shown to the learner.
type QuizView struct {
	Module   catalog.ModuleID    `json:"module"`
	Card     int                 `json:"card"`
	Term     string              `json:"term"`
	Tier     int                 `json:"tier"`
	Tiers    int                 `json:"tiers"`
	Question catalog.Question    `json:"question"`
	Status   progress.QuizStatus `json:"status"`

	// Selected is the chosen option, or progress.NoSelection.
	Selected int `json:"selected"`

	// Feedback is the reasoning of the chosen option once graded.
	Feedback string `json:"feedback,omitempty"`

	// Explanation is the reasoning of the correct option, shown on a pass.
	Explanation string `json:"explanation,omitempty"`

	HasNextTier bool `json:"has_next_tier"`

	// HasNextCard is set when a passed quiz can continue to another card.
	HasNextCard bool `json:"has_next_card"`

	// ModuleComplete is set when the last card of the module has been passed.
	ModuleComplete bool `json:"module_complete"`
}

// ActiveQuiz returns the quiz in progress, if any.
func (s *Session) ActiveQuiz() (QuizView, bool) {
	a := s.p.Active
	if a == nil {
		return QuizView{}, false
	}
	card, err := s.cat.Card(a.Module, a.Card)
	if err != nil {
		return QuizView{}, false
	}
	q, err := card.Question(a.Tier)
	if err != nil {
		return QuizView{}, false
	}
	m, _ := s.cat.Module(a.Module)

	v := QuizView{
		Module:   a.Module,
		Card:     a.Card,
		Term:     card.Term,
		Tier:     a.Tier,
		Tiers:    card.Tiers(),
		Question: q,
		Status:   a.Status,
		Selected: a.LastSelected,
	}
	if a.Status != progress.StatusPending && q.ValidOption(a.LastSelected) {
		v.Feedback = q.Options[a.LastSelected].Reasoning
	}
	if a.Status == progress.StatusPassed {
		v.Explanation = q.Explanation()
		v.HasNextTier = a.Tier < card.Tiers()
		v.HasNextCard = a.Card < len(m.Cards)-1
		v.ModuleComplete = !v.HasNextCard
	}
	return v, true
}

// LastOutcome returns the grade of the most recent answer on the active
// quiz, or nil once the quiz moves on.
func (s *Session) LastOutcome() *quiz.Outcome {
	return s.lastOutcome
}
