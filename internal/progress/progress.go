package progress

import (
	"maps"
	"time"

	"github.com/abhisek/wallstreet101/internal/catalog"
)

// Defaults applied by Bootstrap.
const (
	DefaultWhatIfSymbol   = "NVDA"
	DefaultWhatIfAmount   = 1000
	DefaultAnalyzerSymbol = "AAPL"
)

// DefaultWhatIfStart is the default investment date of the what-if calculator.
var DefaultWhatIfStart = time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)

// QuizStatus is the position of an active quiz in its state machine.
type QuizStatus string

const (
	StatusPending QuizStatus = "pending"
	StatusPassed  QuizStatus = "passed"
	StatusFailed  QuizStatus = "failed"
)

// NoSelection marks an active quiz with no chosen option.
const NoSelection = -1

// QuestionKey addresses one tier of one card within a module.
type QuestionKey struct {
	Card int `json:"card"`
	Tier int `json:"tier"`
}

// ActiveQuiz is the transient record of the quiz currently on screen.
type ActiveQuiz struct {
	Module       catalog.ModuleID `json:"module"`
	Card         int              `json:"card"`
	Tier         int              `json:"tier"`
	Status       QuizStatus       `json:"status"`
	LastSelected int              `json:"last_selected"`
}

// Counters are the monotonically increasing usage tallies.
type Counters struct {
	ChartsViewed int `json:"charts_viewed"`
	FactsRead    int `json:"facts_read"`
	AnalyzerUses int `json:"analyzer_uses"`
	WhatIfUses   int `json:"what_if_uses"`
}

// WhatIfInputs are the last inputs of the what-if calculator.
type WhatIfInputs struct {
	Symbol string    `json:"symbol"`
	Start  time.Time `json:"start"`
	Amount int       `json:"amount"`
}

// Progress is one learner's mutable session record. It is owned by a single
// session and never shared.
type Progress struct {
	// CurrentModule is the module shown on the learning screen.
	CurrentModule catalog.ModuleID

	// CardIndex is the card currently displayed per module.
	CardIndex map[catalog.ModuleID]int

	// ModuleProgress is the unlock cursor per module: the number of cards whose
	// tier-1 quiz has been passed in sequence.
	ModuleProgress map[catalog.ModuleID]int

	// Answered is the set of correctly answered (card, tier) pairs per module.
	Answered map[catalog.ModuleID]map[QuestionKey]struct{}

	// Badges is the set of earned badges.
	Badges map[catalog.BadgeID]struct{}

	// Counters tracks tool usage for badge rules.
	Counters Counters

	// FundsVisited is set once the funds explorer has been opened.
	FundsVisited bool

	// Active is the quiz in progress, nil when none.
	Active *ActiveQuiz

	// WhatIf holds the last calculator inputs.
	WhatIf WhatIfInputs

	// AnalyzerSymbol is the last symbol entered in the analyzer.
	AnalyzerSymbol string
}

// New returns a bootstrapped Progress for the catalog.
func New(cat *catalog.Catalog) *Progress {
	p := &Progress{}
	p.Bootstrap(cat)
	return p
}

// Bootstrap fills every missing field with its default and leaves fields
// that already exist untouched. Calling it repeatedly is a no-op.
func (p *Progress) Bootstrap(cat *catalog.Catalog) {
	if !cat.Valid(p.CurrentModule) {
		p.CurrentModule = cat.First()
	}
	if p.CardIndex == nil {
		p.CardIndex = make(map[catalog.ModuleID]int, cat.Len())
	}
	if p.ModuleProgress == nil {
		p.ModuleProgress = make(map[catalog.ModuleID]int, cat.Len())
	}
	if p.Answered == nil {
		p.Answered = make(map[catalog.ModuleID]map[QuestionKey]struct{}, cat.Len())
	}
	for _, m := range cat.Modules() {
		if _, ok := p.CardIndex[m.ID]; !ok {
			p.CardIndex[m.ID] = 0
		}
		if _, ok := p.ModuleProgress[m.ID]; !ok {
			p.ModuleProgress[m.ID] = 0
		}
		if p.Answered[m.ID] == nil {
			p.Answered[m.ID] = make(map[QuestionKey]struct{})
		}
	}
	if p.Badges == nil {
		p.Badges = make(map[catalog.BadgeID]struct{})
	}
	if p.WhatIf.Symbol == "" {
		p.WhatIf.Symbol = DefaultWhatIfSymbol
	}
	if p.WhatIf.Start.IsZero() {
		p.WhatIf.Start = DefaultWhatIfStart
	}
	if p.WhatIf.Amount == 0 {
		p.WhatIf.Amount = DefaultWhatIfAmount
	}
	if p.AnalyzerSymbol == "" {
		p.AnalyzerSymbol = DefaultAnalyzerSymbol
	}
}

// Reset clears every field. The next Bootstrap restores defaults.
func (p *Progress) Reset() {
	*p = Progress{}
}

// AnsweredCount returns the number of correctly answered questions in module m.
func (p *Progress) AnsweredCount(m catalog.ModuleID) int {
	return len(p.Answered[m])
}

// HasAnswered reports whether (card, tier) of module m was answered correctly.
func (p *Progress) HasAnswered(m catalog.ModuleID, k QuestionKey) bool {
	_, ok := p.Answered[m][k]
	return ok
}

// MarkAnswered adds (card, tier) to the answered set of module m.
func (p *Progress) MarkAnswered(m catalog.ModuleID, k QuestionKey) {
	set := p.Answered[m]
	if set == nil {
		set = make(map[QuestionKey]struct{})
		p.Answered[m] = set
	}
	set[k] = struct{}{}
}

// HasBadge reports whether badge id is earned.
func (p *Progress) HasBadge(id catalog.BadgeID) bool {
	_, ok := p.Badges[id]
	return ok
}

// Award adds id to the earned set and reports whether it was new.
func (p *Progress) Award(id catalog.BadgeID) bool {
	if p.HasBadge(id) {
		return false
	}
	p.Badges[id] = struct{}{}
	return true
}

// CompletedCards returns the sum of unlock cursors across modules.
func (p *Progress) CompletedCards() int {
	total := 0
	for _, n := range p.ModuleProgress {
		total += n
	}
	return total
}

// Clone returns a deep copy.
func (p *Progress) Clone() *Progress {
	c := *p
	c.CardIndex = maps.Clone(p.CardIndex)
	c.ModuleProgress = maps.Clone(p.ModuleProgress)
	c.Badges = maps.Clone(p.Badges)
	if p.Answered != nil {
		c.Answered = make(map[catalog.ModuleID]map[QuestionKey]struct{}, len(p.Answered))
		for m, set := range p.Answered {
			c.Answered[m] = maps.Clone(set)
		}
	}
	if p.Active != nil {
		a := *p.Active
		c.Active = &a
	}
	return &c
}
