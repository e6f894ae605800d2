// Package quiz implements the tiered quiz state machine over a session's
// progress record. Every function validates before mutating: a rejected call
// leaves the progress untouched.
package quiz

import (
	"errors"
	"fmt"

	"github.com/abhisek/wallstreet101/internal/catalog"
	"github.com/abhisek/wallstreet101/internal/progress"
)

var (
	ErrNoActiveQuiz     = errors.New("no active quiz")
	ErrQuizMismatch     = errors.New("answer does not match the active quiz")
	ErrNotPending       = errors.New("quiz is not awaiting an answer")
	ErrNotPassed        = errors.New("quiz tier has not been passed")
	ErrNotFailed        = errors.New("quiz tier has not been failed")
	ErrNoMoreTiers      = errors.New("no more tiers on this card")
	ErrTierOutOfRange   = errors.New("tier out of range")
	ErrOptionOutOfRange = errors.New("option out of range")
	ErrCardLocked       = errors.New("card is locked")
	ErrLastCard         = errors.New("already at the last card")
	ErrFirstCard        = errors.New("already at the first card")
)

// Outcome is the result of a submitted answer.
type Outcome struct {
	Module catalog.ModuleID
	Card   int
	Tier   int
	Option int

	Correct bool

	// Reasoning explains the chosen option.
	Reasoning string

	// Explanation is the reasoning attached to the correct option.
	Explanation string

	// Unlocked is set when the answer advanced the module's unlock cursor.
	Unlocked bool
}

// Start opens tier 1 of the card currently displayed in the current module.
// The card must be unlocked; re-quizzing an already unlocked card is a review.
func Start(p *progress.Progress, cat *catalog.Catalog) error {
	m := p.CurrentModule
	idx := p.CardIndex[m]
	if _, err := cat.Card(m, idx); err != nil {
		return err
	}
	if idx > p.ModuleProgress[m] {
		return fmt.Errorf("card %d: %w", idx, ErrCardLocked)
	}
	p.Active = &progress.ActiveQuiz{
		Module:       m,
		Card:         idx,
		Tier:         1,
		Status:       progress.StatusPending,
		LastSelected: progress.NoSelection,
	}
	return nil
}

// Submit grades option for the given question coordinates. The coordinates
// must name the pending active quiz.
func Submit(p *progress.Progress, cat *catalog.Catalog, module catalog.ModuleID, cardIndex, tier, option int) (Outcome, error) {
	card, err := cat.Card(module, cardIndex)
	if err != nil {
		return Outcome{}, err
	}
	if tier < 1 || tier > card.Tiers() {
		return Outcome{}, fmt.Errorf("tier %d of %d: %w", tier, card.Tiers(), ErrTierOutOfRange)
	}
	q, _ := card.Question(tier)
	if !q.ValidOption(option) {
		return Outcome{}, fmt.Errorf("option %d of %d: %w", option, len(q.Options), ErrOptionOutOfRange)
	}

	a := p.Active
	if a == nil {
		return Outcome{}, ErrNoActiveQuiz
	}
	if a.Module != module || a.Card != cardIndex || a.Tier != tier {
		return Outcome{}, ErrQuizMismatch
	}
	if a.Status != progress.StatusPending {
		return Outcome{}, ErrNotPending
	}

	out := Outcome{
		Module:      module,
		Card:        cardIndex,
		Tier:        tier,
		Option:      option,
		Correct:     q.IsCorrect(option),
		Reasoning:   q.Options[option].Reasoning,
		Explanation: q.Explanation(),
	}

	a.LastSelected = option
	if !out.Correct {
		a.Status = progress.StatusFailed
		return out, nil
	}

	a.Status = progress.StatusPassed
	p.MarkAnswered(module, progress.QuestionKey{Card: cardIndex, Tier: tier})
	// The cursor only moves when the frontier card's first tier is passed,
	// so replaying earlier cards never double counts.
	if tier == 1 && cardIndex == p.ModuleProgress[module] {
		p.ModuleProgress[module]++
		out.Unlocked = true
	}
	return out, nil
}

// Answer submits option for the active quiz.
func Answer(p *progress.Progress, cat *catalog.Catalog, option int) (Outcome, error) {
	if p.Active == nil {
		return Outcome{}, ErrNoActiveQuiz
	}
	a := p.Active
	return Submit(p, cat, a.Module, a.Card, a.Tier, option)
}

// Retry returns a failed tier to pending.
func Retry(p *progress.Progress) error {
	if p.Active == nil {
		return ErrNoActiveQuiz
	}
	if p.Active.Status != progress.StatusFailed {
		return ErrNotFailed
	}
	p.Active.Status = progress.StatusPending
	p.Active.LastSelected = progress.NoSelection
	return nil
}

// AdvanceTier moves a passed quiz to the next tier.
func AdvanceTier(p *progress.Progress, cat *catalog.Catalog) error {
	a := p.Active
	if a == nil {
		return ErrNoActiveQuiz
	}
	if a.Status != progress.StatusPassed {
		return ErrNotPassed
	}
	card, err := cat.Card(a.Module, a.Card)
	if err != nil {
		return err
	}
	if a.Tier >= card.Tiers() {
		return ErrNoMoreTiers
	}
	a.Tier++
	a.Status = progress.StatusPending
	a.LastSelected = progress.NoSelection
	return nil
}

// NextCard moves to the following card of the current module. Only
// unlocked cards can be passed.
func NextCard(p *progress.Progress, cat *catalog.Catalog) error {
	m, err := cat.Module(p.CurrentModule)
	if err != nil {
		return err
	}
	idx := p.CardIndex[m.ID]
	last := len(m.Cards) - 1
	if idx >= last {
		return ErrLastCard
	}
	if idx >= p.ModuleProgress[m.ID] {
		return fmt.Errorf("card %d: %w", idx+1, ErrCardLocked)
	}
	p.CardIndex[m.ID] = min(idx+1, last)
	p.Active = nil
	return nil
}

// PrevCard moves to the preceding card of the current module.
func PrevCard(p *progress.Progress, cat *catalog.Catalog) error {
	if !cat.Valid(p.CurrentModule) {
		return fmt.Errorf("module %d: %w", p.CurrentModule, catalog.ErrModuleNotFound)
	}
	idx := p.CardIndex[p.CurrentModule]
	if idx <= 0 {
		return ErrFirstCard
	}
	p.CardIndex[p.CurrentModule] = idx - 1
	p.Active = nil
	return nil
}

// Leave discards the active quiz, if any.
func Leave(p *progress.Progress) {
	p.Active = nil
}

// SelectModule switches the learning screen to module id.
func SelectModule(p *progress.Progress, cat *catalog.Catalog, id catalog.ModuleID) error {
	if !cat.Valid(id) {
		return fmt.Errorf("module %d: %w", id, catalog.ErrModuleNotFound)
	}
	p.CurrentModule = id
	p.Active = nil
	return nil
}

// CanNext reports whether NextCard would succeed.
func CanNext(p *progress.Progress, cat *catalog.Catalog) bool {
	m, err := cat.Module(p.CurrentModule)
	if err != nil {
		return false
	}
	idx := p.CardIndex[m.ID]
	return idx < p.ModuleProgress[m.ID] && idx < len(m.Cards)-1
}

// CanPrev reports whether PrevCard would succeed.
func CanPrev(p *progress.Progress) bool {
	return p.CardIndex[p.CurrentModule] > 0
}
