// Package mastery derives completion and shield levels from a progress
// record. It holds no state of its own.
package mastery

import (
	"github.com/abhisek/wallstreet101/internal/catalog"
	"github.com/abhisek/wallstreet101/internal/progress"
)

// CompletionPct returns 100*completed/cards with integer truncation, or 0
// when the module has no cards.
func CompletionPct(completed, cards int) int {
	if cards <= 0 {
		return 0
	}
	return 100 * completed / cards
}

// TotalQuestions returns the number of quiz tiers across the module's cards.
func TotalQuestions(m catalog.Module) int {
	return m.TotalQuestions()
}

// ModuleStatus is one row of the per-module summary.
type ModuleStatus struct {
	ID    catalog.ModuleID `json:"id"`
	Slug  string           `json:"slug"`
	Title string           `json:"title"`

	// CardIndex is the card on display.
	CardIndex int `json:"card_index"`

	// Completed is the module's unlock cursor.
	Completed int `json:"completed"`
	Cards     int `json:"cards"`

	CompletionPct int    `json:"completion_pct"`
	Shield        Shield `json:"shield"`
}

// Done reports whether every card of the module has been unlocked.
func (s ModuleStatus) Done() bool {
	return s.Cards > 0 && s.Completed >= s.Cards
}

// Summarize returns the status of every module in catalog order.
func Summarize(p *progress.Progress, cat *catalog.Catalog) []ModuleStatus {
	mods := cat.Modules()
	out := make([]ModuleStatus, 0, len(mods))
	for _, m := range mods {
		completed := p.ModuleProgress[m.ID]
		out = append(out, ModuleStatus{
			ID:            m.ID,
			Slug:          m.Slug,
			Title:         m.Title(),
			CardIndex:     p.CardIndex[m.ID],
			Completed:     completed,
			Cards:         len(m.Cards),
			CompletionPct: CompletionPct(completed, len(m.Cards)),
			Shield:        NewShield(p.AnsweredCount(m.ID), TotalQuestions(m)),
		})
	}
	return out
}

// Overall is the learner's progress across the whole catalog.
type Overall struct {
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Fraction  float64 `json:"fraction"`
}

// Pct returns the mastered share as an integer percentage.
func (o Overall) Pct() int {
	return CompletionPct(o.Completed, o.Total)
}

// OverallProgress sums unlock cursors against the catalog's card count.
func OverallProgress(p *progress.Progress, cat *catalog.Catalog) Overall {
	o := Overall{Total: cat.TotalCards()}
	for _, m := range cat.Modules() {
		o.Completed += p.ModuleProgress[m.ID]
	}
	if o.Total > 0 {
		o.Fraction = float64(o.Completed) / float64(o.Total)
	}
	return o
}
