package catalog

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// ModuleID is a module's position in catalog order.
type ModuleID int

// Concept tags the visualization a card's chart teaches.
type Concept string

const (
	ConceptPrice         Concept = "price"
	ConceptTrend         Concept = "trend"
	ConceptSupport       Concept = "support"
	ConceptResistance    Concept = "resistance"
	ConceptBreakout      Concept = "breakout"
	ConceptVolume        Concept = "volume"
	ConceptMovingAverage Concept = "ma"
	ConceptCross         Concept = "cross"
	ConceptRSI           Concept = "rsi"
	ConceptBollinger     Concept = "bollinger"
)

// AllConcepts returns every known chart concept.
func AllConcepts() []Concept {
	return []Concept{
		ConceptPrice, ConceptTrend, ConceptSupport, ConceptResistance, ConceptBreakout,
		ConceptVolume, ConceptMovingAverage, ConceptCross, ConceptRSI, ConceptBollinger,
	}
}

// DisplayName returns a human-readable label for the concept.
func (c Concept) DisplayName() string {
	switch c {
	case ConceptPrice:
		return "Price"
	case ConceptTrend:
		return "Trend"
	case ConceptSupport:
		return "Support"
	case ConceptResistance:
		return "Resistance"
	case ConceptBreakout:
		return "Breakout"
	case ConceptVolume:
		return "Volume"
	case ConceptMovingAverage:
		return "Moving Average"
	case ConceptCross:
		return "Golden / Death Cross"
	case ConceptRSI:
		return "RSI"
	case ConceptBollinger:
		return "Bollinger Bands"
	default:
		return string(c)
	}
}

// Option is one answer choice of a quiz question.
type Option struct {
	Text      string `json:"text"`
	Reasoning string `json:"reasoning"`
}

// Question is a single quiz tier of a card.
type Question struct {
	Prompt  string   `json:"question"`
	Options []Option `json:"options"`
	Correct int      `json:"correct"`
}

// ValidOption reports whether i addresses one of the question's options.
func (q Question) ValidOption(i int) bool {
	return i >= 0 && i < len(q.Options)
}

// IsCorrect reports whether option i is the correct answer.
func (q Question) IsCorrect(i int) bool {
	return i == q.Correct
}

// Explanation returns the reasoning attached to the correct option.
func (q Question) Explanation() string {
	if !q.ValidOption(q.Correct) {
		return ""
	}
	return q.Options[q.Correct].Reasoning
}

// Chart points a card at a symbol and the concept to visualize on it.
type Chart struct {
	Symbol  string  `json:"symbol"`
	Concept Concept `json:"concept"`
}

// QuickReviewLen bounds the definition and example excerpts of a quick review.
const QuickReviewLen = 180

// Card is one vocabulary term with its tiered quiz.
type Card struct {
	Term       string     `json:"term"`
	Definition string     `json:"definition"`
	Example    string     `json:"example"`
	Chart      *Chart     `json:"chart,omitempty"`
	Quiz       []Question `json:"quiz"`
}

// Tiers returns the number of quiz tiers on the card.
func (c Card) Tiers() int {
	return len(c.Quiz)
}

// Question returns the question for a 1-based tier.
func (c Card) Question(tier int) (Question, error) {
	if tier < 1 || tier > len(c.Quiz) {
		return Question{}, fmt.Errorf("card %q tier %d: %w", c.Term, tier, ErrTierNotFound)
	}
	return c.Quiz[tier-1], nil
}

// QuickReview holds the key points shown for an already mastered card.
type QuickReview struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
	Example    string `json:"example"`
}

// QuickReview returns the card's term with truncated definition and example.
func (c Card) QuickReview() QuickReview {
	return QuickReview{
		Term:       c.Term,
		Definition: Truncate(c.Definition, QuickReviewLen),
		Example:    Truncate(c.Example, QuickReviewLen),
	}
}

// Truncate cuts s to n runes, appending "..." when anything was cut.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}

// Module is a named, ordered group of concept cards.
type Module struct {
	ID    ModuleID `json:"-"`
	Slug  string   `json:"id"`
	Icon  string   `json:"icon"`
	Name  string   `json:"name"`
	Cards []Card   `json:"cards"`
}

// Title returns the module's display title, icon first.
func (m Module) Title() string {
	if m.Icon == "" {
		return m.Name
	}
	return m.Icon + " " + m.Name
}

// TotalQuestions sums quiz tiers across every card in the module.
func (m Module) TotalQuestions() int {
	total := 0
	for _, c := range m.Cards {
		total += c.Tiers()
	}
	return total
}

// Card returns the card at index, or an error when out of range.
func (m Module) Card(index int) (Card, error) {
	if index < 0 || index >= len(m.Cards) {
		return Card{}, fmt.Errorf("module %q card %d: %w", m.Slug, index, ErrCardNotFound)
	}
	return m.Cards[index], nil
}

// Fact is a market anecdote paired with a what-if scenario.
type Fact struct {
	Text   string `json:"fact"`
	Symbol string `json:"symbol"`
	Start  string `json:"start"`
}

// FactDateLayout is the layout of Fact.Start.
const FactDateLayout = "2006-01-02"

// StartDate parses the fact's scenario start date.
func (f Fact) StartDate() (time.Time, error) {
	return time.Parse(FactDateLayout, f.Start)
}

// Fund describes a fund or ETF shown in the explorer.
type Fund struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	AvgReturn   string `json:"avg_return"`
	Description string `json:"description"`
	Symbol      string `json:"symbol"`
}
