package catalog

import (
	"errors"
	"strings"
	"testing"
)

func TestDefault_Counts(t *testing.T) {
	c := Default()
	if c.Len() != 6 {
		t.Errorf("Len() = %d, want 6", c.Len())
	}
	if c.TotalCards() != 23 {
		t.Errorf("TotalCards() = %d, want 23", c.TotalCards())
	}
	total := 0
	for _, m := range c.Modules() {
		total += m.TotalQuestions()
	}
	if total != 115 {
		t.Errorf("total questions = %d, want 115", total)
	}
	if len(c.Facts()) != 5 {
		t.Errorf("facts = %d, want 5", len(c.Facts()))
	}
	if len(c.Funds()) != 5 {
		t.Errorf("funds = %d, want 5", len(c.Funds()))
	}
	if len(c.Badges()) != 8 {
		t.Errorf("badges = %d, want 8", len(c.Badges()))
	}
}

func TestDefault_ModuleOrder(t *testing.T) {
	want := []struct {
		slug  string
		title string
		cards int
	}{
		{"getting-started", "⭐ Getting Started", 5},
		{"basic-charting", "📈 Basic Charting", 5},
		{"order-types", "🛒 Essential Order Types", 3},
		{"advanced-charting", "📊 Advanced Charting", 3},
		{"fundamentals", "🏢 Deeper Fundamental Metrics", 4},
		{"crypto", "⛓️ Crypto & Digital Assets", 3},
	}
	mods := Default().Modules()
	for i, w := range want {
		m := mods[i]
		if m.ID != ModuleID(i) {
			t.Errorf("module %d: ID = %d", i, m.ID)
		}
		if m.Slug != w.slug {
			t.Errorf("module %d: slug = %q, want %q", i, m.Slug, w.slug)
		}
		if m.Title() != w.title {
			t.Errorf("module %d: title = %q, want %q", i, m.Title(), w.title)
		}
		if len(m.Cards) != w.cards {
			t.Errorf("module %q: %d cards, want %d", m.Slug, len(m.Cards), w.cards)
		}
	}
}

func TestModuleBySlug(t *testing.T) {
	m, err := Default().ModuleBySlug("basic-charting")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ID != 1 {
		t.Errorf("ID = %d, want 1", m.ID)
	}
	if m.Cards[0].Term != "Support" {
		t.Errorf("first card = %q, want %q", m.Cards[0].Term, "Support")
	}
	if m.Cards[0].Chart == nil || m.Cards[0].Chart.Concept != ConceptSupport {
		t.Errorf("first card chart = %+v, want support concept", m.Cards[0].Chart)
	}

	_, err = Default().ModuleBySlug("nope")
	if !errors.Is(err, ErrModuleNotFound) {
		t.Errorf("err = %v, want ErrModuleNotFound", err)
	}
}

func TestCardLookup(t *testing.T) {
	c := Default()
	card, err := c.Card(0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.Term != "Stock" {
		t.Errorf("term = %q, want Stock", card.Term)
	}

	tests := []struct {
		name   string
		module ModuleID
		index  int
		want   error
	}{
		{"negative module", -1, 0, ErrModuleNotFound},
		{"module past end", 6, 0, ErrModuleNotFound},
		{"negative card", 0, -1, ErrCardNotFound},
		{"card past end", 0, 5, ErrCardNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Card(tt.module, tt.index)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCardQuestion(t *testing.T) {
	card, _ := Default().Card(0, 0)
	if card.Tiers() != 5 {
		t.Fatalf("tiers = %d, want 5", card.Tiers())
	}
	q, err := card.Question(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Prompt != "A stock represents which of the following?" {
		t.Errorf("prompt = %q", q.Prompt)
	}
	if !q.IsCorrect(1) || q.IsCorrect(0) {
		t.Errorf("correct index = %d, want 1", q.Correct)
	}
	if !strings.HasPrefix(q.Explanation(), "Correct!") {
		t.Errorf("explanation = %q", q.Explanation())
	}
	for _, tier := range []int{0, 6} {
		if _, err := card.Question(tier); !errors.Is(err, ErrTierNotFound) {
			t.Errorf("Question(%d) err = %v, want ErrTierNotFound", tier, err)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 7, "this is..."},
		{"ünïcödé", 3, "ünï..."},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestQuickReview(t *testing.T) {
	card, _ := Default().Card(0, 0)
	r := card.QuickReview()
	if r.Term != "Stock" {
		t.Errorf("term = %q", r.Term)
	}
	if !strings.HasSuffix(r.Definition, "...") {
		t.Errorf("definition should be truncated: %q", r.Definition)
	}
	if got := len([]rune(r.Definition)); got != QuickReviewLen+3 {
		t.Errorf("definition runes = %d, want %d", got, QuickReviewLen+3)
	}
}

func TestFactStartDate(t *testing.T) {
	for i, f := range Default().Facts() {
		d, err := f.StartDate()
		if err != nil {
			t.Errorf("fact %d: %v", i, err)
			continue
		}
		if d.Year() < 1980 {
			t.Errorf("fact %d: start %v before 1980", i, d)
		}
	}
}

func TestBadges_Order(t *testing.T) {
	badges := Default().Badges()
	if badges[0].Name != "Wall Street Rookie" || badges[0].Icon != "🔰" {
		t.Errorf("first badge = %+v", badges[0])
	}
	last := badges[len(badges)-1]
	if last.ID != BadgeTradingLegend || last.Description != "Earned all available badges!" {
		t.Errorf("last badge = %+v", last)
	}
}
