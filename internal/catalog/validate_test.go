package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validModule(slug string) Module {
	return Module{
		Slug: slug,
		Name: "Test",
		Cards: []Card{{
			Term:       "Term",
			Definition: "Definition",
			Quiz: []Question{{
				Prompt:  "Q?",
				Options: []Option{{Text: "a"}, {Text: "b"}},
				Correct: 0,
			}},
		}},
	}
}

func TestNew_Valid(t *testing.T) {
	c, err := New([]Module{validModule("a"), validModule("b")}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, err := c.ModuleBySlug("b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ID != 1 {
		t.Errorf("ID = %d, want 1", m.ID)
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m *Module)
		wantErr string
	}{
		{"empty slug", func(m *Module) { m.Slug = "" }, "empty slug"},
		{"no cards", func(m *Module) { m.Cards = nil }, "no cards"},
		{"no tiers", func(m *Module) { m.Cards[0].Quiz = nil }, "no quiz tiers"},
		{"one option", func(m *Module) { m.Cards[0].Quiz[0].Options = m.Cards[0].Quiz[0].Options[:1] }, "at least 2 options"},
		{"correct out of range", func(m *Module) { m.Cards[0].Quiz[0].Correct = 2 }, "correct index 2 out of range"},
		{"unknown concept", func(m *Module) { m.Cards[0].Chart = &Chart{Symbol: "X", Concept: "astrology"} }, "unknown chart concept"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validModule("a")
			tt.mutate(&m)
			_, err := New([]Module{m}, nil, nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestNew_DuplicateSlug(t *testing.T) {
	_, err := New([]Module{validModule("a"), validModule("a")}, nil, nil)
	if err == nil || !strings.Contains(err.Error(), "duplicate module slug") {
		t.Errorf("err = %v, want duplicate slug error", err)
	}
}

func TestNew_Empty(t *testing.T) {
	if _, err := New(nil, nil, nil); err == nil {
		t.Fatal("expected error for empty catalog")
	}
}

func TestParse_SchemaRejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{`},
		{"no modules", `{"modules": []}`},
		{"bad slug", `{"modules":[{"id":"Bad Slug","name":"x","cards":[]}]}`},
		{"unknown concept", `{"modules":[{"id":"a","name":"x","cards":[{"term":"t","definition":"d","chart":{"symbol":"X","concept":"moon"},"quiz":[{"question":"q","options":[{"text":"a","reasoning":""},{"text":"b","reasoning":""}],"correct":0}]}]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.raw)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	raw := `{"modules":[{"id":"solo","icon":"★","name":"Solo","cards":[{"term":"t","definition":"d","quiz":[{"question":"q","options":[{"text":"a","reasoning":"ra"},{"text":"b","reasoning":"rb"}],"correct":1}]}]}]}`
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 1 || c.TotalCards() != 1 {
		t.Errorf("Len = %d, TotalCards = %d", c.Len(), c.TotalCards())
	}
	m, _ := c.Module(0)
	if m.Title() != "★ Solo" {
		t.Errorf("title = %q", m.Title())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
