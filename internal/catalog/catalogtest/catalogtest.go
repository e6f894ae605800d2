// Package catalogtest builds small catalogs for tests.
package catalogtest

import (
	"fmt"
	"testing"

	"github.com/abhisek/wallstreet101/internal/catalog"
)

// Module returns a module with one card per entry in tiers. Each card has
// the given number of quiz tiers; every question has three options and the
// correct answer at index 1.
func Module(slug string, tiers ...int) catalog.Module {
	m := catalog.Module{Slug: slug, Name: "Module " + slug}
	for ci, n := range tiers {
		card := catalog.Card{
			Term:       fmt.Sprintf("%s term %d", slug, ci),
			Definition: fmt.Sprintf("%s definition %d", slug, ci),
			Example:    fmt.Sprintf("%s example %d", slug, ci),
		}
		for ti := 0; ti < n; ti++ {
			card.Quiz = append(card.Quiz, catalog.Question{
				Prompt: fmt.Sprintf("%s card %d tier %d?", slug, ci, ti+1),
				Options: []catalog.Option{
					{Text: "wrong", Reasoning: "not this one"},
					{Text: "right", Reasoning: "this is it"},
					{Text: "also wrong", Reasoning: "nope"},
				},
				Correct: 1,
			})
		}
		m.Cards = append(m.Cards, card)
	}
	return m
}

// New builds a catalog from modules, failing the test on validation errors.
func New(t testing.TB, modules ...catalog.Module) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(modules, nil, nil)
	if err != nil {
		t.Fatalf("build test catalog: %v", err)
	}
	return c
}
