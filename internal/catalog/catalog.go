package catalog

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrModuleNotFound = errors.New("module not found")
	ErrCardNotFound   = errors.New("card not found")
	ErrTierNotFound   = errors.New("tier not found")
	ErrFactNotFound   = errors.New("fact not found")
)

// Catalog is the read-only content store with precomputed indices.
type Catalog struct {
	modules    []Module
	bySlug     map[string]ModuleID
	facts      []Fact
	funds      []Fund
	badges     []Badge
	totalCards int
}

// New validates the given content and builds a catalog. Module IDs are
// assigned from slice order.
func New(modules []Module, facts []Fact, funds []Fund) (*Catalog, error) {
	if err := validateContent(modules, facts, funds); err != nil {
		return nil, err
	}

	c := &Catalog{
		modules: slices.Clone(modules),
		bySlug:  make(map[string]ModuleID, len(modules)),
		facts:   slices.Clone(facts),
		funds:   slices.Clone(funds),
	}
	for i := range c.modules {
		c.modules[i].ID = ModuleID(i)
		c.bySlug[c.modules[i].Slug] = ModuleID(i)
		c.totalCards += len(c.modules[i].Cards)
	}
	for _, id := range AllBadgeIDs() {
		c.badges = append(c.badges, BadgeFor(id))
	}
	return c, nil
}

// Modules returns all modules in catalog order.
func (c *Catalog) Modules() []Module {
	return slices.Clone(c.modules)
}

// Len returns the number of modules.
func (c *Catalog) Len() int {
	return len(c.modules)
}

// First returns the ID of the first module in catalog order.
func (c *Catalog) First() ModuleID {
	return 0
}

// Valid reports whether id addresses a module.
func (c *Catalog) Valid(id ModuleID) bool {
	return id >= 0 && int(id) < len(c.modules)
}

// Module returns a module by ID.
func (c *Catalog) Module(id ModuleID) (Module, error) {
	if !c.Valid(id) {
		return Module{}, fmt.Errorf("module %d: %w", id, ErrModuleNotFound)
	}
	return c.modules[id], nil
}

// ModuleBySlug returns a module by its stable string key.
func (c *Catalog) ModuleBySlug(slug string) (Module, error) {
	id, ok := c.bySlug[slug]
	if !ok {
		return Module{}, fmt.Errorf("module %q: %w", slug, ErrModuleNotFound)
	}
	return c.modules[id], nil
}

// Card returns the card at index within module id.
func (c *Catalog) Card(id ModuleID, index int) (Card, error) {
	m, err := c.Module(id)
	if err != nil {
		return Card{}, err
	}
	return m.Card(index)
}

// TotalCards returns the number of cards across all modules.
func (c *Catalog) TotalCards() int {
	return c.totalCards
}

// Facts returns all market facts.
func (c *Catalog) Facts() []Fact {
	return slices.Clone(c.facts)
}

// Fact returns the fact at index i.
func (c *Catalog) Fact(i int) (Fact, error) {
	if i < 0 || i >= len(c.facts) {
		return Fact{}, fmt.Errorf("fact %d: %w", i, ErrFactNotFound)
	}
	return c.facts[i], nil
}

// Funds returns all funds in the explorer.
func (c *Catalog) Funds() []Fund {
	return slices.Clone(c.funds)
}

// Badges returns every badge definition in display order.
func (c *Catalog) Badges() []Badge {
	return slices.Clone(c.badges)
}
