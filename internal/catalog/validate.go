package catalog

import (
	"fmt"
	"strings"
	"time"
)

// validateContent performs all structural checks on the given content.
// Returns a combined error describing all problems found, or nil if valid.
func validateContent(modules []Module, facts []Fact, funds []Fund) error {
	var errs []string

	if len(modules) == 0 {
		errs = append(errs, "catalog has no modules")
	}

	known := make(map[Concept]bool)
	for _, c := range AllConcepts() {
		known[c] = true
	}

	slugs := make(map[string]bool, len(modules))
	for mi, m := range modules {
		prefix := fmt.Sprintf("module %d (%q)", mi, m.Slug)
		if m.Slug == "" {
			errs = append(errs, fmt.Sprintf("%s: empty slug", prefix))
		}
		if slugs[m.Slug] {
			errs = append(errs, fmt.Sprintf("duplicate module slug: %q", m.Slug))
		}
		slugs[m.Slug] = true
		if m.Name == "" {
			errs = append(errs, fmt.Sprintf("%s: empty name", prefix))
		}
		if len(m.Cards) == 0 {
			errs = append(errs, fmt.Sprintf("%s: no cards", prefix))
		}

		for ci, c := range m.Cards {
			cprefix := fmt.Sprintf("%s card %d (%q)", prefix, ci, c.Term)
			if c.Term == "" || c.Definition == "" {
				errs = append(errs, fmt.Sprintf("%s: term and definition are required", cprefix))
			}
			if c.Chart != nil {
				if c.Chart.Symbol == "" {
					errs = append(errs, fmt.Sprintf("%s: chart without symbol", cprefix))
				}
				if !known[c.Chart.Concept] {
					errs = append(errs, fmt.Sprintf("%s: unknown chart concept %q", cprefix, c.Chart.Concept))
				}
			}
			if len(c.Quiz) == 0 {
				errs = append(errs, fmt.Sprintf("%s: no quiz tiers", cprefix))
			}
			for qi, q := range c.Quiz {
				qprefix := fmt.Sprintf("%s tier %d", cprefix, qi+1)
				if q.Prompt == "" {
					errs = append(errs, fmt.Sprintf("%s: empty question", qprefix))
				}
				if len(q.Options) < 2 {
					errs = append(errs, fmt.Sprintf("%s: need at least 2 options, got %d", qprefix, len(q.Options)))
				}
				if !q.ValidOption(q.Correct) {
					errs = append(errs, fmt.Sprintf("%s: correct index %d out of range", qprefix, q.Correct))
				}
			}
		}
	}

	for i, f := range facts {
		if f.Text == "" || f.Symbol == "" {
			errs = append(errs, fmt.Sprintf("fact %d: text and symbol are required", i))
		}
		if _, err := time.Parse(FactDateLayout, f.Start); err != nil {
			errs = append(errs, fmt.Sprintf("fact %d: bad start date %q", i, f.Start))
		}
	}

	for i, f := range funds {
		if f.Name == "" {
			errs = append(errs, fmt.Sprintf("fund %d: empty name", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
