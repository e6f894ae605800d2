// Package badges maps session progress to badge membership.
package badges

import (
	"github.com/abhisek/wallstreet101/internal/catalog"
	"github.com/abhisek/wallstreet101/internal/mastery"
	"github.com/abhisek/wallstreet101/internal/progress"
)

// Usage thresholds.
const (
	ChartsForMaster      = 10
	FactsForFinder       = 5
	AnalyzerUsesForBadge = 5
	WhatIfUsesForBadge   = 5
)

// Rule decides whether a badge is earned.
type Rule struct {
	Badge catalog.BadgeID
	Met   func(p *progress.Progress, cat *catalog.Catalog) bool
}

// Rules returns every rule except Trading Legend, which depends on the
// others and is evaluated last.
func Rules() []Rule {
	return []Rule{
		{catalog.BadgeRookie, anyModuleStarted},
		{catalog.BadgeChartMaster, func(p *progress.Progress, _ *catalog.Catalog) bool {
			return p.Counters.ChartsViewed >= ChartsForMaster
		}},
		{catalog.BadgeFactFinder, func(p *progress.Progress, _ *catalog.Catalog) bool {
			return p.Counters.FactsRead >= FactsForFinder
		}},
		{catalog.BadgeFundExplorer, func(p *progress.Progress, _ *catalog.Catalog) bool {
			return p.FundsVisited
		}},
		{catalog.BadgeMarketAnalyst, func(p *progress.Progress, _ *catalog.Catalog) bool {
			return p.Counters.AnalyzerUses >= AnalyzerUsesForBadge
		}},
		{catalog.BadgePortfolioVisionary, func(p *progress.Progress, _ *catalog.Catalog) bool {
			return p.Counters.WhatIfUses >= WhatIfUsesForBadge
		}},
		{catalog.BadgeKnowledgeTitan, allModulesDone},
	}
}

// anyModuleStarted holds once any card of any module has been unlocked.
func anyModuleStarted(p *progress.Progress, cat *catalog.Catalog) bool {
	for _, m := range cat.Modules() {
		if p.ModuleProgress[m.ID] > 0 {
			return true
		}
	}
	return false
}

func allModulesDone(p *progress.Progress, cat *catalog.Catalog) bool {
	rows := mastery.Summarize(p, cat)
	if len(rows) == 0 {
		return false
	}
	for _, s := range rows {
		if !s.Done() {
			return false
		}
	}
	return true
}

// Evaluate awards every badge whose rule now holds and returns the new ones
// in catalog order. Trading Legend is checked after the others, against the
// badge count they leave behind.
func Evaluate(p *progress.Progress, cat *catalog.Catalog) []catalog.BadgeID {
	var awarded []catalog.BadgeID
	for _, r := range Rules() {
		if r.Met(p, cat) && p.Award(r.Badge) {
			awarded = append(awarded, r.Badge)
		}
	}

	earned := len(p.Badges)
	if earned >= len(cat.Badges())-1 && p.Award(catalog.BadgeTradingLegend) {
		awarded = append(awarded, catalog.BadgeTradingLegend)
	}
	return awarded
}
