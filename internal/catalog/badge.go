package catalog

// BadgeID identifies an achievement.
type BadgeID string

const (
	BadgeRookie             BadgeID = "rookie"
	BadgeChartMaster        BadgeID = "chart-master"
	BadgeFactFinder         BadgeID = "fact-finder"
	BadgeFundExplorer       BadgeID = "fund-explorer"
	BadgeMarketAnalyst      BadgeID = "market-analyst"
	BadgePortfolioVisionary BadgeID = "portfolio-visionary"
	BadgeKnowledgeTitan     BadgeID = "knowledge-titan"
	BadgeTradingLegend      BadgeID = "trading-legend"
)

// AllBadgeIDs returns all badge IDs in display order.
func AllBadgeIDs() []BadgeID {
	return []BadgeID{
		BadgeRookie,
		BadgeChartMaster,
		BadgeFactFinder,
		BadgeFundExplorer,
		BadgeMarketAnalyst,
		BadgePortfolioVisionary,
		BadgeKnowledgeTitan,
		BadgeTradingLegend,
	}
}

// DisplayName returns the badge's title.
func (b BadgeID) DisplayName() string {
	switch b {
	case BadgeRookie:
		return "Wall Street Rookie"
	case BadgeChartMaster:
		return "Chart Master"
	case BadgeFactFinder:
		return "Fact Finder"
	case BadgeFundExplorer:
		return "Fund Explorer"
	case BadgeMarketAnalyst:
		return "Market Analyst"
	case BadgePortfolioVisionary:
		return "Portfolio Visionary"
	case BadgeKnowledgeTitan:
		return "Knowledge Titan"
	case BadgeTradingLegend:
		return "Trading Legend"
	default:
		return string(b)
	}
}

// Description returns what the learner did to earn the badge.
func (b BadgeID) Description() string {
	switch b {
	case BadgeRookie:
		return "Completed your first learning module!"
	case BadgeChartMaster:
		return "Analyzed 10 interactive charts."
	case BadgeFactFinder:
		return "Discovered 5 mind-blowing market facts."
	case BadgeFundExplorer:
		return "Explored the world of ETFs and Funds."
	case BadgeMarketAnalyst:
		return "Used the Stock Analyzer tool 5 times."
	case BadgePortfolioVisionary:
		return "Calculated 5 'What If' scenarios."
	case BadgeKnowledgeTitan:
		return "Completed all learning modules!"
	case BadgeTradingLegend:
		return "Earned all available badges!"
	default:
		return ""
	}
}

// Icon returns the display icon for the badge.
func (b BadgeID) Icon() string {
	switch b {
	case BadgeRookie:
		return "🔰"
	case BadgeChartMaster:
		return "📊"
	case BadgeFactFinder:
		return "💡"
	case BadgeFundExplorer:
		return "🧭"
	case BadgeMarketAnalyst:
		return "🕵️"
	case BadgePortfolioVisionary:
		return "💸"
	case BadgeKnowledgeTitan:
		return "🧠"
	case BadgeTradingLegend:
		return "👑"
	default:
		return "✦"
	}
}

// Badge is the display record of an achievement.
type Badge struct {
	ID          BadgeID `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
}

// BadgeFor returns the display record for id.
func BadgeFor(id BadgeID) Badge {
	return Badge{
		ID:          id,
		Name:        id.DisplayName(),
		Description: id.Description(),
		Icon:        id.Icon(),
	}
}
