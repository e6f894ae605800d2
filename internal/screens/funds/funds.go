// Package funds is the fund explorer: a list of funds with a price chart
// for the highlighted one.
package funds

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/wallstreet101/internal/catalog"
	"github.com/abhisek/wallstreet101/internal/charts"
	"github.com/abhisek/wallstreet101/internal/market"
	"github.com/abhisek/wallstreet101/internal/screen"
	"github.com/abhisek/wallstreet101/internal/ui/components"
	"github.com/abhisek/wallstreet101/internal/ui/layout"
	"github.com/abhisek/wallstreet101/internal/ui/theme"
)

const chartHeight = 10

type chartLoadedMsg struct {
	symbol string
	view   charts.View
}

// FundsScreen lists the catalog's funds.
type FundsScreen struct {
	env    *screen.Env
	funds  []catalog.Fund
	cursor int

	// charts caches studies by symbol for the lifetime of the screen.
	charts  map[string]charts.View
	pending string
}

var _ screen.Screen = (*FundsScreen)(nil)
var _ screen.KeyHintProvider = (*FundsScreen)(nil)

// New creates a new FundsScreen.
func New(env *screen.Env) *FundsScreen {
	return &FundsScreen{
		env:    env,
		funds:  env.Session.Catalog().Funds(),
		charts: map[string]charts.View{},
	}
}

func (s *FundsScreen) Init() tea.Cmd {
	s.env.Session.VisitFunds(context.Background())
	return tea.Batch(screen.Announce(s.env.Session.NewBadges()), s.loadChart())
}

func (s *FundsScreen) Title() string {
	return "Fund Explorer"
}

func (s *FundsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Browse"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *FundsScreen) selected() (catalog.Fund, bool) {
	if s.cursor < 0 || s.cursor >= len(s.funds) {
		return catalog.Fund{}, false
	}
	return s.funds[s.cursor], true
}

func (s *FundsScreen) loadChart() tea.Cmd {
	f, ok := s.selected()
	if !ok || f.Symbol == "" {
		return nil
	}
	if _, ok := s.charts[f.Symbol]; ok || s.pending == f.Symbol {
		return nil
	}
	s.pending = f.Symbol
	provider, symbol := s.env.Market, f.Symbol
	return func() tea.Msg {
		series := provider.RecentHistory(context.Background(), symbol, market.DefaultPeriod)
		return chartLoadedMsg{symbol: symbol, view: charts.Study(series, catalog.ConceptPrice)}
	}
}

func (s *FundsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case chartLoadedMsg:
		s.charts[msg.symbol] = msg.view
		if s.pending == msg.symbol {
			s.pending = ""
		}
		if msg.view.Empty() {
			return s, s.loadChart()
		}
		s.env.Session.RecordChartView(context.Background())
		return s, tea.Batch(screen.Announce(s.env.Session.NewBadges()), s.loadChart())
	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.funds)-1 {
				s.cursor++
			}
		default:
			return s, nil
		}
		return s, s.loadChart()
	}
	return s, nil
}

func (s *FundsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if len(s.funds) == 0 {
		return components.Center(components.Message("No funds in the catalog.", cw), width, height)
	}

	var list strings.Builder
	for i, f := range s.funds {
		line := fmt.Sprintf("%-28s %s", f.Name, theme.Hint.Render(f.Type))
		if i == s.cursor {
			list.WriteString(theme.Selected.Render("▸ "+line) + "\n")
		} else {
			list.WriteString(theme.Unselected.Render("  "+line) + "\n")
		}
	}

	sections := []string{components.Panel("Funds", strings.TrimRight(list.String(), "\n"), cw)}
	if f, ok := s.selected(); ok {
		sections = append(sections, s.renderDetail(f, cw))
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (s *FundsScreen) renderDetail(f catalog.Fund, cw int) string {
	lines := []string{
		theme.Heading.Render(f.Name),
		fmt.Sprintf("%s  %s", theme.Hint.Render("Type:"), f.Type),
		fmt.Sprintf("%s  %s", theme.Hint.Render("Average return:"), lipgloss.NewStyle().Foreground(theme.Success).Render(f.AvgReturn)),
		"",
		theme.Body.Width(cw - 6).Render(f.Description),
	}
	if f.Symbol != "" {
		lines = append(lines, "")
		if v, ok := s.charts[f.Symbol]; ok {
			lines = append(lines, components.StudyChart(v, cw-6, chartHeight))
		} else {
			lines = append(lines, theme.Hint.Render("Loading market data..."))
		}
	}
	return components.Panel(f.Symbol, strings.Join(lines, "\n"), cw)
}
