// Package analyzer is the stock analyzer screen.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	analysis "github.com/abhisek/wallstreet101/internal/analyzer"
	"github.com/abhisek/wallstreet101/internal/catalog"
	"github.com/abhisek/wallstreet101/internal/charts"
	"github.com/abhisek/wallstreet101/internal/market"
	"github.com/abhisek/wallstreet101/internal/screen"
	"github.com/abhisek/wallstreet101/internal/ui/components"
	"github.com/abhisek/wallstreet101/internal/ui/layout"
	"github.com/abhisek/wallstreet101/internal/ui/theme"
)

const (
	chartHeight  = 12
	summaryLimit = 400
)

type reportMsg struct {
	seq    int
	report *analysis.Report
	err    error
}

// AnalyzerScreen looks up a symbol and shows its indicators.
type AnalyzerScreen struct {
	env   *screen.Env
	input components.TextInput

	seq     int
	running bool
	report  *analysis.Report
	chart   charts.View
	errMsg  string
}

var _ screen.Screen = (*AnalyzerScreen)(nil)
var _ screen.KeyHintProvider = (*AnalyzerScreen)(nil)

// New creates a new AnalyzerScreen.
func New(env *screen.Env) *AnalyzerScreen {
	return &AnalyzerScreen{
		env:   env,
		input: components.NewTextInput("Symbol", "AAPL", components.KindSymbol, 12),
	}
}

func (s *AnalyzerScreen) Init() tea.Cmd {
	if v := s.env.Session.Overview().AnalyzerSymbol; v != "" && s.input.Value() == "" {
		s.input.SetValue(v)
	}
	return s.input.Focus()
}

func (s *AnalyzerScreen) Title() string {
	return "Stock Analyzer"
}

func (s *AnalyzerScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Analyze"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *AnalyzerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case reportMsg:
		if msg.seq != s.seq {
			return s, nil
		}
		s.running = false
		if msg.err != nil {
			s.report = nil
			s.errMsg = errorMessage(msg.err)
			return s, nil
		}
		s.report = msg.report
		s.chart = charts.Study(msg.report.History, catalog.ConceptPrice)
		s.errMsg = ""
		return s, nil
	case tea.KeyPressMsg:
		if msg.String() == "enter" {
			return s, s.analyze()
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func errorMessage(err error) string {
	if errors.Is(err, analysis.ErrNoData) {
		msg := err.Error()
		return strings.ToUpper(msg[:1]) + msg[1:] + "."
	}
	return "Error: " + err.Error()
}

// analyze counts the use and starts the lookup.
func (s *AnalyzerScreen) analyze() tea.Cmd {
	symbol := s.input.Value()
	if symbol == "" {
		s.errMsg = "Enter a symbol to analyze."
		return nil
	}
	ctx := context.Background()
	s.env.Session.SetAnalyzerSymbol(ctx, symbol)
	s.env.Session.RecordAnalyzerUse(ctx)

	s.seq++
	s.running = true
	s.errMsg = ""
	seq, a := s.seq, s.env.Analyzer
	return tea.Batch(screen.Announce(s.env.Session.NewBadges()), func() tea.Msg {
		r, err := a.Analyze(context.Background(), symbol)
		return reportMsg{seq: seq, report: r, err: err}
	})
}

func (s *AnalyzerScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	sections := []string{components.Panel("Analyze a stock", s.input.View(), cw)}

	switch {
	case s.running:
		sections = append(sections, components.Message("Fetching market data...", cw))
	case s.errMsg != "":
		sections = append(sections, components.Panel("", components.ErrorLine(s.errMsg), cw))
	case s.report != nil:
		sections = append(sections, renderReport(s.report, cw))
		if !s.report.Profile.Empty() {
			sections = append(sections, renderProfile(s.report.Profile, cw))
		}
		sections = append(sections, components.Panel("Chart", components.StudyChart(s.chart, cw-6, chartHeight), cw))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func metric(label, value string) string {
	return fmt.Sprintf("%s %s", theme.Hint.Width(16).Render(label), theme.Body.Render(value))
}

func optional(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *v)
}

func renderReport(r *analysis.Report, cw int) string {
	price := lipgloss.NewStyle().Foreground(theme.Change(r.Change)).Bold(true).Render(r.PriceLine())

	rsi := optional(r.RSI)
	if r.Signal != "" && r.Signal != analysis.SignalNeutral {
		rsi += " (" + string(r.Signal) + ")"
	}

	lines := []string{
		price,
		"",
		metric("Market cap", r.MarketCapDisplay()),
		metric("P/E ratio", r.PEDisplay()),
		"",
		metric("50-day MA", optional(r.MA50)),
		metric("200-day MA", optional(r.MA200)),
		metric("RSI (14)", rsi),
		metric("52-week high", optional(r.High52)),
		metric("52-week low", optional(r.Low52)),
		metric("Trend", r.Trend.Label()),
	}
	if r.Exchange != "" {
		lines = append(lines, metric("Exchange", r.Exchange))
	}
	return components.Panel(r.Title(), strings.Join(lines, "\n"), cw)
}

func orNA(s string) string {
	if s == "" {
		return analysis.NotAvailable
	}
	return s
}

// renderProfile shows the company profile and the latest headlines.
func renderProfile(p market.Profile, cw int) string {
	lines := []string{
		metric("Sector", orNA(p.Sector)),
		metric("Industry", orNA(p.Industry)),
		metric("Website", orNA(p.Website)),
	}
	if p.Summary != "" {
		lines = append(lines, "", theme.Body.Width(cw-6).Render(truncate(p.Summary, summaryLimit)))
	}

	lines = append(lines, "", theme.Heading.Render("Recent News"))
	if len(p.News) == 0 {
		lines = append(lines, theme.Hint.Render("No recent news found."))
	}
	for _, n := range p.News {
		line := "• " + n.Title
		if n.Publisher != "" {
			line += theme.Hint.Render(" - " + n.Publisher)
		}
		lines = append(lines, theme.Body.Width(cw-6).Render(line))
	}
	return components.Panel("Company Profile", strings.Join(lines, "\n"), cw)
}

// truncate cuts s to at most n runes, ending on a word boundary.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	cut := string(r[:n])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut + "..."
}
