package learn

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"

	"github.com/abhisek/wallstreet101/internal/catalog"
	"github.com/abhisek/wallstreet101/internal/progress"
	"github.com/abhisek/wallstreet101/internal/session"
	"github.com/abhisek/wallstreet101/internal/ui/components"
	"github.com/abhisek/wallstreet101/internal/ui/theme"
)

const chartHeight = 12

func (s *LearnScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	card := s.sess().CurrentCard()

	sections := []string{s.renderTabs(cw)}
	if v, ok := s.sess().ActiveQuiz(); ok {
		sections = append(sections, s.renderQuiz(v, cw))
	} else {
		sections = append(sections, s.renderCard(card, cw))
		if card.Mastered {
			sections = append(sections, renderReview(card.Card.QuickReview(), cw))
		}
		if chart := s.renderChart(cw); chart != "" {
			sections = append(sections, chart)
		}
	}
	if s.notice != "" {
		sections = append(sections, components.ErrorLine(s.notice))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (s *LearnScreen) renderTabs(cw int) string {
	cur := s.sess().CurrentModule().ID
	var tabs []string
	for _, m := range s.sess().Catalog().Modules() {
		style := theme.ButtonInactive
		if m.ID == cur {
			style = theme.ButtonActive
		}
		tabs = append(tabs, style.Render(m.Title()))
	}
	return lipgloss.NewStyle().Width(cw).Render(lipgloss.JoinHorizontal(lipgloss.Center, tabs...))
}

// cardMarkdown is the flashcard body fed to glamour.
func cardMarkdown(c catalog.Card) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n%s\n\n", c.Term, c.Definition)
	if c.Example != "" {
		fmt.Fprintf(&b, "**Example:** %s\n", c.Example)
	}
	return b.String()
}

// markdown renders md at width, falling back to plain text when glamour
// cannot build a renderer.
func (s *LearnScreen) markdown(md string, width int) string {
	if s.renderer == nil || s.rendererWidth != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return theme.Body.Width(width).Render(md)
		}
		s.renderer, s.rendererWidth = r, width
	}
	out, err := s.renderer.Render(md)
	if err != nil {
		return theme.Body.Width(width).Render(md)
	}
	return strings.Trim(out, "\n")
}

func (s *LearnScreen) renderCard(card session.CardView, cw int) string {
	title := fmt.Sprintf("Card %d of %d", card.Index+1, card.Total)
	if card.Mastered {
		title += "  ✓ Mastered"
	}
	body := s.markdown(cardMarkdown(card.Card), cw-6)

	nav := components.ButtonRow(
		components.NewButton("←", "Previous", card.CanPrev),
		components.NewButton("Enter", card.QuizLabel(), true),
		components.NewButton("→", "Next", card.CanNext),
	)
	return components.Panel(title, body+"\n\n"+nav, cw)
}

func renderReview(r catalog.QuickReview, cw int) string {
	lines := []string{
		theme.Heading.Render(r.Term),
		theme.Body.Render(r.Definition),
	}
	if r.Example != "" {
		lines = append(lines, theme.Hint.Render(r.Example))
	}
	return components.Panel("Quick Review", strings.Join(lines, "\n"), cw)
}

func (s *LearnScreen) renderChart(cw int) string {
	if s.chartKey == "" {
		return ""
	}
	if s.loading {
		return components.Panel("Chart", theme.Hint.Render("Loading market data..."), cw)
	}
	return components.Panel("Chart", components.StudyChart(s.chart, cw-6, chartHeight), cw)
}

func (s *LearnScreen) renderQuiz(v session.QuizView, cw int) string {
	title := fmt.Sprintf("%s: Question %d of %d", v.Term, v.Tier, v.Tiers)
	parts := []string{s.mc.View()}

	switch v.Status {
	case progress.StatusPassed:
		parts = append(parts, theme.Correct.Render("Correct! 🎉"))
		if v.Feedback != "" {
			parts = append(parts, theme.Body.Width(cw-6).Render(v.Feedback))
		}
		if v.Explanation != "" && v.Explanation != v.Feedback {
			parts = append(parts, theme.Hint.Width(cw-6).Render(v.Explanation))
		}
		if v.ModuleComplete {
			parts = append(parts, theme.Heading.Render("Module complete! 🏁"))
		}
		parts = append(parts, components.ButtonRow(
			components.NewButton("T", "Next question", v.HasNextTier),
			components.NewButton("Enter", continueLabel(v), true),
		))
	case progress.StatusFailed:
		parts = append(parts, theme.Incorrect.Render("Not quite..."))
		if v.Feedback != "" {
			parts = append(parts, theme.Body.Width(cw-6).Render(v.Feedback))
		}
		parts = append(parts, components.ButtonRow(components.NewButton("R", "Try again", true)))
	}
	return components.Panel(title, strings.Join(parts, "\n\n"), cw)
}

func continueLabel(v session.QuizView) string {
	if v.HasNextCard {
		return "Next card"
	}
	return "Close quiz"
}
