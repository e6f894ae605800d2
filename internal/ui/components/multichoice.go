package components

import (
	"fmt"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/wallstreet101/internal/ui/theme"
)

// MaxChoices is the most options the selector labels.
const MaxChoices = 8

var choiceLabels = [MaxChoices]string{"A", "B", "C", "D", "E", "F", "G", "H"}

// ChoiceMsg reports the option the learner picked.
type ChoiceMsg struct {
	Index int
}

// MultiChoice is a multiple-choice selector. It knows nothing about the
// answer key: grading is applied by the caller through Grade.
type MultiChoice struct {
	Question string
	Options  []string
	Selected int

	graded bool
	chosen int
	right  bool
}

// NewMultiChoice creates a new multiple-choice component.
func NewMultiChoice(question string, options []string) MultiChoice {
	if len(options) > MaxChoices {
		options = options[:MaxChoices]
	}
	return MultiChoice{
		Question: question,
		Options:  options,
		chosen:   -1,
	}
}

// Grade locks the selector and marks the chosen option right or wrong.
func (m MultiChoice) Grade(chosen int, right bool) MultiChoice {
	m.graded = true
	m.chosen = chosen
	m.Selected = chosen
	m.right = right
	return m
}

// Graded reports whether the selector is locked.
func (m MultiChoice) Graded() bool { return m.graded }

// Update handles keyboard navigation and selection. Number keys pick an
// option directly.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.graded {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		return m, choose(m.Selected)
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(m.Options) {
			m.Selected = n - 1
			return m, choose(m.Selected)
		}
	}

	return m, nil
}

func choose(i int) tea.Cmd {
	return func() tea.Msg { return ChoiceMsg{Index: i} }
}

// View renders the multiple-choice component.
func (m MultiChoice) View() string {
	questionStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	s := questionStyle.Render(m.Question) + "\n\n"

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.graded {
			prefix = "▸ "
		}

		line := fmt.Sprintf("%s%s)  %s", prefix, choiceLabels[i], opt)

		var style lipgloss.Style
		switch {
		case m.graded && i == m.chosen && m.right:
			style = theme.Correct
		case m.graded && i == m.chosen:
			style = theme.Incorrect
		case m.graded:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Selected:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		s += style.Render(line) + "\n"
	}

	return s
}
