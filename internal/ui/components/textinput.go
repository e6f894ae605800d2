package components

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/wallstreet101/internal/ui/theme"
)

// InputKind restricts the characters a TextInput accepts.
type InputKind int

const (
	KindText InputKind = iota
	KindNumeric
	KindDate   // digits and dashes, YYYY-MM-DD
	KindSymbol // letters, digits, dots and dashes, upper-cased
)

// TextInput wraps bubbles/textinput with app styling and a label.
type TextInput struct {
	Model textinput.Model
	Label string
	Kind  InputKind
}

// NewTextInput creates a new styled text input.
func NewTextInput(label, placeholder string, kind InputKind, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	return TextInput{Model: ti, Label: label, Kind: kind}
}

// Focus focuses the field.
func (t *TextInput) Focus() tea.Cmd { return t.Model.Focus() }

// Blur removes focus from the field.
func (t *TextInput) Blur() { t.Model.Blur() }

// Focused reports whether the field has focus.
func (t TextInput) Focused() bool { return t.Model.Focused() }

func (t TextInput) accepts(key string) bool {
	if len(key) != 1 {
		return true
	}
	c := key[0]
	digit := c >= '0' && c <= '9'
	switch t.Kind {
	case KindNumeric:
		return digit
	case KindDate:
		return digit || c == '-'
	case KindSymbol:
		letter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		return letter || digit || c == '.' || c == '-' || c == '^' || c == '='
	}
	return true
}

// Update handles messages, dropping characters the kind does not accept.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && !t.accepts(kmsg.String()) {
		return t, nil
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	if t.Kind == KindSymbol {
		if v := t.Model.Value(); v != strings.ToUpper(v) {
			t.Model.SetValue(strings.ToUpper(v))
		}
	}
	return t, cmd
}

// View renders the label and the field.
func (t TextInput) View() string {
	label := lipgloss.NewStyle().Foreground(theme.TextDim).Width(14).Render(t.Label)
	if t.Model.Focused() {
		label = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Width(14).Render(t.Label)
	}
	return label + t.Model.View()
}

// Value returns the current input value, trimmed.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// SetValue replaces the field's contents.
func (t *TextInput) SetValue(s string) {
	t.Model.SetValue(s)
}

// NumericValue returns the input value as an integer.
func (t TextInput) NumericValue() (int, error) {
	return strconv.Atoi(t.Value())
}
