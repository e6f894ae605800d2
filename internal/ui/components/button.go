package components

import (
	"strings"

	"github.com/abhisek/wallstreet101/internal/ui/theme"
)

// Button is a labelled action with a hotkey.
type Button struct {
	Key     string
	Label   string
	Enabled bool
}

// NewButton creates a new button.
func NewButton(key, label string, enabled bool) Button {
	return Button{Key: key, Label: label, Enabled: enabled}
}

// View renders the button. Disabled buttons are drawn dimmed.
func (b Button) View() string {
	label := "[" + b.Key + "] " + b.Label
	if b.Enabled {
		return theme.ButtonActive.Render(label)
	}
	return theme.ButtonInactive.Render(label)
}

// ButtonRow renders buttons side by side.
func ButtonRow(buttons ...Button) string {
	parts := make([]string, 0, len(buttons))
	for _, b := range buttons {
		parts = append(parts, b.View())
	}
	return strings.Join(parts, "  ")
}
