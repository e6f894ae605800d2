package screen

import (
	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/wallstreet101/internal/analyzer"
	"github.com/abhisek/wallstreet101/internal/badges"
	"github.com/abhisek/wallstreet101/internal/market"
	"github.com/abhisek/wallstreet101/internal/session"
	"github.com/abhisek/wallstreet101/internal/store"
	"github.com/abhisek/wallstreet101/internal/ui/layout"
	"github.com/abhisek/wallstreet101/internal/whatif"
)

// Env carries what screens share. Session is only touched on the update
// loop; market lookups run inside commands.
type Env struct {
	Session  *session.Session
	Market   market.Provider
	Analyzer *analyzer.Analyzer
	WhatIf   *whatif.Calculator

	// EventRepo backs the history screen. Nil hides the journal.
	EventRepo store.EventRepo
	Logger    *zap.Logger
}

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// EscapeHandler is implemented by screens with a nested state, such as an
// open quiz. While HandlesEscape reports true the app forwards Esc to the
// screen instead of popping it.
type EscapeHandler interface {
	HandlesEscape() bool
}

// BadgesAwardedMsg announces badges unlocked by the last interaction.
type BadgesAwardedMsg struct {
	Awards []badges.Award
}

// Announce returns a command emitting BadgesAwardedMsg, or nil when there is
// nothing to announce.
func Announce(awards []badges.Award) tea.Cmd {
	if len(awards) == 0 {
		return nil
	}
	return func() tea.Msg { return BadgesAwardedMsg{Awards: awards} }
}
