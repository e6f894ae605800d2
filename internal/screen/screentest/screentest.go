// Package screentest drives screens from tests.
package screentest

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/wallstreet101/internal/badges"
	"github.com/abhisek/wallstreet101/internal/router"
	"github.com/abhisek/wallstreet101/internal/screen"
)

var named = map[string]rune{
	"enter":     tea.KeyEnter,
	"esc":       tea.KeyEscape,
	"tab":       tea.KeyTab,
	"backspace": tea.KeyBackspace,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
}

// Key builds a key press from its string form, e.g. "enter", "shift+tab",
// "ctrl+r" or "q".
func Key(s string) tea.KeyPressMsg {
	var mod tea.KeyMod
	for {
		switch {
		case strings.HasPrefix(s, "ctrl+"):
			mod |= tea.ModCtrl
			s = strings.TrimPrefix(s, "ctrl+")
			continue
		case strings.HasPrefix(s, "shift+"):
			mod |= tea.ModShift
			s = strings.TrimPrefix(s, "shift+")
			continue
		}
		break
	}
	if code, ok := named[s]; ok {
		return tea.KeyPressMsg{Code: code, Mod: mod}
	}
	r := []rune(s)[0]
	if mod != 0 {
		return tea.KeyPressMsg{Code: r, Mod: mod}
	}
	return tea.KeyPressMsg{Code: r, Text: s}
}

// Type sends each rune of text as a key press.
func Type(s screen.Screen, text string) {
	for _, r := range text {
		Press(s, string(r))
	}
}

// Press sends one key press to a pointer screen and drains the resulting
// commands.
func Press(s screen.Screen, key string) Result {
	next, cmd := s.Update(Key(key))
	return Drain(next, cmd)
}

// Result collects what draining left behind.
type Result struct {
	Awards []badges.Award
	Msgs   []tea.Msg
}

// Drain runs cmd, feeds each produced message back into s and follows the
// commands it returns. Badge announcements and messages meant for the app
// (router moves, quit) are collected instead of delivered.
func Drain(s screen.Screen, cmd tea.Cmd) Result {
	var res Result
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0 && steps < 100; steps++ {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := run(c).(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case screen.BadgesAwardedMsg:
			res.Awards = append(res.Awards, msg.Awards...)
		case tea.KeyPressMsg:
			res.Msgs = append(res.Msgs, msg)
		default:
			if !deliverable(msg) {
				res.Msgs = append(res.Msgs, msg)
				continue
			}
			var next tea.Cmd
			s, next = s.Update(msg)
			queue = append(queue, next)
		}
	}
	return res
}

// cmdTimeout bounds a command. Timers such as cursor blinks never finish in
// time and are dropped.
const cmdTimeout = 100 * time.Millisecond

func run(c tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- c() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdTimeout):
		return nil
	}
}

// deliverable reports whether msg is internal to a screen.
func deliverable(msg tea.Msg) bool {
	switch msg.(type) {
	case tea.QuitMsg, router.PushScreenMsg, router.PopScreenMsg, router.ReplaceScreenMsg, router.PopToRootMsg:
		return false
	}
	return true
}
