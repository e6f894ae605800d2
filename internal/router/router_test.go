package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/wallstreet101/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title   string
	inits   int
	left    bool
	lastMsg tea.Msg
}

func (s *stubScreen) Init() tea.Cmd {
	s.inits++
	return nil
}
func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.lastMsg = msg
	return s, nil
}
func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }
func (s *stubScreen) Leave()               { s.left = true }

func TestPush(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if s2.inits != 1 {
		t.Error("expected Init() to run on pushed screen")
	}
}

func TestPopLeavesAndRefreshes(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)
	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
	if r.Active().Title() != "first" {
		t.Errorf("expected active 'first', got %q", r.Active().Title())
	}
	if !s2.left {
		t.Error("expected Leave() on popped screen")
	}
	if s1.inits != 1 {
		t.Errorf("uncovered screen inits = %d, want 1", s1.inits)
	}
}

func TestPopNoopAtBottom(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after pop at bottom, got %d", r.Depth())
	}
	if s1.left {
		t.Error("root screen must not be left")
	}
}

func TestReplace(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)
	s2 := &stubScreen{title: "second"}
	r.Push(s2)

	s3 := &stubScreen{title: "third"}
	r.Update(ReplaceScreenMsg{Screen: s3})

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "third" {
		t.Errorf("expected active 'third', got %q", r.Active().Title())
	}
	if !s2.left || s3.inits != 1 {
		t.Errorf("left = %v, inits = %d; want true, 1", s2.left, s3.inits)
	}
}

func TestPopToRoot(t *testing.T) {
	root := &stubScreen{title: "root"}
	r := New(root)
	a := &stubScreen{title: "a"}
	b := &stubScreen{title: "b"}
	r.Push(a)
	r.Push(b)

	r.Update(PopToRootMsg{})

	if r.Depth() != 1 || r.Active() != root {
		t.Fatalf("depth = %d, active = %q; want 1, root", r.Depth(), r.Active().Title())
	}
	if !a.left || !b.left {
		t.Error("expected every popped screen to be left")
	}
	if root.inits != 1 {
		t.Errorf("root inits = %d, want 1", root.inits)
	}
}

func TestUpdateForwardsToActive(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	s2 := &stubScreen{title: "second"}
	r := New(s1)
	r.Push(s2)

	r.Update("ping")

	if s2.lastMsg != "ping" {
		t.Errorf("active got %v, want ping", s2.lastMsg)
	}
	if s1.lastMsg != nil {
		t.Errorf("inactive screen got %v", s1.lastMsg)
	}
}
