// Package whatif is the what-if investment calculator screen.
package whatif

import (
	"context"
	"math/rand/v2"
	"strconv"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/wallstreet101/internal/catalog"
	"github.com/abhisek/wallstreet101/internal/progress"
	"github.com/abhisek/wallstreet101/internal/screen"
	"github.com/abhisek/wallstreet101/internal/ui/components"
	"github.com/abhisek/wallstreet101/internal/ui/layout"
	calc "github.com/abhisek/wallstreet101/internal/whatif"
)

const (
	fieldSymbol = iota
	fieldStart
	fieldAmount
	fieldCount
)

type resultMsg struct {
	seq    int
	symbol string
	result *calc.Result
	err    error
}

// WhatIfScreen replays a past investment up to today.
type WhatIfScreen struct {
	env    *screen.Env
	fields [fieldCount]components.TextInput
	focus  int

	seq     int
	running bool
	result  *calc.Result
	errMsg  string
	fact    *catalog.Fact

	// pick chooses a fact index in [0, n).
	pick func(n int) int
}

var _ screen.Screen = (*WhatIfScreen)(nil)
var _ screen.KeyHintProvider = (*WhatIfScreen)(nil)

// New creates a new WhatIfScreen.
func New(env *screen.Env) *WhatIfScreen {
	s := &WhatIfScreen{env: env, pick: rand.IntN}
	s.fields[fieldSymbol] = components.NewTextInput("Symbol", "AAPL", components.KindSymbol, 12)
	s.fields[fieldStart] = components.NewTextInput("Start date", calc.DateLayout, components.KindDate, len(calc.DateLayout))
	s.fields[fieldAmount] = components.NewTextInput("Amount ($)", "1000", components.KindNumeric, 9)
	return s
}

func (s *WhatIfScreen) Init() tea.Cmd {
	s.fill(s.env.Session.Overview().WhatIf)
	return s.focusField(s.focus)
}

// fill copies stored inputs into the form.
func (s *WhatIfScreen) fill(in progress.WhatIfInputs) {
	s.fields[fieldSymbol].SetValue(in.Symbol)
	if !in.Start.IsZero() {
		s.fields[fieldStart].SetValue(in.Start.Format(calc.DateLayout))
	}
	if in.Amount > 0 {
		s.fields[fieldAmount].SetValue(strconv.Itoa(in.Amount))
	}
}

func (s *WhatIfScreen) focusField(i int) tea.Cmd {
	for f := range s.fields {
		s.fields[f].Blur()
	}
	s.focus = (i + fieldCount) % fieldCount
	return s.fields[s.focus].Focus()
}

func (s *WhatIfScreen) Title() string {
	return "What If Calculator"
}

func (s *WhatIfScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Calculate"},
		{Key: "Ctrl+R", Description: "Fun fact"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *WhatIfScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		return s, s.handleResult(msg)
	case tea.KeyPressMsg:
		switch msg.String() {
		case "tab", "down":
			return s, s.focusField(s.focus + 1)
		case "shift+tab", "up":
			return s, s.focusField(s.focus - 1)
		case "enter":
			return s, s.submit()
		case "ctrl+r":
			return s, s.funFact()
		}
	}

	var cmd tea.Cmd
	s.fields[s.focus], cmd = s.fields[s.focus].Update(msg)
	return s, cmd
}

// funFact loads a random fact into the form.
func (s *WhatIfScreen) funFact() tea.Cmd {
	facts := s.env.Session.Catalog().Facts()
	if len(facts) == 0 {
		return nil
	}
	ctx := context.Background()
	f, err := s.env.Session.TryFact(ctx, s.pick(len(facts)))
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	s.fact = &f
	s.errMsg = ""
	s.result = nil
	s.fill(s.env.Session.Overview().WhatIf)
	return screen.Announce(s.env.Session.NewBadges())
}

// submit counts the use, stores the inputs and starts the calculation.
func (s *WhatIfScreen) submit() tea.Cmd {
	ctx := context.Background()
	sess := s.env.Session
	symbol := s.fields[fieldSymbol].Value()

	sess.RecordWhatIfUse(ctx)
	announce := screen.Announce(sess.NewBadges())

	start, err := time.Parse(calc.DateLayout, s.fields[fieldStart].Value())
	if err != nil {
		s.errMsg = "Please enter the start date as YYYY-MM-DD."
		s.result = nil
		return announce
	}
	amount, err := s.fields[fieldAmount].NumericValue()
	if err != nil {
		amount = 0
	}
	sess.SetWhatIfInputs(ctx, progress.WhatIfInputs{Symbol: symbol, Start: start, Amount: amount})

	s.seq++
	s.running = true
	s.errMsg = ""
	seq, calculator := s.seq, s.env.WhatIf
	req := calc.Request{Symbol: symbol, Start: start, Amount: amount}
	return tea.Batch(announce, func() tea.Msg {
		res, err := calculator.Calculate(context.Background(), req)
		return resultMsg{seq: seq, symbol: symbol, result: res, err: err}
	})
}

func (s *WhatIfScreen) handleResult(msg resultMsg) tea.Cmd {
	if msg.seq != s.seq {
		return nil
	}
	s.running = false
	if msg.err != nil {
		s.result = nil
		s.errMsg = calc.Message(msg.symbol, msg.err)
		return nil
	}
	s.result = msg.result
	s.errMsg = ""
	if len(msg.result.Growth) == 0 {
		return nil
	}
	s.env.Session.RecordChartView(context.Background())
	return screen.Announce(s.env.Session.NewBadges())
}
