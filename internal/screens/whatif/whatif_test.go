package whatif

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/wallstreet101/internal/catalog"
	"github.com/abhisek/wallstreet101/internal/catalog/catalogtest"
	"github.com/abhisek/wallstreet101/internal/market/markettest"
	"github.com/abhisek/wallstreet101/internal/screen"
	"github.com/abhisek/wallstreet101/internal/screen/screentest"
	"github.com/abhisek/wallstreet101/internal/session"
	calc "github.com/abhisek/wallstreet101/internal/whatif"
)

var firstTrade = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestWhatIf(t *testing.T) (*WhatIfScreen, *session.Session) {
	t.Helper()
	cat, err := catalog.New(
		[]catalog.Module{catalogtest.Module("alpha", 1)},
		[]catalog.Fact{{Text: "ACME once traded at 131.", Symbol: "ACME", Start: "2024-02-01"}},
		nil,
	)
	require.NoError(t, err)

	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	provider := markettest.New(markettest.Linear("ACME", firstTrade, 300, 100))
	calculator := calc.NewCalculator(provider)
	calculator.SetClock(func() time.Time { return now })

	sess := session.New(cat, session.WithClock(func() time.Time { return now }))
	s := New(&screen.Env{Session: sess, Market: provider, WhatIf: calculator})
	s.pick = func(int) int { return 0 }
	screentest.Drain(s, s.Init())
	return s, sess
}

// setField replaces the contents of field i.
func setField(s *WhatIfScreen, i int, v string) {
	s.fields[i].SetValue(v)
}

func TestCalculateShowsResult(t *testing.T) {
	s, sess := newTestWhatIf(t)
	setField(s, fieldSymbol, "ACME")
	setField(s, fieldStart, "2024-01-01")
	setField(s, fieldAmount, "1000")

	screentest.Press(s, "enter")

	require.NotNil(t, s.result)
	assert.Equal(t, "$3,990.00", s.result.FinalDisplay())
	assert.Contains(t, s.View(100, 50), "$3,990.00")

	c := sess.Progress().Counters
	assert.Equal(t, 1, c.WhatIfUses)
	assert.Equal(t, 1, c.ChartsViewed)

	in := sess.Overview().WhatIf
	assert.Equal(t, "ACME", in.Symbol)
	assert.Equal(t, 1000, in.Amount)
}

func TestErrorsAreShownInline(t *testing.T) {
	s, sess := newTestWhatIf(t)

	setField(s, fieldSymbol, "ACME")
	setField(s, fieldStart, "2023-06-01")
	setField(s, fieldAmount, "1000")
	screentest.Press(s, "enter")
	assert.Contains(t, s.errMsg, "Please pick a date after 2024-01-01.")
	assert.Nil(t, s.result)

	setField(s, fieldSymbol, "NOPE")
	setField(s, fieldStart, "2024-01-01")
	screentest.Press(s, "enter")
	assert.Equal(t, "Invalid symbol 'NOPE'. Please enter a valid stock or crypto symbol.", s.errMsg)

	setField(s, fieldStart, "01/01/2024")
	screentest.Press(s, "enter")
	assert.Contains(t, s.errMsg, "YYYY-MM-DD")

	c := sess.Progress().Counters
	assert.Equal(t, 3, c.WhatIfUses, "every submit counts")
	assert.Equal(t, 0, c.ChartsViewed)
}

func TestFunFactFillsForm(t *testing.T) {
	s, sess := newTestWhatIf(t)

	screentest.Press(s, "ctrl+r")

	require.NotNil(t, s.fact)
	assert.Equal(t, "ACME", s.fields[fieldSymbol].Value())
	assert.Equal(t, "2024-02-01", s.fields[fieldStart].Value())
	assert.Equal(t, "1000", s.fields[fieldAmount].Value())
	assert.Equal(t, 1, sess.Progress().Counters.FactsRead)
	assert.Contains(t, s.View(100, 50), "Did you know?")
}

func TestTabCyclesFocus(t *testing.T) {
	s, _ := newTestWhatIf(t)
	require.Equal(t, fieldSymbol, s.focus)

	screentest.Press(s, "tab")
	assert.Equal(t, fieldStart, s.focus)
	screentest.Press(s, "tab")
	screentest.Press(s, "tab")
	assert.Equal(t, fieldSymbol, s.focus)
	screentest.Press(s, "shift+tab")
	assert.Equal(t, fieldAmount, s.focus)
	assert.True(t, s.fields[fieldAmount].Focused())
}

func TestStaleResultIgnored(t *testing.T) {
	s, _ := newTestWhatIf(t)

	s.Update(resultMsg{seq: s.seq + 5, err: calc.ErrNoData})

	assert.Empty(t, s.errMsg)
}
