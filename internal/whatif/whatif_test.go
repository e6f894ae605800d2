package whatif

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/wallstreet101/internal/market"
)

type fakeHistory map[string]market.Series

func (f fakeHistory) FullHistory(_ context.Context, symbol string) market.Series {
	if s, ok := f[symbol]; ok {
		return s
	}
	return market.Series{Symbol: symbol}
}

func decimalOf(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func history() fakeHistory {
	// Daily closes 10, 20, 30, 40 from 2020-01-01.
	s := market.Series{Symbol: "NVDA"}
	for i, c := range []float64{10, 20, 30, 40} {
		s.Bars = append(s.Bars, market.Bar{Date: date(2020, 1, 1+i), Close: c})
	}
	return fakeHistory{"NVDA": s}
}

func newCalc(today time.Time) *Calculator {
	c := NewCalculator(history())
	c.SetClock(func() time.Time { return today })
	return c
}

func TestCalculate(t *testing.T) {
	c := newCalc(date(2020, 1, 10))

	res, err := c.Calculate(context.Background(), Request{Symbol: "nvda", Start: date(2020, 1, 2), Amount: 1000})
	require.NoError(t, err)

	assert.Equal(t, "NVDA", res.Symbol)
	assert.True(t, res.StartPrice.Equal(decimalOf(20)))
	assert.True(t, res.EndPrice.Equal(decimalOf(40)))
	assert.True(t, res.Shares.Equal(decimalOf(50)))
	assert.True(t, res.Final.Equal(decimalOf(2000)))
	assert.True(t, res.ROI.Equal(decimalOf(100)))

	require.Len(t, res.Growth, 3)
	assert.Equal(t, []float64{1000, 1500, 2000}, res.GrowthValues())

	assert.Equal(t, "$1,000.00", res.AmountDisplay())
	assert.Equal(t, "$2,000.00", res.FinalDisplay())
	assert.Equal(t, "100.00%", res.ROIDisplay())
	assert.Contains(t, res.Summary(), "NVDA on 2020-01-02")
}

func TestCalculateLoss(t *testing.T) {
	s := market.Series{Symbol: "DROP", Bars: []market.Bar{
		{Date: date(2021, 3, 1), Close: 80},
		{Date: date(2021, 3, 2), Close: 20},
	}}
	c := NewCalculator(fakeHistory{"DROP": s})
	c.SetClock(func() time.Time { return date(2021, 4, 1) })

	res, err := c.Calculate(context.Background(), Request{Symbol: "DROP", Start: date(2021, 3, 1), Amount: 400})
	require.NoError(t, err)
	assert.True(t, res.Final.Equal(decimalOf(100)))
	assert.True(t, res.ROI.Equal(decimalOf(-75)))
	assert.Equal(t, "-75.00%", res.ROIDisplay())
}

func TestCalculateTodayExcluded(t *testing.T) {
	c := newCalc(date(2020, 1, 4))

	res, err := c.Calculate(context.Background(), Request{Symbol: "NVDA", Start: date(2020, 1, 1), Amount: 100})
	require.NoError(t, err)
	assert.True(t, res.EndPrice.Equal(decimalOf(30)), "bar dated today is excluded")
}

func TestCalculateErrors(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		today   time.Time
		wantErr error
		message string
	}{
		{
			name:    "amount below one",
			req:     Request{Symbol: "NVDA", Start: date(2020, 1, 1), Amount: 0},
			wantErr: ErrInvalidAmount,
			message: "Investment amount must be at least $1.",
		},
		{
			name:    "blank symbol",
			req:     Request{Symbol: " ", Start: date(2020, 1, 1), Amount: 10},
			wantErr: ErrInvalidSymbol,
		},
		{
			name:    "unknown symbol",
			req:     Request{Symbol: "zzzz", Start: date(2020, 1, 1), Amount: 10},
			wantErr: ErrInvalidSymbol,
			message: "Invalid symbol 'ZZZZ'. Please enter a valid stock or crypto symbol.",
		},
		{
			name:    "no bars in range",
			req:     Request{Symbol: "NVDA", Start: date(2020, 2, 1), Amount: 10},
			today:   date(2020, 3, 1),
			wantErr: ErrNoData,
			message: "No data found for 'NVDA' in the specified date range. It may not have been trading yet.",
		},
		{
			name:    "start is today",
			req:     Request{Symbol: "NVDA", Start: date(2020, 1, 2), Amount: 10},
			today:   date(2020, 1, 2),
			wantErr: ErrNoData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			today := tt.today
			if today.IsZero() {
				today = date(2020, 1, 10)
			}
			_, err := newCalc(today).Calculate(context.Background(), tt.req)
			require.ErrorIs(t, err, tt.wantErr)
			if tt.message != "" {
				assert.Equal(t, tt.message, Message(tt.req.Symbol, err))
			}
		})
	}
}

func TestCalculateBeforeFirstTrade(t *testing.T) {
	c := newCalc(date(2020, 1, 10))

	_, err := c.Calculate(context.Background(), Request{Symbol: "NVDA", Start: date(2019, 12, 31), Amount: 10})

	var before *BeforeFirstTradeError
	require.True(t, errors.As(err, &before))
	assert.Equal(t, date(2020, 1, 1), before.First)
	assert.Equal(t,
		"Error: This stock did not exist on the selected date. Please pick a date after 2020-01-01.",
		Message("NVDA", err))
}

func TestMessageNil(t *testing.T) {
	assert.Empty(t, Message("NVDA", nil))
	assert.Contains(t, Message("NVDA", errors.New("boom")), "Error: boom")
}
