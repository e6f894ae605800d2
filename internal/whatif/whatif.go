// Package whatif replays a past investment against price history.
package whatif

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/abhisek/wallstreet101/internal/market"
)

// DateLayout is the layout of dates in requests and messages.
const DateLayout = "2006-01-02"

var (
	// ErrInvalidAmount is returned for an amount below one dollar.
	ErrInvalidAmount = errors.New("investment amount must be at least 1")

	// ErrInvalidSymbol is returned when the symbol has no price history.
	ErrInvalidSymbol = errors.New("invalid symbol")

	// ErrNoData is returned when no bars fall between the start date and today.
	ErrNoData = errors.New("no data in the specified date range")
)

// BeforeFirstTradeError is returned when the start date precedes the
// symbol's first trading day.
type BeforeFirstTradeError struct {
	Symbol string
	First  time.Time
}

func (e *BeforeFirstTradeError) Error() string {
	return fmt.Sprintf("%s did not trade before %s", e.Symbol, e.First.Format(DateLayout))
}

// HistoryProvider serves full price histories.
type HistoryProvider interface {
	FullHistory(ctx context.Context, symbol string) market.Series
}

// Request is one calculation.
type Request struct {
	Symbol string
	Start  time.Time
	Amount int
}

// Point is the investment value on one day.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Result is a completed calculation.
type Result struct {
	Symbol     string          `json:"symbol"`
	Start      time.Time       `json:"start"`
	Amount     decimal.Decimal `json:"amount"`
	StartPrice decimal.Decimal `json:"start_price"`
	EndPrice   decimal.Decimal `json:"end_price"`
	Shares     decimal.Decimal `json:"shares"`
	Final      decimal.Decimal `json:"final_value"`
	ROI        decimal.Decimal `json:"roi_pct"`
	Growth     []Point         `json:"growth"`
}

// AmountDisplay formats the invested amount, e.g. "$1,000.00".
func (r *Result) AmountDisplay() string { return usd(r.Amount) }

// FinalDisplay formats the final value.
func (r *Result) FinalDisplay() string { return usd(r.Final) }

// ROIDisplay formats the return, e.g. "1,234.56%".
func (r *Result) ROIDisplay() string {
	return pctFormatter.Format(r.ROI.Shift(2).Round(0).IntPart())
}

// GrowthValues returns the investment value series.
func (r *Result) GrowthValues() []float64 {
	out := make([]float64, len(r.Growth))
	for i, p := range r.Growth {
		out[i] = p.Value
	}
	return out
}

// Summary returns the headline sentence of a result.
func (r *Result) Summary() string {
	return fmt.Sprintf("An investment of %s in %s on %s would be worth %s today!",
		r.AmountDisplay(), r.Symbol, r.Start.Format(DateLayout), r.FinalDisplay())
}

var pctFormatter = money.NewFormatter(2, ".", ",", "%", "1$")

func usd(d decimal.Decimal) string {
	return money.New(d.Shift(2).Round(0).IntPart(), money.USD).Display()
}

// Calculator runs what-if calculations over a history provider.
type Calculator struct {
	history HistoryProvider
	now     func() time.Time
}

// NewCalculator creates a calculator.
func NewCalculator(h HistoryProvider) *Calculator {
	return &Calculator{history: h, now: time.Now}
}

// SetClock overrides the clock that defines today.
func (c *Calculator) SetClock(now func() time.Time) { c.now = now }

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Calculate replays investing req.Amount in req.Symbol on req.Start and
// holding until today.
func (c *Calculator) Calculate(ctx context.Context, req Request) (*Result, error) {
	if req.Amount < 1 {
		return nil, ErrInvalidAmount
	}
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", ErrInvalidSymbol)
	}

	full := c.history.FullHistory(ctx, symbol)
	if full.Empty() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSymbol, symbol)
	}

	start := day(req.Start)
	first := day(full.First().Date)
	if start.Before(first) {
		return nil, &BeforeFirstTradeError{Symbol: symbol, First: first}
	}

	bars := full.Between(start, day(c.now()))
	if bars.Empty() || bars.First().Close <= 0 {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNoData)
	}

	amount := decimal.NewFromInt(int64(req.Amount))
	startPrice := decimal.NewFromFloat(bars.First().Close)
	endPrice := decimal.NewFromFloat(bars.Last().Close)
	shares := amount.Div(startPrice)
	final := shares.Mul(endPrice)
	roi := final.Sub(amount).Div(amount).Mul(decimal.NewFromInt(100))

	growth := make([]Point, bars.Len())
	for i, b := range bars.Bars {
		growth[i] = Point{Date: b.Date, Value: shares.Mul(decimal.NewFromFloat(b.Close)).InexactFloat64()}
	}

	return &Result{
		Symbol:     symbol,
		Start:      start,
		Amount:     amount,
		StartPrice: startPrice,
		EndPrice:   endPrice,
		Shares:     shares,
		Final:      final,
		ROI:        roi,
		Growth:     growth,
	}, nil
}

// Message renders err as the inline message shown to the learner.
func Message(symbol string, err error) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	var before *BeforeFirstTradeError
	switch {
	case errors.As(err, &before):
		return fmt.Sprintf("Error: This stock did not exist on the selected date. Please pick a date after %s.",
			before.First.Format(DateLayout))
	case errors.Is(err, ErrInvalidSymbol):
		return fmt.Sprintf("Invalid symbol '%s'. Please enter a valid stock or crypto symbol.", symbol)
	case errors.Is(err, ErrNoData):
		return fmt.Sprintf("No data found for '%s' in the specified date range. It may not have been trading yet.", symbol)
	case errors.Is(err, ErrInvalidAmount):
		return "Investment amount must be at least $1."
	case err != nil:
		return "An error occurred. Please check the symbol and date. Error: " + err.Error()
	default:
		return ""
	}
}
