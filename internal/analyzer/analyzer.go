// Package analyzer builds a one-screen snapshot of a symbol.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Rhymond/go-money"

	"github.com/abhisek/wallstreet101/internal/market"
)

// ErrNoData is returned when no price can be found for a symbol.
var ErrNoData = errors.New("could not find data for symbol")

// Signal is the momentum reading of the RSI.
type Signal string

const (
	SignalOverbought Signal = "overbought"
	SignalOversold   Signal = "oversold"
	SignalNeutral    Signal = "neutral"
)

// SignalFor classifies an RSI reading.
func SignalFor(rsi float64) Signal {
	switch {
	case rsi > market.RSIOverbought:
		return SignalOverbought
	case rsi < market.RSIOversold:
		return SignalOversold
	default:
		return SignalNeutral
	}
}

// Report is the analyzer output. Indicator pointers are nil when the history
// is too short to compute them.
type Report struct {
	Symbol        string        `json:"symbol"`
	Name          string        `json:"name"`
	Currency      string        `json:"currency,omitempty"`
	Exchange      string        `json:"exchange,omitempty"`
	Price         float64       `json:"price"`
	PreviousClose float64       `json:"previous_close"`
	Change        float64       `json:"change"`
	ChangePct     float64       `json:"change_pct"`
	MA50          *float64      `json:"ma50,omitempty"`
	MA200         *float64      `json:"ma200,omitempty"`
	RSI           *float64      `json:"rsi,omitempty"`
	Signal        Signal        `json:"signal,omitempty"`
	High52        *float64      `json:"high_52w,omitempty"`
	Low52         *float64      `json:"low_52w,omitempty"`
	Trend         market.Trend  `json:"trend"`
	// Profile carries the company figures and headlines. It is empty for
	// funds, currencies and failed lookups.
	Profile market.Profile `json:"profile"`
	History market.Series  `json:"-"`
}

// Title returns "Name (SYMBOL)".
func (r *Report) Title() string {
	return fmt.Sprintf("%s (%s)", r.Name, r.Symbol)
}

// PriceLine formats the price with its daily change.
func (r *Report) PriceLine() string {
	return fmt.Sprintf("$%s  %s (%.2f%%)", commas(r.Price), signed(r.Change), r.ChangePct)
}

// NotAvailable stands in for figures the provider does not report.
const NotAvailable = "N/A"

// MarketCapDisplay formats the market capitalisation in whole dollars.
func (r *Report) MarketCapDisplay() string {
	if r.Profile.MarketCap == nil {
		return NotAvailable
	}
	return "$" + wholeFormatter.Format(int64(math.Round(*r.Profile.MarketCap)))
}

// PEDisplay formats the trailing price to earnings ratio.
func (r *Report) PEDisplay() string {
	if r.Profile.TrailingPE == nil {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f", *r.Profile.TrailingPE)
}

// Analyzer combines quotes and history from a provider.
type Analyzer struct {
	provider market.Provider
}

// New creates an analyzer.
func New(p market.Provider) *Analyzer {
	return &Analyzer{provider: p}
}

// Analyze reports on symbol.
func (a *Analyzer) Analyze(ctx context.Context, symbol string) (*Report, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", ErrNoData)
	}

	r := &Report{Symbol: symbol, Name: symbol, Trend: market.TrendSideways}
	q, ok := a.provider.Quote(ctx, symbol)
	if ok {
		r.Price = q.Price
		r.PreviousClose = q.PreviousClose
		r.Currency = q.Currency
		r.Exchange = q.Exchange
		if q.Name != "" {
			r.Name = q.Name
		}
	}
	if r.Price == 0 {
		if p, ok := a.provider.LastPrice(ctx, symbol); ok {
			r.Price = p
		}
	}
	if r.Price == 0 {
		return nil, fmt.Errorf("%w '%s'", ErrNoData, symbol)
	}

	if r.PreviousClose == 0 {
		closes := a.provider.RecentHistory(ctx, symbol, "5d").Closes()
		if len(closes) >= 2 {
			r.PreviousClose = closes[len(closes)-2]
		} else {
			r.PreviousClose = r.Price
		}
	}
	if r.PreviousClose != 0 {
		r.Change = r.Price - r.PreviousClose
		r.ChangePct = r.Change / r.PreviousClose * 100
	}

	r.History = a.provider.RecentHistory(ctx, symbol, market.DefaultPeriod)
	closes := r.History.Closes()
	r.MA50 = latest(market.SMA(closes, market.ShortMAPeriod))
	r.MA200 = latest(market.SMA(closes, market.LongMAPeriod))
	if rsi := latest(market.RSI(closes, market.RSIPeriod)); rsi != nil {
		r.RSI = rsi
		r.Signal = SignalFor(*rsi)
	}

	year := r.History.Tail(market.TradingDaysPerYear)
	if !year.Empty() {
		highs := make([]float64, year.Len())
		lows := make([]float64, year.Len())
		for i, b := range year.Bars {
			highs[i], lows[i] = b.High, b.Low
		}
		hi, lo := market.High(highs), market.Low(lows)
		r.High52, r.Low52 = &hi, &lo
		r.Trend = market.TrendOf(year.Closes())
	}
	r.Profile = a.provider.Profile(ctx, symbol)
	return r, nil
}

func latest(vals []float64) *float64 {
	v, ok := market.Latest(vals)
	if !ok {
		return nil
	}
	return &v
}

func signed(v float64) string {
	if v < 0 {
		return "-" + commas(-v)
	}
	return "+" + commas(v)
}

var (
	numberFormatter = money.NewFormatter(2, ".", ",", "", "1")
	wholeFormatter  = money.NewFormatter(0, ".", ",", "", "1")
)

// commas formats v with two decimals and thousands separators.
func commas(v float64) string {
	return numberFormatter.Format(int64(math.Round(v * 100)))
}
