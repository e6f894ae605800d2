// Package market fetches daily price history and computes the technical
// indicators used by charts and the analyzer.
package market

import (
	"errors"
	"fmt"
	"time"
)

// Indicator constants.
const (
	RSIOverbought  = 70.0
	RSIOversold    = 30.0
	RSIPeriod      = 14
	ShortMAPeriod  = 50
	LongMAPeriod   = 200
	BollingerN     = 20
	BollingerK     = 2.0
	TrendThreshold = 0.20

	// TradingDaysPerYear bounds the 52-week window.
	TradingDaysPerYear = 252
)

// DefaultPeriod is the history window of charts and the analyzer.
const DefaultPeriod = "3y"

var (
	// ErrUnavailable is returned when the upstream provider cannot serve a request.
	ErrUnavailable = errors.New("market data unavailable")

	// ErrNoData is returned when a lookup succeeds but yields nothing usable.
	ErrNoData = errors.New("no market data")
)

// ProviderError describes an upstream failure.
type ProviderError struct {
	Symbol      string
	Status      int
	Code        string
	Description string
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: provider error %d %s: %s", e.Symbol, e.Status, e.Code, e.Description)
	}
	return fmt.Sprintf("%s: provider returned status %d", e.Symbol, e.Status)
}

func (e *ProviderError) Unwrap() error { return ErrUnavailable }

// Bar is one daily OHLCV point.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Series is a symbol's bars in ascending date order.
type Series struct {
	Symbol string `json:"symbol"`
	Bars   []Bar  `json:"bars"`
}

// Empty reports whether the series has no bars.
func (s Series) Empty() bool { return len(s.Bars) == 0 }

// Len returns the number of bars.
func (s Series) Len() int { return len(s.Bars) }

// Closes returns the closing prices.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Volumes returns the traded volumes.
func (s Series) Volumes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Volume
	}
	return out
}

// First returns the earliest bar. It panics on an empty series.
func (s Series) First() Bar { return s.Bars[0] }

// Last returns the latest bar. It panics on an empty series.
func (s Series) Last() Bar { return s.Bars[len(s.Bars)-1] }

// Between returns the bars with from <= date < to.
func (s Series) Between(from, to time.Time) Series {
	out := Series{Symbol: s.Symbol}
	for _, b := range s.Bars {
		if !b.Date.Before(from) && b.Date.Before(to) {
			out.Bars = append(out.Bars, b)
		}
	}
	return out
}

// Tail returns the last n bars.
func (s Series) Tail(n int) Series {
	if n >= len(s.Bars) {
		return s
	}
	return Series{Symbol: s.Symbol, Bars: s.Bars[len(s.Bars)-n:]}
}

// Quote is the latest market snapshot of a symbol.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Currency      string  `json:"currency"`
	Exchange      string  `json:"exchange"`
	Price         float64 `json:"price"`
	PreviousClose float64 `json:"previous_close"`
}

// MaxNews caps the headlines kept on a profile.
const MaxNews = 5

// NewsItem is one headline about a symbol.
type NewsItem struct {
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Publisher string    `json:"publisher"`
	Published time.Time `json:"published"`
}

// Profile holds a company's fundamentals and its latest headlines. Missing
// figures are nil.
type Profile struct {
	Symbol     string     `json:"symbol"`
	Sector     string     `json:"sector,omitempty"`
	Industry   string     `json:"industry,omitempty"`
	Website    string     `json:"website,omitempty"`
	Summary    string     `json:"summary,omitempty"`
	MarketCap  *float64   `json:"market_cap,omitempty"`
	TrailingPE *float64   `json:"trailing_pe,omitempty"`
	News       []NewsItem `json:"news,omitempty"`
}

// Empty reports whether nothing beyond the symbol is known.
func (p Profile) Empty() bool {
	return p.Sector == "" && p.Industry == "" && p.Website == "" && p.Summary == "" &&
		p.MarketCap == nil && p.TrailingPE == nil && len(p.News) == 0
}
