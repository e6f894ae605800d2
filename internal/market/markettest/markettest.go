// Package markettest provides an in-memory market provider for tests.
package markettest

import (
	"context"
	"strings"
	"time"

	"github.com/abhisek/wallstreet101/internal/market"
)

// Linear returns n daily bars for symbol starting at from, closing at
// base, base+1, base+2 and so on.
func Linear(symbol string, from time.Time, n int, base float64) market.Series {
	s := market.Series{Symbol: symbol}
	for i := 0; i < n; i++ {
		v := base + float64(i)
		s.Bars = append(s.Bars, market.Bar{
			Date: from.AddDate(0, 0, i), Open: v, High: v + 1, Low: v - 1, Close: v, Volume: 1000,
		})
	}
	return s
}

// Provider serves fixed series keyed by symbol. Unknown symbols yield empty
// results, the way the caching service reports upstream failures.
type Provider struct {
	Series   map[string]market.Series
	Quotes   map[string]market.Quote
	Profiles map[string]market.Profile
}

// New returns a provider serving the given series.
func New(series ...market.Series) *Provider {
	p := &Provider{
		Series:   map[string]market.Series{},
		Quotes:   map[string]market.Quote{},
		Profiles: map[string]market.Profile{},
	}
	for _, s := range series {
		p.Series[strings.ToUpper(s.Symbol)] = s
	}
	return p
}

func (p *Provider) lookup(symbol string) market.Series {
	if s, ok := p.Series[strings.ToUpper(symbol)]; ok {
		return s
	}
	return market.Series{Symbol: symbol}
}

func (p *Provider) RecentHistory(_ context.Context, symbol, _ string) market.Series {
	return p.lookup(symbol)
}

func (p *Provider) FullHistory(_ context.Context, symbol string) market.Series {
	return p.lookup(symbol)
}

func (p *Provider) LastPrice(_ context.Context, symbol string) (float64, bool) {
	s := p.lookup(symbol)
	if s.Empty() {
		return 0, false
	}
	return s.Last().Close, true
}

func (p *Provider) Quote(_ context.Context, symbol string) (market.Quote, bool) {
	q, ok := p.Quotes[strings.ToUpper(symbol)]
	return q, ok
}

func (p *Provider) Profile(_ context.Context, symbol string) market.Profile {
	symbol = strings.ToUpper(symbol)
	if pr, ok := p.Profiles[symbol]; ok {
		return pr
	}
	return market.Profile{Symbol: symbol}
}
