package market

import (
	"context"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"go.uber.org/zap"
)

// Provider serves market data. Failures come back as empty results.
type Provider interface {
	RecentHistory(ctx context.Context, symbol, period string) Series
	FullHistory(ctx context.Context, symbol string) Series
	LastPrice(ctx context.Context, symbol string) (float64, bool)
	Quote(ctx context.Context, symbol string) (Quote, bool)
	Profile(ctx context.Context, symbol string) Profile
}

// Fetcher is the upstream the service caches in front of.
type Fetcher interface {
	Chart(ctx context.Context, symbol, period string) (*Chart, error)
	Summary(ctx context.Context, symbol string) (*Profile, error)
	News(ctx context.Context, symbol string, n int) ([]NewsItem, error)
}

// Default cache lifetimes.
const (
	DefaultShortTTL = 10 * time.Minute
	DefaultLongTTL  = time.Hour
)

// Service caches a Fetcher and implements Provider.
type Service struct {
	fetcher Fetcher
	logger  *zap.Logger
	timeout time.Duration

	recent   *ttlcache.Cache[string, Series]
	full     *ttlcache.Cache[string, Series]
	quotes   *ttlcache.Cache[string, Quote]
	profiles *ttlcache.Cache[string, Profile]
}

// ServiceConfig tunes a Service. Zero values select defaults.
type ServiceConfig struct {
	ShortTTL time.Duration
	LongTTL  time.Duration
	Timeout  time.Duration
}

// NewService creates a caching provider over f.
func NewService(f Fetcher, cfg ServiceConfig, logger *zap.Logger) *Service {
	if cfg.ShortTTL <= 0 {
		cfg.ShortTTL = DefaultShortTTL
	}
	if cfg.LongTTL <= 0 {
		cfg.LongTTL = DefaultLongTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		fetcher:  f,
		logger:   logger,
		timeout:  cfg.Timeout,
		recent:   newCache[Series](cfg.ShortTTL),
		full:     newCache[Series](cfg.LongTTL),
		quotes:   newCache[Quote](cfg.ShortTTL),
		profiles: newCache[Profile](cfg.ShortTTL),
	}
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

func (s *Service) fetch(ctx context.Context, symbol, period string) *Chart {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	start := time.Now()
	c, err := s.fetcher.Chart(ctx, symbol, period)
	if err != nil {
		s.logger.Warn("market fetch failed",
			zap.String("symbol", symbol),
			zap.String("period", period),
			zap.Error(err),
		)
		return nil
	}
	s.logger.Debug("market fetch",
		zap.String("symbol", symbol),
		zap.String("period", period),
		zap.Int("bars", c.Series.Len()),
		zap.Duration("took", time.Since(start)),
	)
	return c
}

// RecentHistory returns daily bars over period, such as "3y".
func (s *Service) RecentHistory(ctx context.Context, symbol, period string) Series {
	symbol = normalize(symbol)
	if symbol == "" {
		return Series{}
	}
	if period == "" {
		period = DefaultPeriod
	}
	key := symbol + "|" + period
	if v, ok := lookup(s.recent, key); ok {
		return v
	}
	c := s.fetch(ctx, symbol, period)
	if c == nil || c.Series.Empty() {
		return Series{Symbol: symbol}
	}
	store(s.recent, key, c.Series)
	s.rememberQuote(c.Quote)
	return c.Series
}

// FullHistory returns every bar since the symbol's first trading day.
func (s *Service) FullHistory(ctx context.Context, symbol string) Series {
	symbol = normalize(symbol)
	if symbol == "" {
		return Series{}
	}
	if v, ok := lookup(s.full, symbol); ok {
		return v
	}
	c := s.fetch(ctx, symbol, "max")
	if c == nil || c.Series.Empty() {
		return Series{Symbol: symbol}
	}
	store(s.full, symbol, c.Series)
	return c.Series
}

// LastPrice returns the latest close over the past few sessions.
func (s *Service) LastPrice(ctx context.Context, symbol string) (float64, bool) {
	recent := s.RecentHistory(ctx, symbol, "5d")
	if recent.Empty() {
		return 0, false
	}
	return recent.Last().Close, true
}

// Quote returns the latest snapshot of symbol.
func (s *Service) Quote(ctx context.Context, symbol string) (Quote, bool) {
	symbol = normalize(symbol)
	if symbol == "" {
		return Quote{}, false
	}
	if q, ok := lookup(s.quotes, symbol); ok {
		return q, true
	}
	c := s.fetch(ctx, symbol, "5d")
	if c == nil || (c.Quote.Price == 0 && c.Series.Empty()) {
		return Quote{}, false
	}
	store(s.quotes, symbol, c.Quote)
	if !c.Series.Empty() {
		store(s.recent, symbol+"|5d", c.Series)
	}
	return c.Quote, true
}

func (s *Service) rememberQuote(q Quote) {
	if q.Price == 0 {
		return
	}
	if _, ok := lookup(s.quotes, q.Symbol); !ok {
		store(s.quotes, q.Symbol, q)
	}
}

// Profile returns the company profile and recent headlines of symbol. Either
// half may be missing when its lookup fails; nothing is cached when both do.
func (s *Service) Profile(ctx context.Context, symbol string) Profile {
	symbol = normalize(symbol)
	if symbol == "" {
		return Profile{}
	}
	if p, ok := lookup(s.profiles, symbol); ok {
		return p
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	p := Profile{Symbol: symbol}
	if summary, err := s.fetcher.Summary(ctx, symbol); err != nil {
		s.logger.Warn("profile fetch failed", zap.String("symbol", symbol), zap.Error(err))
	} else {
		p = *summary
		p.Symbol = symbol
	}
	if news, err := s.fetcher.News(ctx, symbol, MaxNews); err != nil {
		s.logger.Warn("news fetch failed", zap.String("symbol", symbol), zap.Error(err))
	} else {
		p.News = news
	}
	if p.Empty() {
		return p
	}
	store(s.profiles, symbol, p)
	return p
}

// Sweep evicts expired cache entries and returns how many were dropped.
func (s *Service) Sweep() int {
	return sweep(s.recent) + sweep(s.full) + sweep(s.quotes) + sweep(s.profiles)
}

// CacheSize returns the number of entries held, including expired ones not
// yet swept.
func (s *Service) CacheSize() int {
	return s.recent.Len() + s.full.Len() + s.quotes.Len() + s.profiles.Len()
}
