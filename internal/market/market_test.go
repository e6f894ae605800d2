package market

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartJSON = `{
  "chart": {
    "result": [{
      "meta": {
        "symbol": "AAPL",
        "currency": "USD",
        "exchangeName": "NMS",
        "shortName": "Apple Inc.",
        "regularMarketPrice": 12.5,
        "chartPreviousClose": 11.75
      },
      "timestamp": [1704205800, 1704292200, 1704378600],
      "indicators": {
        "quote": [{
          "open":   [10, null, 11],
          "high":   [10.5, null, 12.5],
          "low":    [9.5, null, 10.5],
          "close":  [10, null, 12],
          "volume": [1000, null, 2000]
        }],
        "adjclose": [{"adjclose": [5, null, 6]}]
      }
    }],
    "error": null
  }
}`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()), WithRateLimit(1000, 1000))
}

func TestClientChartDecodes(t *testing.T) {
	var gotPath, gotRange, gotUA string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRange = r.URL.Query().Get("range")
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chartJSON))
	})

	chart, err := c.Chart(context.Background(), "AAPL", "5d")
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/AAPL", gotPath)
	assert.Equal(t, "5d", gotRange)
	assert.NotEmpty(t, gotUA)

	assert.Equal(t, "Apple Inc.", chart.Quote.Name)
	assert.Equal(t, "USD", chart.Quote.Currency)
	assert.Equal(t, "NMS", chart.Quote.Exchange)
	assert.Equal(t, 12.5, chart.Quote.Price)
	assert.Equal(t, 11.75, chart.Quote.PreviousClose)

	require.Equal(t, 2, chart.Series.Len(), "null close is dropped")
	first, last := chart.Series.First(), chart.Series.Last()
	assert.Equal(t, 5.0, first.Close)
	assert.Equal(t, 5.0, first.Open)
	assert.Equal(t, 5.25, first.High)
	assert.Equal(t, 6.0, last.Close)
	assert.Equal(t, 5.5, last.Open)
	assert.Equal(t, 2000.0, last.Volume)
	assert.True(t, first.Date.Before(last.Date))
	assert.Equal(t, 0, first.Date.Hour())
}

func TestClientChartProviderError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	})

	_, err := c.Chart(context.Background(), "ZZZZ", "5d")
	require.Error(t, err)

	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "Not Found", pe.Code)
	assert.Equal(t, http.StatusNotFound, pe.Status)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClientChartBadStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.Chart(context.Background(), "AAPL", "5d")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClientChartEmptyResult(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
	})

	_, err := c.Chart(context.Background(), "AAPL", "5d")
	assert.ErrorIs(t, err, ErrNoData)
}

const summaryJSON = `{
  "quoteSummary": {
    "result": [{
      "assetProfile": {
        "sector": "Technology",
        "industry": "Consumer Electronics",
        "website": "https://www.apple.com",
        "longBusinessSummary": " Apple designs phones. "
      },
      "summaryDetail": {
        "marketCap": {"raw": 3000000000000, "fmt": "3T"},
        "trailingPE": {"raw": 29.5, "fmt": "29.50"}
      }
    }],
    "error": null
  }
}`

func TestClientSummaryDecodes(t *testing.T) {
	var gotPath, gotModules string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotModules = r.URL.Query().Get("modules")
		_, _ = w.Write([]byte(summaryJSON))
	})

	p, err := c.Summary(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "/v10/finance/quoteSummary/AAPL", gotPath)
	assert.Equal(t, "assetProfile,summaryDetail", gotModules)
	assert.Equal(t, "Technology", p.Sector)
	assert.Equal(t, "Consumer Electronics", p.Industry)
	assert.Equal(t, "https://www.apple.com", p.Website)
	assert.Equal(t, "Apple designs phones.", p.Summary)
	require.NotNil(t, p.MarketCap)
	assert.Equal(t, 3e12, *p.MarketCap)
	require.NotNil(t, p.TrailingPE)
	assert.Equal(t, 29.5, *p.TrailingPE)
	assert.Empty(t, p.News)
}

func TestClientSummaryMissingFigures(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"quoteSummary":{"result":[{"summaryDetail":{"marketCap":{},"trailingPE":{}}}],"error":null}}`))
	})

	p, err := c.Summary(context.Background(), "SPY")
	require.NoError(t, err)
	assert.Nil(t, p.MarketCap)
	assert.Nil(t, p.TrailingPE)
	assert.Empty(t, p.Sector)
}

func TestClientSummaryProviderError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"quoteSummary":{"result":null,"error":{"code":"Not Found","description":"Quote not found"}}}`))
	})

	_, err := c.Summary(context.Background(), "ZZZZ")
	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "Not Found", pe.Code)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClientNews(t *testing.T) {
	var query url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/finance/search", r.URL.Path)
		query = r.URL.Query()
		_, _ = w.Write([]byte(`{"news":[
			{"title":"Apple ships","publisher":"Wire","link":"https://example.com/1","providerPublishTime":1704205800},
			{"title":"","publisher":"Wire","link":"https://example.com/blank"},
			{"title":"Apple hires","publisher":"Daily","link":"https://example.com/2"},
			{"title":"Apple again","publisher":"Daily","link":"https://example.com/3"}
		]}`))
	})

	items, err := c.News(context.Background(), "AAPL", 2)
	require.NoError(t, err)

	assert.Equal(t, "AAPL", query.Get("q"))
	assert.Equal(t, "2", query.Get("newsCount"))
	require.Len(t, items, 2, "blank titles skipped, capped at n")
	assert.Equal(t, "Apple ships", items[0].Title)
	assert.Equal(t, "Wire", items[0].Publisher)
	assert.Equal(t, int64(1704205800), items[0].Published.Unix())
	assert.Equal(t, "Apple hires", items[1].Title)
	assert.True(t, items[1].Published.IsZero())
}

func TestClientNewsBadStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.News(context.Background(), "AAPL", 5)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestRangeParams(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		period  string
		rng     string
		start   time.Time
		wantErr bool
	}{
		{period: "5d", rng: "5d"},
		{period: "max", rng: "max"},
		{period: "3y", start: now.AddDate(-3, 0, 0)},
		{period: "9mo", start: now.AddDate(0, -9, 0)},
		{period: "45d", start: now.AddDate(0, 0, -45)},
		{period: "forever", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			v, err := rangeParams(tt.period, now)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.rng != "" {
				assert.Equal(t, tt.rng, v.Get("range"))
				assert.Empty(t, v.Get("period1"))
				return
			}
			assert.Empty(t, v.Get("range"))
			assert.Equal(t, strconv.FormatInt(tt.start.Unix(), 10), v.Get("period1"))
			assert.Equal(t, strconv.FormatInt(now.Unix(), 10), v.Get("period2"))
		})
	}
}

// fakeFetcher serves canned charts and counts calls.
type fakeFetcher struct {
	mu       sync.Mutex
	charts   map[string]*Chart
	profiles map[string]*Profile
	news     map[string][]NewsItem
	err      error
	newsErr  error
	calls    map[string]int
}

func (f *fakeFetcher) Chart(_ context.Context, symbol, period string) (*Chart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[symbol+"|"+period]++
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.charts[symbol]
	if !ok {
		return &Chart{Quote: Quote{Symbol: symbol}, Series: Series{Symbol: symbol}}, nil
	}
	return c, nil
}

func (f *fakeFetcher) Summary(_ context.Context, symbol string) (*Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[symbol+"|summary"]++
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[symbol]
	if !ok {
		return nil, ErrNoData
	}
	return p, nil
}

func (f *fakeFetcher) News(_ context.Context, symbol string, n int) ([]NewsItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.newsErr != nil {
		return nil, f.newsErr
	}
	items := f.news[symbol]
	if len(items) > n {
		items = items[:n]
	}
	return items, nil
}

func (f *fakeFetcher) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func seriesOf(symbol string, closes ...float64) Series {
	s := Series{Symbol: symbol}
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		s.Bars = append(s.Bars, Bar{Date: day.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c})
	}
	return s
}

func newTestService(f Fetcher) *Service {
	return NewService(f, ServiceConfig{}, nil)
}

// shortLived returns a service whose short-lived entries expire after ttl.
func shortLived(f Fetcher, ttl time.Duration) *Service {
	return NewService(f, ServiceConfig{ShortTTL: ttl}, nil)
}

const testTTL = 50 * time.Millisecond

func TestServiceCachesWithinTTL(t *testing.T) {
	f := &fakeFetcher{charts: map[string]*Chart{
		"AAPL": {Quote: Quote{Symbol: "AAPL", Price: 3}, Series: seriesOf("AAPL", 1, 2, 3)},
	}}
	svc := shortLived(f, testTTL)
	ctx := context.Background()

	s := svc.RecentHistory(ctx, "aapl", "3y")
	assert.Equal(t, 3, s.Len())
	svc.RecentHistory(ctx, "AAPL", "3y")
	assert.Equal(t, 1, f.count("AAPL|3y"), "second call served from cache")

	time.Sleep(2 * testTTL)
	svc.RecentHistory(ctx, "AAPL", "3y")
	assert.Equal(t, 2, f.count("AAPL|3y"), "expired entry refetched")
}

func TestServiceReadsDoNotExtendTTL(t *testing.T) {
	f := &fakeFetcher{charts: map[string]*Chart{
		"AAPL": {Series: seriesOf("AAPL", 1, 2)},
	}}
	svc := shortLived(f, 8*testTTL)
	ctx := context.Background()

	svc.RecentHistory(ctx, "AAPL", "3y")
	for i := 0; i < 3; i++ {
		time.Sleep(testTTL)
		svc.RecentHistory(ctx, "AAPL", "3y")
	}
	time.Sleep(6 * testTTL)
	svc.RecentHistory(ctx, "AAPL", "3y")
	assert.Equal(t, 2, f.count("AAPL|3y"))
}

func TestServiceFullHistoryUsesLongTTL(t *testing.T) {
	f := &fakeFetcher{charts: map[string]*Chart{
		"NVDA": {Series: seriesOf("NVDA", 1, 2)},
	}}
	svc := NewService(f, ServiceConfig{ShortTTL: time.Millisecond, LongTTL: time.Hour}, nil)
	ctx := context.Background()

	svc.FullHistory(ctx, "NVDA")
	time.Sleep(10 * time.Millisecond)
	svc.FullHistory(ctx, "NVDA")
	assert.Equal(t, 1, f.count("NVDA|max"), "short TTL does not apply to full history")
}

func TestServiceFailureIsEmpty(t *testing.T) {
	f := &fakeFetcher{err: &ProviderError{Symbol: "AAPL", Status: 500}}
	svc := newTestService(f)
	ctx := context.Background()

	s := svc.RecentHistory(ctx, "AAPL", "3y")
	assert.True(t, s.Empty())
	assert.Equal(t, "AAPL", s.Symbol)

	_, ok := svc.LastPrice(ctx, "AAPL")
	assert.False(t, ok)

	_, ok = svc.Quote(ctx, "AAPL")
	assert.False(t, ok)

	svc.RecentHistory(ctx, "AAPL", "3y")
	assert.Equal(t, 2, f.count("AAPL|3y"), "failures are not cached")
	assert.Equal(t, 0, svc.CacheSize())
}

func TestServiceEmptyNotCached(t *testing.T) {
	f := &fakeFetcher{}
	svc := newTestService(f)
	ctx := context.Background()

	assert.True(t, svc.FullHistory(ctx, "NOPE").Empty())
	assert.True(t, svc.FullHistory(ctx, "NOPE").Empty())
	assert.Equal(t, 2, f.count("NOPE|max"))
}

func TestServiceBlankSymbol(t *testing.T) {
	f := &fakeFetcher{}
	svc := newTestService(f)

	assert.True(t, svc.RecentHistory(context.Background(), "  ", "3y").Empty())
	assert.Equal(t, 0, f.count("|3y"))
}

func TestServiceLastPriceAndQuote(t *testing.T) {
	f := &fakeFetcher{charts: map[string]*Chart{
		"MSFT": {Quote: Quote{Symbol: "MSFT", Price: 410, PreviousClose: 400}, Series: seriesOf("MSFT", 398, 400, 405)},
	}}
	svc := newTestService(f)
	ctx := context.Background()

	p, ok := svc.LastPrice(ctx, "MSFT")
	require.True(t, ok)
	assert.Equal(t, 405.0, p)

	q, ok := svc.Quote(ctx, "msft")
	require.True(t, ok)
	assert.Equal(t, 410.0, q.Price)
	assert.Equal(t, 1, f.count("MSFT|5d"), "quote remembered from the history fetch")
}

func TestServiceSweep(t *testing.T) {
	f := &fakeFetcher{charts: map[string]*Chart{
		"AAPL": {Series: seriesOf("AAPL", 1)},
	}}
	svc := shortLived(f, testTTL)
	ctx := context.Background()

	svc.RecentHistory(ctx, "AAPL", "3y")
	svc.FullHistory(ctx, "AAPL")
	assert.Equal(t, 2, svc.CacheSize())

	time.Sleep(2 * testTTL)
	assert.Equal(t, 1, svc.Sweep())
	assert.Equal(t, 1, svc.CacheSize())
}

func TestServiceProfile(t *testing.T) {
	mcap := 3.1e12
	f := &fakeFetcher{
		profiles: map[string]*Profile{"AAPL": {Sector: "Technology", MarketCap: &mcap}},
		news: map[string][]NewsItem{"AAPL": {
			{Title: "one"}, {Title: "two"}, {Title: "three"}, {Title: "four"}, {Title: "five"}, {Title: "six"},
		}},
	}
	svc := newTestService(f)
	ctx := context.Background()

	p := svc.Profile(ctx, " aapl ")
	assert.Equal(t, "AAPL", p.Symbol)
	assert.Equal(t, "Technology", p.Sector)
	require.NotNil(t, p.MarketCap)
	assert.Equal(t, mcap, *p.MarketCap)
	assert.Len(t, p.News, MaxNews)

	svc.Profile(ctx, "AAPL")
	assert.Equal(t, 1, f.count("AAPL|summary"), "profile cached")
}

func TestServiceProfileKeepsNewsWhenSummaryFails(t *testing.T) {
	f := &fakeFetcher{news: map[string][]NewsItem{"ETF": {{Title: "flows"}}}}
	svc := newTestService(f)

	p := svc.Profile(context.Background(), "ETF")
	assert.Empty(t, p.Sector)
	assert.Len(t, p.News, 1)
}

func TestServiceProfileFailureIsEmpty(t *testing.T) {
	f := &fakeFetcher{err: ErrUnavailable, newsErr: ErrUnavailable}
	svc := newTestService(f)
	ctx := context.Background()

	p := svc.Profile(ctx, "AAPL")
	assert.True(t, p.Empty())
	assert.Equal(t, "AAPL", p.Symbol)

	svc.Profile(ctx, "AAPL")
	assert.Equal(t, 2, f.count("AAPL|summary"), "failures are not cached")
	assert.Empty(t, svc.Profile(ctx, "  ").Symbol)
}

func TestSeriesBetween(t *testing.T) {
	s := seriesOf("X", 1, 2, 3, 4, 5)
	from := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)

	got := s.Between(from, to)
	assert.Equal(t, []float64{2, 3}, got.Closes())
	assert.Equal(t, []float64{4, 5}, s.Tail(2).Closes())
	assert.Equal(t, 5, s.Tail(10).Len())
}

func TestSMA(t *testing.T) {
	got := SMA([]float64{1, 2, 3, 4, 5}, 3)
	require.Len(t, got, 5)
	assert.True(t, math.IsNaN(got[0]))
	assert.True(t, math.IsNaN(got[1]))
	assert.Equal(t, []float64{2, 3, 4}, got[2:])
}

func TestRSI(t *testing.T) {
	rising := make([]float64, 30)
	for i := range rising {
		rising[i] = float64(i + 1)
	}
	got := RSI(rising, RSIPeriod)
	assert.True(t, math.IsNaN(got[RSIPeriod-1]))
	last, ok := Latest(got)
	require.True(t, ok)
	assert.Equal(t, 100.0, last)

	falling := make([]float64, 30)
	for i := range falling {
		falling[i] = float64(100 - i)
	}
	last, _ = Latest(RSI(falling, RSIPeriod))
	assert.Equal(t, 0.0, last)

	flat := []float64{5, 5, 5, 5}
	last, _ = Latest(RSI(flat, 2))
	assert.Equal(t, 50.0, last)

	// Alternating +1/-1 moves balance out.
	mixed := []float64{10, 11, 10, 11, 10}
	got = RSI(mixed, 2)
	assert.InDelta(t, 50.0, got[2], 1e-9)

	_, ok = Latest(RSI([]float64{1, 2}, RSIPeriod))
	assert.False(t, ok, "too short for a reading")
}

func TestBollinger(t *testing.T) {
	b := Bollinger([]float64{1, 2, 3, 4, 5}, 3, 2)
	assert.True(t, math.IsNaN(b.Upper[1]))
	assert.Equal(t, 2.0, b.Middle[2])
	// Sample std of {1,2,3} is 1.
	assert.InDelta(t, 4.0, b.Upper[2], 1e-9)
	assert.InDelta(t, 0.0, b.Lower[2], 1e-9)
}

func TestQuantile(t *testing.T) {
	vals := []float64{4, 1, 3, 2}

	assert.Equal(t, 2.5, Median(vals))
	assert.Equal(t, 3.25, Quantile(vals, 0.75))
	assert.Equal(t, 1.0, Quantile(vals, 0))
	assert.Equal(t, 4.0, Quantile(vals, 1))
	assert.Equal(t, 3.0, Median([]float64{5, 1, 3}))
	assert.True(t, math.IsNaN(Median(nil)))
	assert.Equal(t, []float64{4, 1, 3, 2}, vals, "input left unsorted")
}

func TestHighLow(t *testing.T) {
	vals := []float64{3, 9, 1, 4}
	assert.Equal(t, 9.0, High(vals))
	assert.Equal(t, 1.0, Low(vals))
	assert.True(t, math.IsNaN(High(nil)))
}

func TestTrendOf(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		want   Trend
	}{
		{"drawdown from peak", []float64{100, 120, 90}, TrendBear},
		{"rise from trough", []float64{100, 80, 100}, TrendBull},
		{"range bound", []float64{100, 105, 98, 102}, TrendSideways},
		{"too short", []float64{100}, TrendSideways},
		{"exact threshold", []float64{100, 80}, TrendBear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TrendOf(tt.closes))
		})
	}
}
