package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the Yahoo Finance query host.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

const userAgent = "Mozilla/5.0 (compatible; ws101/1.0)"

// Client talks to the Yahoo chart, quote summary and search APIs.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	now     func() time.Time
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL points the client at another host, such as a test server.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient sets the transport client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// WithRateLimit throttles requests to rps per second with the given burst.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// NewClient creates an API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(4), 8),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Chart is a decoded chart response.
type Chart struct {
	Quote  Quote
	Series Series
}

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Symbol             string   `json:"symbol"`
		Currency           string   `json:"currency"`
		ExchangeName       string   `json:"exchangeName"`
		LongName           string   `json:"longName"`
		ShortName          string   `json:"shortName"`
		RegularMarketPrice *float64 `json:"regularMarketPrice"`
		ChartPreviousClose *float64 `json:"chartPreviousClose"`
		PreviousClose      *float64 `json:"previousClose"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*float64 `json:"volume"`
		} `json:"quote"`
		AdjClose []struct {
			AdjClose []*float64 `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

// yahooRanges are the range values the chart API accepts directly.
var yahooRanges = map[string]bool{
	"1d": true, "5d": true, "1mo": true, "3mo": true, "6mo": true,
	"1y": true, "2y": true, "5y": true, "10y": true, "ytd": true, "max": true,
}

var periodRe = regexp.MustCompile(`^(\d+)(d|mo|y)$`)

// rangeParams translates a period such as "3y" into query parameters. Periods
// the API does not accept as a range become an explicit start and end.
func rangeParams(period string, now time.Time) (url.Values, error) {
	v := url.Values{}
	if yahooRanges[period] {
		v.Set("range", period)
		return v, nil
	}
	m := periodRe.FindStringSubmatch(period)
	if m == nil {
		return nil, fmt.Errorf("unsupported period %q", period)
	}
	n, _ := strconv.Atoi(m[1])
	var start time.Time
	switch m[2] {
	case "d":
		start = now.AddDate(0, 0, -n)
	case "mo":
		start = now.AddDate(0, -n, 0)
	case "y":
		start = now.AddDate(-n, 0, 0)
	}
	v.Set("period1", strconv.FormatInt(start.Unix(), 10))
	v.Set("period2", strconv.FormatInt(now.Unix(), 10))
	return v, nil
}

// get performs a throttled GET against the API and returns the status and
// body. Transport failures wrap ErrUnavailable.
func (c *Client) get(ctx context.Context, symbol, path string, params url.Values) (int, []byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, nil, err
	}

	addr := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: %w: %v", symbol, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read %s: %w", symbol, err)
	}
	return resp.StatusCode, body, nil
}

// Chart fetches daily bars for symbol over period.
func (c *Client) Chart(ctx context.Context, symbol, period string) (*Chart, error) {
	params, err := rangeParams(period, c.now())
	if err != nil {
		return nil, err
	}
	params.Set("interval", "1d")
	params.Set("events", "div,splits")

	status, body, err := c.get(ctx, symbol, "/v8/finance/chart/"+url.PathEscape(symbol), params)
	if err != nil {
		return nil, err
	}

	var payload chartResponse
	decodeErr := json.Unmarshal(body, &payload)
	if e := payload.Chart.Error; e != nil {
		return nil, &ProviderError{Symbol: symbol, Status: status, Code: e.Code, Description: e.Description}
	}
	if status != http.StatusOK {
		return nil, &ProviderError{Symbol: symbol, Status: status}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode chart %s: %w", symbol, decodeErr)
	}
	if len(payload.Chart.Result) == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNoData)
	}
	return decodeChart(symbol, payload.Chart.Result[0]), nil
}

// decodeChart converts a raw result into bars. Prices are adjusted by the
// ratio of adjusted to raw close; points without a close are dropped.
func decodeChart(symbol string, r chartResult) *Chart {
	out := &Chart{
		Quote: Quote{
			Symbol:   symbol,
			Name:     r.Meta.LongName,
			Currency: r.Meta.Currency,
			Exchange: r.Meta.ExchangeName,
		},
		Series: Series{Symbol: symbol},
	}
	if out.Quote.Name == "" {
		out.Quote.Name = r.Meta.ShortName
	}
	if r.Meta.RegularMarketPrice != nil {
		out.Quote.Price = *r.Meta.RegularMarketPrice
	}
	switch {
	case r.Meta.PreviousClose != nil:
		out.Quote.PreviousClose = *r.Meta.PreviousClose
	case r.Meta.ChartPreviousClose != nil:
		out.Quote.PreviousClose = *r.Meta.ChartPreviousClose
	}

	if len(r.Indicators.Quote) == 0 {
		return out
	}
	q := r.Indicators.Quote[0]
	var adj []*float64
	if len(r.Indicators.AdjClose) > 0 {
		adj = r.Indicators.AdjClose[0].AdjClose
	}

	for i, ts := range r.Timestamp {
		closeP := at(q.Close, i)
		if closeP == nil {
			continue
		}
		factor := 1.0
		price := *closeP
		if a := at(adj, i); a != nil && price != 0 {
			factor = *a / price
			price = *a
		}
		b := Bar{
			Date:  time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Close: price,
			Open:  price,
			High:  price,
			Low:   price,
		}
		if v := at(q.Open, i); v != nil {
			b.Open = *v * factor
		}
		if v := at(q.High, i); v != nil {
			b.High = *v * factor
		}
		if v := at(q.Low, i); v != nil {
			b.Low = *v * factor
		}
		if v := at(q.Volume, i); v != nil {
			b.Volume = *v
		}
		out.Series.Bars = append(out.Series.Bars, b)
	}
	return out
}

func at(vals []*float64, i int) *float64 {
	if i < len(vals) {
		return vals[i]
	}
	return nil
}
