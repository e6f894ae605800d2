package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// profileModules are the quote summary modules a profile is read from.
const profileModules = "assetProfile,summaryDetail"

type rawValue struct {
	Raw *float64 `json:"raw"`
}

type summaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			AssetProfile *struct {
				Sector              string `json:"sector"`
				Industry            string `json:"industry"`
				Website             string `json:"website"`
				LongBusinessSummary string `json:"longBusinessSummary"`
			} `json:"assetProfile"`
			SummaryDetail *struct {
				MarketCap  rawValue `json:"marketCap"`
				TrailingPE rawValue `json:"trailingPE"`
			} `json:"summaryDetail"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

type searchResponse struct {
	News []struct {
		Title               string `json:"title"`
		Publisher           string `json:"publisher"`
		Link                string `json:"link"`
		ProviderPublishTime int64  `json:"providerPublishTime"`
	} `json:"news"`
}

// Summary fetches the company profile and valuation figures of symbol. The
// result carries no news.
func (c *Client) Summary(ctx context.Context, symbol string) (*Profile, error) {
	params := url.Values{}
	params.Set("modules", profileModules)

	status, body, err := c.get(ctx, symbol, "/v10/finance/quoteSummary/"+url.PathEscape(symbol), params)
	if err != nil {
		return nil, err
	}

	var payload summaryResponse
	decodeErr := json.Unmarshal(body, &payload)
	if e := payload.QuoteSummary.Error; e != nil {
		return nil, &ProviderError{Symbol: symbol, Status: status, Code: e.Code, Description: e.Description}
	}
	if status != http.StatusOK {
		return nil, &ProviderError{Symbol: symbol, Status: status}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode summary %s: %w", symbol, decodeErr)
	}
	if len(payload.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNoData)
	}

	res := payload.QuoteSummary.Result[0]
	p := &Profile{Symbol: symbol}
	if a := res.AssetProfile; a != nil {
		p.Sector = a.Sector
		p.Industry = a.Industry
		p.Website = a.Website
		p.Summary = strings.TrimSpace(a.LongBusinessSummary)
	}
	if d := res.SummaryDetail; d != nil {
		p.MarketCap = d.MarketCap.Raw
		p.TrailingPE = d.TrailingPE.Raw
	}
	return p, nil
}

// News fetches up to n recent headlines about symbol.
func (c *Client) News(ctx context.Context, symbol string, n int) ([]NewsItem, error) {
	params := url.Values{}
	params.Set("q", symbol)
	params.Set("quotesCount", "0")
	params.Set("newsCount", strconv.Itoa(n))

	status, body, err := c.get(ctx, symbol, "/v1/finance/search", params)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &ProviderError{Symbol: symbol, Status: status}
	}

	var payload searchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode news %s: %w", symbol, err)
	}
	out := make([]NewsItem, 0, min(len(payload.News), n))
	for _, item := range payload.News {
		if len(out) == n {
			break
		}
		if item.Title == "" {
			continue
		}
		ni := NewsItem{Title: item.Title, Link: item.Link, Publisher: item.Publisher}
		if item.ProviderPublishTime > 0 {
			ni.Published = time.Unix(item.ProviderPublishTime, 0).UTC()
		}
		out = append(out, ni)
	}
	return out, nil
}
