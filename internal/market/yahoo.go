// Package market is the price-series ingestion adapter. Bars come from the
// Yahoo Finance chart API through the shared HTTP client, pass through a
// TTL cache and reach the rest of the dashboard as ordered OHLC series.
package market

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"time"

	"zentrader/internal/api"
	"zentrader/internal/logger"
	"zentrader/internal/types"
)

// ErrNoData marks an empty or absent provider result. Callers degrade to an
// insufficient-data notice instead of propagating a failure.
var ErrNoData = errors.New("market: no data for symbol")

const chartBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// Provider fetches OHLC bars and quotes.
type Provider struct {
	client  *api.Client
	cache   *barCache
	retry   *api.RetryConfig
	baseURL string
}

// NewProvider creates a provider with the given cache TTL.
func NewProvider(cacheTTL time.Duration) *Provider {
	return &Provider{
		client:  api.NewClient(api.WithTimeout(30 * time.Second)),
		cache:   newBarCache(cacheTTL),
		retry:   api.DefaultRetryConfig(),
		baseURL: chartBaseURL,
	}
}

// chartResponse is the provider's wire shape. Yahoo returns one array per
// OHLC field with nulls for missing sessions; fetchChart flattens them
// into single-level bar records.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []any `json:"open"`
					High   []any `json:"high"`
					Low    []any `json:"low"`
					Close  []any `json:"close"`
					Volume []any `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

// Bars returns the chronologically ordered bar series for a symbol. Results
// are cached per (symbol, period, interval); an empty provider result is
// ErrNoData, never a panic or a zero-length success.
func (p *Provider) Bars(ctx context.Context, symbol, period, interval string) ([]types.Bar, error) {
	key := cacheKey(symbol, period, interval)
	if bars, ok := p.cache.get(key); ok {
		logger.Debug(ctx, "Using cached bars", "symbol", symbol, "bars", len(bars))
		return bars, nil
	}

	bars, err := p.fetchChart(ctx, symbol, period, interval)
	if err != nil {
		return nil, err
	}
	p.cache.set(key, bars)
	return bars, nil
}

func (p *Provider) fetchChart(ctx context.Context, symbol, period, interval string) ([]types.Bar, error) {
	u := fmt.Sprintf("%s/%s?interval=%s&range=%s",
		p.baseURL, url.PathEscape(symbol), url.QueryEscape(interval), url.QueryEscape(period))

	req := api.NewRequest("GET", u).WithContext(ctx)
	for k, v := range api.YahooFinanceHeaders() {
		req.WithHeader(k, v)
	}

	resp, err := p.client.DoWithRetry(req, p.retry)
	if err != nil {
		return nil, fmt.Errorf("chart fetch %s: %w", symbol, err)
	}

	var chart chartResponse
	if err := resp.ParseJSON(&chart); err != nil {
		return nil, fmt.Errorf("chart decode %s: %w", symbol, err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("chart api error %s: %s", symbol, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, ErrNoData
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, ErrNoData
	}
	quote := result.Indicators.Quote[0]

	bars := make([]types.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) {
			break
		}
		o := toFloat(quote.Open[i])
		h := toFloat(quote.High[i])
		l := toFloat(quote.Low[i])
		c := toFloat(quote.Close[i])
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // null bar (holiday, halted session)
		}
		var vol float64
		if i < len(quote.Volume) {
			vol = toFloat(quote.Volume[i])
		}
		bars = append(bars, types.Bar{Ts: ts, Open: o, High: h, Low: l, Close: c, Volume: vol})
	}
	if len(bars) == 0 {
		return nil, ErrNoData
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Ts < bars[j].Ts })
	return bars, nil
}

// Quote returns the last price and day change percent for a symbol. With a
// single bar the change is measured against its open.
func (p *Provider) Quote(ctx context.Context, symbol, name string) (types.Quote, error) {
	bars, err := p.Bars(ctx, symbol, "5d", "1d")
	if err != nil {
		return types.Quote{}, err
	}

	q := types.Quote{Symbol: symbol, Name: name}
	last := bars[len(bars)-1]
	q.Price = last.Close

	if len(bars) >= 2 {
		prev := bars[len(bars)-2].Close
		if prev != 0 {
			q.ChangePct = (last.Close - prev) / prev * 100
		}
	} else if last.Open != 0 {
		q.ChangePct = (last.Close - last.Open) / last.Open * 100
	}
	return q, nil
}
