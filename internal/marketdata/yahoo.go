package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const (
	yahooBaseURL = "https://query2.finance.yahoo.com/v8/finance/chart"
	yahooUA      = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"
)

// yahooChartResponse is the v8 chart API envelope. Only the fields the
// client reads are declared.
type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				Currency           string  `json:"currency"`
				ShortName          string  `json:"shortName"`
				FullExchangeName   string  `json:"fullExchangeName"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// YahooClient fetches quotes and daily history from the Yahoo Finance
// chart API. The cache and rate limiter are injected so callers control
// sharing and tests control timing.
type YahooClient struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
	cache      *cache.Cache
	limiter    *rate.Limiter
}

// NewYahooClient creates a new Yahoo Finance client.
func NewYahooClient(httpClient *http.Client, c *cache.Cache, limiter *rate.Limiter) *YahooClient {
	return &YahooClient{
		httpClient: httpClient,
		baseURL:    yahooBaseURL,
		cache:      c,
		limiter:    limiter,
	}
}

// Quote fetches the current quote for a symbol. Results are served from
// the cache within its TTL to keep request volume down.
func (c *YahooClient) Quote(ctx context.Context, symbol string) (*Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	cacheKey := "yahoo:quote:" + symbol
	if cached, found := c.cache.Get(cacheKey); found {
		q := cached.(Quote)
		return &q, nil
	}

	resp, err := c.fetchChart(ctx, symbol, "1d", "1d")
	if err != nil {
		return nil, err
	}

	meta := resp.Chart.Result[0].Meta
	if meta.RegularMarketPrice <= 0 {
		return nil, fmt.Errorf("no market price for %s", symbol)
	}

	q := Quote{
		Symbol:   meta.Symbol,
		Name:     meta.ShortName,
		Market:   meta.FullExchangeName,
		Currency: meta.Currency,
		Price:    meta.RegularMarketPrice,
		AsOf:     time.Now().UTC(),
	}
	c.cache.SetDefault(cacheKey, q)
	return &q, nil
}

// History fetches daily OHLCV bars covering the trailing number of days.
// Bars are returned oldest first; days with no close are skipped.
func (c *YahooClient) History(ctx context.Context, symbol string, days int) ([]Bar, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	rangeParam := fmt.Sprintf("%dd", days)
	cacheKey := "yahoo:history:" + symbol + ":" + rangeParam
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.([]Bar), nil
	}

	resp, err := c.fetchChart(ctx, symbol, "1d", rangeParam)
	if err != nil {
		return nil, err
	}

	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no history for %s", symbol)
	}
	quote := result.Indicators.Quote[0]

	bars := make([]Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == 0 {
			continue
		}
		bar := Bar{
			Date:  time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Close: quote.Close[i],
		}
		if i < len(quote.Open) {
			bar.Open = quote.Open[i]
		}
		if i < len(quote.High) {
			bar.High = quote.High[i]
		}
		if i < len(quote.Low) {
			bar.Low = quote.Low[i]
		}
		if i < len(quote.Volume) {
			bar.Volume = quote.Volume[i]
		}
		bars = append(bars, bar)
	}

	c.cache.SetDefault(cacheKey, bars)
	return bars, nil
}

// fetchChart performs one rate-limited chart API call and validates the
// envelope down to a non-empty result.
func (c *YahooClient) fetchChart(ctx context.Context, symbol, interval, rangeParam string) (*yahooChartResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s?interval=%s&range=%s", c.baseURL, url.PathEscape(symbol), interval, rangeParam)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", yahooUA)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, symbol)
	}

	var chartResp yahooChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chartResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if chartResp.Chart.Error != nil {
		return nil, fmt.Errorf("chart error for %s: %s", symbol, chartResp.Chart.Error.Description)
	}
	if len(chartResp.Chart.Result) == 0 {
		return nil, fmt.Errorf("empty chart result for %s", symbol)
	}
	return &chartResp, nil
}
