package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const alphaVantageBaseURL = "https://www.alphavantage.co/query"

// AlphaVantageClient fetches company reference data and symbol matches
// from the Alpha Vantage API.
type AlphaVantageClient struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
	apiKey     string
	cache      *cache.Cache
	limiter    *rate.Limiter
}

// NewAlphaVantageClient creates a new Alpha Vantage client.
func NewAlphaVantageClient(httpClient *http.Client, apiKey string, c *cache.Cache, limiter *rate.Limiter) *AlphaVantageClient {
	return &AlphaVantageClient{
		httpClient: httpClient,
		baseURL:    alphaVantageBaseURL,
		apiKey:     apiKey,
		cache:      c,
		limiter:    limiter,
	}
}

// Profile fetches the company overview for a symbol. Profiles change
// rarely, so cached entries are reused for the full cache TTL.
func (c *AlphaVantageClient) Profile(ctx context.Context, symbol string) (*Profile, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	cacheKey := "alphavantage:profile:" + symbol
	if cached, found := c.cache.Get(cacheKey); found {
		p := cached.(Profile)
		return &p, nil
	}

	params := url.Values{}
	params.Set("function", "OVERVIEW")
	params.Set("symbol", symbol)

	var payload struct {
		Symbol   string `json:"Symbol"`
		Name     string `json:"Name"`
		Sector   string `json:"Sector"`
		Exchange string `json:"Exchange"`
	}
	if err := c.query(ctx, params, &payload); err != nil {
		return nil, err
	}
	if payload.Symbol == "" {
		return nil, fmt.Errorf("no overview for %s", symbol)
	}

	p := Profile{
		Symbol: payload.Symbol,
		Name:   payload.Name,
		Sector: payload.Sector,
		Market: payload.Exchange,
	}
	c.cache.SetDefault(cacheKey, p)
	return &p, nil
}

// Search returns symbol matches for a free-text query.
func (c *AlphaVantageClient) Search(ctx context.Context, query string) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("function", "SYMBOL_SEARCH")
	params.Set("keywords", query)

	var payload struct {
		BestMatches []struct {
			Symbol string `json:"1. symbol"`
			Name   string `json:"2. name"`
			Type   string `json:"3. type"`
			Region string `json:"4. region"`
		} `json:"bestMatches"`
	}
	if err := c.query(ctx, params, &payload); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(payload.BestMatches))
	for _, m := range payload.BestMatches {
		results = append(results, SearchResult{
			Symbol: m.Symbol,
			Name:   m.Name,
			Type:   m.Type,
			Region: m.Region,
		})
	}
	return results, nil
}

func (c *AlphaVantageClient) query(ctx context.Context, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	params.Set("apikey", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
