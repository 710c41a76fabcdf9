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

const coinGeckoBaseURL = "https://api.coingecko.com/api/v3/simple/price"

// coinGeckoIDs maps common crypto ticker symbols to CoinGecko asset IDs.
var coinGeckoIDs = map[string]string{
	"BTC":   "bitcoin",
	"ETH":   "ethereum",
	"SOL":   "solana",
	"ADA":   "cardano",
	"XRP":   "ripple",
	"DOGE":  "dogecoin",
	"DOT":   "polkadot",
	"LTC":   "litecoin",
	"LINK":  "chainlink",
	"AVAX":  "avalanche-2",
	"MATIC": "matic-network",
	"BNB":   "binancecoin",
	"USDT":  "tether",
	"USDC":  "usd-coin",
}

// CoinGeckoClient fetches crypto prices from the CoinGecko simple price API.
type CoinGeckoClient struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
	cache      *cache.Cache
	limiter    *rate.Limiter
}

// NewCoinGeckoClient creates a new CoinGecko price client.
func NewCoinGeckoClient(httpClient *http.Client, c *cache.Cache, limiter *rate.Limiter) *CoinGeckoClient {
	return &CoinGeckoClient{
		httpClient: httpClient,
		baseURL:    coinGeckoBaseURL,
		cache:      c,
		limiter:    limiter,
	}
}

// Prices fetches USD prices for the given ticker symbols. Symbols without
// a known CoinGecko ID are omitted from the result.
func (c *CoinGeckoClient) Prices(ctx context.Context, symbols []string) (map[string]float64, error) {
	prices := make(map[string]float64, len(symbols))

	ids := make([]string, 0, len(symbols))
	idToSymbol := make(map[string]string, len(symbols))
	for _, sym := range symbols {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		id, ok := coinGeckoIDs[sym]
		if !ok {
			continue
		}
		if cached, found := c.cache.Get("coingecko:" + id); found {
			prices[sym] = cached.(float64)
			continue
		}
		ids = append(ids, id)
		idToSymbol[id] = sym
	}
	if len(ids) == 0 {
		return prices, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	endpoint := fmt.Sprintf("%s?ids=%s&vs_currencies=usd", c.baseURL, url.QueryEscape(strings.Join(ids, ",")))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var payload map[string]struct {
		USD float64 `json:"usd"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	for id, entry := range payload {
		sym, ok := idToSymbol[id]
		if !ok || entry.USD <= 0 {
			continue
		}
		prices[sym] = entry.USD
		c.cache.SetDefault("coingecko:"+id, entry.USD)
	}
	return prices, nil
}
