// Package marketdata defines clients for fetching quotes, price history,
// and reference data from external market data sources.
package marketdata

import (
	"context"
	"time"
)

// Quote is a current market quote for a listed security.
type Quote struct {
	Symbol   string
	Name     string
	Market   string
	Currency string
	Price    float64
	AsOf     time.Time
}

// Bar is one daily OHLCV bar.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Profile is reference data about a listed company.
type Profile struct {
	Symbol string
	Name   string
	Sector string
	Market string
}

// SearchResult is one match from a symbol search.
type SearchResult struct {
	Symbol string
	Name   string
	Region string
	Type   string
}

// QuoteProvider fetches current quotes and daily history for equities.
type QuoteProvider interface {
	Quote(ctx context.Context, symbol string) (*Quote, error)
	History(ctx context.Context, symbol string, days int) ([]Bar, error)
}

// ProfileProvider fetches company reference data and symbol matches.
type ProfileProvider interface {
	Profile(ctx context.Context, symbol string) (*Profile, error)
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// CryptoProvider fetches current prices for crypto assets, keyed by the
// uppercase ticker symbol passed in.
type CryptoProvider interface {
	Prices(ctx context.Context, symbols []string) (map[string]float64, error)
}
