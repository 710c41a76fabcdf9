package services

import (
	"context"
	"fmt"
	"time"

	"kapital/internal/marketdata"
)

// stubQuotes serves canned quotes and history keyed by symbol.
type stubQuotes struct {
	quotes     map[string]marketdata.Quote
	bars       map[string][]marketdata.Bar
	quoteCalls int
}

func (s *stubQuotes) Quote(_ context.Context, symbol string) (*marketdata.Quote, error) {
	s.quoteCalls++
	q, ok := s.quotes[symbol]
	if !ok {
		return nil, fmt.Errorf("no quote for %s", symbol)
	}
	if q.AsOf.IsZero() {
		q.AsOf = time.Now()
	}
	return &q, nil
}

func (s *stubQuotes) History(_ context.Context, symbol string, days int) ([]marketdata.Bar, error) {
	bars, ok := s.bars[symbol]
	if !ok {
		return nil, fmt.Errorf("no history for %s", symbol)
	}
	return bars, nil
}

// stubProfiles serves canned company profiles keyed by symbol and
// search results keyed by query.
type stubProfiles struct {
	profiles map[string]marketdata.Profile
	searches map[string][]marketdata.SearchResult
}

func (s *stubProfiles) Profile(_ context.Context, symbol string) (*marketdata.Profile, error) {
	p, ok := s.profiles[symbol]
	if !ok {
		return nil, fmt.Errorf("no profile for %s", symbol)
	}
	return &p, nil
}

func (s *stubProfiles) Search(_ context.Context, query string) ([]marketdata.SearchResult, error) {
	return s.searches[query], nil
}

// stubCrypto serves canned crypto prices keyed by symbol.
type stubCrypto struct {
	prices map[string]float64
}

func (s *stubCrypto) Prices(_ context.Context, symbols []string) (map[string]float64, error) {
	out := map[string]float64{}
	for _, sym := range symbols {
		if price, ok := s.prices[sym]; ok {
			out[sym] = price
		}
	}
	return out, nil
}
