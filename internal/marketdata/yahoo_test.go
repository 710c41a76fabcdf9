package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

func newTestYahooClient(server *httptest.Server) *YahooClient {
	c := NewYahooClient(server.Client(), cache.New(time.Minute, time.Minute), rate.NewLimiter(rate.Inf, 1))
	c.baseURL = server.URL
	return c
}

// chartJSON builds a minimal v8 chart payload for a quote request.
func chartJSON(symbol string, price float64) string {
	return fmt.Sprintf(`{"chart":{"result":[{"meta":{"symbol":%q,"currency":"USD","shortName":"%s Inc.","fullExchangeName":"NasdaqGS","regularMarketPrice":%g}}],"error":null}}`, symbol, symbol, price)
}

// chartHistoryJSON builds a v8 chart payload with daily bars.
func chartHistoryJSON(symbol string, timestamps []int64, closes []float64) string {
	ts := make([]string, len(timestamps))
	for i, t := range timestamps {
		ts[i] = fmt.Sprintf("%d", t)
	}
	cl := make([]string, len(closes))
	for i, c := range closes {
		cl[i] = fmt.Sprintf("%g", c)
	}
	return fmt.Sprintf(`{"chart":{"result":[{"meta":{"symbol":%q,"currency":"USD","regularMarketPrice":%g},"timestamp":[%s],"indicators":{"quote":[{"open":[%s],"high":[%s],"low":[%s],"close":[%s],"volume":[1000,2000,3000]}]}}],"error":null}}`,
		symbol, closes[len(closes)-1], strings.Join(ts, ","), strings.Join(cl, ","), strings.Join(cl, ","), strings.Join(cl, ","), strings.Join(cl, ","))
}

func TestYahooClient_Quote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, chartJSON("AAPL", 187.5))
	}))
	defer server.Close()

	c := newTestYahooClient(server)
	q, err := c.Quote(context.Background(), "aapl")
	if err != nil {
		t.Fatalf("Quote returned error: %v", err)
	}
	if q.Symbol != "AAPL" {
		t.Errorf("expected symbol AAPL, got %q", q.Symbol)
	}
	if q.Price != 187.5 {
		t.Errorf("expected price 187.5, got %g", q.Price)
	}
	if q.Market != "NasdaqGS" {
		t.Errorf("expected market NasdaqGS, got %q", q.Market)
	}
}

func TestYahooClient_QuoteUsesCache(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, chartJSON("MSFT", 420))
	}))
	defer server.Close()

	c := newTestYahooClient(server)
	for i := 0; i < 3; i++ {
		if _, err := c.Quote(context.Background(), "MSFT"); err != nil {
			t.Fatalf("Quote returned error: %v", err)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 upstream call, got %d", got)
	}
}

func TestYahooClient_QuoteChartError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
	}))
	defer server.Close()

	c := newTestYahooClient(server)
	if _, err := c.Quote(context.Background(), "NOPE"); err == nil {
		t.Fatal("expected error for chart error response")
	}
}

func TestYahooClient_History(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	timestamps := []int64{base.Unix(), base.AddDate(0, 0, 1).Unix(), base.AddDate(0, 0, 2).Unix()}
	closes := []float64{100, 101.5, 99}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, chartHistoryJSON("AAPL", timestamps, closes))
	}))
	defer server.Close()

	c := newTestYahooClient(server)
	bars, err := c.History(context.Background(), "AAPL", 3)
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if len(bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(bars))
	}
	if !bars[0].Date.Before(bars[2].Date) {
		t.Error("expected bars ordered oldest first")
	}
	if bars[1].Close != 101.5 {
		t.Errorf("expected middle close 101.5, got %g", bars[1].Close)
	}
}
