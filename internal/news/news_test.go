package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
)

const sampleNewsAPIBody = `{
	"status": "ok",
	"totalResults": 2,
	"articles": [
		{"title": "Markets rally", "url": "https://example.com/a", "source": {"name": "Wire"}, "publishedAt": "2026-08-30T10:00:00Z", "description": "Stocks rise"},
		{"title": "Earnings ahead", "url": "https://example.com/b", "source": {"name": "Wire"}, "publishedAt": "2026-08-29T10:00:00Z", "description": "Earnings preview"}
	]
}`

const sampleRSSBody = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Google News</title>
<item><title>Feed headline</title><link>https://example.com/rss-a</link><pubDate>Sun, 30 Aug 2026 10:00:00 GMT</pubDate><description>From the feed</description></item>
</channel></rss>`

func newTestClient(t *testing.T, apiKey string, jsonHandler, rssHandler http.HandlerFunc) *Client {
	t.Helper()

	jsonServer := httptest.NewServer(jsonHandler)
	t.Cleanup(jsonServer.Close)
	rssServer := httptest.NewServer(rssHandler)
	t.Cleanup(rssServer.Close)

	c := NewClient(http.DefaultClient, apiKey, cache.New(time.Minute, time.Minute), 5)
	c.baseURL = jsonServer.URL
	c.rssURL = rssServer.URL
	return c
}

func TestFetchNewsAPI(t *testing.T) {
	c := newTestClient(t, "key",
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("q") != "stock market" {
				t.Errorf("unexpected query %q", r.URL.Query().Get("q"))
			}
			fmt.Fprint(w, sampleNewsAPIBody)
		},
		func(w http.ResponseWriter, r *http.Request) {
			t.Error("RSS fallback should not be used when the JSON endpoint succeeds")
		})

	articles, err := c.Fetch(context.Background(), "stock market")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	if articles[0].Title != "Markets rally" {
		t.Errorf("unexpected first title %q", articles[0].Title)
	}
	if articles[0].Source != "Wire" {
		t.Errorf("unexpected source %q", articles[0].Source)
	}
}

func TestFetchFallsBackToRSS(t *testing.T) {
	c := newTestClient(t, "key",
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		},
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/rss+xml")
			fmt.Fprint(w, sampleRSSBody)
		})

	articles, err := c.Fetch(context.Background(), "stocks")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}
	if articles[0].Title != "Feed headline" {
		t.Errorf("unexpected title %q", articles[0].Title)
	}
}

func TestFetchServesCache(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, "key",
		func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			fmt.Fprint(w, sampleNewsAPIBody)
		},
		func(w http.ResponseWriter, r *http.Request) {})

	for i := 0; i < 3; i++ {
		if _, err := c.Fetch(context.Background(), "stocks"); err != nil {
			t.Fatalf("Fetch returned error: %v", err)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 upstream call, got %d", got)
	}
}

func TestFetchDailyLimit(t *testing.T) {
	c := newTestClient(t, "key",
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, sampleNewsAPIBody)
		},
		func(w http.ResponseWriter, r *http.Request) {})
	c.dailyLimit = 1

	if _, err := c.Fetch(context.Background(), "first"); err != nil {
		t.Fatalf("first Fetch returned error: %v", err)
	}
	_, err := c.Fetch(context.Background(), "second")
	if !errors.Is(err, ErrDailyLimitReached) {
		t.Fatalf("expected ErrDailyLimitReached, got %v", err)
	}

	// Cached queries stay available after the budget runs out.
	if _, err := c.Fetch(context.Background(), "first"); err != nil {
		t.Errorf("cached Fetch returned error: %v", err)
	}
}
