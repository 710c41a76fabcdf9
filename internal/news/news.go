// Package news fetches market news headlines, preferring the NewsAPI
// JSON endpoint and falling back to the Google News RSS feed.
package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/patrickmn/go-cache"
)

const (
	newsAPIBaseURL = "https://newsapi.org/v2/everything"
	googleRSSURL   = "https://news.google.com/rss/search"

	// lookbackDays bounds how far back the JSON endpoint searches.
	lookbackDays = 30
)

// ErrDailyLimitReached is returned when the client has exhausted its
// daily request budget and has no cached result to serve.
var ErrDailyLimitReached = errors.New("news: daily request limit reached")

// Article is one fetched headline.
type Article struct {
	Title       string
	URL         string
	Source      string
	PublishedAt time.Time
	Summary     string
}

// Client fetches news with a 24-hour cache and a daily request budget.
// The budget resets a day after the first counted request.
type Client struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
	rssURL     string // overridable for tests
	apiKey     string
	cache      *cache.Cache
	dailyLimit int

	mu           sync.Mutex
	requestCount int
	windowStart  time.Time
}

// NewClient creates a news client. An empty apiKey disables the JSON
// endpoint and routes every fetch through the RSS fallback.
func NewClient(httpClient *http.Client, apiKey string, c *cache.Cache, dailyLimit int) *Client {
	return &Client{
		httpClient:  httpClient,
		baseURL:     newsAPIBaseURL,
		rssURL:      googleRSSURL,
		apiKey:      apiKey,
		cache:       c,
		dailyLimit:  dailyLimit,
		windowStart: time.Now(),
	}
}

// Fetch returns articles matching the query, newest first.
func (c *Client) Fetch(ctx context.Context, query string) ([]Article, error) {
	cacheKey := "news:" + query
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.([]Article), nil
	}

	if !c.allowRequest() {
		return nil, ErrDailyLimitReached
	}

	var articles []Article
	var err error
	if c.apiKey != "" {
		articles, err = c.fetchNewsAPI(ctx, query)
	}
	if c.apiKey == "" || err != nil {
		articles, err = c.fetchRSS(ctx, query)
	}
	if err != nil {
		return nil, err
	}

	c.cache.SetDefault(cacheKey, articles)
	return articles, nil
}

// allowRequest counts one request against the daily budget, resetting
// the window after 24 hours.
func (c *Client) allowRequest() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Since(c.windowStart) > 24*time.Hour {
		c.requestCount = 0
		c.windowStart = time.Now()
	}
	if c.requestCount >= c.dailyLimit {
		return false
	}
	c.requestCount++
	return true
}

type newsAPIResponse struct {
	Status       string `json:"status"`
	TotalResults int    `json:"totalResults"`
	Articles     []struct {
		Title  string `json:"title"`
		URL    string `json:"url"`
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		PublishedAt time.Time `json:"publishedAt"`
		Description string    `json:"description"`
	} `json:"articles"`
}

func (c *Client) fetchNewsAPI(ctx context.Context, query string) ([]Article, error) {
	end := time.Now().AddDate(0, 0, -1)
	from := end.AddDate(0, 0, -lookbackDays)

	params := url.Values{}
	params.Set("q", query)
	params.Set("from", from.Format("2006-01-02"))
	params.Set("to", end.Format("2006-01-02"))
	params.Set("language", "en")
	params.Set("sortBy", "popularity")
	params.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
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

	var payload newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if payload.Status != "ok" {
		return nil, fmt.Errorf("newsapi status %q", payload.Status)
	}

	articles := make([]Article, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		if a.Title == "" || a.URL == "" {
			continue
		}
		articles = append(articles, Article{
			Title:       a.Title,
			URL:         a.URL,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
			Summary:     a.Description,
		})
	}
	return articles, nil
}

func (c *Client) fetchRSS(ctx context.Context, query string) ([]Article, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("hl", "en-US")
	params.Set("gl", "US")
	params.Set("ceid", "US:en")

	fp := gofeed.NewParser()
	fp.Client = c.httpClient
	feed, err := fp.ParseURLWithContext(c.rssURL+"?"+params.Encode(), ctx)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	articles := make([]Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		a := Article{
			Title:   item.Title,
			URL:     item.Link,
			Summary: item.Description,
		}
		if item.PublishedParsed != nil {
			a.PublishedAt = *item.PublishedParsed
		}
		if len(item.Authors) > 0 {
			a.Source = item.Authors[0].Name
		}
		if a.Title == "" || a.URL == "" {
			continue
		}
		articles = append(articles, a)
	}
	return articles, nil
}
