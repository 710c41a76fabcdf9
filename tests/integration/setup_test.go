package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"kapital/internal/handlers"
	"kapital/internal/logger"
	"kapital/internal/marketdata"
	"kapital/internal/middleware"
	"kapital/internal/models"
	"kapital/internal/news"
	"kapital/internal/services"
	"kapital/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
	Quotes *stubQuoteProvider
	News   *stubNewsClient
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// stubQuoteProvider serves canned quotes so integration tests never touch
// the network.
type stubQuoteProvider struct {
	quotes map[string]marketdata.Quote
	bars   map[string][]marketdata.Bar
}

func (s *stubQuoteProvider) Quote(_ context.Context, symbol string) (*marketdata.Quote, error) {
	q, ok := s.quotes[strings.ToUpper(symbol)]
	if !ok {
		return nil, fmt.Errorf("no quote for %s", symbol)
	}
	return &q, nil
}

func (s *stubQuoteProvider) History(_ context.Context, symbol string, days int) ([]marketdata.Bar, error) {
	return s.bars[strings.ToUpper(symbol)], nil
}

type stubProfileProvider struct{}

func (s *stubProfileProvider) Profile(_ context.Context, symbol string) (*marketdata.Profile, error) {
	return &marketdata.Profile{Symbol: strings.ToUpper(symbol), Name: strings.ToUpper(symbol) + " Corp", Sector: "Technology", Market: "NASDAQ"}, nil
}

func (s *stubProfileProvider) Search(_ context.Context, query string) ([]marketdata.SearchResult, error) {
	return nil, nil
}

type stubCryptoProvider struct {
	prices map[string]float64
}

func (s *stubCryptoProvider) Prices(_ context.Context, symbols []string) (map[string]float64, error) {
	out := map[string]float64{}
	for _, sym := range symbols {
		if p, ok := s.prices[strings.ToUpper(sym)]; ok {
			out[strings.ToUpper(sym)] = p
		}
	}
	return out, nil
}

type stubNewsClient struct {
	articles []news.Article
	err      error
}

func (s *stubNewsClient) Fetch(_ context.Context, _ string) ([]news.Article, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.articles, nil
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.UserPreference{},
		&models.Security{},
		&models.SecurityHistory{},
		&models.RealEstate{},
		&models.RealEstateHistory{},
		&models.Cryptocurrency{},
		&models.CryptocurrencyHistory{},
		&models.Portfolio{},
		&models.PortfolioItem{},
		&models.Recommendation{},
		&models.NewsArticle{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	quotes := &stubQuoteProvider{
		quotes: map[string]marketdata.Quote{
			"AAPL": {Symbol: "AAPL", Name: "Apple Inc.", Market: "NASDAQ", Currency: "USD", Price: 180, AsOf: time.Now()},
			"MSFT": {Symbol: "MSFT", Name: "Microsoft", Market: "NASDAQ", Currency: "USD", Price: 410, AsOf: time.Now()},
			"JNJ":  {Symbol: "JNJ", Name: "Johnson & Johnson", Market: "NYSE", Currency: "USD", Price: 155, AsOf: time.Now()},
		},
		bars: map[string][]marketdata.Bar{},
	}
	crypto := &stubCryptoProvider{prices: map[string]float64{"BTC": 65000, "ETH": 3200}}
	newsClient := &stubNewsClient{}

	// Services
	userService := services.NewUserService(db)
	preferenceService := services.NewPreferenceService(db)
	securityService := services.NewSecurityService(db, quotes, &stubProfileProvider{})
	portfolioService := services.NewPortfolioService(db, securityService, crypto)
	recommendationService := services.NewRecommendationService(db)
	newsService := services.NewNewsService(db, newsClient)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	preferenceHandler := handlers.NewPreferenceHandler(preferenceService)
	securityHandler := handlers.NewSecurityHandler(securityService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
	recommendationHandler := handlers.NewRecommendationHandler(recommendationService)
	newsHandler := handlers.NewNewsHandler(newsService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	protected.GET("/preferences", preferenceHandler.GetPreferences)
	protected.PUT("/preferences", preferenceHandler.SetPreferences)

	securities := protected.Group("/securities")
	securities.GET("", securityHandler.ListSecurities)
	securities.GET("/:symbol", securityHandler.GetSecurity)
	securities.GET("/:symbol/history", securityHandler.GetHistory)

	portfolio := protected.Group("/portfolio")
	portfolio.GET("", portfolioHandler.GetHoldings)
	portfolio.GET("/performance", portfolioHandler.GetPerformance)
	portfolio.POST("/items", portfolioHandler.AddItem)
	portfolio.DELETE("/items/:id", portfolioHandler.RemoveItem)

	recommendations := protected.Group("/recommendations")
	recommendations.GET("", recommendationHandler.GetRecommendations)
	recommendations.POST("/generate", recommendationHandler.Generate)

	newsRoutes := protected.Group("/news")
	newsRoutes.GET("", newsHandler.ListNews)
	newsRoutes.POST("/refresh", newsHandler.RefreshNews)

	return &testApp{DB: db, Router: router, Quotes: quotes, News: newsClient}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the token and user ID.
func (app *testApp) registerUser(t *testing.T, username, email, password string) (token string, userID float64) {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"email":%q,"password":%q}`, username, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(float64)
}

// setPreferences stores investment preferences for the authenticated user.
func (app *testApp) setPreferences(t *testing.T, token, risk, horizon string, sectors []string) {
	t.Helper()
	quoted := make([]string, len(sectors))
	for i, s := range sectors {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	body := fmt.Sprintf(`{"risk_tolerance":%q,"investment_horizon":%q,"preferred_sectors":[%s],"initial_investment":10000}`,
		risk, horizon, strings.Join(quoted, ","))
	rec := app.request("PUT", "/api/v1/preferences", body, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("set preferences failed: %d %s", rec.Code, rec.Body.String())
	}
}
