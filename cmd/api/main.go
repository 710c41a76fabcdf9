package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"kapital/internal/config"
	"kapital/internal/database"
	"kapital/internal/handlers"
	"kapital/internal/logger"
	"kapital/internal/marketdata"
	"kapital/internal/middleware"
	"kapital/internal/news"
	"kapital/internal/scheduler"
	"kapital/internal/services"
	"kapital/internal/validator"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/time/rate"

	_ "kapital/internal/docs" // Import swagger docs
)

// @title           Kapital API
// @version         1.0
// @description     Kapital is an investment portfolio tracker that values multi-asset holdings, analyzes performance, and recommends securities matched to each user's investment preferences.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom validation tags
	validator.Register()

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Market data clients share an HTTP client, a quote cache, and a
	// rate limiter sized from configuration.
	httpClient := &http.Client{Timeout: 15 * time.Second}
	quoteCache := gocache.New(appConfig.QuoteCacheTTL, 2*appConfig.QuoteCacheTTL)
	quoteLimiter := rate.NewLimiter(rate.Limit(float64(appConfig.QuoteRatePerMinute)/60.0), appConfig.QuoteRatePerMinute)

	yahooClient := marketdata.NewYahooClient(httpClient, quoteCache, quoteLimiter)
	coinGeckoClient := marketdata.NewCoinGeckoClient(httpClient, quoteCache, quoteLimiter)
	alphaVantageClient := marketdata.NewAlphaVantageClient(httpClient, appConfig.AlphaVantageAPIKey, quoteCache, quoteLimiter)
	newsClient := news.NewClient(httpClient, appConfig.NewsAPIKey, gocache.New(appConfig.NewsCacheTTL, appConfig.NewsCacheTTL), appConfig.NewsDailyLimit)

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	preferenceService := services.NewPreferenceService(db)
	securityService := services.NewSecurityService(db, yahooClient, alphaVantageClient)
	portfolioService := services.NewPortfolioService(db, securityService, coinGeckoClient)
	recommendationService := services.NewRecommendationService(db)
	newsService := services.NewNewsService(db, newsClient)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	preferenceHandler := handlers.NewPreferenceHandler(preferenceService)
	securityHandler := handlers.NewSecurityHandler(securityService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
	recommendationHandler := handlers.NewRecommendationHandler(recommendationService)
	newsHandler := handlers.NewNewsHandler(newsService)

	// Scheduled price refresh
	sched := scheduler.New()
	err = sched.AddJob(appConfig.PriceRefreshCron, "price refresh", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if err := securityService.RefreshAllPrices(ctx); err != nil {
			log.Errorf("Security price refresh failed: %v", err)
		}
		if err := portfolioService.RefreshCryptoPrices(ctx); err != nil {
			log.Errorf("Crypto price refresh failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule price refresh: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Preference routes
	protected.GET("/preferences", preferenceHandler.GetPreferences)
	protected.PUT("/preferences", preferenceHandler.SetPreferences)

	// Security catalog routes
	securities := protected.Group("/securities")
	securities.GET("", securityHandler.ListSecurities)
	securities.GET("/:symbol", securityHandler.GetSecurity)
	securities.GET("/:symbol/history", securityHandler.GetHistory)

	// Portfolio routes
	portfolio := protected.Group("/portfolio")
	portfolio.GET("", portfolioHandler.GetHoldings)
	portfolio.GET("/performance", portfolioHandler.GetPerformance)
	portfolio.POST("/items", portfolioHandler.AddItem)
	portfolio.DELETE("/items/:id", portfolioHandler.RemoveItem)

	// Recommendation routes
	recommendations := protected.Group("/recommendations")
	recommendations.GET("", recommendationHandler.GetRecommendations)
	recommendations.POST("/generate", recommendationHandler.Generate)

	// News routes
	newsRoutes := protected.Group("/news")
	newsRoutes.GET("", newsHandler.ListNews)
	newsRoutes.POST("/refresh", newsHandler.RefreshNews)

	log.Infof("Starting Kapital backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
