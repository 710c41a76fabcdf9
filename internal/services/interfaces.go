package services

import (
	"context"
	"time"

	"kapital/internal/engine"
	"kapital/internal/models"
	"kapital/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(username, email, password string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
}

// PreferenceServicer defines the contract for investment preference logic.
type PreferenceServicer interface {
	GetPreferences(userID uint) (*models.UserPreference, error)
	SetPreferences(userID uint, risk models.RiskTolerance, horizon models.InvestmentHorizon, sectors, markets []string, initialInvestment float64) (*models.UserPreference, error)
}

// SecurityServicer defines the contract for the security catalog.
type SecurityServicer interface {
	FindOrCreateBySymbol(ctx context.Context, symbol string) (*models.Security, error)
	GetBySymbol(symbol string) (*models.Security, error)
	ListSecurities(page pagination.PageRequest) (*pagination.PageResponse[models.Security], error)
	Search(ctx context.Context, query string) ([]models.Security, error)
	GetHistory(symbol string, days int) ([]models.SecurityHistory, error)
	BackfillHistory(ctx context.Context, securityID uint, days int) error
	RefreshAllPrices(ctx context.Context) error
}

// PortfolioServicer defines the contract for the holdings ledger.
type PortfolioServicer interface {
	GetDefaultPortfolio(userID uint) (*models.Portfolio, error)
	AddStock(ctx context.Context, userID uint, symbol string, quantity, purchasePrice float64, purchaseDate time.Time) (*models.PortfolioItem, error)
	AddRealEstate(userID uint, name, location, propertyType string, currentValue, purchasePrice float64, purchaseDate time.Time) (*models.PortfolioItem, error)
	AddCrypto(ctx context.Context, userID uint, symbol, name string, quantity, purchasePrice float64, purchaseDate time.Time) (*models.PortfolioItem, error)
	RemoveItem(userID, itemID uint) error
	GetHoldings(userID uint) (*engine.Valuation, error)
	Performance(userID uint) (*PerformanceReport, error)
	RefreshCryptoPrices(ctx context.Context) error
}

// PerformanceReport combines portfolio totals with the value timeline.
type PerformanceReport struct {
	TotalValue         float64                    `json:"total_value"`
	TotalCost          float64                    `json:"total_cost"`
	TotalReturn        float64                    `json:"total_return"`
	TotalReturnPercent float64                    `json:"total_return_percent"`
	Timeline           []engine.PerformanceSample `json:"performance_timeline"`
}

// GenerateStatus describes how a recommendation run concluded.
type GenerateStatus string

const (
	// StatusGenerated means a fresh recommendation set was stored.
	StatusGenerated GenerateStatus = "generated"
	// StatusNoPreferences means the user has not set preferences yet.
	StatusNoPreferences GenerateStatus = "no_preferences"
	// StatusNoCandidates means no securities were eligible for scoring.
	StatusNoCandidates GenerateStatus = "no_candidates"
)

// GenerateOutcome is the result of one recommendation run. Benign
// preconditions surface as statuses, not errors.
type GenerateOutcome struct {
	Status          GenerateStatus          `json:"status"`
	Recommendations []models.Recommendation `json:"recommendations"`
}

// RecommendationServicer defines the contract for recommendation runs.
type RecommendationServicer interface {
	Generate(userID uint) (*GenerateOutcome, error)
	GetUserRecommendations(userID uint) ([]models.Recommendation, error)
}

// NewsServicer defines the contract for market news.
type NewsServicer interface {
	FetchAndStore(ctx context.Context, query string) ([]models.NewsArticle, error)
	ListLatest(page pagination.PageRequest) (*pagination.PageResponse[models.NewsArticle], error)
}
