package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"kapital/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique credentials.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	n := nextID()
	return CreateTestUserWithCredentials(t, db, fmt.Sprintf("user%d", n), fmt.Sprintf("user%d@test.com", n))
}

// CreateTestUserWithCredentials creates a user with the given username and email.
func CreateTestUserWithCredentials(t *testing.T, db *gorm.DB, username, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestPreference creates a preference row for the user with the given
// risk tolerance and horizon.
func CreateTestPreference(t *testing.T, db *gorm.DB, userID uint, risk models.RiskTolerance, horizon models.InvestmentHorizon, sectors ...string) *models.UserPreference {
	t.Helper()

	pref := &models.UserPreference{
		UserID:            userID,
		RiskTolerance:     risk,
		InvestmentHorizon: horizon,
		PreferredSectors:  datatypes.NewJSONSlice(sectors),
		InitialInvestment: 10000,
	}
	if err := db.Create(pref).Error; err != nil {
		t.Fatalf("failed to create test preference: %v", err)
	}
	return pref
}

// CreateTestSecurity creates a security in the given sector with the given price.
func CreateTestSecurity(t *testing.T, db *gorm.DB, sector string, price float64) *models.Security {
	t.Helper()

	n := nextID()
	now := time.Now()
	sec := &models.Security{
		Symbol:         fmt.Sprintf("TST%d", n),
		Name:           fmt.Sprintf("Test Security %d", n),
		Sector:         sector,
		Market:         "NASDAQ",
		CurrentPrice:   price,
		PriceUpdatedAt: &now,
	}
	if err := db.Create(sec).Error; err != nil {
		t.Fatalf("failed to create test security: %v", err)
	}
	return sec
}

// CreateTestSecurityHistory creates one daily bar for the security, dated the
// given number of days before now.
func CreateTestSecurityHistory(t *testing.T, db *gorm.DB, securityID uint, daysAgo int, closePrice float64) *models.SecurityHistory {
	t.Helper()

	bar := &models.SecurityHistory{
		SecurityID: securityID,
		Date:       time.Now().AddDate(0, 0, -daysAgo).Truncate(24 * time.Hour),
		Open:       closePrice,
		High:       closePrice,
		Low:        closePrice,
		Close:      closePrice,
		Volume:     1000000,
	}
	if err := db.Create(bar).Error; err != nil {
		t.Fatalf("failed to create test security history: %v", err)
	}
	return bar
}

// CreateTestRealEstate creates a property with the given current value.
func CreateTestRealEstate(t *testing.T, db *gorm.DB, value float64) *models.RealEstate {
	t.Helper()

	n := nextID()
	now := time.Now()
	re := &models.RealEstate{
		Name:           fmt.Sprintf("Test Property %d", n),
		Location:       "Test City",
		PropertyType:   "residential",
		CurrentValue:   value,
		ValueUpdatedAt: &now,
	}
	if err := db.Create(re).Error; err != nil {
		t.Fatalf("failed to create test real estate: %v", err)
	}
	return re
}

// CreateTestCryptocurrency creates a crypto asset with the given price.
func CreateTestCryptocurrency(t *testing.T, db *gorm.DB, price float64) *models.Cryptocurrency {
	t.Helper()

	n := nextID()
	now := time.Now()
	c := &models.Cryptocurrency{
		Symbol:         fmt.Sprintf("TCN%d", n),
		Name:           fmt.Sprintf("Test Coin %d", n),
		CurrentPrice:   price,
		PriceUpdatedAt: &now,
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("failed to create test cryptocurrency: %v", err)
	}
	return c
}

// CreateTestPortfolio creates a portfolio for the user.
func CreateTestPortfolio(t *testing.T, db *gorm.DB, userID uint) *models.Portfolio {
	t.Helper()

	p := &models.Portfolio{
		UserID: userID,
		Name:   fmt.Sprintf("Test Portfolio %d", nextID()),
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to create test portfolio: %v", err)
	}
	return p
}

// CreateTestStockItem creates a stock holding in the portfolio.
func CreateTestStockItem(t *testing.T, db *gorm.DB, portfolioID, securityID uint, quantity, purchasePrice float64) *models.PortfolioItem {
	t.Helper()

	item := &models.PortfolioItem{
		PortfolioID:    portfolioID,
		InvestmentType: models.InvestmentTypeStock,
		SecurityID:     &securityID,
		Quantity:       quantity,
		PurchasePrice:  purchasePrice,
		PurchaseDate:   time.Now(),
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to create test stock item: %v", err)
	}
	return item
}

// CreateTestCryptoItem creates a crypto holding in the portfolio.
func CreateTestCryptoItem(t *testing.T, db *gorm.DB, portfolioID, cryptoID uint, quantity, purchasePrice float64) *models.PortfolioItem {
	t.Helper()

	item := &models.PortfolioItem{
		PortfolioID:      portfolioID,
		InvestmentType:   models.InvestmentTypeCrypto,
		CryptocurrencyID: &cryptoID,
		Quantity:         quantity,
		PurchasePrice:    purchasePrice,
		PurchaseDate:     time.Now(),
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to create test crypto item: %v", err)
	}
	return item
}

// CreateTestRealEstateItem creates a property holding in the portfolio.
func CreateTestRealEstateItem(t *testing.T, db *gorm.DB, portfolioID, realEstateID uint, purchasePrice float64) *models.PortfolioItem {
	t.Helper()

	item := &models.PortfolioItem{
		PortfolioID:    portfolioID,
		InvestmentType: models.InvestmentTypeRealEstate,
		RealEstateID:   &realEstateID,
		Quantity:       1,
		PurchasePrice:  purchasePrice,
		PurchaseDate:   time.Now(),
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to create test real estate item: %v", err)
	}
	return item
}

// CreateTestNewsArticle creates a news article with the given sentiment score.
func CreateTestNewsArticle(t *testing.T, db *gorm.DB, score float64, symbols ...string) *models.NewsArticle {
	t.Helper()

	n := nextID()
	article := &models.NewsArticle{
		Title:          fmt.Sprintf("Test Headline %d", n),
		URL:            fmt.Sprintf("https://news.test/article/%d", n),
		Source:         "Test Wire",
		PublishedAt:    time.Now(),
		Summary:        "Markets moved today.",
		SentimentScore: score,
		RelatedSymbols: datatypes.NewJSONSlice(symbols),
	}
	if err := db.Create(article).Error; err != nil {
		t.Fatalf("failed to create test news article: %v", err)
	}
	return article
}
