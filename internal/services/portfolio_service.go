package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kapital/internal/engine"
	apperrors "kapital/internal/errors"
	"kapital/internal/logger"
	"kapital/internal/models"
)

// defaultPortfolioName labels the portfolio created on first use.
const defaultPortfolioName = "Default Portfolio"

// portfolioService manages the holdings ledger.
type portfolioService struct {
	db         *gorm.DB
	securities SecurityServicer
	crypto     cryptoPricer
}

// cryptoPricer is the slice of the crypto market client the ledger needs.
type cryptoPricer interface {
	Prices(ctx context.Context, symbols []string) (map[string]float64, error)
}

// NewPortfolioService creates a new PortfolioServicer.
func NewPortfolioService(db *gorm.DB, securities SecurityServicer, crypto cryptoPricer) PortfolioServicer {
	return &portfolioService{db: db, securities: securities, crypto: crypto}
}

// GetDefaultPortfolio returns the user's portfolio, creating it on first
// use.
func (s *portfolioService) GetDefaultPortfolio(userID uint) (*models.Portfolio, error) {
	var portfolio models.Portfolio
	err := s.db.Where("user_id = ?", userID).Order("id asc").First(&portfolio).Error
	if err == nil {
		return &portfolio, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	portfolio = models.Portfolio{
		UserID:      userID,
		Name:        defaultPortfolioName,
		Description: "My main investment portfolio",
	}
	if err := s.db.Create(&portfolio).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &portfolio, nil
}

// AddStock adds shares of a listed security to the user's portfolio.
// Adding a symbol already held increments the existing position instead
// of opening a second one.
func (s *portfolioService) AddStock(ctx context.Context, userID uint, symbol string, quantity, purchasePrice float64, purchaseDate time.Time) (*models.PortfolioItem, error) {
	if quantity <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "quantity must be positive")
	}
	if purchasePrice < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "purchase price cannot be negative")
	}

	sec, err := s.securities.FindOrCreateBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}

	portfolio, err := s.GetDefaultPortfolio(userID)
	if err != nil {
		return nil, err
	}

	var item models.PortfolioItem
	err = s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("portfolio_id = ? AND security_id = ?", portfolio.ID, sec.ID).First(&item).Error
		if err == nil {
			item.Quantity += quantity
			if err := tx.Save(&item).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		item = models.PortfolioItem{
			PortfolioID:    portfolio.ID,
			InvestmentType: models.InvestmentTypeStock,
			SecurityID:     &sec.ID,
			Quantity:       quantity,
			PurchasePrice:  purchasePrice,
			PurchaseDate:   purchaseDate,
		}
		if err := tx.Create(&item).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// AddRealEstate records a property holding. Each call creates a distinct
// property; quantity is fixed at 1.
func (s *portfolioService) AddRealEstate(userID uint, name, location, propertyType string, currentValue, purchasePrice float64, purchaseDate time.Time) (*models.PortfolioItem, error) {
	if name == "" || location == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "property name and location are required")
	}
	if currentValue < 0 || purchasePrice < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "values cannot be negative")
	}

	portfolio, err := s.GetDefaultPortfolio(userID)
	if err != nil {
		return nil, err
	}

	var item models.PortfolioItem
	err = s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		property := models.RealEstate{
			Name:           name,
			Location:       location,
			PropertyType:   propertyType,
			CurrentValue:   currentValue,
			ValueUpdatedAt: &now,
		}
		if err := tx.Create(&property).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		appraisal := models.RealEstateHistory{
			RealEstateID: property.ID,
			Date:         now,
			Value:        currentValue,
		}
		if err := tx.Create(&appraisal).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		item = models.PortfolioItem{
			PortfolioID:    portfolio.ID,
			InvestmentType: models.InvestmentTypeRealEstate,
			RealEstateID:   &property.ID,
			Quantity:       1,
			PurchasePrice:  purchasePrice,
			PurchaseDate:   purchaseDate,
		}
		if err := tx.Create(&item).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// AddCrypto adds a crypto position. Like stocks, re-adding a held symbol
// increments the position.
func (s *portfolioService) AddCrypto(ctx context.Context, userID uint, symbol, name string, quantity, purchasePrice float64, purchaseDate time.Time) (*models.PortfolioItem, error) {
	if quantity <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "quantity must be positive")
	}
	if purchasePrice < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "purchase price cannot be negative")
	}

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "symbol is required")
	}

	portfolio, err := s.GetDefaultPortfolio(userID)
	if err != nil {
		return nil, err
	}

	asset, err := s.findOrCreateCrypto(ctx, symbol, name)
	if err != nil {
		return nil, err
	}

	var item models.PortfolioItem
	err = s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("portfolio_id = ? AND cryptocurrency_id = ?", portfolio.ID, asset.ID).First(&item).Error
		if err == nil {
			item.Quantity += quantity
			if err := tx.Save(&item).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		item = models.PortfolioItem{
			PortfolioID:      portfolio.ID,
			InvestmentType:   models.InvestmentTypeCrypto,
			CryptocurrencyID: &asset.ID,
			Quantity:         quantity,
			PurchasePrice:    purchasePrice,
			PurchaseDate:     purchaseDate,
		}
		if err := tx.Create(&item).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *portfolioService) findOrCreateCrypto(ctx context.Context, symbol, name string) (*models.Cryptocurrency, error) {
	var asset models.Cryptocurrency
	err := s.db.Where("symbol = ?", symbol).First(&asset).Error
	if err == nil {
		return &asset, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if name == "" {
		name = symbol
	}
	asset = models.Cryptocurrency{Symbol: symbol, Name: name}

	if prices, perr := s.crypto.Prices(ctx, []string{symbol}); perr == nil {
		if price, ok := prices[symbol]; ok {
			now := time.Now()
			asset.CurrentPrice = price
			asset.PriceUpdatedAt = &now
		}
	}

	if err := s.db.Create(&asset).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Seed the first bar so the asset shows up in the performance
	// timeline, like the backfill for securities and the initial
	// appraisal for real estate.
	if asset.PriceUpdatedAt != nil {
		bar := models.CryptocurrencyHistory{
			CryptocurrencyID: asset.ID,
			Date:             asset.PriceUpdatedAt.Truncate(24 * time.Hour),
			Open:             asset.CurrentPrice,
			High:             asset.CurrentPrice,
			Low:              asset.CurrentPrice,
			Close:            asset.CurrentPrice,
		}
		if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&bar).Error; err != nil {
			logger.Get().Warnw("crypto history append failed", "symbol", symbol, "error", err)
		}
	}
	return &asset, nil
}

// RefreshCryptoPrices re-quotes every tracked crypto asset and records
// the day's bar. Symbols the provider no longer quotes are logged and
// skipped.
func (s *portfolioService) RefreshCryptoPrices(ctx context.Context) error {
	var assets []models.Cryptocurrency
	if err := s.db.Find(&assets).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(assets) == 0 {
		return nil
	}

	symbols := make([]string, 0, len(assets))
	for _, asset := range assets {
		symbols = append(symbols, asset.Symbol)
	}
	prices, err := s.crypto.Prices(ctx, symbols)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrQuoteUnavailable, err)
	}

	now := time.Now()
	for i := range assets {
		asset := &assets[i]
		price, ok := prices[asset.Symbol]
		if !ok {
			logger.Get().Warnw("crypto price refresh skipped", "symbol", asset.Symbol)
			continue
		}

		updates := map[string]interface{}{
			"current_price":    price,
			"price_updated_at": &now,
		}
		if err := s.db.Model(asset).Updates(updates).Error; err != nil {
			logger.Get().Warnw("crypto price update failed", "symbol", asset.Symbol, "error", err)
			continue
		}

		bar := models.CryptocurrencyHistory{
			CryptocurrencyID: asset.ID,
			Date:             now.Truncate(24 * time.Hour),
			Open:             price,
			High:             price,
			Low:              price,
			Close:            price,
		}
		if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&bar).Error; err != nil {
			logger.Get().Warnw("crypto history append failed", "symbol", asset.Symbol, "error", err)
		}
	}

	return nil
}

// RemoveItem deletes a ledger entry after verifying ownership.
func (s *portfolioService) RemoveItem(userID, itemID uint) error {
	var item models.PortfolioItem
	if err := s.db.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrPortfolioItemNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var portfolio models.Portfolio
	if err := s.db.First(&portfolio, item.PortfolioID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrPortfolioNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if portfolio.UserID != userID {
		return apperrors.ErrForbidden
	}

	if err := s.db.Delete(&item).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetHoldings resolves the ledger against current prices and returns the
// valuation view.
func (s *portfolioService) GetHoldings(userID uint) (*engine.Valuation, error) {
	holdings, err := s.resolveHoldings(userID)
	if err != nil {
		return nil, err
	}
	valuation := engine.Value(holdings)
	return &valuation, nil
}

// Performance returns portfolio totals plus the trailing-30-day value
// timeline.
func (s *portfolioService) Performance(userID uint) (*PerformanceReport, error) {
	holdings, err := s.resolveHoldings(userID)
	if err != nil {
		return nil, err
	}

	valuation := engine.Value(holdings)
	timeline := engine.SampleTimeline(holdings, time.Now(), s.lookupHistoricalPrice)

	return &PerformanceReport{
		TotalValue:         valuation.TotalValue,
		TotalCost:          valuation.TotalCost,
		TotalReturn:        valuation.TotalReturn,
		TotalReturnPercent: valuation.TotalReturnPercent,
		Timeline:           timeline,
	}, nil
}

// resolveHoldings loads the ledger with its asset references and flattens
// it into the engine's holding view.
func (s *portfolioService) resolveHoldings(userID uint) ([]engine.Holding, error) {
	portfolio, err := s.GetDefaultPortfolio(userID)
	if err != nil {
		return nil, err
	}

	var items []models.PortfolioItem
	if err := s.db.Where("portfolio_id = ?", portfolio.ID).
		Preload("Security").Preload("RealEstate").Preload("Cryptocurrency").
		Order("id asc").Find(&items).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	holdings := make([]engine.Holding, 0, len(items))
	for _, item := range items {
		h := engine.Holding{
			ItemID:        item.ID,
			Type:          string(item.InvestmentType),
			Quantity:      item.Quantity,
			PurchasePrice: item.PurchasePrice,
			PurchaseDate:  item.PurchaseDate,
		}

		switch item.InvestmentType {
		case models.InvestmentTypeStock:
			if item.Security == nil {
				continue
			}
			h.AssetID = item.Security.ID
			h.Symbol = item.Security.Symbol
			h.Name = item.Security.Name
			h.Category = item.Security.Sector
			h.CurrentPrice = item.Security.CurrentPrice
			if h.Category == "" {
				h.Category = engine.UnknownCategory
			}
		case models.InvestmentTypeRealEstate:
			if item.RealEstate == nil {
				continue
			}
			h.AssetID = item.RealEstate.ID
			h.Name = item.RealEstate.Name
			h.Category = item.RealEstate.PropertyType
			h.CurrentPrice = item.RealEstate.CurrentValue
		case models.InvestmentTypeCrypto:
			if item.Cryptocurrency == nil {
				continue
			}
			h.AssetID = item.Cryptocurrency.ID
			h.Symbol = item.Cryptocurrency.Symbol
			h.Name = item.Cryptocurrency.Name
			h.Category = engine.CryptoAllocationBucket
			h.CurrentPrice = item.Cryptocurrency.CurrentPrice
		default:
			continue
		}

		holdings = append(holdings, h)
	}
	return holdings, nil
}

// lookupHistoricalPrice finds the latest recorded price for a holding at
// or before the given date.
func (s *portfolioService) lookupHistoricalPrice(h engine.Holding, date time.Time) (float64, bool) {
	switch h.Type {
	case string(models.InvestmentTypeStock):
		var bar models.SecurityHistory
		err := s.db.Where("security_id = ? AND date <= ?", h.AssetID, date).
			Order("date desc").First(&bar).Error
		if err != nil {
			return 0, false
		}
		return bar.Close, true
	case string(models.InvestmentTypeRealEstate):
		var appraisal models.RealEstateHistory
		err := s.db.Where("real_estate_id = ? AND date <= ?", h.AssetID, date).
			Order("date desc").First(&appraisal).Error
		if err != nil {
			return 0, false
		}
		return appraisal.Value, true
	case string(models.InvestmentTypeCrypto):
		var bar models.CryptocurrencyHistory
		err := s.db.Where("cryptocurrency_id = ? AND date <= ?", h.AssetID, date).
			Order("date desc").First(&bar).Error
		if err != nil {
			return 0, false
		}
		return bar.Close, true
	}
	return 0, false
}
