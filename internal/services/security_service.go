package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "kapital/internal/errors"
	"kapital/internal/logger"
	"kapital/internal/marketdata"
	"kapital/internal/models"
	"kapital/internal/pagination"
)

// historyBackfillDays is how much daily history a newly created security
// gets, enough to cover the performance window with margin.
const historyBackfillDays = 90

// maxSearchResolves caps how many provider matches a catalog search
// pulls into the catalog per query.
const maxSearchResolves = 5

// securityService maintains the security catalog against market data.
type securityService struct {
	db       *gorm.DB
	quotes   marketdata.QuoteProvider
	profiles marketdata.ProfileProvider
}

// NewSecurityService creates a new SecurityServicer.
func NewSecurityService(db *gorm.DB, quotes marketdata.QuoteProvider, profiles marketdata.ProfileProvider) SecurityServicer {
	return &securityService{db: db, quotes: quotes, profiles: profiles}
}

// FindOrCreateBySymbol returns the catalog entry for a symbol, creating it
// from a live quote on first sight. New entries get a history backfill.
func (s *securityService) FindOrCreateBySymbol(ctx context.Context, symbol string) (*models.Security, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "symbol is required")
	}

	var sec models.Security
	err := s.db.Where("symbol = ?", symbol).First(&sec).Error
	if err == nil {
		return &sec, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	quote, err := s.quotes.Quote(ctx, symbol)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrQuoteUnavailable, err)
	}

	sec = models.Security{
		Symbol:         quote.Symbol,
		Name:           quote.Name,
		Market:         quote.Market,
		CurrentPrice:   quote.Price,
		PriceUpdatedAt: &quote.AsOf,
	}
	if sec.Name == "" {
		sec.Name = quote.Symbol
	}

	// The chart API carries no sector; the profile lookup is best effort.
	if profile, perr := s.profiles.Profile(ctx, symbol); perr == nil {
		sec.Sector = profile.Sector
		if sec.Name == quote.Symbol && profile.Name != "" {
			sec.Name = profile.Name
		}
		if sec.Market == "" {
			sec.Market = profile.Market
		}
	}

	if err := s.db.Create(&sec).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.BackfillHistory(ctx, sec.ID, historyBackfillDays); err != nil {
		logger.Get().Warnw("history backfill failed", "symbol", symbol, "error", err)
	}

	return &sec, nil
}

// GetBySymbol retrieves a catalog entry without touching market data.
func (s *securityService) GetBySymbol(symbol string) (*models.Security, error) {
	var sec models.Security
	if err := s.db.Where("symbol = ?", strings.ToUpper(strings.TrimSpace(symbol))).First(&sec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSecurityNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &sec, nil
}

// ListSecurities returns a page of the catalog ordered by symbol.
func (s *securityService) ListSecurities(page pagination.PageRequest) (*pagination.PageResponse[models.Security], error) {
	page.Defaults()

	var total int64
	if err := s.db.Model(&models.Security{}).Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var securities []models.Security
	if err := s.db.Scopes(pagination.Paginate(page)).Order("symbol asc").Find(&securities).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(securities, page.Page, page.PageSize, total)
	return &resp, nil
}

// Search matches the catalog by symbol or name. A query with no catalog
// match is resolved through the provider's symbol search, and the best
// matches are pulled into the catalog.
func (s *securityService) Search(ctx context.Context, query string) ([]models.Security, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "query is required")
	}

	pattern := "%" + strings.ToUpper(query) + "%"
	var matches []models.Security
	if err := s.db.Where("upper(symbol) LIKE ? OR upper(name) LIKE ?", pattern, pattern).
		Order("symbol asc").Limit(20).Find(&matches).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(matches) > 0 {
		return matches, nil
	}

	if results, serr := s.profiles.Search(ctx, query); serr == nil && len(results) > 0 {
		resolved := make([]models.Security, 0, maxSearchResolves)
		for _, result := range results {
			if len(resolved) == maxSearchResolves {
				break
			}
			sec, ferr := s.FindOrCreateBySymbol(ctx, result.Symbol)
			if ferr != nil {
				// A match without a live quote is skipped.
				continue
			}
			resolved = append(resolved, *sec)
		}
		if len(resolved) > 0 {
			return resolved, nil
		}
	}

	// Last resort: the query itself may be a symbol.
	sec, err := s.FindOrCreateBySymbol(ctx, query)
	if err != nil {
		// An unknown query is an empty result, not a failure.
		return []models.Security{}, nil
	}
	return []models.Security{*sec}, nil
}

// GetHistory returns daily bars for the trailing number of days, oldest
// first.
func (s *securityService) GetHistory(symbol string, days int) ([]models.SecurityHistory, error) {
	sec, err := s.GetBySymbol(symbol)
	if err != nil {
		return nil, err
	}

	since := time.Now().AddDate(0, 0, -days)
	var bars []models.SecurityHistory
	if err := s.db.Where("security_id = ? AND date >= ?", sec.ID, since).
		Order("date asc").Find(&bars).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return bars, nil
}

// BackfillHistory loads daily bars from the provider, skipping days that
// already have a bar.
func (s *securityService) BackfillHistory(ctx context.Context, securityID uint, days int) error {
	var sec models.Security
	if err := s.db.First(&sec, securityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrSecurityNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	bars, err := s.quotes.History(ctx, sec.Symbol, days)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrHistoryUnavailable, err)
	}

	rows := make([]models.SecurityHistory, 0, len(bars))
	for _, bar := range bars {
		rows = append(rows, models.SecurityHistory{
			SecurityID: securityID,
			Date:       bar.Date,
			Open:       bar.Open,
			High:       bar.High,
			Low:        bar.Low,
			Close:      bar.Close,
			Volume:     bar.Volume,
		})
	}
	if len(rows) == 0 {
		return nil
	}

	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// RefreshAllPrices re-quotes every catalog entry and records the day's
// closing bar. Individual failures are logged and skipped so one dead
// symbol cannot stall the refresh.
func (s *securityService) RefreshAllPrices(ctx context.Context) error {
	var securities []models.Security
	if err := s.db.Find(&securities).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for i := range securities {
		sec := &securities[i]
		quote, err := s.quotes.Quote(ctx, sec.Symbol)
		if err != nil {
			logger.Get().Warnw("price refresh failed", "symbol", sec.Symbol, "error", err)
			continue
		}

		now := quote.AsOf
		updates := map[string]interface{}{
			"current_price":    quote.Price,
			"price_updated_at": &now,
		}
		if err := s.db.Model(sec).Updates(updates).Error; err != nil {
			logger.Get().Warnw("price update failed", "symbol", sec.Symbol, "error", err)
			continue
		}

		bar := models.SecurityHistory{
			SecurityID: sec.ID,
			Date:       now.Truncate(24 * time.Hour),
			Open:       quote.Price,
			High:       quote.Price,
			Low:        quote.Price,
			Close:      quote.Price,
			Volume:     0,
		}
		if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&bar).Error; err != nil {
			logger.Get().Warnw("history append failed", "symbol", sec.Symbol, "error", err)
		}
	}

	return nil
}
