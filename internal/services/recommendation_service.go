package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"kapital/internal/engine"
	apperrors "kapital/internal/errors"
	"kapital/internal/logger"
	"kapital/internal/models"
)

// recommendationService scores the catalog against user preferences and
// maintains each user's stored recommendation set.
type recommendationService struct {
	db *gorm.DB
}

// NewRecommendationService creates a new RecommendationServicer.
func NewRecommendationService(db *gorm.DB) RecommendationServicer {
	return &recommendationService{db: db}
}

// Generate replaces the user's recommendation set with a freshly scored
// one. Missing preferences and an empty candidate pool are reported as
// outcomes; only storage or query failures are errors.
func (s *recommendationService) Generate(userID uint) (*GenerateOutcome, error) {
	var prefRecord models.UserPreference
	if err := s.db.Where("user_id = ?", userID).First(&prefRecord).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &GenerateOutcome{Status: StatusNoPreferences}, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	candidates, err := s.candidateSecurities(userID)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return &GenerateOutcome{Status: StatusNoCandidates}, nil
	}

	features := make([]engine.SecurityFeatures, len(candidates))
	for i, sec := range candidates {
		features[i] = engine.NewSecurityFeatures(sec.ID, sec.Symbol, sec.CurrentPrice, sec.Sector, sec.Market)
	}

	pref := engine.Preference{
		RiskTolerance:     string(prefRecord.RiskTolerance),
		InvestmentHorizon: string(prefRecord.InvestmentHorizon),
		PreferredSectors:  prefRecord.PreferredSectors,
		PreferredMarkets:  prefRecord.PreferredMarkets,
	}

	matrix := engine.Encode(features)
	vector := engine.PreferenceVector(pref, matrix.Schema)
	ranked := engine.Rank(matrix, vector)

	now := time.Now()
	recommendations := make([]models.Recommendation, len(ranked))
	for i, scored := range ranked {
		recommendations[i] = models.Recommendation{
			UserID:      userID,
			SecurityID:  scored.ID,
			Score:       scored.Score,
			Reason:      engine.Reason(scored.SecurityFeatures, pref),
			GeneratedAt: now,
		}
	}

	// The stored set is replaced whole; readers never observe a partial
	// mix of old and new rows.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Recommendation{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Create(&recommendations).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("recommendations generated", "user_id", userID, "count", len(recommendations))

	stored, err := s.GetUserRecommendations(userID)
	if err != nil {
		return nil, err
	}
	return &GenerateOutcome{Status: StatusGenerated, Recommendations: stored}, nil
}

// GetUserRecommendations lists the user's stored set, best score first.
func (s *recommendationService) GetUserRecommendations(userID uint) ([]models.Recommendation, error) {
	var recommendations []models.Recommendation
	if err := s.db.Where("user_id = ?", userID).Preload("Security").
		Order("score desc, security_id asc").Find(&recommendations).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return recommendations, nil
}

// candidateSecurities returns the catalog minus the securities the user
// already holds. Holding something is the strongest signal the engine
// would otherwise re-recommend it.
func (s *recommendationService) candidateSecurities(userID uint) ([]models.Security, error) {
	heldIDs := s.db.Model(&models.PortfolioItem{}).
		Select("portfolio_items.security_id").
		Joins("JOIN portfolios ON portfolios.id = portfolio_items.portfolio_id").
		Where("portfolios.user_id = ? AND portfolio_items.security_id IS NOT NULL", userID)

	var candidates []models.Security
	if err := s.db.Where("id NOT IN (?)", heldIDs).Order("id asc").Find(&candidates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return candidates, nil
}
