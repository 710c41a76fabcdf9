package services

import (
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	apperrors "kapital/internal/errors"
	"kapital/internal/models"
)

// preferenceService handles investment preference business logic.
type preferenceService struct {
	db *gorm.DB
}

// NewPreferenceService creates a new PreferenceServicer.
func NewPreferenceService(db *gorm.DB) PreferenceServicer {
	return &preferenceService{db: db}
}

// GetPreferences retrieves the user's stored preferences.
func (s *preferenceService) GetPreferences(userID uint) (*models.UserPreference, error) {
	var pref models.UserPreference
	if err := s.db.Where("user_id = ?", userID).First(&pref).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPreferencesNotSet
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &pref, nil
}

// SetPreferences creates or replaces the user's preference record.
func (s *preferenceService) SetPreferences(userID uint, risk models.RiskTolerance, horizon models.InvestmentHorizon, sectors, markets []string, initialInvestment float64) (*models.UserPreference, error) {
	if initialInvestment < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "initial investment cannot be negative")
	}

	var pref models.UserPreference
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", userID).First(&pref).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		pref.UserID = userID
		pref.RiskTolerance = risk
		pref.InvestmentHorizon = horizon
		pref.PreferredSectors = datatypes.NewJSONSlice(sectors)
		pref.PreferredMarkets = datatypes.NewJSONSlice(markets)
		pref.InitialInvestment = initialInvestment

		if err := tx.Save(&pref).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &pref, nil
}
