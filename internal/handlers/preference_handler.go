package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "kapital/internal/errors"
	"kapital/internal/models"
	"kapital/internal/services"
)

// PreferenceHandler handles investment preference requests
type PreferenceHandler struct {
	preferenceService services.PreferenceServicer
}

// NewPreferenceHandler creates a new PreferenceHandler
func NewPreferenceHandler(preferenceService services.PreferenceServicer) *PreferenceHandler {
	return &PreferenceHandler{preferenceService: preferenceService}
}

// SetPreferencesRequest represents the preference update payload
type SetPreferencesRequest struct {
	RiskTolerance     string   `json:"risk_tolerance" binding:"required,risk_tolerance"`
	InvestmentHorizon string   `json:"investment_horizon" binding:"required,investment_horizon"`
	PreferredSectors  []string `json:"preferred_sectors"`
	PreferredMarkets  []string `json:"preferred_markets"`
	InitialInvestment float64  `json:"initial_investment" binding:"gte=0"`
}

// GetPreferences returns the user's investment preferences
// @Summary     Get investment preferences
// @Description Get the authenticated user's stored investment preferences
// @Tags        preferences
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Preferences"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Preferences not set"
// @Router      /preferences [get]
func (h *PreferenceHandler) GetPreferences(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	pref, err := h.preferenceService.GetPreferences(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"preferences": pref})
}

// SetPreferences creates or replaces the user's investment preferences
// @Summary     Set investment preferences
// @Description Create or replace the authenticated user's investment preferences
// @Tags        preferences
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SetPreferencesRequest true "Preference data"
// @Success     200 {object} map[string]interface{} "Updated preferences"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /preferences [put]
func (h *PreferenceHandler) SetPreferences(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetPreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	pref, err := h.preferenceService.SetPreferences(
		userID,
		models.RiskTolerance(req.RiskTolerance),
		models.InvestmentHorizon(req.InvestmentHorizon),
		req.PreferredSectors,
		req.PreferredMarkets,
		req.InitialInvestment,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"preferences": pref})
}
