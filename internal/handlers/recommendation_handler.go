package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kapital/internal/services"
)

// RecommendationHandler handles recommendation requests
type RecommendationHandler struct {
	recommendationService services.RecommendationServicer
}

// NewRecommendationHandler creates a new RecommendationHandler
func NewRecommendationHandler(recommendationService services.RecommendationServicer) *RecommendationHandler {
	return &RecommendationHandler{recommendationService: recommendationService}
}

// Generate runs the recommendation engine for the user
// @Summary     Generate recommendations
// @Description Score the security catalog against the user's preferences and store a fresh recommendation set. Returns a status of generated, no_preferences, or no_candidates.
// @Tags        recommendations
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.GenerateOutcome "Generation outcome"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /recommendations/generate [post]
func (h *RecommendationHandler) Generate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	outcome, err := h.recommendationService.Generate(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, outcome)
}

// GetRecommendations returns the user's stored recommendation set
// @Summary     Get recommendations
// @Description Get the authenticated user's most recent recommendation set, highest score first
// @Tags        recommendations
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Recommendations"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /recommendations [get]
func (h *RecommendationHandler) GetRecommendations(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recs, err := h.recommendationService.GetUserRecommendations(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}
