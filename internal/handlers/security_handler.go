package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "kapital/internal/errors"
	"kapital/internal/services"
)

const defaultHistoryDays = 90

// SecurityHandler handles security catalog requests
type SecurityHandler struct {
	securityService services.SecurityServicer
}

// NewSecurityHandler creates a new SecurityHandler
func NewSecurityHandler(securityService services.SecurityServicer) *SecurityHandler {
	return &SecurityHandler{securityService: securityService}
}

// ListSecurities returns the security catalog, optionally filtered by a search query
// @Summary     List securities
// @Description List the security catalog. When the query parameter is set the catalog is searched by symbol or name, resolving unknown symbols through the market data provider.
// @Tags        securities
// @Produce     json
// @Security    BearerAuth
// @Param       query query string false "Symbol or name search"
// @Param       page query int false "Page number" default(1)
// @Param       page_size query int false "Page size" default(20)
// @Success     200 {object} map[string]interface{} "Securities"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /securities [get]
func (h *SecurityHandler) ListSecurities(c *gin.Context) {
	if query := strings.TrimSpace(c.Query("query")); query != "" {
		results, err := h.securityService.Search(c.Request.Context(), query)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"securities": results})
		return
	}

	page := parsePageRequest(c)
	resp, err := h.securityService.ListSecurities(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetSecurity returns a single security, fetching it from the market data provider if unknown
// @Summary     Get security
// @Description Get a security by ticker symbol. Unknown symbols are resolved through the market data provider and added to the catalog.
// @Tags        securities
// @Produce     json
// @Security    BearerAuth
// @Param       symbol path string true "Ticker symbol"
// @Success     200 {object} map[string]interface{} "Security"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Quote unavailable"
// @Router      /securities/{symbol} [get]
func (h *SecurityHandler) GetSecurity(c *gin.Context) {
	symbol := strings.TrimSpace(c.Param("symbol"))
	if symbol == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "symbol is required"))
		return
	}

	security, err := h.securityService.FindOrCreateBySymbol(c.Request.Context(), symbol)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"security": security})
}

// GetHistory returns the daily price history for a security
// @Summary     Get security history
// @Description Get the daily price history for a security over the requested number of days
// @Tags        securities
// @Produce     json
// @Security    BearerAuth
// @Param       symbol path string true "Ticker symbol"
// @Param       days query int false "Number of days" default(90)
// @Success     200 {object} map[string]interface{} "Price history"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Security not found"
// @Router      /securities/{symbol}/history [get]
func (h *SecurityHandler) GetHistory(c *gin.Context) {
	symbol := strings.TrimSpace(c.Param("symbol"))
	if symbol == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "symbol is required"))
		return
	}

	days, err := strconv.Atoi(c.DefaultQuery("days", strconv.Itoa(defaultHistoryDays)))
	if err != nil || days <= 0 {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "days must be a positive integer"))
		return
	}

	history, err := h.securityService.GetHistory(symbol, days)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"symbol": strings.ToUpper(symbol), "history": history})
}
