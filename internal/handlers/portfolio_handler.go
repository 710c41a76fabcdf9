package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "kapital/internal/errors"
	"kapital/internal/services"
)

// PortfolioHandler handles portfolio requests
type PortfolioHandler struct {
	portfolioService services.PortfolioServicer
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolioService services.PortfolioServicer) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService}
}

// AddItemRequest represents the payload for adding a holding. The
// investment_type field selects which of the remaining fields apply.
type AddItemRequest struct {
	InvestmentType string     `json:"investment_type" binding:"required,investment_type"`
	Symbol         string     `json:"symbol" binding:"omitempty,ticker_symbol"`
	Name           string     `json:"name" binding:"omitempty,max=255"`
	Quantity       float64    `json:"quantity" binding:"omitempty,gt=0"`
	PurchasePrice  float64    `json:"purchase_price" binding:"omitempty,gt=0"`
	PurchaseDate   *time.Time `json:"purchase_date"`
	Location       string     `json:"location" binding:"omitempty,max=255"`
	PropertyType   string     `json:"property_type" binding:"omitempty,property_type"`
	CurrentValue   float64    `json:"current_value" binding:"omitempty,gt=0"`
}

// GetHoldings returns the user's valued holdings
// @Summary     Get portfolio holdings
// @Description Get the authenticated user's holdings with current values and allocation breakdowns
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Valued holdings"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /portfolio [get]
func (h *PortfolioHandler) GetHoldings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	valuation, err := h.portfolioService.GetHoldings(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, valuation)
}

// AddItem adds a holding to the user's default portfolio
// @Summary     Add portfolio item
// @Description Add a stock, real estate, or cryptocurrency holding to the default portfolio. Adding an already-held asset increases its quantity.
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body AddItemRequest true "Holding data"
// @Success     201 {object} map[string]interface{} "Created item"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Quote unavailable"
// @Router      /portfolio/items [post]
func (h *PortfolioHandler) AddItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	purchaseDate := time.Now()
	if req.PurchaseDate != nil {
		purchaseDate = *req.PurchaseDate
	}

	item, err := h.addByType(c, userID, &req, purchaseDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"item": item})
}

func (h *PortfolioHandler) addByType(c *gin.Context, userID uint, req *AddItemRequest, purchaseDate time.Time) (interface{}, error) {
	switch req.InvestmentType {
	case "stock":
		if req.Symbol == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "symbol is required for stock holdings")
		}
		if req.Quantity <= 0 || req.PurchasePrice <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "quantity and purchase_price must be positive")
		}
		return h.portfolioService.AddStock(c.Request.Context(), userID, req.Symbol, req.Quantity, req.PurchasePrice, purchaseDate)
	case "real_estate":
		if strings.TrimSpace(req.Name) == "" || req.PropertyType == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name and property_type are required for real estate holdings")
		}
		if req.CurrentValue <= 0 || req.PurchasePrice <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "current_value and purchase_price must be positive")
		}
		return h.portfolioService.AddRealEstate(userID, req.Name, req.Location, req.PropertyType, req.CurrentValue, req.PurchasePrice, purchaseDate)
	case "cryptocurrency":
		if req.Symbol == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "symbol is required for cryptocurrency holdings")
		}
		if req.Quantity <= 0 || req.PurchasePrice <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "quantity and purchase_price must be positive")
		}
		return h.portfolioService.AddCrypto(c.Request.Context(), userID, req.Symbol, req.Name, req.Quantity, req.PurchasePrice, purchaseDate)
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported investment type")
	}
}

// RemoveItem removes a holding from the user's portfolio
// @Summary     Remove portfolio item
// @Description Remove a holding from the authenticated user's portfolio
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Item ID"
// @Success     200 {object} map[string]interface{} "Removal confirmation"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Router      /portfolio/items/{id} [delete]
func (h *PortfolioHandler) RemoveItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	itemID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.portfolioService.RemoveItem(userID, itemID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item removed from portfolio"})
}

// GetPerformance returns portfolio totals and the value timeline
// @Summary     Get portfolio performance
// @Description Get the portfolio's total value, cost basis, return, and historical value timeline
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.PerformanceReport "Performance report"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /portfolio/performance [get]
func (h *PortfolioHandler) GetPerformance(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.portfolioService.Performance(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
