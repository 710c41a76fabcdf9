package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"kapital/internal/services"
)

const defaultNewsQuery = "stock market"

// NewsHandler handles market news requests
type NewsHandler struct {
	newsService services.NewsServicer
}

// NewNewsHandler creates a new NewsHandler
func NewNewsHandler(newsService services.NewsServicer) *NewsHandler {
	return &NewsHandler{newsService: newsService}
}

// ListNews returns stored news articles, newest first
// @Summary     List news
// @Description List stored market news articles with sentiment scores, newest first
// @Tags        news
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number" default(1)
// @Param       page_size query int false "Page size" default(20)
// @Success     200 {object} map[string]interface{} "News articles"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /news [get]
func (h *NewsHandler) ListNews(c *gin.Context) {
	page := parsePageRequest(c)

	resp, err := h.newsService.ListLatest(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RefreshNews fetches fresh articles from the news provider and stores them
// @Summary     Refresh news
// @Description Fetch fresh articles for a query from the news provider, score their sentiment, and store them
// @Tags        news
// @Produce     json
// @Security    BearerAuth
// @Param       query query string false "Search query" default(stock market)
// @Success     200 {object} map[string]interface{} "Fetched articles"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     429 {object} ErrorResponse "Provider request limit reached"
// @Failure     502 {object} ErrorResponse "News provider unavailable"
// @Router      /news/refresh [post]
func (h *NewsHandler) RefreshNews(c *gin.Context) {
	query := strings.TrimSpace(c.DefaultQuery("query", defaultNewsQuery))

	articles, err := h.newsService.FetchAndStore(c.Request.Context(), query)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"articles": articles})
}
