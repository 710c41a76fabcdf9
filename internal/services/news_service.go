package services

import (
	"context"
	"errors"
	"regexp"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "kapital/internal/errors"
	"kapital/internal/models"
	"kapital/internal/news"
	"kapital/internal/pagination"
	"kapital/internal/sentiment"
)

// symbolPattern matches ticker-shaped tokens in headline text. It is a
// heuristic; common uppercase words slip through.
var symbolPattern = regexp.MustCompile(`\b[A-Z]{2,5}\b`)

// newsFetcher is the slice of the news client this service needs.
type newsFetcher interface {
	Fetch(ctx context.Context, query string) ([]news.Article, error)
}

// newsService fetches headlines, scores them, and persists the results.
type newsService struct {
	db     *gorm.DB
	client newsFetcher
}

// NewNewsService creates a new NewsServicer.
func NewNewsService(db *gorm.DB, client newsFetcher) NewsServicer {
	return &newsService{db: db, client: client}
}

// FetchAndStore fetches articles matching the query, scores each with the
// sentiment lexicon, and upserts them by URL.
func (s *newsService) FetchAndStore(ctx context.Context, query string) ([]models.NewsArticle, error) {
	articles, err := s.client.Fetch(ctx, query)
	if err != nil {
		if errors.Is(err, news.ErrDailyLimitReached) {
			return nil, apperrors.Wrap(apperrors.ErrNewsRateLimited, err)
		}
		return nil, apperrors.Wrap(apperrors.ErrNewsUnavailable, err)
	}

	stored := make([]models.NewsArticle, 0, len(articles))
	for _, a := range articles {
		record := models.NewsArticle{
			Title:          a.Title,
			URL:            a.URL,
			Source:         a.Source,
			PublishedAt:    a.PublishedAt,
			Summary:        a.Summary,
			SentimentScore: sentiment.Analyze(a.Title + " " + a.Summary),
			RelatedSymbols: datatypes.NewJSONSlice(extractSymbols(a.Title + " " + a.Summary)),
		}
		res := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "url"}},
			DoNothing: true,
		}).Create(&record)
		if res.Error != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		// A conflicted URL was stored by an earlier fetch; it is not new.
		if res.RowsAffected == 0 {
			continue
		}
		stored = append(stored, record)
	}
	return stored, nil
}

// ListLatest returns a page of stored articles, newest first.
func (s *newsService) ListLatest(page pagination.PageRequest) (*pagination.PageResponse[models.NewsArticle], error) {
	page.Defaults()

	var total int64
	if err := s.db.Model(&models.NewsArticle{}).Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var articles []models.NewsArticle
	if err := s.db.Scopes(pagination.Paginate(page)).
		Order("published_at desc").Find(&articles).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(articles, page.Page, page.PageSize, total)
	return &resp, nil
}

// extractSymbols pulls deduplicated ticker-shaped tokens out of text,
// preserving first-seen order.
func extractSymbols(text string) []string {
	seen := map[string]bool{}
	var symbols []string
	for _, match := range symbolPattern.FindAllString(text, -1) {
		if seen[match] {
			continue
		}
		seen[match] = true
		symbols = append(symbols, match)
	}
	return symbols
}
