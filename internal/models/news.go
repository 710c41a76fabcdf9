package models

import (
	"time"

	"gorm.io/datatypes"
)

// NewsArticle is a market news item with its lexicon sentiment score.
type NewsArticle struct {
	Base
	Title          string                      `gorm:"not null" json:"title"`
	URL            string                      `gorm:"not null;uniqueIndex" json:"url"`
	Source         string                      `json:"source"`
	PublishedAt    time.Time                   `gorm:"not null;index" json:"published_at"`
	Summary        string                      `gorm:"type:text" json:"summary,omitempty"`
	SentimentScore float64                     `json:"sentiment_score"`
	RelatedSymbols datatypes.JSONSlice[string] `json:"related_symbols"`
}
