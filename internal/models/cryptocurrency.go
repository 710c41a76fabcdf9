package models

import "time"

// Cryptocurrency represents a tracked crypto asset.
type Cryptocurrency struct {
	Base
	Symbol         string     `gorm:"uniqueIndex;not null" json:"symbol"`
	Name           string     `gorm:"not null" json:"name"`
	CurrentPrice   float64    `json:"current_price"`
	PriceUpdatedAt *time.Time `json:"price_updated_at,omitempty"`

	History []CryptocurrencyHistory `gorm:"foreignKey:CryptocurrencyID" json:"history,omitempty"`
}

// CryptocurrencyHistory represents one daily OHLCV bar for a crypto asset.
type CryptocurrencyHistory struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	CryptocurrencyID uint      `gorm:"not null;uniqueIndex:uq_crypto_history_day" json:"cryptocurrency_id"`
	Date             time.Time `gorm:"not null;uniqueIndex:uq_crypto_history_day" json:"date"`
	Open             float64   `gorm:"not null" json:"open"`
	High             float64   `gorm:"not null" json:"high"`
	Low              float64   `gorm:"not null" json:"low"`
	Close            float64   `gorm:"not null" json:"close"`
	Volume           int64     `gorm:"not null" json:"volume"`
}
