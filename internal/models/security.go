package models

import "time"

// Security represents a listed equity tracked by the catalog. Rows are
// created the first time a symbol is looked up or added to a portfolio;
// price fields are refreshed by the market data collaborator.
type Security struct {
	Base
	Symbol         string     `gorm:"uniqueIndex;not null" json:"symbol"`
	Name           string     `gorm:"not null" json:"name"`
	Sector         string     `json:"sector,omitempty"`
	Market         string     `json:"market,omitempty"`
	CurrentPrice   float64    `json:"current_price"`
	PriceUpdatedAt *time.Time `json:"price_updated_at,omitempty"`

	History []SecurityHistory `gorm:"foreignKey:SecurityID" json:"history,omitempty"`
}

// SecurityHistory represents one daily OHLCV bar for a security.
// Immutable time-series data; at most one row per security per day.
type SecurityHistory struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SecurityID uint      `gorm:"not null;uniqueIndex:uq_security_history_day" json:"security_id"`
	Date       time.Time `gorm:"not null;uniqueIndex:uq_security_history_day" json:"date"`
	Open       float64   `gorm:"not null" json:"open"`
	High       float64   `gorm:"not null" json:"high"`
	Low        float64   `gorm:"not null" json:"low"`
	Close      float64   `gorm:"not null" json:"close"`
	Volume     int64     `gorm:"not null" json:"volume"`
}
