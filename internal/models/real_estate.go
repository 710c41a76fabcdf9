package models

import "time"

// RealEstate represents a fixed-value property asset. Quantity is implicitly
// one; valuation uses the stored current value rather than a market quote.
type RealEstate struct {
	Base
	Name           string     `gorm:"not null" json:"name"`
	Location       string     `gorm:"not null" json:"location"`
	PropertyType   string     `gorm:"not null" json:"property_type"` // residential, commercial, industrial
	CurrentValue   float64    `json:"current_value"`
	ValueUpdatedAt *time.Time `json:"value_updated_at,omitempty"`

	History []RealEstateHistory `gorm:"foreignKey:RealEstateID" json:"history,omitempty"`
}

// RealEstateHistory represents a point-in-time appraisal of a property.
type RealEstateHistory struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RealEstateID uint      `gorm:"not null" json:"real_estate_id"`
	Date         time.Time `gorm:"not null" json:"date"`
	Value        float64   `gorm:"not null" json:"value"`
}
