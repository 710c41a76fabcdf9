package models

import "time"

// InvestmentType discriminates the asset a portfolio item points at.
// Exactly one of the three foreign keys is set per item.
type InvestmentType string

const (
	InvestmentTypeStock      InvestmentType = "stock"
	InvestmentTypeRealEstate InvestmentType = "real_estate"
	InvestmentTypeCrypto     InvestmentType = "cryptocurrency"
)

// Portfolio groups a user's holdings. Every user gets a default portfolio
// on first use.
type Portfolio struct {
	Base
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description,omitempty"`

	Items []PortfolioItem `gorm:"foreignKey:PortfolioID" json:"items,omitempty"`
}

// PortfolioItem is one entry in the holdings ledger. The investment type
// selects which of the nullable asset references is populated.
type PortfolioItem struct {
	Base
	PortfolioID      uint           `gorm:"not null;index" json:"portfolio_id"`
	InvestmentType   InvestmentType `gorm:"not null" json:"investment_type"`
	SecurityID       *uint          `json:"security_id,omitempty"`
	RealEstateID     *uint          `json:"real_estate_id,omitempty"`
	CryptocurrencyID *uint          `json:"cryptocurrency_id,omitempty"`
	Quantity         float64        `gorm:"not null" json:"quantity"`
	PurchasePrice    float64        `gorm:"not null" json:"purchase_price"`
	PurchaseDate     time.Time      `json:"purchase_date"`

	Security       *Security       `gorm:"foreignKey:SecurityID" json:"security,omitempty"`
	RealEstate     *RealEstate     `gorm:"foreignKey:RealEstateID" json:"real_estate,omitempty"`
	Cryptocurrency *Cryptocurrency `gorm:"foreignKey:CryptocurrencyID" json:"cryptocurrency,omitempty"`
}
