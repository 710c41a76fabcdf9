package models

import "gorm.io/datatypes"

// RiskTolerance represents a user's appetite for volatility.
type RiskTolerance string

const (
	RiskToleranceLow    RiskTolerance = "low"
	RiskToleranceMedium RiskTolerance = "medium"
	RiskToleranceHigh   RiskTolerance = "high"
)

// InvestmentHorizon represents how long a user intends to stay invested.
type InvestmentHorizon string

const (
	HorizonShort  InvestmentHorizon = "short"
	HorizonMedium InvestmentHorizon = "medium"
	HorizonLong   InvestmentHorizon = "long"
)

// UserPreference holds a user's stated investment preferences. One row per
// user; written by the profile flow, read by the recommendation engine.
type UserPreference struct {
	Base
	UserID            uint                        `gorm:"uniqueIndex;not null" json:"user_id"`
	RiskTolerance     RiskTolerance               `gorm:"not null" json:"risk_tolerance"`
	InvestmentHorizon InvestmentHorizon           `gorm:"not null" json:"investment_horizon"`
	PreferredSectors  datatypes.JSONSlice[string] `json:"preferred_sectors"`
	PreferredMarkets  datatypes.JSONSlice[string] `json:"preferred_markets"`
	InitialInvestment float64                     `gorm:"default:0" json:"initial_investment"`
}
