// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var symbolRegex = regexp.MustCompile(`^[A-Za-z0-9.\-]{1,12}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("risk_tolerance", validateRiskTolerance)
		_ = v.RegisterValidation("investment_horizon", validateInvestmentHorizon)
		_ = v.RegisterValidation("investment_type", validateInvestmentType)
		_ = v.RegisterValidation("property_type", validatePropertyType)
		_ = v.RegisterValidation("ticker_symbol", validateTickerSymbol)
	}
}

func validateRiskTolerance(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "low", "medium", "high":
		return true
	}
	return false
}

func validateInvestmentHorizon(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "short", "medium", "long":
		return true
	}
	return false
}

func validateInvestmentType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "stock", "real_estate", "cryptocurrency":
		return true
	}
	return false
}

func validatePropertyType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "residential", "commercial", "industrial", "land":
		return true
	}
	return false
}

func validateTickerSymbol(fl validator.FieldLevel) bool {
	return symbolRegex.MatchString(fl.Field().String())
}
