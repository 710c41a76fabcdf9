package engine

import (
	"sort"
	"time"
)

// CryptoAllocationBucket is the fixed allocation category for crypto
// holdings; securities group by sector and real estate by property type.
const CryptoAllocationBucket = "Cryptocurrency"

// Holding is one ledger entry resolved against current prices. For real
// estate, CurrentPrice carries the appraised value and Quantity is 1.
type Holding struct {
	ItemID        uint      `json:"item_id"`
	Type          string    `json:"investment_type"` // stock, real_estate, cryptocurrency
	AssetID       uint      `json:"asset_id"`
	Symbol        string    `json:"symbol,omitempty"`
	Name          string    `json:"name"`
	Category      string    `json:"category"` // sector, property type, or the crypto bucket
	Quantity      float64   `json:"quantity"`
	PurchasePrice float64   `json:"purchase_price"`
	CurrentPrice  float64   `json:"current_price"`
	PurchaseDate  time.Time `json:"purchase_date"`
}

// HoldingValuation is a holding with its computed value and return.
type HoldingValuation struct {
	Holding
	CurrentValue      float64 `json:"current_value"`
	CostBasis         float64 `json:"cost_basis"`
	ProfitLoss        float64 `json:"profit_loss"`
	ProfitLossPercent float64 `json:"profit_loss_percent"`
}

// AllocationSlice is one category's share of portfolio value.
type AllocationSlice struct {
	Category   string  `json:"category"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// Valuation aggregates a holdings ledger against current prices.
type Valuation struct {
	TotalValue         float64            `json:"total_value"`
	TotalCost          float64            `json:"total_cost"`
	TotalReturn        float64            `json:"total_return"`
	TotalReturnPercent float64            `json:"total_return_percent"`
	Holdings           []HoldingValuation `json:"holdings"`
	Allocation         []AllocationSlice  `json:"allocation"`
}

// Value computes current value, cost basis, and return for a holdings
// ledger, plus the per-category allocation breakdown. A zero cost basis
// yields a 0% return rather than a division error.
func Value(holdings []Holding) Valuation {
	valuation := Valuation{Holdings: make([]HoldingValuation, 0, len(holdings))}
	byCategory := map[string]float64{}

	for _, h := range holdings {
		currentValue := h.CurrentPrice * h.Quantity
		costBasis := h.PurchasePrice * h.Quantity

		hv := HoldingValuation{
			Holding:      h,
			CurrentValue: currentValue,
			CostBasis:    costBasis,
			ProfitLoss:   currentValue - costBasis,
		}
		if costBasis > 0 {
			hv.ProfitLossPercent = hv.ProfitLoss / costBasis * 100
		}

		valuation.TotalValue += currentValue
		valuation.TotalCost += costBasis
		byCategory[h.Category] += currentValue
		valuation.Holdings = append(valuation.Holdings, hv)
	}

	valuation.TotalReturn = valuation.TotalValue - valuation.TotalCost
	if valuation.TotalCost > 0 {
		valuation.TotalReturnPercent = valuation.TotalReturn / valuation.TotalCost * 100
	}

	for _, category := range sortedFloatKeys(byCategory) {
		slice := AllocationSlice{Category: category, Value: byCategory[category]}
		if valuation.TotalValue > 0 {
			slice.Percentage = slice.Value / valuation.TotalValue * 100
		}
		valuation.Allocation = append(valuation.Allocation, slice)
	}

	return valuation
}

func sortedFloatKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
