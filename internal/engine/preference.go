package engine

import "strings"

// Preference is the engine's view of a user's stated preferences.
type Preference struct {
	RiskTolerance     string // low, medium, high
	InvestmentHorizon string // short, medium, long
	PreferredSectors  []string
	PreferredMarkets  []string
}

// Fixed weights of the hand-specified scoring policy. These are not learned
// parameters; changing them changes every user's ranking.
const (
	riskWeightLow  = -1.0
	riskWeightHigh = 1.0

	horizonWeightShort = -0.5
	horizonWeightLong  = 0.5

	// Liquidity is always mildly preferred.
	volumeWeight = 0.5

	membershipWeight = 1.0
)

// PreferenceVector maps a preference record onto the column space of the
// current candidate set. The result has exactly one entry per schema column,
// in schema order; columns not covered by the mapping rules stay zero.
func PreferenceVector(pref Preference, schema Schema) []float64 {
	riskWeight := 0.0
	switch pref.RiskTolerance {
	case "low":
		riskWeight = riskWeightLow
	case "high":
		riskWeight = riskWeightHigh
	}

	horizonWeight := 0.0
	switch pref.InvestmentHorizon {
	case "short":
		horizonWeight = horizonWeightShort
	case "long":
		horizonWeight = horizonWeightLong
	}

	sectors := stringSet(pref.PreferredSectors)
	markets := stringSet(pref.PreferredMarkets)

	vector := make([]float64, len(schema))
	for i, col := range schema {
		switch {
		case col == colVolatility:
			vector[i] = riskWeight
		case col == colPrice:
			vector[i] = horizonWeight
		case col == colAvgVolume:
			vector[i] = volumeWeight
		case strings.HasPrefix(col, "sector_"):
			if sectors[strings.TrimPrefix(col, "sector_")] {
				vector[i] = membershipWeight
			}
		case strings.HasPrefix(col, "market_"):
			if markets[strings.TrimPrefix(col, "market_")] {
				vector[i] = membershipWeight
			}
		}
	}
	return vector
}

func stringSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
