package engine

import (
	"fmt"
	"strings"
)

// Volatility bands used when matching a candidate against risk tolerance.
const (
	lowVolatilityCeiling  = 0.2
	highVolatilityFloor   = 0.4
	liquidVolumeThreshold = 1000000
)

// Reason derives the human-readable explanation for recommending a security
// to a user. The checks run in a fixed order and each true condition
// contributes one clause, so the same inputs always produce the same
// sentence.
func Reason(sec SecurityFeatures, pref Preference) string {
	var reasons []string

	if stringSet(pref.PreferredSectors)[sec.Sector] {
		reasons = append(reasons, fmt.Sprintf("This stock is in your preferred %s sector", sec.Sector))
	}

	if stringSet(pref.PreferredMarkets)[sec.Market] {
		reasons = append(reasons, fmt.Sprintf("This stock is in your preferred %s market", sec.Market))
	}

	switch {
	case pref.RiskTolerance == "low" && sec.Volatility < lowVolatilityCeiling:
		reasons = append(reasons, "This stock has low volatility, matching your conservative risk profile")
	case pref.RiskTolerance == "medium" && sec.Volatility >= lowVolatilityCeiling && sec.Volatility <= highVolatilityFloor:
		reasons = append(reasons, "This stock has moderate volatility, suitable for your balanced risk profile")
	case pref.RiskTolerance == "high" && sec.Volatility > highVolatilityFloor:
		reasons = append(reasons, "This stock has higher volatility, aligning with your aggressive risk profile")
	}

	if sec.AvgVolume > liquidVolumeThreshold {
		reasons = append(reasons, "This stock has high trading volume, indicating good liquidity")
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "This stock matches your overall investment profile")
	}

	return strings.Join(reasons, " and ") + "."
}
