package engine

import "testing"

func TestReason(t *testing.T) {
	basePref := Preference{
		RiskTolerance:     "low",
		InvestmentHorizon: "long",
		PreferredSectors:  []string{"Technology"},
		PreferredMarkets:  []string{"US"},
	}

	t.Run("all_clauses_joined", func(t *testing.T) {
		sec := SecurityFeatures{
			Symbol: "AAPL", Sector: "Technology", Market: "US",
			Volatility: 0.1, AvgVolume: 2000000,
		}
		got := Reason(sec, basePref)
		want := "This stock is in your preferred Technology sector" +
			" and This stock is in your preferred US market" +
			" and This stock has low volatility, matching your conservative risk profile" +
			" and This stock has high trading volume, indicating good liquidity."
		if got != want {
			t.Errorf("unexpected reason:\n got %q\nwant %q", got, want)
		}
	})

	t.Run("volatility_band_medium", func(t *testing.T) {
		pref := Preference{RiskTolerance: "medium"}
		sec := SecurityFeatures{Sector: "Materials", Market: "Asia", Volatility: 0.25, AvgVolume: 100}
		want := "This stock has moderate volatility, suitable for your balanced risk profile."
		if got := Reason(sec, pref); got != want {
			t.Errorf("unexpected reason: %q", got)
		}
	})

	t.Run("volatility_band_boundaries_inclusive", func(t *testing.T) {
		pref := Preference{RiskTolerance: "medium"}
		for _, volatility := range []float64{0.2, 0.4} {
			sec := SecurityFeatures{Sector: "Materials", Market: "Asia", Volatility: volatility, AvgVolume: 100}
			want := "This stock has moderate volatility, suitable for your balanced risk profile."
			if got := Reason(sec, pref); got != want {
				t.Errorf("volatility %.1f: unexpected reason %q", volatility, got)
			}
		}
	})

	t.Run("generic_fallback", func(t *testing.T) {
		sec := SecurityFeatures{Sector: "Energy", Market: "Asia", Volatility: 0.35, AvgVolume: 100}
		want := "This stock matches your overall investment profile."
		if got := Reason(sec, basePref); got != want {
			t.Errorf("expected fallback sentence, got %q", got)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		sec := SecurityFeatures{Symbol: "JNJ", Sector: "Healthcare", Market: "US", Volatility: 0.2, AvgVolume: 1600000}
		if Reason(sec, basePref) != Reason(sec, basePref) {
			t.Error("reason text differs between identical calls")
		}
	})
}
