package sentiment

import (
	"math"
	"testing"
)

func TestAnalyzeBullishHeadline(t *testing.T) {
	score := Analyze("Company beats estimates, analysts bullish after upgrade")
	if score <= 0 {
		t.Errorf("expected positive score, got %g", score)
	}
	if score > 1 {
		t.Errorf("score out of range: %g", score)
	}
}

func TestAnalyzeBearishHeadline(t *testing.T) {
	score := Analyze("Shares drop on bankruptcy fears and lawsuit")
	if score >= 0 {
		t.Errorf("expected negative score, got %g", score)
	}
	if score < -1 {
		t.Errorf("score out of range: %g", score)
	}
}

func TestAnalyzeNeutralAndEmpty(t *testing.T) {
	if got := Analyze(""); got != 0 {
		t.Errorf("expected 0 for empty text, got %g", got)
	}
	if got := Analyze("The company held its annual meeting on Tuesday"); got != 0 {
		t.Errorf("expected 0 for neutral text, got %g", got)
	}
}

func TestAnalyzeIgnoresURLs(t *testing.T) {
	with := Analyze("Profit growth continues https://example.com/bankruptcy-watch")
	without := Analyze("Profit growth continues")
	if math.Abs(with-without) > 1e-12 {
		t.Errorf("URL affected score: %g vs %g", with, without)
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	text := "Earnings beat expectations but debt rises"
	first := Analyze(text)
	for i := 0; i < 5; i++ {
		if got := Analyze(text); got != first {
			t.Fatalf("non-deterministic score: %g vs %g", got, first)
		}
	}
}

func TestKeywords(t *testing.T) {
	text := "Revenue growth accelerates; growth across cloud revenue segments"
	words := Keywords(text, 2)
	if len(words) != 2 {
		t.Fatalf("expected 2 keywords, got %v", words)
	}
	if words[0] != "growth" && words[0] != "revenue" {
		t.Errorf("unexpected top keyword %q", words[0])
	}
}
