package engine

import (
	"math"
	"sort"
)

// MaxRecommendations caps the ranked candidate list.
const MaxRecommendations = 20

// ScoredSecurity is one candidate with its similarity score.
type ScoredSecurity struct {
	SecurityFeatures
	Score float64
}

// CosineSimilarity returns the normalized dot product of two equal-length
// vectors, in [-1, 1]. When either vector has zero norm the similarity is
// defined as 0 rather than an error.
func CosineSimilarity(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Rank scores every row of the feature matrix against the preference vector
// and returns at most MaxRecommendations candidates, best first. Ties keep
// the candidates' original catalog order, so rankings are reproducible.
// An empty candidate set yields an empty list; the caller decides fallback.
func Rank(matrix *FeatureMatrix, preferenceVector []float64) []ScoredSecurity {
	scored := make([]ScoredSecurity, len(matrix.Rows))
	for i, row := range matrix.Rows {
		scored[i] = ScoredSecurity{
			SecurityFeatures: matrix.Securities[i],
			Score:            CosineSimilarity(preferenceVector, row),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > MaxRecommendations {
		scored = scored[:MaxRecommendations]
	}
	return scored
}
