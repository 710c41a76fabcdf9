// Package sentiment scores financial news text with a weighted lexicon.
// Scores are deterministic and bounded to [-1, 1].
package sentiment

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// financialLexicon maps finance terms to valence weights. Positive weights
// mark bullish language, negative weights bearish language.
var financialLexicon = map[string]float64{
	"beat":          2.0,
	"beats":         2.0,
	"exceeded":      2.0,
	"outperform":    2.0,
	"outperformed":  2.0,
	"bullish":       2.5,
	"upgrade":       2.0,
	"upgraded":      2.0,
	"rise":          1.0,
	"rises":         1.0,
	"rising":        1.0,
	"grew":          1.0,
	"growth":        1.5,
	"profit":        1.5,
	"profitable":    1.5,
	"dividend":      1.0,
	"dividends":     1.0,
	"gain":          1.0,
	"gains":         1.0,
	"record":        1.0,
	"strong":        1.0,
	"miss":          -2.0,
	"missed":        -2.0,
	"misses":        -2.0,
	"downgrade":     -2.0,
	"downgraded":    -2.0,
	"fall":          -1.0,
	"falls":         -1.0,
	"falling":       -1.0,
	"drop":          -1.0,
	"drops":         -1.0,
	"dropping":      -1.0,
	"decrease":      -1.0,
	"decreases":     -1.0,
	"decreasing":    -1.0,
	"bearish":       -2.5,
	"loss":          -1.5,
	"losses":        -1.5,
	"weak":          -1.0,
	"debt":          -1.0,
	"investigation": -2.0,
	"lawsuit":       -2.0,
	"regulation":    -1.0,
	"regulations":   -1.0,
	"regulatory":    -1.0,
	"recession":     -3.0,
	"bankrupt":      -4.0,
	"bankruptcy":    -4.0,
}

// normalizationAlpha dampens raw valence sums into the [-1, 1] range.
const normalizationAlpha = 15.0

var (
	urlRegex        = regexp.MustCompile(`https?://\S+|www\.\S+`)
	nonWordRegex    = regexp.MustCompile(`\W`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// Analyze scores the given text. Empty or neutral text scores 0.
func Analyze(text string) float64 {
	if text == "" {
		return 0
	}

	var sum float64
	for _, token := range tokenize(text) {
		sum += financialLexicon[token]
	}
	if sum == 0 {
		return 0
	}
	return sum / math.Sqrt(sum*sum+normalizationAlpha)
}

// Keywords returns the most frequent non-stopword tokens, ties broken
// alphabetically.
func Keywords(text string, topN int) []string {
	if text == "" || topN <= 0 {
		return nil
	}

	freq := make(map[string]int)
	for _, token := range tokenize(text) {
		if len(token) <= 2 || stopwords[token] {
			continue
		}
		freq[token]++
	}

	words := make([]string, 0, len(freq))
	for w := range freq {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if freq[words[i]] != freq[words[j]] {
			return freq[words[i]] > freq[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > topN {
		words = words[:topN]
	}
	return words
}

// tokenize lowercases the text, strips URLs and punctuation, and splits
// on whitespace.
func tokenize(text string) []string {
	cleaned := urlRegex.ReplaceAllString(text, " ")
	cleaned = nonWordRegex.ReplaceAllString(cleaned, " ")
	cleaned = whitespaceRegex.ReplaceAllString(cleaned, " ")
	cleaned = strings.ToLower(strings.TrimSpace(cleaned))
	if cleaned == "" {
		return nil
	}
	return strings.Split(cleaned, " ")
}

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "had": true,
	"her": true, "was": true, "one": true, "our": true, "out": true,
	"has": true, "have": true, "this": true, "that": true, "with": true,
	"from": true, "they": true, "will": true, "what": true, "when": true,
	"which": true, "their": true, "said": true, "says": true, "after": true,
	"about": true, "into": true, "over": true, "than": true, "them": true,
	"then": true, "its": true, "also": true, "been": true, "more": true,
}
