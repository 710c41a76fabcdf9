package engine

import "time"

// The timeline covers the trailing 30 days with a fixed number of samples.
// Chart consumers rely on a stable point count regardless of window length,
// so the sampler truncates to at most performanceSamples points and never
// pads.
const (
	performanceWindowDays = 30
	performanceSamples    = 7
)

// PerformanceSample is one point of the portfolio value timeline.
type PerformanceSample struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// HistoricalPriceLookup returns the latest known unit price for a holding at
// or before the given date, or false when no price is known. For real estate
// the "price" is the appraised value at that date.
type HistoricalPriceLookup func(h Holding, date time.Time) (float64, bool)

// SampleTimeline reconstructs historical portfolio value at fixed intervals
// over the trailing window, oldest sample first. A holding with no known
// price at a sample date contributes 0 to that sample; the sample itself is
// never dropped.
func SampleTimeline(holdings []Holding, today time.Time, lookup HistoricalPriceLookup) []PerformanceSample {
	interval := performanceWindowDays / (performanceSamples - 1)
	if interval < 1 {
		interval = 1
	}

	offsets := make([]int, 0, performanceSamples)
	for offset := 0; offset <= performanceWindowDays; offset += interval {
		offsets = append(offsets, offset)
		if len(offsets) == performanceSamples {
			break
		}
	}

	timeline := make([]PerformanceSample, 0, len(offsets))
	for _, offset := range offsets {
		date := today.AddDate(0, 0, -offset)

		var value float64
		for _, h := range holdings {
			if price, ok := lookup(h, date); ok {
				value += price * h.Quantity
			}
		}

		timeline = append(timeline, PerformanceSample{Date: date, Value: value})
	}

	// Samples were generated newest first; charts read oldest to newest.
	for i, j := 0, len(timeline)-1; i < j; i, j = i+1, j-1 {
		timeline[i], timeline[j] = timeline[j], timeline[i]
	}
	return timeline
}
