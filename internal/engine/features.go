// Package engine implements the recommendation scoring and portfolio
// analytics computations. Everything in this package is pure: callers fetch
// a snapshot of data up front and the engine transforms it deterministically,
// so two calls with the same input always produce the same output.
package engine

import (
	"fmt"
	"math"
	"sort"
)

// UnknownCategory is substituted for a missing sector or market before
// encoding. Feature columns must never be derived from an empty category.
const UnknownCategory = "Unknown"

// SectorVolatility maps a sector to its volatility proxy. This is a
// placeholder for a signal computed from real historical data; the constants
// and the fallback trigger (a sector missing from the table) are part of the
// scoring contract and must stay stable.
var SectorVolatility = map[string]float64{
	"Technology":         0.3,
	"Healthcare":         0.2,
	"Financial Services": 0.25,
	"Consumer Goods":     0.15,
	"Energy":             0.35,
	"Utilities":          0.1,
	"Industrials":        0.2,
	"Materials":          0.25,
	"Real Estate":        0.2,
	"Telecommunications": 0.15,
	"Automotive":         0.4,
	"Entertainment":      0.3,
	"Retail":             0.25,
}

const (
	// DefaultVolatility is used for sectors not in the table.
	DefaultVolatility = 0.2
	// DefaultAvgVolume is the volume proxy when the price is zero or unset.
	DefaultAvgVolume = 500000
	// volumePerPriceUnit scales price into the volume proxy.
	volumePerPriceUnit = 10000
)

// Continuous feature column names. They sort ahead of the one-hot columns
// and alphabetically within their group.
const (
	colAvgVolume  = "avg_volume"
	colPrice      = "price"
	colVolatility = "volatility"
)

// SecurityFeatures is one security reduced to the signals used for scoring.
// Volatility and AvgVolume are derived proxies, not stored fields.
type SecurityFeatures struct {
	ID         uint
	Symbol     string
	Price      float64
	Sector     string
	Market     string
	Volatility float64
	AvgVolume  float64
}

// NewSecurityFeatures builds the feature view of a security, applying the
// derived-signal fallback policy and the Unknown substitution for missing
// categorical values.
func NewSecurityFeatures(id uint, symbol string, price float64, sector, market string) SecurityFeatures {
	if sector == "" {
		sector = UnknownCategory
	}
	if market == "" {
		market = UnknownCategory
	}

	volatility, ok := SectorVolatility[sector]
	if !ok {
		volatility = DefaultVolatility
	}

	avgVolume := float64(DefaultAvgVolume)
	if price > 0 {
		avgVolume = price * volumePerPriceUnit
	}

	return SecurityFeatures{
		ID:         id,
		Symbol:     symbol,
		Price:      price,
		Sector:     sector,
		Market:     market,
		Volatility: volatility,
		AvgVolume:  avgVolume,
	}
}

// Schema is the ordered list of feature columns for one encoding call. It is
// the single source of truth shared by the encoder and the preference
// vectorizer, so the two sides can never silently disagree on column order.
type Schema []string

// Index returns the position of a column, or -1 if absent.
func (s Schema) Index(name string) int {
	for i, col := range s {
		if col == name {
			return i
		}
	}
	return -1
}

// FeatureMatrix holds the encoded candidate set: one row per security, in
// input order, with columns described by Schema.
type FeatureMatrix struct {
	Schema     Schema
	Rows       [][]float64
	Securities []SecurityFeatures
}

// Encode turns a candidate set into a standardized feature matrix.
// Continuous columns are scaled to zero mean and unit variance across the
// candidate set; categorical columns are one-hot encoded. The column layout
// is continuous columns first, then sector columns, then market columns,
// each group in alphabetical order.
func Encode(securities []SecurityFeatures) *FeatureMatrix {
	schema := buildSchema(securities)

	rows := make([][]float64, len(securities))
	for i, sec := range securities {
		row := make([]float64, len(schema))
		row[schema.Index(colAvgVolume)] = sec.AvgVolume
		row[schema.Index(colPrice)] = sec.Price
		row[schema.Index(colVolatility)] = sec.Volatility
		row[schema.Index(sectorColumn(sec.Sector))] = 1
		row[schema.Index(marketColumn(sec.Market))] = 1
		rows[i] = row
	}

	for _, col := range []string{colAvgVolume, colPrice, colVolatility} {
		standardizeColumn(rows, schema.Index(col))
	}

	return &FeatureMatrix{
		Schema:     schema,
		Rows:       rows,
		Securities: securities,
	}
}

func buildSchema(securities []SecurityFeatures) Schema {
	sectors := map[string]bool{}
	markets := map[string]bool{}
	for _, sec := range securities {
		sectors[sec.Sector] = true
		markets[sec.Market] = true
	}

	schema := Schema{colAvgVolume, colPrice, colVolatility}
	for _, sector := range sortedKeys(sectors) {
		schema = append(schema, sectorColumn(sector))
	}
	for _, market := range sortedKeys(markets) {
		schema = append(schema, marketColumn(market))
	}
	return schema
}

func sectorColumn(sector string) string { return fmt.Sprintf("sector_%s", sector) }
func marketColumn(market string) string { return fmt.Sprintf("market_%s", market) }

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// standardizeColumn scales one column to zero mean and unit variance in
// place, using the population standard deviation. A zero-variance column
// (a single candidate, or identical values) becomes all zeros rather than
// dividing by zero.
func standardizeColumn(rows [][]float64, idx int) {
	if len(rows) == 0 {
		return
	}

	var sum float64
	for _, row := range rows {
		sum += row[idx]
	}
	mean := sum / float64(len(rows))

	var variance float64
	for _, row := range rows {
		d := row[idx] - mean
		variance += d * d
	}
	variance /= float64(len(rows))

	if variance == 0 {
		for _, row := range rows {
			row[idx] = 0
		}
		return
	}

	std := math.Sqrt(variance)
	for _, row := range rows {
		row[idx] = (row[idx] - mean) / std
	}
}
