// Package models defines the core domain entities for the weekly newsletter:
// price series, index and FX quotes, economic calendar events, and the
// per-run WeekSummary aggregate. All models include built-in validation to
// ensure data integrity throughout the pipeline.
//
// Entities are owned by the single generation run that creates them. A
// WeekSummary is built once per run and read-only during rendering.
package models

import (
	"errors"
	"time"
)

// rangeTolerance is the relative slack allowed when checking that a close
// sits inside the week range. Stale fixture data can place the close a hair
// outside the recorded high/low.
const rangeTolerance = 0.01

// PricePoint is one trading day of OHLCV data for a symbol.
type PricePoint struct {
	Date   string  `json:"date"` // YYYY-MM-DD
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// Validate checks that a price point is internally consistent.
func (p *PricePoint) Validate() error {
	if p.Date == "" {
		return errors.New("price point date must not be empty")
	}
	if _, err := time.Parse("2006-01-02", p.Date); err != nil {
		return errors.New("price point date must be YYYY-MM-DD")
	}
	if p.Low <= 0 || p.High <= 0 {
		return errors.New("price point high and low must be positive")
	}
	if p.Low > p.High {
		return errors.New("price point low must not exceed high")
	}
	if p.Close <= 0 {
		return errors.New("price point close must be positive")
	}
	return nil
}

// IndexQuote is the computed weekly view of one index for the snapshot table.
type IndexQuote struct {
	Name      string  `json:"name"`
	Symbol    string  `json:"symbol"`
	Region    string  `json:"region,omitempty"`
	ETFProxy  string  `json:"etf_proxy,omitempty"`
	Close     float64 `json:"close"`
	WeeklyPct float64 `json:"weekly_pct"`
	WeekLow   float64 `json:"week_low"`
	WeekHigh  float64 `json:"week_high"`
}

// Validate checks that all index quote fields are valid.
func (q *IndexQuote) Validate() error {
	if q.Name == "" {
		return errors.New("index quote name must not be empty")
	}
	if q.Symbol == "" {
		return errors.New("index quote symbol must not be empty")
	}
	if q.Close <= 0 {
		return errors.New("index quote close must be positive")
	}
	if q.WeekLow <= 0 || q.WeekHigh <= 0 {
		return errors.New("index quote week range must be positive")
	}
	if q.WeekLow > q.WeekHigh {
		return errors.New("index quote week low must not exceed week high")
	}
	if q.Close < q.WeekLow*(1-rangeTolerance) || q.Close > q.WeekHigh*(1+rangeTolerance) {
		return errors.New("index quote close must be within the week range")
	}
	return nil
}

// FxQuote is the computed weekly view of one currency pair.
type FxQuote struct {
	Name      string  `json:"name"` // pair, e.g. "EUR/USD"
	Symbol    string  `json:"symbol"`
	ETFProxy  string  `json:"etf_proxy,omitempty"`
	Rate      float64 `json:"rate"`
	WeeklyPct float64 `json:"weekly_pct"`
}

// Validate checks that all FX quote fields are valid.
func (q *FxQuote) Validate() error {
	if q.Name == "" {
		return errors.New("fx quote pair must not be empty")
	}
	if q.Rate <= 0 {
		return errors.New("fx quote rate must be positive")
	}
	return nil
}
