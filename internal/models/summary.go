package models

import (
	"errors"
	"time"
)

// Edition selects which newsletter variant a run produces.
type Edition string

const (
	EditionDomestic      Edition = "domestic"
	EditionInternational Edition = "international"
)

// WeekSummary aggregates everything one generation run computed for a
// calendar week. It is built once per run and read-only afterwards.
type WeekSummary struct {
	ID          string    `json:"id"`
	Edition     Edition   `json:"edition"`
	WeekEnding  string    `json:"week_ending"` // YYYY-MM-DD
	GeneratedAt time.Time `json:"generated_at"`

	// Stale is set when the run fell back to a fixture snapshot more than
	// two days older than the requested week-ending date.
	Stale bool `json:"stale,omitempty"`

	Indices        []IndexQuote    `json:"indices"`
	FxRates        []FxQuote       `json:"fx_rates,omitempty"`
	PastEvents     []EconomicEvent `json:"past_events"`
	UpcomingEvents []EconomicEvent `json:"upcoming_events"`

	Best       *IndexQuote        `json:"best,omitempty"`
	Worst      *IndexQuote        `json:"worst,omitempty"`
	RegionAvgs map[string]float64 `json:"region_avgs,omitempty"`
}

// Validate checks that the summary and all its contained entities are valid.
func (s *WeekSummary) Validate() error {
	if s.ID == "" {
		return errors.New("summary ID must not be empty")
	}
	if s.Edition != EditionDomestic && s.Edition != EditionInternational {
		return errors.New("summary edition must be domestic or international")
	}
	if _, err := time.Parse("2006-01-02", s.WeekEnding); err != nil {
		return errors.New("summary week ending must be YYYY-MM-DD")
	}
	for i := range s.Indices {
		if err := s.Indices[i].Validate(); err != nil {
			return err
		}
	}
	for i := range s.FxRates {
		if err := s.FxRates[i].Validate(); err != nil {
			return err
		}
	}
	for i := range s.PastEvents {
		if err := s.PastEvents[i].Validate(); err != nil {
			return err
		}
	}
	for i := range s.UpcomingEvents {
		if err := s.UpcomingEvents[i].Validate(); err != nil {
			return err
		}
	}
	if (s.Best == nil) != (s.Worst == nil) {
		return errors.New("summary best and worst must be set together")
	}
	if s.Best != nil && s.Best.WeeklyPct < s.Worst.WeeklyPct {
		return errors.New("summary best performer must not trail the worst")
	}
	return nil
}

// Index returns the index quote with the given name, or nil.
func (s *WeekSummary) Index(name string) *IndexQuote {
	for i := range s.Indices {
		if s.Indices[i].Name == name {
			return &s.Indices[i]
		}
	}
	return nil
}

// Fx returns the FX quote for the given pair name, or nil.
func (s *WeekSummary) Fx(pair string) *FxQuote {
	for i := range s.FxRates {
		if s.FxRates[i].Name == pair {
			return &s.FxRates[i]
		}
	}
	return nil
}

// PositioningTip is one generated portfolio-adjustment bullet. Subject names
// the quote or event that triggered the rule.
type PositioningTip struct {
	Subject string `json:"subject"`
	Text    string `json:"text"`
}
