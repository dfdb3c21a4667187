package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Surprise classifies an economic indicator's actual value relative to the
// consensus expectation.
type Surprise string

const (
	SurpriseAbove   Surprise = "above"
	SurpriseBelow   Surprise = "below"
	SurpriseNeutral Surprise = "neutral"
	SurpriseUnknown Surprise = "unknown"
)

// Importance grades how market-moving a calendar event is expected to be.
// Fixture files carry it as an integer (1=low, 2=medium, 3=high).
type Importance int

const (
	ImportanceLow    Importance = 1
	ImportanceMedium Importance = 2
	ImportanceHigh   Importance = 3
)

// String returns the human-readable importance label.
func (i Importance) String() string {
	switch {
	case i >= ImportanceHigh:
		return "high"
	case i == ImportanceMedium:
		return "medium"
	default:
		return "low"
	}
}

// Value holds an economic reading that may be a decimal or free text such
// as "--" or "229K". It decodes from either a JSON number or a JSON string.
type Value string

// UnmarshalJSON accepts numbers, strings, and null.
func (v *Value) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*v = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*v = Value(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("value must be a number or string: %w", err)
	}
	*v = Value(num.String())
	return nil
}

// Float parses the value as a decimal. It tolerates a trailing percent sign,
// thousands separators, and K/M/B magnitude suffixes. The second return is
// false for missing or non-numeric values such as "--".
func (v Value) Float() (float64, bool) {
	s := strings.TrimSpace(string(v))
	if s == "" || s == "--" {
		return 0, false
	}
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")

	mult := 1.0
	if len(s) > 0 {
		switch s[len(s)-1] {
		case 'K', 'k':
			mult = 1e3
		case 'M', 'm':
			mult = 1e6
		case 'B', 'b':
			mult = 1e9
		}
		if mult != 1.0 {
			s = s[:len(s)-1]
		}
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f * mult, true
}

// IsSet reports whether the value carries any reading at all.
func (v Value) IsSet() bool {
	s := strings.TrimSpace(string(v))
	return s != "" && s != "--"
}

// EconomicEvent is one macro calendar entry: a released figure from the past
// week or a scheduled release in the upcoming week.
type EconomicEvent struct {
	Name       string     `json:"event"`
	Date       string     `json:"date"` // YYYY-MM-DD
	Actual     Value      `json:"actual,omitempty"`
	Expected   Value      `json:"expected,omitempty"`
	Previous   Value      `json:"previous,omitempty"`
	Unit       string     `json:"unit,omitempty"`
	Importance Importance `json:"importance"`
	Impact     string     `json:"impact,omitempty"`

	// Surprise is derived from Actual vs Expected by the classifier,
	// never read from the fixture.
	Surprise Surprise `json:"surprise,omitempty"`
}

// Validate checks that all event fields are valid.
func (e *EconomicEvent) Validate() error {
	if e.Name == "" {
		return errors.New("event name must not be empty")
	}
	if e.Date == "" {
		return errors.New("event date must not be empty")
	}
	if _, err := time.Parse("2006-01-02", e.Date); err != nil {
		return errors.New("event date must be YYYY-MM-DD")
	}
	if e.Importance < 0 || e.Importance > ImportanceHigh {
		return errors.New("event importance must be between 0 and 3")
	}
	switch e.Surprise {
	case "", SurpriseAbove, SurpriseBelow, SurpriseNeutral, SurpriseUnknown:
	default:
		return errors.New("event surprise must be above, below, neutral, or unknown")
	}
	return nil
}

// DisplayActual returns the actual reading with its unit for tables.
func (e *EconomicEvent) DisplayActual() string { return displayValue(e.Actual, e.Unit) }

// DisplayExpected returns the expected reading with its unit for tables.
func (e *EconomicEvent) DisplayExpected() string { return displayValue(e.Expected, e.Unit) }

// DisplayPrevious returns the previous reading with its unit for tables.
func (e *EconomicEvent) DisplayPrevious() string { return displayValue(e.Previous, e.Unit) }

func displayValue(v Value, unit string) string {
	if !v.IsSet() {
		return "--"
	}
	return string(v) + unit
}
