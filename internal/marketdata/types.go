// Package marketdata fetches daily price series for the tracked indices and
// currency pairs, either live from the EOD API or from local fixture
// snapshots when the API is unreachable.
package marketdata

import (
	"fmt"
	"time"

	"github.com/framework-foundry/weekly/internal/models"
)

// Instrument identifies one tracked index or FX pair.
type Instrument struct {
	Name     string
	Symbol   string
	Region   string
	ETFProxy string
}

// Series is one instrument's daily price history for the week, in the shape
// fixture files use.
type Series struct {
	Symbol   string              `json:"symbol"`
	Region   string              `json:"region,omitempty"`
	ETFProxy string              `json:"etf_proxy,omitempty"`
	Data     []models.PricePoint `json:"data"`
}

// SeriesSet maps instrument display names to their weekly series.
type SeriesSet map[string]Series

// WeekWindow resolves a requested date to its trading week: the Friday at or
// before the date, back through that week's Monday.
func WeekWindow(date string) (from, to time.Time, err error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}

	for d.Weekday() != time.Friday {
		d = d.AddDate(0, 0, -1)
	}
	return d.AddDate(0, 0, -4), d, nil
}
