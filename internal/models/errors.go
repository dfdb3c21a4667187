package models

import (
	"fmt"
	"strings"
)

// InsufficientDataError reports a symbol whose price series is too short for
// a weekly change calculation. The symbol is dropped from the output; the
// run continues.
type InsufficientDataError struct {
	Symbol string
	Points int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %s: %d price points, need at least 2", e.Symbol, e.Points)
}

// DataUnavailableError reports that a data source produced nothing, after
// both the live call and the fixture fallback failed. It aborts the run.
type DataUnavailableError struct {
	Source string
	Err    error
}

func (e *DataUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("data unavailable from %s", e.Source)
	}
	return fmt.Sprintf("data unavailable from %s: %v", e.Source, e.Err)
}

func (e *DataUnavailableError) Unwrap() error { return e.Err }

// Discrepancy is one primary-vs-secondary price mismatch found in
// verification mode.
type Discrepancy struct {
	Name      string
	Primary   float64
	Secondary float64
	DiffPct   float64
}

// PriceDiscrepancyError aborts a run when verification finds prices that
// diverge from the cross-check source beyond the configured tolerance.
type PriceDiscrepancyError struct {
	TolerancePct  float64
	Discrepancies []Discrepancy
}

func (e *PriceDiscrepancyError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "price discrepancy exceeds %.1f%% tolerance:", e.TolerancePct)
	for _, d := range e.Discrepancies {
		fmt.Fprintf(&b, "\n  %s: primary=%.2f, secondary=%.2f, diff=%.1f%%", d.Name, d.Primary, d.Secondary, d.DiffPct)
	}
	return b.String()
}
