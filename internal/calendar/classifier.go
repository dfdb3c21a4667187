// Package calendar loads the weekly economic calendar and classifies how
// each released figure compared to the consensus forecast.
package calendar

import (
	"sort"
	"strings"

	"github.com/framework-foundry/weekly/internal/models"
)

// Classify compares an actual release to its consensus forecast. A release
// more than epsilon above consensus is a positive surprise and more than
// epsilon below is a negative one. Everything else, including values that
// are absent or not numeric (placeholders like "--"), is neutral. The
// comparison is symmetric: swapping actual and expected flips above/below.
func Classify(actual, expected models.Value, epsilon float64) models.Surprise {
	a, aok := actual.Float()
	e, eok := expected.Float()
	if !aok || !eok {
		return models.SurpriseNeutral
	}

	switch {
	case a-e > epsilon:
		return models.SurpriseAbove
	case e-a > epsilon:
		return models.SurpriseBelow
	default:
		return models.SurpriseNeutral
	}
}

// ClassifyAll stamps every event's Surprise field in place. Whatever the
// upstream feed claimed about the surprise is discarded.
func ClassifyAll(events []models.EconomicEvent, epsilon float64) {
	for i := range events {
		events[i].Surprise = Classify(events[i].Actual, events[i].Expected, epsilon)
	}
}

// Filter keeps events at or above the importance threshold. Events below
// the threshold survive if their name contains one of the allow-listed
// keywords, matched case-insensitively.
func Filter(events []models.EconomicEvent, minImportance models.Importance, allowlist []string) []models.EconomicEvent {
	kept := make([]models.EconomicEvent, 0, len(events))
	for _, ev := range events {
		if ev.Importance >= minImportance || matchesAllowlist(ev.Name, allowlist) {
			kept = append(kept, ev)
		}
	}
	return kept
}

func matchesAllowlist(name string, allowlist []string) bool {
	lower := strings.ToLower(name)
	for _, kw := range allowlist {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// SortForDisplay orders events chronologically, then by importance with the
// most important first, then alphabetically by name. The order is total, so
// rendering the same events always produces the same layout.
func SortForDisplay(events []models.EconomicEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date < events[j].Date
		}
		if events[i].Importance != events[j].Importance {
			return events[i].Importance > events[j].Importance
		}
		return events[i].Name < events[j].Name
	})
}

// DayGroup is one calendar day's worth of events, already display-sorted.
type DayGroup struct {
	Date   string
	Events []models.EconomicEvent
}

// GroupByDate splits display-sorted events into per-day groups, preserving
// chronological order.
func GroupByDate(events []models.EconomicEvent) []DayGroup {
	SortForDisplay(events)

	var groups []DayGroup
	for _, ev := range events {
		if n := len(groups); n > 0 && groups[n-1].Date == ev.Date {
			groups[n-1].Events = append(groups[n-1].Events, ev)
			continue
		}
		groups = append(groups, DayGroup{Date: ev.Date, Events: []models.EconomicEvent{ev}})
	}
	return groups
}
