package calendar

import (
	"fmt"

	"github.com/framework-foundry/weekly/internal/fixtures"
	"github.com/framework-foundry/weekly/internal/logger"
	"github.com/framework-foundry/weekly/internal/models"
)

// WeekEvents is the calendar snapshot for one newsletter week: the releases
// that already happened and the ones scheduled for the week ahead.
type WeekEvents struct {
	PastWeek     []models.EconomicEvent `json:"past_week"`
	UpcomingWeek []models.EconomicEvent `json:"upcoming_week"`
}

// Source provides the calendar snapshot for a given week ending date.
type Source interface {
	Events(weekEnding string) (WeekEvents, fixtures.Snapshot, error)
}

// FixtureSource reads calendar snapshots from the fixture store.
type FixtureSource struct {
	store  *fixtures.Store
	prefix string
}

// NewFixtureSource creates a calendar source over the fixture store using
// the given file name prefix.
func NewFixtureSource(store *fixtures.Store, prefix string) *FixtureSource {
	return &FixtureSource{store: store, prefix: prefix}
}

// Events loads the calendar fixture closest to weekEnding. Events that fail
// validation are dropped with a warning rather than aborting the issue.
func (s *FixtureSource) Events(weekEnding string) (WeekEvents, fixtures.Snapshot, error) {
	var week WeekEvents
	snap, err := s.store.Load(s.prefix, weekEnding, &week)
	if err != nil {
		return WeekEvents{}, fixtures.Snapshot{}, fmt.Errorf("failed to load %s calendar: %w", s.prefix, err)
	}

	week.PastWeek = dropInvalid(week.PastWeek, snap.Path)
	week.UpcomingWeek = dropInvalid(week.UpcomingWeek, snap.Path)
	return week, snap, nil
}

func dropInvalid(events []models.EconomicEvent, path string) []models.EconomicEvent {
	kept := events[:0]
	for _, ev := range events {
		if err := ev.Validate(); err != nil {
			logger.Warn("Skipping malformed calendar event in %s: %v", path, err)
			continue
		}
		kept = append(kept, ev)
	}
	return kept
}
