package marketdata

import (
	"context"

	"github.com/framework-foundry/weekly/internal/fixtures"
	"github.com/framework-foundry/weekly/internal/logger"
)

// Provider resolves weekly price series, preferring the live API and
// falling back to the fixture store when the API fails or live mode is off.
type Provider struct {
	client       *Client // nil disables live fetching
	store        *fixtures.Store
	maxStaleDays int
}

// NewProvider creates a price series provider. Pass a nil client to run
// purely from fixtures.
func NewProvider(client *Client, store *fixtures.Store, maxStaleDays int) *Provider {
	return &Provider{client: client, store: store, maxStaleDays: maxStaleDays}
}

// Series returns the weekly series set for the instruments, plus whether the
// data is stale. Live data is never stale and gets snapshotted into the
// fixture store for later offline runs. Fixture data is stale when the
// nearest snapshot is older than the configured limit.
func (p *Provider) Series(ctx context.Context, prefix string, instruments []Instrument, weekEnding string) (SeriesSet, bool, error) {
	if p.client != nil {
		set, err := p.client.FetchSeriesSet(ctx, instruments, weekEnding)
		if err == nil {
			if saveErr := p.store.Save(prefix, weekEnding, set); saveErr != nil {
				logger.Warn("Failed to snapshot %s series: %v", prefix, saveErr)
			}
			return set, false, nil
		}
		logger.Warn("Live fetch for %s failed, falling back to fixtures: %v", prefix, err)
	}

	var set SeriesSet
	snap, err := p.store.Load(prefix, weekEnding, &set)
	if err != nil {
		return nil, false, err
	}

	stale := snap.AgeDays > p.maxStaleDays
	if stale {
		logger.Warn("Fixture %s is %d days from %s, marking issue stale", snap.Path, snap.AgeDays, weekEnding)
	}
	return set, stale, nil
}
