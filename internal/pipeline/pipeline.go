// Package pipeline runs one newsletter generation pass: fetch price series
// and the economic calendar, compute the week summary, generate narrative
// and tips, and render the Markdown issue.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/framework-foundry/weekly/internal/calendar"
	"github.com/framework-foundry/weekly/internal/compute"
	"github.com/framework-foundry/weekly/internal/config"
	"github.com/framework-foundry/weekly/internal/fixtures"
	"github.com/framework-foundry/weekly/internal/logger"
	"github.com/framework-foundry/weekly/internal/marketdata"
	"github.com/framework-foundry/weekly/internal/models"
	"github.com/framework-foundry/weekly/internal/narrative"
	"github.com/framework-foundry/weekly/internal/render"
)

// Fixture file prefixes per edition.
const (
	indicesPrefix     = "indices"
	intlIndicesPrefix = "intl_indices"
	intlFxPrefix      = "intl_fx"
)

// Result is everything one run produced.
type Result struct {
	Summary   *models.WeekSummary
	Narrative string
	Tips      []models.PositioningTip
	Markdown  string

	// Series holds the raw price data the summary was computed from, for
	// optional cross-source verification.
	Series marketdata.SeriesSet
}

// Runner wires the stages of a generation run together.
type Runner struct {
	cfg      *config.Config
	provider *marketdata.Provider
	store    *fixtures.Store
}

// New creates a runner. With live set, price data comes from the API with
// fixture fallback; otherwise fixtures are used directly.
func New(cfg *config.Config, live bool) *Runner {
	store := fixtures.New(cfg.Fixtures.Dir)

	var client *marketdata.Client
	if live {
		client = marketdata.NewClient(
			cfg.MarketData.APIBaseURL,
			cfg.MarketData.APIKey,
			marketdata.WithTimeout(cfg.MarketData.Timeout),
			marketdata.WithRateLimit(cfg.MarketData.RateLimit),
		)
	}

	return &Runner{
		cfg:      cfg,
		provider: marketdata.NewProvider(client, store, cfg.Fixtures.MaxStaleDays),
		store:    store,
	}
}

// Run generates one issue for the named edition and date. The date may fall
// anywhere in the week; it resolves to that week's Friday.
func (r *Runner) Run(ctx context.Context, editionName, date string) (*Result, error) {
	ed, err := r.cfg.Edition(editionName)
	if err != nil {
		return nil, err
	}

	_, weekEnd, err := marketdata.WeekWindow(date)
	if err != nil {
		return nil, err
	}
	weekEnding := weekEnd.Format("2006-01-02")

	edition := models.EditionDomestic
	indexPrefix := indicesPrefix
	calendarPrefix := r.cfg.Calendar.FixturePrefix
	if editionName == "international" || editionName == "intl" {
		edition = models.EditionInternational
		indexPrefix = intlIndicesPrefix
		calendarPrefix = r.cfg.Calendar.IntlFixturePrefix
	}

	logger.Info("Generating %s issue for week ending %s", edition, weekEnding)

	indexSet, stale, err := r.provider.Series(ctx, indexPrefix, toInstruments(ed.Indices), weekEnding)
	if err != nil {
		return nil, fmt.Errorf("failed to load index data: %w", err)
	}

	quotes := buildIndexQuotes(ed.Indices, indexSet)
	series := make(marketdata.SeriesSet, len(indexSet))
	for name, s := range indexSet {
		series[name] = s
	}

	var fxQuotes []models.FxQuote
	if len(ed.FxPairs) > 0 {
		fxSet, fxStale, err := r.provider.Series(ctx, intlFxPrefix, toInstruments(ed.FxPairs), weekEnding)
		if err != nil {
			return nil, fmt.Errorf("failed to load FX data: %w", err)
		}
		stale = stale || fxStale
		fxQuotes = buildFxQuotes(ed.FxPairs, fxSet)
		for name, s := range fxSet {
			series[name] = s
		}
	}

	source := calendar.NewFixtureSource(r.store, calendarPrefix)
	week, snap, err := source.Events(weekEnding)
	if err != nil {
		return nil, err
	}
	if snap.AgeDays > r.cfg.Fixtures.MaxStaleDays {
		logger.Warn("Calendar fixture %s is %d days from %s", snap.Path, snap.AgeDays, weekEnding)
		stale = true
	}

	past := calendar.Filter(week.PastWeek, models.Importance(r.cfg.Classifier.MinImportance), r.cfg.Classifier.KeywordAllowlist)
	upcoming := calendar.Filter(week.UpcomingWeek, models.Importance(r.cfg.Classifier.MinImportance), r.cfg.Classifier.KeywordAllowlist)
	calendar.ClassifyAll(past, r.cfg.Classifier.Epsilon)
	calendar.SortForDisplay(past)
	calendar.SortForDisplay(upcoming)

	compute.SortByWeeklyPct(quotes)
	best, worst := compute.BestWorst(quotes)

	summary := &models.WeekSummary{
		ID:             uuid.New().String(),
		Edition:        edition,
		WeekEnding:     weekEnding,
		GeneratedAt:    time.Now().UTC(),
		Stale:          stale,
		Indices:        quotes,
		FxRates:        fxQuotes,
		PastEvents:     past,
		UpcomingEvents: upcoming,
		Best:           best,
		Worst:          worst,
	}
	if avgs := compute.RegionAverages(quotes); len(avgs) > 0 {
		summary.RegionAvgs = avgs
	}
	if err := summary.Validate(); err != nil {
		return nil, fmt.Errorf("computed summary is invalid: %w", err)
	}

	gen := narrative.New(
		narrative.Tables{
			FxFriendly: r.cfg.Narrative.FxFriendlyNames,
			Tickers:    r.cfg.Narrative.Tickers,
		},
		narrative.Thresholds{
			USDTip: r.cfg.Narrative.USDTipThreshold,
			FxTip:  r.cfg.Narrative.FxTipThreshold,
		},
	)
	brief := gen.WeekInBrief(summary)
	tips := gen.Tips(summary)

	markdown, err := render.Markdown(render.Input{
		Summary:   summary,
		Narrative: brief,
		Tips:      tips,
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Summary:   summary,
		Narrative: brief,
		Tips:      tips,
		Markdown:  markdown,
		Series:    series,
	}, nil
}

func toInstruments(configured []config.Instrument) []marketdata.Instrument {
	out := make([]marketdata.Instrument, len(configured))
	for i, inst := range configured {
		out[i] = marketdata.Instrument{
			Name:     inst.Name,
			Symbol:   inst.Symbol,
			Region:   inst.Region,
			ETFProxy: inst.ETFProxy,
		}
	}
	return out
}

// buildIndexQuotes computes quotes in configured order. Instruments with
// missing or too-short series are skipped so one bad symbol degrades the
// issue instead of killing it.
func buildIndexQuotes(instruments []config.Instrument, set marketdata.SeriesSet) []models.IndexQuote {
	quotes := make([]models.IndexQuote, 0, len(instruments))
	for _, inst := range instruments {
		series, ok := set[inst.Name]
		if !ok {
			logger.Warn("No price series for %s (%s), skipping", inst.Name, inst.Symbol)
			continue
		}
		quote, err := compute.IndexQuoteFrom(inst.Name, inst.Symbol, inst.Region, inst.ETFProxy, series.Data)
		if err != nil {
			logger.Warn("Skipping %s: %v", inst.Name, err)
			continue
		}
		quotes = append(quotes, quote)
	}
	return quotes
}

func buildFxQuotes(instruments []config.Instrument, set marketdata.SeriesSet) []models.FxQuote {
	quotes := make([]models.FxQuote, 0, len(instruments))
	for _, inst := range instruments {
		series, ok := set[inst.Name]
		if !ok {
			logger.Warn("No FX series for %s (%s), skipping", inst.Name, inst.Symbol)
			continue
		}
		quote, err := compute.FxQuoteFrom(inst.Name, inst.Symbol, inst.ETFProxy, series.Data)
		if err != nil {
			logger.Warn("Skipping %s: %v", inst.Name, err)
			continue
		}
		quotes = append(quotes, quote)
	}
	return quotes
}
