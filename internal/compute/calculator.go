// Package compute turns raw daily price series into weekly quote summaries:
// percentage change over the trading week, week range, region averages, and
// best/worst performer selection. Everything here is a pure function.
package compute

import (
	"math"
	"sort"

	"github.com/framework-foundry/weekly/internal/models"
)

// PctChange returns (latest-prior)/prior as a percentage rounded to two
// decimal places.
func PctChange(prior, latest float64) float64 {
	return round2((latest - prior) / prior * 100)
}

// WeeklyChange computes the percentage change over an ordered trading week.
// The baseline is the first point's open (the week open, which equals the
// prior trading day's close); the endpoint is the last close. Fewer than two
// points, or a non-positive baseline, yields an InsufficientDataError.
func WeeklyChange(symbol string, points []models.PricePoint) (float64, error) {
	if len(points) < 2 {
		return 0, &models.InsufficientDataError{Symbol: symbol, Points: len(points)}
	}

	baseline := points[0].Open
	if baseline <= 0 {
		baseline = points[0].Close
	}
	if baseline <= 0 {
		return 0, &models.InsufficientDataError{Symbol: symbol, Points: len(points)}
	}

	return PctChange(baseline, points[len(points)-1].Close), nil
}

// WeekRange returns the lowest low and highest high across the week.
func WeekRange(points []models.PricePoint) (low, high float64) {
	for i, p := range points {
		l, h := p.Low, p.High
		if l <= 0 {
			l = p.Close
		}
		if h <= 0 {
			h = p.Close
		}
		if i == 0 || l < low {
			low = l
		}
		if h > high {
			high = h
		}
	}
	return low, high
}

// IndexQuoteFrom builds an IndexQuote for one index from its weekly series.
func IndexQuoteFrom(name, symbol, region, etfProxy string, points []models.PricePoint) (models.IndexQuote, error) {
	pct, err := WeeklyChange(symbol, points)
	if err != nil {
		return models.IndexQuote{}, err
	}
	low, high := WeekRange(points)
	return models.IndexQuote{
		Name:      name,
		Symbol:    symbol,
		Region:    region,
		ETFProxy:  etfProxy,
		Close:     points[len(points)-1].Close,
		WeeklyPct: pct,
		WeekLow:   low,
		WeekHigh:  high,
	}, nil
}

// FxQuoteFrom builds an FxQuote for one currency pair from its weekly series.
func FxQuoteFrom(name, symbol, etfProxy string, points []models.PricePoint) (models.FxQuote, error) {
	pct, err := WeeklyChange(symbol, points)
	if err != nil {
		return models.FxQuote{}, err
	}
	return models.FxQuote{
		Name:      name,
		Symbol:    symbol,
		ETFProxy:  etfProxy,
		Rate:      roundTo(points[len(points)-1].Close, 6),
		WeeklyPct: pct,
	}, nil
}

// RegionAverages returns the arithmetic mean weekly change per region.
// Quotes without a region are ignored.
func RegionAverages(quotes []models.IndexQuote) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, q := range quotes {
		if q.Region == "" {
			continue
		}
		sums[q.Region] += q.WeeklyPct
		counts[q.Region]++
	}

	avgs := make(map[string]float64, len(sums))
	for region, sum := range sums {
		avgs[region] = round2(sum / float64(counts[region]))
	}
	return avgs
}

// BestWorst returns the best and worst performer by weekly change. Ties go
// to the first quote encountered. Both are nil for an empty snapshot.
func BestWorst(quotes []models.IndexQuote) (best, worst *models.IndexQuote) {
	for i := range quotes {
		if best == nil || quotes[i].WeeklyPct > best.WeeklyPct {
			best = &quotes[i]
		}
		if worst == nil || quotes[i].WeeklyPct < worst.WeeklyPct {
			worst = &quotes[i]
		}
	}
	return best, worst
}

// SortByWeeklyPct orders quotes best to worst, preserving input order
// between equal performers.
func SortByWeeklyPct(quotes []models.IndexQuote) {
	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].WeeklyPct > quotes[j].WeeklyPct
	})
}

func round2(x float64) float64 { return roundTo(x, 2) }

func roundTo(x float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(x*shift) / shift
}
