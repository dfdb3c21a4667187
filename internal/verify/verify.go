// Package verify cross-checks the primary price feed against an independent
// CSV source before an issue ships. A disagreement beyond tolerance aborts
// the run rather than publishing a number two feeds cannot agree on.
package verify

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/framework-foundry/weekly/internal/logger"
	"github.com/framework-foundry/weekly/internal/marketdata"
	"github.com/framework-foundry/weekly/internal/models"
)

// Verifier compares primary closes against a FRED-style CSV endpoint.
type Verifier struct {
	httpClient   *http.Client
	baseURL      string
	seriesMap    map[string]string // asset name -> secondary series ID
	tolerancePct float64
}

// New creates a verifier. seriesMap names the assets to check and the
// secondary series each maps to; assets outside the map are not verified.
func New(baseURL string, seriesMap map[string]string, tolerancePct float64) *Verifier {
	return &Verifier{
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		baseURL:      baseURL,
		seriesMap:    seriesMap,
		tolerancePct: tolerancePct,
	}
}

// WithHTTPClient replaces the HTTP client, mainly for tests.
func (v *Verifier) WithHTTPClient(hc *http.Client) *Verifier {
	v.httpClient = hc
	return v
}

// Verify compares the latest close of each mapped asset in the series set
// against the secondary source. Assets missing from either side are skipped
// with a warning; any comparison beyond tolerance fails the whole check
// with a PriceDiscrepancyError. Assets are checked in name order so the
// abort message is stable.
func (v *Verifier) Verify(ctx context.Context, set marketdata.SeriesSet, date string) error {
	names := make([]string, 0, len(v.seriesMap))
	for name := range v.seriesMap {
		names = append(names, name)
	}
	sort.Strings(names)

	var discrepancies []models.Discrepancy

	for _, name := range names {
		seriesID := v.seriesMap[name]
		series, ok := set[name]
		if !ok || len(series.Data) == 0 {
			logger.Warn("Verification skipped for %s: not in primary data", name)
			continue
		}
		primary := series.Data[len(series.Data)-1].Close

		secondary, err := v.fetchSecondary(ctx, seriesID, date)
		if err != nil {
			logger.Warn("Verification skipped for %s: %v", name, err)
			continue
		}

		diffPct := math.Abs(primary-secondary) / secondary * 100
		if diffPct > v.tolerancePct {
			discrepancies = append(discrepancies, models.Discrepancy{
				Name:      name,
				Primary:   primary,
				Secondary: secondary,
				DiffPct:   diffPct,
			})
			logger.Error("Price mismatch for %s: primary=%.2f secondary=%.2f diff=%.1f%%",
				name, primary, secondary, diffPct)
			continue
		}
		logger.Info("Price verified for %s: primary=%.2f secondary=%.2f diff=%.1f%%",
			name, primary, secondary, diffPct)
	}

	if len(discrepancies) > 0 {
		return &models.PriceDiscrepancyError{
			TolerancePct:  v.tolerancePct,
			Discrepancies: discrepancies,
		}
	}
	return nil
}

// fetchSecondary downloads the series CSV and returns the latest value on
// or before the target date. CSV rows are "date,value"; a "." value marks a
// day without an observation.
func (v *Verifier) fetchSecondary(ctx context.Context, seriesID, date string) (float64, error) {
	target, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", date, err)
	}

	reqURL := v.baseURL + "?id=" + url.QueryEscape(seriesID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("secondary fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("secondary source returned status %d", resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1

	var bestDate time.Time
	var bestValue float64
	found := false

	// First row is the header.
	if _, err := reader.Read(); err != nil {
		return 0, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read CSV: %w", err)
		}
		if len(row) < 2 || strings.TrimSpace(row[1]) == "." {
			continue
		}

		d, err := time.Parse("2006-01-02", strings.TrimSpace(row[0]))
		if err != nil {
			continue
		}
		val, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			continue
		}

		if !d.After(target) && (!found || d.After(bestDate)) {
			bestDate = d
			bestValue = val
			found = true
		}
	}

	if !found {
		return 0, fmt.Errorf("no observation for %s on or before %s", seriesID, date)
	}
	if age := int(target.Sub(bestDate).Hours() / 24); age > 7 {
		logger.Warn("Secondary series %s latest observation is %d days before %s", seriesID, age, date)
	}
	return bestValue, nil
}
