package verify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/framework-foundry/weekly/internal/marketdata"
	"github.com/framework-foundry/weekly/internal/models"
)

func primarySet(goldClose float64) marketdata.SeriesSet {
	return marketdata.SeriesSet{
		"Gold": {
			Symbol: "GC=F",
			Data: []models.PricePoint{
				{Date: "2026-01-08", Open: 2020, High: 2030, Low: 2015, Close: 2025},
				{Date: "2026-01-09", Open: 2025, High: 2040, Low: 2020, Close: goldClose},
			},
		},
	}
}

func csvServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("id"); got != "GOLDAMGBD228NLBM" {
			t.Errorf("series id = %q", got)
		}
		w.Write([]byte(body))
	}))
}

const goldCSV = `DATE,GOLDAMGBD228NLBM
2026-01-07,2030.10
2026-01-08,.
2026-01-09,2036.00
2026-01-12,2099.00
`

func TestVerifyWithinTolerance(t *testing.T) {
	server := csvServer(t, goldCSV)
	defer server.Close()

	v := New(server.URL, map[string]string{"Gold": "GOLDAMGBD228NLBM"}, 2.0)
	if err := v.Verify(context.Background(), primarySet(2034.50), "2026-01-09"); err != nil {
		t.Errorf("close prices should verify: %v", err)
	}
}

func TestVerifyDiscrepancy(t *testing.T) {
	server := csvServer(t, goldCSV)
	defer server.Close()

	v := New(server.URL, map[string]string{"Gold": "GOLDAMGBD228NLBM"}, 2.0)
	err := v.Verify(context.Background(), primarySet(2110.00), "2026-01-09")

	var discrepancy *models.PriceDiscrepancyError
	if !errors.As(err, &discrepancy) {
		t.Fatalf("error = %v, want PriceDiscrepancyError", err)
	}
	if len(discrepancy.Discrepancies) != 1 {
		t.Fatalf("got %d discrepancies, want 1", len(discrepancy.Discrepancies))
	}
	d := discrepancy.Discrepancies[0]
	if d.Name != "Gold" || d.Primary != 2110.00 || d.Secondary != 2036.00 {
		t.Errorf("unexpected discrepancy: %+v", d)
	}
	if !strings.Contains(err.Error(), "Gold") {
		t.Errorf("error should name the asset: %v", err)
	}
}

// The 2026-01-12 observation is after the requested date and must not be
// used as the comparison value.
func TestVerifyIgnoresFutureObservations(t *testing.T) {
	server := csvServer(t, goldCSV)
	defer server.Close()

	v := New(server.URL, map[string]string{"Gold": "GOLDAMGBD228NLBM"}, 2.0)
	err := v.Verify(context.Background(), primarySet(2036.00), "2026-01-09")
	if err != nil {
		t.Errorf("exact match against 2026-01-09 observation should pass: %v", err)
	}
}

func TestVerifyReportsDiscrepanciesInNameOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("id") {
		case "GOLDAMGBD228NLBM":
			w.Write([]byte("DATE,GOLDAMGBD228NLBM\n2026-01-09,2036.00\n"))
		case "PCOPPUSDM":
			w.Write([]byte("DATE,PCOPPUSDM\n2026-01-09,3.90\n"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	set := primarySet(2110.00)
	set["Copper"] = marketdata.Series{
		Symbol: "HG=F",
		Data: []models.PricePoint{
			{Date: "2026-01-09", Open: 4.10, High: 4.25, Low: 4.05, Close: 4.20},
		},
	}

	v := New(server.URL, map[string]string{
		"Gold":   "GOLDAMGBD228NLBM",
		"Copper": "PCOPPUSDM",
	}, 2.0)

	for i := 0; i < 5; i++ {
		err := v.Verify(context.Background(), set, "2026-01-09")

		var discrepancy *models.PriceDiscrepancyError
		if !errors.As(err, &discrepancy) {
			t.Fatalf("error = %v, want PriceDiscrepancyError", err)
		}
		if len(discrepancy.Discrepancies) != 2 {
			t.Fatalf("got %d discrepancies, want 2", len(discrepancy.Discrepancies))
		}
		if discrepancy.Discrepancies[0].Name != "Copper" || discrepancy.Discrepancies[1].Name != "Gold" {
			t.Errorf("discrepancies out of name order: %+v", discrepancy.Discrepancies)
		}
		msg := err.Error()
		if strings.Index(msg, "Copper") > strings.Index(msg, "Gold") {
			t.Errorf("error message order unstable: %v", msg)
		}
	}
}

func TestVerifySkipsMissingAssets(t *testing.T) {
	server := csvServer(t, goldCSV)
	defer server.Close()

	v := New(server.URL, map[string]string{
		"Gold":    "GOLDAMGBD228NLBM",
		"Missing": "NOPE",
	}, 2.0)

	// "Missing" is not in the primary set; the check should not fail on it.
	if err := v.Verify(context.Background(), primarySet(2034.50), "2026-01-09"); err != nil {
		t.Errorf("missing primary asset should be skipped, got %v", err)
	}
}

func TestVerifySkipsSecondaryFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	v := New(server.URL, map[string]string{"Gold": "GOLDAMGBD228NLBM"}, 2.0)
	if err := v.Verify(context.Background(), primarySet(2034.50), "2026-01-09"); err != nil {
		t.Errorf("unavailable secondary should skip, not fail: %v", err)
	}
}
