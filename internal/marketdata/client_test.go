package marketdata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestWeekWindow(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		wantFrom string
		wantTo   string
	}{
		{"friday stays put", "2026-01-09", "2026-01-05", "2026-01-09"},
		{"sunday rolls back to friday", "2026-01-11", "2026-01-05", "2026-01-09"},
		{"wednesday rolls back a week", "2026-01-07", "2025-12-29", "2026-01-02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, err := WeekWindow(tt.date)
			if err != nil {
				t.Fatalf("WeekWindow failed: %v", err)
			}
			if got := from.Format("2006-01-02"); got != tt.wantFrom {
				t.Errorf("from = %s, want %s", got, tt.wantFrom)
			}
			if got := to.Format("2006-01-02"); got != tt.wantTo {
				t.Errorf("to = %s, want %s", got, tt.wantTo)
			}
		})
	}

	if _, _, err := WeekWindow("next friday"); err == nil {
		t.Error("WeekWindow should reject non-ISO dates")
	}
}

func TestFetchDaily(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/eod/EEM" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("api_token"); got != "demo" {
			t.Errorf("api_token = %q, want demo", got)
		}
		w.Write([]byte(`[
			{"date":"2026-01-05","open":60.72,"high":61.10,"low":60.40,"close":60.95,"volume":31000000},
			{"date":"2026-01-09","open":62.01,"high":62.50,"low":61.80,"close":62.34,"volume":28000000}
		]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "demo")
	from, _ := time.Parse("2006-01-02", "2026-01-05")
	to, _ := time.Parse("2006-01-02", "2026-01-09")

	points, err := client.FetchDaily(context.Background(), "EEM", from, to)
	if err != nil {
		t.Fatalf("FetchDaily failed: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}
	if points[0].Open != 60.72 || points[1].Close != 62.34 {
		t.Errorf("unexpected points: %+v", points)
	}
}

func TestFetchDailyRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[{"date":"2026-01-09","open":62.01,"high":62.50,"low":61.80,"close":62.34,"volume":1}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "demo", WithRetries(2, time.Millisecond))
	from, _ := time.Parse("2006-01-02", "2026-01-05")
	to, _ := time.Parse("2006-01-02", "2026-01-09")

	points, err := client.FetchDaily(context.Background(), "EEM", from, to)
	if err != nil {
		t.Fatalf("FetchDaily failed after retry: %v", err)
	}
	if len(points) != 1 {
		t.Errorf("got %d points, want 1", len(points))
	}
	if calls.Load() != 2 {
		t.Errorf("server saw %d calls, want 2", calls.Load())
	}
}

func TestFetchDailyDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("bad token"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "demo", WithRetries(3, time.Millisecond))
	from, _ := time.Parse("2006-01-02", "2026-01-05")
	to, _ := time.Parse("2006-01-02", "2026-01-09")

	_, err := client.FetchDaily(context.Background(), "EEM", from, to)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("error = %v, want 401 APIError", err)
	}
	if calls.Load() != 1 {
		t.Errorf("server saw %d calls, want 1 (no retry on 4xx)", calls.Load())
	}
}
