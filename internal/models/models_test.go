package models

import (
	"encoding/json"
	"testing"
)

func TestIndexQuoteValidate(t *testing.T) {
	tests := []struct {
		name    string
		quote   IndexQuote
		wantErr bool
	}{
		{
			name: "valid quote",
			quote: IndexQuote{
				Name:      "S&P 500",
				Symbol:    "^GSPC",
				Close:     5123.41,
				WeeklyPct: 1.25,
				WeekLow:   5050.12,
				WeekHigh:  5140.33,
			},
			wantErr: false,
		},
		{
			name: "empty name",
			quote: IndexQuote{
				Symbol:   "^GSPC",
				Close:    5123.41,
				WeekLow:  5050.12,
				WeekHigh: 5140.33,
			},
			wantErr: true,
		},
		{
			name: "close outside week range",
			quote: IndexQuote{
				Name:     "S&P 500",
				Symbol:   "^GSPC",
				Close:    5300.00,
				WeekLow:  5050.12,
				WeekHigh: 5140.33,
			},
			wantErr: true,
		},
		{
			name: "close just above high within tolerance",
			quote: IndexQuote{
				Name:     "S&P 500",
				Symbol:   "^GSPC",
				Close:    5140.50,
				WeekLow:  5050.12,
				WeekHigh: 5140.33,
			},
			wantErr: false,
		},
		{
			name: "low exceeds high",
			quote: IndexQuote{
				Name:     "S&P 500",
				Symbol:   "^GSPC",
				Close:    5100.00,
				WeekLow:  5140.33,
				WeekHigh: 5050.12,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.quote.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("IndexQuote.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEconomicEventValidate(t *testing.T) {
	tests := []struct {
		name    string
		event   EconomicEvent
		wantErr bool
	}{
		{
			name: "valid event",
			event: EconomicEvent{
				Name:       "CPI (YoY)",
				Date:       "2026-01-06",
				Actual:     "3.1",
				Expected:   "2.8",
				Unit:       "%",
				Importance: ImportanceHigh,
				Surprise:   SurpriseAbove,
			},
			wantErr: false,
		},
		{
			name: "missing date",
			event: EconomicEvent{
				Name:       "CPI (YoY)",
				Importance: ImportanceHigh,
			},
			wantErr: true,
		},
		{
			name: "malformed date",
			event: EconomicEvent{
				Name:       "CPI (YoY)",
				Date:       "06/01/2026",
				Importance: ImportanceHigh,
			},
			wantErr: true,
		},
		{
			name: "bogus surprise",
			event: EconomicEvent{
				Name:       "CPI (YoY)",
				Date:       "2026-01-06",
				Importance: ImportanceHigh,
				Surprise:   "sideways",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("EconomicEvent.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValueFloat(t *testing.T) {
	tests := []struct {
		name   string
		value  Value
		want   float64
		wantOK bool
	}{
		{"plain decimal", "3.1", 3.1, true},
		{"percent suffix", "2.8%", 2.8, true},
		{"thousands separator", "1,429", 1429, true},
		{"K suffix", "229K", 229000, true},
		{"lowercase k suffix", "229k", 229000, true},
		{"M suffix", "1.5M", 1500000, true},
		{"lowercase m suffix", "1.5m", 1500000, true},
		{"B suffix", "2B", 2000000000, true},
		{"lowercase b suffix", "2b", 2000000000, true},
		{"negative", "-0.4", -0.4, true},
		{"missing marker", "--", 0, false},
		{"empty", "", 0, false},
		{"free text", "n/a", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.value.Float()
			if ok != tt.wantOK {
				t.Fatalf("Value(%q).Float() ok = %v, want %v", tt.value, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Value(%q).Float() = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestValueUnmarshalJSON(t *testing.T) {
	var ev EconomicEvent
	raw := `{"event":"Jobless Claims","date":"2026-01-08","actual":229000,"expected":"235K","previous":null,"importance":2}`
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if got, ok := ev.Actual.Float(); !ok || got != 229000 {
		t.Errorf("numeric actual = %v (ok=%v), want 229000", got, ok)
	}
	if got, ok := ev.Expected.Float(); !ok || got != 235000 {
		t.Errorf("string expected = %v (ok=%v), want 235000", got, ok)
	}
	if ev.Previous.IsSet() {
		t.Errorf("null previous should not be set")
	}
}

func TestWeekSummaryValidate(t *testing.T) {
	best := IndexQuote{Name: "Nasdaq", Symbol: "^IXIC", Close: 16100, WeeklyPct: 2.1, WeekLow: 15700, WeekHigh: 16150}
	worst := IndexQuote{Name: "Russell 2000", Symbol: "^RUT", Close: 2010, WeeklyPct: -1.3, WeekLow: 1990, WeekHigh: 2060}

	tests := []struct {
		name    string
		summary WeekSummary
		wantErr bool
	}{
		{
			name: "valid summary",
			summary: WeekSummary{
				ID:         "run-1",
				Edition:    EditionDomestic,
				WeekEnding: "2026-01-09",
				Indices:    []IndexQuote{best, worst},
				Best:       &best,
				Worst:      &worst,
			},
			wantErr: false,
		},
		{
			name: "best trails worst",
			summary: WeekSummary{
				ID:         "run-2",
				Edition:    EditionDomestic,
				WeekEnding: "2026-01-09",
				Indices:    []IndexQuote{best, worst},
				Best:       &worst,
				Worst:      &best,
			},
			wantErr: true,
		},
		{
			name: "unknown edition",
			summary: WeekSummary{
				ID:         "run-3",
				Edition:    "galactic",
				WeekEnding: "2026-01-09",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.summary.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("WeekSummary.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
