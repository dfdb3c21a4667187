package notify

import (
	"strings"
	"testing"

	"github.com/framework-foundry/weekly/internal/models"
)

func TestEscapeMarkdownV2(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Week ending 2026-01-09", "Week ending 2026\\-01\\-09"},
		{"+2.67%", "\\+2\\.67%"},
		{"output/newsletter.md", "output/newsletter\\.md"},
		{"plain text", "plain text"},
	}

	for _, tt := range tests {
		if got := escapeMarkdownV2(tt.input); got != tt.expected {
			t.Errorf("escapeMarkdownV2(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatNotice(t *testing.T) {
	indices := []models.IndexQuote{
		{Name: "Nasdaq", WeeklyPct: 2.1},
		{Name: "Russell 2000", WeeklyPct: -1.3},
	}
	summary := &models.WeekSummary{
		ID:         "test",
		Edition:    models.EditionDomestic,
		WeekEnding: "2026-01-09",
		Indices:    indices,
		Best:       &indices[0],
		Worst:      &indices[1],
		Stale:      true,
	}

	message := formatNotice(summary, 4, "output/newsletter_2026-01-09.md")

	for _, want := range []string{
		"*Framework Foundry Weekly published*",
		"Edition: Domestic",
		"Week ending: 2026\\-01\\-09",
		"Best: Nasdaq \\+2\\.10%",
		"Worst: Russell 2000 \\-1\\.30%",
		"Positioning tips: 4",
		"stale fixture snapshot",
	} {
		if !strings.Contains(message, want) {
			t.Errorf("notice missing %q:\n%s", want, message)
		}
	}
}
