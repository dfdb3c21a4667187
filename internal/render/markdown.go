// Package render turns a week summary plus generated prose into the final
// newsletter Markdown. Rendering is a pure function of its input, so the
// same summary always produces byte-identical output.
package render

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/framework-foundry/weekly/internal/calendar"
	"github.com/framework-foundry/weekly/internal/models"
	"github.com/framework-foundry/weekly/internal/narrative"
)

// Input is everything the Markdown template needs for one issue.
type Input struct {
	Summary   *models.WeekSummary
	Narrative string
	Tips      []models.PositioningTip
}

const newsletterTemplate = `# {{ title .Summary.Edition }}

*Research for the serious investor*

**Week ending {{ .Summary.WeekEnding }}**
{{- if .Summary.Stale }}

> Note: market data for this issue comes from a snapshot more than two days
> from the cover date. Figures may not reflect the latest session.
{{- end }}

## The Week in Brief

{{ .Narrative }}

## Market Snapshot

{{ if intl .Summary.Edition -}}
| Index | Region | Close | Weekly % | Week Range |
|---|---|---:|---:|---:|
{{ range .Summary.Indices -}}
| {{ .Name }} | {{ .Region }} | {{ money .Close }} | {{ pct .WeeklyPct }} | {{ money .WeekLow }} - {{ money .WeekHigh }} |
{{ end -}}
{{ else -}}
| Index | Close | Weekly % | Week Range |
|---|---:|---:|---:|
{{ range .Summary.Indices -}}
| {{ .Name }} | {{ money .Close }} | {{ pct .WeeklyPct }} | {{ money .WeekLow }} - {{ money .WeekHigh }} |
{{ end -}}
{{ end -}}
{{ if .Summary.Best }}
**Best:** {{ .Summary.Best.Name }} ({{ pct .Summary.Best.WeeklyPct }}) | **Worst:** {{ .Summary.Worst.Name }} ({{ pct .Summary.Worst.WeeklyPct }})
{{- end }}
{{- if .Summary.FxRates }}

## Currency Moves

| Pair | Rate | Weekly % | ETF Proxy |
|---|---:|---:|---|
{{ range .Summary.FxRates -}}
| {{ .Name }} | {{ rate .Rate }} | {{ pct .WeeklyPct }} | {{ orDash .ETFProxy }} |
{{ end -}}
{{- end }}

## Last Week's Economic Events

{{ if .Summary.PastEvents -}}
| Date | Event | Actual | Expected | Previous | Surprise |
|---|---|---:|---:|---:|---|
{{ range .PastDays }}{{ range .Events -}}
| {{ .Date }} | {{ .Name }} | {{ .DisplayActual }} | {{ .DisplayExpected }} | {{ .DisplayPrevious }} | {{ .Surprise }} |
{{ end -}}
{{ end -}}
{{ range .PastDays }}{{ range .Events }}
{{- if .Impact }}
> **{{ .Name }}:** {{ .Impact }}
{{ end -}}
{{ end -}}
{{ end -}}
{{ else -}}
No tracked releases this week.
{{ end }}
## Upcoming Week

{{ if .Summary.UpcomingEvents -}}
| Date | Event | Importance |
|---|---|---|
{{ range .UpcomingDays }}{{ range .Events -}}
| {{ .Date }} | {{ .Name }} | {{ importance .Importance }} |
{{ end -}}
{{ end -}}
{{ else -}}
No major releases scheduled.
{{ end }}
## Positioning Tips

{{ range .Tips -}}
- {{ .Text }}
{{ end }}
---

*Disclaimer: This newsletter is for informational purposes only and does not
constitute investment advice. Past performance is not indicative of future
results. Always do your own research before making investment decisions.*
`

var tmpl = template.Must(template.New("newsletter").Funcs(template.FuncMap{
	"title": func(ed models.Edition) string {
		if ed == models.EditionInternational {
			return "Framework Foundry Weekly - International Edition"
		}
		return "Framework Foundry Weekly"
	},
	"intl": func(ed models.Edition) bool {
		return ed == models.EditionInternational
	},
	"money": narrative.FormatMoney,
	"pct":   narrative.FormatSignedPct,
	"rate": func(v float64) string {
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.6f", v), "0"), ".")
	},
	"importance": func(i models.Importance) string {
		label := i.String()
		return strings.ToUpper(label[:1]) + label[1:]
	},
	"orDash": func(s string) string {
		if s == "" {
			return "--"
		}
		return s
	},
}).Parse(newsletterTemplate))

// Markdown renders the newsletter for the input's edition. Event sections
// come out grouped by date, chronological, regardless of input order.
func Markdown(in Input) (string, error) {
	if in.Summary == nil {
		return "", fmt.Errorf("render input needs a summary")
	}

	view := struct {
		Input
		PastDays     []calendar.DayGroup
		UpcomingDays []calendar.DayGroup
	}{
		Input:        in,
		PastDays:     calendar.GroupByDate(in.Summary.PastEvents),
		UpcomingDays: calendar.GroupByDate(in.Summary.UpcomingEvents),
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, view); err != nil {
		return "", fmt.Errorf("failed to render newsletter: %w", err)
	}
	return b.String(), nil
}

// FileName returns the output file name for an edition and date,
// "newsletter_2026-01-09.md" or "intl_newsletter_2026-01-09.md".
func FileName(edition models.Edition, date string) string {
	if edition == models.EditionInternational {
		return fmt.Sprintf("intl_newsletter_%s.md", date)
	}
	return fmt.Sprintf("newsletter_%s.md", date)
}
