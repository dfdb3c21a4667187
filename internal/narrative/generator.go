// Package narrative turns a computed week summary into the newsletter's
// prose: the multi-paragraph "week in brief" and the rule-based positioning
// tips. All market color comes from fixed rules over the summary, never from
// free-form generation, so the same summary always yields the same text.
package narrative

import (
	"fmt"
	"strings"

	"github.com/framework-foundry/weekly/internal/logger"
	"github.com/framework-foundry/weekly/internal/models"
)

// Tables holds the injected lookup tables the rules reference. Keeping the
// tickers out of the rule bodies lets deployments retarget tips without a
// code change.
type Tables struct {
	// FxFriendly maps pair names to prose names ("EUR/USD" -> "the Euro").
	FxFriendly map[string]string
	// Tickers maps a rule key ("europe", "defensives") to the ETF symbols
	// that rule's tip should cite.
	Tickers map[string][]string
}

// Thresholds are the minimum absolute weekly moves that trigger currency
// positioning tips.
type Thresholds struct {
	USDTip float64
	FxTip  float64
}

// Generator produces narrative text and tips for week summaries.
type Generator struct {
	tables     Tables
	thresholds Thresholds
}

// New creates a narrative generator with the given lookup tables and
// trigger thresholds.
func New(tables Tables, thresholds Thresholds) *Generator {
	return &Generator{tables: tables, thresholds: thresholds}
}

// tickers resolves a ticker table key to "EFA, FEZ, EWG" prose. A missing
// key disables the calling rule with a warning instead of failing the run.
func (g *Generator) tickers(key string) (string, bool) {
	symbols, ok := g.tables.Tickers[key]
	if !ok || len(symbols) == 0 {
		logger.Warn("No tickers configured for %q, skipping rule", key)
		return "", false
	}
	return strings.Join(symbols, ", "), true
}

func (g *Generator) friendly(pair string) string {
	if name, ok := g.tables.FxFriendly[pair]; ok {
		return name
	}
	return pair
}

// WeekInBrief builds the opening narrative for the summary's edition.
func (g *Generator) WeekInBrief(s *models.WeekSummary) string {
	if s.Edition == models.EditionInternational {
		return g.intlBrief(s)
	}
	return g.domesticBrief(s)
}

func (g *Generator) domesticBrief(s *models.WeekSummary) string {
	if len(s.Indices) == 0 || s.Best == nil || s.Worst == nil {
		return "Markets were closed this week."
	}

	upCount := 0
	for _, q := range s.Indices {
		if q.WeeklyPct > 0 {
			upCount++
		}
	}
	downCount := len(s.Indices) - upCount

	var tone string
	switch {
	case upCount == len(s.Indices):
		tone = "Markets rallied across the board this week"
	case downCount == len(s.Indices):
		tone = "It was a rough week across the board"
	case upCount > downCount:
		tone = "Most markets posted gains this week"
	default:
		tone = "Markets were mixed this week"
	}

	para1 := fmt.Sprintf("%s, with %s leading at %s and %s lagging at %s.",
		tone, s.Best.Name, FormatSignedPct(s.Best.WeeklyPct),
		s.Worst.Name, FormatSignedPct(s.Worst.WeeklyPct))

	var havens []string
	if gold := s.Index("Gold"); gold != nil {
		direction := "climbing"
		if gold.WeeklyPct <= 0 {
			direction = "slipping"
		}
		havens = append(havens, fmt.Sprintf("Gold %s %s to $%s",
			direction, FormatAbsPct(gold.WeeklyPct), FormatMoney(gold.Close)))
	}
	if treasury := findByName(s.Indices, "Treasury"); treasury != nil {
		direction := "rising"
		if treasury.WeeklyPct <= 0 {
			direction = "falling"
		}
		havens = append(havens, fmt.Sprintf("the 10-year yield %s to %.2f%%", direction, treasury.Close))
	}
	if usd := s.Index("USD Index"); usd != nil {
		direction := "strengthening"
		if usd.WeeklyPct <= 0 {
			direction = "weakening"
		}
		havens = append(havens, fmt.Sprintf("the dollar %s %s to %.2f",
			direction, FormatAbsPct(usd.WeeklyPct), usd.Close))
	}
	if len(havens) > 0 {
		para1 += " On the safe-haven front, " + strings.Join(havens, " while ") + "."
	}

	para2 := g.driversParagraph(s.PastEvents, "The macro picture was busy. ",
		"It was a quiet week on the data front, with no major surprises.", domesticCombos)

	para3 := lookAheadParagraph(s.UpcomingEvents,
		"Looking ahead, the key events to watch are: ",
		". Position sizing and hedges should reflect the potential for volatility around these releases.",
		"Next week's calendar is lighter -- a good time to review positions and rebalance.")

	return para1 + "\n\n" + para2 + "\n\n" + para3
}

func (g *Generator) intlBrief(s *models.WeekSummary) string {
	if len(s.Indices) == 0 || s.Best == nil || s.Worst == nil {
		return "International markets were closed this week."
	}

	upCount := 0
	for _, q := range s.Indices {
		if q.WeeklyPct > 0 {
			upCount++
		}
	}
	downCount := len(s.Indices) - upCount

	var tone string
	switch {
	case upCount == len(s.Indices):
		tone = "Global markets rallied broadly this week"
	case downCount == len(s.Indices):
		tone = "It was a difficult week across international markets"
	case upCount > downCount:
		tone = "International markets posted mostly gains this week"
	default:
		tone = "International markets were mixed this week"
	}

	para1 := fmt.Sprintf("%s, with %s (%s) leading at %s and %s (%s) lagging at %s.",
		tone, s.Best.Name, s.Best.Region, FormatSignedPct(s.Best.WeeklyPct),
		s.Worst.Name, s.Worst.Region, FormatSignedPct(s.Worst.WeeklyPct))

	var regionNotes []string
	if avg, ok := s.RegionAvgs["Europe"]; ok {
		direction := "outperformed"
		if avg <= 0 {
			direction = "underperformed"
		}
		regionNotes = append(regionNotes,
			fmt.Sprintf("European indices %s on average (%s)", direction, FormatSignedPct(avg)))
	}
	if avg, ok := s.RegionAvgs["Asia-Pacific"]; ok {
		direction := "led"
		if avg <= 0 {
			direction = "lagged"
		}
		regionNotes = append(regionNotes,
			fmt.Sprintf("Asia-Pacific %s (%s average)", direction, FormatSignedPct(avg)))
	}
	if em := findByRegion(s.Indices, "Emerging Markets"); em != nil {
		regionNotes = append(regionNotes,
			fmt.Sprintf("Emerging Markets (%s) moved %s", em.Name, FormatSignedPct(em.WeeklyPct)))
	}
	if len(regionNotes) > 0 {
		para1 += " " + strings.Join(regionNotes, "; ") + "."
	}

	var fxNotes []string
	for _, fx := range s.FxRates {
		if abs(fx.WeeklyPct) < g.thresholds.FxTip {
			continue
		}
		direction := "strengthened"
		if fx.WeeklyPct < 0 {
			direction = "weakened"
		}
		fxNotes = append(fxNotes,
			fmt.Sprintf("%s %s %s", g.friendly(fx.Name), direction, FormatAbsPct(fx.WeeklyPct)))
	}
	if len(fxNotes) > 0 {
		para1 += " On the FX front, " + JoinAnd(fxNotes) + ", all against the USD."
	}

	para2 := g.driversParagraph(s.PastEvents, "The macro picture was eventful. ",
		"It was a quiet week on the international data front, with no major surprises.", intlCombos)

	para3 := lookAheadParagraph(s.UpcomingEvents,
		"Looking ahead, key events to watch are: ",
		". Central bank decisions in particular can drive sharp FX and equity moves; position sizing should reflect that risk.",
		"Next week's international calendar is lighter, making it a good time to review regional allocations and currency hedging ratios.")

	return para1 + "\n\n" + para2 + "\n\n" + para3
}

// driversParagraph lists the week's data surprises and appends any combo
// commentary the edition defines.
func (g *Generator) driversParagraph(past []models.EconomicEvent, opener, quiet string, combos func([]models.EconomicEvent) string) string {
	var drivers []string
	var surprises []models.EconomicEvent
	for _, ev := range past {
		switch ev.Surprise {
		case models.SurpriseAbove:
			drivers = append(drivers, fmt.Sprintf("%s came in above expectations (%s vs. %s)",
				ev.Name, ev.DisplayActual(), ev.DisplayExpected()))
			surprises = append(surprises, ev)
		case models.SurpriseBelow:
			drivers = append(drivers, fmt.Sprintf("%s came in below expectations (%s vs. %s)",
				ev.Name, ev.DisplayActual(), ev.DisplayExpected()))
			surprises = append(surprises, ev)
		}
	}

	if len(drivers) == 0 {
		return quiet
	}
	return opener + strings.Join(drivers, ". ") + "." + combos(surprises)
}

func domesticCombos(surprises []models.EconomicEvent) string {
	hotCPI := hasSurprise(surprises, "cpi", models.SurpriseAbove)
	strongRetail := hasSurprise(surprises, "retail", models.SurpriseAbove)

	switch {
	case hotCPI && strongRetail:
		return " The combination of hot inflation and strong consumer spending paints a picture of an economy that's running warm -- good for earnings, but it keeps rate cuts off the table for now."
	case hotCPI:
		return " Sticky inflation remains the story to watch heading into next week."
	case strongRetail:
		return " Consumer strength is encouraging, but watch whether it feeds through to prices."
	default:
		return ""
	}
}

func intlCombos(surprises []models.EconomicEvent) string {
	hotCPI := hasSurprise(surprises, "cpi", models.SurpriseAbove)
	weakGDP := hasSurprise(surprises, "gdp", models.SurpriseBelow)

	switch {
	case hotCPI && weakGDP:
		return " The combination of sticky inflation and weak growth (a stagflationary signal) puts central banks in a difficult position and argues for a cautious stance on duration and rate-sensitive sectors."
	case hotCPI:
		return " Sticky inflation complicates the rate-cut timeline for the relevant central bank. Monitor upcoming policy meetings closely."
	case weakGDP:
		return " Growth weakness raises the probability of earlier rate cuts, which could be supportive for bond proxies and interest-rate-sensitive sectors."
	default:
		return ""
	}
}

func lookAheadParagraph(upcoming []models.EconomicEvent, opener, closer, quiet string) string {
	var names []string
	for _, ev := range upcoming {
		if ev.Importance >= models.ImportanceHigh {
			names = append(names, ev.Name)
		}
	}
	if len(names) == 0 {
		return quiet
	}
	return opener + strings.Join(names, ", ") + closer
}

func hasSurprise(events []models.EconomicEvent, keyword string, surprise models.Surprise) bool {
	for _, ev := range events {
		if strings.Contains(strings.ToLower(ev.Name), keyword) && ev.Surprise == surprise {
			return true
		}
	}
	return false
}

func findByName(quotes []models.IndexQuote, substr string) *models.IndexQuote {
	for i := range quotes {
		if strings.Contains(quotes[i].Name, substr) {
			return &quotes[i]
		}
	}
	return nil
}

func findByRegion(quotes []models.IndexQuote, region string) *models.IndexQuote {
	for i := range quotes {
		if quotes[i].Region == region {
			return &quotes[i]
		}
	}
	return nil
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
