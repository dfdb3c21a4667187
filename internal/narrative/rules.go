package narrative

import (
	"fmt"
	"strings"

	"github.com/framework-foundry/weekly/internal/models"
)

// Rule is one positioning heuristic. Rules run in declaration order and each
// may contribute any number of tips; a rule whose trigger is absent, or whose
// ticker table key is unconfigured, contributes nothing.
type Rule struct {
	Name  string
	Apply func(g *Generator, s *models.WeekSummary) []models.PositioningTip
}

// Tips runs the edition's rule list over the summary. When no rule fires, a
// single hold-steady tip is returned so the section is never empty.
func (g *Generator) Tips(s *models.WeekSummary) []models.PositioningTip {
	rules := domesticRules
	fallback := "No strong macro signals this week -- maintain current allocations."
	if s.Edition == models.EditionInternational {
		rules = internationalRules
		fallback = "No strong macro signals from international markets this week: maintain current regional allocations."
	}

	var tips []models.PositioningTip
	for _, rule := range rules {
		tips = append(tips, rule.Apply(g, s)...)
	}
	if len(tips) == 0 {
		tips = append(tips, models.PositioningTip{Subject: "general", Text: fallback})
	}
	return tips
}

var domesticRules = []Rule{
	{Name: "usd-move", Apply: usdMoveTips},
	{Name: "cpi-hot", Apply: pastEventRule("cpi", models.SurpriseAbove, cpiHotTip)},
	{Name: "retail-beat", Apply: pastEventRule("retail sales", models.SurpriseAbove, retailBeatTip)},
	{Name: "jobless-tight", Apply: pastEventRule("jobless claims", models.SurpriseBelow, joblessTightTip)},
	{Name: "services-pmi-miss", Apply: pastEventRule("services pmi", models.SurpriseBelow, servicesPMIMissTip)},
	{Name: "housing-miss", Apply: pastEventRule("housing starts", models.SurpriseBelow, housingMissTip)},
	{Name: "fomc-ahead", Apply: upcomingEventRule("fomc", fomcAheadTip)},
	{Name: "factory-pmi-ahead", Apply: upcomingEventRule("manufacturing pmi", factoryPMIAheadTip)},
	{Name: "pce-ahead", Apply: upcomingEventRule("pce", pceAheadTip)},
	{Name: "gdp-ahead", Apply: upcomingEventRule("gdp", gdpAheadTip)},
}

var internationalRules = []Rule{
	{Name: "euro-move", Apply: fxMoveTips("EUR/USD", euroWeakTip, euroStrongTip)},
	{Name: "yen-move", Apply: fxMoveTips("JPY/USD", yenWeakTip, yenStrongTip)},
	{Name: "aussie-move", Apply: fxMoveTips("AUD/USD", aussieWeakTip, nil)},
	{Name: "uk-cpi-hot", Apply: pastEventRule("uk cpi", models.SurpriseAbove, ukCPIHotTip)},
	{Name: "japan-gdp-miss", Apply: japanGDPMissTips},
	{Name: "china-pmi", Apply: chinaPMITips},
	{Name: "ecb-minutes", Apply: pastEventRule("ecb minutes", "", ecbMinutesTip)},
	{Name: "ecb-decision-ahead", Apply: upcomingEventRule("ecb rate", ecbDecisionAheadTip)},
	{Name: "boj-ahead", Apply: upcomingEventRule("boj", bojAheadTip)},
	{Name: "eurozone-cpi-ahead", Apply: upcomingEventRule("eurozone cpi", eurozoneCPIAheadTip)},
	{Name: "boe-ahead", Apply: upcomingEventRule("boe", boeAheadTip)},
}

// tipFunc renders one event into a tip. Returning ok=false skips the event,
// typically because a ticker table key is missing.
type tipFunc func(g *Generator, ev models.EconomicEvent) (models.PositioningTip, bool)

// pastEventRule fires fn for each past event whose name contains keyword and
// whose surprise matches. An empty surprise matches any outcome.
func pastEventRule(keyword string, surprise models.Surprise, fn tipFunc) func(*Generator, *models.WeekSummary) []models.PositioningTip {
	return func(g *Generator, s *models.WeekSummary) []models.PositioningTip {
		var tips []models.PositioningTip
		for _, ev := range s.PastEvents {
			if !strings.Contains(strings.ToLower(ev.Name), keyword) {
				continue
			}
			if surprise != "" && ev.Surprise != surprise {
				continue
			}
			if tip, ok := fn(g, ev); ok {
				tips = append(tips, tip)
			}
		}
		return tips
	}
}

func upcomingEventRule(keyword string, fn tipFunc) func(*Generator, *models.WeekSummary) []models.PositioningTip {
	return func(g *Generator, s *models.WeekSummary) []models.PositioningTip {
		var tips []models.PositioningTip
		for _, ev := range s.UpcomingEvents {
			if !strings.Contains(strings.ToLower(ev.Name), keyword) {
				continue
			}
			if tip, ok := fn(g, ev); ok {
				tips = append(tips, tip)
			}
		}
		return tips
	}
}

// fxMoveTips fires when the pair moved at least the FX threshold, choosing
// the weakening or strengthening variant. A nil variant means no tip for
// that direction.
func fxMoveTips(pair string, onWeak, onStrong func(g *Generator, fx *models.FxQuote) (models.PositioningTip, bool)) func(*Generator, *models.WeekSummary) []models.PositioningTip {
	return func(g *Generator, s *models.WeekSummary) []models.PositioningTip {
		fx := s.Fx(pair)
		if fx == nil || abs(fx.WeeklyPct) < g.thresholds.FxTip {
			return nil
		}

		variant := onStrong
		if fx.WeeklyPct < 0 {
			variant = onWeak
		}
		if variant == nil {
			return nil
		}
		if tip, ok := variant(g, fx); ok {
			return []models.PositioningTip{tip}
		}
		return nil
	}
}

func usdMoveTips(g *Generator, s *models.WeekSummary) []models.PositioningTip {
	usd := s.Index("USD Index")
	if usd == nil || abs(usd.WeeklyPct) < g.thresholds.USDTip {
		return nil
	}

	if usd.WeeklyPct > 0 {
		commodities, ok := g.tickers("commodities")
		if !ok {
			return nil
		}
		return []models.PositioningTip{{
			Subject: "USD Index",
			Text: fmt.Sprintf("USD Index strengthened %s this week -- a stronger dollar weighs on multinational earnings and commodities. "+
				"Consider reducing exposure to export-heavy sectors and commodity ETFs (%s).",
				FormatSignedPct(usd.WeeklyPct), commodities),
		}}
	}

	emerging, ok1 := g.tickers("emerging")
	commodities, ok2 := g.tickers("commodities")
	if !ok1 || !ok2 {
		return nil
	}
	return []models.PositioningTip{{
		Subject: "USD Index",
		Text: fmt.Sprintf("USD Index weakened %s this week -- a softer dollar is a tailwind for emerging markets (%s) and commodities (%s). "+
			"Consider tilting toward international and commodity exposure.",
			FormatSignedPct(usd.WeeklyPct), emerging, commodities),
	}}
}

func cpiHotTip(g *Generator, ev models.EconomicEvent) (models.PositioningTip, bool) {
	// Core CPI is handled by the narrative, not a tip.
	if strings.Contains(strings.ToLower(ev.Name), "core") {
		return models.PositioningTip{}, false
	}
	inflation, ok1 := g.tickers("inflation")
	defensives, ok2 := g.tickers("defensives")
	if !ok1 || !ok2 {
		return models.PositioningTip{}, false
	}
	return models.PositioningTip{
		Subject: ev.Name,
		Text: fmt.Sprintf("CPI came in hot at %s vs. %s expected -- inflation-sensitive sectors may see pressure. "+
			"Consider TIPS (%s) or defensive tilts (%s).",
			ev.DisplayActual(), ev.DisplayExpected(), inflation, defensives),
	}, true
}

func retailBeatTip(g *Generator, ev models.EconomicEvent) (models.PositioningTip, bool) {
	consumer, ok := g.tickers("consumer")
	if !ok {
		return models.PositioningTip{}, false
	}
	return models.PositioningTip{
		Subject: ev.Name,
		Text: fmt.Sprintf("Retail sales surprised to the upside (%s vs. %s) -- consumer discretionary (%s) and cyclicals may benefit.",
			ev.DisplayActual(), ev.DisplayExpected(), consumer),
	}, true
}

func joblessTightTip(_ *Generator, ev models.EconomicEvent) (models.PositioningTip, bool) {
	return models.PositioningTip{
		Subject: ev.Name,
		Text: fmt.Sprintf("Jobless claims came in lower than expected (%s vs. %s) -- labor market remains tight, supporting risk-on positioning.",
			ev.DisplayActual(), ev.DisplayExpected()),
	}, true
}

func servicesPMIMissTip(g *Generator, ev models.EconomicEvent) (models.PositioningTip, bool) {
	consumer, ok1 := g.tickers("consumer")
	defensives, ok2 := g.tickers("defensives")
	if !ok1 || !ok2 {
		return models.PositioningTip{}, false
	}
	return models.PositioningTip{
		Subject: ev.Name,
		Text: fmt.Sprintf("Services PMI missed at %s vs. %s expected -- services sector contraction is a caution signal. "+
			"Consider trimming consumer discretionary (%s) and adding defensives (%s).",
			ev.DisplayActual(), ev.DisplayExpected(), consumer, defensives),
	}, true
}

func housingMissTip(g *Generator, ev models.EconomicEvent) (models.PositioningTip, bool) {
	homebuilders, ok := g.tickers("homebuilders")
	if !ok {
		return models.PositioningTip{}, false
	}
	return models.PositioningTip{
		Subject: ev.Name,
		Text: fmt.Sprintf("Housing Starts missed at %s vs. %s -- affordability pressure weighs on homebuilders (%s). "+
			"Watch mortgage rate trajectory before adding real estate exposure.",
			ev.DisplayActual(), ev.DisplayExpected(), homebuilders),
	}, true
}

func fomcAheadTip(_ *Generator, ev models.EconomicEvent) (models.PositioningTip, bool) {
	return models.PositioningTip{
		Subject: ev.Name,
		Text: fmt.Sprintf("FOMC Meeting Minutes drop %s -- expect volatility. Consider trimming position sizes or hedging with VIX calls.", ev.Date),
	}, true
}

func factoryPMIAheadTip(g *Generator, ev models.EconomicEvent) (models.PositioningTip, bool) {
	industrials, ok := g.tickers("industrials")
	if !ok {
		return models.PositioningTip{}, false
	}
	return models.PositioningTip{
		Subject: ev.Name,
		Text: fmt.Sprintf("Flash Manufacturing PMI on %s -- a key read on factory activity. Watch industrials (%s) for directional cues.",
			ev.Date, industrials),
	}, true
}

func pceAheadTip(g *Generator, ev models.EconomicEvent) (models.PositioningTip, bool) {
	bonds, ok1 := g.tickers("bonds")
	hedges, ok2 := g.tickers("inflation_hedges")
	if !ok1 || !ok2 {
		return models.PositioningTip{}, false
	}
	return models.PositioningTip{
		Subject: ev.Name,
		Text: fmt.Sprintf("PCE Price Index on %s -- the Fed's preferred inflation gauge. A hot print could reprice rate-cut expectations; "+
			"consider hedging bond duration (%s) and adding inflation protection (%s).",
			ev.Date, bonds, hedges),
	}, true
}

func gdpAheadTip(g *Generator, ev models.EconomicEvent) (models.PositioningTip, bool) {
	defensives, ok1 := g.tickers("defensives")
	cyclicals, ok2 := g.tickers("cyclicals")
	if !ok1 || !ok2 {
		return models.PositioningTip{}, false
	}
	return models.PositioningTip{
		Subject: ev.Name,
		Text: fmt.Sprintf("GDP release on %s -- a weak print could shift sentiment toward defensives (%s); "+
			"a strong beat supports risk-on positioning in cyclicals (%s).",
			ev.Date, defensives, cyclicals),
	}, true
}

func euroWeakTip(g *Generator, fx *models.FxQuote) (models.PositioningTip, bool) {
	europe, ok1 := g.tickers("europe")
	hedged, ok2 := g.tickers("europe_hedged")
	if !ok1 || !ok2 {
		return models.PositioningTip{}, false
	}
	return models.PositioningTip{
		Subject: fx.Name,
		Text: fmt.Sprintf("The Euro weakened %s against the USD: a headwind for unhedged European equity exposure (%s). "+
			"Consider currency-hedged alternatives (%s) or reduce European allocation until the Euro stabilises.",
			FormatAbsPct(fx.WeeklyPct), europe, hedged),
	}, true
}

func euroStrongTip(g *Generator, fx *models.FxQuote) (models.PositioningTip, bool) {
	europe, ok := g.tickers("europe")
	if !ok {
		return models.PositioningTip{}, false
	}
	return models.PositioningTip{
		Subject: fx.Name,
		Text: fmt.Sprintf("The Euro strengthened %s against the USD: a tailwind for unhedged European equity ETFs (%s). "+
			"Currency momentum favours holding unhedged exposure for now.",
			FormatAbsPct(fx.WeeklyPct), europe),
	}, true
}

func yenWeakTip(g *Generator, fx *models.FxQuote) (models.PositioningTip, bool) {
	japan, ok := g.tickers("japan")
	if !ok {
		return models.PositioningTip{}, false
	}
	return models.PositioningTip{
		Subject: fx.Name,
		Text: fmt.Sprintf("The Japanese Yen weakened %s against the USD: this reduces USD returns on unhedged Japan exposure (%s). "+
			"Watch BOJ policy signals; any rate hike could trigger a sharp Yen reversal.",
			FormatAbsPct(fx.WeeklyPct), japan),
	}, true
}

func yenStrongTip(g *Generator, fx *models.FxQuote) (models.PositioningTip, bool) {
	japan, ok := g.tickers("japan")
	if !ok {
		return models.PositioningTip{}, false
	}
	return models.PositioningTip{
		Subject: fx.Name,
		Text: fmt.Sprintf("The Japanese Yen strengthened %s against the USD: this boosts USD returns on unhedged Japan ETFs (%s). "+
			"Yen strengthening often signals risk-off sentiment; monitor carry-trade unwind risk for EM assets.",
			FormatAbsPct(fx.WeeklyPct), japan),
	}, true
}

func aussieWeakTip(g *Generator, fx *models.FxQuote) (models.PositioningTip, bool) {
	australia, ok := g.tickers("australia")
	if !ok {
		return models.PositioningTip{}, false
	}
	return models.PositioningTip{
		Subject: fx.Name,
		Text: fmt.Sprintf("The Australian Dollar weakened %s against the USD: a headwind for unhedged Australian equity exposure (%s). "+
			"AUD weakness often tracks commodity prices and China growth sentiment.",
			FormatAbsPct(fx.WeeklyPct), australia),
	}, true
}

func ukCPIHotTip(g *Generator, ev models.EconomicEvent) (models.PositioningTip, bool) {
	ukCurrency, ok1 := g.tickers("uk_currency")
	uk, ok2 := g.tickers("uk")
	if !ok1 || !ok2 {
		return models.PositioningTip{}, false
	}
	return models.PositioningTip{
		Subject: ev.Name,
		Text: fmt.Sprintf("UK CPI came in above expectations (%s vs. %s): a higher-for-longer BOE rate path is now more likely. "+
			"GBP may stay supported (positive for %s), but rate pressure is a headwind for UK rate-sensitive sectors. "+
			"Watch %s for near-term volatility around the next BOE meeting.",
			ev.DisplayActual(), ev.DisplayExpected(), ukCurrency, uk),
	}, true
}

func japanGDPMissTips(g *Generator, s *models.WeekSummary) []models.PositioningTip {
	var tips []models.PositioningTip
	for _, ev := range s.PastEvents {
		name := strings.ToLower(ev.Name)
		if !strings.Contains(name, "japan") || !strings.Contains(name, "gdp") || ev.Surprise != models.SurpriseBelow {
			continue
		}
		japan, ok := g.tickers("japan")
		if !ok {
			continue
		}
		tips = append(tips, models.PositioningTip{
			Subject: ev.Name,
			Text: fmt.Sprintf("Japan GDP contracted below expectations (%s vs. %s): growth weakness reduces the BOJ's appetite for further rate hikes. "+
				"Consider reducing %s near-term; a dovish BOJ would weaken the Yen and compress USD returns on Japan equities.",
				ev.DisplayActual(), ev.DisplayExpected(), japan),
		})
	}
	return tips
}

func chinaPMITips(g *Generator, s *models.WeekSummary) []models.PositioningTip {
	var tips []models.PositioningTip
	for _, ev := range s.PastEvents {
		name := strings.ToLower(ev.Name)
		if !strings.Contains(name, "pmi") || (!strings.Contains(name, "china") && !strings.Contains(name, "caixin")) {
			continue
		}

		switch ev.Surprise {
		case models.SurpriseAbove:
			china, ok := g.tickers("china")
			if !ok {
				continue
			}
			tips = append(tips, models.PositioningTip{
				Subject: ev.Name,
				Text: fmt.Sprintf("China Caixin PMI beat at %s vs. %s expected: domestic demand momentum supports EM risk-on positioning. "+
					"Consider adding exposure via %s on dips.",
					ev.DisplayActual(), ev.DisplayExpected(), china),
			})
		case models.SurpriseBelow:
			china, ok1 := g.tickers("china")
			exporters, ok2 := g.tickers("commodity_exporters")
			if !ok1 || !ok2 {
				continue
			}
			tips = append(tips, models.PositioningTip{
				Subject: ev.Name,
				Text: fmt.Sprintf("China PMI missed at %s vs. %s expected: growth concerns warrant caution on China-heavy EM exposure (%s). "+
					"Commodity exporters (%s) may also face headwinds.",
					ev.DisplayActual(), ev.DisplayExpected(), china, exporters),
			})
		}
	}
	return tips
}

func ecbMinutesTip(g *Generator, ev models.EconomicEvent) (models.PositioningTip, bool) {
	europe, ok := g.tickers("europe")
	if !ok {
		return models.PositioningTip{}, false
	}
	return models.PositioningTip{
		Subject: ev.Name,
		Text: fmt.Sprintf("ECB Meeting Minutes were released: review the tone for signals on the rate path. "+
			"A hawkish-leaning ECB supports EUR and could weigh on European bond proxies; "+
			"a dovish lean favours %s through rate-cut expectations.", europe),
	}, true
}

func ecbDecisionAheadTip(g *Generator, ev models.EconomicEvent) (models.PositioningTip, bool) {
	europe, ok := g.tickers("europe")
	if !ok {
		return models.PositioningTip{}, false
	}
	return models.PositioningTip{
		Subject: ev.Name,
		Text: fmt.Sprintf("ECB Rate Decision on %s: a key event for EUR and European equities. "+
			"Reduce position size in %s ahead of the announcement; "+
			"a surprise cut or hawkish hold could drive outsized FX and equity moves.", ev.Date, europe),
	}, true
}

func bojAheadTip(g *Generator, ev models.EconomicEvent) (models.PositioningTip, bool) {
	japan, ok := g.tickers("japan")
	if !ok {
		return models.PositioningTip{}, false
	}
	return models.PositioningTip{
		Subject: ev.Name,
		Text: fmt.Sprintf("BOJ Meeting Minutes on %s: watch for any YCC or rate-hike signals. "+
			"A hawkish surprise would likely strengthen the Yen sharply and create volatility in unhedged Japan exposure (%s). "+
			"Carry-trade unwinding could ripple into EM assets.", ev.Date, japan),
	}, true
}

func eurozoneCPIAheadTip(g *Generator, ev models.EconomicEvent) (models.PositioningTip, bool) {
	europe, ok := g.tickers("europe")
	if !ok {
		return models.PositioningTip{}, false
	}
	return models.PositioningTip{
		Subject: ev.Name,
		Text: fmt.Sprintf("Eurozone CPI Flash on %s: a hot print would extend the ECB hold and pressure European bond proxies, "+
			"while a soft print opens the door for H2 rate cuts, supportive of %s and EUR-denominated duration.", ev.Date, europe),
	}, true
}

func boeAheadTip(g *Generator, ev models.EconomicEvent) (models.PositioningTip, bool) {
	ukCurrency, ok1 := g.tickers("uk_currency")
	uk, ok2 := g.tickers("uk")
	if !ok1 || !ok2 {
		return models.PositioningTip{}, false
	}
	return models.PositioningTip{
		Subject: ev.Name,
		Text: fmt.Sprintf("BOE Rate Decision on %s: a hawkish hold or hike would support GBP (%s) "+
			"but weigh on UK rate-sensitive sectors. Watch %s for directional cues.", ev.Date, ukCurrency, uk),
	}, true
}
