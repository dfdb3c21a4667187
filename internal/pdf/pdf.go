// Package pdf exports an issue as a print-ready A4 document.
package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/framework-foundry/weekly/internal/models"
	"github.com/framework-foundry/weekly/internal/narrative"
)

// Input carries everything one PDF issue needs.
type Input struct {
	Summary   *models.WeekSummary
	Narrative string
	Tips      []models.PositioningTip
}

// FileName returns the PDF file name for an edition and date.
func FileName(edition models.Edition, date string) string {
	if edition == models.EditionInternational {
		return fmt.Sprintf("intl_newsletter_%s.pdf", date)
	}
	return fmt.Sprintf("newsletter_%s.pdf", date)
}

// Export writes the issue as a PDF under dir and returns the file path.
func Export(in Input, dir string) (string, error) {
	if in.Summary == nil {
		return "", fmt.Errorf("pdf input needs a summary")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	title := "Framework Foundry Weekly"
	if in.Summary.Edition == models.EditionInternational {
		title = "Framework Foundry Weekly - International Edition"
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(true, 18)
	doc.AddPage()

	// Header band
	doc.SetFillColor(20, 40, 80)
	doc.Rect(0, 0, 210, 32, "F")
	doc.SetTextColor(255, 255, 255)
	doc.SetFont("Helvetica", "B", 18)
	doc.SetXY(10, 8)
	doc.CellFormat(190, 9, title, "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.SetX(10)
	doc.CellFormat(190, 6, "Week ending "+in.Summary.WeekEnding, "", 1, "C", false, 0, "")
	doc.SetY(38)
	doc.SetTextColor(30, 30, 30)

	if in.Summary.Stale {
		doc.SetFont("Helvetica", "I", 9)
		doc.SetTextColor(180, 30, 30)
		doc.MultiCell(190, 5, "Note: market data comes from a snapshot more than two days from the cover date.", "", "L", false)
		doc.SetTextColor(30, 30, 30)
		doc.Ln(2)
	}

	sectionHeading(doc, "The Week in Brief")
	doc.SetFont("Helvetica", "", 10)
	for _, para := range strings.Split(in.Narrative, "\n\n") {
		doc.MultiCell(190, 5, para, "", "L", false)
		doc.Ln(2)
	}

	sectionHeading(doc, "Market Snapshot")
	snapshotTable(doc, in.Summary)

	if len(in.Summary.FxRates) > 0 {
		sectionHeading(doc, "Currency Moves")
		fxTable(doc, in.Summary.FxRates)
	}

	if len(in.Summary.PastEvents) > 0 {
		sectionHeading(doc, "Last Week's Economic Events")
		eventsTable(doc, in.Summary.PastEvents)
	}

	sectionHeading(doc, "Positioning Tips")
	doc.SetFont("Helvetica", "", 10)
	for _, tip := range in.Tips {
		doc.MultiCell(190, 5, "- "+tip.Text, "", "L", false)
		doc.Ln(1)
	}

	doc.Ln(4)
	doc.SetFont("Helvetica", "I", 8)
	doc.SetTextColor(120, 120, 120)
	doc.MultiCell(190, 4, "Disclaimer: This newsletter is for informational purposes only and does not constitute investment advice.", "", "C", false)

	path := filepath.Join(dir, FileName(in.Summary.Edition, in.Summary.WeekEnding))
	if err := doc.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("failed to write PDF: %w", err)
	}
	return path, nil
}

func sectionHeading(doc *fpdf.Fpdf, text string) {
	doc.Ln(3)
	doc.SetFont("Helvetica", "B", 13)
	doc.SetTextColor(20, 40, 80)
	doc.CellFormat(190, 8, text, "", 1, "L", false, 0, "")
	doc.SetTextColor(30, 30, 30)
	doc.Ln(1)
}

func tableHeader(doc *fpdf.Fpdf, widths []float64, labels []string) {
	doc.SetFillColor(20, 40, 80)
	doc.SetTextColor(255, 255, 255)
	doc.SetFont("Helvetica", "B", 9)
	for i, label := range labels {
		doc.CellFormat(widths[i], 7, label, "1", 0, "L", true, 0, "")
	}
	doc.Ln(-1)
	doc.SetTextColor(30, 30, 30)
	doc.SetFont("Helvetica", "", 9)
}

func snapshotTable(doc *fpdf.Fpdf, s *models.WeekSummary) {
	widths := []float64{60, 35, 30, 65}
	tableHeader(doc, widths, []string{"Index", "Close", "Weekly %", "Week Range"})

	for _, q := range s.Indices {
		doc.CellFormat(widths[0], 6, q.Name, "1", 0, "L", false, 0, "")
		doc.CellFormat(widths[1], 6, narrative.FormatMoney(q.Close), "1", 0, "R", false, 0, "")
		doc.CellFormat(widths[2], 6, narrative.FormatSignedPct(q.WeeklyPct), "1", 0, "R", false, 0, "")
		rangeText := narrative.FormatMoney(q.WeekLow) + " - " + narrative.FormatMoney(q.WeekHigh)
		doc.CellFormat(widths[3], 6, rangeText, "1", 1, "R", false, 0, "")
	}

	if s.Best != nil && s.Worst != nil {
		doc.Ln(2)
		doc.SetFont("Helvetica", "B", 9)
		callout := fmt.Sprintf("Best: %s (%s)   Worst: %s (%s)",
			s.Best.Name, narrative.FormatSignedPct(s.Best.WeeklyPct),
			s.Worst.Name, narrative.FormatSignedPct(s.Worst.WeeklyPct))
		doc.CellFormat(190, 5, callout, "", 1, "L", false, 0, "")
	}
}

func fxTable(doc *fpdf.Fpdf, rates []models.FxQuote) {
	widths := []float64{60, 45, 40, 45}
	tableHeader(doc, widths, []string{"Pair", "Rate", "Weekly %", "ETF Proxy"})

	for _, fx := range rates {
		doc.CellFormat(widths[0], 6, fx.Name, "1", 0, "L", false, 0, "")
		doc.CellFormat(widths[1], 6, fmt.Sprintf("%.4f", fx.Rate), "1", 0, "R", false, 0, "")
		doc.CellFormat(widths[2], 6, narrative.FormatSignedPct(fx.WeeklyPct), "1", 0, "R", false, 0, "")
		proxy := fx.ETFProxy
		if proxy == "" {
			proxy = "--"
		}
		doc.CellFormat(widths[3], 6, proxy, "1", 1, "L", false, 0, "")
	}
}

func eventsTable(doc *fpdf.Fpdf, events []models.EconomicEvent) {
	widths := []float64{25, 70, 25, 25, 25, 20}
	tableHeader(doc, widths, []string{"Date", "Event", "Actual", "Expected", "Previous", "Surprise"})

	for _, ev := range events {
		doc.CellFormat(widths[0], 6, ev.Date, "1", 0, "L", false, 0, "")
		doc.CellFormat(widths[1], 6, ev.Name, "1", 0, "L", false, 0, "")
		doc.CellFormat(widths[2], 6, ev.DisplayActual(), "1", 0, "R", false, 0, "")
		doc.CellFormat(widths[3], 6, ev.DisplayExpected(), "1", 0, "R", false, 0, "")
		doc.CellFormat(widths[4], 6, ev.DisplayPrevious(), "1", 0, "R", false, 0, "")
		doc.CellFormat(widths[5], 6, string(ev.Surprise), "1", 1, "L", false, 0, "")
	}
}
