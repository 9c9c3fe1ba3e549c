package reportexport

import (
	"bytes"
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"backoffice/internal/core/application/usecases/queries"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/services"

	"github.com/go-pdf/fpdf"
)

// PeakHoursInPDF is how many of the busiest hours the document lists.
const PeakHoursInPDF = 8

// Meta carries the presentation-only parts of a document.
type Meta struct {
	// Title defaults to "Report (WEEK)" style text built from the period.
	Title string
}

const (
	pageMargin = 14.0
	lineHeight = 6.0
)

// RenderPDF lays the overview out on A4 pages: title, subtitle with the UTC
// window and the business timezone, a summary block, then the revenue series,
// the busiest hours and the top items by quantity. Pages break automatically.
func RenderPDF(overview queries.ReportOverview, meta Meta) ([]byte, error) {
	title := meta.Title
	if title == "" {
		title = fmt.Sprintf("Report (%s)", strings.ToUpper(overview.Range.Period.String()))
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 9, tr(title), "", "L", false)

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(68, 68, 68)
	pdf.MultiCell(0, lineHeight, tr(subtitle(overview)), "", "L", false)
	pdf.Ln(lineHeight)

	pdf.SetTextColor(0, 0, 0)
	heading(pdf, "Summary")
	t := overview.Totals
	body(pdf, tr, []string{
		"Total revenue (paid bills): " + kernel.FormatCents(t.RevenueCents),
		fmt.Sprintf("Orders served: %d", t.OrdersServed),
		"Average order value: " + kernel.FormatCents(t.AvgOrderValueCents),
		fmt.Sprintf("Average prep time: %s (sample: %d)", formatPrep(t.AvgPrepTimeSeconds), t.AvgPrepSampleSize),
	})

	heading(pdf, "Revenue series")
	lines := make([]string, 0, len(overview.RevenueSeries))
	for _, p := range overview.RevenueSeries {
		lines = append(lines, fmt.Sprintf("%s: %s", p.Key, kernel.FormatCents(p.RevenueCents)))
	}
	body(pdf, tr, lines)

	heading(pdf, "Peak hours")
	lines = lines[:0]
	for _, h := range busiestHours(overview.PeakHours, PeakHoursInPDF) {
		lines = append(lines, fmt.Sprintf("%02d:00 - orders: %d", h.Hour, h.Orders))
	}
	body(pdf, tr, lines)

	heading(pdf, "Top selling items (qty)")
	lines = lines[:0]
	for i, item := range overview.TopItems {
		lines = append(lines, fmt.Sprintf("%d. %s - qty: %d", i+1, item.Name, item.TotalQty))
	}
	body(pdf, tr, lines)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func subtitle(overview queries.ReportOverview) string {
	r := overview.Range
	return fmt.Sprintf("Range: %s -> %s (timezone %s)",
		r.From.UTC().Format(time.RFC3339), r.To.UTC().Format(time.RFC3339), r.Location())
}

func heading(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, text, "", 1, "L", false, 0, "")
}

func body(pdf *fpdf.Fpdf, tr func(string) string, lines []string) {
	pdf.SetFont("Helvetica", "", 10)
	if len(lines) == 0 {
		lines = []string{"-"}
	}
	for _, l := range lines {
		pdf.MultiCell(0, lineHeight, tr(l), "", "L", false)
	}
	pdf.Ln(lineHeight / 2)
}

// busiestHours orders the histogram by orders descending, earlier hour first
// on ties, and keeps n.
func busiestHours(hours []services.HourBucket, n int) []services.HourBucket {
	sorted := slices.Clone(hours)
	slices.SortStableFunc(sorted, func(a, b services.HourBucket) int {
		if c := cmp.Compare(b.Orders, a.Orders); c != 0 {
			return c
		}
		return cmp.Compare(a.Hour, b.Hour)
	})
	return sorted[:min(n, len(sorted))]
}

func formatPrep(s *float64) string {
	if s == nil {
		return "-"
	}
	return fmt.Sprintf("%ds", int64(math.Round(*s)))
}
