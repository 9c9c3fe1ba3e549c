// Package reportexport renders a report overview as a downloadable file. It
// only formats: every figure comes precomputed in queries.ReportOverview.
package reportexport

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"backoffice/internal/core/application/usecases/queries"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/timerange"
)

// Section discriminators of the flat CSV.
const (
	SectionTotals        = "totals"
	SectionRevenueSeries = "revenueSeries"
	SectionPeakHours     = "peakHours"
	SectionTopItems      = "topItems"
)

// CSVColumns is the header row: the union of every section's columns.
var CSVColumns = []string{
	"section",
	"key",
	"revenueCents",
	"ordersServed",
	"avgOrderValueCents",
	"avgPrepTimeSeconds",
	"avgPrepSampleSize",
	"hour",
	"orders",
	"itemId",
	"name",
	"totalQty",
	"revenue",
}

const utf8BOM = "\uFEFF"

type csvRow map[string]string

// WriteCSV writes the overview as one table with a section column. The output
// starts with a UTF-8 byte order mark so spreadsheet tools pick the encoding,
// and every field is quoted. Columns a section does not use are empty.
func WriteCSV(w io.Writer, overview queries.ReportOverview) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(utf8BOM); err != nil {
		return err
	}

	if err := writeRecord(bw, CSVColumns); err != nil {
		return err
	}
	for _, row := range csvRows(overview) {
		record := make([]string, len(CSVColumns))
		for i, col := range CSVColumns {
			record[i] = row[col]
		}
		if err := writeRecord(bw, record); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func csvRows(overview queries.ReportOverview) []csvRow {
	t := overview.Totals
	rows := make([]csvRow, 0, 1+len(overview.RevenueSeries)+len(overview.PeakHours)+len(overview.TopItems))

	rows = append(rows, csvRow{
		"section":            SectionTotals,
		"revenueCents":       strconv.FormatInt(t.RevenueCents, 10),
		"ordersServed":       strconv.Itoa(t.OrdersServed),
		"avgOrderValueCents": strconv.FormatInt(t.AvgOrderValueCents, 10),
		"avgPrepTimeSeconds": formatSeconds(t.AvgPrepTimeSeconds),
		"avgPrepSampleSize":  strconv.Itoa(t.AvgPrepSampleSize),
		"revenue":            kernel.FormatCents(t.RevenueCents),
	})

	for _, p := range overview.RevenueSeries {
		rows = append(rows, csvRow{
			"section":      SectionRevenueSeries,
			"key":          p.Key,
			"revenueCents": strconv.FormatInt(p.RevenueCents, 10),
			"revenue":      kernel.FormatCents(p.RevenueCents),
		})
	}

	for _, h := range overview.PeakHours {
		rows = append(rows, csvRow{
			"section": SectionPeakHours,
			"hour":    strconv.Itoa(h.Hour),
			"orders":  strconv.Itoa(h.Orders),
		})
	}

	for _, item := range overview.TopItems {
		rows = append(rows, csvRow{
			"section":      SectionTopItems,
			"itemId":       item.ItemID.String(),
			"name":         item.Name,
			"totalQty":     strconv.Itoa(item.TotalQty),
			"revenueCents": strconv.FormatInt(item.RevenueCents, 10),
			"revenue":      kernel.FormatCents(item.RevenueCents),
		})
	}

	return rows
}

// writeRecord quotes every field, doubling embedded quotes.
func writeRecord(w *bufio.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(`"` + strings.ReplaceAll(f, `"`, `""`) + `"`); err != nil {
			return err
		}
	}
	_, err := w.WriteString("\r\n")
	return err
}

func formatSeconds(s *float64) string {
	if s == nil {
		return ""
	}
	return strconv.FormatFloat(*s, 'f', -1, 64)
}

// Filename names an export, e.g. "report-week-2024-03-06.csv". An empty
// anchor date reads as "today".
func Filename(period timerange.Period, anchorDate, ext string) string {
	if anchorDate == "" {
		anchorDate = "today"
	}
	return fmt.Sprintf("report-%s-%s.%s", period, anchorDate, ext)
}
