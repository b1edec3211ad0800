package report

import (
	"math"
	"strconv"
)

// YearSlots is the number of year-by-year spread slots carried by a report.
const YearSlots = 5

// ReportMeta is the document-level metadata shown in the title band and
// info box of every page. Values arrive from the surrounding application
// and are treated as opaque strings.
type ReportMeta struct {
	Plan        string
	Customer    string
	Opportunity string

	// YearSpread holds per-year allocation percentages. Slots may be zero.
	YearSpread [YearSlots]float64
}

// ReportTotals carries the grand totals rendered in the totals band and
// the grand-total table row.
type ReportTotals struct {
	Days     float64
	YearDays [YearSlots]float64
}

// ServiceDetail is one service line inside a scenario row.
type ServiceDetail struct {
	Name    string
	Section string
	Days    float64
}

// SourceRow is the row DTO handed in by the caller: either an expanded
// scenario with per-service details, or a fallback one-line summary when no
// details are available.
type SourceRow struct {
	Number    int
	Scenario  string
	SizeLabel string
	Services  []ServiceDetail
	Summary   string
}

// RowKind discriminates the table row variants, which render with distinct
// shading.
type RowKind int

const (
	RowService RowKind = iota
	RowScenarioTotal
	RowGrandTotal
	RowPlaceholder
)

// safeNumber coerces NaN and infinities to zero. Sparse upstream data must
// never abort report generation.
func safeNumber(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// FormatDays renders a day count with at most one decimal place, dropping
// the decimal when whole. Exported so other surfaces (CSV, API summaries)
// format effort the same way the PDF does.
func FormatDays(v float64) string {
	v = safeNumber(v)
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// formatPercent renders a spread percentage as an integer with a % suffix.
func formatPercent(v float64) string {
	return strconv.FormatFloat(math.Round(safeNumber(v)), 'f', 0, 64) + "%"
}
