package report

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVDialect specifies the CSV format variant.
type CSVDialect string

const (
	// DialectStandard uses RFC 4180 compliant CSV (comma-separated, quoted strings).
	DialectStandard CSVDialect = "standard"

	// DialectExcel uses Excel-compatible format with a UTF-8 BOM.
	DialectExcel CSVDialect = "excel"

	// DialectTSV uses tab-separated values instead of comma.
	DialectTSV CSVDialect = "tsv"
)

// CSVConfig specifies options for CSV export.
type CSVConfig struct {
	// Dialect specifies the CSV format variant.
	// Default: DialectStandard
	Dialect CSVDialect

	// IncludeHeader writes the column header as the first row.
	// Default: true
	IncludeHeader bool

	// IncludeTotals appends scenario-total and grand-total rows.
	// Default: true
	IncludeTotals bool

	// NAString is the representation for missing values.
	// Default: "" (empty field)
	NAString string
}

// DefaultCSVConfig returns a CSVConfig with sensible defaults.
func DefaultCSVConfig() *CSVConfig {
	return &CSVConfig{
		Dialect:       DialectStandard,
		IncludeHeader: true,
		IncludeTotals: true,
	}
}

// csvHeader is the flattened column set matching the tabular PDF report.
var csvHeader = []string{"row", "scenario", "size", "section", "service", "days"}

// WriteReportCSV writes the same engagement rows that feed the tabular PDF
// as CSV. Field order mirrors the PDF column order so the two exports line
// up for side-by-side review.
func WriteReportCSV(w io.Writer, rows []SourceRow, totals ReportTotals, config *CSVConfig) error {
	if config == nil {
		config = DefaultCSVConfig()
	}

	if config.Dialect == DialectExcel {
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	cw := csv.NewWriter(w)
	if config.Dialect == DialectTSV {
		cw.Comma = '\t'
	}

	if config.IncludeHeader {
		if err := cw.Write(csvHeader); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
	}

	na := config.NAString
	field := func(s string) string {
		if s == "" {
			return na
		}
		return s
	}

	for _, src := range rows {
		number := fmt.Sprintf("%d", src.Number)

		if len(src.Services) == 0 {
			summary := src.Summary
			if summary == "" {
				summary = "No service details available"
			}
			record := []string{number, field(src.Scenario), field(src.SizeLabel), na, summary, na}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
			continue
		}

		var scenarioDays float64
		for _, svc := range src.Services {
			days := safeNumber(svc.Days)
			scenarioDays += days
			record := []string{
				number, field(src.Scenario), field(src.SizeLabel),
				field(svc.Section), field(svc.Name), FormatDays(days),
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}

		if config.IncludeTotals {
			record := []string{na, field(src.Scenario), field(src.SizeLabel), na, "Scenario total", FormatDays(scenarioDays)}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV totals row: %w", err)
			}
		}
	}

	if config.IncludeTotals {
		record := []string{na, na, na, na, "Grand total", FormatDays(totals.Days)}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV totals row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return nil
}
