package report

import (
	"fmt"
)

// Page geometry for the tabular report: US Letter landscape, all values in
// points. The table owns the band between tableTop and bottomMargin; the
// title band, info box and totals band live above it, the footer below.
const (
	tablePageWidth  = 792.0
	tablePageHeight = 612.0

	tableMarginX = 36.0

	titleBaseline   = 576.0
	infoBoxTop      = 566.0
	infoBoxHeight   = 46.0
	totalsBaseline  = 504.0
	tableTop        = 488.0
	headerBandH     = 20.0
	tableBottomMargin = 40.0
	footerBaseline  = 20.0

	bodyFontSize  = 8.0
	titleFontSize = 14.0
	infoFontSize  = 8.5
	cellLineH     = 10.0
	cellPadding   = 4.0
	minRowHeight  = 16.0
)

// fontRegular and fontBold are the two font resources every page shares.
const (
	fontRegular = "F1"
	fontBold    = "F2"
)

var (
	colorText      = Color{0, 0, 0}
	colorMuted     = Gray(0.30)
	colorHeaderBg  = Gray(0.85)
	colorZebra     = Gray(0.95)
	colorScenarioBg = Gray(0.88)
	colorGrandBg   = Gray(0.80)
	colorGrid      = Gray(0.60)
	colorRule      = Gray(0.20)
)

// Column describes one table column. Widths are points; the sum across all
// columns must not exceed the table width budget (page width minus margins).
// A column set is immutable for the lifetime of one document.
type Column struct {
	Label    string
	Width    float64
	Align    Alignment
	MaxChars int // wrap window for cell text
	MaxLines int // wrap line cap for cell text
}

// defaultColumns is the standard engagement report column set. The widths
// sum to 720, exactly the usable width of a landscape Letter page with 36pt
// margins.
func defaultColumns() []Column {
	return []Column{
		{Label: "#", Width: 30, Align: AlignRight, MaxChars: 6, MaxLines: 1},
		{Label: "Scenario", Width: 140, Align: AlignLeft, MaxChars: 34, MaxLines: 2},
		{Label: "Size", Width: 54, Align: AlignCenter, MaxChars: 12, MaxLines: 1},
		{Label: "Section", Width: 156, Align: AlignLeft, MaxChars: 38, MaxLines: 2},
		{Label: "Service", Width: 292, Align: AlignLeft, MaxChars: 72, MaxLines: 3},
		{Label: "Days", Width: 48, Align: AlignRight, MaxChars: 10, MaxLines: 1},
	}
}

// tableRow is a fully laid-out row: raw cell text, per-cell wrapped lines,
// and the derived height. Rows are atomic; pagination never splits one.
type tableRow struct {
	kind   RowKind
	cells  []string
	lines  [][]string
	height float64
}

// layoutRow wraps every cell of a row against its column and derives the
// row height from the tallest cell.
func layoutRow(kind RowKind, cells []string, cols []Column) tableRow {
	row := tableRow{
		kind:  kind,
		cells: cells,
		lines: make([][]string, len(cols)),
	}
	maxLines := 1
	for i := range cols {
		text := ""
		if i < len(cells) {
			text = cells[i]
		}
		placeholder := ""
		if kind == RowService && (i == 3 || i == 4) {
			placeholder = "-"
		}
		row.lines[i] = WrapText(text, cols[i].MaxChars, cols[i].MaxLines, placeholder)
		if n := len(row.lines[i]); n > maxLines {
			maxLines = n
		}
	}
	row.height = 8 + float64(maxLines)*cellLineH
	if row.height < minRowHeight {
		row.height = minRowHeight
	}
	return row
}

// flattenRows expands the caller's source rows into table rows: one row per
// service detail, a scenario-total row per scenario that has details, and a
// single grand-total row at the end. Zero input rows synthesize one
// placeholder row so the document always has at least one page.
func flattenRows(rows []SourceRow, totals ReportTotals, cols []Column) []tableRow {
	out := make([]tableRow, 0, len(rows)+2)

	for _, src := range rows {
		number := fmt.Sprintf("%d", src.Number)

		if len(src.Services) == 0 {
			summary := src.Summary
			if summary == "" {
				summary = "No service details available"
			}
			out = append(out, layoutRow(RowService, []string{
				number, src.Scenario, src.SizeLabel, "", summary, "",
			}, cols))
			continue
		}

		var scenarioDays float64
		for i, svc := range src.Services {
			num, scen, size := "", "", ""
			if i == 0 {
				num, scen, size = number, src.Scenario, src.SizeLabel
			}
			days := safeNumber(svc.Days)
			scenarioDays += days
			out = append(out, layoutRow(RowService, []string{
				num, scen, size, svc.Section, svc.Name, FormatDays(days),
			}, cols))
		}

		out = append(out, layoutRow(RowScenarioTotal, []string{
			"", src.Scenario, src.SizeLabel, "", "Scenario total", FormatDays(scenarioDays),
		}, cols))
	}

	if len(out) == 0 {
		out = append(out, layoutRow(RowPlaceholder, []string{
			"", "", "", "", "No rows to report", "",
		}, cols))
	}

	out = append(out, layoutRow(RowGrandTotal, []string{
		"", "", "", "", "Grand total", FormatDays(totals.Days),
	}, cols))

	return out
}

// usableTableHeight is the vertical space available for rows on one page.
func usableTableHeight() float64 {
	return tableTop - headerBandH - tableBottomMargin
}

// paginateRows packs rows into pages greedily, preserving order. A row that
// alone exceeds the usable height still gets a page of its own rather than
// being dropped or split.
func paginateRows(rows []tableRow) [][]tableRow {
	usable := usableTableHeight()
	pages := make([][]tableRow, 0, 1)

	var current []tableRow
	var used float64
	for _, row := range rows {
		if len(current) > 0 && used+row.height > usable {
			pages = append(pages, current)
			current = nil
			used = 0
		}
		current = append(current, row)
		used += row.height
	}
	if len(current) > 0 {
		pages = append(pages, current)
	}
	if len(pages) == 0 {
		pages = append(pages, []tableRow{})
	}
	return pages
}

// renderTablePage paints one page: chrome bands, the shaded column header,
// the zebra-striped rows with total-row highlights, the grid, and the
// footer. Returns the finished content stream.
func renderTablePage(meta ReportMeta, totals ReportTotals, cols []Column, rows []tableRow, pageNum, pageCount int) string {
	var cs ContentStream
	cs.sb.WriteString("q\n")
	cs.DrawFillRect(0, 0, tablePageWidth, tablePageHeight, Color{1, 1, 1})

	drawPageChrome(&cs, meta, totals)

	// Column header band.
	tableWidth := 0.0
	for _, c := range cols {
		tableWidth += c.Width
	}
	cs.DrawFillRect(tableMarginX, tableTop-headerBandH, tableWidth, headerBandH, colorHeaderBg)
	x := tableMarginX
	for _, c := range cols {
		tx := ResolveTextX(x, c.Width, c.Align, c.Label, bodyFontSize, cellPadding)
		cs.DrawText(fontBold, bodyFontSize, tx, tableTop-headerBandH+6, colorText, c.Label)
		x += c.Width
	}

	// Body rows, top down.
	rowTop := tableTop - headerBandH
	for i, row := range rows {
		rowBottom := rowTop - row.height

		switch {
		case row.kind == RowGrandTotal:
			cs.DrawFillRect(tableMarginX, rowBottom, tableWidth, row.height, colorGrandBg)
		case row.kind == RowScenarioTotal:
			cs.DrawFillRect(tableMarginX, rowBottom, tableWidth, row.height, colorScenarioBg)
		case i%2 == 1:
			cs.DrawFillRect(tableMarginX, rowBottom, tableWidth, row.height, colorZebra)
		}

		font := fontRegular
		if row.kind == RowScenarioTotal || row.kind == RowGrandTotal {
			font = fontBold
		}

		x = tableMarginX
		for ci, c := range cols {
			for li, line := range row.lines[ci] {
				tx := ResolveTextX(x, c.Width, c.Align, line, bodyFontSize, cellPadding)
				cs.DrawText(font, bodyFontSize, tx, rowTop-12-float64(li)*cellLineH, colorText, line)
			}
			x += c.Width
		}

		// Horizontal rule under the row.
		cs.DrawLine(tableMarginX, rowBottom, tableMarginX+tableWidth, rowBottom, 0.5, colorGrid)

		rowTop = rowBottom
	}

	// Grid: top rule plus a vertical line per column boundary, spanning the
	// header band and every row on the page.
	gridBottom := rowTop
	cs.DrawLine(tableMarginX, tableTop, tableMarginX+tableWidth, tableTop, 0.5, colorGrid)
	x = tableMarginX
	for _, c := range cols {
		cs.DrawLine(x, gridBottom, x, tableTop, 0.5, colorGrid)
		x += c.Width
	}
	cs.DrawLine(x, gridBottom, x, tableTop, 0.5, colorGrid)

	// Footer.
	footer := fmt.Sprintf("Page %d of %d", pageNum, pageCount)
	fx := (tablePageWidth - MeasureText(footer, bodyFontSize)) / 2
	cs.DrawText(fontRegular, bodyFontSize, fx, footerBaseline, colorMuted, footer)

	cs.sb.WriteString("Q\n")
	return cs.String()
}

// drawPageChrome paints the bands above the table: title, info box, and
// grand-totals line. Repeated on every page so each page stands alone when
// printed.
func drawPageChrome(cs *ContentStream, meta ReportMeta, totals ReportTotals) {
	title := meta.Plan
	if title == "" {
		title = "Engagement Sizing Report"
	}
	cs.DrawText(fontBold, titleFontSize, tableMarginX, titleBaseline, colorText, title)
	cs.DrawLine(tableMarginX, titleBaseline-6, tablePageWidth-tableMarginX, titleBaseline-6, 1, colorRule)

	// Info box: customer, opportunity, year spread.
	boxBottom := infoBoxTop - infoBoxHeight
	cs.DrawLine(tableMarginX, infoBoxTop, tablePageWidth-tableMarginX, infoBoxTop, 0.5, colorGrid)
	cs.DrawLine(tableMarginX, boxBottom, tablePageWidth-tableMarginX, boxBottom, 0.5, colorGrid)

	cs.DrawText(fontBold, infoFontSize, tableMarginX+cellPadding, infoBoxTop-14, colorText, "Customer:")
	cs.DrawText(fontRegular, infoFontSize, tableMarginX+60, infoBoxTop-14, colorMuted, meta.Customer)
	cs.DrawText(fontBold, infoFontSize, tableMarginX+cellPadding, infoBoxTop-26, colorText, "Opportunity:")
	cs.DrawText(fontRegular, infoFontSize, tableMarginX+60, infoBoxTop-26, colorMuted, meta.Opportunity)

	spread := "Spread:"
	for i, p := range meta.YearSpread {
		spread += fmt.Sprintf(" Y%d %s", i+1, formatPercent(p))
	}
	cs.DrawText(fontRegular, infoFontSize, tableMarginX+cellPadding, infoBoxTop-38, colorMuted, spread)

	// Totals band.
	totalsLine := fmt.Sprintf("Total effort: %s days", FormatDays(totals.Days))
	for i, d := range totals.YearDays {
		totalsLine += fmt.Sprintf("   Y%d: %s", i+1, FormatDays(d))
	}
	cs.DrawText(fontBold, infoFontSize, tableMarginX, totalsBaseline, colorText, totalsLine)
}
