package report

// BuildTabularReport renders the rich engagement report: metadata bands,
// grand totals, and the paginated scenario/service table. The result is a
// complete single-revision PDF file ready to hand to the HTTP layer.
//
// The build is a pure function of its inputs; it performs no I/O and keeps
// no state between calls, so concurrent invocations are safe.
func BuildTabularReport(meta ReportMeta, rows []SourceRow, totals ReportTotals) ([]byte, error) {
	cols := defaultColumns()

	tableRows := flattenRows(rows, totals, cols)
	pages := paginateRows(tableRows)

	w := newDocWriter([]fontSpec{
		{resource: fontRegular, baseFont: "Helvetica"},
		{resource: fontBold, baseFont: "Helvetica-Bold"},
	})
	for i, pageRows := range pages {
		content := renderTablePage(meta, totals, cols, pageRows, i+1, len(pages))
		w.addPage(tablePageWidth, tablePageHeight, content)
	}
	return w.build()
}
