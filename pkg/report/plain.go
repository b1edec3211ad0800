package report

import "fmt"

// Plain report geometry: US Letter portrait with one-inch margins.
const (
	plainPageWidth  = 612.0
	plainPageHeight = 792.0
	plainMargin     = 72.0
	plainTitleSize  = 16.0
	plainFontSize   = 11.0
	plainLineH      = 16.0
	plainTitleGap   = 34.0
)

// BuildPlainReport renders a simple multi-page text report: a title on the
// first page followed by the given lines, one per row, paginated by a fixed
// lines-per-page count derived from the page geometry. Lines are drawn
// as-is; callers wrap beforehand if they need bounded width.
func BuildPlainReport(title string, lines []string) ([]byte, error) {
	usable := plainPageHeight - 2*plainMargin - plainTitleGap
	linesPerPage := int(usable / plainLineH)
	if linesPerPage < 1 {
		linesPerPage = 1
	}

	w := newDocWriter([]fontSpec{{resource: fontRegular, baseFont: "Helvetica"}})

	pageCount := (len(lines) + linesPerPage - 1) / linesPerPage
	if pageCount == 0 {
		pageCount = 1
	}

	for p := 0; p < pageCount; p++ {
		var cs ContentStream
		cs.sb.WriteString("q\n")
		cs.DrawFillRect(0, 0, plainPageWidth, plainPageHeight, Color{1, 1, 1})

		y := plainPageHeight - plainMargin
		if p == 0 {
			cs.DrawText(fontRegular, plainTitleSize, plainMargin, y, colorText, title)
			cs.DrawLine(plainMargin, y-8, plainPageWidth-plainMargin, y-8, 1, colorRule)
		}
		y -= plainTitleGap

		start := p * linesPerPage
		end := start + linesPerPage
		if end > len(lines) {
			end = len(lines)
		}
		for _, line := range lines[start:end] {
			cs.DrawText(fontRegular, plainFontSize, plainMargin, y, colorText, line)
			y -= plainLineH
		}

		footer := fmt.Sprintf("Page %d of %d", p+1, pageCount)
		fx := (plainPageWidth - MeasureText(footer, bodyFontSize)) / 2
		cs.DrawText(fontRegular, bodyFontSize, fx, footerBaseline, colorMuted, footer)

		cs.sb.WriteString("Q\n")
		w.addPage(plainPageWidth, plainPageHeight, cs.String())
	}

	return w.build()
}
