package report

// Alignment selects horizontal cell text placement.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// charWidthFactor approximates the average advance width of the built-in
// Helvetica faces as a fraction of the font size. Real glyph metrics would
// require embedding an AFM table; at the 8-9pt sizes used here the drift is
// not visible. Tunable, but keep column text from overflowing at those sizes.
const charWidthFactor = 0.48

// MeasureText estimates the rendered width in points of text at fontSize.
// All width-dependent layout goes through this single function so real
// glyph metrics can replace the heuristic without touching layout code.
func MeasureText(text string, fontSize float64) float64 {
	return float64(len(ToSafeASCII(text))) * fontSize * charWidthFactor
}

// ResolveTextX returns the x coordinate at which to start drawing text so it
// lands left-, center-, or right-aligned within a column of width colWidth
// starting at colX, with padding points of inset on the aligned edge.
func ResolveTextX(colX, colWidth float64, align Alignment, text string, fontSize, padding float64) float64 {
	switch align {
	case AlignRight:
		return colX + colWidth - MeasureText(text, fontSize) - padding
	case AlignCenter:
		return colX + (colWidth-MeasureText(text, fontSize))/2
	default:
		return colX + padding
	}
}
