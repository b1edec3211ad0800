package report

import (
	"fmt"
	"strings"
)

// Color represents an RGB color with components in [0, 1].
type Color struct {
	R, G, B float64
}

// String returns the color as a PDF operator operand triple.
func (c Color) String() string {
	return fmt.Sprintf("%.3f %.3f %.3f", c.R, c.G, c.B)
}

// Gray returns a grayscale color.
func Gray(v float64) Color {
	return Color{v, v, v}
}

// ContentStream is an append-only buffer of page content operators.
// Coordinates are PDF native: origin at the bottom-left corner, y increasing
// upward. Callers working top-down convert before drawing. There is no
// validation; out-of-range coordinates render wrong but never fail, matching
// the permissiveness of the format itself.
type ContentStream struct {
	sb strings.Builder
}

// DrawText emits text-positioning and show-text operators for a single line
// at (x, y) using the named font resource. The text is sanitized and escaped
// before it enters the literal string.
func (cs *ContentStream) DrawText(font string, fontSize, x, y float64, color Color, text string) {
	cs.sb.WriteString("BT\n")
	fmt.Fprintf(&cs.sb, "/%s %.2f Tf\n", font, fontSize)
	fmt.Fprintf(&cs.sb, "%s rg\n", color)
	fmt.Fprintf(&cs.sb, "%.2f %.2f Td\n", x, y)
	fmt.Fprintf(&cs.sb, "(%s) Tj\n", EscapeLiteral(text))
	cs.sb.WriteString("ET\n")
}

// DrawLine emits a stroked line from (x1, y1) to (x2, y2).
func (cs *ContentStream) DrawLine(x1, y1, x2, y2, width float64, color Color) {
	fmt.Fprintf(&cs.sb, "%s RG\n", color)
	fmt.Fprintf(&cs.sb, "%.2f w\n", width)
	fmt.Fprintf(&cs.sb, "%.2f %.2f m %.2f %.2f l S\n", x1, y1, x2, y2)
}

// DrawFillRect emits a filled rectangle with its lower-left corner at (x, y).
func (cs *ContentStream) DrawFillRect(x, y, w, h float64, color Color) {
	fmt.Fprintf(&cs.sb, "%s rg\n", color)
	fmt.Fprintf(&cs.sb, "%.2f %.2f %.2f %.2f re f\n", x, y, w, h)
}

// String returns the accumulated operator stream.
func (cs *ContentStream) String() string {
	return cs.sb.String()
}
