// Package report generates engagement sizing reports as raw PDF and CSV
// bytes. The PDF engine writes spec-conformant single-revision files
// directly, without an external PDF library: numbered indirect objects, a
// byte-offset cross-reference table, and a trailer.
package report

import "strings"

// ToSafeASCII makes an arbitrary string safe for a PDF literal string body.
// Newlines collapse to a single space, tabs to two spaces, and every
// character outside printable ASCII [0x20, 0x7E] is replaced with '?'.
// The replacement is deliberate: the built-in fonts carry no glyphs we can
// address without an encoding table, and a readable report with '?' beats a
// failed export.
func ToSafeASCII(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ReplaceAll(text, "\r\n", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.ReplaceAll(text, "\t", "  ")

	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		if r >= 0x20 && r <= 0x7E {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('?')
		}
	}
	return sb.String()
}

// EscapeLiteral prepares a string for use inside a PDF literal string.
// It sanitizes to printable ASCII, then backslash-escapes the three
// characters that are syntactically significant between parentheses.
func EscapeLiteral(text string) string {
	s := ToSafeASCII(text)
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "(", "\\(")
	s = strings.ReplaceAll(s, ")", "\\)")
	return s
}
