package report

import "strings"

// hardBreakRatio is how far into the window a space must appear for a soft
// break. Below this threshold the word is cut mid-token instead, which
// handles single tokens longer than the column (URLs, SKU codes).
const hardBreakRatio = 0.55

// WrapText wraps text into at most maxLines lines of at most maxChars
// characters each, using a greedy word wrap. Whitespace runs collapse to
// single spaces first. Empty input yields a single line holding placeholder.
// When the text needs more than maxLines lines, the last kept line is
// shortened and suffixed with "..." so it still fits maxChars.
func WrapText(text string, maxChars, maxLines int, placeholder string) []string {
	if maxChars < 1 {
		maxChars = 1
	}
	if maxLines < 1 {
		maxLines = 1
	}

	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return []string{placeholder}
	}

	lines := make([]string, 0, maxLines)
	remaining := text
	for remaining != "" {
		if len(remaining) <= maxChars {
			lines = append(lines, remaining)
			break
		}

		window := remaining[:maxChars+1]
		cut := strings.LastIndexByte(window, ' ')
		if cut < int(float64(maxChars)*hardBreakRatio) {
			// No usable space in the window; cut mid-token.
			lines = append(lines, remaining[:maxChars])
			remaining = strings.TrimLeft(remaining[maxChars:], " ")
			continue
		}
		lines = append(lines, remaining[:cut])
		remaining = strings.TrimLeft(remaining[cut:], " ")
	}

	if len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[maxLines-1] = truncateWithEllipsis(lines[maxLines-1], maxChars)
	}
	return lines
}

// truncateWithEllipsis shortens line so that line + "..." fits maxChars.
func truncateWithEllipsis(line string, maxChars int) string {
	if maxChars <= 3 {
		return "..."[:maxChars]
	}
	keep := maxChars - 3
	if len(line) > keep {
		line = strings.TrimRight(line[:keep], " ")
	}
	return line + "..."
}
