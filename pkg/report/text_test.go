package report

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// -----------------------------------------------------------------------------
// Sanitization Tests
// -----------------------------------------------------------------------------

func TestToSafeASCII(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain ascii untouched", "Hello, World! 123", "Hello, World! 123"},
		{"crlf collapses to space", "a\r\nb", "a b"},
		{"newline collapses to space", "a\nb", "a b"},
		{"tab becomes two spaces", "a\tb", "a  b"},
		{"one question mark per rune", "Côté", "C?t?"},
		{"emoji", "ok 👍", "ok ?"},
		{"control byte", "a\x01b", "a?b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToSafeASCII(tt.in); got != tt.want {
				t.Errorf("ToSafeASCII(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEscapeLiteral(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"parens", "f(x)", `f\(x\)`},
		{"backslash", `a\b`, `a\\b`},
		{"backslash before parens", `\(`, `\\\(`},
		{"sanitize then escape", "Côté (Ops)", `C?t? \(Ops\)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeLiteral(tt.in); got != tt.want {
				t.Errorf("EscapeLiteral(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// Measurement Tests
// -----------------------------------------------------------------------------

func TestMeasureText(t *testing.T) {
	t.Run("width scales with length and size", func(t *testing.T) {
		if got := MeasureText("abcd", 10); got != 19.2 {
			t.Errorf("MeasureText = %v, want 19.2", got)
		}
	})

	t.Run("measures sanitized form", func(t *testing.T) {
		// "Côté" sanitizes to four bytes, same as "Cote".
		if got, want := MeasureText("Côté", 10), MeasureText("Cote", 10); got != want {
			t.Errorf("MeasureText(Côté) = %v, want %v", got, want)
		}
	})
}

func TestResolveTextX(t *testing.T) {
	const (
		colX  = 100.0
		width = 50.0
		size  = 10.0
		pad   = 4.0
	)
	text := "abcd" // measures 19.2

	t.Run("left", func(t *testing.T) {
		if got := ResolveTextX(colX, width, AlignLeft, text, size, pad); got != colX+pad {
			t.Errorf("got %v, want %v", got, colX+pad)
		}
	})
	t.Run("right", func(t *testing.T) {
		// Build want from MeasureText so the comparison follows the same
		// floating-point steps as the implementation.
		want := colX + width - MeasureText(text, size) - pad
		if got := ResolveTextX(colX, width, AlignRight, text, size, pad); got != want {
			t.Errorf("got %v, want %v", got, want)
		}
	})
	t.Run("center", func(t *testing.T) {
		want := colX + (width-MeasureText(text, size))/2
		if got := ResolveTextX(colX, width, AlignCenter, text, size, pad); got != want {
			t.Errorf("got %v, want %v", got, want)
		}
	})
}

// -----------------------------------------------------------------------------
// Formatting Tests
// -----------------------------------------------------------------------------

func TestFormatDays(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{3, "3"},
		{7.5, "7.5"},
		{7.25, "7.2"},
		{-1.5, "-1.5"},
	}
	for _, tt := range tests {
		if got := FormatDays(tt.in); got != tt.want {
			t.Errorf("FormatDays(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// -----------------------------------------------------------------------------
// Wrapping Tests
// -----------------------------------------------------------------------------

func TestWrapText(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		maxChars    int
		maxLines    int
		placeholder string
		want        []string
	}{
		{
			name: "empty yields placeholder",
			text: "", maxChars: 10, maxLines: 2, placeholder: "-",
			want: []string{"-"},
		},
		{
			name: "short text single line",
			text: "hello", maxChars: 10, maxLines: 2,
			want: []string{"hello"},
		},
		{
			name: "breaks at space",
			text: "hello world", maxChars: 8, maxLines: 2,
			want: []string{"hello", "world"},
		},
		{
			name: "hard cut without spaces",
			text: "abcdefghijkl", maxChars: 5, maxLines: 3,
			want: []string{"abcde", "fghij", "kl"},
		},
		{
			name: "early space forces hard cut",
			text: "ab cdefghijklm", maxChars: 10, maxLines: 2,
			want: []string{"ab cdefghi", "jklm"},
		},
		{
			name: "truncates with ellipsis at line cap",
			text: "one two three four", maxChars: 10, maxLines: 1,
			want: []string{"one two..."},
		},
		{
			name: "ellipsis replaces overflowing tail",
			text: "abcdefghijkl", maxChars: 5, maxLines: 2,
			want: []string{"abcde", "fg..."},
		},
		{
			name: "whitespace runs collapse",
			text: "a   b\t\tc", maxChars: 20, maxLines: 1,
			want: []string{"a b c"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapText(tt.text, tt.maxChars, tt.maxLines, tt.placeholder)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("WrapText mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
