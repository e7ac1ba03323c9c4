package service

import (
	"strings"
	"unicode"
)

var punctReplacer = strings.NewReplacer(
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"‚", "'",
	"“", `"`, // left double quote
	"”", `"`, // right double quote
	"„", `"`,
	"–", "-", // en dash
	"—", "-", // em dash
	"―", "-",
	"…", "...", // ellipsis
	" ", " ", // no-break space
)

// SanitizeText normalizes typographic Unicode punctuation to ASCII and
// strips zero-width and control characters (newlines and tabs survive), so
// feedback text round-trips through storage layers with restrictive
// character sets.
func SanitizeText(s string) string {
	s = punctReplacer.Replace(s)

	return strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\t':
			return r
		case '\u200b', '\u200c', '\u200d', '\u2060', '\ufeff':
			return -1 // zero-width
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
