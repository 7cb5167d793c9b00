// Package textnorm normalizes scraped text: whitespace is collapsed and
// diacritics are transliterated to their plain ASCII base letters.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// replacements covers characters that do not decompose into base + mark.
var replacements = strings.NewReplacer(
	"ß", "ss",
	"æ", "ae", "Æ", "AE",
	"œ", "oe", "Œ", "OE",
	"ø", "o", "Ø", "O",
	"ł", "l", "Ł", "L",
	"đ", "d", "Đ", "D",
	"¿", "?", "¡", "!",
	"“", `"`, "”", `"`, "„", `"`,
	"‘", "'", "’", "'",
	"–", "-", "—", "-",
	"…", "...",
)

// Clean collapses whitespace runs into single spaces, trims the ends and
// transliterates the result.
func Clean(s string) string {
	return CollapseSpace(Transliterate(s))
}

// CollapseSpace replaces every run of whitespace with a single space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Transliterate removes diacritics ("Perú" -> "Peru") and maps a few
// typographic characters to ASCII equivalents. Scripts without a Latin
// decomposition, such as CJK or emoji, are returned unchanged.
func Transliterate(s string) string {
	if s == "" {
		return s
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return replacements.Replace(out)
}
