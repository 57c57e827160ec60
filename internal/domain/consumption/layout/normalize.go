package layout

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Superscripts have no canonical decomposition, so NFD leaves them alone.
var glyphReplacer = strings.NewReplacer(
	"³", "3",
	"²", "2",
	"¹", "1",
	"º", "O",
	"ª", "A",
)

// NormalizeHeader folds a header cell into its comparison key: upper case,
// accents removed, whitespace and periods dropped.
//
//	"Média de Qtd.m³ (Potável)" -> "MEDIADEQTDM3(POTAVEL)"
func NormalizeHeader(s string) string {
	s = glyphReplacer.Replace(s)

	// transform.Chain keeps state, so it is built per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}

	s = strings.ToUpper(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '.' {
			return -1
		}
		return r
	}, s)
}
