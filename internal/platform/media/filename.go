package media

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// asciiFold strips diacritics by decomposing to NFD and dropping
// combining marks.
var asciiFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// ligatures maps characters the decomposition pass cannot expand.
var ligatures = strings.NewReplacer(
	"œ", "oe", "Œ", "OE",
	"æ", "ae", "Æ", "AE",
	"ß", "ss",
)

// CleanFileName turns free text into a safe file name fragment:
// diacritics folded to ASCII, ligatures expanded, whitespace replaced
// with underscores and anything else unsafe dropped.
func CleanFileName(text string) string {
	t := ligatures.Replace(text)
	if folded, _, err := transform.String(asciiFold, t); err == nil {
		t = folded
	}

	var b strings.Builder
	b.Grow(len(t))
	for _, r := range t {
		switch {
		case unicode.IsSpace(r):
			b.WriteRune('_')
		case r < 128 && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-'):
			b.WriteRune(r)
		}
	}
	return b.String()
}
