package grader

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// extraPunct holds punctuation outside the ASCII range that answers
// commonly carry (smart quotes, guillemets, dashes).
const extraPunct = "’'‘«»–—"

// isStrippable reports whether a rune is discarded during normalization
// and skipped when aligning strings for diff rendering.
func isStrippable(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	if r < 128 && strings.ContainsRune("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", r) {
		return true
	}
	return strings.ContainsRune(extraPunct, r)
}

// Normalize reduces an answer string to its comparable form: NFKC
// composition, lowercasing, removal of punctuation and whitespace, and
// folding of the oe digraph into the œ ligature. The function is
// idempotent, so both user input and stored answers can be passed
// through it before comparison.
func Normalize(text string) string {
	t := norm.NFKC.String(text)
	t = strings.ToLower(t)
	t = strings.ReplaceAll(t, "ỹ", "y")

	var b strings.Builder
	b.Grow(len(t))
	for _, r := range t {
		if !isStrippable(r) {
			b.WriteRune(r)
		}
	}
	return strings.ReplaceAll(b.String(), "oe", "œ")
}
