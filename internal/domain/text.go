package domain

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CanonicalText returns the canonical spelling stored for questions and
// responses: NFKC composition, straight apostrophes in place of curly
// ones, and the œ ligature in place of the oe digraph. Applying it
// twice yields the same result, so already-canonical text passes
// through unchanged.
func CanonicalText(text string) string {
	t := norm.NFKC.String(text)
	t = strings.ReplaceAll(t, "’", "'")
	t = strings.ReplaceAll(t, "‘", "'")
	return strings.ReplaceAll(t, "oe", "œ")
}
