// Package chinese converts traditional Chinese script to simplified for
// query normalization. Conversion is best effort and never fails: runes
// without a mapping pass through unchanged.
package chinese

import (
	"strings"

	"golang.org/x/text/transform"
	"golang.org/x/text/width"
)

// ToSimplified folds full-width forms to half-width and maps traditional
// characters to their simplified equivalents. The full-width colon is kept
// so title/subtitle splitting downstream still sees it.
func ToSimplified(s string) string {
	if s == "" {
		return ""
	}
	folded, _, err := transform.String(width.Fold, protectColons(s))
	if err != nil {
		folded = s
	}
	folded = restoreColons(folded)
	if !strings.ContainsFunc(folded, hasMapping) {
		return folded
	}
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if simp, ok := t2s[r]; ok {
			b.WriteRune(simp)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// HasTraditional reports whether s contains at least one character with a
// simplified mapping.
func HasTraditional(s string) bool {
	return strings.ContainsFunc(s, hasMapping)
}

func hasMapping(r rune) bool {
	_, ok := t2s[r]
	return ok
}

// The full-width colon is swapped out before width folding and restored
// afterwards; everything else folds normally.
const colonSentinel = "\x00"

func protectColons(s string) string {
	return strings.ReplaceAll(s, "：", colonSentinel)
}

func restoreColons(s string) string {
	return strings.ReplaceAll(s, colonSentinel, "：")
}
