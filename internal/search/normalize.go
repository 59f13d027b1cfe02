package search

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"vodhub/internal/chinese"
)

var (
	seasonSuffixPattern = regexp.MustCompile(`(\S)(第[0-9一二三四五六七八九十]+季)`)
	multiSpacePattern   = regexp.MustCompile(`\s+`)
)

// Normalize returns the canonical form of a raw query: trimmed, converted
// to simplified script, season suffix spaced out, whitespace collapsed.
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	simplified := chinese.ToSimplified(trimmed)
	return collapseSpaces(spaceSeasonSuffix(simplified))
}

// ExpandQueryVariants derives the set of query strings actually sent to
// each source. Upstream CMS search is literal substring matching, so a
// title like "凡人修仙传：仙界篇" is only findable if at least one variant
// matches how the site stored it. Order is stable: the first variant is
// the simplified full query, the raw original (when different) comes last.
func ExpandQueryVariants(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	simplified := chinese.ToSimplified(trimmed)

	set := newQuerySet()
	set.add(simplified)

	if main, subtitle, sep, ok := splitTitleSubtitle(simplified); ok {
		set.add(main + " " + subtitle)
		set.add(main + subtitle)
		if utf8.RuneCountInString(subtitle) >= 2 {
			set.add(subtitle)
		}
		set.add(swapColon(simplified, sep))
	}

	addSpacingVariants(set, simplified)

	// A traditional-script original gets searched verbatim too, with its own
	// season/whitespace variants: some sites store titles untranslated.
	if trimmed != simplified {
		set.add(trimmed)
		addSpacingVariants(set, trimmed)
	}
	return set.values()
}

func addSpacingVariants(set *querySet, query string) {
	if spaced := spaceSeasonSuffix(query); spaced != query {
		set.add(spaced)
	}
	if collapsed := collapseSpaces(query); collapsed != query {
		set.add(collapsed)
	}
}

// swapColon rewrites the splitting colon as its counterpart character, so a
// full-width query also matches sites that stored the half-width form and
// vice versa.
func swapColon(query, sep string) string {
	if sep == "：" {
		return strings.Replace(query, "：", ":", 1)
	}
	return strings.Replace(query, ":", "：", 1)
}

// splitTitleSubtitle splits "title：subtitle" at the first colon, full or
// half width. Both halves must be non-empty for the split to count.
func splitTitleSubtitle(query string) (main, subtitle, sep string, ok bool) {
	idx := strings.IndexAny(query, "：:")
	if idx < 0 {
		return "", "", "", false
	}
	sep = ":"
	if strings.HasPrefix(query[idx:], "：") {
		sep = "："
	}
	main = strings.TrimSpace(query[:idx])
	subtitle = strings.TrimSpace(query[idx+len(sep):])
	if main == "" || subtitle == "" {
		return "", "", "", false
	}
	return main, subtitle, sep, true
}

// spaceSeasonSuffix inserts a space before a trailing season marker, so
// "剑来第二季" also searches as "剑来 第二季".
func spaceSeasonSuffix(query string) string {
	return seasonSuffixPattern.ReplaceAllString(query, "$1 $2")
}

func collapseSpaces(query string) string {
	return strings.TrimSpace(multiSpacePattern.ReplaceAllString(query, " "))
}

// querySet is an insertion-ordered string set; duplicates and empties are
// dropped.
type querySet struct {
	seen    map[string]struct{}
	ordered []string
}

func newQuerySet() *querySet {
	return &querySet{seen: make(map[string]struct{}, 6)}
}

func (q *querySet) add(value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	if _, ok := q.seen[value]; ok {
		return
	}
	q.seen[value] = struct{}{}
	q.ordered = append(q.ordered, value)
}

func (q *querySet) values() []string {
	return q.ordered
}
