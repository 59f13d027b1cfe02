package search

import (
	"fmt"
	"os"
	"strings"

	"vodhub/internal/domain"
)

// FilterConfig carries the term lists used for query rejection and item
// filtering. Matching is case-insensitive substring.
type FilterConfig struct {
	// BannedTerms reject a whole query before any source is contacted and
	// drop individual items whose title contains them.
	BannedTerms []string
	// AdultKeywords mark an item as adult content by its title or category
	// name. Only applied when the request resolves to filtering enabled.
	AdultKeywords []string
}

func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		BannedTerms:   defaultBannedTerms(),
		AdultKeywords: defaultAdultKeywords(),
	}.normalized()
}

// FilterConfigFromFiles builds the filter config, replacing either built-in
// list with the contents of a file when a path is given. Files hold one term
// per line; blank lines and '#' comments are ignored.
func FilterConfigFromFiles(bannedPath, adultPath string) (FilterConfig, error) {
	cfg := FilterConfig{
		BannedTerms:   defaultBannedTerms(),
		AdultKeywords: defaultAdultKeywords(),
	}
	if bannedPath != "" {
		terms, err := readTermsFile(bannedPath)
		if err != nil {
			return FilterConfig{}, fmt.Errorf("banned terms: %w", err)
		}
		cfg.BannedTerms = terms
	}
	if adultPath != "" {
		terms, err := readTermsFile(adultPath)
		if err != nil {
			return FilterConfig{}, fmt.Errorf("adult keywords: %w", err)
		}
		cfg.AdultKeywords = terms
	}
	return cfg.normalized(), nil
}

func readTermsFile(path string) ([]string, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	terms := make([]string, 0, 32)
	for _, line := range strings.Split(string(payload), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		terms = append(terms, line)
	}
	return terms, nil
}

func (c FilterConfig) normalized() FilterConfig {
	return FilterConfig{
		BannedTerms:   lowerTerms(c.BannedTerms),
		AdultKeywords: lowerTerms(c.AdultKeywords),
	}
}

// QueryBanned reports whether the raw query contains a banned term. A
// banned query short-circuits the whole pipeline with an empty result.
func (c FilterConfig) QueryBanned(query string) bool {
	return containsAnyTerm(query, c.BannedTerms)
}

// ItemAllowed decides whether one result survives content filtering. Banned
// terms drop an item on title or type label regardless of the adult policy;
// adult keywords only apply to the type label, and only when filtering.
func (c FilterConfig) ItemAllowed(item domain.SearchResult, filterAdult bool) bool {
	if containsAnyTerm(item.Title, c.BannedTerms) || containsAnyTerm(item.TypeName, c.BannedTerms) {
		return false
	}
	if !filterAdult {
		return true
	}
	return !containsAnyTerm(item.TypeName, c.AdultKeywords)
}

func (c FilterConfig) filterItems(items []domain.SearchResult, filterAdult bool) []domain.SearchResult {
	kept := items[:0:0]
	for _, item := range items {
		if c.ItemAllowed(item, filterAdult) {
			kept = append(kept, item)
		}
	}
	return kept
}

// ResolveAdultFilter computes the effective adult-filter flag for one
// request. The adult parameter wins over filter, which wins over the
// server default; unrecognized values fall through.
func ResolveAdultFilter(defaultFilter bool, adultParam, filterParam string) bool {
	switch strings.ToLower(strings.TrimSpace(adultParam)) {
	case "1", "true":
		return false
	case "0", "false":
		return true
	}
	switch strings.ToLower(strings.TrimSpace(filterParam)) {
	case "off", "disable":
		return false
	case "on", "enable":
		return true
	}
	return defaultFilter
}

func containsAnyTerm(value string, terms []string) bool {
	if value == "" || len(terms) == 0 {
		return false
	}
	lowered := strings.ToLower(value)
	for _, term := range terms {
		if term != "" && strings.Contains(lowered, term) {
			return true
		}
	}
	return false
}

func lowerTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	seen := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
	}
	return out
}
