package search

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"vodhub/internal/domain"
)

const maxSuggestions = 8

var suggestionSplitPattern = regexp.MustCompile(`[\s\-:：·、]+`)

// Suggest derives autocomplete entries from live titles. Only the first
// configured source is queried: suggestions are advisory and not worth a
// full fan-out.
func (s *Service) Suggest(ctx context.Context, request domain.SearchRequest) ([]domain.Suggestion, error) {
	query := strings.TrimSpace(request.Query)
	if query == "" {
		return []domain.Suggestion{}, nil
	}
	if s.filterCfg.QueryBanned(query) {
		return []domain.Suggestion{}, nil
	}

	sources := s.selectSources(request.FilterAdult)
	if len(sources) == 0 {
		return []domain.Suggestion{}, nil
	}
	source := sources[0]

	normalized := Normalize(query)
	items, err := s.fetchPair(ctx, source, normalized)
	if err != nil {
		return []domain.Suggestion{}, nil
	}
	items = s.filterCfg.filterItems(items, request.FilterAdult)

	return buildSuggestions(items, normalized), nil
}

// buildSuggestions splits titles into words, keeps distinct words that
// contain the query, scores them by match strength and returns at most
// eight, best first.
func buildSuggestions(items []domain.SearchResult, query string) []domain.Suggestion {
	loweredQuery := strings.ToLower(query)
	seen := make(map[string]struct{})
	suggestions := make([]domain.Suggestion, 0, maxSuggestions)

	for _, item := range items {
		for _, word := range suggestionSplitPattern.Split(item.Title, -1) {
			word = strings.TrimSpace(word)
			if utf8.RuneCountInString(word) < 2 {
				continue
			}
			lowered := strings.ToLower(word)
			if !strings.Contains(lowered, loweredQuery) {
				continue
			}
			if _, exists := seen[lowered]; exists {
				continue
			}
			seen[lowered] = struct{}{}

			score := suggestionScore(lowered, loweredQuery)
			suggestions = append(suggestions, domain.Suggestion{
				Text:  word,
				Type:  suggestionType(score),
				Score: score,
			})
		}
		if len(suggestions) >= maxSuggestions {
			break
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}
		return suggestions[i].Text < suggestions[j].Text
	})
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

func suggestionScore(word, query string) float64 {
	switch {
	case word == query:
		return 2.0
	case strings.HasPrefix(word, query) || strings.HasSuffix(word, query):
		return 1.8
	default:
		return 1.5
	}
}

func suggestionType(score float64) domain.SuggestionType {
	switch {
	case score >= 2:
		return domain.SuggestionExact
	case score >= 1.5:
		return domain.SuggestionRelated
	default:
		return domain.SuggestionSuggestion
	}
}
