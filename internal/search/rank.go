package search

import (
	"sort"
	"strings"

	"vodhub/internal/domain"
)

// RankResults orders items by relevance to the query, in place. Ranking is
// deterministic and idempotent: equal inputs always yield the same order,
// so re-ranking an already ranked slice is a no-op.
func RankResults(items []domain.SearchResult, query string) {
	q := strings.ToLower(strings.TrimSpace(query))
	scores := make(map[int]float64, len(items))
	for i := range items {
		scores[i] = titleRelevance(strings.ToLower(items[i].Title), q)
	}
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		left, right := order[a], order[b]
		if scores[left] != scores[right] {
			return scores[left] > scores[right]
		}
		if len(items[left].Episodes) != len(items[right].Episodes) {
			return len(items[left].Episodes) > len(items[right].Episodes)
		}
		if items[left].Title != items[right].Title {
			return items[left].Title < items[right].Title
		}
		return items[left].Source < items[right].Source
	})

	ranked := make([]domain.SearchResult, len(items))
	for i, idx := range order {
		ranked[i] = items[idx]
	}
	copy(items, ranked)
}

// titleRelevance scores how well a title matches the query. Exact match
// beats prefix, prefix beats substring, substring beats token coverage.
func titleRelevance(title, query string) float64 {
	if title == "" || query == "" {
		return 0
	}
	if title == query {
		return 4
	}
	if strings.HasPrefix(title, query) {
		return 3
	}
	if strings.Contains(title, query) {
		return 2
	}
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return 0
	}
	matched := 0
	for _, token := range tokens {
		if strings.Contains(title, token) {
			matched++
		}
	}
	return float64(matched) / float64(len(tokens))
}
