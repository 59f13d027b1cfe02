package search

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"vodhub/internal/domain"
)

type preparedSearch struct {
	query       string
	normalized  string
	variants    []string
	filterAdult bool
	sources     []Source
	sourceKeys  []string
}

func (p preparedSearch) pairCount() int {
	return len(p.sources) * len(p.variants)
}

// Search runs the buffered aggregation: every (source, variant) pair is
// queried concurrently, results are merged in listing order, deduped,
// filtered and ranked. A banned query returns an empty response without
// contacting any source.
func (s *Service) Search(ctx context.Context, request domain.SearchRequest) (domain.SearchResponse, error) {
	query := strings.TrimSpace(request.Query)
	if query == "" {
		return domain.SearchResponse{}, domain.ErrInvalidQuery
	}
	if s.filterCfg.QueryBanned(query) {
		return domain.SearchResponse{Results: []domain.SearchResult{}}, nil
	}

	prepared, err := s.prepareSearch(query, request.FilterAdult)
	if err != nil {
		return domain.SearchResponse{}, err
	}

	if s.cacheDisabled || request.NoCache {
		return s.executePreparedSearch(ctx, prepared), nil
	}

	startedAt := time.Now()
	cacheKey := buildSearchCacheKey(prepared.normalized, prepared.filterAdult, prepared.sourceKeys)
	if cached, ok, needsRefresh := s.cacheLookup(cacheKey, startedAt); ok {
		s.markPopular(cacheKey, prepared, startedAt)
		if needsRefresh {
			s.refreshCacheAsync(cacheKey, prepared)
		}
		return cached, nil
	}

	response := s.executePreparedSearch(ctx, prepared)
	if len(response.Results) > 0 {
		s.cacheStore(cacheKey, response, time.Now())
		s.markPopular(cacheKey, prepared, time.Now())
	}
	return response, nil
}

func (s *Service) prepareSearch(query string, filterAdult bool) (preparedSearch, error) {
	sources := s.selectSources(filterAdult)
	if len(sources) == 0 {
		return preparedSearch{}, domain.ErrNoSources
	}
	keys := make([]string, len(sources))
	for i, source := range sources {
		keys[i] = source.Key()
	}
	return preparedSearch{
		query:       query,
		normalized:  Normalize(query),
		variants:    ExpandQueryVariants(query),
		filterAdult: filterAdult,
		sources:     sources,
		sourceKeys:  keys,
	}, nil
}

// executePreparedSearch fans out one goroutine per (source, variant) pair.
// There is deliberately no concurrency cap: completion time is bounded by
// the slowest pair, which in turn is bounded by the per-pair timeout. A
// failed pair contributes an empty list and nothing else.
func (s *Service) executePreparedSearch(ctx context.Context, prepared preparedSearch) domain.SearchResponse {
	startedAt := time.Now()

	// One slot per pair, indexed (source * variants + variant), so the
	// merged order never depends on which goroutine finished first.
	slots := make([][]domain.SearchResult, prepared.pairCount())
	var wg sync.WaitGroup

	for si, source := range prepared.sources {
		for vi, variant := range prepared.variants {
			wg.Add(1)
			go func(slot int, src Source, q string) {
				defer wg.Done()
				items, err := s.fetchPair(ctx, src, q)
				if err != nil {
					return
				}
				slots[slot] = items
			}(si*len(prepared.variants)+vi, source, variant)
		}
	}
	wg.Wait()

	merged := s.mergeSlots(prepared, slots)
	slog.Debug("search completed",
		slog.String("query", prepared.query),
		slog.Int("sources", len(prepared.sources)),
		slog.Int("variants", len(prepared.variants)),
		slog.Int("results", len(merged)),
		slog.Int64("elapsedMs", time.Since(startedAt).Milliseconds()),
	)

	return domain.SearchResponse{
		Results:         merged,
		NormalizedQuery: prepared.normalized,
	}
}

// fetchPair performs one source query with its own deadline. Errors are
// recorded for diagnostics and otherwise swallowed by the caller.
func (s *Service) fetchPair(ctx context.Context, source Source, query string) ([]domain.SearchResult, error) {
	pairCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	key := source.Key()
	startedAt := time.Now()
	items, err := source.Search(pairCtx, query)
	s.recordSourceResult(key, query, err, time.Since(startedAt), time.Now())
	if err != nil {
		slog.Warn("source query failed",
			slog.String("source", key),
			slog.String("query", query),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	site := source.Site()
	for i := range items {
		if items[i].Source == "" {
			items[i].Source = site.Key
		}
		if items[i].SourceName == "" {
			items[i].SourceName = site.Name
		}
	}
	return items, nil
}

// mergeSlots flattens pair results in listing order, dedupes by source+id
// keeping the first occurrence, filters, then ranks.
func (s *Service) mergeSlots(prepared preparedSearch, slots [][]domain.SearchResult) []domain.SearchResult {
	seen := make(map[string]struct{})
	merged := make([]domain.SearchResult, 0, 64)
	for _, items := range slots {
		for _, item := range items {
			key := item.Source + "|" + item.ID
			if _, exists := seen[key]; exists {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, item)
		}
	}

	merged = s.filterCfg.filterItems(merged, prepared.filterAdult)
	RankResults(merged, prepared.normalized)
	return merged
}

func (s *Service) searchNoCache(ctx context.Context, prepared preparedSearch) domain.SearchResponse {
	response := s.executePreparedSearch(ctx, prepared)
	if len(response.Results) > 0 {
		cacheKey := buildSearchCacheKey(prepared.normalized, prepared.filterAdult, prepared.sourceKeys)
		s.cacheStore(cacheKey, response, time.Now())
	}
	return response
}

func (s *Service) refreshCacheAsync(cacheKey string, prepared preparedSearch) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout+2*time.Second)
		defer cancel()
		response := s.executePreparedSearch(ctx, prepared)
		if len(response.Results) == 0 {
			s.cacheClearRefreshing(cacheKey)
			return
		}
		s.cacheStore(cacheKey, response, time.Now())
	}()
}
