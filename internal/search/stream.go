package search

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"vodhub/internal/domain"
)

// SearchStream runs the progressive aggregation. Events arrive on the
// returned channel in protocol order: start, then one source_result or
// source_error per source as it settles, then complete. The channel is
// closed after complete. Sends race the context, so once the caller is
// gone remaining events are dropped instead of blocking the fan-out.
func (s *Service) SearchStream(ctx context.Context, request domain.SearchRequest) <-chan domain.StreamEvent {
	ch := make(chan domain.StreamEvent, 8)

	query := strings.TrimSpace(request.Query)
	if query == "" {
		close(ch)
		return ch
	}

	go s.executeStreamSearch(ctx, query, request.FilterAdult, ch)
	return ch
}

func (s *Service) executeStreamSearch(ctx context.Context, query string, filterAdult bool, ch chan<- domain.StreamEvent) {
	defer close(ch)

	emit := func(event domain.StreamEvent) bool {
		event.Timestamp = time.Now().UnixMilli()
		select {
		case ch <- event:
			return true
		case <-ctx.Done():
			return false
		}
	}

	if s.filterCfg.QueryBanned(query) {
		emit(domain.StreamEvent{Type: domain.StreamEventComplete})
		return
	}

	prepared, err := s.prepareSearch(query, filterAdult)
	if err != nil {
		emit(domain.StreamEvent{Type: domain.StreamEventComplete})
		return
	}

	startedAt := time.Now()
	if !emit(domain.StreamEvent{
		Type:            domain.StreamEventStart,
		Query:           prepared.query,
		NormalizedQuery: prepared.normalized,
		TotalSources:    len(prepared.sources),
	}) {
		return
	}

	outcomes := make(chan streamOutcome, len(prepared.sources))
	var wg sync.WaitGroup

	for _, source := range prepared.sources {
		wg.Add(1)
		go func(src Source) {
			defer wg.Done()
			outcomes <- s.runStreamSource(ctx, src, prepared)
		}(source)
	}
	go func() {
		wg.Wait()
		close(outcomes)
	}()

	totalResults := 0
	completedSources := 0
	for outcome := range outcomes {
		completedSources++
		if outcome.err != nil {
			if !emit(domain.StreamEvent{
				Type:       domain.StreamEventSourceError,
				Source:     outcome.site.Key,
				SourceName: outcome.site.Name,
				Error:      outcome.err.Error(),
			}) {
				break
			}
			continue
		}
		totalResults += len(outcome.results)
		if !emit(domain.StreamEvent{
			Type:       domain.StreamEventSourceResult,
			Source:     outcome.site.Key,
			SourceName: outcome.site.Name,
			Results:    outcome.results,
		}) {
			break
		}
	}
	// Drain remaining outcomes so source goroutines never block on send.
	for range outcomes {
		completedSources++
	}

	slog.Info("stream search completed",
		slog.String("query", prepared.query),
		slog.Int("totalResults", totalResults),
		slog.Int("completedSources", completedSources),
		slog.Int64("elapsedMs", time.Since(startedAt).Milliseconds()),
	)

	emit(domain.StreamEvent{
		Type:             domain.StreamEventComplete,
		TotalResults:     totalResults,
		CompletedSources: completedSources,
	})
}

type streamOutcome struct {
	site    domain.ApiSite
	results []domain.SearchResult
	err     error
}

// runStreamSource queries every variant for one source in parallel and
// merges what came back. The source settles as an error only when no
// variant succeeded; partial failures still yield a source_result.
func (s *Service) runStreamSource(ctx context.Context, source Source, prepared preparedSearch) (outcome streamOutcome) {
	outcome.site = source.Site()

	slots := make([][]domain.SearchResult, len(prepared.variants))
	errs := make([]error, len(prepared.variants))
	var wg sync.WaitGroup
	for vi, variant := range prepared.variants {
		wg.Add(1)
		go func(slot int, q string) {
			defer wg.Done()
			items, err := s.fetchPair(ctx, source, q)
			if err != nil {
				errs[slot] = err
				return
			}
			slots[slot] = items
		}(vi, variant)
	}
	wg.Wait()

	succeeded := false
	var lastErr error
	for vi := range slots {
		if errs[vi] != nil {
			lastErr = errs[vi]
			continue
		}
		succeeded = true
	}
	if !succeeded && lastErr != nil {
		outcome.err = lastErr
		return outcome
	}

	// Per-source dedupe is by item id alone; cross-source collisions are
	// expected and kept.
	seen := make(map[string]struct{})
	merged := make([]domain.SearchResult, 0, 16)
	for _, items := range slots {
		for _, item := range items {
			if _, exists := seen[item.ID]; exists {
				continue
			}
			seen[item.ID] = struct{}{}
			merged = append(merged, item)
		}
	}
	merged = s.filterCfg.filterItems(merged, prepared.filterAdult)
	RankResults(merged, prepared.normalized)
	outcome.results = merged
	return outcome
}
