package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"vodhub/internal/domain"
)

// ---------------------------------------------------------------------------
// fakes
// ---------------------------------------------------------------------------

type fakeSource struct {
	key     string
	name    string
	adult   bool
	results []domain.SearchResult
	err     error
	delay   time.Duration

	mu      sync.Mutex
	queries []string
}

func (f *fakeSource) Key() string { return f.key }

func (f *fakeSource) Site() domain.ApiSite {
	return domain.ApiSite{Key: f.key, Name: f.name, IsAdult: f.adult}
}

func (f *fakeSource) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.SearchResult, len(f.results))
	copy(out, f.results)
	return out, nil
}

func (f *fakeSource) queryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func result(source, id, title string) domain.SearchResult {
	return domain.SearchResult{ID: id, Title: title, Source: source, SourceName: source}
}

// ---------------------------------------------------------------------------
// buffered search
// ---------------------------------------------------------------------------

func TestSearchRejectsEmptyQuery(t *testing.T) {
	svc := NewService([]Source{&fakeSource{key: "a", name: "A"}}, time.Second, WithCacheDisabled(true))
	if _, err := svc.Search(context.Background(), domain.SearchRequest{Query: "   "}); !errors.Is(err, domain.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestSearchReturnsErrNoSourcesWithoutSources(t *testing.T) {
	svc := NewService(nil, time.Second, WithCacheDisabled(true))
	if _, err := svc.Search(context.Background(), domain.SearchRequest{Query: "剑来"}); !errors.Is(err, domain.ErrNoSources) {
		t.Fatalf("expected ErrNoSources, got %v", err)
	}
}

func TestSearchDedupesBySourceAndID(t *testing.T) {
	first := &fakeSource{key: "one", name: "One", results: []domain.SearchResult{
		result("one", "10", "剑来"),
		result("one", "11", "剑来 第二季"),
	}}
	second := &fakeSource{key: "two", name: "Two", results: []domain.SearchResult{
		result("two", "10", "剑来"),
	}}
	svc := NewService([]Source{first, second}, time.Second, WithCacheDisabled(true))

	response, err := svc.Search(context.Background(), domain.SearchRequest{Query: "剑来"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	// Same id on different sources stays; the same source+id pair returned
	// by several variants collapses to one.
	if len(response.Results) != 3 {
		t.Fatalf("expected 3 results, got %d: %#v", len(response.Results), response.Results)
	}
	seen := make(map[string]int)
	for _, item := range response.Results {
		seen[item.Source+"|"+item.ID]++
	}
	for key, count := range seen {
		if count != 1 {
			t.Fatalf("duplicate %s in merged results", key)
		}
	}
}

func TestSearchQueriesEveryVariantPerSource(t *testing.T) {
	src := &fakeSource{key: "one", name: "One"}
	svc := NewService([]Source{src}, time.Second, WithCacheDisabled(true))

	query := "凡人修仙传：仙界篇"
	if _, err := svc.Search(context.Background(), domain.SearchRequest{Query: query}); err != nil {
		t.Fatalf("search failed: %v", err)
	}
	variants := ExpandQueryVariants(query)
	if src.queryCount() != len(variants) {
		t.Fatalf("expected %d variant queries, got %d", len(variants), src.queryCount())
	}
}

func TestSearchBannedQuerySkipsAllSources(t *testing.T) {
	src := &fakeSource{key: "one", name: "One", results: []domain.SearchResult{result("one", "1", "whatever")}}
	svc := NewService([]Source{src}, time.Second,
		WithCacheDisabled(true),
		WithFilterConfig(FilterConfig{BannedTerms: []string{"禁词"}}),
	)

	response, err := svc.Search(context.Background(), domain.SearchRequest{Query: "某某禁词电影"})
	if err != nil {
		t.Fatalf("banned query must not error: %v", err)
	}
	if len(response.Results) != 0 {
		t.Fatalf("expected empty results, got %d", len(response.Results))
	}
	if src.queryCount() != 0 {
		t.Fatalf("banned query must not reach sources, got %d calls", src.queryCount())
	}
}

func TestSearchIsolatesFailingSources(t *testing.T) {
	healthy := &fakeSource{key: "ok", name: "OK", results: []domain.SearchResult{result("ok", "1", "剑来")}}
	broken := &fakeSource{key: "bad", name: "Bad", err: errors.New("upstream exploded")}
	svc := NewService([]Source{broken, healthy}, time.Second, WithCacheDisabled(true))

	response, err := svc.Search(context.Background(), domain.SearchRequest{Query: "剑来"})
	if err != nil {
		t.Fatalf("partial failure must not error: %v", err)
	}
	if len(response.Results) != 1 || response.Results[0].Source != "ok" {
		t.Fatalf("expected the healthy source's result, got %#v", response.Results)
	}
}

func TestSearchAllSourcesFailingYieldsEmptyResponse(t *testing.T) {
	svc := NewService([]Source{
		&fakeSource{key: "a", name: "A", err: errors.New("boom")},
		&fakeSource{key: "b", name: "B", err: errors.New("boom")},
	}, time.Second, WithCacheDisabled(true))

	response, err := svc.Search(context.Background(), domain.SearchRequest{Query: "剑来"})
	if err != nil {
		t.Fatalf("total failure must not error: %v", err)
	}
	if len(response.Results) != 0 {
		t.Fatalf("expected empty results, got %d", len(response.Results))
	}
}

func TestSearchSlowSourceIsBoundedByPairTimeout(t *testing.T) {
	slow := &fakeSource{key: "slow", name: "Slow", delay: 500 * time.Millisecond}
	fast := &fakeSource{key: "fast", name: "Fast", results: []domain.SearchResult{result("fast", "1", "剑来")}}
	svc := NewService([]Source{slow, fast}, 50*time.Millisecond, WithCacheDisabled(true))

	started := time.Now()
	response, err := svc.Search(context.Background(), domain.SearchRequest{Query: "剑来"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if elapsed := time.Since(started); elapsed > 400*time.Millisecond {
		t.Fatalf("search should settle at the pair timeout, took %s", elapsed)
	}
	if len(response.Results) != 1 {
		t.Fatalf("expected the fast source's result, got %#v", response.Results)
	}
}

func TestSearchExcludesAdultSourcesWhenFiltering(t *testing.T) {
	normal := &fakeSource{key: "normal", name: "Normal", results: []domain.SearchResult{result("normal", "1", "剑来")}}
	adult := &fakeSource{key: "adult", name: "Adult", adult: true, results: []domain.SearchResult{result("adult", "2", "剑来")}}
	svc := NewService([]Source{normal, adult}, time.Second, WithCacheDisabled(true))

	response, err := svc.Search(context.Background(), domain.SearchRequest{Query: "剑来", FilterAdult: true})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	for _, item := range response.Results {
		if item.Source == "adult" {
			t.Fatalf("adult source must be excluded when filtering")
		}
	}
	if adult.queryCount() != 0 {
		t.Fatalf("adult source must not be queried when filtering")
	}

	response, err = svc.Search(context.Background(), domain.SearchRequest{Query: "剑来", FilterAdult: false})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(response.Results) != 2 {
		t.Fatalf("expected both sources without filtering, got %#v", response.Results)
	}
}

func TestSearchSetsNormalizedQuery(t *testing.T) {
	src := &fakeSource{key: "one", name: "One"}
	svc := NewService([]Source{src}, time.Second, WithCacheDisabled(true))

	response, err := svc.Search(context.Background(), domain.SearchRequest{Query: "劍來第二季"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if response.NormalizedQuery != "剑来 第二季" {
		t.Fatalf("unexpected normalized query %q", response.NormalizedQuery)
	}
}

// ---------------------------------------------------------------------------
// cache behaviour
// ---------------------------------------------------------------------------

func TestSearchServesSecondRequestFromCache(t *testing.T) {
	src := &fakeSource{key: "one", name: "One", results: []domain.SearchResult{result("one", "1", "剑来")}}
	svc := NewService([]Source{src}, time.Second)

	if _, err := svc.Search(context.Background(), domain.SearchRequest{Query: "剑来"}); err != nil {
		t.Fatalf("first search failed: %v", err)
	}
	callsAfterFirst := src.queryCount()

	response, err := svc.Search(context.Background(), domain.SearchRequest{Query: "剑来"})
	if err != nil {
		t.Fatalf("second search failed: %v", err)
	}
	if src.queryCount() != callsAfterFirst {
		t.Fatalf("second search must be served from cache")
	}
	if len(response.Results) != 1 {
		t.Fatalf("cached response lost results: %#v", response.Results)
	}
}

func TestSearchDoesNotCacheEmptyResponses(t *testing.T) {
	src := &fakeSource{key: "one", name: "One"}
	svc := NewService([]Source{src}, time.Second)

	if _, err := svc.Search(context.Background(), domain.SearchRequest{Query: "剑来"}); err != nil {
		t.Fatalf("first search failed: %v", err)
	}
	callsAfterFirst := src.queryCount()

	if _, err := svc.Search(context.Background(), domain.SearchRequest{Query: "剑来"}); err != nil {
		t.Fatalf("second search failed: %v", err)
	}
	if src.queryCount() == callsAfterFirst {
		t.Fatalf("empty response must not be cached")
	}
}

func TestSearchNoCacheBypassesCache(t *testing.T) {
	src := &fakeSource{key: "one", name: "One", results: []domain.SearchResult{result("one", "1", "剑来")}}
	svc := NewService([]Source{src}, time.Second)

	if _, err := svc.Search(context.Background(), domain.SearchRequest{Query: "剑来"}); err != nil {
		t.Fatalf("first search failed: %v", err)
	}
	callsAfterFirst := src.queryCount()

	if _, err := svc.Search(context.Background(), domain.SearchRequest{Query: "剑来", NoCache: true}); err != nil {
		t.Fatalf("nocache search failed: %v", err)
	}
	if src.queryCount() == callsAfterFirst {
		t.Fatalf("nocache must reach sources")
	}
}

func TestCacheKeyVariesWithPolicyAndSources(t *testing.T) {
	base := buildSearchCacheKey("剑来", true, []string{"a", "b"})
	if buildSearchCacheKey("剑来", false, []string{"a", "b"}) == base {
		t.Fatalf("adult policy must be part of the cache key")
	}
	if buildSearchCacheKey("剑来", true, []string{"a"}) == base {
		t.Fatalf("source set must be part of the cache key")
	}
	if buildSearchCacheKey("剑来", true, []string{"b", "a"}) != base {
		t.Fatalf("cache key must not depend on source listing order")
	}
}
