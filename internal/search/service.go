package search

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"vodhub/internal/domain"
)

// Source is one upstream content API. Implementations must be safe for
// concurrent use: the aggregator issues one call per query variant.
type Source interface {
	Key() string
	Site() domain.ApiSite
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
}

type Service struct {
	sources       []Source
	byKey         map[string]Source
	timeout       time.Duration
	filterCfg     FilterConfig
	cacheDisabled bool
	cacheMu       sync.RWMutex
	cache         map[string]*cachedSearchResponse
	popular       map[string]*popularQuery
	warmerCfg     searchWarmerConfig
	warmerRun     atomic.Bool
	redisCache    *RedisCacheBackend
	healthMu      sync.Mutex
	health        map[string]*sourceHealth
}

type ServiceOption func(*Service)

func WithRedisCache(backend *RedisCacheBackend) ServiceOption {
	return func(s *Service) {
		s.redisCache = backend
	}
}

func WithCacheTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.warmerCfg.cacheTTL = ttl
			s.warmerCfg.staleTTL = ttl * 3
		}
	}
}

func WithCacheDisabled(disabled bool) ServiceOption {
	return func(s *Service) {
		s.cacheDisabled = disabled
	}
}

func WithFilterConfig(cfg FilterConfig) ServiceOption {
	return func(s *Service) {
		s.filterCfg = cfg.normalized()
	}
}

// NewService builds a search service over an ordered source list. Source
// order is significant: it fixes the merge order of buffered responses and
// selects the suggestion source.
func NewService(sources []Source, timeout time.Duration, opts ...ServiceOption) *Service {
	ordered := make([]Source, 0, len(sources))
	byKey := make(map[string]Source, len(sources))
	for _, source := range sources {
		if source == nil {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(source.Key()))
		if key == "" {
			continue
		}
		if _, exists := byKey[key]; exists {
			continue
		}
		byKey[key] = source
		ordered = append(ordered, source)
	}

	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	svc := &Service{
		sources:   ordered,
		byKey:     byKey,
		timeout:   timeout,
		filterCfg: DefaultFilterConfig(),
		cache:     make(map[string]*cachedSearchResponse),
		popular:   make(map[string]*popularQuery),
		warmerCfg: defaultSearchWarmerConfig(),
		health:    make(map[string]*sourceHealth),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *Service) StartBackground(ctx context.Context) {
	if s.warmerRun.CompareAndSwap(false, true) {
		go s.runWarmer(ctx)
		go s.runDiagnosticsLog(ctx)
	}
}

// Sources lists the configured sites in registration order, excluding adult
// ones when filterAdult is set.
func (s *Service) Sources(filterAdult bool) []domain.ApiSite {
	items := make([]domain.ApiSite, 0, len(s.sources))
	for _, source := range s.sources {
		site := source.Site()
		if filterAdult && site.IsAdult {
			continue
		}
		items = append(items, site)
	}
	return items
}

func (s *Service) selectSources(filterAdult bool) []Source {
	selected := make([]Source, 0, len(s.sources))
	for _, source := range s.sources {
		if filterAdult && source.Site().IsAdult {
			continue
		}
		selected = append(selected, source)
	}
	return selected
}
