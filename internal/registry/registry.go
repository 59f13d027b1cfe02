package registry

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"vodhub/internal/domain"
	"vodhub/internal/providers/cms"
	"vodhub/internal/search"
)

type sitesFile struct {
	Sites []siteEntry `json:"sites"`
}

type siteEntry struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	API      string `json:"api"`
	Detail   string `json:"detail"`
	IsAdult  bool   `json:"is_adult"`
	Disabled bool   `json:"disabled"`
}

// Load reads the source registry file and returns the enabled sites in file
// order. Disabled or malformed entries are skipped, not fatal.
func Load(path string) ([]domain.ApiSite, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	var file sitesFile
	if err := json.Unmarshal(payload, &file); err != nil {
		return nil, fmt.Errorf("parse sources file: %w", err)
	}

	seen := make(map[string]struct{}, len(file.Sites))
	sites := make([]domain.ApiSite, 0, len(file.Sites))
	for _, entry := range file.Sites {
		key := strings.TrimSpace(entry.Key)
		api := strings.TrimSpace(entry.API)
		if entry.Disabled {
			continue
		}
		if key == "" || api == "" {
			slog.Warn("skipping source with missing key or api", slog.String("key", key))
			continue
		}
		if _, dup := seen[key]; dup {
			slog.Warn("skipping duplicate source key", slog.String("key", key))
			continue
		}
		seen[key] = struct{}{}

		name := strings.TrimSpace(entry.Name)
		if name == "" {
			name = key
		}
		sites = append(sites, domain.ApiSite{
			Key:     key,
			Name:    name,
			API:     api,
			Detail:  strings.TrimSpace(entry.Detail),
			IsAdult: entry.IsAdult,
		})
	}

	if len(sites) == 0 {
		return nil, fmt.Errorf("sources file %s lists no enabled sources", path)
	}
	return sites, nil
}

// BuildSources turns the registry entries into live CMS adapters sharing one
// HTTP client.
func BuildSources(sites []domain.ApiSite, client *http.Client, userAgent string) []search.Source {
	sources := make([]search.Source, 0, len(sites))
	for _, site := range sites {
		sources = append(sources, cms.NewProvider(cms.Config{
			Site:      site,
			UserAgent: userAgent,
			Client:    client,
		}))
	}
	return sources
}
