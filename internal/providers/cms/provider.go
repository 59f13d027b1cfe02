package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"vodhub/internal/domain"
)

const (
	defaultUserAgent = "vodhub/1.0"
	maxPayloadBytes  = 4 * 1024 * 1024
	maxResults       = 100
)

var htmlTagPattern = regexp.MustCompile(`<[^>]+>`)

type Config struct {
	Site      domain.ApiSite
	UserAgent string
	Client    *http.Client
}

// Provider talks to one Apple-CMS-V10 compatible video listing API.
type Provider struct {
	site      domain.ApiSite
	client    *http.Client
	userAgent string
}

type apiResponse struct {
	List []apiItem `json:"list"`
}

type apiItem struct {
	ID       flexString `json:"vod_id"`
	Name     string     `json:"vod_name"`
	Pic      string     `json:"vod_pic"`
	PlayURL  string     `json:"vod_play_url"`
	Class    string     `json:"vod_class"`
	Year     flexString `json:"vod_year"`
	Content  string     `json:"vod_content"`
	TypeName string     `json:"type_name"`
	DoubanID flexString `json:"vod_douban_id"`
}

// flexString absorbs the string-or-number typing CMS installs disagree on.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*f = ""
		return nil
	}
	if len(trimmed) >= 2 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func NewProvider(cfg Config) *Provider {
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Provider{
		site:      cfg.Site,
		client:    client,
		userAgent: userAgent,
	}
}

func (p *Provider) Key() string {
	return p.site.Key
}

func (p *Provider) Site() domain.ApiSite {
	return p.site
}

func (p *Provider) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	uri, err := url.Parse(strings.TrimSpace(p.site.API))
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}
	values := uri.Query()
	values.Set("ac", "videolist")
	values.Set("wd", strings.TrimSpace(query))
	uri.RawQuery = values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("source HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, err
	}

	items, err := parseAPIItems(payload)
	if err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, 0, len(items))
	for _, item := range items {
		result, ok := p.toResult(item)
		if !ok {
			continue
		}
		results = append(results, result)
		if len(results) >= maxResults {
			break
		}
	}
	return results, nil
}

func parseAPIItems(payload []byte) ([]apiItem, error) {
	var body apiResponse
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("unexpected source payload: %w", err)
	}
	return body.List, nil
}

func (p *Provider) toResult(item apiItem) (domain.SearchResult, bool) {
	name := strings.TrimSpace(item.Name)
	id := strings.TrimSpace(string(item.ID))
	if name == "" || id == "" {
		return domain.SearchResult{}, false
	}

	typeName := strings.TrimSpace(item.TypeName)
	if typeName == "" {
		typeName = strings.TrimSpace(item.Class)
	}

	return domain.SearchResult{
		ID:         id,
		Title:      name,
		Poster:     strings.TrimSpace(item.Pic),
		Episodes:   parseEpisodes(item.PlayURL),
		Source:     p.site.Key,
		SourceName: p.site.Name,
		Class:      strings.TrimSpace(item.Class),
		Year:       normalizeYear(string(item.Year)),
		Desc:       stripHTML(item.Content),
		TypeName:   typeName,
		DoubanID:   atoi(string(item.DoubanID)),
	}, true
}

// parseEpisodes unpacks the CMS play-url encoding: play groups separated by
// "$$$", episodes inside a group by "#", and each episode is "name$url".
// Groups carrying m3u8 links win over groups of page links.
func parseEpisodes(playURL string) []string {
	playURL = strings.TrimSpace(playURL)
	if playURL == "" {
		return nil
	}

	var best []string
	bestStreams := -1
	for _, group := range strings.Split(playURL, "$$$") {
		episodes := make([]string, 0, 8)
		streams := 0
		for _, entry := range strings.Split(group, "#") {
			link := entry
			if idx := strings.LastIndex(entry, "$"); idx >= 0 {
				link = entry[idx+1:]
			}
			link = strings.TrimSpace(link)
			if link == "" {
				continue
			}
			if strings.Contains(link, ".m3u8") {
				streams++
			}
			episodes = append(episodes, link)
		}
		if len(episodes) == 0 {
			continue
		}
		if streams > bestStreams {
			best = episodes
			bestStreams = streams
		}
	}
	return best
}

func stripHTML(raw string) string {
	cleaned := htmlTagPattern.ReplaceAllString(raw, "")
	cleaned = strings.ReplaceAll(cleaned, "&nbsp;", " ")
	return strings.TrimSpace(cleaned)
}

func normalizeYear(raw string) string {
	year := strings.TrimSpace(raw)
	if year == "" || year == "0" {
		return "unknown"
	}
	return year
}

func atoi(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return value
}
