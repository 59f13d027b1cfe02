package domain

import "errors"

var (
	ErrInvalidQuery = errors.New("query must not be empty")
	ErrQueryBanned  = errors.New("query contains a banned term")
	ErrNoSources    = errors.New("no sources available")
	ErrNotFound     = errors.New("not found")
)

// ApiSite is one configured upstream content source.
type ApiSite struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	API      string `json:"api"`
	Detail   string `json:"detail,omitempty"`
	IsAdult  bool   `json:"is_adult,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
}

// SearchResult is a single aggregated item. Field names follow the JSON
// contract clients already consume.
type SearchResult struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Poster     string   `json:"poster"`
	Episodes   []string `json:"episodes"`
	Source     string   `json:"source"`
	SourceName string   `json:"source_name"`
	Class      string   `json:"class,omitempty"`
	Year       string   `json:"year"`
	Desc       string   `json:"desc,omitempty"`
	TypeName   string   `json:"type_name,omitempty"`
	DoubanID   int      `json:"douban_id,omitempty"`
}

type SearchRequest struct {
	Query       string
	FilterAdult bool
	NoCache     bool
}

type SearchResponse struct {
	Results         []SearchResult `json:"results"`
	NormalizedQuery string         `json:"normalizedQuery,omitempty"`
}

type StreamEventType string

const (
	StreamEventStart        StreamEventType = "start"
	StreamEventSourceResult StreamEventType = "source_result"
	StreamEventSourceError  StreamEventType = "source_error"
	StreamEventComplete     StreamEventType = "complete"
)

// StreamEvent is the progressive-delivery union. Only the fields relevant
// to the event type are populated.
type StreamEvent struct {
	Type             StreamEventType `json:"type"`
	Query            string          `json:"query,omitempty"`
	NormalizedQuery  string          `json:"normalizedQuery,omitempty"`
	TotalSources     int             `json:"totalSources,omitempty"`
	Source           string          `json:"source,omitempty"`
	SourceName       string          `json:"sourceName,omitempty"`
	Results          []SearchResult  `json:"results,omitempty"`
	Error            string          `json:"error,omitempty"`
	TotalResults     int             `json:"totalResults"`
	CompletedSources int             `json:"completedSources"`
	Timestamp        int64           `json:"timestamp"`
}

type SuggestionType string

const (
	SuggestionExact      SuggestionType = "exact"
	SuggestionRelated    SuggestionType = "related"
	SuggestionSuggestion SuggestionType = "suggestion"
)

type Suggestion struct {
	Text  string         `json:"text"`
	Type  SuggestionType `json:"type"`
	Score float64        `json:"score"`
}
