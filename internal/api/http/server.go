package apihttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"vodhub/internal/auth"
	"vodhub/internal/domain"
	"vodhub/internal/search"
)

type SearchService interface {
	Search(ctx context.Context, request domain.SearchRequest) (domain.SearchResponse, error)
	SearchStream(ctx context.Context, request domain.SearchRequest) <-chan domain.StreamEvent
	Suggest(ctx context.Context, request domain.SearchRequest) ([]domain.Suggestion, error)
	Sources(filterAdult bool) []domain.ApiSite
}

type FavoritesStore interface {
	Upsert(ctx context.Context, favorite domain.Favorite) error
	Get(ctx context.Context, username, source, id string) (domain.Favorite, error)
	List(ctx context.Context, username string) ([]domain.Favorite, error)
	Delete(ctx context.Context, username, source, id string) error
	DeleteAll(ctx context.Context, username string) error
}

type PlayRecordsStore interface {
	Upsert(ctx context.Context, record domain.PlayRecord) error
	Get(ctx context.Context, username, source, id string) (domain.PlayRecord, error)
	List(ctx context.Context, username string) ([]domain.PlayRecord, error)
	Delete(ctx context.Context, username, source, id string) error
	DeleteAll(ctx context.Context, username string) error
}

type Server struct {
	search             SearchService
	favorites          FavoritesStore
	playRecords        PlayRecordsStore
	tokens             *auth.TokenService
	siteUsername       string
	sitePassword       string
	defaultFilterAdult bool
	cacheTTL           time.Duration
	logger             *slog.Logger
}

const maxQueryLength = 500

type ServerOption func(*Server)

func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

func WithAuth(tokens auth.TokenService, siteUsername, sitePassword string) ServerOption {
	return func(s *Server) {
		s.tokens = &tokens
		s.siteUsername = siteUsername
		s.sitePassword = sitePassword
	}
}

func WithFavorites(store FavoritesStore) ServerOption {
	return func(s *Server) {
		s.favorites = store
	}
}

func WithPlayRecords(store PlayRecordsStore) ServerOption {
	return func(s *Server) {
		s.playRecords = store
	}
}

func WithDefaultAdultFilter(enabled bool) ServerOption {
	return func(s *Server) {
		s.defaultFilterAdult = enabled
	}
}

func WithCacheTTL(ttl time.Duration) ServerOption {
	return func(s *Server) {
		s.cacheTTL = ttl
	}
}

func NewServer(searchService SearchService, options ...ServerOption) *Server {
	server := &Server{
		search:             searchService,
		defaultFilterAdult: true,
		cacheTTL:           5 * time.Minute,
		logger:             slog.Default(),
	}
	for _, option := range options {
		if option != nil {
			option(server)
		}
	}
	if server.logger == nil {
		server.logger = slog.Default()
	}
	return server
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/login", s.handleLogin)
	mux.HandleFunc("/logout", s.handleLogout)
	mux.HandleFunc("/image", s.handleImageProxy)
	mux.HandleFunc("/search/ws", s.requireAuth(s.handleSearchStream))
	mux.HandleFunc("/search/suggestions", s.requireAuth(s.handleSuggestions))
	mux.HandleFunc("/search/resources", s.requireAuth(s.handleResources))
	mux.HandleFunc("/search", s.requireAuth(s.handleSearch))
	mux.HandleFunc("/favorites", s.requireAuth(s.handleFavorites))
	mux.HandleFunc("/playrecords", s.requireAuth(s.handlePlayRecords))
	traced := otelhttp.NewHandler(loggingMiddleware(s.logger, mux), "vodhub",
		otelhttp.WithFilter(func(r *http.Request) bool {
			p := r.URL.Path
			return p != "/metrics" && p != "/health"
		}),
	)
	return recoveryMiddleware(s.logger, rateLimitMiddleware(50, 100, metricsMiddleware(traced)))
}

// ---------------------------------------------------------------------------
// auth
// ---------------------------------------------------------------------------

type contextKey string

const usernameContextKey contextKey = "vodhub.username"

func usernameFromContext(ctx context.Context) string {
	if username, ok := ctx.Value(usernameContextKey).(string); ok {
		return username
	}
	return ""
}

// requireAuth gates a handler on the session cookie. When no token service
// is configured the site runs open and every request acts as the default
// user.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.tokens == nil {
			next(w, r.WithContext(context.WithValue(r.Context(), usernameContextKey, "default")))
			return
		}
		claims, err := s.tokens.FromRequest(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), usernameContextKey, claims.Username)))
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.tokens == nil {
		writeError(w, http.StatusNotImplemented, "authentication is not configured")
		return
	}

	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSONBody(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, expires, err := s.tokens.Login(payload.Username, payload.Password, s.siteUsername, s.sitePassword)
	if err != nil {
		s.logger.Warn("login rejected", slog.String("clientIP", clientIP(r)))
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// ---------------------------------------------------------------------------
// search
// ---------------------------------------------------------------------------

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) resolveAdultFilter(r *http.Request) bool {
	q := r.URL.Query()
	return search.ResolveAdultFilter(s.defaultFilterAdult, q.Get("adult"), q.Get("filter"))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.search == nil {
		writeError(w, http.StatusInternalServerError, "search service is not configured")
		return
	}

	filterAdult := s.resolveAdultFilter(r)

	// No results is never an error: a missing query is an empty 200, same as
	// a query nothing matched. Headers still reflect the resolved policy.
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		setAdultFilterHeader(w, filterAdult)
		writeJSON(w, http.StatusOK, domain.SearchResponse{Results: []domain.SearchResult{}})
		return
	}
	if len(query) > maxQueryLength {
		writeError(w, http.StatusBadRequest, "query too long (max 500 characters)")
		return
	}

	noCache := parseOptionalBool(r.URL.Query().Get("nocache")) || parseOptionalBool(r.URL.Query().Get("noCache"))

	response, err := s.search.Search(r.Context(), domain.SearchRequest{
		Query:       query,
		FilterAdult: filterAdult,
		NoCache:     noCache,
	})
	if err != nil {
		s.logger.Warn("search request failed",
			slog.String("query", truncate(query, 80)),
			slog.String("error", err.Error()),
		)
		switch {
		case errors.Is(err, domain.ErrInvalidQuery):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrNoSources):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "search failed")
		}
		return
	}

	s.logger.Info("search completed",
		slog.String("query", truncate(query, 80)),
		slog.Bool("filterAdult", filterAdult),
		slog.Int("results", len(response.Results)),
	)

	setAdultFilterHeader(w, filterAdult)
	// Empty result sets stay uncached so a transient source outage does not
	// pin a blank page.
	if len(response.Results) > 0 && !noCache {
		seconds := int(s.cacheTTL.Seconds())
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", seconds))
		w.Header().Set("CDN-Cache-Control", fmt.Sprintf("max-age=%d", seconds))
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleSearchStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.search == nil {
		writeError(w, http.StatusInternalServerError, "search service is not configured")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming is not supported")
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}
	if len(query) > maxQueryLength {
		writeError(w, http.StatusBadRequest, "query too long (max 500 characters)")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	setAdultFilterHeader(w, s.defaultFilterAdult)

	// Progressive delivery always applies the server-wide adult policy; the
	// URL overrides only exist on the buffered endpoint.
	ch := s.search.SearchStream(r.Context(), domain.SearchRequest{
		Query:       query,
		FilterAdult: s.defaultFilterAdult,
	})
	for event := range ch {
		select {
		case <-r.Context().Done():
			return // Client disconnected
		default:
		}
		if err := writeSSEEvent(w, flusher, event); err != nil {
			return // Client disconnected
		}
	}
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.search == nil {
		writeError(w, http.StatusInternalServerError, "search service is not configured")
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusOK, map[string]any{"suggestions": []domain.Suggestion{}})
		return
	}

	suggestions, err := s.search.Suggest(r.Context(), domain.SearchRequest{
		Query:       query,
		FilterAdult: s.resolveAdultFilter(r),
	})
	if err != nil {
		s.logger.Warn("suggestions failed", slog.String("query", truncate(query, 60)), slog.String("error", err.Error()))
		writeJSON(w, http.StatusOK, map[string]any{"suggestions": []domain.Suggestion{}})
		return
	}
	if suggestions == nil {
		suggestions = []domain.Suggestion{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

func (s *Server) handleResources(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.search == nil {
		writeError(w, http.StatusInternalServerError, "search service is not configured")
		return
	}

	type resource struct {
		Key     string `json:"key"`
		Name    string `json:"name"`
		IsAdult bool   `json:"is_adult"`
	}
	sites := s.search.Sources(s.resolveAdultFilter(r))
	items := make([]resource, 0, len(sites))
	for _, site := range sites {
		items = append(items, resource{Key: site.Key, Name: site.Name, IsAdult: site.IsAdult})
	}
	writeJSON(w, http.StatusOK, items)
}

// ---------------------------------------------------------------------------
// favorites / play records
// ---------------------------------------------------------------------------

func (s *Server) handleFavorites(w http.ResponseWriter, r *http.Request) {
	if s.favorites == nil {
		writeError(w, http.StatusServiceUnavailable, "favorites store is not configured")
		return
	}
	username := usernameFromContext(r.Context())

	switch r.Method {
	case http.MethodGet:
		source, id := itemKeyParams(r)
		if source != "" && id != "" {
			favorite, err := s.favorites.Get(r.Context(), username, source, id)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					writeError(w, http.StatusNotFound, "not found")
					return
				}
				s.logger.Error("favorite lookup failed", slog.String("error", err.Error()))
				writeError(w, http.StatusInternalServerError, "favorites unavailable")
				return
			}
			writeJSON(w, http.StatusOK, favorite)
			return
		}
		favorites, err := s.favorites.List(r.Context(), username)
		if err != nil {
			s.logger.Error("favorites list failed", slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "favorites unavailable")
			return
		}
		if favorites == nil {
			favorites = []domain.Favorite{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"favorites": favorites})
	case http.MethodPost:
		var favorite domain.Favorite
		if err := decodeJSONBody(r, &favorite); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if strings.TrimSpace(favorite.Source) == "" || strings.TrimSpace(favorite.ID) == "" {
			writeError(w, http.StatusBadRequest, "source and id are required")
			return
		}
		favorite.Username = username
		favorite.SaveTime = time.Now().UTC()
		if err := s.favorites.Upsert(r.Context(), favorite); err != nil {
			s.logger.Error("favorite save failed", slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "favorites unavailable")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	case http.MethodDelete:
		source, id := itemKeyParams(r)
		if source == "" && id == "" {
			if err := s.favorites.DeleteAll(r.Context(), username); err != nil {
				s.logger.Error("favorites clear failed", slog.String("error", err.Error()))
				writeError(w, http.StatusInternalServerError, "favorites unavailable")
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
			return
		}
		if source == "" || id == "" {
			writeError(w, http.StatusBadRequest, "source and id are required")
			return
		}
		if err := s.favorites.Delete(r.Context(), username, source, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeError(w, http.StatusNotFound, "not found")
				return
			}
			s.logger.Error("favorite delete failed", slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "favorites unavailable")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handlePlayRecords(w http.ResponseWriter, r *http.Request) {
	if s.playRecords == nil {
		writeError(w, http.StatusServiceUnavailable, "play record store is not configured")
		return
	}
	username := usernameFromContext(r.Context())

	switch r.Method {
	case http.MethodGet:
		source, id := itemKeyParams(r)
		if source != "" && id != "" {
			record, err := s.playRecords.Get(r.Context(), username, source, id)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					writeError(w, http.StatusNotFound, "not found")
					return
				}
				s.logger.Error("play record lookup failed", slog.String("error", err.Error()))
				writeError(w, http.StatusInternalServerError, "play records unavailable")
				return
			}
			writeJSON(w, http.StatusOK, record)
			return
		}
		records, err := s.playRecords.List(r.Context(), username)
		if err != nil {
			s.logger.Error("play records list failed", slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "play records unavailable")
			return
		}
		if records == nil {
			records = []domain.PlayRecord{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"records": records})
	case http.MethodPost:
		var record domain.PlayRecord
		if err := decodeJSONBody(r, &record); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if strings.TrimSpace(record.Source) == "" || strings.TrimSpace(record.ID) == "" {
			writeError(w, http.StatusBadRequest, "source and id are required")
			return
		}
		record.Username = username
		record.SaveTime = time.Now().UTC()
		if err := s.playRecords.Upsert(r.Context(), record); err != nil {
			s.logger.Error("play record save failed", slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "play records unavailable")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	case http.MethodDelete:
		source, id := itemKeyParams(r)
		if source == "" && id == "" {
			if err := s.playRecords.DeleteAll(r.Context(), username); err != nil {
				s.logger.Error("play records clear failed", slog.String("error", err.Error()))
				writeError(w, http.StatusInternalServerError, "play records unavailable")
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
			return
		}
		if source == "" || id == "" {
			writeError(w, http.StatusBadRequest, "source and id are required")
			return
		}
		if err := s.playRecords.Delete(r.Context(), username, source, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeError(w, http.StatusNotFound, "not found")
				return
			}
			s.logger.Error("play record delete failed", slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "play records unavailable")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func itemKeyParams(r *http.Request) (source, id string) {
	q := r.URL.Query()
	return strings.TrimSpace(q.Get("source")), strings.TrimSpace(q.Get("id"))
}

func setAdultFilterHeader(w http.ResponseWriter, filterAdult bool) {
	if filterAdult {
		w.Header().Set("X-Adult-Filter", "enabled")
	} else {
		w.Header().Set("X-Adult-Filter", "disabled")
	}
}

func decodeJSONBody(r *http.Request, dest any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read request body: %w", err)
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}

	decoder := json.NewDecoder(bytes.NewReader(payload))
	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid json body: %w", err)
	}
	return nil
}

func parseOptionalBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeSSEEvent emits one data-only frame; the event type travels inside the
// JSON payload.
func writeSSEEvent(w http.ResponseWriter, flusher http.Flusher, event domain.StreamEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return err // Client disconnected
	}
	flusher.Flush()
	return nil
}
