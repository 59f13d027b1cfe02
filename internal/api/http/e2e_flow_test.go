package apihttp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vodhub/internal/auth"
	"vodhub/internal/domain"
	"vodhub/internal/providers/cms"
	"vodhub/internal/search"
)

func newCMSFixture(t *testing.T, source string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wd := r.URL.Query().Get("wd")
		payload := fmt.Sprintf(`{"code":1,"list":[{
			"vod_id": 21,
			"vod_name": %q,
			"vod_pic": "https://img.example.com/%s/21.jpg",
			"vod_play_url": "第1集$https://cdn.example.com/%s/1.m3u8#第2集$https://cdn.example.com/%s/2.m3u8",
			"vod_year": "2024",
			"type_name": "动漫"
		}]}`, wd, source, source, source)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
}

// Walks the whole user flow against a real aggregation service: log in,
// search across live CMS fixtures, then bookmark one of the results.
func TestE2ELoginSearchFavoriteFlow(t *testing.T) {
	upstream := newCMSFixture(t, "one")
	defer upstream.Close()

	sources := []search.Source{
		cms.NewProvider(cms.Config{Site: domain.ApiSite{Key: "one", Name: "One", API: upstream.URL}}),
	}
	service := search.NewService(sources, 2*time.Second, search.WithCacheDisabled(true))

	server := NewServer(service,
		WithAuth(auth.TokenService{Secret: []byte("e2e-secret"), Issuer: "vodhub", Duration: time.Hour}, "admin", "hunter2"),
		WithFavorites(newFakeFavoritesStore()),
	)
	handler := server.Handler()

	// Unauthenticated search is rejected.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search?q=%E5%89%91%E6%9D%A5", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous search status = %d, want 401", rec.Code)
	}

	// Login mints the session cookie.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login",
		bytes.NewReader([]byte(`{"username":"admin","password":"hunter2"}`))))
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
	var session *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == auth.CookieName {
			session = cookie
		}
	}
	if session == nil {
		t.Fatal("no session cookie")
	}

	// Search hits the CMS fixture and returns displayable cards.
	req := httptest.NewRequest(http.MethodGet, "/search?q=%E5%89%91%E6%9D%A5", nil)
	req.AddCookie(session)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("search status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp domain.SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Results) == 0 {
		t.Fatal("search returned no results")
	}
	for i, item := range resp.Results {
		if item.Title == "" {
			t.Errorf("result[%d]: title required for display", i)
		}
		if item.Poster == "" {
			t.Errorf("result[%d] %q: poster required for display", i, item.Title)
		}
		if len(item.Episodes) == 0 {
			t.Errorf("result[%d] %q: episodes required for playback", i, item.Title)
		}
		if item.Source == "" || item.SourceName == "" {
			t.Errorf("result[%d] %q: source identity required for the badge", i, item.Title)
		}
	}

	// Bookmark the first result.
	first := resp.Results[0]
	body, _ := json.Marshal(map[string]any{
		"source": first.Source,
		"id":     first.ID,
		"title":  first.Title,
		"cover":  first.Poster,
		"year":   first.Year,
	})
	req = httptest.NewRequest(http.MethodPost, "/favorites", bytes.NewReader(body))
	req.AddCookie(session)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("favorite save status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/favorites", nil)
	req.AddCookie(session)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if !strings.Contains(rec.Body.String(), first.Title) {
		t.Fatalf("favorites list must contain the saved title: %s", rec.Body.String())
	}
}

// The progressive endpoint must deliver the same results over SSE frames.
func TestE2ESearchStreamDeliversSourceResults(t *testing.T) {
	upstream := newCMSFixture(t, "one")
	defer upstream.Close()

	sources := []search.Source{
		cms.NewProvider(cms.Config{Site: domain.ApiSite{Key: "one", Name: "One", API: upstream.URL}}),
	}
	service := search.NewService(sources, 2*time.Second, search.WithCacheDisabled(true))
	server := NewServer(service)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search/ws?q=%E5%89%91%E6%9D%A5", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	body := rec.Body.String()
	if !strings.Contains(body, `"type":"start"`) {
		t.Fatal("stream must open with a start event")
	}
	if !strings.Contains(body, `"type":"source_result"`) {
		t.Fatal("stream must carry per-source results")
	}
	if !strings.Contains(body, `"type":"complete"`) {
		t.Fatal("stream must end with a complete event")
	}
	if !strings.Contains(body, ".m3u8") {
		t.Fatal("stream results must carry playable episode urls")
	}
}
