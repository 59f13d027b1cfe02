package cms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vodhub/internal/domain"
)

const fixturePayload = `{
	"code": 1,
	"msg": "ok",
	"list": [
		{
			"vod_id": 21,
			"vod_name": "剑来",
			"vod_pic": "https://img.example.com/21.jpg",
			"vod_play_url": "第1集$https://cdn.example.com/21/1.m3u8#第2集$https://cdn.example.com/21/2.m3u8",
			"vod_class": "国产动漫",
			"vod_year": "2024",
			"vod_content": "<p>少年崛起&nbsp;志怪武侠</p>",
			"type_name": "动漫",
			"vod_douban_id": 26878420
		},
		{
			"vod_id": "22",
			"vod_name": "",
			"vod_play_url": ""
		}
	]
}`

func testSite(api string) domain.ApiSite {
	return domain.ApiSite{Key: "testsite", Name: "Test Site", API: api}
}

func TestSearchParsesListing(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("ac") != "videolist" {
			t.Errorf("missing ac=videolist, got query %q", r.URL.RawQuery)
		}
		gotQuery = r.URL.Query().Get("wd")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fixturePayload))
	}))
	defer server.Close()

	provider := NewProvider(Config{Site: testSite(server.URL)})
	results, err := provider.Search(context.Background(), "剑来")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if gotQuery != "剑来" {
		t.Fatalf("query sent to source = %q", gotQuery)
	}
	if len(results) != 1 {
		t.Fatalf("expected the empty-name row to be dropped, got %d results", len(results))
	}

	got := results[0]
	if got.ID != "21" || got.Title != "剑来" {
		t.Fatalf("unexpected identity: %#v", got)
	}
	if got.Source != "testsite" || got.SourceName != "Test Site" {
		t.Fatalf("result must carry the site identity: %#v", got)
	}
	if len(got.Episodes) != 2 || got.Episodes[0] != "https://cdn.example.com/21/1.m3u8" {
		t.Fatalf("unexpected episodes: %#v", got.Episodes)
	}
	if got.Desc != "少年崛起 志怪武侠" {
		t.Fatalf("description must be stripped of markup, got %q", got.Desc)
	}
	if got.Year != "2024" || got.TypeName != "动漫" || got.DoubanID != 26878420 {
		t.Fatalf("unexpected metadata: %#v", got)
	}
}

func TestSearchRejectsNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream busted", http.StatusBadGateway)
	}))
	defer server.Close()

	provider := NewProvider(Config{Site: testSite(server.URL)})
	if _, err := provider.Search(context.Background(), "剑来"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestSearchRejectsMalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	provider := NewProvider(Config{Site: testSite(server.URL)})
	if _, err := provider.Search(context.Background(), "剑来"); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

func TestParseEpisodesPrefersStreamGroup(t *testing.T) {
	playURL := "第1集$https://pages.example.com/1.html#第2集$https://pages.example.com/2.html" +
		"$$$" +
		"第1集$https://cdn.example.com/1.m3u8#第2集$https://cdn.example.com/2.m3u8"
	episodes := parseEpisodes(playURL)
	if len(episodes) != 2 {
		t.Fatalf("unexpected episode count: %d", len(episodes))
	}
	if episodes[0] != "https://cdn.example.com/1.m3u8" {
		t.Fatalf("m3u8 group must win, got %q", episodes[0])
	}
}

func TestParseEpisodesFallsBackToFirstGroup(t *testing.T) {
	episodes := parseEpisodes("第1集$https://pages.example.com/1.html")
	if len(episodes) != 1 || episodes[0] != "https://pages.example.com/1.html" {
		t.Fatalf("unexpected episodes: %#v", episodes)
	}
}

func TestParseEpisodesEmpty(t *testing.T) {
	if got := parseEpisodes("  "); got != nil {
		t.Fatalf("expected nil for blank play url, got %#v", got)
	}
}

func TestFlexStringAbsorbsNumbersAndStrings(t *testing.T) {
	var item apiItem
	payload := `{"vod_id": 7, "vod_name": "x", "vod_year": "2020", "vod_douban_id": null}`
	if err := json.Unmarshal([]byte(payload), &item); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if item.ID != "7" || item.Year != "2020" || item.DoubanID != "" {
		t.Fatalf("unexpected flex values: %#v", item)
	}
}
