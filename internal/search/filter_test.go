package search

import (
	"os"
	"path/filepath"
	"testing"

	"vodhub/internal/domain"
)

func TestResolveAdultFilterPrecedence(t *testing.T) {
	cases := []struct {
		name          string
		defaultFilter bool
		adult         string
		filter        string
		want          bool
	}{
		{"default on", true, "", "", true},
		{"default off", false, "", "", false},
		{"adult=1 disables", true, "1", "", false},
		{"adult=true disables", true, "true", "", false},
		{"adult=0 enables", false, "0", "", true},
		{"adult=false enables", false, "false", "", true},
		{"filter=off disables", true, "", "off", false},
		{"filter=disable disables", true, "", "disable", false},
		{"filter=on enables", false, "", "on", true},
		{"filter=enable enables", false, "", "enable", true},
		{"adult wins over filter", true, "1", "on", false},
		{"adult=0 wins over filter=off", true, "0", "off", true},
		{"garbage values fall through", true, "maybe", "sometimes", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveAdultFilter(tc.defaultFilter, tc.adult, tc.filter); got != tc.want {
				t.Fatalf("ResolveAdultFilter(%v, %q, %q) = %v, want %v",
					tc.defaultFilter, tc.adult, tc.filter, got, tc.want)
			}
		})
	}
}

func TestQueryBannedIsCaseInsensitiveSubstring(t *testing.T) {
	cfg := FilterConfig{BannedTerms: []string{"Banned", "禁词"}}.normalized()
	if !cfg.QueryBanned("totally bANNed query") {
		t.Fatalf("expected case-insensitive match")
	}
	if !cfg.QueryBanned("前缀禁词后缀") {
		t.Fatalf("expected substring match")
	}
	if cfg.QueryBanned("harmless") {
		t.Fatalf("unexpected match")
	}
}

func TestItemAllowedAdultKeywordOnTypeName(t *testing.T) {
	cfg := FilterConfig{AdultKeywords: []string{"伦理片"}}.normalized()
	item := domain.SearchResult{Title: "某电影", TypeName: "伦理片"}

	if cfg.ItemAllowed(item, true) {
		t.Fatalf("adult item must be dropped when filtering")
	}
	if !cfg.ItemAllowed(item, false) {
		t.Fatalf("adult item must survive when filtering is off")
	}
}

func TestItemAllowedBannedTitleAlwaysDropped(t *testing.T) {
	cfg := FilterConfig{BannedTerms: []string{"禁词"}}.normalized()
	item := domain.SearchResult{Title: "含禁词的标题"}
	if cfg.ItemAllowed(item, false) {
		t.Fatalf("banned title must be dropped regardless of adult policy")
	}
}

func TestItemAllowedBannedTypeNameDropped(t *testing.T) {
	cfg := FilterConfig{BannedTerms: []string{"禁词"}}.normalized()
	item := domain.SearchResult{Title: "干净标题", TypeName: "含禁词类别"}
	if cfg.ItemAllowed(item, false) {
		t.Fatalf("banned type label must drop the item")
	}
}

func TestItemAllowedAdultKeywordIgnoresTitle(t *testing.T) {
	cfg := FilterConfig{AdultKeywords: []string{"福利"}}.normalized()
	item := domain.SearchResult{Title: "福利来了", TypeName: "喜剧片"}
	if !cfg.ItemAllowed(item, true) {
		t.Fatalf("adult keywords apply to the type label, not the title")
	}
}

func TestFilterConfigFromFiles(t *testing.T) {
	dir := t.TempDir()
	bannedPath := filepath.Join(dir, "banned.txt")
	if err := os.WriteFile(bannedPath, []byte("# comment\n禁词\n\n  Another Term  \n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := FilterConfigFromFiles(bannedPath, "")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !cfg.QueryBanned("前缀禁词") || !cfg.QueryBanned("another term here") {
		t.Fatalf("file terms must apply: %#v", cfg.BannedTerms)
	}
	if len(cfg.AdultKeywords) == 0 {
		t.Fatal("adult keywords must keep built-in defaults when no file is given")
	}

	if _, err := FilterConfigFromFiles(filepath.Join(dir, "missing.txt"), ""); err == nil {
		t.Fatal("missing file must be an error")
	}
}

func TestFilterItemsKeepsOrder(t *testing.T) {
	cfg := FilterConfig{AdultKeywords: []string{"福利"}}.normalized()
	items := []domain.SearchResult{
		{ID: "1", Title: "a"},
		{ID: "2", Title: "b", TypeName: "福利"},
		{ID: "3", Title: "c"},
	}
	kept := cfg.filterItems(items, true)
	if len(kept) != 2 || kept[0].ID != "1" || kept[1].ID != "3" {
		t.Fatalf("unexpected filtered slice: %#v", kept)
	}
}
