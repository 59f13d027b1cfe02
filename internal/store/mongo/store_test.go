package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"vodhub/internal/domain"
)

// ---------------------------------------------------------------------------
// favorite doc mapping
// ---------------------------------------------------------------------------

func TestFavoriteDocRoundtrip(t *testing.T) {
	saved := time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)
	favorite := domain.Favorite{
		Username:      "alice",
		Source:        "heimuer",
		ID:            "21",
		Title:         "剑来",
		SourceName:    "黑木耳",
		Poster:        "https://img.example.com/21.jpg",
		Year:          "2024",
		TotalEpisodes: 26,
		SaveTime:      saved,
	}

	got := fromFavoriteDoc(toFavoriteDoc(favorite))
	if got != favorite {
		t.Fatalf("roundtrip mismatch:\n got %#v\nwant %#v", got, favorite)
	}
}

func TestFavoriteDocDefaultsSaveTime(t *testing.T) {
	doc := toFavoriteDoc(domain.Favorite{Username: "alice", Source: "s", ID: "1"})
	if doc.SaveTime == 0 {
		t.Fatal("zero save time must default to now")
	}
}

func TestFavoriteDocBSONFieldNames(t *testing.T) {
	doc := toFavoriteDoc(domain.Favorite{
		Username: "alice", Source: "s", ID: "1", Poster: "p", SaveTime: time.Unix(100, 0),
	})
	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, field := range []string{"username", "source", "vodId", "cover", "saveTime"} {
		if _, ok := m[field]; !ok {
			t.Errorf("missing field %q in favorite doc", field)
		}
	}
	if m["vodId"] != "1" {
		t.Errorf("vodId: got %v", m["vodId"])
	}
}

// ---------------------------------------------------------------------------
// play record doc mapping
// ---------------------------------------------------------------------------

func TestPlayRecordDocRoundtrip(t *testing.T) {
	saved := time.Date(2026, 8, 21, 22, 15, 0, 0, time.UTC)
	record := domain.PlayRecord{
		Username:      "alice",
		Source:        "heimuer",
		ID:            "21",
		Title:         "剑来",
		SourceName:    "黑木耳",
		Poster:        "https://img.example.com/21.jpg",
		Year:          "2024",
		Index:         7,
		TotalEpisodes: 26,
		PlayTime:      1320,
		TotalTime:     1440,
		SaveTime:      saved,
	}

	got := fromPlayRecordDoc(toPlayRecordDoc(record))
	if got != record {
		t.Fatalf("roundtrip mismatch:\n got %#v\nwant %#v", got, record)
	}
}

func TestPlayRecordDocDefaultsSaveTime(t *testing.T) {
	doc := toPlayRecordDoc(domain.PlayRecord{Username: "alice", Source: "s", ID: "1"})
	if doc.SaveTime == 0 {
		t.Fatal("zero save time must default to now")
	}
}

// ---------------------------------------------------------------------------
// helpers / nil safety
// ---------------------------------------------------------------------------

func TestTimeFromUnixIsUTC(t *testing.T) {
	got := timeFromUnix(1740000000)
	if !got.Equal(time.Unix(1740000000, 0)) {
		t.Errorf("timeFromUnix mismatch: %v", got)
	}
	if got.Location() != time.UTC {
		t.Errorf("expected UTC, got %v", got.Location())
	}
}

func TestEnsureIndexesNilRepositories(t *testing.T) {
	var favorites *FavoritesRepository
	if err := favorites.EnsureIndexes(nil); err != nil {
		t.Errorf("nil favorites repo: %v", err)
	}
	var records *PlayRecordsRepository
	if err := records.EnsureIndexes(nil); err != nil {
		t.Errorf("nil play records repo: %v", err)
	}
}
