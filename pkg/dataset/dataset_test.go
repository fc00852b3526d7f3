package dataset

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/setlistserve/pkg/setlist"
)

func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"index.json": `{"years": [2024, "2025"]}`,
		"2024.json":  `[{"id":"a","date":"2024.12.31","title":"Countdown","venue":"Dome","type":"live","setlist":[{"title":"Song"}]}]`,
		"2025.json": `[{"id":"b","date":"2025.01.10","title":"Radio","venue":"Studio","type":"broadcast","setlist":[]},
		               {"date":"2025.02.01","title":"Hall","venue":"Hall"}]`,
		"songs.raw.json": `{"songs": ["Song"]}`,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoaderYearTagsRecords(t *testing.T) {
	l := NewLoader(NewDirSource(writeFixture(t)))
	lives, err := l.Year(context.Background(), "2025")
	if err != nil {
		t.Fatalf("Year: %v", err)
	}
	if len(lives) != 2 {
		t.Fatalf("got %d lives, want 2", len(lives))
	}
	for _, lv := range lives {
		if lv.Year != "2025" {
			t.Errorf("live %q year = %q, want 2025", lv.ID, lv.Year)
		}
		if lv.ID == "" {
			t.Error("missing id was not derived")
		}
	}
}

func TestLoaderTargetAllMergesInIndexOrder(t *testing.T) {
	l := NewLoader(NewDirSource(writeFixture(t)))
	lives, err := l.Target(context.Background(), setlist.AllYears())
	if err != nil {
		t.Fatalf("Target: %v", err)
	}
	if len(lives) != 3 {
		t.Fatalf("got %d lives, want 3", len(lives))
	}
	if lives[0].ID != "a" || lives[0].Year != "2024" || lives[1].Year != "2025" {
		t.Errorf("unexpected merge order/provenance: %+v", lives)
	}
}

func TestLoaderMissingYearIsFetchError(t *testing.T) {
	l := NewLoader(NewDirSource(writeFixture(t)))
	_, err := l.Year(context.Background(), "1999")
	if !errors.Is(err, ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
	var fe *FetchError
	if !errors.As(err, &fe) || fe.Resource != "1999.json" {
		t.Errorf("expected FetchError for 1999.json, got %v", err)
	}
}

func TestLoaderMalformedJSONIsFetchError(t *testing.T) {
	dir := writeFixture(t)
	if err := os.WriteFile(filepath.Join(dir, "2024.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := NewLoader(NewDirSource(dir)).Year(context.Background(), "2024")
	if !errors.Is(err, ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.FileServer(http.Dir(writeFixture(t))))
	defer srv.Close()

	l := NewLoader(NewHTTPSource(srv.URL+"/", 0))
	idx, err := l.Years(context.Background())
	if err != nil {
		t.Fatalf("Years: %v", err)
	}
	if len(idx.Years) != 2 {
		t.Errorf("got %d years, want 2", len(idx.Years))
	}

	_, err = l.Year(context.Background(), "2030")
	var fe *FetchError
	if !errors.As(err, &fe) || fe.Status != http.StatusNotFound {
		t.Fatalf("expected 404 FetchError, got %v", err)
	}
}

func TestPackRoundTrip(t *testing.T) {
	l := NewLoader(NewDirSource(writeFixture(t)))
	p, err := BuildPack(context.Background(), l)
	if err != nil {
		t.Fatalf("BuildPack: %v", err)
	}
	if len(p.Docs) != 4 {
		t.Errorf("packed %d docs, want 4", len(p.Docs))
	}

	var buf bytes.Buffer
	if err := WritePack(&buf, p); err != nil {
		t.Fatalf("WritePack: %v", err)
	}
	decoded, err := ReadPack(&buf)
	if err != nil {
		t.Fatalf("ReadPack: %v", err)
	}

	packed := NewLoader(NewSnapshotSource(decoded))
	lives, err := packed.Target(context.Background(), setlist.AllYears())
	if err != nil {
		t.Fatalf("Target from pack: %v", err)
	}
	if len(lives) != 3 {
		t.Errorf("got %d lives from pack, want 3", len(lives))
	}
	if _, err := packed.SongMaster(context.Background()); err != nil {
		t.Errorf("SongMaster from pack: %v", err)
	}
	if _, err := packed.Year(context.Background(), "1999"); !errors.Is(err, ErrFetch) {
		t.Errorf("missing packed doc should be ErrFetch, got %v", err)
	}
}

func TestPackRejectsUnknownVersion(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePack(&buf, &Pack{Version: 99}); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadPack(&buf); err == nil {
		t.Error("expected version error")
	}
}
