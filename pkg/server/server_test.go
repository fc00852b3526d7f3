package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/bastiangx/setlistserve/pkg/browser"
	"github.com/bastiangx/setlistserve/pkg/config"
	"github.com/bastiangx/setlistserve/pkg/dataset"
	"github.com/bastiangx/setlistserve/pkg/setlist"
	"github.com/bastiangx/setlistserve/pkg/suggest"
	"github.com/vmihailenco/msgpack/v5"
)

func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"index.json": `{"years": [2024, 2025]}`,
		"2024.json": `[
			{"id":"a","date":"2024.12.31","title":"Countdown","venue":"Dome","type":"live",
			 "setlist":[{"title":"群青"},{"title":"Idol","note":"acoustic"}]}
		]`,
		"2025.json": `[
			{"id":"b","date":"2025.01.10","title":"Music Station","venue":"Studio","type":"broadcast",
			 "setlist":[{"title":"Idol"}]},
			{"id":"c","date":"2025.02.01","title":"Zepp Tour","venue":"Zepp","type":"live",
			 "setlist":[{"title":"群青"},{"title":"夜に駆ける"},{"title":"ＩＤＯＬ"}]}
		]`,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// run feeds reqs to a fresh server and returns every frame it wrote, minus the ready frame.
func run(t *testing.T, reqs ...Request) []map[string]any {
	t.Helper()
	ctx := context.Background()

	ctrl := browser.New(dataset.NewLoader(dataset.NewDirSource(fixtureDir(t))))
	if err := ctrl.Init(ctx, setlist.YearSelector{}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	corpus := suggest.NewCorpus([]string{"Hello World", "Hell's Kitchen", "World Tour", "群青"})

	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, r := range reqs {
		if err := enc.Encode(r); err != nil {
			t.Fatal(err)
		}
	}

	var out bytes.Buffer
	srv := NewServer(corpus, ctrl, config.DefaultConfig(), &in, &out)
	if err := srv.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	var frames []map[string]any
	dec := msgpack.NewDecoder(&out)
	for {
		var f map[string]any
		if err := dec.Decode(&f); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			t.Fatalf("decoding output: %v", err)
		}
		frames = append(frames, f)
	}
	if len(frames) == 0 || frames[0]["status"] != "ready" {
		t.Fatalf("missing ready frame: %v", frames)
	}
	return frames[1:]
}

func words(t *testing.T, frame map[string]any) []string {
	t.Helper()
	raw, _ := frame["s"].([]any)
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		out = append(out, r.(map[string]any)["w"].(string))
	}
	return out
}

func asInt(v any) int {
	switch n := v.(type) {
	case int8:
		return int(n)
	case int16:
		return int(n)
	case int32:
		return int(n)
	case int64:
		return int(n)
	case uint8:
		return int(n)
	case uint16:
		return int(n)
	case uint32:
		return int(n)
	case uint64:
		return int(n)
	}
	return -1
}

func TestComplete(t *testing.T) {
	frames := run(t,
		Request{ID: "1", Op: OpComplete, Query: "hel"},
		Request{ID: "2", Op: OpComplete, Query: "hel", Limit: 1},
		Request{ID: "3", Op: OpComplete, Query: "hellp"},
		Request{ID: "4", Op: OpComplete},
	)
	if len(frames) != 4 {
		t.Fatalf("got %d frames, want 4", len(frames))
	}

	if got := words(t, frames[0]); !reflect.DeepEqual(got, []string{"Hello World", "Hell's Kitchen"}) {
		t.Errorf("complete(hel) = %v", got)
	}
	if asInt(frames[0]["c"]) != 2 || frames[0]["id"] != "1" {
		t.Errorf("frame = %v", frames[0])
	}
	if got := words(t, frames[1]); !reflect.DeepEqual(got, []string{"Hello World"}) {
		t.Errorf("complete(hel, 1) = %v", got)
	}
	if asInt(frames[2]["c"]) != 0 || frames[2]["n"] == nil {
		t.Errorf("expected nearest hints, got %v", frames[2])
	}
	if frames[3]["e"] != "missing query" || asInt(frames[3]["c"]) != 400 {
		t.Errorf("empty query frame = %v", frames[3])
	}
}

func TestFilterAndRank(t *testing.T) {
	frames := run(t,
		Request{ID: "f1", Op: OpFilter},
		Request{ID: "f2", Op: OpFilter, Type: "live"},
		Request{ID: "r1", Op: OpRank, Year: "all"},
		Request{ID: "f3", Op: OpFilter, Year: "2024", SongQuery: "idol"},
		Request{ID: "l1", Op: OpLive, LiveID: "a"},
		Request{ID: "l2", Op: OpLive, LiveID: "b"},
	)
	if len(frames) != 6 {
		t.Fatalf("got %d frames, want 6", len(frames))
	}

	if frames[0]["y"] != "2025" || asInt(frames[0]["c"]) != 2 {
		t.Errorf("default view = %v", frames[0])
	}
	if got := frames[0]["types"]; !reflect.DeepEqual(got, []any{"broadcast", "live"}) {
		t.Errorf("types = %v", got)
	}
	lives := frames[1]["lives"].([]any)
	if len(lives) != 1 || lives[0].(map[string]any)["label"] != "2025.02.01 / Zepp Tour" {
		t.Errorf("type filter lives = %v", lives)
	}

	ranking := frames[2]["r"].([]any)
	top := ranking[0].(map[string]any)
	if top["w"] != "Idol" || asInt(top["n"]) != 3 {
		t.Errorf("top ranked = %v", top)
	}
	if asInt(frames[2]["total"]) != 3 || frames[2]["more"] != false {
		t.Errorf("rank frame = %v", frames[2])
	}

	if frames[3]["y"] != "2024" || asInt(frames[3]["c"]) != 1 {
		t.Errorf("2024 idol view = %v", frames[3])
	}
	live := frames[4]["live"].(map[string]any)
	if live["venue"] != "Dome" || live["year"] != "2024" {
		t.Errorf("live detail = %v", live)
	}
	if asInt(frames[5]["c"]) != 404 {
		t.Errorf("live outside the view should 404, got %v", frames[5])
	}
}

func TestCountAndErrors(t *testing.T) {
	frames := run(t,
		Request{ID: "c1", Op: OpCount, Year: "all", SongQuery: "群青"},
		Request{ID: "c2", Op: OpCount, Year: "2025", SongQuery: "  "},
		Request{ID: "c3", Op: OpCount, Year: "1999", SongQuery: "idol"},
		Request{ID: "y1", Op: OpYears},
		Request{ID: "x1", Op: "explode"},
		Request{ID: "h1", Op: OpHealth},
	)
	if len(frames) != 6 {
		t.Fatalf("got %d frames, want 6", len(frames))
	}

	if frames[0]["label"] != "全期間" || asInt(frames[0]["c"]) != 2 {
		t.Errorf("count frame = %v", frames[0])
	}
	m := frames[0]["m"].([]any)[0].(map[string]any)
	if m["date"] != "2024.12.31" || m["year"] != "2024" {
		t.Errorf("first match = %v", m)
	}
	if frames[1]["e"] != "no query" {
		t.Errorf("blank count = %v", frames[1])
	}
	if asInt(frames[2]["c"]) != 502 {
		t.Errorf("missing year should be a fetch error, got %v", frames[2])
	}
	if got := frames[3]["years"]; !reflect.DeepEqual(got, []any{"2025", "2024"}) {
		t.Errorf("years = %v", got)
	}
	if asInt(frames[4]["c"]) != 400 {
		t.Errorf("unknown op = %v", frames[4])
	}
	if frames[5]["status"] != "ok" {
		t.Errorf("health = %v", frames[5])
	}
}

func TestInputIsDebounced(t *testing.T) {
	frames := run(t,
		Request{ID: "i1", Op: OpInput, Query: "w"},
		Request{ID: "i2", Op: OpInput, Query: "wo"},
		Request{ID: "i3", Op: OpInput, Query: "wor"},
	)
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want one settled answer: %v", len(frames), frames)
	}
	if frames[0]["id"] != "i3" {
		t.Errorf("answer id = %v, want i3", frames[0]["id"])
	}
	if got := words(t, frames[0]); !reflect.DeepEqual(got, []string{"World Tour", "Hello World"}) {
		t.Errorf("settled candidates = %v", got)
	}
}
