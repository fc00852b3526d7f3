package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bastiangx/setlistserve/pkg/browser"
	"github.com/bastiangx/setlistserve/pkg/dataset"
	"github.com/bastiangx/setlistserve/pkg/setlist"
	"github.com/bastiangx/setlistserve/pkg/suggest"
)

func newHandler(t *testing.T) (*InputHandler, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"index.json": `{"years": [2024, 2025]}`,
		"2024.json":  `[{"id":"a","date":"2024.12.31","title":"Countdown","venue":"Dome","type":"live","setlist":[{"title":"群青"}]}]`,
		"2025.json": `[
			{"id":"b","date":"2025.01.10","title":"Music Station","venue":"Studio","type":"broadcast","setlist":[{"title":"Idol","note":"TV size"}]},
			{"id":"c","date":"2025.02.01","title":"Zepp Tour","venue":"Zepp","type":"live","setlist":[{"title":"群青"},{"title":"Idol"}]}
		]`,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	ctrl := browser.New(dataset.NewLoader(dataset.NewDirSource(dir)))
	if err := ctrl.Init(context.Background(), setlist.YearSelector{}); err != nil {
		t.Fatal(err)
	}
	session := suggest.NewSession(suggest.NewCorpus([]string{"Idol", "群青", "アイドル"}), 0, 2)

	var out bytes.Buffer
	return NewInputHandler(ctrl, session, &out, false), &out
}

func TestAutocompleteAndPick(t *testing.T) {
	h, out := newHandler(t)
	ctx := context.Background()

	h.Exec(ctx, "id")
	if !strings.Contains(out.String(), " 1. Idol") {
		t.Fatalf("candidates not printed: %q", out.String())
	}

	out.Reset()
	h.Exec(ctx, "/down")
	h.Exec(ctx, "/pick")
	if !strings.Contains(out.String(), "song filter: Idol") {
		t.Errorf("pick output = %q", out.String())
	}
	if got := h.controller.Criteria().SongTitleQuery; got != "Idol" {
		t.Errorf("song filter = %q", got)
	}
	if !strings.Contains(out.String(), "2025年 song~Idol: 2 lives") {
		t.Errorf("summary = %q", out.String())
	}
}

func TestPickWithoutSelectionUsesText(t *testing.T) {
	h, _ := newHandler(t)
	ctx := context.Background()

	h.Exec(ctx, "群")
	h.Exec(ctx, "/pick")
	if got := h.controller.Criteria().SongTitleQuery; got != "群" {
		t.Errorf("song filter = %q, want the typed text", got)
	}
}

func TestListShowAndRank(t *testing.T) {
	h, out := newHandler(t)
	ctx := context.Background()

	h.Exec(ctx, "/list")
	if !strings.Contains(out.String(), "2025.01.10 / Music Station") {
		t.Fatalf("list = %q", out.String())
	}

	out.Reset()
	h.Exec(ctx, "/show 1")
	for _, want := range []string{"2025.01.10（金）", "Studio ・ broadcast", " 1. Idol（TV size）"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("show output missing %q: %q", want, out.String())
		}
	}

	out.Reset()
	h.Exec(ctx, "/rank")
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], " 1. Idol") || !strings.HasSuffix(lines[0], "2回") {
		t.Errorf("ranking = %q", lines)
	}
}

func TestYearTypeAndCount(t *testing.T) {
	h, out := newHandler(t)
	ctx := context.Background()

	h.Exec(ctx, "/type broadcast")
	h.Exec(ctx, "/year 2024")
	if got := h.controller.Criteria().Type; got != "" {
		t.Errorf("type not offered in 2024 should clear, got %q", got)
	}
	if !strings.Contains(out.String(), "2024年: 1 lives") {
		t.Errorf("year summary = %q", out.String())
	}

	out.Reset()
	h.Exec(ctx, "/year all")
	h.Exec(ctx, "/count 群青")
	for _, want := range []string{"全期間「群青」", "ライブ披露回数：2回", "2024.12.31 / Countdown（Dome）"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("count output missing %q: %q", want, out.String())
		}
	}

	out.Reset()
	h.Exec(ctx, "/year 1999")
	if !strings.Contains(out.String(), "error:") {
		t.Errorf("missing year should report an error: %q", out.String())
	}
}

func TestStartLoop(t *testing.T) {
	h, out := newHandler(t)
	in := strings.NewReader("/types\n\n/bogus\n")
	if err := h.Start(context.Background(), in); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "types: broadcast, live") || !strings.Contains(out.String(), "unknown command /bogus") {
		t.Errorf("loop output = %q", out.String())
	}
}
