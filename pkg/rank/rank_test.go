package rank

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/bastiangx/setlistserve/pkg/setlist"
)

func withSongs(titles ...string) setlist.LiveEvent {
	l := setlist.LiveEvent{Title: "live"}
	for _, t := range titles {
		l.Setlist = append(l.Setlist, setlist.SongPerformance{Title: t})
	}
	return l
}

func TestRankScenario(t *testing.T) {
	lives := []setlist.LiveEvent{
		withSongs("A", "A", "B"),
		withSongs("a"),
	}
	got := Rank(lives)
	want := []Entry{{Title: "A", Count: 3}, {Title: "B", Count: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Rank() = %+v, want %+v", got, want)
	}
}

func TestRank(t *testing.T) {
	testCases := []struct {
		lives    []setlist.LiveEvent
		expected []Entry
		desc     string
	}{
		{nil, []Entry{}, "no lives"},
		{[]setlist.LiveEvent{withSongs("", "  ")}, []Entry{}, "blank titles skipped"},
		{
			[]setlist.LiveEvent{withSongs("Song", "ＳＯＮＧ", " song ")},
			[]Entry{{Title: "Song", Count: 3}},
			"case and width variants aggregate",
		},
		{
			[]setlist.LiveEvent{withSongs("  Padded "), withSongs("padded")},
			[]Entry{{Title: "Padded", Count: 2}},
			"display form is trimmed",
		},
		{
			[]setlist.LiveEvent{withSongs("C", "B", "A"), withSongs("A", "B")},
			[]Entry{{Title: "B", Count: 2}, {Title: "A", Count: 2}, {Title: "C", Count: 1}},
			"ties keep first occurrence order",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			got := Rank(tc.lives)
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("Rank() = %+v, want %+v", got, tc.expected)
			}
		})
	}
}

func TestRankProperties(t *testing.T) {
	titles := []string{"群青", "夜に駆ける", "Idol", "ＩＤＯＬ", "", "アイドル", "idol ", "群青"}
	var lives []setlist.LiveEvent
	nonEmpty := 0
	for i := 0; i < 12; i++ {
		var songs []string
		for j := 0; j <= i%len(titles); j++ {
			title := titles[(i+j)%len(titles)]
			songs = append(songs, title)
			if title != "" {
				nonEmpty++
			}
		}
		lives = append(lives, withSongs(songs...))
	}

	got := Rank(lives)
	if Total(got) != nonEmpty {
		t.Errorf("Total() = %d, want %d", Total(got), nonEmpty)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Count > got[i-1].Count {
			t.Fatalf("not sorted at %d: %+v", i, got)
		}
	}
	for _, e := range got {
		if e.Title == "ＩＤＯＬ" || e.Title == "idol " {
			t.Errorf("variant %q should have folded into Idol", e.Title)
		}
	}
}

func TestView(t *testing.T) {
	var entries []Entry
	for i := 0; i < 50; i++ {
		entries = append(entries, Entry{Title: fmt.Sprintf("S%02d", i), Count: 50 - i})
	}
	v := NewView(entries, 0, 0)

	if got := len(v.Visible()); got != InitialCap {
		t.Fatalf("initial visible = %d, want %d", got, InitialCap)
	}
	if !v.HasMore() {
		t.Error("expected more entries behind the initial cap")
	}
	first := v.Visible()[0]

	if !v.Toggle() {
		t.Fatal("toggle should expand")
	}
	visible := v.Visible()
	if len(visible) != ExpandedCap || v.HasMore() {
		t.Fatalf("expanded visible = %d, HasMore = %v", len(visible), v.HasMore())
	}
	if visible[0] != first || &visible[0] != &v.All()[0] {
		t.Error("expanding should slice the same ranking")
	}

	v.Toggle()
	if len(v.Visible()) != InitialCap || v.Expanded() {
		t.Error("toggle back should restore the initial cap")
	}
}

func TestViewShortRanking(t *testing.T) {
	v := NewView([]Entry{{Title: "A", Count: 1}}, 10, 5)
	if v.HasMore() {
		t.Error("short ranking has nothing more")
	}
	v.SetExpanded(true)
	if got := v.Visible(); len(got) != 1 {
		t.Errorf("Visible() = %+v", got)
	}
	if v.expanded != 10 {
		t.Errorf("expanded cap should be raised to the initial cap, got %d", v.expanded)
	}
}
