package filter

import (
	"reflect"
	"testing"

	"github.com/bastiangx/setlistserve/pkg/setlist"
)

func live(id, typ, title string, songs ...string) setlist.LiveEvent {
	l := setlist.LiveEvent{ID: id, Date: "2025.01.0" + id, Title: title, Venue: "Hall " + id, Type: typ, Year: "2025"}
	for _, s := range songs {
		l.Setlist = append(l.Setlist, setlist.SongPerformance{Title: s})
	}
	return l
}

func ids(lives []setlist.LiveEvent) []string {
	out := make([]string, 0, len(lives))
	for _, l := range lives {
		out = append(out, l.ID)
	}
	return out
}

var sampleLives = []setlist.LiveEvent{
	live("1", "broadcast", "Music Station", "群青", "Idol"),
	live("2", "live", "ＺＥＰＰ Tour Final", "夜に駆ける", "Idol", "  "),
	live("3", "broadcast", "CDTV Live!", "アイドル"),
	live("4", "live", "Zepp Osaka", "群青"),
	live("5", "", "Untitled Session"),
}

func TestApplyTypeScenario(t *testing.T) {
	lives := []setlist.LiveEvent{
		live("1", "broadcast", "a"),
		live("2", "live", "b"),
		live("3", "broadcast", "c"),
	}
	got := ids(Apply(lives, Criteria{Type: "broadcast"}))
	if want := []string{"1", "3"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Apply(type=broadcast) = %v, want %v", got, want)
	}
}

func TestApply(t *testing.T) {
	testCases := []struct {
		criteria Criteria
		expected []string
		desc     string
	}{
		{Criteria{}, []string{"1", "2", "3", "4", "5"}, "unset returns everything"},
		{Criteria{Type: "live"}, []string{"2", "4"}, "type only"},
		{Criteria{Type: "Live"}, []string{}, "type is case sensitive"},
		{Criteria{Type: "none"}, []string{}, "unknown type"},
		{Criteria{LiveTitleQuery: "zepp"}, []string{"2", "4"}, "live title matches across width"},
		{Criteria{LiveTitleQuery: "  ＬＩＶＥ "}, []string{"3"}, "padded full-width live title"},
		{Criteria{SongTitleQuery: "idol"}, []string{"1", "2"}, "any setlist entry"},
		{Criteria{SongTitleQuery: "群青"}, []string{"1", "4"}, "japanese song"},
		{Criteria{Type: "live", SongTitleQuery: "群青"}, []string{"4"}, "type and song"},
		{Criteria{Type: "live", LiveTitleQuery: "final", SongTitleQuery: "idol"}, []string{"2"}, "all three"},
		{Criteria{Type: "broadcast", LiveTitleQuery: "zepp"}, []string{}, "disjoint predicates"},
		{Criteria{LiveTitleQuery: "   "}, []string{"1", "2", "3", "4", "5"}, "blank query is unset"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			got := ids(Apply(sampleLives, tc.criteria))
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("Apply(%+v) = %v, want %v", tc.criteria, got, tc.expected)
			}
		})
	}
}

func TestApplyIsOrderedSubsequence(t *testing.T) {
	criteria := []Criteria{
		{Type: "live"},
		{SongTitleQuery: "i"},
		{LiveTitleQuery: "e"},
		{Type: "broadcast", SongTitleQuery: "群"},
	}
	for _, c := range criteria {
		got := Apply(sampleLives, c)
		j := 0
		for _, l := range got {
			for j < len(sampleLives) && sampleLives[j].ID != l.ID {
				j++
			}
			if j == len(sampleLives) {
				t.Fatalf("Apply(%+v) = %v is not a subsequence of the input", c, ids(got))
			}
			j++
		}
	}
}

func TestApplyDoesNotMutate(t *testing.T) {
	before := ids(sampleLives)
	Apply(sampleLives, Criteria{Type: "live", SongTitleQuery: "idol"})
	if !reflect.DeepEqual(ids(sampleLives), before) {
		t.Error("Apply mutated its input")
	}
}

func TestIndexReuse(t *testing.T) {
	ix := NewIndex(sampleLives)
	if ix.Len() != 5 {
		t.Fatalf("Len() = %d", ix.Len())
	}
	first := ids(ix.Apply(Criteria{Type: "broadcast"}))
	ix.Apply(Criteria{Type: "live", SongTitleQuery: "群青"})
	second := ids(ix.Apply(Criteria{Type: "broadcast"}))
	if !reflect.DeepEqual(first, second) {
		t.Errorf("index state leaked between queries: %v vs %v", first, second)
	}
	if got := ix.Positions(Criteria{SongTitleQuery: "idol"}).GetCardinality(); got != 2 {
		t.Errorf("Positions cardinality = %d, want 2", got)
	}
}

func TestMatches(t *testing.T) {
	lives := []setlist.LiveEvent{
		live("1", "live", "Night A", "Encore Song", "Other", "ENCORE SONG"),
		live("2", "live", "Night B", "Other"),
		live("3", "live", "Night C", "ｅｎｃｏｒｅ song"),
	}
	lives[2].Year = "2024"

	got := Matches(lives, "encore")
	if len(got) != 3 {
		t.Fatalf("got %d matches, want 3: %+v", len(got), got)
	}
	want := Match{Date: "2025.01.01", Title: "Night A", Venue: "Hall 1", Year: "2025"}
	if got[0] != want || got[1] != want {
		t.Errorf("first two matches = %+v, want repeated %+v", got[:2], want)
	}
	if got[2].Year != "2024" || got[2].Title != "Night C" {
		t.Errorf("third match = %+v", got[2])
	}

	if got := Matches(lives, "  "); got != nil {
		t.Errorf("blank query should match nothing, got %+v", got)
	}
	if got := Matches(lives, "missing"); len(got) != 0 {
		t.Errorf("unexpected matches %+v", got)
	}
}

func TestTypes(t *testing.T) {
	got := Types(sampleLives)
	if want := []string{"broadcast", "live"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Types() = %v, want %v", got, want)
	}
	if got := Types(nil); got == nil || len(got) != 0 {
		t.Errorf("Types(nil) = %#v, want empty non-nil", got)
	}
}
