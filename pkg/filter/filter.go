// Package filter narrows a loaded live collection by AND-composed criteria and
// projects song hits into match lists.
//
// Every function here is pure: inputs are never mutated and results preserve the
// order of the input collection.
package filter

import (
	"strings"

	"github.com/bastiangx/setlistserve/pkg/normalize"
	"github.com/bastiangx/setlistserve/pkg/setlist"
)

// Criteria is the incrementally edited filter state. Empty strings leave a
// predicate unset. Year is carried for display and loading; the loader has
// already applied it by the time Apply sees a collection.
type Criteria struct {
	Year           setlist.YearSelector
	Type           string
	LiveTitleQuery string
	SongTitleQuery string
}

// Unset reports whether no predicate would exclude anything.
func (c Criteria) Unset() bool {
	return c.Type == "" &&
		normalize.Text(c.LiveTitleQuery) == "" &&
		normalize.Text(c.SongTitleQuery) == ""
}

// Apply returns the lives passing every set predicate:
//   - Type must equal live.Type exactly, without normalization.
//   - LiveTitleQuery must be contained in the normalized live title.
//   - SongTitleQuery must be contained in at least one normalized setlist title.
//
// With no predicate set the input comes back unchanged.
func Apply(lives []setlist.LiveEvent, c Criteria) []setlist.LiveEvent {
	if c.Unset() {
		return lives
	}
	return NewIndex(lives).Apply(c)
}

// Match is one setlist hit projected for the song-count list.
type Match struct {
	Date  string       `json:"date" msgpack:"date"`
	Title string       `json:"title" msgpack:"title"`
	Venue string       `json:"venue" msgpack:"venue"`
	Year  setlist.Year `json:"year" msgpack:"year"`
}

// Matches lists one Match per setlist entry whose normalized title contains the
// normalized query, in live order then setlist order. A song played twice in one
// live yields two matches. An empty query matches nothing.
func Matches(lives []setlist.LiveEvent, songQuery string) []Match {
	q := normalize.NewQuery(songQuery)
	if q.Empty() {
		return nil
	}

	var out []Match
	for _, l := range lives {
		for _, s := range l.Setlist {
			if !s.HasTitle() || !q.In(s.Title) {
				continue
			}
			out = append(out, Match{
				Date:  l.Date,
				Title: l.Title,
				Venue: l.Venue,
				Year:  l.Year,
			})
		}
	}
	return out
}

// Types returns the distinct non-blank live types in first-seen order. Values
// are returned verbatim since the type predicate compares exactly.
func Types(lives []setlist.LiveEvent) []string {
	seen := make(map[string]struct{})
	types := make([]string, 0)
	for _, l := range lives {
		t := l.Type
		if strings.TrimSpace(t) == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		types = append(types, t)
	}
	return types
}
