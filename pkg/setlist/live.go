/*
Package setlist holds the data model of the archive: live events, their setlists and
the year index that partitions them into per-year files.

Per-year files are arrays of LiveEvent records. The Year field is never stored in
those files; the dataset loader tags every record with the year it came from so
that merged "all years" collections keep their provenance.

Records are treated as read-only once loaded. Helpers that reorder (SortByDate)
return new slices.
*/
package setlist

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// idNamespace seeds derived ids for records that ship without one.
var idNamespace = uuid.MustParse("6f1c2a8e-3d4b-5c6d-8e9f-0a1b2c3d4e5f")

// SongPerformance is one song within a setlist. Note is display-only.
type SongPerformance struct {
	Title string `json:"title" msgpack:"title"`
	Note  string `json:"note,omitempty" msgpack:"note,omitempty"`
}

// HasTitle reports whether the entry takes part in search and ranking.
func (s SongPerformance) HasTitle() bool {
	return strings.TrimSpace(s.Title) != ""
}

// LiveEvent is one dated concert or broadcast.
type LiveEvent struct {
	ID      string            `json:"id" msgpack:"id"`
	Date    string            `json:"date" msgpack:"date"`
	Slot    string            `json:"slot,omitempty" msgpack:"slot,omitempty"`
	Title   string            `json:"title" msgpack:"title"`
	Venue   string            `json:"venue" msgpack:"venue"`
	Type    string            `json:"type,omitempty" msgpack:"type,omitempty"`
	Tour    string            `json:"tour,omitempty" msgpack:"tour,omitempty"`
	Setlist []SongPerformance `json:"setlist" msgpack:"setlist"`
	Year    Year              `json:"year,omitempty" msgpack:"year,omitempty"`
}

// Label is the option text shown in live pickers: "date / title".
func (l LiveEvent) Label() string {
	return l.Date + " / " + l.Title
}

// WithYear returns a copy of l tagged with year. A missing id is derived from
// the year, date, slot and title so it stays stable across loads.
func (l LiveEvent) WithYear(year Year) LiveEvent {
	l.Year = year
	if l.ID == "" {
		seed := strings.Join([]string{string(year), l.Date, l.Slot, l.Title}, "\x1f")
		l.ID = uuid.NewSHA1(idNamespace, []byte(seed)).String()
	}
	return l
}

// TagYear applies WithYear to every record, returning a new slice.
func TagYear(lives []LiveEvent, year Year) []LiveEvent {
	out := make([]LiveEvent, len(lives))
	for i, l := range lives {
		out[i] = l.WithYear(year)
	}
	return out
}

// SortByDate returns lives ordered by date, ties broken by slot. Equal keys keep input order.
func SortByDate(lives []LiveEvent) []LiveEvent {
	out := make([]LiveEvent, len(lives))
	copy(out, lives)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Slot < out[j].Slot
	})
	return out
}

// FindByID returns the live with the given id.
func FindByID(lives []LiveEvent, id string) (LiveEvent, bool) {
	for _, l := range lives {
		if l.ID == id {
			return l, true
		}
	}
	return LiveEvent{}, false
}
