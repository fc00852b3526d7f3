// Package rank counts song performances across a live collection.
package rank

import (
	"sort"
	"strings"

	"github.com/bastiangx/setlistserve/pkg/normalize"
	"github.com/bastiangx/setlistserve/pkg/setlist"
)

// Display caps for the ranking view.
const (
	InitialCap  = 10
	ExpandedCap = 40
)

// Entry is one ranked song. Title is the first literal form seen for its key.
type Entry struct {
	Title string `json:"title" msgpack:"w"`
	Count int    `json:"count" msgpack:"n"`
}

// Rank counts every titled setlist entry of lives, in live order then setlist
// order. Titles are trimmed and grouped by their normalized form. The result is
// sorted by count descending; equal counts keep the order in which their keys
// first appeared.
func Rank(lives []setlist.LiveEvent) []Entry {
	index := make(map[string]int)
	entries := make([]Entry, 0)

	for _, l := range lives {
		for _, s := range l.Setlist {
			title := strings.TrimSpace(s.Title)
			if title == "" {
				continue
			}
			key := normalize.Text(title)
			if i, ok := index[key]; ok {
				entries[i].Count++
				continue
			}
			index[key] = len(entries)
			entries = append(entries, Entry{Title: title, Count: 1})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return entries
}

// Total sums the counts of entries.
func Total(entries []Entry) int {
	total := 0
	for _, e := range entries {
		total += e.Count
	}
	return total
}
