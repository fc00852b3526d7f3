/*
Package extract recovers a flat list of song titles from a song master payload of
unknown shape, and builds such a payload from live records.

The payload may be a bare array, an object with a well-known array property, or an
object nesting the array one or two levels down. Array elements may be strings or
objects naming the title under one of several keys. Probes run in a fixed order and
the first one that finds an array wins:

	[ ... ]                      the array itself
	{"songs": [ ... ]}           songs, titles, items, data, list, results
	{"x": [ ... ]}               first array among the object's values
	{"x": {"y": [ ... ]}}        first array one level below that

Unrecognized input yields an empty list, never an error.
*/
package extract

import (
	"sort"
	"strings"

	"github.com/bastiangx/setlistserve/internal/utils"
	"github.com/bastiangx/setlistserve/pkg/normalize"
	"github.com/bastiangx/setlistserve/pkg/setlist"
	"github.com/charmbracelet/log"
)

var (
	containerKeys = []string{"songs", "titles", "items", "data", "list", "results"}
	titleKeys     = []string{"title", "name", "song", "label"}
)

// probe tries one payload shape and reports the array it found.
type probe func(n node) (node, bool)

var probes = []probe{
	probeArray,
	probeContainerKey,
	probeNestedArray,
}

// Titles extracts distinct titles from raw JSON bytes. Invalid JSON yields nil.
func Titles(data []byte) []string {
	n, err := parse(data)
	if err != nil {
		log.Debugf("Song master is not valid JSON: %v", err)
		return nil
	}
	return titlesFrom(n)
}

// TitlesFromValue extracts titles from an already decoded JSON value.
func TitlesFromValue(v any) []string {
	return titlesFrom(fromValue(v))
}

func titlesFrom(n node) []string {
	for _, p := range probes {
		if arr, ok := p(n); ok {
			return fromArray(arr)
		}
	}
	log.Debug("Song master shape not recognized, corpus is empty")
	return nil
}

func probeArray(n node) (node, bool) {
	return n, n.kind == kindArray
}

func probeContainerKey(n node) (node, bool) {
	for _, key := range containerKeys {
		if v, ok := n.field(key); ok && v.kind == kindArray {
			return v, true
		}
	}
	return node{}, false
}

func probeNestedArray(n node) (node, bool) {
	if n.kind != kindObject {
		return node{}, false
	}
	for _, v := range n.values() {
		if v.kind == kindArray {
			return v, true
		}
		if v.kind == kindObject {
			for _, vv := range v.values() {
				if vv.kind == kindArray {
					return vv, true
				}
			}
		}
	}
	return node{}, false
}

// fromArray keeps string elements and string titles of object elements, drops
// blanks and de-duplicates by normalized form, first literal and order winning.
func fromArray(arr node) []string {
	seen := utils.NewSeenFilter(normalize.Text)
	titles := make([]string, 0, len(arr.items))
	for _, item := range arr.items {
		title, ok := titleOf(item)
		if !ok {
			continue
		}
		title = strings.TrimSpace(title)
		if seen.ShouldInclude(title) {
			titles = append(titles, title)
		}
	}
	return titles
}

func titleOf(item node) (string, bool) {
	switch item.kind {
	case kindString:
		return item.str, true
	case kindObject:
		for _, key := range titleKeys {
			if v, ok := item.present(key); ok {
				return v.str, v.kind == kindString
			}
		}
	}
	return "", false
}

// Master is the song master document written by FromLives consumers.
type Master struct {
	Songs []string `json:"songs"`
}

// FromLives collects every distinct non-blank setlist title across lives,
// sorted, ready to be written as a song master.
func FromLives(lives []setlist.LiveEvent) Master {
	seen := utils.NewSeenFilter(nil)
	var songs []string
	for _, l := range lives {
		for _, s := range l.Setlist {
			if s.HasTitle() && seen.ShouldInclude(s.Title) {
				songs = append(songs, s.Title)
			}
		}
	}
	sort.Strings(songs)
	if songs == nil {
		songs = []string{}
	}
	return Master{Songs: songs}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
