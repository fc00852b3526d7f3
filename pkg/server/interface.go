/*
Package server implements msgpack IPC for the setlist archive.

Clients write msgpack maps to stdin and read one msgpack map per request from
stdout. Every frame carries the request id and an op name:

	{"id": "r1", "op": "complete", "q": "hel", "l": 20}
	{"id": "r1", "s": [{"w": "Hello World", "r": 1}, {"w": "Hell's Kitchen", "r": 2}], "c": 2, "t": 41}

Filtering and ranking act on the server's current view. Sending a year switches
the view first; type and query fields replace the current criteria:

	{"id": "r2", "op": "filter", "y": "2025", "ty": "broadcast", "sq": "群青"}
	{"id": "r3", "op": "rank", "y": "all", "x": true}

The count op searches independently of the view:

	{"id": "r4", "op": "count", "y": "all", "sq": "群青"}

The input op is for search boxes that send every keystroke. Inputs are
coalesced and only the settled text is answered, under the id of the last
input frame. End of input flushes a pending answer.

Failures are reported as {"id", "e", "c"} with an HTTP-like code.

Requests are processed one at a time in arrival order. Debounced input answers
are the only frames written out of band.
*/
package server

import (
	"github.com/bastiangx/setlistserve/pkg/filter"
	"github.com/bastiangx/setlistserve/pkg/rank"
	"github.com/bastiangx/setlistserve/pkg/setlist"
)

// Ops understood by the server.
const (
	OpComplete = "complete"
	OpInput    = "input"
	OpFilter   = "filter"
	OpRank     = "rank"
	OpCount    = "count"
	OpYears    = "years"
	OpLive     = "live"
	OpHealth   = "health"
)

// Request is the union of every op's fields.
type Request struct {
	ID        string `msgpack:"id"`
	Op        string `msgpack:"op"`
	Query     string `msgpack:"q,omitempty"`
	Limit     int    `msgpack:"l,omitempty"`
	Year      string `msgpack:"y,omitempty"`
	Type      string `msgpack:"ty,omitempty"`
	LiveQuery string `msgpack:"lq,omitempty"`
	SongQuery string `msgpack:"sq,omitempty"`
	Expanded  bool   `msgpack:"x,omitempty"`
	LiveID    string `msgpack:"lid,omitempty"`
}

// CompletionSuggestion - one autocomplete candidate
type CompletionSuggestion struct {
	Word string `msgpack:"w"`
	Rank uint16 `msgpack:"r"`
}

// CompletionResponse - autocomplete candidates; Nearest holds hints when there are none
type CompletionResponse struct {
	ID          string                 `msgpack:"id"`
	Suggestions []CompletionSuggestion `msgpack:"s"`
	Count       int                    `msgpack:"c"`
	Nearest     []string               `msgpack:"n,omitempty"`
	TimeTaken   int64                  `msgpack:"t"`
}

// LiveOption - an entry of the live picker
type LiveOption struct {
	ID    string `msgpack:"id"`
	Label string `msgpack:"label"`
}

// FilterResponse - the filtered view
type FilterResponse struct {
	ID    string       `msgpack:"id"`
	Year  string       `msgpack:"y"`
	Lives []LiveOption `msgpack:"lives"`
	Count int          `msgpack:"c"`
	Types []string     `msgpack:"types"`
}

// RankResponse - the visible part of the ranking
type RankResponse struct {
	ID        string       `msgpack:"id"`
	Ranking   []rank.Entry `msgpack:"r"`
	Count     int          `msgpack:"c"`
	Total     int          `msgpack:"total"`
	More      bool         `msgpack:"more"`
	TimeTaken int64        `msgpack:"t"`
}

// CountResponse - song-count matches
type CountResponse struct {
	ID      string         `msgpack:"id"`
	Label   string         `msgpack:"label"`
	Query   string         `msgpack:"q"`
	Matches []filter.Match `msgpack:"m"`
	Count   int            `msgpack:"c"`
}

// YearsResponse - the year index, newest first
type YearsResponse struct {
	ID    string         `msgpack:"id"`
	Years []setlist.Year `msgpack:"years"`
}

// LiveResponse - one live of the filtered view
type LiveResponse struct {
	ID   string            `msgpack:"id"`
	Live setlist.LiveEvent `msgpack:"live"`
}

// StatusResponse - readiness and health
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// CompletionError holds basic error information for any request
type CompletionError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
