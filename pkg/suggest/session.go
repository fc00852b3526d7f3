package suggest

import "github.com/bastiangx/setlistserve/pkg/normalize"

// Direction moves the selection cursor.
type Direction int

const (
	Up Direction = iota
	Down
)

// Session is the state behind one search box: the current query, its candidate
// list and the selection cursor. Active is -1 when nothing is selected.
//
// A Session is not safe for concurrent use; it belongs to a single input.
type Session struct {
	completer  Completer
	limit      int
	hints      int
	query      string
	candidates []string
	nearest    []string
	active     int
	open       bool
}

// NewSession binds a session to a completer. limit <= 0 means DefaultLimit;
// hints is the number of "did you mean" titles offered when nothing matches.
func NewSession(c Completer, limit, hints int) *Session {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Session{
		completer: c,
		limit:     limit,
		hints:     hints,
		active:    -1,
	}
}

// UpdateQuery recomputes the candidate list for text and clears the selection.
// A query that normalizes to nothing closes the list.
func (s *Session) UpdateQuery(text string) []string {
	s.query = text
	s.active = -1
	s.nearest = nil

	if normalize.Text(text) == "" {
		s.close()
		return nil
	}

	s.candidates = s.completer.Complete(text, s.limit)
	s.open = true
	if len(s.candidates) == 0 && s.hints > 0 {
		s.nearest = s.completer.Nearest(text, s.hints)
	}
	return s.Candidates()
}

// MoveSelection moves the cursor, clamped to the list without wrapping.
// Down from no selection picks the first candidate. It does nothing while the
// list is closed or empty.
func (s *Session) MoveSelection(d Direction) {
	if !s.open || len(s.candidates) == 0 {
		return
	}
	switch d {
	case Down:
		s.active = min(s.active+1, len(s.candidates)-1)
	case Up:
		s.active = max(s.active-1, 0)
	}
}

// Commit returns the selected candidate and closes the list. With no selection
// it returns false and leaves the state alone; the caller falls back to a plain
// search on the typed query.
func (s *Session) Commit() (string, bool) {
	if s.active < 0 || s.active >= len(s.candidates) {
		return "", false
	}
	picked := s.candidates[s.active]
	s.query = picked
	s.close()
	return picked, true
}

// Dismiss closes the list without committing (escape, or a click elsewhere).
func (s *Session) Dismiss() {
	s.close()
}

// Open reports whether the list is showing, possibly with no candidates.
func (s *Session) Open() bool {
	return s.open
}

// Query returns the current input text.
func (s *Session) Query() string {
	return s.query
}

// Active returns the selection cursor, -1 for none.
func (s *Session) Active() int {
	return s.active
}

// Candidates returns a copy of the current list.
func (s *Session) Candidates() []string {
	return clone(s.candidates)
}

// Nearest returns the hints computed for an empty candidate list.
func (s *Session) Nearest() []string {
	return clone(s.nearest)
}

func (s *Session) close() {
	s.open = false
	s.candidates = nil
	s.nearest = nil
	s.active = -1
}
