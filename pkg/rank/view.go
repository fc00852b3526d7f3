package rank

// View is progressive disclosure over one computed ranking. Toggling between the
// initial and expanded cap only changes the slice bound; the ranking itself is
// never re-sorted or recomputed.
type View struct {
	entries  []Entry
	initial  int
	expanded int
	open     bool
}

// NewView wraps entries with the given caps. Non-positive caps fall back to
// InitialCap and ExpandedCap, and expanded is never below initial.
func NewView(entries []Entry, initial, expanded int) *View {
	if initial <= 0 {
		initial = InitialCap
	}
	if expanded <= 0 {
		expanded = ExpandedCap
	}
	expanded = max(expanded, initial)
	return &View{entries: entries, initial: initial, expanded: expanded}
}

// Visible returns the entries shown under the current cap.
func (v *View) Visible() []Entry {
	limit := v.initial
	if v.open {
		limit = v.expanded
	}
	if len(v.entries) <= limit {
		return v.entries
	}
	return v.entries[:limit]
}

// Expanded reports whether the larger cap is active.
func (v *View) Expanded() bool {
	return v.open
}

// SetExpanded picks the cap.
func (v *View) SetExpanded(open bool) {
	v.open = open
}

// Toggle flips between the caps and reports the new state.
func (v *View) Toggle() bool {
	v.open = !v.open
	return v.open
}

// HasMore reports whether expanding would show additional entries.
func (v *View) HasMore() bool {
	return !v.open && len(v.entries) > v.initial
}

// ExpandedLen returns how many entries the expanded cap shows.
func (v *View) ExpandedLen() int {
	return min(len(v.entries), v.expanded)
}

// Len returns the size of the full ranking.
func (v *View) Len() int {
	return len(v.entries)
}

// All returns the full ranking.
func (v *View) All() []Entry {
	return v.entries
}
