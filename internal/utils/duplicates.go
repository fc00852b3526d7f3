package utils

// SeenFilter drops repeats of a key while letting the first occurrence through.
// Keys are produced by the supplied function, so callers decide what "same" means
// (normalized titles for the corpus, literal titles for extraction).
type SeenFilter struct {
	seen map[string]struct{}
	key  func(string) string
}

// NewSeenFilter creates a filter keyed by key. A nil key compares strings as-is.
func NewSeenFilter(key func(string) string) *SeenFilter {
	if key == nil {
		key = func(s string) string { return s }
	}
	return &SeenFilter{
		seen: make(map[string]struct{}),
		key:  key,
	}
}

// ShouldInclude reports whether s is new, remembering it if so.
// Strings whose key is empty are never included.
func (f *SeenFilter) ShouldInclude(s string) bool {
	k := f.key(s)
	if k == "" {
		return false
	}
	if _, dup := f.seen[k]; dup {
		return false
	}
	f.seen[k] = struct{}{}
	return true
}

// Len returns how many distinct keys were accepted.
func (f *SeenFilter) Len() int {
	return len(f.seen)
}
