// Package suggest is the autocomplete core: a title corpus with a prefix index, the
// candidate ranking policy, and the selection state a search box drives.
package suggest

// DefaultLimit caps a candidate list.
const DefaultLimit = 20

// Completer produces candidate lists for a query.
type Completer interface {
	// Complete returns up to limit titles containing query, prefix matches first,
	// each group in corpus order.
	Complete(query string, limit int) []string

	// Nearest returns up to n titles that look like query when nothing contains it.
	Nearest(query string, n int) []string

	// Len returns the corpus size.
	Len() int
}
