package suggest

import (
	"sort"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// indexTitle records corpus position pos under its normalized key. Keys that
// normalize identically share one node holding every position.
func indexTitle(trie *patricia.Trie, key string, pos int) {
	p := patricia.Prefix(key)
	if item := trie.Get(p); item != nil {
		trie.Set(p, append(item.([]int), pos))
		return
	}
	trie.Insert(p, []int{pos})
}

// prefixPositions returns the corpus positions of every key starting with
// normalized query, ascending.
func prefixPositions(trie *patricia.Trie, query string) []int {
	if trie == nil {
		return nil
	}

	var positions []int
	err := trie.VisitSubtree(patricia.Prefix(query), func(p patricia.Prefix, item patricia.Item) error {
		positions = append(positions, item.([]int)...)
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting trie subtree: %v", err)
		return nil
	}

	sort.Ints(positions)
	return positions
}
