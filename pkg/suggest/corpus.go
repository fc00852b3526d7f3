package suggest

import (
	"strings"

	"github.com/bastiangx/setlistserve/pkg/normalize"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

const defaultCacheEntries = 256

// Corpus is an immutable list of song titles indexed for autocomplete.
// It is safe for concurrent use.
type Corpus struct {
	titles []string
	norms  []string
	trie   *patricia.Trie
	cache  *ResultCache
}

// CorpusOption configures a Corpus.
type CorpusOption func(*Corpus)

// WithCache sets the result cache size; 0 disables caching.
func WithCache(entries int) CorpusOption {
	return func(c *Corpus) {
		if entries <= 0 {
			c.cache = nil
			return
		}
		c.cache = NewResultCache(entries)
	}
}

// NewCorpus indexes titles in the given order. Titles that normalize to
// nothing are skipped.
func NewCorpus(titles []string, opts ...CorpusOption) *Corpus {
	c := &Corpus{
		titles: make([]string, 0, len(titles)),
		norms:  make([]string, 0, len(titles)),
		trie:   patricia.NewTrie(),
		cache:  NewResultCache(defaultCacheEntries),
	}
	for _, opt := range opts {
		opt(c)
	}

	for _, t := range titles {
		key := normalize.Text(t)
		if key == "" {
			continue
		}
		indexTitle(c.trie, key, len(c.titles))
		c.titles = append(c.titles, t)
		c.norms = append(c.norms, key)
	}
	log.Debugf("Indexed corpus: %d titles", len(c.titles))
	return c
}

// Len returns the number of indexed titles.
func (c *Corpus) Len() int {
	return len(c.titles)
}

// Titles returns the indexed titles in corpus order.
func (c *Corpus) Titles() []string {
	out := make([]string, len(c.titles))
	copy(out, c.titles)
	return out
}

// Complete ranks titles against query: titles whose normalized form starts with
// the normalized query come first, then titles that merely contain it, each
// group in corpus order, truncated to limit. limit <= 0 means DefaultLimit.
// An empty query yields nil.
func (c *Corpus) Complete(query string, limit int) []string {
	q := normalize.Text(query)
	if q == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if res, ok := c.cache.get(q, limit); ok {
		return clone(res)
	}

	positions := prefixPositions(c.trie, q)
	if len(positions) > limit {
		positions = positions[:limit]
	}

	candidates := make([]string, 0, limit)
	for _, pos := range positions {
		candidates = append(candidates, c.titles[pos])
	}

	if len(candidates) < limit {
		for i, norm := range c.norms {
			if strings.HasPrefix(norm, q) || !strings.Contains(norm, q) {
				continue
			}
			candidates = append(candidates, c.titles[i])
			if len(candidates) >= limit {
				break
			}
		}
	}

	c.cache.put(q, limit, candidates)
	return clone(candidates)
}

// Stats reports corpus and cache figures.
func (c *Corpus) Stats() map[string]int {
	stats := map[string]int{
		"totalTitles": len(c.titles),
	}
	if c.cache != nil {
		for k, v := range c.cache.Stats() {
			stats[k] = v
		}
	}
	return stats
}

func clone(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
