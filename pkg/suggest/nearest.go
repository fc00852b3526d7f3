package suggest

import (
	"sort"

	"github.com/bastiangx/setlistserve/pkg/normalize"
	"github.com/xrash/smetrics"
)

// minSimilarity is the score (0-100) a title needs to be offered as a hint.
const minSimilarity = 50

// Nearest returns up to n titles most similar to query by Wagner-Fischer edit
// distance, for "did you mean" hints when Complete finds nothing. Each title is
// scored against both its full form and its leading part as long as the query,
// keeping the better score. Ties keep corpus order.
func (c *Corpus) Nearest(query string, n int) []string {
	q := normalize.Text(query)
	if q == "" || n <= 0 {
		return nil
	}
	qLen := len([]rune(q))

	type scored struct {
		pos   int
		score int
	}
	var hits []scored
	for i, norm := range c.norms {
		score := similarity(q, norm)
		if head := leadingRunes(norm, qLen); head != norm {
			score = max(score, similarity(q, head))
		}
		if score >= minSimilarity {
			hits = append(hits, scored{pos: i, score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})
	if len(hits) > n {
		hits = hits[:n]
	}

	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = c.titles[h.pos]
	}
	return out
}

func similarity(a, b string) int {
	maxLen := max(len(a), len(b))
	if maxLen == 0 {
		return 100
	}
	distance := smetrics.WagnerFischer(a, b, 1, 1, 2)
	return 100 - (distance * 100 / maxLen)
}

func leadingRunes(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}
