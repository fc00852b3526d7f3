package browser

import (
	"context"

	"github.com/bastiangx/setlistserve/pkg/filter"
	"github.com/bastiangx/setlistserve/pkg/normalize"
	"github.com/bastiangx/setlistserve/pkg/setlist"
)

// CountResult is the song-count view: every performance of songs matching
// Query within the selected years.
type CountResult struct {
	Label   string
	Query   string
	Matches []filter.Match
}

// Count reports how often songs matching query were played.
func (r CountResult) Count() int {
	return len(r.Matches)
}

// Empty reports whether nothing matched, as opposed to a failed load.
func (r CountResult) Empty() bool {
	return len(r.Matches) == 0
}

// Count loads sel and lists every setlist hit for query. It does not touch the
// controller's own selection. An empty query returns an empty result without
// loading anything.
func (c *Controller) Count(ctx context.Context, sel setlist.YearSelector, query string) (CountResult, error) {
	res := CountResult{Label: sel.Label(), Query: normalize.Text(query)}
	if res.Query == "" {
		return res, nil
	}

	lives, err := c.loader.Target(ctx, sel)
	if err != nil {
		return CountResult{}, err
	}
	res.Matches = filter.Matches(lives, query)
	return res, nil
}
