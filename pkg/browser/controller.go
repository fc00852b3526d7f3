/*
Package browser owns the state of one archive view: the selected year, the live
collection loaded for it, the filter criteria and the ranking derived from them.

Everything a view needs flows through a Controller. Filter and ranking code stays
pure and receives the loaded collection explicitly on every recomputation.

Year loads are the only blocking step. Each call to SelectYear takes a new
generation number before fetching; a load that completes after a newer one has
started is discarded with ErrStale and never touches the state.
*/
package browser

import (
	"context"
	"errors"
	"sync"

	"github.com/bastiangx/setlistserve/pkg/filter"
	"github.com/bastiangx/setlistserve/pkg/rank"
	"github.com/bastiangx/setlistserve/pkg/setlist"
	"github.com/charmbracelet/log"
)

// ErrStale reports a year load superseded by a newer selection.
var ErrStale = errors.New("stale load discarded")

// ErrNoYears reports an index listing no years.
var ErrNoYears = errors.New("year index is empty")

// Loader fetches the year index and the lives of a selection.
type Loader interface {
	Years(ctx context.Context) (setlist.YearIndex, error)
	Target(ctx context.Context, sel setlist.YearSelector) ([]setlist.LiveEvent, error)
}

// Controller is safe for concurrent use; a year load runs without holding the
// state lock.
type Controller struct {
	mu       sync.Mutex
	loader   Loader
	years    []setlist.Year
	gen      uint64
	criteria filter.Criteria
	index    *filter.Index
	filtered []setlist.LiveEvent
	ranking  *rank.View
	initial  int
	expanded int
}

// Option configures a Controller.
type Option func(*Controller)

// WithRankingCaps sets the initial and expanded ranking caps.
func WithRankingCaps(initial, expanded int) Option {
	return func(c *Controller) {
		c.initial = initial
		c.expanded = expanded
	}
}

// New creates a controller with an empty collection. Call Init before use.
func New(loader Loader, opts ...Option) *Controller {
	c := &Controller{
		loader:   loader,
		index:    filter.NewIndex(nil),
		initial:  rank.InitialCap,
		expanded: rank.ExpandedCap,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Init loads the year index, newest first, and selects preferred. A zero
// selector picks the latest year.
func (c *Controller) Init(ctx context.Context, preferred setlist.YearSelector) error {
	idx, err := c.loader.Years(ctx)
	if err != nil {
		return err
	}
	latest, ok := idx.Latest()
	if !ok {
		return ErrNoYears
	}

	c.mu.Lock()
	c.years = setlist.SortYearsDesc(idx.Years)
	c.mu.Unlock()

	sel := preferred
	if sel.IsZero() || (!sel.IsAll() && !idx.Contains(sel.Year())) {
		if !sel.IsZero() {
			log.Warnf("Year %s not in index, using %s", sel, latest)
		}
		sel = setlist.ForYear(latest)
	}
	return c.SelectYear(ctx, sel)
}

// Years returns the indexed years, newest first.
func (c *Controller) Years() []setlist.Year {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]setlist.Year, len(c.years))
	copy(out, c.years)
	return out
}

// SelectYear loads sel and makes it the current collection. Text queries carry
// over; the type filter is kept only if the new collection still offers it.
// On a fetch error the previous state stays in place.
func (c *Controller) SelectYear(ctx context.Context, sel setlist.YearSelector) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	lives, err := c.loader.Target(ctx, sel)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		log.Debugf("Discarding load of %s (generation %d, current %d)", sel, gen, c.gen)
		return ErrStale
	}
	if err != nil {
		return err
	}

	c.index = filter.NewIndex(lives)
	c.criteria.Year = sel
	if c.criteria.Type != "" && !contains(filter.Types(lives), c.criteria.Type) {
		log.Debugf("Type %q not offered by %s, clearing", c.criteria.Type, sel)
		c.criteria.Type = ""
	}
	c.refresh()
	log.Debugf("Selected %s: %d lives", sel, len(lives))
	return nil
}

// Reset returns to the latest year with every criterion cleared.
func (c *Controller) Reset(ctx context.Context) error {
	c.mu.Lock()
	c.criteria = filter.Criteria{Year: c.criteria.Year}
	var sel setlist.YearSelector
	if len(c.years) > 0 {
		sel = setlist.ForYear(c.years[0])
	}
	c.refresh()
	c.mu.Unlock()

	if sel.IsZero() {
		return ErrNoYears
	}
	return c.SelectYear(ctx, sel)
}

// SetType sets the exact type filter; "" clears it.
func (c *Controller) SetType(t string) {
	c.update(func(cr *filter.Criteria) { cr.Type = t })
}

// SetLiveQuery sets the live title substring filter.
func (c *Controller) SetLiveQuery(q string) {
	c.update(func(cr *filter.Criteria) { cr.LiveTitleQuery = q })
}

// SetSongQuery sets the song title substring filter.
func (c *Controller) SetSongQuery(q string) {
	c.update(func(cr *filter.Criteria) { cr.SongTitleQuery = q })
}

// SetCriteria replaces the type and query filters at once. The year is not
// touched; use SelectYear for that.
func (c *Controller) SetCriteria(cr filter.Criteria) {
	c.update(func(cur *filter.Criteria) {
		cr.Year = cur.Year
		*cur = cr
	})
}

// Criteria returns the current filter state.
func (c *Controller) Criteria() filter.Criteria {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.criteria
}

// Lives returns the loaded, unfiltered collection.
func (c *Controller) Lives() []setlist.LiveEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index.Lives()
}

// Filtered returns the loaded collection narrowed by the criteria.
func (c *Controller) Filtered() []setlist.LiveEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filtered
}

// Types returns the type options of the loaded collection.
func (c *Controller) Types() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return filter.Types(c.index.Lives())
}

// Ranking returns the ranking view of the filtered collection. The view is
// rebuilt only when the collection or criteria change, so its expansion state
// survives repeated calls.
func (c *Controller) Ranking() *rank.View {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ranking == nil {
		c.ranking = rank.NewView(rank.Rank(c.filtered), c.initial, c.expanded)
	}
	return c.ranking
}

// Live returns a live of the filtered collection by id.
func (c *Controller) Live(id string) (setlist.LiveEvent, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return setlist.FindByID(c.filtered, id)
}

func (c *Controller) update(fn func(*filter.Criteria)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.criteria)
	c.refresh()
}

// refresh recomputes derived state; callers hold mu.
func (c *Controller) refresh() {
	c.filtered = c.index.Apply(c.criteria)
	c.ranking = nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
