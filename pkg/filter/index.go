package filter

import (
	"strings"

	"github.com/RoaringBitmap/roaring"
	"github.com/bastiangx/setlistserve/pkg/normalize"
	"github.com/bastiangx/setlistserve/pkg/setlist"
	"github.com/charmbracelet/log"
)

// Index holds a loaded collection with its normalized fields precomputed and one
// bitmap of positions per live type. Each predicate of a query becomes a bitmap;
// the bitmaps are intersected and the survivors read back in position order, so
// results are always an order-preserving subsequence of the collection.
//
// An Index is read-only after construction and safe for concurrent use.
type Index struct {
	lives      []setlist.LiveEvent
	liveTitles []string
	songTitles [][]string
	byType     map[string]*roaring.Bitmap
	all        *roaring.Bitmap
}

// NewIndex indexes lives. The slice is retained, not copied.
func NewIndex(lives []setlist.LiveEvent) *Index {
	ix := &Index{
		lives:      lives,
		liveTitles: make([]string, len(lives)),
		songTitles: make([][]string, len(lives)),
		byType:     make(map[string]*roaring.Bitmap),
		all:        roaring.New(),
	}

	for i, l := range lives {
		pos := uint32(i)
		ix.all.Add(pos)
		ix.liveTitles[i] = normalize.Text(l.Title)

		songs := make([]string, 0, len(l.Setlist))
		for _, s := range l.Setlist {
			if !s.HasTitle() {
				continue
			}
			songs = append(songs, normalize.Text(s.Title))
		}
		ix.songTitles[i] = songs

		bm, ok := ix.byType[l.Type]
		if !ok {
			bm = roaring.New()
			ix.byType[l.Type] = bm
		}
		bm.Add(pos)
	}
	log.Debugf("Indexed %d lives across %d types", len(lives), len(ix.byType))
	return ix
}

// Len returns the number of indexed lives.
func (ix *Index) Len() int {
	return len(ix.lives)
}

// Lives returns the indexed collection.
func (ix *Index) Lives() []setlist.LiveEvent {
	return ix.lives
}

// Apply evaluates c against the collection. See the package-level Apply.
func (ix *Index) Apply(c Criteria) []setlist.LiveEvent {
	if c.Unset() {
		return ix.lives
	}

	result := ix.Positions(c)
	out := make([]setlist.LiveEvent, 0, result.GetCardinality())
	it := result.Iterator()
	for it.HasNext() {
		out = append(out, ix.lives[it.Next()])
	}
	return out
}

// Positions returns the bitmap of collection positions passing c.
func (ix *Index) Positions(c Criteria) *roaring.Bitmap {
	result := ix.all.Clone()

	if c.Type != "" {
		bm, ok := ix.byType[c.Type]
		if !ok {
			return roaring.New()
		}
		result.And(bm)
	}

	if q := normalize.Text(c.LiveTitleQuery); q != "" {
		result.And(ix.scan(result, func(pos int) bool {
			return strings.Contains(ix.liveTitles[pos], q)
		}))
	}

	if q := normalize.Text(c.SongTitleQuery); q != "" {
		result.And(ix.scan(result, func(pos int) bool {
			for _, s := range ix.songTitles[pos] {
				if strings.Contains(s, q) {
					return true
				}
			}
			return false
		}))
	}

	return result
}

// scan builds the bitmap of candidates that satisfy pred. Only positions still
// in candidates are tested.
func (ix *Index) scan(candidates *roaring.Bitmap, pred func(pos int) bool) *roaring.Bitmap {
	hits := roaring.New()
	it := candidates.Iterator()
	for it.HasNext() {
		pos := it.Next()
		if pred(int(pos)) {
			hits.Add(pos)
		}
	}
	return hits
}
