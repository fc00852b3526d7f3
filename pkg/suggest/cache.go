package suggest

import (
	"sync"

	"github.com/charmbracelet/log"
)

type cacheKey struct {
	query string
	limit int
}

// ResultCache memoizes candidate lists of recent queries. Corpora are immutable,
// so an entry never goes stale; the oldest entry is evicted once full.
type ResultCache struct {
	entries     map[cacheKey][]string
	accessTime  map[cacheKey]int64
	accessCount int64
	hits        int64
	maxEntries  int
	mu          sync.Mutex
}

// NewResultCache returns a cache holding up to maxEntries lists.
func NewResultCache(maxEntries int) *ResultCache {
	return &ResultCache{
		entries:    make(map[cacheKey][]string, maxEntries),
		accessTime: make(map[cacheKey]int64, maxEntries),
		maxEntries: maxEntries,
	}
}

func (rc *ResultCache) get(query string, limit int) ([]string, bool) {
	if rc == nil {
		return nil, false
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()

	k := cacheKey{query, limit}
	res, ok := rc.entries[k]
	if ok {
		rc.hits++
		rc.accessTime[k] = rc.nextAccessTime()
	}
	return res, ok
}

func (rc *ResultCache) put(query string, limit int, res []string) {
	if rc == nil || rc.maxEntries <= 0 {
		return
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()

	k := cacheKey{query, limit}
	if _, ok := rc.entries[k]; !ok && len(rc.entries) >= rc.maxEntries {
		rc.evictLRU()
	}
	rc.entries[k] = res
	rc.accessTime[k] = rc.nextAccessTime()
}

// Stats reports cache occupancy and hits.
func (rc *ResultCache) Stats() map[string]int {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	return map[string]int{
		"cachedQueries": len(rc.entries),
		"maxQueries":    rc.maxEntries,
		"cacheHits":     int(rc.hits),
	}
}

func (rc *ResultCache) nextAccessTime() int64 {
	rc.accessCount++
	return rc.accessCount
}

func (rc *ResultCache) evictLRU() {
	var oldest cacheKey
	var oldestTime int64 = 9223372036854775807
	found := false

	for k, t := range rc.accessTime {
		if t < oldestTime {
			oldestTime = t
			oldest = k
			found = true
		}
	}

	if found {
		delete(rc.entries, oldest)
		delete(rc.accessTime, oldest)
		log.Debugf("Evicted query '%s' from result cache", oldest.query)
	}
}
