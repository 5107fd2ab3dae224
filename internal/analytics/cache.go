package analytics

import (
	"fmt"
	"sync"

	cache "github.com/hashicorp/golang-lru"

	"github.com/elchristog/marketing-funnels-gestor/internal/domain"
)

// Query kinds, also used as the metrics "kind" attribute.
const (
	KindFunnel = "funnel"
	KindWeekly = "weekly"
	KindRollup = "rollup"
)

// resultCache memoizes query results keyed on their serializable
// parameters. A nil *resultCache caches nothing.
//
// Every purge starts a new generation. A result is only stored under the
// generation it was read in, so a read that overlaps a write never caches
// pre-write totals.
type resultCache struct {
	lru *cache.Cache

	mu  sync.Mutex
	gen uint64
}

func newResultCache(size int) (*resultCache, error) {
	if size <= 0 {
		return nil, nil
	}
	c, err := cache.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create query cache: %w", err)
	}
	return &resultCache{lru: c}, nil
}

func cacheKey(kind string, r domain.DateRange) string {
	return kind + "|" + r.CacheKey()
}

func (c *resultCache) get(key string) (interface{}, bool) {
	if c == nil {
		return nil, false
	}
	return c.lru.Get(key)
}

// generation returns the token to pass to add for a read starting now.
func (c *resultCache) generation() uint64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// add stores value unless the cache was purged since gen was taken.
func (c *resultCache) add(key string, value interface{}, gen uint64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.lru.Add(key, value)
}

func (c *resultCache) purge() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.lru.Purge()
}

func (c *resultCache) len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}

func cloneRate(rate *float64) *float64 {
	if rate == nil {
		return nil
	}
	v := *rate
	return &v
}

func cloneFunnel(rows []domain.FunnelRow) []domain.FunnelRow {
	out := append([]domain.FunnelRow(nil), rows...)
	for i := range out {
		out[i].ConversionRate = cloneRate(out[i].ConversionRate)
	}
	return out
}

func cloneWeekly(rows []domain.WeeklyFunnelRow) []domain.WeeklyFunnelRow {
	out := append([]domain.WeeklyFunnelRow(nil), rows...)
	for i := range out {
		out[i].ConversionRate = cloneRate(out[i].ConversionRate)
	}
	return out
}

func cloneRollup(rows []domain.WeeklyStepTotal) []domain.WeeklyStepTotal {
	out := append([]domain.WeeklyStepTotal(nil), rows...)
	for i := range out {
		out[i].ConversionRate = cloneRate(out[i].ConversionRate)
	}
	return out
}
