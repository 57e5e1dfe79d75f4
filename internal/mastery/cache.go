package mastery

import (
	"container/list"
	"fmt"
	"strings"
	"sync"
)

// DefaultCacheSize bounds the memoisation cache.
const DefaultCacheSize = 200

// Calculator wraps Calculate with a bounded LRU memoisation cache. The cache
// is transparent: identical inputs yield identical results with or without it.
// Safe for concurrent use.
type Calculator struct {
	mu    sync.Mutex
	max   int
	order *list.List
	index map[string]*list.Element
}

type cacheEntry struct {
	key    string
	result Result
}

// NewCalculator returns a Calculator with the default cache bound.
func NewCalculator() *Calculator {
	return NewCalculatorSize(DefaultCacheSize)
}

// NewCalculatorSize returns a Calculator holding at most max results.
func NewCalculatorSize(max int) *Calculator {
	if max < 1 {
		max = 1
	}
	return &Calculator{
		max:   max,
		order: list.New(),
		index: make(map[string]*list.Element),
	}
}

// Calculate returns the memoised result for in, computing it on a miss and
// evicting the least recently used entry once the cache is full.
func (c *Calculator) Calculate(in Input) Result {
	key := cacheKey(in)

	c.mu.Lock()
	if el, ok := c.index[key]; ok {
		c.order.MoveToFront(el)
		r := el.Value.(*cacheEntry).result
		c.mu.Unlock()
		return r
	}
	c.mu.Unlock()

	result := Calculate(in)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.index[key]; !ok {
		c.index[key] = c.order.PushFront(&cacheEntry{key: key, result: result})
		if c.order.Len() > c.max {
			oldest := c.order.Back()
			c.order.Remove(oldest)
			delete(c.index, oldest.Value.(*cacheEntry).key)
		}
	}
	return result
}

// Len returns the number of cached results.
func (c *Calculator) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// cacheKey derives the memoisation key from skill identity, timestamps, and
// the per-attempt tuples that feed the factors.
func cacheKey(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s|%s|%d|%d", in.SkillID, in.Grade, in.Difficulty,
		in.LastPracticed.UnixMilli(), in.Now.UnixMilli())
	for _, a := range in.Attempts {
		fmt.Fprintf(&b, "|%t:%g:%d", a.Correct, a.TimeSpentSeconds, a.HintsUsed)
	}
	return b.String()
}
