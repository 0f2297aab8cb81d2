package recurrence

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultCacheSize = 512

// Calculator resolves next dates against a fixed frequency table and
// memoizes results. Resolution is pure, so cached entries never go stale.
type Calculator struct {
	table FrequencyTable
	cache *lru.Cache[string, result]
}

type result struct {
	date Date
	ok   bool
}

// NewCalculator creates a Calculator. A non-positive size uses the default.
func NewCalculator(table FrequencyTable, size int) (*Calculator, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, result](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create next-date cache: %w", err)
	}
	if table == nil {
		table = FrequencyTable{}
	}
	return &Calculator{table: table, cache: cache}, nil
}

// Table returns the frequency table the calculator resolves against.
func (c *Calculator) Table() FrequencyTable {
	return c.table
}

// Next resolves the next date of rule after start; see Resolve.
func (c *Calculator) Next(start Date, rule Rule, occurrence int) (Date, bool) {
	key := cacheKey(start, rule, occurrence)
	if r, ok := c.cache.Get(key); ok {
		return r.date, r.ok
	}
	date, ok := Resolve(start, rule, c.table, occurrence)
	c.cache.Add(key, result{date: date, ok: ok})
	return date, ok
}

// Len reports the number of cached results.
func (c *Calculator) Len() int {
	return c.cache.Len()
}

func cacheKey(start Date, rule Rule, occurrence int) string {
	return fmt.Sprintf("%s|%d|%T%+v", start, occurrence, rule, rule)
}
