// Package tally provides the explicit accumulator types the analysis is built
// from: typed counters that are inserted on first observation and merged by
// key-wise summation.
package tally

import (
	"cmp"
	"slices"
)

// Counter counts observations per key. The zero value is not usable; build one
// with NewCounter. Keys only exist once they have been observed.
type Counter[K cmp.Ordered] map[K]int

// NewCounter returns an empty counter.
func NewCounter[K cmp.Ordered]() Counter[K] { return make(Counter[K]) }

// Inc adds one observation of k.
func (c Counter[K]) Inc(k K) { c[k]++ }

// Add adds n observations of k. Non-positive n is ignored so that no key is
// materialized without an observation.
func (c Counter[K]) Add(k K, n int) {
	if n > 0 {
		c[k] += n
	}
}

// Merge folds other into c.
func (c Counter[K]) Merge(other Counter[K]) {
	for k, n := range other {
		c.Add(k, n)
	}
}

// Total returns the sum over all keys.
func (c Counter[K]) Total() int {
	t := 0
	for _, n := range c {
		t += n
	}
	return t
}

// Keys returns the observed keys in ascending order.
func (c Counter[K]) Keys() []K {
	keys := make([]K, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// MostCommon returns the key with the highest count, ties going to the
// smallest key. ok is false on an empty counter.
func (c Counter[K]) MostCommon() (key K, count int, ok bool) {
	for _, k := range c.Keys() {
		if n := c[k]; !ok || n > count {
			key, count, ok = k, n, true
		}
	}
	return key, count, ok
}

// Clone returns an independent copy.
func (c Counter[K]) Clone() Counter[K] {
	out := make(Counter[K], len(c))
	for k, n := range c {
		out[k] = n
	}
	return out
}

// Percent returns num/den*100, or 0 when den is zero.
func Percent(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den * 100
}

// Ratio returns num/den, or 0 when den is zero.
func Ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
