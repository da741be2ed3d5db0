// Package freqsort composes the hash map and the d-ary heap into the
// frequency-sort pipeline: count occurrences, invert the (value,
// frequency) pairs so frequency becomes the heap key, then heap-sort
// ascending.
package freqsort

import (
	"fmt"

	"github.com/TallyKit/tally/pkg/common/log"
	"github.com/TallyKit/tally/pkg/dheap"
	"github.com/TallyKit/tally/pkg/hashmap"
	"github.com/TallyKit/tally/pkg/stats"
)

// Options configures a pipeline run. The zero value selects a binary
// heap, the default bucket count, and no instrumentation.
type Options struct {
	// Arity is the heap branching factor; 0 means binary.
	Arity int

	// InitialBuckets sizes the frequency map; 0 means the map default.
	InitialBuckets int

	// Stats receives operation counts when non-nil.
	Stats stats.Collector

	// Logger receives debug output when non-nil.
	Logger log.Logger
}

func (o Options) arity() int {
	if o.Arity == 0 {
		return dheap.DefaultArity
	}
	return o.Arity
}

func (o Options) buckets() int {
	if o.InitialBuckets == 0 {
		return hashmap.DefaultBucketCount
	}
	return o.InitialBuckets
}

// Counter tallies occurrences of values in a hash map.
type Counter[T comparable] struct {
	m         *hashmap.Map[T, int]
	total     int
	collector stats.Collector
}

// NewCounter creates a counter with the given initial bucket count.
func NewCounter[T comparable](initialBuckets int, collector stats.Collector) (*Counter[T], error) {
	m, err := hashmap.NewWithCapacity[T, int](nil, initialBuckets)
	if err != nil {
		return nil, fmt.Errorf("creating frequency map: %w", err)
	}
	return &Counter[T]{m: m, collector: collector}, nil
}

// Observe counts one occurrence of v.
func (c *Counter[T]) Observe(v T) {
	before := c.m.Rehashes()
	*c.m.Ref(v)++
	c.total++

	if c.collector != nil {
		c.collector.TrackOperation(stats.OpInsert)
		c.collector.TrackValues(1)
		for grown := c.m.Rehashes() - before; grown > 0; grown-- {
			c.collector.TrackRehash()
		}
	}
}

// ObserveAll counts every value in vs.
func (c *Counter[T]) ObserveAll(vs []T) {
	for _, v := range vs {
		c.Observe(v)
	}
}

// Counts returns the (value, frequency) snapshot in the map's
// bucket-then-chain order. The order is unspecified but repeats
// exactly for the same observation sequence, which is what makes
// tie-break order reproducible downstream.
func (c *Counter[T]) Counts() []hashmap.Entry[T, int] {
	if c.collector != nil {
		c.collector.TrackOperation(stats.OpEntries)
	}
	return c.m.Entries()
}

// Total returns the number of observed values including duplicates.
func (c *Counter[T]) Total() int {
	return c.total
}

// Distinct returns the number of distinct observed values.
func (c *Counter[T]) Distinct() int {
	return c.m.Len()
}

// SortByFrequency counts the occurrences of each value and returns the
// distinct values ordered by ascending frequency. Values with equal
// frequency come out in an unspecified order that is stable across
// runs for identical input.
func SortByFrequency[T comparable](values []T, opts Options) ([]T, error) {
	counter, err := NewCounter[T](opts.buckets(), opts.Stats)
	if err != nil {
		return nil, err
	}
	counter.ObserveAll(values)

	return sortCounts(counter, opts)
}

// sortCounts runs the heap half of the pipeline over a counter's state.
func sortCounts[T comparable](counter *Counter[T], opts Options) ([]T, error) {
	entries := counter.Counts()

	// Invert each (value, frequency) pair so frequency drives the heap.
	pairs := make([]dheap.Entry[int, T], len(entries))
	for i, e := range entries {
		pairs[i] = dheap.Entry[int, T]{Key: e.Value, Value: e.Key}
	}

	h, err := dheap.New[int, T](opts.arity())
	if err != nil {
		return nil, fmt.Errorf("creating heap: %w", err)
	}
	h.Build(pairs)

	if opts.Stats != nil {
		opts.Stats.TrackOperation(stats.OpBuild)
		opts.Stats.TrackOperation(stats.OpSort)
		opts.Stats.TrackOperation(stats.OpPipeline)
	}
	if opts.Logger != nil {
		opts.Logger.Debug("frequency sort: %d values, %d distinct, arity %d",
			counter.Total(), counter.Distinct(), opts.arity())
	}

	return h.Sort(), nil
}

// Sorted finishes a pipeline over values already observed by counter.
// Useful when the caller streams values in rather than holding a slice.
func Sorted[T comparable](counter *Counter[T], opts Options) ([]T, error) {
	return sortCounts(counter, opts)
}
