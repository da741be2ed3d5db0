// Package hashmap implements a generic separate-chaining hash map.
//
// Collisions are resolved by chaining: each bucket holds the entries
// whose hash lands on it, in insertion order. The map grows by doubling
// its bucket count whenever the load factor exceeds 0.75, rehashing
// every entry eagerly so lookups never see a stale layout. It never
// shrinks. Not safe for concurrent use.
package hashmap

import (
	"errors"
	"fmt"

	"github.com/TallyKit/tally/pkg/hasher"
)

const (
	// DefaultBucketCount is the initial bucket count when none is given.
	DefaultBucketCount = 16

	// LoadFactor is the occupancy threshold that triggers growth.
	LoadFactor = 0.75
)

// ErrInvalidCapacity is returned when a map is created with a
// non-positive bucket count.
var ErrInvalidCapacity = errors.New("bucket count must be at least 1")

// Entry is a key-value pair, used both for internal storage and for
// the snapshot returned by Entries.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// Map is a separate-chaining hash map from K to V.
type Map[K comparable, V any] struct {
	buckets  [][]Entry[K, V]
	hash     hasher.Hasher[K]
	count    int
	rehashes int
}

// New creates a map with the default bucket count. If h is nil the
// default hasher for K is used.
func New[K comparable, V any](h hasher.Hasher[K]) *Map[K, V] {
	m, _ := NewWithCapacity[K, V](h, DefaultBucketCount)
	return m
}

// NewWithCapacity creates a map with the given initial bucket count.
func NewWithCapacity[K comparable, V any](h hasher.Hasher[K], bucketCount int) (*Map[K, V], error) {
	if bucketCount < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, bucketCount)
	}
	if h == nil {
		h = hasher.ForKey[K]()
	}
	return &Map[K, V]{
		buckets: make([][]Entry[K, V], bucketCount),
		hash:    h,
	}, nil
}

// bucketIndex maps a key to its bucket under the current capacity.
func (m *Map[K, V]) bucketIndex(key K) int {
	return int(m.hash.Hash(key) % uint64(len(m.buckets)))
}

// Insert stores value under key. An existing key has its value
// overwritten in place and the element count is unchanged; otherwise
// the entry is appended to its bucket's chain. If the insertion pushes
// the load factor past the threshold the map doubles its bucket count
// and redistributes every entry before returning.
func (m *Map[K, V]) Insert(key K, value V) {
	idx := m.bucketIndex(key)
	for i := range m.buckets[idx] {
		if m.buckets[idx][i].Key == key {
			m.buckets[idx][i].Value = value
			return
		}
	}

	m.buckets[idx] = append(m.buckets[idx], Entry[K, V]{Key: key, Value: value})
	m.count++
	m.maybeGrow()
}

// Erase removes the entry with the given key. It reports whether an
// entry was removed. Erasing never shrinks the bucket array.
func (m *Map[K, V]) Erase(key K) bool {
	idx := m.bucketIndex(key)
	chain := m.buckets[idx]
	for i := range chain {
		if chain[i].Key == key {
			m.buckets[idx] = append(chain[:i], chain[i+1:]...)
			m.count--
			return true
		}
	}
	return false
}

// Find returns the value stored under key and whether it was present.
// Find never mutates the map.
func (m *Map[K, V]) Find(key K) (V, bool) {
	idx := m.bucketIndex(key)
	for i := range m.buckets[idx] {
		if m.buckets[idx][i].Key == key {
			return m.buckets[idx][i].Value, true
		}
	}
	var zero V
	return zero, false
}

// Ref returns a pointer to the value stored under key, inserting a
// zero value first if the key is absent. Absent-key insertion follows
// the same growth policy as Insert.
//
// The pointer is only valid until the next mutating call: growth
// rehashes every entry and chain appends may relocate the backing
// array.
func (m *Map[K, V]) Ref(key K) *V {
	idx := m.bucketIndex(key)
	for i := range m.buckets[idx] {
		if m.buckets[idx][i].Key == key {
			return &m.buckets[idx][i].Value
		}
	}

	var zero V
	m.buckets[idx] = append(m.buckets[idx], Entry[K, V]{Key: key, Value: zero})
	m.count++
	if m.maybeGrow() {
		// The new entry moved; find it under the new layout.
		idx = m.bucketIndex(key)
		for i := range m.buckets[idx] {
			if m.buckets[idx][i].Key == key {
				return &m.buckets[idx][i].Value
			}
		}
	}
	return &m.buckets[idx][len(m.buckets[idx])-1].Value
}

// Entries returns a snapshot of all key-value pairs in bucket-then-chain
// order. The order is unspecified and not stable across resizes;
// callers must not rely on it.
func (m *Map[K, V]) Entries() []Entry[K, V] {
	out := make([]Entry[K, V], 0, m.count)
	for _, chain := range m.buckets {
		out = append(out, chain...)
	}
	return out
}

// Len returns the number of stored entries.
func (m *Map[K, V]) Len() int {
	return m.count
}

// BucketCount returns the current bucket capacity.
func (m *Map[K, V]) BucketCount() int {
	return len(m.buckets)
}

// Rehashes returns how many times the map has grown.
func (m *Map[K, V]) Rehashes() int {
	return m.rehashes
}

// maybeGrow doubles the bucket count if the load factor threshold is
// exceeded, redistributing every entry under the new capacity. Reports
// whether a rehash happened.
func (m *Map[K, V]) maybeGrow() bool {
	if float64(m.count) <= float64(len(m.buckets))*LoadFactor {
		return false
	}

	newBuckets := make([][]Entry[K, V], len(m.buckets)*2)
	for _, chain := range m.buckets {
		for _, e := range chain {
			idx := int(m.hash.Hash(e.Key) % uint64(len(newBuckets)))
			newBuckets[idx] = append(newBuckets[idx], e)
		}
	}
	m.buckets = newBuckets
	m.rehashes++
	return true
}
