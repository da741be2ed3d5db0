// Package dheap implements a generic d-ary max-heap.
//
// The heap stores key-value entries in a single slice, ordered by key.
// The branching factor d is fixed per instance; d=2 gives the classic
// binary heap. Sift operations are iterative, so depth never translates
// into stack growth, and the degenerate d=1 chain still terminates. Not
// safe for concurrent use.
package dheap

import (
	"cmp"
	"errors"
	"fmt"
)

// DefaultArity is the branching factor used by NewBinary.
const DefaultArity = 2

var (
	// ErrEmptyHeap is returned when Max or ExtractMax is called on an
	// empty heap.
	ErrEmptyHeap = errors.New("heap is empty")

	// ErrInvalidArity is returned when a heap is created with d < 1.
	ErrInvalidArity = errors.New("arity must be at least 1")
)

// Entry is a keyed element; the heap orders by Key only.
type Entry[K cmp.Ordered, V any] struct {
	Key   K
	Value V
}

// Heap is a d-ary max-heap of entries.
type Heap[K cmp.Ordered, V any] struct {
	slots []Entry[K, V]
	d     int
}

// New creates an empty heap with branching factor d.
func New[K cmp.Ordered, V any](d int) (*Heap[K, V], error) {
	if d < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidArity, d)
	}
	return &Heap[K, V]{d: d}, nil
}

// NewBinary creates an empty binary heap (d=2).
func NewBinary[K cmp.Ordered, V any]() *Heap[K, V] {
	h, _ := New[K, V](DefaultArity)
	return h
}

// Len returns the number of stored entries.
func (h *Heap[K, V]) Len() int {
	return len(h.slots)
}

// Arity returns the branching factor.
func (h *Heap[K, V]) Arity() int {
	return h.d
}

// Insert adds an entry and restores the heap property by sifting it
// toward the root. O(log_d n).
func (h *Heap[K, V]) Insert(e Entry[K, V]) {
	h.slots = append(h.slots, e)
	h.siftUp(len(h.slots) - 1)
}

// Max returns a copy of the root entry without removing it.
func (h *Heap[K, V]) Max() (Entry[K, V], error) {
	if len(h.slots) == 0 {
		return Entry[K, V]{}, ErrEmptyHeap
	}
	return h.slots[0], nil
}

// ExtractMax removes and returns the root entry. The last slot moves
// to the root and sifts down until no child outranks it.
func (h *Heap[K, V]) ExtractMax() (Entry[K, V], error) {
	if len(h.slots) == 0 {
		return Entry[K, V]{}, ErrEmptyHeap
	}

	root := h.slots[0]
	last := len(h.slots) - 1
	h.slots[0] = h.slots[last]
	h.slots = h.slots[:last]
	if len(h.slots) > 0 {
		siftDown(h.slots, 0, len(h.slots), h.d)
	}
	return root, nil
}

// Build replaces the heap's contents with a copy of entries and
// re-establishes the heap property bottom-up, sifting down every node
// from the last non-leaf index to the root. O(n).
func (h *Heap[K, V]) Build(entries []Entry[K, V]) {
	h.slots = make([]Entry[K, V], len(entries))
	copy(h.slots, entries)
	heapify(h.slots, h.d)
}

// Slots returns a copy of the raw internal layout. Useful for dumping
// the array representation; the order is heap order, not sorted order.
func (h *Heap[K, V]) Slots() []Entry[K, V] {
	out := make([]Entry[K, V], len(h.slots))
	copy(out, h.slots)
	return out
}

// Sort heap-sorts a copy of the current slots and returns the values in
// non-decreasing key order. The live heap is left untouched, so Sort
// can be called on a heap that is still in use as a priority queue.
func (h *Heap[K, V]) Sort() []V {
	sorted := h.SortEntries()
	values := make([]V, len(sorted))
	for i, e := range sorted {
		values[i] = e.Value
	}
	return values
}

// SortEntries is Sort retaining the full entries rather than just the
// values.
func (h *Heap[K, V]) SortEntries() []Entry[K, V] {
	arr := make([]Entry[K, V], len(h.slots))
	copy(arr, h.slots)

	heapify(arr, h.d)
	// Swap the max to the end of the unsorted prefix and re-sift;
	// ascending order accumulates right to left.
	for i := len(arr) - 1; i > 0; i-- {
		arr[0], arr[i] = arr[i], arr[0]
		siftDown(arr, 0, i, h.d)
	}
	return arr
}

// siftUp moves the entry at i toward the root until its parent's key
// is at least its own.
func (h *Heap[K, V]) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / h.d
		if h.slots[i].Key <= h.slots[parent].Key {
			return
		}
		h.slots[i], h.slots[parent] = h.slots[parent], h.slots[i]
		i = parent
	}
}

// heapify establishes the max-heap property over the whole slice.
func heapify[K cmp.Ordered, V any](arr []Entry[K, V], d int) {
	if len(arr) == 0 {
		return
	}
	for i := (len(arr) - 1) / d; i >= 0; i-- {
		siftDown(arr, i, len(arr), d)
	}
}

// siftDown moves the entry at i toward the leaves within arr[:size].
// All d children are examined; ties between equal keys keep the lowest
// index, since only a strictly greater child displaces the current
// candidate.
func siftDown[K cmp.Ordered, V any](arr []Entry[K, V], i, size, d int) {
	for {
		largest := i
		for j := 1; j <= d; j++ {
			child := d*i + j
			if child >= size {
				break
			}
			if arr[child].Key > arr[largest].Key {
				largest = child
			}
		}
		if largest == i {
			return
		}
		arr[i], arr[largest] = arr[largest], arr[i]
		i = largest
	}
}
