// Package errlog provides bounded in-memory error recording. Entries live in
// a fixed-capacity ring; nothing here is persisted beyond process lifetime.
package errlog

import "sync"

// Ring is a thread-safe, fixed-capacity buffer that overwrites the oldest
// entry when full. Capacity is fixed at construction; the buffer never grows.
type Ring[T any] struct {
	mu       sync.RWMutex
	data     []T
	capacity int
	size     int
	head     int // index where the next element is written
	tail     int // index of the oldest element
}

// NewRing creates a Ring with the given capacity.
// Panics if capacity is less than 1.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		panic("errlog: ring capacity must be at least 1")
	}
	return &Ring[T]{
		data:     make([]T, capacity),
		capacity: capacity,
	}
}

// Push adds an element, silently evicting the oldest when full.
func (r *Ring[T]) Push(item T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data[r.head] = item
	r.head = (r.head + 1) % r.capacity

	if r.size < r.capacity {
		r.size++
	} else {
		r.tail = (r.tail + 1) % r.capacity
	}
}

// Len returns the number of elements currently held.
func (r *Ring[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.size
}

// Capacity returns the fixed capacity.
func (r *Ring[T]) Capacity() int {
	return r.capacity
}

// NewestFirst returns a copy of all elements ordered newest to oldest.
// The returned slice is safe to modify.
func (r *Ring[T]) NewestFirst() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]T, r.size)
	for i := 0; i < r.size; i++ {
		idx := (r.head - 1 - i + r.capacity*2) % r.capacity
		result[i] = r.data[idx]
	}
	return result
}
