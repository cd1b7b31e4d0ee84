package memory

import (
	"math/rand"
	"sync"
)

// Buffer is a bounded FIFO store. Once full, storing drops the oldest entry.
type Buffer[T any] struct {
	items    []T
	capacity int
	mu       sync.RWMutex
}

func NewBuffer[T any](capacity int) *Buffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer[T]{
		items:    make([]T, 0, capacity),
		capacity: capacity,
	}
}

// All returns a copy of all entries, oldest first
func (b *Buffer[T]) All() []T {
	b.mu.RLock()
	defer b.mu.RUnlock()

	// Return a copy to prevent external modifications
	items := make([]T, len(b.items))
	copy(items, b.items)
	return items
}

// Last returns a copy of the n most recent entries, oldest first
func (b *Buffer[T]) Last(n int) []T {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if n > len(b.items) {
		n = len(b.items)
	}
	if n <= 0 {
		return []T{}
	}
	items := make([]T, n)
	copy(items, b.items[len(b.items)-n:])
	return items
}

func (b *Buffer[T]) Store(item T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.items = append(b.items, item)
	if len(b.items) > b.capacity {
		b.items = b.items[1:]
	}
}

func (b *Buffer[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.items)
}

func (b *Buffer[T]) Capacity() int {
	return b.capacity
}

// Sample draws n entries uniformly with replacement. It returns nil when the
// buffer is empty.
func (b *Buffer[T]) Sample(rng *rand.Rand, n int) []T {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(b.items) == 0 || n <= 0 {
		return nil
	}
	batch := make([]T, n)
	for i := range batch {
		batch[i] = b.items[rng.Intn(len(b.items))]
	}
	return batch
}

func (b *Buffer[T]) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = make([]T, 0, b.capacity)
}
