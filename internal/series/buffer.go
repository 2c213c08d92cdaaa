// Package series holds the per-topic sample history and the mapping from
// on-screen sample positions to history indices.
package series

import (
	"math"
	"sync"
)

// Buffer is a fixed-capacity circular buffer of fixed-point samples.
// It always holds exactly Len() samples: it starts zero-filled and every
// Push overwrites the oldest sample.
//
// A Buffer is written by one delivery goroutine and read by the render
// path; the mutex keeps readers from seeing a half-applied push.
type Buffer struct {
	mu     sync.RWMutex
	buf    []int
	head   int // physical index of the oldest sample
	pushed uint64
}

// NewBuffer creates a zero-filled buffer holding capacity samples.
// Capacities below 1 are raised to 1.
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{
		buf: make([]int, capacity),
	}
}

// Push appends a sample at the logical end and evicts the logical front.
func (b *Buffer) Push(v int) {
	b.mu.Lock()
	b.buf[b.head] = v
	b.head = (b.head + 1) % len(b.buf)
	b.pushed++
	b.mu.Unlock()
}

// Get returns the sample at logical index i, where 0 is the oldest and
// Len()-1 the newest.
func (b *Buffer) Get(i int) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if i < 0 || i >= len(b.buf) {
		return 0, &RangeError{Index: i, Len: len(b.buf)}
	}
	return b.buf[(b.head+i)%len(b.buf)], nil
}

// Window copies n consecutive samples starting at logical index start.
// The copy is taken under a single lock so it never mixes two pushes.
func (b *Buffer) Window(start, n int) ([]int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	size := len(b.buf)
	if n < 0 || start < 0 || start+n > size {
		return nil, &RangeError{Index: start + n - 1, Len: size}
	}

	out := make([]int, n)
	from := (b.head + start) % size
	copied := copy(out, b.buf[from:])
	if copied < n {
		copy(out[copied:], b.buf[:n-copied])
	}
	return out, nil
}

// Values returns all samples in chronological order.
func (b *Buffer) Values() []int {
	out, _ := b.Window(0, b.Len())
	return out
}

// Last returns the newest sample.
func (b *Buffer) Last() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	idx := (b.head - 1 + len(b.buf)) % len(b.buf)
	return b.buf[idx]
}

// Len returns the capacity, which is also the number of stored samples.
func (b *Buffer) Len() int {
	return len(b.buf)
}

// Pushed returns how many samples have been pushed since creation.
func (b *Buffer) Pushed() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.pushed
}

// Scale converts a measurement into the stored fixed-point form: v*factor
// truncated toward zero. Non-finite inputs store 0 and results outside the
// int32 range saturate.
func Scale(v, factor float64) int {
	x := v * factor
	switch {
	case math.IsNaN(v), math.IsInf(v, 0), math.IsNaN(x):
		return 0
	case x >= math.MaxInt32:
		return math.MaxInt32
	case x <= math.MinInt32:
		return math.MinInt32
	}
	return int(x)
}
