package pool

import (
	"sync"
	"sync/atomic"
)

// Pool represents a generic object pool with type safety.
// It wraps sync.Pool with statistics tracking and an optional reset
// function. The pool is safe for concurrent use.
type Pool[T any] struct {
	pool  sync.Pool
	new   func() T
	reset func(T)
	stats struct {
		allocated int64
		inUse     int64
		hits      int64
		misses    int64
	}
}

// New creates a new typed pool with custom allocation and reset functions.
// The new function is called when the pool is empty and a new object is needed.
// The reset function is called before returning an object to the pool.
func New[T any](new func() T, reset func(T)) *Pool[T] {
	p := &Pool[T]{
		new:   new,
		reset: reset,
	}
	p.pool.New = func() interface{} {
		atomic.AddInt64(&p.stats.allocated, 1)
		atomic.AddInt64(&p.stats.misses, 1)
		return new()
	}
	return p
}

// Get retrieves an object from the pool, creating one if the pool is empty.
func (p *Pool[T]) Get() T {
	atomic.AddInt64(&p.stats.inUse, 1)
	obj := p.pool.Get().(T)
	atomic.AddInt64(&p.stats.hits, 1)
	return obj
}

// Put returns an object to the pool for reuse.
func (p *Pool[T]) Put(obj T) {
	if p.reset != nil {
		p.reset(obj)
	}
	atomic.AddInt64(&p.stats.inUse, -1)
	p.pool.Put(obj)
}

// Stats returns current pool statistics.
//
// Returns:
//   - allocated: Total number of objects created by the pool
//   - inUse: Number of objects currently checked out from the pool
//   - hits: Number of Get operations
//   - misses: Number of times a new object had to be created
func (p *Pool[T]) Stats() (allocated, inUse, hits, misses int64) {
	return atomic.LoadInt64(&p.stats.allocated),
		atomic.LoadInt64(&p.stats.inUse),
		atomic.LoadInt64(&p.stats.hits),
		atomic.LoadInt64(&p.stats.misses)
}

var float64Slices = New(
	func() *[]float64 {
		values := make([]float64, 0, 64)
		return &values
	},
	func(values *[]float64) { *values = (*values)[:0] },
)

// GetFloat64s returns a pooled, zeroed slice of length n. The pointer must be
// handed back to PutFloat64s.
func GetFloat64s(n int) *[]float64 {
	buf := float64Slices.Get()
	if cap(*buf) < n {
		*buf = make([]float64, n)
	} else {
		*buf = (*buf)[:n]
		clear(*buf)
	}
	return buf
}

// PutFloat64s returns a slice obtained from GetFloat64s.
func PutFloat64s(buf *[]float64) {
	if buf == nil {
		return
	}
	float64Slices.Put(buf)
}

// Float64Stats returns the statistics of the row buffer pool.
func Float64Stats() (allocated, inUse, hits, misses int64) {
	return float64Slices.Stats()
}
