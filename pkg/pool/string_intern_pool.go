package pool

import (
	"sync"
	"sync/atomic"
)

// StringInternPool provides string interning to reduce memory held by
// repeated category strings across dictionaries.
type StringInternPool struct {
	mu      sync.RWMutex
	strings map[string]string
	maxSize int
	size    int64
	hits    int64
	misses  int64
}

// NewStringInternPool creates an intern pool holding at most maxSize strings.
func NewStringInternPool(maxSize int) *StringInternPool {
	return &StringInternPool{
		strings: make(map[string]string, 1024),
		maxSize: maxSize,
	}
}

// Global string intern pool shared by the dictionary builders
var globalStringInternPool = NewStringInternPool(10000)

// Intern returns an interned version of the string
func (p *StringInternPool) Intern(s string) string {
	// Fast path: check if already interned
	p.mu.RLock()
	if interned, ok := p.strings[s]; ok {
		p.mu.RUnlock()
		atomic.AddInt64(&p.hits, 1)
		return interned
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check after acquiring write lock
	if interned, ok := p.strings[s]; ok {
		atomic.AddInt64(&p.hits, 1)
		return interned
	}

	if atomic.LoadInt64(&p.size) >= int64(p.maxSize) {
		// Return original string if pool is full
		atomic.AddInt64(&p.misses, 1)
		return s
	}

	p.strings[s] = s
	atomic.AddInt64(&p.size, 1)
	atomic.AddInt64(&p.misses, 1)
	return s
}

// Stats returns intern pool statistics
func (p *StringInternPool) Stats() (size, hits, misses int64) {
	return atomic.LoadInt64(&p.size),
		atomic.LoadInt64(&p.hits),
		atomic.LoadInt64(&p.misses)
}

// Clear clears the intern pool (useful for tests)
func (p *StringInternPool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.strings = make(map[string]string, 1024)
	atomic.StoreInt64(&p.size, 0)
	atomic.StoreInt64(&p.hits, 0)
	atomic.StoreInt64(&p.misses, 0)
}

// InternString interns a string using the global pool
func InternString(s string) string {
	return globalStringInternPool.Intern(s)
}

// GetInternStats returns global intern pool statistics
func GetInternStats() (size, hits, misses int64) {
	return globalStringInternPool.Stats()
}
