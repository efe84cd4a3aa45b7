// Package pool provides type-safe object pooling and string interning for
// the table bridge.
//
// Core Types:
//
//   - Pool[T]: generic pool built on sync.Pool with usage statistics
//   - Float64Slices: pooled []float64 row buffers used by the sequential
//     conversion sweep
//   - StringInternPool: bounded interning of category strings so that
//     dictionaries built from many columns share string storage
//
// Example:
//
//	buf := pool.GetFloat64s(width)
//	defer pool.PutFloat64s(buf)
//	row := *buf
package pool
