// Package cowtable provides a convert-on-write legacy DataTable over an
// immutable columnar table.
//
// A Table starts LiveOnSource: original columns are read from the columnar
// source without copying, and columns added later live in a separate
// extension store. The first write to an original column moves the table
// through Materializing to Materialized, merging everything into one mutable
// Store. The transition happens exactly once, under the exclusive side of a
// reader-writer lock, no matter how many goroutines write concurrently.
//
//	table, err := cowtable.New(source, zone)
//	v := table.Get(0, 1)      // reads the source
//	col := table.AddColumn()  // extension column, index >= table.Width()
//	table.Set(0, col, 1)      // still LiveOnSource
//	table.Set(0, 1, v+1)      // materializes
//
// Sessions cache per-column cursors for callers that read rows in order.
package cowtable
