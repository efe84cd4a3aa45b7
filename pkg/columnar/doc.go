// Package columnar provides the immutable, column-oriented table model the
// bridge converts from and to.
//
// # Overview
//
// A Table is an ordered sequence of uniquely labeled columns of equal
// height. Every label carries an ordered list of MetaData tags (roles,
// column references, annotations or user-defined tags). Tables never change
// after construction; structural edits go through a TableBuilder and
// produce a new table that shares all untouched column references.
//
// # Column Types
//
//   - NumericColumn: real or 53-bit integer values, NaN is missing
//   - CategoricalColumn: indices into a Dictionary, index 0 is missing
//   - DateTimeColumn: instants with second or nanosecond precision
//   - TimeColumn: nanoseconds of day
//   - ObjectColumn: opaque values without a legacy counterpart
//
// Values live in Apache Arrow arrays. Boolean categorical columns are packed
// two bits per row.
//
// # Building Columns
//
// Columns are created from buffers that accept random-access writes:
//
//	buf := columnar.NewCategoricalBuffer(height)
//	buf.Set(0, "yes")
//	buf.SetMissing(1)
//	col := buf.ToColumn()
//
//	table, err := columnar.NewTableBuilder(height).
//		Add("answer", col).
//		AddMetaData("answer", columnar.RoleLabel).
//		Build()
//
// # Reading Columns
//
// NumericReader, CategoricalReader and ObjectReader are sequential cursors.
// Position returns the last row read; SetPosition(p) makes the next Read
// return row p+1.
//
// # Thread Safety
//
// Tables, columns and dictionaries are safe for concurrent reads. Buffers,
// builders and readers are not safe for concurrent use.
package columnar
