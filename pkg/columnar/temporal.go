package columnar

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// DateTimeColumn stores instants as epoch seconds (arrow Int64) and, for
// nanosecond precision, a parallel Int32 array of nanos. Nulls mark missing
// values.
type DateTimeColumn struct {
	seconds *array.Int64
	nanos   *array.Int32
}

func (c *DateTimeColumn) Type() ColumnType { return TypeDateTime }
func (c *DateTimeColumn) Size() int        { return c.seconds.Len() }

// Precision returns Nanos if sub-second parts are stored.
func (c *DateTimeColumn) Precision() Precision {
	if c.nanos != nil {
		return Nanos
	}
	return Seconds
}

// Instant returns the value at row i; missing values report false.
func (c *DateTimeColumn) Instant(i int) (Instant, bool) {
	if c.seconds.IsNull(i) {
		return Instant{}, false
	}
	in := Instant{Seconds: c.seconds.Value(i)}
	if c.nanos != nil {
		in.Nanos = c.nanos.Value(i)
	}
	return in, true
}

// Map implements Column.
func (c *DateTimeColumn) Map(rows []int) Column {
	buf := NewDateTimeBuffer(len(rows), c.Precision())
	for i, r := range rows {
		if r < 0 {
			continue
		}
		if in, ok := c.Instant(r); ok {
			buf.Set(i, in)
		}
	}
	return buf.ToColumn()
}

var time64ns = &arrow.Time64Type{Unit: arrow.Nanosecond}

// TimeColumn stores nanoseconds of day in an arrow Time64 array. Nulls mark
// missing values.
type TimeColumn struct {
	values *array.Time64
}

func (c *TimeColumn) Type() ColumnType { return TypeTime }
func (c *TimeColumn) Size() int        { return c.values.Len() }

// Nanos returns the nanosecond of day at row i; missing values report false.
func (c *TimeColumn) Nanos(i int) (int64, bool) {
	if c.values.IsNull(i) {
		return 0, false
	}
	return int64(c.values.Value(i)), true
}

// Map implements Column.
func (c *TimeColumn) Map(rows []int) Column {
	buf := NewTimeBuffer(len(rows))
	for i, r := range rows {
		if r < 0 {
			continue
		}
		if n, ok := c.Nanos(r); ok {
			// stored values are always in range
			_ = buf.Set(i, n)
		}
	}
	return buf.ToColumn()
}

// ObjectColumn holds arbitrary values. It models the advanced column types
// that have no counterpart in the legacy model.
type ObjectColumn struct {
	typeName string
	values   []interface{}
}

// NewObjectColumn creates an opaque column. typeName is used in error
// messages.
func NewObjectColumn(typeName string, values []interface{}) *ObjectColumn {
	v := make([]interface{}, len(values))
	copy(v, values)
	return &ObjectColumn{typeName: typeName, values: v}
}

func (c *ObjectColumn) Type() ColumnType { return TypeObject }
func (c *ObjectColumn) Size() int        { return len(c.values) }

// TypeName returns the declared element type.
func (c *ObjectColumn) TypeName() string { return c.typeName }

// Value returns the value at row i.
func (c *ObjectColumn) Value(i int) interface{} { return c.values[i] }

// Map implements Column.
func (c *ObjectColumn) Map(rows []int) Column {
	out := make([]interface{}, len(rows))
	for i, r := range rows {
		if r >= 0 {
			out[i] = c.values[r]
		}
	}
	return &ObjectColumn{typeName: c.typeName, values: out}
}
