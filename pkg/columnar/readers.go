package columnar

import (
	"fmt"
	"math"
	"time"
)

// cursor tracks the last row read. A fresh cursor is positioned before the
// first row.
type cursor struct {
	pos  int
	size int
}

// Position returns the last row read, -1 before the first Read.
func (c *cursor) Position() int { return c.pos }

// SetPosition moves the cursor so that the next Read returns row p+1.
func (c *cursor) SetPosition(p int) { c.pos = p }

// HasRemaining reports whether another row can be read.
func (c *cursor) HasRemaining() bool { return c.pos+1 < c.size }

// Remaining returns the number of unread rows.
func (c *cursor) Remaining() int { return c.size - c.pos - 1 }

func (c *cursor) next() int {
	c.pos++
	return c.pos
}

// NumericReader reads a column as float64 values. Real and integer columns
// yield their values, categorical columns their dictionary index, and time
// columns their nanosecond of day. Missing values read as NaN, except for
// categorical columns where missing is index 0.
type NumericReader struct {
	cursor
	value func(i int) float64
}

// NewNumericReader creates a reader for col.
func NewNumericReader(col Column) (*NumericReader, error) {
	value, err := numericAccess(col)
	if err != nil {
		return nil, err
	}
	return &NumericReader{cursor: cursor{pos: -1, size: col.Size()}, value: value}, nil
}

// Read returns the next value.
func (r *NumericReader) Read() float64 {
	return r.value(r.next())
}

func numericAccess(col Column) (func(int) float64, error) {
	switch c := col.(type) {
	case *NumericColumn:
		return c.Value, nil
	case *CategoricalColumn:
		return func(i int) float64 { return float64(c.Index(i)) }, nil
	case *TimeColumn:
		return func(i int) float64 {
			n, ok := c.Nanos(i)
			if !ok {
				return math.NaN()
			}
			return float64(n)
		}, nil
	default:
		return nil, fmt.Errorf("column type %s is not numeric-readable", col.Type())
	}
}

// CategoricalReader reads the dictionary indices of a categorical column.
type CategoricalReader struct {
	cursor
	col *CategoricalColumn
}

// NewCategoricalReader creates a reader for col.
func NewCategoricalReader(col *CategoricalColumn) *CategoricalReader {
	return &CategoricalReader{cursor: cursor{pos: -1, size: col.Size()}, col: col}
}

// Read returns the next index.
func (r *CategoricalReader) Read() int {
	return r.col.Index(r.next())
}

// ObjectReader reads a column as boxed values: float64 for numeric columns,
// string for categories, Instant for date-times, time.Duration for times and
// the stored value for object columns. Missing values read as nil.
type ObjectReader struct {
	cursor
	value func(i int) interface{}
}

// NewObjectReader creates a reader for col.
func NewObjectReader(col Column) *ObjectReader {
	return &ObjectReader{cursor: cursor{pos: -1, size: col.Size()}, value: objectAccess(col)}
}

// Read returns the next value.
func (r *ObjectReader) Read() interface{} {
	return r.value(r.next())
}

func objectAccess(col Column) func(int) interface{} {
	switch c := col.(type) {
	case *NumericColumn:
		return func(i int) interface{} {
			v := c.Value(i)
			if math.IsNaN(v) {
				return nil
			}
			return v
		}
	case *CategoricalColumn:
		return func(i int) interface{} {
			if s, ok := c.String(i); ok {
				return s
			}
			return nil
		}
	case *DateTimeColumn:
		return func(i int) interface{} {
			if in, ok := c.Instant(i); ok {
				return in
			}
			return nil
		}
	case *TimeColumn:
		return func(i int) interface{} {
			if n, ok := c.Nanos(i); ok {
				return time.Duration(n)
			}
			return nil
		}
	case *ObjectColumn:
		return c.Value
	default:
		return func(int) interface{} { return nil }
	}
}
