package columnar

import (
	"math"

	"github.com/apache/arrow-go/v18/arrow/array"
)

// NumericColumn stores real or 53-bit integer values in an arrow Float64
// array. Missing values are NaN.
type NumericColumn struct {
	typ    ColumnType
	values *array.Float64
}

// NewNumericColumn creates a real or integer column from values. Integer
// columns round every finite value to the nearest integer.
func NewNumericColumn(typ ColumnType, values []float64) *NumericColumn {
	if typ != TypeInteger53Bit {
		typ = TypeReal
	}
	b := array.NewFloat64Builder(mem)
	defer b.Release()
	b.Reserve(len(values))
	for _, v := range values {
		if typ == TypeInteger53Bit {
			v = roundInteger(v)
		}
		b.UnsafeAppend(v)
	}
	return &NumericColumn{typ: typ, values: b.NewFloat64Array()}
}

func roundInteger(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return math.Round(v)
}

func (c *NumericColumn) Type() ColumnType { return c.typ }
func (c *NumericColumn) Size() int        { return c.values.Len() }

// Value returns the value at row i.
func (c *NumericColumn) Value(i int) float64 {
	return c.values.Value(i)
}

// Values returns a copy of all values.
func (c *NumericColumn) Values() []float64 {
	out := make([]float64, c.values.Len())
	copy(out, c.values.Float64Values())
	return out
}

// Map implements Column.
func (c *NumericColumn) Map(rows []int) Column {
	b := array.NewFloat64Builder(mem)
	defer b.Release()
	b.Reserve(len(rows))
	for _, r := range rows {
		if r < 0 {
			b.UnsafeAppend(math.NaN())
			continue
		}
		b.UnsafeAppend(c.values.Value(r))
	}
	return &NumericColumn{typ: c.typ, values: b.NewFloat64Array()}
}
