package columnar

import (
	"fmt"
	"math"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/ajitpratap0/tablebridge/pkg/pool"
)

// Buffers are fixed-size, random-access writers that produce an immutable
// column once filled. A buffer may be written from one goroutine at a time;
// distinct buffers may be filled concurrently.

// RealBuffer collects real or integer values.
type RealBuffer struct {
	typ    ColumnType
	values []float64
}

// NewRealBuffer creates a buffer of size NaN values.
func NewRealBuffer(size int) *RealBuffer {
	return newNumericBuffer(TypeReal, size)
}

// NewIntegerBuffer creates a buffer whose values are rounded to integers.
func NewIntegerBuffer(size int) *RealBuffer {
	return newNumericBuffer(TypeInteger53Bit, size)
}

func newNumericBuffer(typ ColumnType, size int) *RealBuffer {
	values := make([]float64, size)
	for i := range values {
		values[i] = math.NaN()
	}
	return &RealBuffer{typ: typ, values: values}
}

// Set stores v at row i.
func (b *RealBuffer) Set(i int, v float64) {
	if b.typ == TypeInteger53Bit {
		v = roundInteger(v)
	}
	b.values[i] = v
}

// Size returns the number of rows.
func (b *RealBuffer) Size() int { return len(b.values) }

// ToColumn creates the column.
func (b *RealBuffer) ToColumn() *NumericColumn {
	return NewNumericColumn(b.typ, b.values)
}

// CategoricalBuffer collects category strings and builds the dictionary in
// order of first appearance.
type CategoricalBuffer struct {
	values []string
	set    []bool
}

// NewCategoricalBuffer creates a buffer of size missing values.
func NewCategoricalBuffer(size int) *CategoricalBuffer {
	return &CategoricalBuffer{values: make([]string, size), set: make([]bool, size)}
}

// Set stores value at row i.
func (b *CategoricalBuffer) Set(i int, value string) {
	b.values[i] = pool.InternString(value)
	b.set[i] = true
}

// SetMissing marks row i as missing.
func (b *CategoricalBuffer) SetMissing(i int) {
	b.values[i] = ""
	b.set[i] = false
}

// Size returns the number of rows.
func (b *CategoricalBuffer) Size() int { return len(b.values) }

// ToColumn creates the column.
func (b *CategoricalBuffer) ToColumn() *CategoricalColumn {
	lookup := make(map[string]int32)
	var categories []string
	indices := make([]int32, len(b.values))
	for i, v := range b.values {
		if !b.set[i] {
			continue
		}
		index, ok := lookup[v]
		if !ok {
			categories = append(categories, v)
			index = int32(len(categories))
			lookup[v] = index
		}
		indices[i] = index
	}
	// categories are unique by construction
	dict, _ := NewDictionary(categories...)
	return NewCategoricalColumn(dict, indices)
}

// IndexBuffer collects indices into a known dictionary.
type IndexBuffer struct {
	dict    *Dictionary
	indices []int32
}

// NewIndexBuffer creates a buffer of size missing values.
func NewIndexBuffer(size int, dict *Dictionary) *IndexBuffer {
	return &IndexBuffer{dict: dict, indices: make([]int32, size)}
}

// SetIndex stores index at row i. Indices outside the dictionary are stored
// as missing.
func (b *IndexBuffer) SetIndex(i, index int) {
	if index < 0 || index > b.dict.Size() {
		index = 0
	}
	b.indices[i] = int32(index)
}

// Size returns the number of rows.
func (b *IndexBuffer) Size() int { return len(b.indices) }

// ToColumn creates the column.
func (b *IndexBuffer) ToColumn() *CategoricalColumn {
	return NewCategoricalColumn(b.dict, b.indices)
}

// PackedBuffer collects indices two bits per row. It accepts dictionaries
// with at most three indices, which covers every boolean dictionary.
type PackedBuffer struct {
	dict   *Dictionary
	packed []byte
	size   int
}

// NewPackedBuffer creates a buffer of size missing values.
func NewPackedBuffer(size int, dict *Dictionary) (*PackedBuffer, error) {
	if dict.Size() > maxPackedIndex {
		return nil, fmt.Errorf("dictionary of size %d cannot be packed", dict.Size())
	}
	return &PackedBuffer{dict: dict, packed: make([]byte, packedLen(size)), size: size}, nil
}

// SetIndex stores index at row i. Indices outside the dictionary are stored
// as missing.
func (b *PackedBuffer) SetIndex(i, index int) {
	if index < 0 || index > b.dict.Size() {
		index = 0
	}
	packedSet(b.packed, i, index)
}

// Size returns the number of rows.
func (b *PackedBuffer) Size() int { return b.size }

// ToColumn creates the column.
func (b *PackedBuffer) ToColumn() *CategoricalColumn {
	out := make([]byte, len(b.packed))
	copy(out, b.packed)
	return newPackedColumn(b.dict, out, b.size)
}

// DateTimeBuffer collects instants.
type DateTimeBuffer struct {
	precision Precision
	seconds   []int64
	nanos     []int32
	valid     []bool
}

// NewDateTimeBuffer creates a buffer of size missing values. With Seconds
// precision the sub-second part of stored instants is dropped.
func NewDateTimeBuffer(size int, precision Precision) *DateTimeBuffer {
	b := &DateTimeBuffer{
		precision: precision,
		seconds:   make([]int64, size),
		valid:     make([]bool, size),
	}
	if precision == Nanos {
		b.nanos = make([]int32, size)
	}
	return b
}

// Set stores in at row i.
func (b *DateTimeBuffer) Set(i int, in Instant) {
	b.seconds[i] = in.Seconds
	if b.nanos != nil {
		b.nanos[i] = in.Nanos
	}
	b.valid[i] = true
}

// SetMissing marks row i as missing.
func (b *DateTimeBuffer) SetMissing(i int) {
	b.seconds[i] = 0
	if b.nanos != nil {
		b.nanos[i] = 0
	}
	b.valid[i] = false
}

// Size returns the number of rows.
func (b *DateTimeBuffer) Size() int { return len(b.seconds) }

// ToColumn creates the column.
func (b *DateTimeBuffer) ToColumn() *DateTimeColumn {
	sb := array.NewInt64Builder(mem)
	defer sb.Release()
	sb.AppendValues(b.seconds, b.valid)
	col := &DateTimeColumn{seconds: sb.NewInt64Array()}
	if b.nanos != nil {
		nb := array.NewInt32Builder(mem)
		defer nb.Release()
		nb.AppendValues(b.nanos, nil)
		col.nanos = nb.NewInt32Array()
	}
	return col
}

// TimeBuffer collects nanoseconds of day.
type TimeBuffer struct {
	values []arrow.Time64
	valid  []bool
}

// NewTimeBuffer creates a buffer of size missing values.
func NewTimeBuffer(size int) *TimeBuffer {
	return &TimeBuffer{values: make([]arrow.Time64, size), valid: make([]bool, size)}
}

// Set stores nanos at row i. Values outside [0, NanosPerDay) are rejected.
func (b *TimeBuffer) Set(i int, nanos int64) error {
	if nanos < 0 || nanos >= NanosPerDay {
		return fmt.Errorf("nanosecond of day %d out of range", nanos)
	}
	b.values[i] = arrow.Time64(nanos)
	b.valid[i] = true
	return nil
}

// SetMissing marks row i as missing.
func (b *TimeBuffer) SetMissing(i int) {
	b.values[i] = 0
	b.valid[i] = false
}

// Size returns the number of rows.
func (b *TimeBuffer) Size() int { return len(b.values) }

// ToColumn creates the column.
func (b *TimeBuffer) ToColumn() *TimeColumn {
	tb := array.NewTime64Builder(mem, time64ns)
	defer tb.Release()
	tb.AppendValues(b.values, b.valid)
	return &TimeColumn{values: tb.NewTime64Array()}
}
