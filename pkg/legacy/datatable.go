package legacy

import (
	"math"
)

// DataTable is the mutable row store behind example sets. Values are
// float64: numbers as is, nominal values as mapping indices, date-times as
// epoch milliseconds. Missing is NaN.
type DataTable interface {
	// Size returns the number of rows.
	Size() int
	// NumberOfColumns returns the number of column slots, including
	// removed ones.
	NumberOfColumns() int
	Get(row, col int) float64
	Set(row, col int, v float64)
	// AddColumn appends a column of missing values and returns its index.
	AddColumn() int
	// RemoveColumn frees a column slot. Indices of other columns stay valid.
	RemoveColumn(col int)
}

// ConcurrentReader is implemented by tables that declare, at construction,
// whether concurrent reads are safe.
type ConcurrentReader interface {
	ConcurrentlyReadable() bool
}

// ColumnSource is implemented by tables that can expose a column's values
// directly. The returned slice must not be modified.
type ColumnSource interface {
	ColumnValues(col int) ([]float64, bool)
}

// IsConcurrentlyReadable reports whether t declared concurrent reads safe.
// Tables without the capability are assumed unsafe.
func IsConcurrentlyReadable(t DataTable) bool {
	cr, ok := t.(ConcurrentReader)
	return ok && cr.ConcurrentlyReadable()
}

// ColumnTable stores values column by column. It is safe for concurrent
// reads and exposes its columns directly.
type ColumnTable struct {
	height  int
	columns [][]float64
}

// NewColumnTable creates a table of height rows and width missing columns.
func NewColumnTable(height, width int) *ColumnTable {
	t := &ColumnTable{height: height}
	for i := 0; i < width; i++ {
		t.AddColumn()
	}
	return t
}

// NewColumnTableFrom creates a table owning columns. All columns must have
// the same length.
func NewColumnTableFrom(columns [][]float64) *ColumnTable {
	t := &ColumnTable{columns: columns}
	if len(columns) > 0 {
		t.height = len(columns[0])
	}
	return t
}

func (t *ColumnTable) Size() int                  { return t.height }
func (t *ColumnTable) NumberOfColumns() int       { return len(t.columns) }
func (t *ColumnTable) ConcurrentlyReadable() bool { return true }

// Get returns NaN for removed columns.
func (t *ColumnTable) Get(row, col int) float64 {
	c := t.columns[col]
	if c == nil {
		return math.NaN()
	}
	return c[row]
}

func (t *ColumnTable) Set(row, col int, v float64) {
	if c := t.columns[col]; c != nil {
		c[row] = v
	}
}

func (t *ColumnTable) AddColumn() int {
	c := make([]float64, t.height)
	for i := range c {
		c[i] = math.NaN()
	}
	t.columns = append(t.columns, c)
	return len(t.columns) - 1
}

// SetColumn stores values as column col, growing the table if needed.
func (t *ColumnTable) SetColumn(col int, values []float64) {
	for len(t.columns) <= col {
		t.columns = append(t.columns, nil)
	}
	t.columns[col] = values
}

func (t *ColumnTable) RemoveColumn(col int) {
	t.columns[col] = nil
}

// ColumnValues implements ColumnSource.
func (t *ColumnTable) ColumnValues(col int) ([]float64, bool) {
	if col < 0 || col >= len(t.columns) || t.columns[col] == nil {
		return nil, false
	}
	return t.columns[col], true
}

// RowTable stores values row by row. Concurrent reads are only declared
// safe when created with WithConcurrentReads.
type RowTable struct {
	width      int
	rows       [][]float64
	concurrent bool
}

// RowTableOption configures a RowTable.
type RowTableOption func(*RowTable)

// WithConcurrentReads declares the table safe for concurrent reads.
func WithConcurrentReads() RowTableOption {
	return func(t *RowTable) { t.concurrent = true }
}

// NewRowTable creates a table of height rows and width missing columns.
func NewRowTable(height, width int, opts ...RowTableOption) *RowTable {
	t := &RowTable{width: width, rows: make([][]float64, height)}
	for i := range t.rows {
		row := make([]float64, width)
		for j := range row {
			row[j] = math.NaN()
		}
		t.rows[i] = row
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *RowTable) Size() int                   { return len(t.rows) }
func (t *RowTable) NumberOfColumns() int        { return t.width }
func (t *RowTable) Get(row, col int) float64    { return t.rows[row][col] }
func (t *RowTable) Set(row, col int, v float64) { t.rows[row][col] = v }
func (t *RowTable) ConcurrentlyReadable() bool  { return t.concurrent }

func (t *RowTable) AddColumn() int {
	for i, row := range t.rows {
		t.rows[i] = append(row, math.NaN())
	}
	t.width++
	return t.width - 1
}

// RemoveColumn clears the column; row storage keeps its width.
func (t *RowTable) RemoveColumn(col int) {
	for _, row := range t.rows {
		row[col] = math.NaN()
	}
}
