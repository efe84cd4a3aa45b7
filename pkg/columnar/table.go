package columnar

import (
	"fmt"
)

// Table is an immutable, ordered sequence of uniquely labeled columns of
// equal height, with ordered metadata tags per label. Structural edits go
// through Builder and produce a new table sharing unchanged columns.
type Table struct {
	height  int
	labels  []string
	columns []Column
	index   map[string]int
	meta    map[string][]MetaData
}

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.columns) }

// Height returns the number of rows.
func (t *Table) Height() int { return t.height }

// Labels returns a copy of the column labels in order.
func (t *Table) Labels() []string {
	out := make([]string, len(t.labels))
	copy(out, t.labels)
	return out
}

// Label returns the label of column i.
func (t *Table) Label(i int) string { return t.labels[i] }

// Column returns column i.
func (t *Table) Column(i int) Column { return t.columns[i] }

// ColumnByLabel returns the column with the given label.
func (t *Table) ColumnByLabel(label string) (Column, bool) {
	i, ok := t.index[label]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// Index returns the position of label, or -1.
func (t *Table) Index(label string) int {
	if i, ok := t.index[label]; ok {
		return i
	}
	return -1
}

// Contains reports whether label exists.
func (t *Table) Contains(label string) bool {
	_, ok := t.index[label]
	return ok
}

// MetaData returns a copy of the tags of label in insertion order.
func (t *Table) MetaData(label string) []MetaData {
	md := t.meta[label]
	out := make([]MetaData, len(md))
	copy(out, md)
	return out
}

// FirstMetaData returns the first tag of label whose MetaDataType is typ.
func (t *Table) FirstMetaData(label, typ string) (MetaData, bool) {
	for _, md := range t.meta[label] {
		if md.MetaDataType() == typ {
			return md, true
		}
	}
	return nil, false
}

// FirstMetaDataOf returns the first tag of label with concrete type T.
func FirstMetaDataOf[T MetaData](t *Table, label string) (T, bool) {
	for _, md := range t.meta[label] {
		if v, ok := md.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Map returns a table whose row i is row rows[i] of t. Metadata is shared.
func (t *Table) Map(rows []int) *Table {
	columns := make([]Column, len(t.columns))
	for i, c := range t.columns {
		columns[i] = c.Map(rows)
	}
	return &Table{
		height:  len(rows),
		labels:  t.labels,
		columns: columns,
		index:   t.index,
		meta:    t.meta,
	}
}

// Builder returns a builder initialized with the columns and tags of t.
func (t *Table) Builder() *TableBuilder {
	b := NewTableBuilder(t.height)
	for i, label := range t.labels {
		b.Add(label, t.columns[i])
		b.meta[label] = append([]MetaData(nil), t.meta[label]...)
	}
	return b
}

// TableBuilder assembles a Table. Errors are collected and reported by
// Build.
type TableBuilder struct {
	height  int
	labels  []string
	columns map[string]Column
	meta    map[string][]MetaData
	err     error
}

// NewTableBuilder creates a builder for tables of the given height. A
// negative height takes the height of the first column added.
func NewTableBuilder(height int) *TableBuilder {
	return &TableBuilder{
		height:  height,
		columns: make(map[string]Column),
		meta:    make(map[string][]MetaData),
	}
}

func (b *TableBuilder) fail(format string, args ...interface{}) *TableBuilder {
	if b.err == nil {
		b.err = fmt.Errorf(format, args...)
	}
	return b
}

func (b *TableBuilder) checkColumn(label string, col Column) bool {
	if col == nil {
		b.fail("column %q is nil", label)
		return false
	}
	if b.height < 0 {
		b.height = col.Size()
	}
	if col.Size() != b.height {
		b.fail("column %q has height %d, expected %d", label, col.Size(), b.height)
		return false
	}
	return true
}

// Add appends a column.
func (b *TableBuilder) Add(label string, col Column) *TableBuilder {
	if _, dup := b.columns[label]; dup {
		return b.fail("duplicate column label %q", label)
	}
	if !b.checkColumn(label, col) {
		return b
	}
	b.labels = append(b.labels, label)
	b.columns[label] = col
	return b
}

// Replace swaps the column of an existing label, keeping its position and
// tags.
func (b *TableBuilder) Replace(label string, col Column) *TableBuilder {
	if _, ok := b.columns[label]; !ok {
		return b.fail("unknown column label %q", label)
	}
	if !b.checkColumn(label, col) {
		return b
	}
	b.columns[label] = col
	return b
}

// Remove drops a column and its tags.
func (b *TableBuilder) Remove(label string) *TableBuilder {
	if _, ok := b.columns[label]; !ok {
		return b.fail("unknown column label %q", label)
	}
	delete(b.columns, label)
	delete(b.meta, label)
	for i, l := range b.labels {
		if l == label {
			b.labels = append(b.labels[:i], b.labels[i+1:]...)
			break
		}
	}
	return b
}

// AddMetaData appends tags to label.
func (b *TableBuilder) AddMetaData(label string, md ...MetaData) *TableBuilder {
	for _, m := range md {
		if m == nil {
			return b.fail("nil metadata for column %q", label)
		}
	}
	b.meta[label] = append(b.meta[label], md...)
	return b
}

// SetMetaData replaces all tags of label.
func (b *TableBuilder) SetMetaData(label string, md ...MetaData) *TableBuilder {
	delete(b.meta, label)
	return b.AddMetaData(label, md...)
}

// Build creates the table.
func (b *TableBuilder) Build() (*Table, error) {
	if b.err != nil {
		return nil, b.err
	}
	for label := range b.meta {
		if _, ok := b.columns[label]; !ok {
			return nil, fmt.Errorf("metadata for unknown column label %q", label)
		}
	}
	height := b.height
	if height < 0 {
		height = 0
	}
	t := &Table{
		height:  height,
		labels:  make([]string, len(b.labels)),
		columns: make([]Column, len(b.labels)),
		index:   make(map[string]int, len(b.labels)),
		meta:    make(map[string][]MetaData, len(b.meta)),
	}
	copy(t.labels, b.labels)
	for i, label := range b.labels {
		t.columns[i] = b.columns[label]
		t.index[label] = i
		if md := b.meta[label]; len(md) > 0 {
			t.meta[label] = append([]MetaData(nil), md...)
		}
	}
	return t, nil
}
