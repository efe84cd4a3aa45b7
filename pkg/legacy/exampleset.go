package legacy

import (
	"math"
)

// ExampleSet is a view of a DataTable through an ordered list of
// attributes. A set created by Mapped stacks a row mapping on top of its
// parent; reads and writes go through every mapping of the stack down to
// the table.
type ExampleSet struct {
	table      DataTable
	attributes *Attributes
	parent     *ExampleSet
	mapping    []int

	annotations map[string]string
	userData    map[string]interface{}
}

// NewExampleSet creates an unmapped view of table.
func NewExampleSet(table DataTable, attributes *Attributes) *ExampleSet {
	if attributes == nil {
		attributes = NewAttributes()
	}
	return &ExampleSet{
		table:       table,
		attributes:  attributes,
		annotations: make(map[string]string),
		userData:    make(map[string]interface{}),
	}
}

// Mapped returns a view whose row i is row rows[i] of s. The new view has
// its own attribute list sharing the attributes of s; annotations and user
// data are copied.
func (s *ExampleSet) Mapped(rows []int) *ExampleSet {
	m := NewExampleSet(s.table, s.attributes.Clone())
	m.parent = s
	m.mapping = append([]int(nil), rows...)
	for k, v := range s.annotations {
		m.annotations[k] = v
	}
	for k, v := range s.userData {
		m.userData[k] = v
	}
	return m
}

// Table returns the underlying row store.
func (s *ExampleSet) Table() DataTable { return s.table }

// Attributes returns the attribute list.
func (s *ExampleSet) Attributes() *Attributes { return s.attributes }

// Parent returns the view s was mapped from, or nil.
func (s *ExampleSet) Parent() *ExampleSet { return s.parent }

// IsMapped reports whether rows are reached through a mapping.
func (s *ExampleSet) IsMapped() bool { return s.parent != nil }

// Size returns the number of rows.
func (s *ExampleSet) Size() int {
	if s.parent != nil {
		return len(s.mapping)
	}
	return s.table.Size()
}

// TableRow returns the table row behind row.
func (s *ExampleSet) TableRow(row int) int {
	for v := s; v.parent != nil; v = v.parent {
		row = v.mapping[row]
	}
	return row
}

// TableRows composes all stacked mappings into one, mapping rows of s to
// table rows. It returns nil for an unmapped set.
func (s *ExampleSet) TableRows() []int {
	if s.parent == nil {
		return nil
	}
	rows := append([]int(nil), s.mapping...)
	for v := s.parent; v.parent != nil; v = v.parent {
		rows = ComposeMappings(v.mapping, rows)
	}
	return rows
}

// ComposeMappings returns the mapping that applies outer on top of inner:
// result[i] = inner[outer[i]].
func ComposeMappings(inner, outer []int) []int {
	out := make([]int, len(outer))
	for i, r := range outer {
		out[i] = inner[r]
	}
	return out
}

// Get returns the value of a at row with a's transformations applied.
func (s *ExampleSet) Get(row int, a *Attribute) float64 {
	if a.TableIndex() < 0 {
		return math.NaN()
	}
	v := s.table.Get(s.TableRow(row), a.TableIndex())
	if a.HasTransformations() {
		v = a.Transform(v)
	}
	return v
}

// Set stores v for a at row.
func (s *ExampleSet) Set(row int, a *Attribute, v float64) {
	s.table.Set(s.TableRow(row), a.TableIndex(), v)
}

// Row returns an accessor for one row.
func (s *ExampleSet) Row(row int) DataRow {
	return DataRow{set: s, row: row}
}

// Annotations returns a copy of the set annotations.
func (s *ExampleSet) Annotations() map[string]string {
	out := make(map[string]string, len(s.annotations))
	for k, v := range s.annotations {
		out[k] = v
	}
	return out
}

// SetAnnotation stores an annotation.
func (s *ExampleSet) SetAnnotation(key, value string) {
	s.annotations[key] = value
}

// UserData returns the value stored under key.
func (s *ExampleSet) UserData(key string) (interface{}, bool) {
	v, ok := s.userData[key]
	return v, ok
}

// SetUserData stores value under key.
func (s *ExampleSet) SetUserData(key string, value interface{}) {
	s.userData[key] = value
}

// DataRow reads and writes one row of an example set.
type DataRow struct {
	set *ExampleSet
	row int
}

// Index returns the row number within the set.
func (r DataRow) Index() int { return r.row }

// Get returns the value of a.
func (r DataRow) Get(a *Attribute) float64 { return r.set.Get(r.row, a) }

// Set stores v for a.
func (r DataRow) Set(a *Attribute, v float64) { r.set.Set(r.row, a, v) }

// NominalValue returns the symbol of a nominal attribute; missing values
// report false.
func (r DataRow) NominalValue(a *Attribute) (string, bool) {
	v := r.Get(a)
	if math.IsNaN(v) || a.Mapping() == nil {
		return "", false
	}
	return a.Mapping().MapIndex(int(v))
}

// SetNominalValue stores value for a nominal attribute, extending its
// mapping if needed.
func (r DataRow) SetNominalValue(a *Attribute, value string) {
	r.Set(a, float64(a.Mapping().MapString(value)))
}
