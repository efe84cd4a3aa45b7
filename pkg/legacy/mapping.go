package legacy

// NominalMapping maps zero-based indices to symbols. Unlike a columnar
// dictionary there is no missing-value slot; a missing nominal value is NaN.
//
// A mapping may be corrupted by careless edits: an index may be unused (a
// gap) or a symbol may be stored under more than one index. Both states are
// representable so that converters can detect them.
//
// For binominal attributes index 0 holds the negative and index 1 the
// positive symbol.
type NominalMapping struct {
	entries []mappingEntry
	lookup  map[string]int
}

type mappingEntry struct {
	value string
	set   bool
}

// NewNominalMapping creates a mapping with values at indices 0..n-1.
// Duplicates are kept.
func NewNominalMapping(values ...string) *NominalMapping {
	m := &NominalMapping{lookup: make(map[string]int, len(values))}
	for i, v := range values {
		m.SetMapping(v, i)
	}
	return m
}

// NewBinominalMapping creates a mapping holding negative at index 0 and, if
// non-empty, positive at index 1.
func NewBinominalMapping(negative, positive string) *NominalMapping {
	if positive == "" {
		return NewNominalMapping(negative)
	}
	return NewNominalMapping(negative, positive)
}

// Size returns the number of indices, counting gaps.
func (m *NominalMapping) Size() int {
	return len(m.entries)
}

// MapIndex returns the symbol at index.
func (m *NominalMapping) MapIndex(index int) (string, bool) {
	if index < 0 || index >= len(m.entries) || !m.entries[index].set {
		return "", false
	}
	return m.entries[index].value, true
}

// GetIndex returns the first index of value, or -1.
func (m *NominalMapping) GetIndex(value string) int {
	if i, ok := m.lookup[value]; ok {
		return i
	}
	return -1
}

// MapString returns the index of value, appending it if absent.
func (m *NominalMapping) MapString(value string) int {
	if i, ok := m.lookup[value]; ok {
		return i
	}
	index := len(m.entries)
	m.SetMapping(value, index)
	return index
}

// SetMapping stores value at index, growing the mapping with gaps if
// needed.
func (m *NominalMapping) SetMapping(value string, index int) {
	for len(m.entries) <= index {
		m.entries = append(m.entries, mappingEntry{})
	}
	if old := m.entries[index]; old.set && m.lookup[old.value] == index {
		delete(m.lookup, old.value)
		m.relink(old.value, index)
	}
	m.entries[index] = mappingEntry{value: value, set: true}
	if first, ok := m.lookup[value]; !ok || index < first {
		m.lookup[value] = index
	}
}

// relink points lookup at another index still holding value, if any.
func (m *NominalMapping) relink(value string, skip int) {
	for i, e := range m.entries {
		if i != skip && e.set && e.value == value {
			m.lookup[value] = i
			return
		}
	}
}

// ClearMapping removes all symbols.
func (m *NominalMapping) ClearMapping() {
	m.entries = nil
	m.lookup = make(map[string]int)
}

// Values returns the symbols in index order; gaps are empty strings.
func (m *NominalMapping) Values() []string {
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.value
	}
	return out
}

// HasGaps reports whether some index below Size() is unused.
func (m *NominalMapping) HasGaps() bool {
	for _, e := range m.entries {
		if !e.set {
			return true
		}
	}
	return false
}

// HasDuplicates reports whether a symbol occupies more than one index.
func (m *NominalMapping) HasDuplicates() bool {
	count := 0
	for _, e := range m.entries {
		if e.set {
			count++
		}
	}
	return count != len(m.lookup)
}

// NegativeString returns the symbol at index 0.
func (m *NominalMapping) NegativeString() (string, bool) {
	return m.MapIndex(0)
}

// PositiveString returns the symbol at index 1.
func (m *NominalMapping) PositiveString() (string, bool) {
	return m.MapIndex(1)
}

// Clone returns an independent copy.
func (m *NominalMapping) Clone() *NominalMapping {
	c := &NominalMapping{
		entries: make([]mappingEntry, len(m.entries)),
		lookup:  make(map[string]int, len(m.lookup)),
	}
	copy(c.entries, m.entries)
	for k, v := range m.lookup {
		c.lookup[k] = v
	}
	return c
}
