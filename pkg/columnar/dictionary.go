package columnar

import (
	"fmt"
)

// Dictionary is the ordered category list backing a categorical column.
// Index 0 is the fixed missing-value sentinel; indices 1..Size() hold unique
// strings. Unused indices ("gaps") may exist after rows were removed.
//
// A boolean dictionary additionally marks at most one index as positive. Its
// negative index is the other populated index, if any.
type Dictionary struct {
	values    []string // values[0] is the sentinel
	used      []bool
	populated int
	lookup    map[string]int

	boolean  bool
	positive int
}

// NewDictionary creates a dictionary without gaps. values[i] becomes index
// i+1. Duplicate values are rejected.
func NewDictionary(values ...string) (*Dictionary, error) {
	return newDictionary(values, nil, false, 0)
}

// NewDictionaryWithGaps is NewDictionary with the given indices left unused.
// The entries of values at gap positions are ignored.
func NewDictionaryWithGaps(values []string, gaps ...int) (*Dictionary, error) {
	return newDictionary(values, gaps, false, 0)
}

// NewBooleanDictionary creates a boolean dictionary with at most two
// populated indices. positive is the index of the positive value, or 0 when
// no value is positive.
func NewBooleanDictionary(values []string, positive int, gaps ...int) (*Dictionary, error) {
	if len(values) > 2 {
		return nil, fmt.Errorf("boolean dictionary holds at most 2 values, got %d", len(values))
	}
	return newDictionary(values, gaps, true, positive)
}

func newDictionary(values []string, gaps []int, boolean bool, positive int) (*Dictionary, error) {
	d := &Dictionary{
		values:  make([]string, len(values)+1),
		used:    make([]bool, len(values)+1),
		lookup:  make(map[string]int, len(values)),
		boolean: boolean,
	}
	gap := make(map[int]bool, len(gaps))
	for _, g := range gaps {
		if g < 1 || g > len(values) {
			return nil, fmt.Errorf("gap index %d out of range [1,%d]", g, len(values))
		}
		gap[g] = true
	}
	for i, v := range values {
		index := i + 1
		if gap[index] {
			continue
		}
		if _, dup := d.lookup[v]; dup {
			return nil, fmt.Errorf("duplicate dictionary value %q", v)
		}
		d.values[index] = v
		d.used[index] = true
		d.lookup[v] = index
		d.populated++
	}
	if boolean && positive != 0 {
		if positive < 0 || positive >= len(d.values) || !d.used[positive] {
			return nil, fmt.Errorf("positive index %d is not populated", positive)
		}
		d.positive = positive
	}
	return d, nil
}

// Size returns the largest index, counting gaps.
func (d *Dictionary) Size() int {
	return len(d.values) - 1
}

// Populated returns the number of indices holding a value.
func (d *Dictionary) Populated() int {
	return d.populated
}

// HasGaps reports whether some index in 1..Size() is unused.
func (d *Dictionary) HasGaps() bool {
	return d.populated != d.Size()
}

// Get returns the value at index. The sentinel and gaps report false.
func (d *Dictionary) Get(index int) (string, bool) {
	if index <= 0 || index >= len(d.values) || !d.used[index] {
		return "", false
	}
	return d.values[index], true
}

// Index returns the index of value, or 0 if absent.
func (d *Dictionary) Index(value string) int {
	return d.lookup[value]
}

// Values returns the values of indices 1..Size(); gaps are empty strings.
func (d *Dictionary) Values() []string {
	out := make([]string, len(d.values)-1)
	copy(out, d.values[1:])
	return out
}

// IsBoolean reports whether the dictionary carries positive/negative
// information.
func (d *Dictionary) IsBoolean() bool {
	return d.boolean
}

// PositiveIndex returns the positive index, or 0.
func (d *Dictionary) PositiveIndex() int {
	return d.positive
}

// NegativeIndex returns the populated index that is not positive, or 0.
func (d *Dictionary) NegativeIndex() int {
	if !d.boolean {
		return 0
	}
	for i := 1; i < len(d.values); i++ {
		if d.used[i] && i != d.positive {
			return i
		}
	}
	return 0
}

// HasPositive reports whether a positive index exists.
func (d *Dictionary) HasPositive() bool {
	return d.positive != 0
}

// HasNegative reports whether a negative index exists.
func (d *Dictionary) HasNegative() bool {
	return d.NegativeIndex() != 0
}
