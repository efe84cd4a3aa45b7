package cowtable

import (
	"math"

	"github.com/ajitpratap0/tablebridge/pkg/columnar"
	"github.com/ajitpratap0/tablebridge/pkg/config"
	"github.com/ajitpratap0/tablebridge/pkg/reconcile"
)

// accessor reads legacy values from the columns of a source table with one
// cursor per column. Numeric-readable columns come first in the reader
// layout, object-only columns (date-times) after them; twist maps a column
// index to its slot in that layout.
type accessor struct {
	source *columnar.Table

	numeric     []*columnar.NumericReader // nil for opaque columns, which read 0
	numericPost []func(float64) float64
	objects     []*columnar.ObjectReader
	twist       []int
}

func newAccessor(source *columnar.Table, zone config.ZoneProvider) *accessor {
	width := source.Width()
	a := &accessor{source: source, twist: make([]int, width)}

	var objectCols []int
	for i := 0; i < width; i++ {
		col := source.Column(i)
		if col.Type() == columnar.TypeDateTime {
			objectCols = append(objectCols, i)
			continue
		}
		a.twist[i] = len(a.numeric)
		if col.Type() == columnar.TypeObject {
			a.numeric = append(a.numeric, nil)
			a.numericPost = append(a.numericPost, nil)
			continue
		}
		// every remaining type is numeric-readable
		r, _ := columnar.NewNumericReader(col)
		a.numeric = append(a.numeric, r)
		a.numericPost = append(a.numericPost, numericPost(col, zone))
	}
	for _, i := range objectCols {
		a.twist[i] = len(a.numeric) + len(a.objects)
		a.objects = append(a.objects, columnar.NewObjectReader(source.Column(i)))
	}
	return a
}

// value returns the legacy value of column col at row. Cursors only seek
// when row does not follow the last row read.
func (a *accessor) value(row, col int) float64 {
	slot := a.twist[col]
	if slot < len(a.numeric) {
		r := a.numeric[slot]
		if r == nil {
			return 0
		}
		if r.Position() != row-1 {
			r.SetPosition(row - 1)
		}
		v := r.Read()
		if post := a.numericPost[slot]; post != nil {
			v = post(v)
		}
		return v
	}
	r := a.objects[slot-len(a.numeric)]
	if r.Position() != row-1 {
		r.SetPosition(row - 1)
	}
	if in, ok := r.Read().(columnar.Instant); ok {
		return reconcile.EpochMillis(in)
	}
	return math.NaN()
}

// numericPost converts a numeric reader value to the legacy value, or is nil
// when no conversion is needed.
func numericPost(col columnar.Column, zone config.ZoneProvider) func(float64) float64 {
	switch col.Type() {
	case columnar.TypeNominal:
		return reconcile.CategoricalToLegacy
	case columnar.TypeTime:
		return func(v float64) float64 {
			if math.IsNaN(v) {
				return v
			}
			return reconcile.NanosOfDayToLegacy(int64(v), zone)
		}
	default:
		return nil
	}
}
