package bridge

import (
	"math"

	"github.com/ajitpratap0/tablebridge/pkg/columnar"
	"github.com/ajitpratap0/tablebridge/pkg/config"
	"github.com/ajitpratap0/tablebridge/pkg/legacy"
	"github.com/ajitpratap0/tablebridge/pkg/metrics"
	"github.com/ajitpratap0/tablebridge/pkg/nebulaerrors"
	"github.com/ajitpratap0/tablebridge/pkg/reconcile"
)

// columnSink receives the legacy values of one attribute row by row and
// builds the matching column. A sink is filled by one goroutine.
type columnSink interface {
	set(row int, v float64)
	// build returns the column and the LegacyType tag, if the ontology needs
	// one.
	build() (columnar.Column, columnar.MetaData)
}

// newSink selects the column builder for an attribute.
func newSink(a *legacy.Attribute, height int, zone config.ZoneProvider) (columnSink, error) {
	switch o := a.Ontology(); o {
	case legacy.Numerical, legacy.Real:
		return &realSink{buf: columnar.NewRealBuffer(height), tag: legacyTag(o)}, nil
	case legacy.Integer:
		return &realSink{buf: columnar.NewIntegerBuffer(height)}, nil
	case legacy.Nominal, legacy.Polynominal, legacy.String, legacy.FilePath:
		return newNominalSink(a.Mapping(), height, legacyTag(o)), nil
	case legacy.Binominal:
		return newBinominalSink(a.Mapping(), height), nil
	case legacy.Date:
		return &dateTimeSink{buf: columnar.NewDateTimeBuffer(height, columnar.Seconds), tag: legacyTag(o)}, nil
	case legacy.DateTime:
		return &dateTimeSink{buf: columnar.NewDateTimeBuffer(height, columnar.Nanos)}, nil
	case legacy.Time:
		return &timeSink{buf: columnar.NewTimeBuffer(height), zone: zone}, nil
	default:
		return nil, nebulaerrors.UnsupportedColumnType(a.Name(), o.String())
	}
}

// legacyTag returns the LegacyType tag a column built for ontology o
// carries, or nil when DeriveOntology reproduces o from the column.
func legacyTag(o legacy.Ontology) columnar.MetaData {
	switch o {
	case legacy.Numerical, legacy.Polynominal, legacy.String, legacy.FilePath, legacy.Binominal, legacy.Date:
		return reconcile.LegacyType{Ontology: o}
	default:
		return nil
	}
}

type realSink struct {
	buf *columnar.RealBuffer
	tag columnar.MetaData
}

func (s *realSink) set(row int, v float64) { s.buf.Set(row, v) }

func (s *realSink) build() (columnar.Column, columnar.MetaData) {
	return s.buf.ToColumn(), s.tag
}

// indexSink writes mapping index v as dictionary index v+1 into an index or
// packed buffer.
type indexSink struct {
	buf interface {
		SetIndex(i, index int)
	}
	finish func() columnar.Column
	tag    columnar.MetaData
}

func (s *indexSink) set(row int, v float64) {
	if math.IsNaN(v) {
		return
	}
	s.buf.SetIndex(row, int(v)+1)
}

func (s *indexSink) build() (columnar.Column, columnar.MetaData) {
	return s.finish(), s.tag
}

// fallbackSink resolves every value through the mapping and lets a
// categorical buffer build a fresh dictionary. It handles mappings with
// gaps or duplicate symbols.
type fallbackSink struct {
	mapping *legacy.NominalMapping
	buf     *columnar.CategoricalBuffer
	tag     columnar.MetaData
}

func (s *fallbackSink) set(row int, v float64) {
	if math.IsNaN(v) {
		return
	}
	if value, ok := s.mapping.MapIndex(int(v)); ok {
		s.buf.Set(row, value)
	}
}

func (s *fallbackSink) build() (columnar.Column, columnar.MetaData) {
	return s.buf.ToColumn(), s.tag
}

func newNominalSink(m *legacy.NominalMapping, height int, tag columnar.MetaData) columnSink {
	if m == nil {
		m = legacy.NewNominalMapping()
	}
	if !m.HasGaps() && !m.HasDuplicates() {
		// a mapping without gaps or duplicates is a valid dictionary
		if dict, err := columnar.NewDictionary(m.Values()...); err == nil {
			buf := columnar.NewIndexBuffer(height, dict)
			return &indexSink{
				buf:    buf,
				finish: func() columnar.Column { return buf.ToColumn() },
				tag:    tag,
			}
		}
	}
	reason := "mapping_gaps"
	if m.HasDuplicates() {
		reason = "mapping_duplicates"
	}
	metrics.ObserveFallback(reason)
	return &fallbackSink{mapping: m, buf: columnar.NewCategoricalBuffer(height), tag: tag}
}

// newBinominalSink builds a packed boolean column with the negative symbol
// at index 1 and the positive at index 2. Mappings that cannot form a
// boolean dictionary take the nominal path, still tagged as binominal.
func newBinominalSink(m *legacy.NominalMapping, height int) columnSink {
	tag := legacyTag(legacy.Binominal)
	if m == nil {
		m = legacy.NewNominalMapping()
	}
	negative, hasNegative := m.NegativeString()
	positive, hasPositive := m.PositiveString()
	degenerate := m.Size() > 2 || m.HasDuplicates() ||
		(hasPositive && !hasNegative) ||
		(hasPositive && hasNegative && positive == negative)
	if degenerate {
		metrics.ObserveFallback("binominal_degenerate")
		return newNominalSink(m, height, tag)
	}

	var values []string
	positiveIndex := 0
	if hasNegative {
		values = append(values, negative)
	}
	if hasPositive {
		values = append(values, positive)
		positiveIndex = 2
	}
	dict, err := columnar.NewBooleanDictionary(values, positiveIndex)
	if err != nil {
		return newNominalSink(m, height, tag)
	}
	// boolean dictionaries never exceed the packed range
	buf, _ := columnar.NewPackedBuffer(height, dict)
	return &indexSink{
		buf:    buf,
		finish: func() columnar.Column { return buf.ToColumn() },
		tag:    tag,
	}
}

type dateTimeSink struct {
	buf *columnar.DateTimeBuffer
	tag columnar.MetaData
}

func (s *dateTimeSink) set(row int, v float64) {
	if in, ok := reconcile.InstantFromMillis(v); ok {
		s.buf.Set(row, in)
	}
}

func (s *dateTimeSink) build() (columnar.Column, columnar.MetaData) {
	return s.buf.ToColumn(), s.tag
}

type timeSink struct {
	buf  *columnar.TimeBuffer
	zone config.ZoneProvider
}

func (s *timeSink) set(row int, v float64) {
	if nanos, ok := reconcile.LegacyToNanosOfDay(v, s.zone); ok {
		s.setNanos(row, nanos)
	}
}

// setNanos stores nanos at row; a value outside the day is stored as
// missing.
func (s *timeSink) setNanos(row int, nanos int64) {
	if err := s.buf.Set(row, nanos); err != nil {
		s.buf.SetMissing(row)
		metrics.ObserveFallback("time_out_of_range")
	}
}

func (s *timeSink) build() (columnar.Column, columnar.MetaData) {
	return s.buf.ToColumn(), nil
}
