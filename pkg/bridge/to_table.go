package bridge

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ajitpratap0/tablebridge/pkg/columnar"
	"github.com/ajitpratap0/tablebridge/pkg/cowtable"
	"github.com/ajitpratap0/tablebridge/pkg/legacy"
	"github.com/ajitpratap0/tablebridge/pkg/metrics"
	"github.com/ajitpratap0/tablebridge/pkg/nebulaerrors"
	"github.com/ajitpratap0/tablebridge/pkg/observability"
)

// ToTable converts set into a columnar table with one column per attribute,
// in attribute order. Special attributes get their role tags, ontologies
// that the column type does not reproduce get a LegacyType tag, and
// metadata stored by ToExampleSet is reattached.
//
// When set is a view of an unmaterialized lazy table, columns the set did
// not change are taken from the wrapped table without copying.
func (c *Converter) ToTable(ctx context.Context, set *legacy.ExampleSet) (table *columnar.Table, err error) {
	if set == nil {
		return nil, nebulaerrors.InvalidArgument("example set")
	}
	log := c.logFor(ctx)
	entries := set.Attributes().All()
	height := set.Size()

	_, span := observability.StartSpan(ctx, "bridge.to_table",
		attribute.Int("rows", height),
		attribute.Int("attributes", len(entries)))
	timer := metrics.NewTimer("to_table")
	strategy := c.strategyFor(set, log)
	defer func() {
		observability.EndSpan(span, err)
		metrics.ObserveConversion("to_table", strategy.String(), timer.Stop(), err)
	}()

	columns := reusableColumns(set, entries)
	tags := make([]columnar.MetaData, len(entries))

	var (
		pending []*legacy.Attribute
		targets []int
		sinks   []columnSink
	)
	for i, e := range entries {
		if columns[i] != nil {
			tags[i] = legacyTag(e.Attribute.Ontology())
			continue
		}
		sink, err := newSink(e.Attribute, height, c.zone)
		if err != nil {
			return nil, err
		}
		pending = append(pending, e.Attribute)
		targets = append(targets, i)
		sinks = append(sinks, sink)
	}

	if err := c.fill(strategy, set, pending, sinks); err != nil {
		return nil, err
	}
	for j, i := range targets {
		columns[i], tags[i] = sinks[j].build()
	}

	if reused := len(entries) - len(pending); reused > 0 {
		if rows := set.TableRows(); rows != nil {
			copied := make([]bool, len(entries))
			for _, i := range targets {
				copied[i] = true
			}
			for i, col := range columns {
				if !copied[i] {
					columns[i] = col.Map(rows)
				}
			}
		}
		metrics.ObserveReuse(reused)
		log.Debug("reused columns of lazy table",
			zap.Int("reused", reused),
			zap.Int("copied", len(pending)))
	}

	return assemble(set, entries, columns, tags)
}

// reusableColumns returns, per entry, the source column that can stand in
// for the attribute unchanged, or nil.
func reusableColumns(set *legacy.ExampleSet, entries []legacy.AttributeRole) []columnar.Column {
	columns := make([]columnar.Column, len(entries))
	lazy, ok := set.Table().(*cowtable.Table)
	if !ok {
		return columns
	}
	source, ok := lazy.Snapshot()
	if !ok {
		return columns
	}
	for i, e := range entries {
		columns[i] = reusableColumn(source, e.Attribute)
	}
	return columns
}

// reusableColumn returns the column of source backing a if building a
// column for a would reproduce it.
func reusableColumn(source *columnar.Table, a *legacy.Attribute) columnar.Column {
	idx := a.TableIndex()
	if a.HasTransformations() || idx < 0 || idx >= source.Width() {
		return nil
	}
	col := source.Column(idx)
	var same bool
	switch o := a.Ontology(); {
	case o == legacy.Real || o == legacy.Numerical:
		same = col.Type() == columnar.TypeReal
	case o == legacy.Integer:
		same = col.Type() == columnar.TypeInteger53Bit
	case o == legacy.Binominal:
		cat, ok := col.(*columnar.CategoricalColumn)
		same = ok && cat.Dictionary().IsBoolean() && sameSymbols(cat.Dictionary(), a.Mapping())
	case o.IsNominal():
		cat, ok := col.(*columnar.CategoricalColumn)
		same = ok && !cat.Dictionary().IsBoolean() && sameSymbols(cat.Dictionary(), a.Mapping())
	case o == legacy.Date:
		dt, ok := col.(*columnar.DateTimeColumn)
		same = ok && dt.Precision() == columnar.Seconds
	case o == legacy.DateTime:
		same = col.Type() == columnar.TypeDateTime
	case o == legacy.Time:
		same = col.Type() == columnar.TypeTime
	}
	if !same {
		return nil
	}
	return col
}

// sameSymbols reports whether mapping index i names dictionary index i+1
// for every index.
func sameSymbols(dict *columnar.Dictionary, m *legacy.NominalMapping) bool {
	if m == nil || dict.HasGaps() || dict.Size() != m.Size() || m.HasGaps() {
		return false
	}
	for i, v := range m.Values() {
		if s, _ := dict.Get(i + 1); s != v {
			return false
		}
	}
	return true
}

func assemble(set *legacy.ExampleSet, entries []legacy.AttributeRole, columns []columnar.Column, tags []columnar.MetaData) (*columnar.Table, error) {
	stored := storedMetaData(set)
	var prediction string
	if p := set.Attributes().Special(columnar.RolePrediction.String()); p != nil {
		prediction = p.Name()
	}

	b := columnar.NewTableBuilder(set.Size())
	for i, e := range entries {
		name := e.Attribute.Name()
		b.Add(name, columns[i])

		var md []columnar.MetaData
		if e.IsSpecial() {
			md = append(md, roleMetaData(e.Special, prediction, stored[name])...)
		}
		if tags[i] != nil {
			md = append(md, tags[i])
		}
		md = append(md, passthrough(stored[name])...)
		if len(md) > 0 {
			b.AddMetaData(name, md...)
		}
	}
	table, err := b.Build()
	if err != nil {
		return nil, nebulaerrors.Wrap(err, nebulaerrors.ErrorTypeInvalidArgument, "assembling table")
	}
	return table, nil
}
