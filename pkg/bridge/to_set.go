package bridge

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/ajitpratap0/tablebridge/pkg/columnar"
	"github.com/ajitpratap0/tablebridge/pkg/cowtable"
	"github.com/ajitpratap0/tablebridge/pkg/legacy"
	"github.com/ajitpratap0/tablebridge/pkg/metrics"
	"github.com/ajitpratap0/tablebridge/pkg/nebulaerrors"
	"github.com/ajitpratap0/tablebridge/pkg/observability"
	"github.com/ajitpratap0/tablebridge/pkg/parallel"
	"github.com/ajitpratap0/tablebridge/pkg/reconcile"
)

// ToExampleSet converts table into an example set with one attribute per
// column, in column order. Role tags become special attributes; repeated
// special names get _2, _3 and so on in column order. All metadata of
// table is kept in the set's user data under MetaDataKey.
//
// By default the values are copied into a legacy column table. With Lazy
// the set reads through a cowtable.Table wrapping the normalized table
// instead, and nothing is copied until the first write to an original
// column.
func (c *Converter) ToExampleSet(ctx context.Context, table *columnar.Table, opts ...SetOption) (set *legacy.ExampleSet, err error) {
	if table == nil {
		return nil, nebulaerrors.InvalidArgument("table")
	}
	o := setOptions{lazy: c.lazy}
	for _, opt := range opts {
		opt(&o)
	}
	mode := "eager"
	if o.lazy {
		mode = "lazy"
	}
	log := c.logFor(ctx)

	_, span := observability.StartSpan(ctx, "bridge.to_example_set",
		attribute.Int("rows", table.Height()),
		attribute.Int("columns", table.Width()),
		attribute.String("mode", mode))
	timer := metrics.NewTimer("to_example_set")
	defer func() {
		observability.EndSpan(span, err)
		metrics.ObserveConversion("to_example_set", mode, timer.Stop(), err)
	}()

	normalized, err := normalize(table, log)
	if err != nil {
		return nil, nebulaerrors.Wrap(err, nebulaerrors.ErrorTypeInternal, "normalizing categorical columns")
	}
	attrs, err := attributesOf(normalized)
	if err != nil {
		return nil, err
	}

	var data legacy.DataTable
	if o.lazy {
		data, err = cowtable.New(normalized, c.zone,
			cowtable.WithExecutor(c.executor),
			cowtable.WithLogger(log))
	} else {
		data, err = c.copyColumns(normalized)
	}
	if err != nil {
		return nil, err
	}

	set = legacy.NewExampleSet(data, attrs)
	set.SetUserData(MetaDataKey, storeMetaData(table))
	return set, nil
}

// attributesOf creates the attributes of a normalized table.
func attributesOf(table *columnar.Table) (*legacy.Attributes, error) {
	attrs := legacy.NewAttributes()
	names := newRoleNamer()
	for i, label := range table.Labels() {
		ontology, err := reconcile.EffectiveOntology(table, label)
		if err != nil {
			return nil, err
		}
		a := legacy.NewAttribute(label, ontology)
		a.SetTableIndex(i)
		if cat, ok := table.Column(i).(*columnar.CategoricalColumn); ok && ontology.IsNominal() {
			a.SetMapping(legacy.NewNominalMapping(cat.Dictionary().Values()...))
		}
		base, special := legacyRoleName(table, label)
		if !special {
			attrs.AddRegular(a)
			continue
		}
		if err := attrs.AddSpecial(a, names.name(base)); err != nil {
			return nil, err
		}
	}
	return attrs, nil
}

// copyColumns reads every column into a legacy column table, one task per
// column.
func (c *Converter) copyColumns(table *columnar.Table) (*legacy.ColumnTable, error) {
	height := table.Height()
	data := legacy.NewColumnTable(height, table.Width())
	tasks := make([]parallel.Task, table.Width())
	for i := range tasks {
		tasks[i] = func() error {
			read := reconcile.LegacyReader(table.Column(i), c.zone)
			values := make([]float64, height)
			for r := range values {
				values[r] = read(r)
			}
			data.SetColumn(i, values)
			return nil
		}
	}
	if err := c.executor.Run(tasks); err != nil {
		return nil, err
	}
	return data, nil
}
