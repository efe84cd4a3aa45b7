package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/ajitpratap0/tablebridge/pkg/bridge"
	"github.com/ajitpratap0/tablebridge/pkg/config"
	"github.com/ajitpratap0/tablebridge/pkg/cowtable"
	"github.com/ajitpratap0/tablebridge/pkg/legacy"
	"github.com/ajitpratap0/tablebridge/pkg/metrics"
	"github.com/ajitpratap0/tablebridge/pkg/reconcile"
)

type benchOptions struct {
	Rows       int
	Iterations int
}

// Measurement summarizes the repetitions of one conversion path.
type Measurement struct {
	Name          string  `json:"name"`
	Iterations    int     `json:"iterations"`
	MinMillis     float64 `json:"min_ms"`
	MeanMillis    float64 `json:"mean_ms"`
	RowsPerSecond float64 `json:"rows_per_second"`
}

// Report is the JSON document printed by the run command.
type Report struct {
	Rows         int           `json:"rows"`
	Columns      int           `json:"columns"`
	Workers      int           `json:"workers"`
	Zone         string        `json:"zone"`
	Strategy     string        `json:"selected_strategy"`
	Measurements []Measurement `json:"measurements"`
}

func (r *Report) write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func runBenchmark(ctx context.Context, cfg *config.BridgeConfig, zone config.ZoneProvider, opts benchOptions, log *zap.Logger) (*Report, error) {
	if opts.Rows <= 0 {
		return nil, fmt.Errorf("rows must be positive, got %d", opts.Rows)
	}
	if opts.Iterations <= 0 {
		opts.Iterations = 1
	}

	set := syntheticSet(opts.Rows, zone)
	conv := bridge.NewConverterFromConfig(cfg, zone, bridge.WithLogger(log))
	report := &Report{
		Rows:     opts.Rows,
		Columns:  set.Attributes().Size(),
		Workers:  cfg.Conversion.GetWorkers(),
		Zone:     zone.Location().String(),
		Strategy: bridge.SelectStrategy(set).String(),
	}
	add := func(m Measurement, err error) error {
		if err != nil {
			return fmt.Errorf("%s: %w", m.Name, err)
		}
		log.Info("measured", zap.String("name", m.Name), zap.Float64("mean_ms", m.MeanMillis))
		report.Measurements = append(report.Measurements, m)
		return nil
	}

	for _, s := range []bridge.Strategy{bridge.Direct, bridge.ParallelRow, bridge.Sequential} {
		forced := bridge.NewConverterFromConfig(cfg, zone,
			bridge.WithLogger(log),
			bridge.WithForcedStrategy(s))
		err := add(measure("to_table/"+s.String(), opts, func() (time.Duration, error) {
			timer := metrics.NewTimer(s.String())
			_, err := forced.ToTable(ctx, set)
			return timer.Stop(), err
		}))
		if err != nil {
			return nil, err
		}
	}

	table, err := conv.ToTable(ctx, set)
	if err != nil {
		return nil, err
	}
	for _, mode := range []struct {
		name string
		opt  bridge.SetOption
	}{{"eager", bridge.Eager()}, {"lazy", bridge.Lazy()}} {
		err := add(measure("to_example_set/"+mode.name, opts, func() (time.Duration, error) {
			timer := metrics.NewTimer(mode.name)
			_, err := conv.ToExampleSet(ctx, table, mode.opt)
			return timer.Stop(), err
		}))
		if err != nil {
			return nil, err
		}
	}

	lazy, err := conv.ToExampleSet(ctx, table, bridge.Lazy())
	if err != nil {
		return nil, err
	}
	err = add(measure("lazy_read", opts, func() (time.Duration, error) {
		timer := metrics.NewTimer("lazy_read")
		sweep(lazy)
		return timer.Stop(), nil
	}))
	if err != nil {
		return nil, err
	}

	err = add(measure("to_table/lazy_reuse", opts, func() (time.Duration, error) {
		timer := metrics.NewTimer("lazy_reuse")
		_, err := conv.ToTable(ctx, lazy)
		return timer.Stop(), err
	}))
	if err != nil {
		return nil, err
	}

	err = add(measure("materialize", opts, func() (time.Duration, error) {
		fresh, err := conv.ToExampleSet(ctx, table, bridge.Lazy())
		if err != nil {
			return 0, err
		}
		first := fresh.Attributes().All()[0].Attribute
		timer := metrics.NewTimer("materialize")
		fresh.Set(0, first, 1)
		d := timer.Stop()
		if t, ok := fresh.Table().(*cowtable.Table); ok && t.Phase() != cowtable.Materialized {
			return d, fmt.Errorf("table still %s after a write", t.Phase())
		}
		return d, nil
	}))
	if err != nil {
		return nil, err
	}
	return report, nil
}

func measure(name string, opts benchOptions, fn func() (time.Duration, error)) (Measurement, error) {
	m := Measurement{Name: name, Iterations: opts.Iterations}
	minimum := time.Duration(math.MaxInt64)
	var total time.Duration
	for i := 0; i < opts.Iterations; i++ {
		d, err := fn()
		if err != nil {
			return m, err
		}
		total += d
		minimum = min(minimum, d)
	}
	mean := total / time.Duration(opts.Iterations)
	m.MinMillis = float64(minimum) / float64(time.Millisecond)
	m.MeanMillis = float64(mean) / float64(time.Millisecond)
	if mean > 0 {
		m.RowsPerSecond = float64(opts.Rows) / mean.Seconds()
	}
	return m, nil
}

func sweep(set *legacy.ExampleSet) float64 {
	var sum float64
	attrs := set.Attributes().All()
	for r := 0; r < set.Size(); r++ {
		for _, e := range attrs {
			if v := set.Get(r, e.Attribute); !math.IsNaN(v) {
				sum += v
			}
		}
	}
	return sum
}

var cities = []string{"Berlin", "Lisbon", "Osaka", "Quito", "Tromso", "Windhoek"}

// syntheticSet builds an example set over a legacy column table with one
// attribute of every convertible kind and a nominal label. Every seventh row
// is missing.
func syntheticSet(rows int, zone config.ZoneProvider) *legacy.ExampleSet {
	type column struct {
		name     string
		ontology legacy.Ontology
		mapping  *legacy.NominalMapping
		special  string
		value    func(r int) float64
	}
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	columns := []column{
		{name: "amount", ontology: legacy.Real, value: func(r int) float64 { return float64(r) * 0.25 }},
		{name: "count", ontology: legacy.Integer, value: func(r int) float64 { return float64(r % 1000) }},
		{name: "city", ontology: legacy.Polynominal, mapping: legacy.NewNominalMapping(cities...),
			value: func(r int) float64 { return float64(r % len(cities)) }},
		{name: "active", ontology: legacy.Binominal, mapping: legacy.NewBinominalMapping("false", "true"),
			value: func(r int) float64 { return float64(r % 2) }},
		{name: "day", ontology: legacy.Date, value: func(r int) float64 {
			return float64(base.AddDate(0, 0, r%3650).UnixMilli())
		}},
		{name: "clock", ontology: legacy.Time, value: func(r int) float64 {
			return reconcile.NanosOfDayToLegacy(int64(r%86400)*int64(time.Second), zone)
		}},
		{name: "outcome", ontology: legacy.Binominal, mapping: legacy.NewBinominalMapping("no", "yes"), special: "label",
			value: func(r int) float64 { return float64(r % 3 % 2) }},
	}

	data := legacy.NewColumnTable(rows, len(columns))
	attrs := legacy.NewAttributes()
	for i, c := range columns {
		values := make([]float64, rows)
		for r := range values {
			if r%7 == 6 {
				values[r] = math.NaN()
				continue
			}
			values[r] = c.value(r)
		}
		data.SetColumn(i, values)

		a := legacy.NewAttribute(c.name, c.ontology)
		a.SetTableIndex(i)
		if c.mapping != nil {
			a.SetMapping(c.mapping)
		}
		if c.special == "" {
			attrs.AddRegular(a)
			continue
		}
		// names are fixed above and cannot collide
		_ = attrs.AddSpecial(a, c.special)
	}
	return legacy.NewExampleSet(data, attrs)
}
