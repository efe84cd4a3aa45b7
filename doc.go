// Package tablebridge connects immutable columnar tables with the legacy
// row-oriented example set framework.
//
// # Packages
//
//   - pkg/columnar: immutable tables, typed columns backed by Arrow arrays,
//     dictionaries, buffers and cursors
//   - pkg/legacy: ontologies, nominal mappings, attributes, data tables and
//     example sets
//   - pkg/reconcile: ontology derivation and override rules, temporal and
//     categorical value conversion
//   - pkg/bridge: the converters in both directions and the read strategy
//     selector
//   - pkg/cowtable: a legacy data table that reads through a columnar table
//     until the first write to one of its columns
//
// Supporting packages provide configuration (pkg/config), structured logging
// (pkg/logger), typed errors (pkg/nebulaerrors), Prometheus metrics
// (pkg/metrics), OpenTelemetry tracing (pkg/observability), task execution
// (pkg/parallel) and buffer pools (pkg/pool).
//
// # Quick Start
//
//	conv := bridge.NewConverter()
//	table, err := conv.ToTable(ctx, set)
//	if err != nil {
//	    return err
//	}
//	lazy, err := conv.ToExampleSet(ctx, table, bridge.Lazy())
//
// cmd/bridgebench measures every conversion path on a synthetic data set:
//
//	bridgebench run --rows 100000 --iterations 5
package tablebridge
