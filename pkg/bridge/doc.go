// Package bridge converts between legacy example sets and columnar tables.
//
// # Example set to table
//
// ToTable builds one column per attribute. How the legacy values are read
// depends on the backing DataTable, see SelectStrategy:
//
//   - Direct reads whole columns of a legacy.ColumnSource, one task per column
//   - ParallelRow reads through the row API, one task per column
//   - Sequential sweeps the rows once on the calling goroutine
//
// All three produce identical tables. Sets backed by an unmaterialized
// cowtable.Table reuse the wrapped columns where the attribute still matches
// them.
//
// # Table to example set
//
// ToExampleSet normalizes categorical columns, derives each attribute's
// ontology with reconcile.EffectiveOntology and either copies the values
// (the default) or wraps the table lazily:
//
//	conv := bridge.NewConverter(bridge.WithZone(zone))
//	set, err := conv.ToExampleSet(ctx, table, bridge.Lazy())
//	if err != nil {
//	    return err
//	}
//	back, err := conv.ToTable(ctx, set)
//
// Roles map to special attribute names: the score role is named
// "confidence", or "confidence_<value>" when it references a value of the
// prediction column, all other roles use their own name. Names that have no
// role, or that were made unique by a suffix, are kept in a LegacyRole tag
// on the way back.
//
// # Errors
//
// Nil inputs fail with ErrorTypeInvalidArgument before any work starts. An
// attribute or column without a mapping fails the whole call with
// ErrorTypeUnsupportedColumnType naming the column. Errors of column tasks
// are returned as they are.
package bridge
