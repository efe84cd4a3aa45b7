// Package legacy provides the mutable, row-oriented attribute model that
// predates the columnar tables.
//
// An ExampleSet views a DataTable through Attributes. Every Attribute has a
// name, an Ontology, a NominalMapping for nominal types, and a table index
// pointing at its column in the DataTable. Attributes may carry a special
// role such as "label" or "id"; role names are unique within a set.
//
// Values are stored as float64. Nominal values are zero-based mapping
// indices, date-time values are epoch milliseconds, and NaN marks a missing
// value of any type.
//
// DataTable implementations declare whether they support concurrent reads
// through ConcurrentReader and may expose columns directly through
// ColumnSource. ColumnTable does both; RowTable is concurrently readable only
// when created with WithConcurrentReads.
package legacy
