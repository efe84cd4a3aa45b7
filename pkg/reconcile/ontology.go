// Package reconcile maps columnar column types to legacy ontologies and
// back, and converts temporal values between the two representations.
package reconcile

import (
	"github.com/ajitpratap0/tablebridge/pkg/columnar"
	"github.com/ajitpratap0/tablebridge/pkg/legacy"
	"github.com/ajitpratap0/tablebridge/pkg/nebulaerrors"
)

// Metadata type identifiers of the legacy tags.
const (
	LegacyTypeType = "legacy_type"
	LegacyRoleType = "legacy_role"
)

// LegacyType records an ontology that DeriveOntology would not reproduce
// from the column alone.
type LegacyType struct {
	Ontology legacy.Ontology
}

// MetaDataType implements columnar.MetaData.
func (LegacyType) MetaDataType() string { return LegacyTypeType }

// LegacyRole records a legacy role name without a columnar role, or a
// suffixed variant of one.
type LegacyRole struct {
	Role string
}

// MetaDataType implements columnar.MetaData.
func (LegacyRole) MetaDataType() string { return LegacyRoleType }

// DeriveOntology returns the ontology a column maps to without any legacy
// tag. Categorical columns map to Binominal when their dictionary is
// boolean, unless it has a positive but no negative value.
func DeriveOntology(label string, col columnar.Column) (legacy.Ontology, error) {
	switch col.Type() {
	case columnar.TypeInteger53Bit:
		return legacy.Integer, nil
	case columnar.TypeReal:
		return legacy.Real, nil
	case columnar.TypeDateTime:
		return legacy.DateTime, nil
	case columnar.TypeTime:
		return legacy.Time, nil
	case columnar.TypeNominal:
		if cat, ok := col.(*columnar.CategoricalColumn); ok && isBinominal(cat.Dictionary()) {
			return legacy.Binominal, nil
		}
		return legacy.Nominal, nil
	default:
		return -1, nebulaerrors.UnsupportedColumnType(label, typeName(col))
	}
}

func typeName(col columnar.Column) string {
	if obj, ok := col.(*columnar.ObjectColumn); ok && obj.TypeName() != "" {
		return obj.TypeName()
	}
	return col.Type().String()
}

func isBinominal(dict *columnar.Dictionary) bool {
	return dict.IsBoolean() && !(dict.HasPositive() && !dict.HasNegative())
}

func noNegativeBoolean(dict *columnar.Dictionary) bool {
	return dict.IsBoolean() && !dict.HasNegative()
}

// ResolveOverride reports whether a recorded legacy ontology may replace the
// derived one. The rules are checked in order:
//
//  1. derived Integer and Binominal are never replaced
//  2. legacy Binominal replaces derived Nominal only for dictionaries of at
//     most two values that are not a boolean without negative value
//  3. legacy replaces a derived subtype of itself, except that a derived
//     Time is only replaced by Time and AttributeValue never replaces
//  4. any nominal subtype replaces another nominal subtype
//  5. legacy Time or Date replaces derived DateTime
func ResolveOverride(recorded, derived legacy.Ontology, col columnar.Column) bool {
	if derived == legacy.Integer || derived == legacy.Binominal {
		return false
	}
	if recorded == legacy.Binominal {
		if derived != legacy.Nominal {
			return false
		}
		cat, ok := col.(*columnar.CategoricalColumn)
		return ok && cat.Dictionary().Size() <= 2 && !noNegativeBoolean(cat.Dictionary())
	}
	if recorded != legacy.AttributeValue && legacy.IsA(derived, recorded) &&
		!(derived == legacy.Time && recorded != legacy.Time) {
		return true
	}
	if recorded.IsNominal() && derived.IsNominal() {
		return true
	}
	if derived == legacy.DateTime && (recorded == legacy.Time || recorded == legacy.Date) {
		return true
	}
	return false
}

// EffectiveOntology returns the ontology of the column labeled label: the
// recorded LegacyType if ResolveOverride accepts it, the derived ontology
// otherwise.
func EffectiveOntology(table *columnar.Table, label string) (legacy.Ontology, error) {
	col, ok := table.ColumnByLabel(label)
	if !ok {
		return -1, nebulaerrors.Newf(nebulaerrors.ErrorTypeInvalidArgument, "unknown column %q", label)
	}
	derived, err := DeriveOntology(label, col)
	if err != nil {
		return -1, err
	}
	if recorded, ok := columnar.FirstMetaDataOf[LegacyType](table, label); ok &&
		ResolveOverride(recorded.Ontology, derived, col) {
		return recorded.Ontology, nil
	}
	return derived, nil
}
