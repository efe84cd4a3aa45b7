package columnar

import "fmt"

// MetaData is a tag attached to a column label. Tags of one label are kept
// in insertion order.
type MetaData interface {
	// MetaDataType identifies the kind of tag. At most the first tag of a
	// kind is consulted by FirstMetaData.
	MetaDataType() string
}

// Metadata type identifiers of the built-in tags.
const (
	RoleType            = "role"
	ColumnReferenceType = "column_reference"
	AnnotationType      = "annotation"
)

// ColumnRole marks the function of a column.
type ColumnRole int

const (
	RoleLabel ColumnRole = iota
	RoleID
	RolePrediction
	RoleScore
	RoleCluster
	RoleOutlier
	RoleWeight
	RoleBatch
	RoleSource
	RoleEncoding
	RoleInterpretation
	RoleMetadata
)

var roleNames = [...]string{
	RoleLabel:          "label",
	RoleID:             "id",
	RolePrediction:     "prediction",
	RoleScore:          "score",
	RoleCluster:        "cluster",
	RoleOutlier:        "outlier",
	RoleWeight:         "weight",
	RoleBatch:          "batch",
	RoleSource:         "source",
	RoleEncoding:       "encoding",
	RoleInterpretation: "interpretation",
	RoleMetadata:       "metadata",
}

// Roles returns every role in declaration order.
func Roles() []ColumnRole {
	out := make([]ColumnRole, len(roleNames))
	for i := range roleNames {
		out[i] = ColumnRole(i)
	}
	return out
}

func (r ColumnRole) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return fmt.Sprintf("role(%d)", int(r))
	}
	return roleNames[r]
}

// MetaDataType implements MetaData.
func (ColumnRole) MetaDataType() string { return RoleType }

// ColumnReference points from a column to another column, e.g. a score
// column to its prediction. A qualified reference additionally names a value
// of the referenced column.
type ColumnReference struct {
	column    string
	value     string
	qualified bool
}

// NewColumnReference references column without a value.
func NewColumnReference(column string) ColumnReference {
	return ColumnReference{column: column}
}

// NewQualifiedColumnReference references value of column.
func NewQualifiedColumnReference(column, value string) ColumnReference {
	return ColumnReference{column: column, value: value, qualified: true}
}

// Column returns the referenced column label.
func (r ColumnReference) Column() string { return r.column }

// Value returns the qualifying value, if any.
func (r ColumnReference) Value() (string, bool) { return r.value, r.qualified }

// MetaDataType implements MetaData.
func (ColumnReference) MetaDataType() string { return ColumnReferenceType }

// ColumnAnnotation is a free-text note on a column.
type ColumnAnnotation struct {
	Text string
}

// MetaDataType implements MetaData.
func (ColumnAnnotation) MetaDataType() string { return AnnotationType }
