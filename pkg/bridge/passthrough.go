package bridge

import (
	"github.com/ajitpratap0/tablebridge/pkg/columnar"
	"github.com/ajitpratap0/tablebridge/pkg/legacy"
	"github.com/ajitpratap0/tablebridge/pkg/reconcile"
)

// StoredMetaData is the metadata of a table, by column label, kept in the
// user data of a converted example set under MetaDataKey.
type StoredMetaData map[string][]columnar.MetaData

func storeMetaData(table *columnar.Table) StoredMetaData {
	stored := make(StoredMetaData, table.Width())
	for _, label := range table.Labels() {
		if md := table.MetaData(label); len(md) > 0 {
			stored[label] = md
		}
	}
	return stored
}

func storedMetaData(set *legacy.ExampleSet) StoredMetaData {
	v, ok := set.UserData(MetaDataKey)
	if !ok {
		return nil
	}
	stored, _ := v.(StoredMetaData)
	return stored
}

// recomputed reports whether tags of type typ are rebuilt by every
// conversion instead of being carried over.
func recomputed(typ string) bool {
	switch typ {
	case columnar.RoleType, columnar.ColumnReferenceType, reconcile.LegacyTypeType, reconcile.LegacyRoleType:
		return true
	default:
		return false
	}
}

// passthrough returns the stored tags that are carried over unchanged, in
// their original order.
func passthrough(stored []columnar.MetaData) []columnar.MetaData {
	var out []columnar.MetaData
	for _, md := range stored {
		if !recomputed(md.MetaDataType()) {
			out = append(out, md)
		}
	}
	return out
}
