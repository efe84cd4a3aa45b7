package bridge

import (
	"strconv"
	"strings"

	"github.com/ajitpratap0/tablebridge/pkg/columnar"
	"github.com/ajitpratap0/tablebridge/pkg/reconcile"
)

// confidence is the legacy name of the score role. A score qualified by a
// prediction value v is named confidence_v.
const confidence = "confidence"

var rolesByName = func() map[string]columnar.ColumnRole {
	m := make(map[string]columnar.ColumnRole)
	for _, r := range columnar.Roles() {
		if r != columnar.RoleScore {
			m[r.String()] = r
		}
	}
	return m
}()

// legacyRoleName returns the special name a column maps to before collision
// handling: its LegacyRole tag, else the canonical name of its role.
func legacyRoleName(table *columnar.Table, label string) (string, bool) {
	if lr, ok := columnar.FirstMetaDataOf[reconcile.LegacyRole](table, label); ok {
		return lr.Role, true
	}
	role, ok := columnar.FirstMetaDataOf[columnar.ColumnRole](table, label)
	if !ok {
		return "", false
	}
	if role != columnar.RoleScore {
		return role.String(), true
	}
	if ref, ok := columnar.FirstMetaDataOf[columnar.ColumnReference](table, label); ok {
		if value, ok := ref.Value(); ok {
			return confidence + "_" + value, true
		}
	}
	return confidence, true
}

// roleNamer hands out unique special names. The first request for a name
// gets it unchanged, later ones get _2, _3 and so on.
type roleNamer struct {
	used map[string]bool
	next map[string]int
}

func newRoleNamer() *roleNamer {
	return &roleNamer{used: make(map[string]bool), next: make(map[string]int)}
}

func (n *roleNamer) name(base string) string {
	if !n.used[base] {
		n.used[base] = true
		return base
	}
	k := n.next[base]
	if k < 2 {
		k = 2
	}
	for ; ; k++ {
		candidate := base + "_" + strconv.Itoa(k)
		if !n.used[candidate] {
			n.used[candidate] = true
			n.next[base] = k + 1
			return candidate
		}
	}
}

// parsedRole is the columnar reading of a legacy special name.
type parsedRole struct {
	role columnar.ColumnRole
	// legacyRole is set when the name is not the canonical name of role
	legacyRole string
	qualifier  string
	qualified  bool
}

func parseRoleName(name string) parsedRole {
	if name == confidence {
		return parsedRole{role: columnar.RoleScore}
	}
	if value, ok := strings.CutPrefix(name, confidence+"_"); ok {
		return parsedRole{role: columnar.RoleScore, qualifier: value, qualified: true}
	}
	if role, ok := rolesByName[name]; ok {
		return parsedRole{role: role}
	}
	if i := strings.LastIndexByte(name, '_'); i > 0 {
		if k, err := strconv.Atoi(name[i+1:]); err == nil && k >= 2 {
			if role, ok := rolesByName[name[:i]]; ok {
				return parsedRole{role: role, legacyRole: name}
			}
		}
	}
	return parsedRole{role: columnar.RoleMetadata, legacyRole: name}
}

// roleMetaData returns the role tags of a special attribute. prediction is
// the label of the prediction column or empty; stored is the metadata kept
// from an earlier conversion of the column.
func roleMetaData(special, prediction string, stored []columnar.MetaData) []columnar.MetaData {
	p := parseRoleName(special)
	md := []columnar.MetaData{p.role}
	if p.legacyRole != "" {
		md = append(md, reconcile.LegacyRole{Role: p.legacyRole})
	}
	if p.role != columnar.RoleScore {
		return md
	}

	var previous *columnar.ColumnReference
	for _, m := range stored {
		if ref, ok := m.(columnar.ColumnReference); ok {
			previous = &ref
			break
		}
	}
	qualifier, qualified := p.qualifier, p.qualified
	if previous != nil {
		if value, ok := previous.Value(); ok {
			qualifier, qualified = value, true
		}
	}
	switch {
	case prediction != "" && qualified:
		md = append(md, columnar.NewQualifiedColumnReference(prediction, qualifier))
	case prediction != "":
		md = append(md, columnar.NewColumnReference(prediction))
	}
	return md
}
