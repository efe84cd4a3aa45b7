package legacy

import (
	"github.com/ajitpratap0/tablebridge/pkg/nebulaerrors"
)

// AttributeRole pairs an attribute with its special role name. Regular
// attributes have an empty role.
type AttributeRole struct {
	Attribute *Attribute
	Special   string
}

// IsSpecial reports whether the entry carries a role.
func (r AttributeRole) IsSpecial() bool { return r.Special != "" }

// Attributes is the ordered list of regular and special attributes of an
// example set. Special role names are unique; a duplicate is rejected and
// never renamed here.
type Attributes struct {
	entries []AttributeRole
}

// NewAttributes creates an empty list.
func NewAttributes() *Attributes {
	return &Attributes{}
}

// AddRegular appends a regular attribute.
func (as *Attributes) AddRegular(a *Attribute) {
	as.entries = append(as.entries, AttributeRole{Attribute: a})
}

// AddSpecial appends an attribute with the given role.
func (as *Attributes) AddSpecial(a *Attribute, role string) error {
	if role == "" {
		as.AddRegular(a)
		return nil
	}
	if as.Special(role) != nil {
		return nebulaerrors.Newf(nebulaerrors.ErrorTypeInvalidArgument,
			"special role %q is already taken", role).
			WithDetail("role", role).
			WithDetail("attribute", a.Name())
	}
	as.entries = append(as.entries, AttributeRole{Attribute: a, Special: role})
	return nil
}

// Remove drops the entry holding a and reports whether it existed.
func (as *Attributes) Remove(a *Attribute) bool {
	for i, e := range as.entries {
		if e.Attribute == a {
			as.entries = append(as.entries[:i], as.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Size returns the number of attributes, regular and special.
func (as *Attributes) Size() int { return len(as.entries) }

// All returns all entries in insertion order.
func (as *Attributes) All() []AttributeRole {
	out := make([]AttributeRole, len(as.entries))
	copy(out, as.entries)
	return out
}

// Regular returns the regular attributes in order.
func (as *Attributes) Regular() []*Attribute {
	var out []*Attribute
	for _, e := range as.entries {
		if !e.IsSpecial() {
			out = append(out, e.Attribute)
		}
	}
	return out
}

// Get returns the attribute with the given name.
func (as *Attributes) Get(name string) *Attribute {
	for _, e := range as.entries {
		if e.Attribute.Name() == name {
			return e.Attribute
		}
	}
	return nil
}

// Special returns the attribute holding role.
func (as *Attributes) Special(role string) *Attribute {
	for _, e := range as.entries {
		if e.Special == role {
			return e.Attribute
		}
	}
	return nil
}

// Role returns the role of a, or the empty string.
func (as *Attributes) Role(a *Attribute) string {
	for _, e := range as.entries {
		if e.Attribute == a {
			return e.Special
		}
	}
	return ""
}

// Clone returns a list with its own entries sharing the attributes.
func (as *Attributes) Clone() *Attributes {
	return &Attributes{entries: as.All()}
}
