package legacy

// Transformation rewrites a stored value on read.
type Transformation interface {
	Transform(v float64) float64
}

// TransformationFunc adapts a function to Transformation.
type TransformationFunc func(v float64) float64

// Transform calls f(v).
func (f TransformationFunc) Transform(v float64) float64 { return f(v) }

// Attribute describes one column of an example set: its name, value type,
// symbol mapping for nominal types and the position of its values in the
// underlying DataTable.
type Attribute struct {
	name            string
	ontology        Ontology
	mapping         *NominalMapping
	tableIndex      int
	transformations []Transformation
}

// NewAttribute creates an attribute not yet bound to a table column.
// Nominal attributes start with an empty mapping.
func NewAttribute(name string, ontology Ontology) *Attribute {
	a := &Attribute{name: name, ontology: ontology, tableIndex: -1}
	if ontology.IsNominal() {
		a.mapping = NewNominalMapping()
	}
	return a
}

func (a *Attribute) Name() string             { return a.name }
func (a *Attribute) SetName(name string)      { a.name = name }
func (a *Attribute) Ontology() Ontology       { return a.ontology }
func (a *Attribute) TableIndex() int          { return a.tableIndex }
func (a *Attribute) SetTableIndex(i int)      { a.tableIndex = i }
func (a *Attribute) IsNominal() bool          { return a.ontology.IsNominal() }
func (a *Attribute) IsNumerical() bool        { return a.ontology.IsNumerical() }
func (a *Attribute) IsDateTime() bool         { return a.ontology.IsDateTime() }
func (a *Attribute) Mapping() *NominalMapping { return a.mapping }

// SetMapping replaces the symbol mapping.
func (a *Attribute) SetMapping(m *NominalMapping) { a.mapping = m }

// AddTransformation appends a read transformation.
func (a *Attribute) AddTransformation(t Transformation) {
	a.transformations = append(a.transformations, t)
}

// ClearTransformations removes all read transformations.
func (a *Attribute) ClearTransformations() {
	a.transformations = nil
}

// HasTransformations reports whether reads are rewritten.
func (a *Attribute) HasTransformations() bool {
	return len(a.transformations) > 0
}

// Transform applies all transformations in order.
func (a *Attribute) Transform(v float64) float64 {
	for _, t := range a.transformations {
		v = t.Transform(v)
	}
	return v
}

// Clone returns a copy sharing nothing mutable with a.
func (a *Attribute) Clone() *Attribute {
	c := *a
	if a.mapping != nil {
		c.mapping = a.mapping.Clone()
	}
	c.transformations = append([]Transformation(nil), a.transformations...)
	return &c
}
