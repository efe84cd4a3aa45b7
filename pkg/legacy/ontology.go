package legacy

import (
	"fmt"
	"strings"
)

// Ontology is the value type of a legacy attribute. Ontologies form a tree
// rooted at AttributeValue:
//
//	AttributeValue
//	├── Nominal: String, Binominal, Polynominal, FilePath
//	├── Numerical: Integer, Real
//	└── DateTime: Date, Time
type Ontology int

const (
	AttributeValue Ontology = iota
	Nominal
	Numerical
	Integer
	Real
	String
	Binominal
	Polynominal
	FilePath
	DateTime
	Date
	Time
)

var ontologyNames = [...]string{
	AttributeValue: "attribute_value",
	Nominal:        "nominal",
	Numerical:      "numeric",
	Integer:        "integer",
	Real:           "real",
	String:         "text",
	Binominal:      "binominal",
	Polynominal:    "polynominal",
	FilePath:       "file_path",
	DateTime:       "date_time",
	Date:           "date",
	Time:           "time",
}

var ontologyParents = [...]Ontology{
	AttributeValue: -1,
	Nominal:        AttributeValue,
	Numerical:      AttributeValue,
	Integer:        Numerical,
	Real:           Numerical,
	String:         Nominal,
	Binominal:      Nominal,
	Polynominal:    Nominal,
	FilePath:       Nominal,
	DateTime:       AttributeValue,
	Date:           DateTime,
	Time:           DateTime,
}

func (o Ontology) valid() bool {
	return o >= 0 && int(o) < len(ontologyNames)
}

func (o Ontology) String() string {
	if !o.valid() {
		return fmt.Sprintf("ontology(%d)", int(o))
	}
	return ontologyNames[o]
}

// Parent returns the direct super type, or -1 for AttributeValue.
func (o Ontology) Parent() Ontology {
	if !o.valid() {
		return -1
	}
	return ontologyParents[o]
}

// IsA reports whether sub equals super or descends from it.
func IsA(sub, super Ontology) bool {
	for o := sub; o.valid(); o = ontologyParents[o] {
		if o == super {
			return true
		}
	}
	return false
}

// IsNominal reports whether o is Nominal or one of its subtypes.
func (o Ontology) IsNominal() bool { return IsA(o, Nominal) }

// IsNumerical reports whether o is Numerical or one of its subtypes.
func (o Ontology) IsNumerical() bool { return IsA(o, Numerical) }

// IsDateTime reports whether o is DateTime or one of its subtypes.
func (o Ontology) IsDateTime() bool { return IsA(o, DateTime) }

// ParseOntology is the inverse of String. Matching ignores case.
func ParseOntology(s string) (Ontology, error) {
	for i, name := range ontologyNames {
		if strings.EqualFold(name, s) {
			return Ontology(i), nil
		}
	}
	return -1, fmt.Errorf("unknown ontology %q", s)
}
