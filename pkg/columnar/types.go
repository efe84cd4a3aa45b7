package columnar

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow/memory"
)

// mem backs every arrow array created by this package. The Go allocator is
// garbage collected, so arrays handed out by columns are never released
// explicitly; builders are.
var mem memory.Allocator = memory.NewGoAllocator()

// ColumnType represents the physical type of a column
type ColumnType int

const (
	// TypeReal holds double precision values; missing is NaN
	TypeReal ColumnType = iota
	// TypeInteger53Bit holds integral doubles; missing is NaN
	TypeInteger53Bit
	// TypeNominal holds dictionary indices; missing is index 0
	TypeNominal
	// TypeDateTime holds instants with second or nanosecond precision
	TypeDateTime
	// TypeTime holds nanoseconds of day
	TypeTime
	// TypeObject holds opaque values without a legacy mapping
	TypeObject
)

func (t ColumnType) String() string {
	switch t {
	case TypeReal:
		return "real"
	case TypeInteger53Bit:
		return "integer_53_bit"
	case TypeNominal:
		return "nominal"
	case TypeDateTime:
		return "date_time"
	case TypeTime:
		return "time"
	case TypeObject:
		return "object"
	default:
		return fmt.Sprintf("column_type(%d)", int(t))
	}
}

// NumericReadable reports whether columns of this type can be read through a
// NumericReader.
func (t ColumnType) NumericReadable() bool {
	switch t {
	case TypeReal, TypeInteger53Bit, TypeNominal, TypeTime:
		return true
	default:
		return false
	}
}

// Column is the base interface for all column types. Columns are immutable.
type Column interface {
	// Type returns the physical type.
	Type() ColumnType
	// Size returns the number of rows.
	Size() int
	// Map returns a new column whose row i is row rows[i] of this column.
	// Negative entries produce missing values.
	Map(rows []int) Column
}

// Precision describes the resolution of a date-time column.
type Precision int

const (
	// Seconds precision stores no sub-second part
	Seconds Precision = iota
	// Nanos precision stores seconds plus nanoseconds
	Nanos
)

// Instant is a point on the time line as seconds since the epoch plus a
// non-negative nanosecond adjustment.
type Instant struct {
	Seconds int64
	Nanos   int32
}

var (
	// MinInstant is the earliest representable instant, -1000000000-01-01T00:00Z.
	MinInstant = Instant{Seconds: -31557014167219200, Nanos: 0}
	// MaxInstant is the latest representable instant, 1000000000-12-31T23:59:59.999999999Z.
	MaxInstant = Instant{Seconds: 31556889864403199, Nanos: 999999999}
)

// Before reports whether i is earlier than o.
func (i Instant) Before(o Instant) bool {
	if i.Seconds != o.Seconds {
		return i.Seconds < o.Seconds
	}
	return i.Nanos < o.Nanos
}

// NanosPerDay is the exclusive upper bound of time-of-day values.
const NanosPerDay int64 = 24 * 60 * 60 * 1e9
