package reconcile

import (
	"math"

	"github.com/ajitpratap0/tablebridge/pkg/columnar"
	"github.com/ajitpratap0/tablebridge/pkg/config"
)

// CategoricalToLegacy shifts a dictionary index to a mapping index. The
// missing index 0 becomes NaN.
func CategoricalToLegacy(index float64) float64 {
	if index == 0 {
		return math.NaN()
	}
	return index - 1
}

// LegacyReader returns a stateless function reading the legacy value of col
// at a row: numbers as is, categories as mapping indices, date-times as
// epoch milliseconds and times through NanosOfDayToLegacy. Opaque columns
// read as 0. The function is safe for concurrent use.
func LegacyReader(col columnar.Column, zone config.ZoneProvider) func(row int) float64 {
	switch c := col.(type) {
	case *columnar.NumericColumn:
		return c.Value
	case *columnar.CategoricalColumn:
		return func(row int) float64 {
			return CategoricalToLegacy(float64(c.Index(row)))
		}
	case *columnar.TimeColumn:
		return func(row int) float64 {
			n, ok := c.Nanos(row)
			if !ok {
				return math.NaN()
			}
			return NanosOfDayToLegacy(n, zone)
		}
	case *columnar.DateTimeColumn:
		return func(row int) float64 {
			in, ok := c.Instant(row)
			if !ok {
				return math.NaN()
			}
			return EpochMillis(in)
		}
	default:
		return func(int) float64 { return 0 }
	}
}
