package reconcile

import (
	"math"
	"time"

	"github.com/ajitpratap0/tablebridge/pkg/columnar"
	"github.com/ajitpratap0/tablebridge/pkg/config"
)

const (
	millisPerSecond = 1000
	nanosPerMilli   = int64(time.Millisecond)
)

// EpochMillis converts an instant to legacy epoch milliseconds. The
// computation runs in float64 so the extreme instants do not overflow; a
// negative second with positive nanos is shifted by one second first.
func EpochMillis(in columnar.Instant) float64 {
	if in.Seconds < 0 && in.Nanos > 0 {
		return float64(in.Seconds+1)*millisPerSecond + (float64(int64(in.Nanos)/nanosPerMilli) - millisPerSecond)
	}
	return float64(in.Seconds)*millisPerSecond + float64(int64(in.Nanos)/nanosPerMilli)
}

// InstantFromMillis converts legacy epoch milliseconds to an instant. NaN
// reports false; values beyond the int64 millisecond range are clamped to
// MinInstant and MaxInstant.
func InstantFromMillis(ms float64) (columnar.Instant, bool) {
	switch {
	case math.IsNaN(ms):
		return columnar.Instant{}, false
	case ms >= math.MaxInt64:
		return columnar.MaxInstant, true
	case ms <= math.MinInt64:
		return columnar.MinInstant, true
	}
	v := int64(ms)
	sec, rem := v/millisPerSecond, v%millisPerSecond
	if rem < 0 {
		sec--
		rem += millisPerSecond
	}
	return columnar.Instant{Seconds: sec, Nanos: int32(rem * nanosPerMilli)}, true
}

// NanosOfDayToLegacy converts a nanosecond of day to the legacy time value:
// milliseconds on the epoch day, shifted by the standard offset of the
// preferred zone. The offset is read on every call.
func NanosOfDayToLegacy(nanos int64, zone config.ZoneProvider) float64 {
	return float64(nanos/nanosPerMilli - zone.RawOffset().Milliseconds())
}

// LegacyToNanosOfDay converts a legacy time value back to a nanosecond of
// day by reading its wall clock in the preferred zone. NaN reports false.
func LegacyToNanosOfDay(ms float64, zone config.ZoneProvider) (int64, bool) {
	if math.IsNaN(ms) {
		return 0, false
	}
	t := time.UnixMilli(int64(ms)).In(zone.Location())
	wall := time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond()/int(time.Millisecond))*time.Millisecond
	return int64(wall), true
}
