package reconcile

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/tablebridge/pkg/columnar"
	"github.com/ajitpratap0/tablebridge/pkg/config"
	"github.com/ajitpratap0/tablebridge/pkg/legacy"
	"github.com/ajitpratap0/tablebridge/pkg/nebulaerrors"
)

func booleanColumn(t *testing.T, values []string, positive int, gaps ...int) *columnar.CategoricalColumn {
	t.Helper()
	dict, err := columnar.NewBooleanDictionary(values, positive, gaps...)
	require.NoError(t, err)
	return columnar.NewCategoricalColumn(dict, []int32{0})
}

func nominalColumn(t *testing.T, values ...string) *columnar.CategoricalColumn {
	t.Helper()
	dict, err := columnar.NewDictionary(values...)
	require.NoError(t, err)
	return columnar.NewCategoricalColumn(dict, []int32{0})
}

func TestDeriveOntology(t *testing.T) {
	tests := []struct {
		name string
		col  columnar.Column
		want legacy.Ontology
	}{
		{"integer", columnar.NewNumericColumn(columnar.TypeInteger53Bit, []float64{1}), legacy.Integer},
		{"real", columnar.NewNumericColumn(columnar.TypeReal, []float64{1}), legacy.Real},
		{"date-time", columnar.NewDateTimeBuffer(1, columnar.Seconds).ToColumn(), legacy.DateTime},
		{"time", columnar.NewTimeBuffer(1).ToColumn(), legacy.Time},
		{"nominal", nominalColumn(t, "a", "b"), legacy.Nominal},
		{"boolean", booleanColumn(t, []string{"no", "yes"}, 2), legacy.Binominal},
		{"boolean without positive", booleanColumn(t, []string{"no"}, 0), legacy.Binominal},
		{"boolean positive only", booleanColumn(t, []string{"yes"}, 1), legacy.Nominal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeriveOntology("c", tt.col)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeriveOntology_Unsupported(t *testing.T) {
	col := columnar.NewObjectColumn("vector", []interface{}{nil})
	_, err := DeriveOntology("embedding", col)
	require.Error(t, err)
	assert.True(t, nebulaerrors.IsType(err, nebulaerrors.ErrorTypeUnsupportedColumnType))
	assert.Contains(t, err.Error(), "embedding")
	assert.Contains(t, err.Error(), "vector")
}

func TestResolveOverride(t *testing.T) {
	realCol := columnar.NewNumericColumn(columnar.TypeReal, []float64{1})
	dt := columnar.NewDateTimeBuffer(1, columnar.Nanos).ToColumn()
	tm := columnar.NewTimeBuffer(1).ToColumn()
	two := nominalColumn(t, "a", "b")
	three := nominalColumn(t, "a", "b", "c")
	positiveOnly := booleanColumn(t, []string{"yes"}, 1)

	tests := []struct {
		name     string
		recorded legacy.Ontology
		derived  legacy.Ontology
		col      columnar.Column
		want     bool
	}{
		{"integer never", legacy.Real, legacy.Integer, realCol, false},
		{"binominal never", legacy.Nominal, legacy.Binominal, two, false},
		{"numerical over real", legacy.Numerical, legacy.Real, realCol, true},
		{"real over real", legacy.Real, legacy.Real, realCol, true},
		{"integer over real", legacy.Integer, legacy.Real, realCol, false},
		{"attribute value never", legacy.AttributeValue, legacy.Real, realCol, false},
		{"polynominal over nominal", legacy.Polynominal, legacy.Nominal, three, true},
		{"text over nominal", legacy.String, legacy.Nominal, three, true},
		{"file path over nominal", legacy.FilePath, legacy.Nominal, three, true},
		{"binominal over small nominal", legacy.Binominal, legacy.Nominal, two, true},
		{"binominal over large nominal", legacy.Binominal, legacy.Nominal, three, false},
		{"binominal over positive-only boolean", legacy.Binominal, legacy.Nominal, positiveOnly, false},
		{"binominal over real", legacy.Binominal, legacy.Real, realCol, false},
		{"date over date-time", legacy.Date, legacy.DateTime, dt, true},
		{"time over date-time", legacy.Time, legacy.DateTime, dt, true},
		{"date-time over time", legacy.DateTime, legacy.Time, tm, false},
		{"time over time", legacy.Time, legacy.Time, tm, true},
		{"nominal over real", legacy.Nominal, legacy.Real, realCol, false},
		{"real over date-time", legacy.Real, legacy.DateTime, dt, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveOverride(tt.recorded, tt.derived, tt.col))
		})
	}
}

func TestEffectiveOntology(t *testing.T) {
	table, err := columnar.NewTableBuilder(1).
		Add("n", columnar.NewNumericColumn(columnar.TypeReal, []float64{1})).
		AddMetaData("n", LegacyType{Ontology: legacy.Numerical}).
		Add("i", columnar.NewNumericColumn(columnar.TypeInteger53Bit, []float64{1})).
		AddMetaData("i", LegacyType{Ontology: legacy.Real}).
		Add("b", nominalColumn(t, "x", "y")).
		AddMetaData("b", LegacyType{Ontology: legacy.Binominal}).
		Build()
	require.NoError(t, err)

	for label, want := range map[string]legacy.Ontology{
		"n": legacy.Numerical,
		"i": legacy.Integer,
		"b": legacy.Binominal,
	} {
		got, err := EffectiveOntology(table, label)
		require.NoError(t, err)
		assert.Equal(t, want, got, label)
	}

	_, err = EffectiveOntology(table, "missing")
	assert.True(t, nebulaerrors.IsType(err, nebulaerrors.ErrorTypeInvalidArgument))
}

func TestEpochMillis(t *testing.T) {
	assert.Equal(t, 0.0, EpochMillis(columnar.Instant{}))
	assert.Equal(t, 1500.0, EpochMillis(columnar.Instant{Seconds: 1, Nanos: 500_000_000}))
	assert.Equal(t, -500.0, EpochMillis(columnar.Instant{Seconds: -1, Nanos: 500_000_000}))

	assert.NotPanics(t, func() {
		low := EpochMillis(columnar.MinInstant)
		high := EpochMillis(columnar.MaxInstant)
		assert.False(t, math.IsInf(low, 0))
		assert.False(t, math.IsInf(high, 0))
		assert.Less(t, low, 0.0)
		assert.Greater(t, high, 0.0)
	})
}

func TestInstantFromMillis(t *testing.T) {
	in, ok := InstantFromMillis(-500)
	require.True(t, ok)
	assert.Equal(t, columnar.Instant{Seconds: -1, Nanos: 500_000_000}, in)
	assert.Equal(t, -500.0, EpochMillis(in))

	_, ok = InstantFromMillis(math.NaN())
	assert.False(t, ok)

	in, ok = InstantFromMillis(math.Inf(1))
	assert.True(t, ok)
	assert.Equal(t, columnar.MaxInstant, in)
}

func TestTimeOfDayConversion(t *testing.T) {
	zones := []string{"UTC", "Europe/Berlin", "America/New_York", "Asia/Kolkata"}
	nanos := []int64{
		0,
		int64(13*time.Hour + 37*time.Minute + 12*time.Second + 345*time.Millisecond),
		int64(23*time.Hour + 59*time.Minute + 59*time.Second + 999*time.Millisecond),
	}
	for _, name := range zones {
		zone, err := config.NewZoneSettings(name)
		require.NoError(t, err)
		for _, n := range nanos {
			ms := NanosOfDayToLegacy(n, zone)
			back, ok := LegacyToNanosOfDay(ms, zone)
			require.True(t, ok)
			assert.Equal(t, n, back, "%s %d", name, n)
		}
	}
}

func TestTimeOfDayConversion_ReadsZoneOnEveryCall(t *testing.T) {
	zone := config.UTC()
	noon := int64(12 * time.Hour)
	assert.Equal(t, float64(12*time.Hour/time.Millisecond), NanosOfDayToLegacy(noon, zone))

	require.NoError(t, zone.SetZone("Asia/Tokyo"))
	assert.Equal(t, float64(3*time.Hour/time.Millisecond), NanosOfDayToLegacy(noon, zone))

	_, ok := LegacyToNanosOfDay(math.NaN(), zone)
	assert.False(t, ok)
}
