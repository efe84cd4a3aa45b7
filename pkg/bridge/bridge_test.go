package bridge

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ajitpratap0/tablebridge/pkg/columnar"
	"github.com/ajitpratap0/tablebridge/pkg/config"
	"github.com/ajitpratap0/tablebridge/pkg/cowtable"
	"github.com/ajitpratap0/tablebridge/pkg/legacy"
	"github.com/ajitpratap0/tablebridge/pkg/logger"
	"github.com/ajitpratap0/tablebridge/pkg/nebulaerrors"
	"github.com/ajitpratap0/tablebridge/pkg/parallel"
	"github.com/ajitpratap0/tablebridge/pkg/reconcile"
)

const rows = 12

func missing(i int) bool { return i%5 == 4 }

// standardTable holds every supported column type, with the tags ToTable
// produces for them.
func standardTable(t testing.TB) *columnar.Table {
	t.Helper()
	ids := columnar.NewIntegerBuffer(rows)
	reals := columnar.NewRealBuffer(rows)
	numerics := columnar.NewRealBuffer(rows)
	scores := columnar.NewRealBuffer(rows)
	notes := columnar.NewRealBuffer(rows)
	colors := columnar.NewCategoricalBuffer(rows)
	labels := columnar.NewCategoricalBuffer(rows)
	preds := columnar.NewCategoricalBuffer(rows)
	when := columnar.NewDateTimeBuffer(rows, columnar.Nanos)
	days := columnar.NewDateTimeBuffer(rows, columnar.Seconds)
	clock := columnar.NewTimeBuffer(rows)

	flagDict, err := columnar.NewBooleanDictionary([]string{"no", "yes"}, 2)
	require.NoError(t, err)
	flags, err := columnar.NewPackedBuffer(rows, flagDict)
	require.NoError(t, err)

	for i := 0; i < rows; i++ {
		ids.Set(i, float64(i))
		labels.Set(i, []string{"a", "b"}[i%2])
		preds.Set(i, []string{"a", "b"}[(i/2)%2])
		scores.Set(i, float64(i)/float64(rows))
		notes.Set(i, float64(i*i))
		if missing(i) {
			continue
		}
		reals.Set(i, float64(i)*1.5)
		numerics.Set(i, -float64(i))
		colors.Set(i, []string{"red", "green", "blue"}[i%3])
		flags.SetIndex(i, 1+i%2)
		when.Set(i, columnar.Instant{Seconds: 1_600_000_000 + int64(i)*3600, Nanos: int32(i) * 1_000_000})
		days.Set(i, columnar.Instant{Seconds: int64(i) * 86400})
		require.NoError(t, clock.Set(i, int64(i)*int64(time.Minute)+int64(250*time.Millisecond)))
	}

	table, err := columnar.NewTableBuilder(rows).
		Add("id", ids.ToColumn()).
		AddMetaData("id", columnar.RoleID).
		Add("x", reals.ToColumn()).
		Add("n", numerics.ToColumn()).
		AddMetaData("n", reconcile.LegacyType{Ontology: legacy.Numerical}).
		Add("color", colors.ToColumn()).
		Add("flag", flags.ToColumn()).
		AddMetaData("flag", reconcile.LegacyType{Ontology: legacy.Binominal}).
		Add("label", labels.ToColumn()).
		AddMetaData("label", columnar.RoleLabel).
		Add("pred", preds.ToColumn()).
		AddMetaData("pred", columnar.RolePrediction).
		Add("conf_a", scores.ToColumn()).
		AddMetaData("conf_a", columnar.RoleScore, columnar.NewQualifiedColumnReference("pred", "a")).
		Add("when", when.ToColumn()).
		Add("day", days.ToColumn()).
		AddMetaData("day", reconcile.LegacyType{Ontology: legacy.Date}).
		Add("clock", clock.ToColumn()).
		Add("note", notes.ToColumn()).
		AddMetaData("note", columnar.ColumnAnnotation{Text: "kept"}).
		Build()
	require.NoError(t, err)
	return table
}

func assertValue(t *testing.T, want, got float64, msgAndArgs ...interface{}) {
	t.Helper()
	if math.IsNaN(want) {
		assert.True(t, math.IsNaN(got), msgAndArgs...)
		return
	}
	assert.Equal(t, want, got, msgAndArgs...)
}

func assertSameTable(t *testing.T, want, got *columnar.Table) {
	t.Helper()
	require.Equal(t, want.Labels(), got.Labels())
	require.Equal(t, want.Height(), got.Height())
	for i, label := range want.Labels() {
		w, g := want.Column(i), got.Column(i)
		require.Equal(t, w.Type(), g.Type(), label)
		if wc, ok := w.(*columnar.CategoricalColumn); ok {
			gc := g.(*columnar.CategoricalColumn)
			assert.Equal(t, wc.Dictionary().Values(), gc.Dictionary().Values(), label)
			assert.Equal(t, wc.Dictionary().IsBoolean(), gc.Dictionary().IsBoolean(), label)
			assert.Equal(t, wc.Dictionary().PositiveIndex(), gc.Dictionary().PositiveIndex(), label)
		}
		if wd, ok := w.(*columnar.DateTimeColumn); ok {
			assert.Equal(t, wd.Precision(), g.(*columnar.DateTimeColumn).Precision(), label)
		}
		wr := reconcile.LegacyReader(w, config.UTC())
		gr := reconcile.LegacyReader(g, config.UTC())
		for r := 0; r < want.Height(); r++ {
			assertValue(t, wr(r), gr(r), "%s row %d", label, r)
		}
		assert.ElementsMatch(t, want.MetaData(label), got.MetaData(label), label)
	}
}

func newTestConverter(t *testing.T, opts ...Option) *Converter {
	return NewConverter(append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)...)
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	source := standardTable(t)
	for _, lazy := range []bool{false, true} {
		conv := newTestConverter(t, WithLazyDefault(lazy))
		set, err := conv.ToExampleSet(ctx, source)
		require.NoError(t, err)
		_, isLazy := set.Table().(*cowtable.Table)
		assert.Equal(t, lazy, isLazy)

		back, err := conv.ToTable(ctx, set)
		require.NoError(t, err)
		assertSameTable(t, source, back)
	}
}

func TestToExampleSet_Attributes(t *testing.T) {
	set, err := newTestConverter(t).ToExampleSet(context.Background(), standardTable(t))
	require.NoError(t, err)

	attrs := set.Attributes()
	require.Equal(t, 12, attrs.Size())
	var names, specials []string
	for _, e := range attrs.All() {
		names = append(names, e.Attribute.Name())
		specials = append(specials, e.Special)
	}
	assert.Equal(t, []string{"id", "x", "n", "color", "flag", "label", "pred", "conf_a", "when", "day", "clock", "note"}, names)
	assert.Equal(t, []string{"id", "", "", "", "", "label", "prediction", "confidence_a", "", "", "", ""}, specials)

	ontologies := map[string]legacy.Ontology{
		"id": legacy.Integer, "x": legacy.Real, "n": legacy.Numerical, "color": legacy.Nominal,
		"flag": legacy.Binominal, "when": legacy.DateTime, "day": legacy.Date, "clock": legacy.Time,
	}
	for name, want := range ontologies {
		assert.Equal(t, want, attrs.Get(name).Ontology(), name)
	}

	color := attrs.Get("color")
	assert.Equal(t, []string{"red", "green", "blue"}, color.Mapping().Values())
	assert.Equal(t, 0.0, set.Get(0, color))
	assert.Equal(t, 2.0, set.Get(2, color))
	assert.True(t, math.IsNaN(set.Get(4, color)))
	value, ok := set.Row(1).NominalValue(color)
	require.True(t, ok)
	assert.Equal(t, "green", value)

	flag := attrs.Get("flag")
	neg, _ := flag.Mapping().NegativeString()
	pos, _ := flag.Mapping().PositiveString()
	assert.Equal(t, "no", neg)
	assert.Equal(t, "yes", pos)
	assert.Equal(t, 1.0, set.Get(1, flag))

	assert.Equal(t, float64(3*60_000+250), set.Get(3, attrs.Get("clock")))

	stored, ok := set.UserData(MetaDataKey)
	require.True(t, ok)
	assert.Equal(t, []columnar.MetaData{columnar.ColumnAnnotation{Text: "kept"}}, stored.(StoredMetaData)["note"])
}

func TestToExampleSet_NormalizesCategoricals(t *testing.T) {
	gapped, err := columnar.NewDictionaryWithGaps([]string{"a", "", "c"}, 2)
	require.NoError(t, err)
	misordered, err := columnar.NewBooleanDictionary([]string{"yes", "no"}, 1)
	require.NoError(t, err)
	source, err := columnar.NewTableBuilder(4).
		Add("gapped", columnar.NewCategoricalColumn(gapped, []int32{1, 3, 0, 3})).
		Add("flag", columnar.NewCategoricalColumn(misordered, []int32{1, 2, 0, 2})).
		Add("x", columnar.NewNumericColumn(columnar.TypeReal, []float64{1, 2, 3, 4})).
		Build()
	require.NoError(t, err)

	normalized, err := normalize(source, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.NotSame(t, source, normalized)
	assert.Same(t, source.Column(2), normalized.Column(2))
	for _, label := range []string{"gapped", "flag"} {
		before, _ := source.ColumnByLabel(label)
		after, _ := normalized.ColumnByLabel(label)
		for r := 0; r < 4; r++ {
			want, wantOK := before.(*columnar.CategoricalColumn).String(r)
			got, gotOK := after.(*columnar.CategoricalColumn).String(r)
			assert.Equal(t, wantOK, gotOK)
			assert.Equal(t, want, got, "%s row %d", label, r)
		}
	}
	flagCol, _ := normalized.ColumnByLabel("flag")
	dict := flagCol.(*columnar.CategoricalColumn).Dictionary()
	assert.Equal(t, 1, dict.NegativeIndex())
	assert.Equal(t, 2, dict.PositiveIndex())
	gappedCol, _ := normalized.ColumnByLabel("gapped")
	assert.False(t, gappedCol.(*columnar.CategoricalColumn).Dictionary().HasGaps())

	set, err := newTestConverter(t).ToExampleSet(context.Background(), source)
	require.NoError(t, err)
	g := set.Attributes().Get("gapped")
	assert.Equal(t, []string{"a", "c"}, g.Mapping().Values())
	f := set.Attributes().Get("flag")
	assert.Equal(t, legacy.Binominal, f.Ontology())
	assert.Equal(t, []string{"no", "yes"}, f.Mapping().Values())
	for r, want := range []float64{0, 1, math.NaN(), 1} {
		assertValue(t, want, set.Get(r, g), "gapped row %d", r)
	}
	for r, want := range []float64{1, 0, math.NaN(), 0} {
		assertValue(t, want, set.Get(r, f), "flag row %d", r)
	}
}

func TestNormalize_KeepsNormalizedTable(t *testing.T) {
	source := standardTable(t)
	normalized, err := normalize(source, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Same(t, source, normalized)
}

func TestRoleCollisions(t *testing.T) {
	ctx := context.Background()
	b := columnar.NewTableBuilder(2)
	labels := []string{"l1", "c1", "l2", "c2", "l3", "c3"}
	for i, label := range labels {
		b.Add(label, columnar.NewNumericColumn(columnar.TypeReal, []float64{1, 2}))
		role := columnar.RoleLabel
		if i%2 == 1 {
			role = columnar.RoleCluster
		}
		b.AddMetaData(label, role)
	}
	source, err := b.Build()
	require.NoError(t, err)

	conv := newTestConverter(t)
	want := []string{"label", "cluster", "label_2", "cluster_2", "label_3", "cluster_3"}
	specials := func(set *legacy.ExampleSet) []string {
		var out []string
		for _, e := range set.Attributes().All() {
			out = append(out, e.Special)
		}
		return out
	}

	set, err := conv.ToExampleSet(ctx, source)
	require.NoError(t, err)
	assert.Equal(t, want, specials(set))

	table, err := conv.ToTable(ctx, set)
	require.NoError(t, err)
	role, ok := columnar.FirstMetaDataOf[columnar.ColumnRole](table, "l2")
	require.True(t, ok)
	assert.Equal(t, columnar.RoleLabel, role)

	again, err := conv.ToExampleSet(ctx, table)
	require.NoError(t, err)
	assert.Equal(t, want, specials(again))
}

func TestArbitraryRoleNamesRoundTrip(t *testing.T) {
	ctx := context.Background()
	table := legacy.NewColumnTableFrom([][]float64{{1}, {2}, {3}, {4}})
	attrs := legacy.NewAttributes()
	for i, role := range []string{"label-1", "label-2", "label-3", "score"} {
		a := legacy.NewAttribute(role+"_attr", legacy.Real)
		a.SetTableIndex(i)
		require.NoError(t, attrs.AddSpecial(a, role))
	}
	conv := newTestConverter(t)
	out, err := conv.ToTable(ctx, legacy.NewExampleSet(table, attrs))
	require.NoError(t, err)

	lr, ok := columnar.FirstMetaDataOf[reconcile.LegacyRole](out, "label-2_attr")
	require.True(t, ok)
	assert.Equal(t, "label-2", lr.Role)
	role, _ := columnar.FirstMetaDataOf[columnar.ColumnRole](out, "score_attr")
	assert.Equal(t, columnar.RoleMetadata, role)

	set, err := conv.ToExampleSet(ctx, out)
	require.NoError(t, err)
	for _, e := range set.Attributes().All() {
		assert.Equal(t, e.Attribute.Name(), e.Special+"_attr")
	}
}

func TestToTable_ReferencesFollowCurrentPrediction(t *testing.T) {
	ctx := context.Background()
	conv := newTestConverter(t)
	set, err := conv.ToExampleSet(ctx, standardTable(t))
	require.NoError(t, err)

	with, err := conv.ToTable(ctx, set)
	require.NoError(t, err)
	ref, ok := columnar.FirstMetaDataOf[columnar.ColumnReference](with, "conf_a")
	require.True(t, ok)
	assert.Equal(t, columnar.NewQualifiedColumnReference("pred", "a"), ref)

	require.True(t, set.Attributes().Remove(set.Attributes().Get("pred")))
	without, err := conv.ToTable(ctx, set)
	require.NoError(t, err)
	assert.Equal(t, -1, without.Index("pred"))
	_, ok = without.FirstMetaData("conf_a", columnar.ColumnReferenceType)
	assert.False(t, ok)
	role, ok := columnar.FirstMetaDataOf[columnar.ColumnRole](without, "conf_a")
	require.True(t, ok)
	assert.Equal(t, columnar.RoleScore, role)
}

func TestParseRoleName(t *testing.T) {
	tests := []struct {
		name string
		want parsedRole
	}{
		{"label", parsedRole{role: columnar.RoleLabel}},
		{"id", parsedRole{role: columnar.RoleID}},
		{"confidence", parsedRole{role: columnar.RoleScore}},
		{"confidence_yes", parsedRole{role: columnar.RoleScore, qualifier: "yes", qualified: true}},
		{"label_2", parsedRole{role: columnar.RoleLabel, legacyRole: "label_2"}},
		{"label_1", parsedRole{role: columnar.RoleMetadata, legacyRole: "label_1"}},
		{"label_x", parsedRole{role: columnar.RoleMetadata, legacyRole: "label_x"}},
		{"score", parsedRole{role: columnar.RoleMetadata, legacyRole: "score"}},
		{"metadata", parsedRole{role: columnar.RoleMetadata}},
		{"cost", parsedRole{role: columnar.RoleMetadata, legacyRole: "cost"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseRoleName(tt.name))
		})
	}
}

// legacySource fills the same data into table and returns a set over it.
func legacySource(t testing.TB, table legacy.DataTable) *legacy.ExampleSet {
	t.Helper()
	defs := []struct {
		name     string
		ontology legacy.Ontology
		mapping  *legacy.NominalMapping
		value    func(r int) float64
	}{
		{"real", legacy.Real, nil, func(r int) float64 { return float64(r) / 4 }},
		{"int", legacy.Integer, nil, func(r int) float64 { return float64(r * 3) }},
		{"nom", legacy.Polynominal, legacy.NewNominalMapping("a", "b", "c"), func(r int) float64 { return float64(r % 3) }},
		{"bin", legacy.Binominal, legacy.NewBinominalMapping("f", "t"), func(r int) float64 { return float64(r % 2) }},
		{"date", legacy.Date, nil, func(r int) float64 { return float64(r) * 86_400_000 }},
		{"ts", legacy.DateTime, nil, func(r int) float64 { return 1.6e12 + float64(r)*1001 }},
		{"time", legacy.Time, nil, func(r int) float64 { return float64(r) * 60_000 }},
	}
	attrs := legacy.NewAttributes()
	for i, def := range defs {
		a := legacy.NewAttribute(def.name, def.ontology)
		if def.mapping != nil {
			a.SetMapping(def.mapping)
		}
		a.SetTableIndex(i)
		for r := 0; r < table.Size(); r++ {
			v := def.value(r)
			if missing(r) {
				v = math.NaN()
			}
			table.Set(r, i, v)
		}
		if i == 1 {
			require.NoError(t, attrs.AddSpecial(a, "id"))
			continue
		}
		attrs.AddRegular(a)
	}
	return legacy.NewExampleSet(table, attrs)
}

func TestStrategyEquivalence(t *testing.T) {
	ctx := context.Background()
	const width = 7
	sources := []struct {
		name  string
		set   *legacy.ExampleSet
		want  Strategy
		force bool
	}{
		{"column table", legacySource(t, legacy.NewColumnTable(rows, width)), Direct, false},
		{"concurrent row table", legacySource(t, legacy.NewRowTable(rows, width, legacy.WithConcurrentReads())), ParallelRow, false},
		{"row table", legacySource(t, legacy.NewRowTable(rows, width)), Sequential, false},
	}

	var reference *columnar.Table
	for _, src := range sources {
		assert.Equal(t, src.want, SelectStrategy(src.set), src.name)
		got, err := newTestConverter(t).ToTable(ctx, src.set)
		require.NoError(t, err, src.name)
		if reference == nil {
			reference = got
			continue
		}
		assertSameTable(t, reference, got)
	}

	for _, s := range []Strategy{Direct, ParallelRow, Sequential} {
		got, err := newTestConverter(t, WithForcedStrategy(s)).ToTable(ctx, sources[0].set)
		require.NoError(t, err, s.String())
		assertSameTable(t, reference, got)
	}

	bin, _ := reference.ColumnByLabel("bin")
	cat := bin.(*columnar.CategoricalColumn)
	assert.True(t, cat.Packed())
	assert.Equal(t, 2, cat.Dictionary().PositiveIndex())
	dateCol, _ := reference.ColumnByLabel("date")
	assert.Equal(t, columnar.Seconds, dateCol.(*columnar.DateTimeColumn).Precision())
	intCol, _ := reference.ColumnByLabel("int")
	assert.Equal(t, columnar.TypeInteger53Bit, intCol.Type())
	nomTag, ok := columnar.FirstMetaDataOf[reconcile.LegacyType](reference, "nom")
	require.True(t, ok)
	assert.Equal(t, legacy.Polynominal, nomTag.Ontology)
	role, _ := columnar.FirstMetaDataOf[columnar.ColumnRole](reference, "int")
	assert.Equal(t, columnar.RoleID, role)
}

func TestSelectStrategy(t *testing.T) {
	set := legacySource(t, legacy.NewColumnTable(rows, 7))
	assert.Equal(t, ParallelRow, SelectStrategy(set.Mapped([]int{1, 0})))

	set.Attributes().Get("real").AddTransformation(legacy.TransformationFunc(func(v float64) float64 { return v * 2 }))
	assert.Equal(t, Sequential, SelectStrategy(set))

	assert.Equal(t, Sequential, SelectStrategy(legacy.NewExampleSet(brokenTable{}, nil)))
}

func TestTransformationsApplyInEveryStrategy(t *testing.T) {
	ctx := context.Background()
	set := legacySource(t, legacy.NewColumnTable(rows, 7))
	double := legacy.TransformationFunc(func(v float64) float64 { return v * 2 })
	set.Attributes().Get("real").AddTransformation(double)

	var reference *columnar.Table
	for _, s := range []Strategy{Sequential, ParallelRow, Direct} {
		got, err := newTestConverter(t, WithForcedStrategy(s)).ToTable(ctx, set)
		require.NoError(t, err)
		col, _ := got.ColumnByLabel("real")
		assert.Equal(t, 1.0, col.(*columnar.NumericColumn).Value(2), s.String())
		if reference == nil {
			reference = got
			continue
		}
		assertSameTable(t, reference, got)
	}
}

func TestToTable_MappingFallbacks(t *testing.T) {
	gaps := legacy.NewNominalMapping("a", "b")
	gaps.SetMapping("z", 3)
	dups := legacy.NewNominalMapping("a", "b", "a")
	positiveOnly := legacy.NewNominalMapping()
	positiveOnly.SetMapping("yes", 1)
	same := legacy.NewNominalMapping("x", "x")

	table := legacy.NewColumnTableFrom([][]float64{
		{0, 3, math.NaN(), 1},
		{2, 1, 0, math.NaN()},
		{1, 1, math.NaN(), 1},
		{0, 1, 0, 1},
	})
	attrs := legacy.NewAttributes()
	for i, def := range []struct {
		name     string
		ontology legacy.Ontology
		mapping  *legacy.NominalMapping
	}{
		{"gaps", legacy.Nominal, gaps},
		{"dups", legacy.String, dups},
		{"positive_only", legacy.Binominal, positiveOnly},
		{"same", legacy.Binominal, same},
	} {
		a := legacy.NewAttribute(def.name, def.ontology)
		a.SetMapping(def.mapping)
		a.SetTableIndex(i)
		attrs.AddRegular(a)
	}

	out, err := newTestConverter(t).ToTable(context.Background(), legacy.NewExampleSet(table, attrs))
	require.NoError(t, err)

	want := map[string][]string{
		"gaps":          {"a", "z", "", "b"},
		"dups":          {"a", "b", "a", ""},
		"positive_only": {"yes", "yes", "", "yes"},
		"same":          {"x", "x", "x", "x"},
	}
	for label, values := range want {
		col, _ := out.ColumnByLabel(label)
		cat := col.(*columnar.CategoricalColumn)
		for r, v := range values {
			got, _ := cat.String(r)
			assert.Equal(t, v, got, "%s row %d", label, r)
		}
	}
	for _, label := range []string{"positive_only", "same"} {
		tag, ok := columnar.FirstMetaDataOf[reconcile.LegacyType](out, label)
		require.True(t, ok)
		assert.Equal(t, legacy.Binominal, tag.Ontology)
	}
	tag, _ := columnar.FirstMetaDataOf[reconcile.LegacyType](out, "dups")
	assert.Equal(t, legacy.String, tag.Ontology)
}

func TestBinominalWithoutPositive(t *testing.T) {
	table := legacy.NewColumnTableFrom([][]float64{{0, math.NaN(), 0}})
	a := legacy.NewAttribute("only_negative", legacy.Binominal)
	a.SetMapping(legacy.NewBinominalMapping("off", ""))
	a.SetTableIndex(0)
	attrs := legacy.NewAttributes()
	attrs.AddRegular(a)

	out, err := newTestConverter(t).ToTable(context.Background(), legacy.NewExampleSet(table, attrs))
	require.NoError(t, err)
	col := out.Column(0).(*columnar.CategoricalColumn)
	assert.True(t, col.Dictionary().IsBoolean())
	assert.False(t, col.Dictionary().HasPositive())
	assert.Equal(t, 1, col.Dictionary().NegativeIndex())
	assert.Equal(t, 0, col.Index(1))

	ontology, err := reconcile.EffectiveOntology(out, "only_negative")
	require.NoError(t, err)
	assert.Equal(t, legacy.Binominal, ontology)
}

func TestUnsupported(t *testing.T) {
	ctx := context.Background()
	conv := newTestConverter(t)

	source, err := columnar.NewTableBuilder(1).
		Add("x", columnar.NewNumericColumn(columnar.TypeReal, []float64{1})).
		Add("embedding", columnar.NewObjectColumn("vector", []interface{}{[]float64{1, 2}})).
		Build()
	require.NoError(t, err)
	_, err = conv.ToExampleSet(ctx, source)
	require.Error(t, err)
	assert.True(t, nebulaerrors.IsType(err, nebulaerrors.ErrorTypeUnsupportedColumnType))
	assert.Contains(t, err.Error(), "embedding")

	a := legacy.NewAttribute("anything", legacy.AttributeValue)
	a.SetTableIndex(0)
	attrs := legacy.NewAttributes()
	attrs.AddRegular(a)
	_, err = conv.ToTable(ctx, legacy.NewExampleSet(legacy.NewColumnTable(1, 1), attrs))
	require.Error(t, err)
	assert.True(t, nebulaerrors.IsType(err, nebulaerrors.ErrorTypeUnsupportedColumnType))
	assert.Contains(t, err.Error(), "anything")
}

func TestNilInputs(t *testing.T) {
	ctx := context.Background()
	_, err := ToTable(ctx, nil)
	assert.True(t, nebulaerrors.IsType(err, nebulaerrors.ErrorTypeInvalidArgument))
	_, err = ToExampleSet(ctx, nil)
	assert.True(t, nebulaerrors.IsType(err, nebulaerrors.ErrorTypeInvalidArgument))
}

func TestZeroCopyFromLazyTable(t *testing.T) {
	ctx := context.Background()
	source := standardTable(t)
	conv := newTestConverter(t)
	set, err := conv.ToExampleSet(ctx, source, Lazy())
	require.NoError(t, err)

	back, err := conv.ToTable(ctx, set)
	require.NoError(t, err)
	for i := 0; i < source.Width(); i++ {
		assert.Same(t, source.Column(i), back.Column(i), source.Label(i))
	}

	// stacked row mappings are applied once
	view := set.Mapped([]int{5, 3, 1}).Mapped([]int{2, 0})
	mapped, err := conv.ToTable(ctx, view)
	require.NoError(t, err)
	require.Equal(t, 2, mapped.Height())
	expected := source.Map([]int{1, 5})
	assertSameTable(t, expected, mapped)

	// a changed representation is copied
	idIndex := source.Index("id")
	asReal := legacy.NewAttribute("id", legacy.Real)
	asReal.SetTableIndex(idIndex)
	attrs := legacy.NewAttributes()
	attrs.AddRegular(asReal)
	reinterpreted, err := conv.ToTable(ctx, legacy.NewExampleSet(set.Table(), attrs))
	require.NoError(t, err)
	assert.Equal(t, columnar.TypeReal, reinterpreted.Column(0).Type())
	assert.NotSame(t, source.Column(idIndex), reinterpreted.Column(0))
	assert.Equal(t, 7.0, reinterpreted.Column(0).(*columnar.NumericColumn).Value(7))

	// a boolean column retyped as polynominal is copied into a plain dictionary
	flagIndex := source.Index("flag")
	flag := legacy.NewAttribute("flag", legacy.Polynominal)
	flag.SetTableIndex(flagIndex)
	flag.SetMapping(set.Attributes().Get("flag").Mapping().Clone())
	colorIndex := source.Index("color")
	colorAsBinominal := legacy.NewAttribute("color", legacy.Binominal)
	colorAsBinominal.SetTableIndex(colorIndex)
	colorAsBinominal.SetMapping(set.Attributes().Get("color").Mapping().Clone())
	retypedAttrs := legacy.NewAttributes()
	retypedAttrs.AddRegular(flag)
	retypedAttrs.AddRegular(colorAsBinominal)
	retyped, err := conv.ToTable(ctx, legacy.NewExampleSet(set.Table(), retypedAttrs))
	require.NoError(t, err)
	assert.NotSame(t, source.Column(flagIndex), retyped.Column(0))
	assert.NotSame(t, source.Column(colorIndex), retyped.Column(1))
	retypedFlag := retyped.Column(0).(*columnar.CategoricalColumn)
	assert.False(t, retypedFlag.Dictionary().IsBoolean())
	ontology, err := reconcile.EffectiveOntology(retyped, "flag")
	require.NoError(t, err)
	assert.Equal(t, legacy.Polynominal, ontology)

	// a changed mapping is copied
	color := set.Attributes().Get("color")
	color.Mapping().MapString("purple")
	recolored, err := conv.ToTable(ctx, set)
	require.NoError(t, err)
	assert.NotSame(t, source.Column(source.Index("color")), recolored.Column(source.Index("color")))
	assert.Same(t, source.Column(0), recolored.Column(0))

	// after a write nothing is reused
	set.Set(0, set.Attributes().Get("x"), 100)
	assert.Equal(t, cowtable.Materialized, set.Table().(*cowtable.Table).Phase())
	written, err := conv.ToTable(ctx, set)
	require.NoError(t, err)
	assert.NotSame(t, source.Column(0), written.Column(0))
	assert.Equal(t, 100.0, written.Column(1).(*columnar.NumericColumn).Value(0))
}

func TestLazyAndEagerSetsAgree(t *testing.T) {
	ctx := context.Background()
	source := standardTable(t)
	conv := newTestConverter(t)
	eager, err := conv.ToExampleSet(ctx, source)
	require.NoError(t, err)
	lazy, err := conv.ToExampleSet(ctx, source, Lazy())
	require.NoError(t, err)

	assert.IsType(t, &legacy.ColumnTable{}, eager.Table())
	assert.Equal(t, cowtable.LiveOnSource, lazy.Table().(*cowtable.Table).Phase())
	for _, a := range eager.Attributes().Regular() {
		b := lazy.Attributes().Get(a.Name())
		for r := 0; r < rows; r++ {
			assertValue(t, eager.Get(r, a), lazy.Get(r, b), "%s row %d", a.Name(), r)
		}
	}
}

type failingExecutor struct {
	err error
}

func (failingExecutor) Parallelism() int { return 2 }

func (e failingExecutor) Run(tasks []parallel.Task) error {
	for _, task := range tasks {
		_ = task()
	}
	return e.err
}

func TestTaskErrorsSurfaceUnchanged(t *testing.T) {
	ctx := context.Background()
	sentinel := errors.New("column task failed")
	conv := newTestConverter(t, WithExecutor(failingExecutor{err: sentinel}))

	_, err := conv.ToTable(ctx, legacySource(t, legacy.NewColumnTable(rows, 7)))
	assert.Same(t, sentinel, err)

	_, err = conv.ToExampleSet(ctx, standardTable(t))
	assert.Same(t, sentinel, err)
}

// brokenTable panics on every access.
type brokenTable struct {
	legacy.DataTable
}

func (brokenTable) Size() int                  { return 1 }
func (brokenTable) ConcurrentlyReadable() bool { panic("unavailable") }
func (brokenTable) Get(row, col int) float64   { panic("unavailable") }

func TestPanickingTaskFails(t *testing.T) {
	a := legacy.NewAttribute("x", legacy.Real)
	a.SetTableIndex(0)
	attrs := legacy.NewAttributes()
	attrs.AddRegular(a)
	set := legacy.NewExampleSet(brokenTable{}, attrs)

	_, err := newTestConverter(t, WithForcedStrategy(ParallelRow)).ToTable(context.Background(), set)
	require.Error(t, err)
	assert.True(t, nebulaerrors.IsType(err, nebulaerrors.ErrorTypeTaskFailure))
}

func TestNewConverterFromConfig(t *testing.T) {
	cfg := config.NewBridgeConfig()
	cfg.Conversion.Workers = 2
	cfg.Conversion.ForceSequential = true
	cfg.Conversion.LazyByDefault = true
	zone, err := config.NewZoneSettings("Europe/Berlin")
	require.NoError(t, err)

	conv := NewConverterFromConfig(cfg, zone, WithLogger(zaptest.NewLogger(t)))
	require.NotNil(t, conv.forced)
	assert.Equal(t, Sequential, *conv.forced)
	assert.Equal(t, 2, conv.executor.Parallelism())
	assert.Same(t, zone, conv.zone)

	ctx := context.Background()
	set, err := conv.ToExampleSet(ctx, standardTable(t))
	require.NoError(t, err)
	assert.IsType(t, &cowtable.Table{}, set.Table())
	set, err = conv.ToExampleSet(ctx, standardTable(t), Eager())
	require.NoError(t, err)
	assert.IsType(t, &legacy.ColumnTable{}, set.Table())
}

func TestLazyTableLogsCarryConversionID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	conv := NewConverter(WithLogger(zap.New(core)))
	ctx := context.WithValue(context.Background(), logger.ConversionIDKey, "conv-7")

	set, err := conv.ToExampleSet(ctx, standardTable(t), Lazy())
	require.NoError(t, err)
	set.Set(0, set.Attributes().Get("x"), 1)

	materialized := logs.FilterMessage("materialized convert-on-write table").All()
	require.Len(t, materialized, 1)
	fields := materialized[0].ContextMap()
	assert.Equal(t, "conv-7", fields["conversion_id"])
	assert.Equal(t, int64(rows*12*8), fields["bytes"])
}

func TestTimeSink_OutOfRangeIsMissing(t *testing.T) {
	s := &timeSink{buf: columnar.NewTimeBuffer(3), zone: config.UTC()}
	s.setNanos(0, int64(time.Hour))
	s.setNanos(1, -1)
	s.setNanos(2, columnar.NanosPerDay)

	col, tag := s.build()
	assert.Nil(t, tag)
	tc := col.(*columnar.TimeColumn)
	nanos, ok := tc.Nanos(0)
	require.True(t, ok)
	assert.Equal(t, int64(time.Hour), nanos)
	_, ok = tc.Nanos(1)
	assert.False(t, ok)
	_, ok = tc.Nanos(2)
	assert.False(t, ok)
}
