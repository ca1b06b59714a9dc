package plotspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"featurecard/domain/feature"
	"featurecard/domain/plot"
)

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

func stackedNumericalFixture() (*feature.Stacked, feature.NumericalSample) {
	a := feature.NumericalSample{1, 2, 2, 3, 4}
	b := feature.NumericalSample{5, 6, 6, 7, 12}
	pooled := append(append(feature.NumericalSample{}, a...), b...)
	return &feature.Stacked{
		Target: "target",
		Classes: []feature.ClassSample{
			{Label: "A", Sample: a},
			{Label: "B", Sample: b},
		},
	}, pooled
}

func TestBuild_SingleNumerical(t *testing.T) {
	builder := NewBuilder(Viewport{Width: 1000, Height: 800})
	in := Input{
		FeatureName: "age",
		Level:       feature.Continuous,
		Sample:      feature.NumericalSample{1, 2, 2, 3, 4, 5, 100},
	}

	spec := builder.Build(in)
	require.Len(t, spec.Traces, 2)
	hist, box := spec.Traces[0], spec.Traces[1]
	assert.Equal(t, plot.KindHistogram, hist.Kind)
	assert.Equal(t, plot.KindBox, box.Kind)
	assert.Equal(t, 7.0, sum(hist.Y))
	assert.Len(t, hist.X, len(hist.Bins))
	require.NotNil(t, box.Box)
	assert.Equal(t, []float64{100}, box.Box.Outliers)

	assert.Equal(t, "Distribution of age", spec.Layout.Title)
	assert.Equal(t, "Values of age", spec.Layout.XAxisTitle)
	assert.Equal(t, "Count", spec.Layout.YAxisTitle)
	assert.Equal(t, plot.BarModeOverlay, spec.Layout.BarMode)
	assert.False(t, spec.Layout.ShowLegend)
}

func TestBuild_PercentageOnlyChangesY(t *testing.T) {
	builder := NewBuilder(DefaultViewport)
	stacked, pooled := stackedNumericalFixture()

	cases := map[string]Input{
		"numerical": {FeatureName: "x", Level: feature.Continuous, Sample: pooled},
		"categorical": {FeatureName: "c", Level: feature.Nominal,
			Sample: feature.CategoricalFromLabels([]string{"a", "b", "b", "c"})},
		"stacked": {FeatureName: "x", Level: feature.Cardinal, Sample: pooled, Stacked: stacked,
			State: feature.ViewState{StackedWrtTarget: true}},
	}

	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			counts := builder.Build(in)
			in.State.UsePercentageAxis = true
			percent := builder.Build(in)

			require.Equal(t, len(counts.Traces), len(percent.Traces))
			assert.Equal(t, plot.UnitPercent, percent.Layout.YUnit)
			assert.Equal(t, "Percentage", percent.Layout.YAxisTitle)
			for i := range counts.Traces {
				assert.Equal(t, counts.Traces[i].X, percent.Traces[i].X)
				assert.Equal(t, counts.Traces[i].Kind, percent.Traces[i].Kind)
				assert.Equal(t, counts.Traces[i].Bins, percent.Traces[i].Bins)
				if percent.Traces[i].Kind != plot.KindBox {
					assert.InDelta(t, 100.0, sum(percent.Traces[i].Y), 1e-9)
				}
			}
		})
	}
}

func TestBuild_SingleCategoricalPercentage(t *testing.T) {
	builder := NewBuilder(DefaultViewport)
	order := []string{"A", "B", "C"}

	spec := builder.Build(Input{
		FeatureName: "grade",
		Level:       feature.Nominal,
		Sample:      feature.CategoricalFromCounts(order, map[string]int{"A": 10, "B": 85, "C": 5}),
		State:       feature.ViewState{UsePercentageAxis: true},
	})
	require.Len(t, spec.Traces, 1)
	assert.Equal(t, plot.KindBar, spec.Traces[0].Kind)
	assert.Equal(t, order, spec.Traces[0].X)
	assert.InDeltaSlice(t, []float64{10, 85, 5}, spec.Traces[0].Y, 1e-9)

	scaled := builder.Build(Input{
		FeatureName: "grade",
		Level:       feature.Nominal,
		Sample:      feature.CategoricalFromCounts(order, map[string]int{"A": 20, "B": 170, "C": 10}),
		State:       feature.ViewState{UsePercentageAxis: true},
	})
	assert.InDeltaSlice(t, []float64{10, 85, 5}, scaled.Traces[0].Y, 1e-9)
}

func TestBuild_StackedNumerical(t *testing.T) {
	builder := NewBuilder(DefaultViewport)
	stacked, pooled := stackedNumericalFixture()

	spec := builder.Build(Input{
		FeatureName: "x",
		Level:       feature.Continuous,
		Sample:      pooled,
		Stacked:     stacked,
		State:       feature.ViewState{StackedWrtTarget: true},
	})

	require.Len(t, spec.Traces, 4)
	assert.Equal(t, []plot.TraceKind{plot.KindHistogram, plot.KindBox, plot.KindHistogram, plot.KindBox},
		[]plot.TraceKind{spec.Traces[0].Kind, spec.Traces[1].Kind, spec.Traces[2].Kind, spec.Traces[3].Kind})
	assert.Equal(t, "A", spec.Traces[0].Class)
	assert.Equal(t, "B", spec.Traces[2].Class)
	assert.Equal(t, ClassColor(0), spec.Traces[0].Color)
	assert.Equal(t, ClassColor(1), spec.Traces[2].Color)
	assert.NotEqual(t, spec.Traces[0].Color, spec.Traces[2].Color)

	assert.Equal(t, plot.BarModeGroup, spec.Layout.BarMode)
	assert.Greater(t, spec.Layout.BarGap, 0.0)
	assert.True(t, spec.Layout.ShowLegend)

	// without cleaning, the union of class x-domains equals the unstacked domain
	single := builder.Build(Input{FeatureName: "x", Level: feature.Continuous, Sample: pooled})
	union := map[string]bool{}
	for _, trace := range spec.TracesOfKind(plot.KindHistogram) {
		for _, x := range trace.X {
			union[x] = true
		}
	}
	singleDomain := map[string]bool{}
	for _, x := range single.TracesOfKind(plot.KindHistogram)[0].X {
		singleDomain[x] = true
	}
	assert.Equal(t, singleDomain, union)

	perClass := sum(spec.Traces[0].Y) + sum(spec.Traces[2].Y)
	assert.Equal(t, sum(single.Traces[0].Y), perClass)
}

func TestBuild_StackedCategoricalUsesUnionOfCategories(t *testing.T) {
	builder := NewBuilder(DefaultViewport)
	stacked := &feature.Stacked{
		Target: "target",
		Classes: []feature.ClassSample{
			{Label: "yes", Sample: feature.CategoricalFromLabels([]string{"red", "red", "blue"})},
			{Label: "no", Sample: feature.CategoricalFromLabels([]string{"green", "blue"})},
		},
	}

	spec := builder.Build(Input{
		FeatureName: "color",
		Level:       feature.Nominal,
		Sample:      feature.CategoricalFromLabels([]string{"red", "red", "blue", "green", "blue"}),
		Stacked:     stacked,
		State:       feature.ViewState{StackedWrtTarget: true},
	})

	require.Len(t, spec.Traces, 2)
	for _, trace := range spec.Traces {
		assert.Equal(t, plot.KindBar, trace.Kind)
		assert.Equal(t, []string{"red", "blue", "green"}, trace.X)
	}
	assert.Equal(t, []float64{2, 1, 0}, spec.Traces[0].Y)
	assert.Equal(t, []float64{0, 1, 1}, spec.Traces[1].Y)
	assert.Equal(t, plot.BarModeGroup, spec.Layout.BarMode)
}

func TestBuild_StackedWithoutDataFallsBackToSingle(t *testing.T) {
	spec := NewBuilder(DefaultViewport).Build(Input{
		FeatureName: "x",
		Level:       feature.Continuous,
		Sample:      feature.NumericalSample{1, 2, 3},
		State:       feature.ViewState{StackedWrtTarget: true},
	})
	require.Len(t, spec.Traces, 2)
	assert.Empty(t, spec.Traces[0].Class)
}

func TestBuild_FullScreenOnlyChangesLayoutSize(t *testing.T) {
	builder := NewBuilder(Viewport{Width: 1000, Height: 1000})
	in := Input{FeatureName: "x", Level: feature.Continuous, Sample: feature.NumericalSample{1, 2, 3, 4}}

	normal := builder.Build(in)
	in.State.IsFullScreen = true
	full := builder.Build(in)

	assert.Equal(t, normal.Traces, full.Traces)
	assert.Equal(t, 500, normal.Layout.Width)
	assert.Equal(t, 450, normal.Layout.Height)
	assert.Equal(t, 950, full.Layout.Width)
	assert.Equal(t, 850, full.Layout.Height)
	assert.True(t, full.Layout.FullScreen)
}

func TestBuild_EmptySampleHasNoTraces(t *testing.T) {
	builder := NewBuilder(DefaultViewport)

	assert.True(t, builder.Build(Input{Level: feature.Continuous, Sample: feature.NumericalSample{}}).IsEmpty())
	assert.True(t, builder.Build(Input{Level: feature.Nominal, Sample: feature.CategoricalSample{}}).IsEmpty())
	assert.True(t, builder.Build(Input{Level: feature.Continuous}).IsEmpty())
	assert.True(t, builder.Build(Input{
		Level:   feature.Continuous,
		Stacked: &feature.Stacked{Classes: []feature.ClassSample{{Label: "A", Sample: feature.NumericalSample{}}}},
		State:   feature.ViewState{StackedWrtTarget: true},
	}).IsEmpty())
}

func TestBinGrid(t *testing.T) {
	assert.Nil(t, binGrid(nil))
	assert.Equal(t, []plot.Bin{{Low: 3, High: 3}}, binGrid([]float64{3, 3}))

	bins := binGrid([]float64{0, 10})
	require.Len(t, bins, 2)
	assert.Equal(t, []float64{1, 1}, binCounts(bins, []float64{0, 10}))
	assert.Equal(t, []string{"[0, 5)", "[5, 10]"}, binLabels(bins))
}

func TestEncodeRoundTrip(t *testing.T) {
	spec := NewBuilder(DefaultViewport).Build(Input{FeatureName: "x", Level: feature.Continuous, Sample: feature.NumericalSample{1, 2, 3}})
	data, err := Encode(spec)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"histogram"`)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, spec.Layout, decoded.Layout)
	assert.Len(t, decoded.Traces, 2)
}

func TestRGBA(t *testing.T) {
	assert.Equal(t, "rgba(100, 149, 237, 0.7)", RGBA("#6495ED", 0.7))
	assert.Equal(t, "not-a-color", RGBA("not-a-color", 0.5))
}
