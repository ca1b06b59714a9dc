package profiling

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"featurecard/domain/feature"
	domainstats "featurecard/domain/stats"
)

func TestAnalyzeDistribution_EmptySampleIsUnavailable(t *testing.T) {
	analyzer := NewDistributionAnalyzer()

	for name, data := range map[string][]float64{
		"nil":          nil,
		"empty":        {},
		"only missing": {math.NaN(), math.Inf(1)},
	} {
		t.Run(name, func(t *testing.T) {
			result := analyzer.AnalyzeDistribution(data)
			assert.True(t, result.AllUnavailable())
			for _, stat := range domainstats.NumericalVocabulary {
				assert.Equal(t, domainstats.NotAvailable, result.Get(stat).String(), "stat %s", stat)
			}
		})
	}
}

func TestAnalyzeDistribution_ConstantSample(t *testing.T) {
	result := NewDistributionAnalyzer().AnalyzeDistribution([]float64{3, 3, 3, 3})

	assert.Equal(t, 3.0, result.Get(domainstats.Mean).Number)
	assert.Equal(t, 0.0, result.Get(domainstats.Std).Number)
	require.True(t, result.Get(domainstats.Skewness).Available)
	require.True(t, result.Get(domainstats.Kurtosis).Available)
	assert.Equal(t, 0.0, result.Get(domainstats.Skewness).Number)
	assert.Equal(t, 0.0, result.Get(domainstats.Kurtosis).Number)
}

func TestAnalyzeDistribution_KnownValues(t *testing.T) {
	result := NewDistributionAnalyzer().AnalyzeDistribution([]float64{4, 1, 3, 2})

	assert.Equal(t, 4, result.SampleSize)
	assert.InDelta(t, 2.5, result.Get(domainstats.Mean).Number, 1e-12)
	assert.Equal(t, 1.0, result.Get(domainstats.Min).Number)
	assert.Equal(t, 4.0, result.Get(domainstats.Max).Number)
	assert.InDelta(t, math.Sqrt(1.25), result.Get(domainstats.Std).Number, 1e-12)
	assert.InDelta(t, 0.0, result.Get(domainstats.Skewness).Number, 1e-12)
	assert.InDelta(t, -1.36, result.Get(domainstats.Kurtosis).Number, 1e-9)

	// quantiles never leave the observed range
	for _, q := range quantileStats {
		v := result.Get(q.name).Number
		assert.GreaterOrEqual(t, v, 1.0, "stat %s", q.name)
		assert.LessOrEqual(t, v, 4.0, "stat %s", q.name)
	}
}

func TestAnalyzeDistribution_IgnoresNonFinite(t *testing.T) {
	result := NewDistributionAnalyzer().AnalyzeDistribution([]float64{1, math.NaN(), 3, math.Inf(-1)})

	assert.Equal(t, 2, result.SampleSize)
	assert.Equal(t, 2.0, result.Get(domainstats.Mean).Number)
	assert.Equal(t, 3.0, result.Get(domainstats.Max).Number)
}

func TestAnalyzeDistribution_Skewed(t *testing.T) {
	result := NewDistributionAnalyzer().AnalyzeDistribution([]float64{1, 2, 2, 3, 4, 5, 100})

	assert.Greater(t, result.Get(domainstats.Skewness).Number, 1.0)
	assert.Greater(t, result.Get(domainstats.Kurtosis).Number, 0.0)
	assert.Equal(t, "100", result.Get(domainstats.Max).String())
}

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 2, 3, 4, 5, 100}

	assert.Equal(t, 1.0, Quantile(sorted, 0.05))
	assert.InDelta(t, 66.75, Quantile(sorted, 0.95), 1e-9)
	assert.Equal(t, 1.0, Quantile(sorted, 0))
	assert.Equal(t, 100.0, Quantile(sorted, 1))
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))

	p, ok := Percentile([]float64{100, 5, 4, 3, 2, 2, 1, math.NaN()}, 95)
	require.True(t, ok)
	assert.InDelta(t, 66.75, p, 1e-9)

	_, ok = Percentile([]float64{math.NaN()}, 50)
	assert.False(t, ok)
}

func TestBoxSummary(t *testing.T) {
	lower, q1, median, q3, upper, outliers, err := BoxSummary([]float64{1, 2, 2, 3, 4, 5, 100})
	require.NoError(t, err)

	assert.LessOrEqual(t, q1, median)
	assert.LessOrEqual(t, median, q3)
	assert.Equal(t, 1.0, lower)
	assert.Equal(t, 5.0, upper)
	assert.Equal(t, []float64{100}, outliers)

	_, _, _, _, _, _, err = BoxSummary(nil)
	assert.Error(t, err)
}

func TestComputeStats_DispatchesOnLevel(t *testing.T) {
	numerical := ComputeStats(feature.NumericalSample{1, 2, 3}, feature.Cardinal)
	assert.Equal(t, feature.Cardinal, numerical.Level)
	assert.Len(t, numerical.Entries(), len(domainstats.NumericalVocabulary))

	categorical := ComputeStats(feature.CategoricalFromLabels([]string{"a", "b", "a"}), feature.Ordinal)
	assert.Equal(t, "a", categorical.Get(domainstats.ModeValue).String())

	mismatched := ComputeStats(feature.NumericalSample{1, 2}, feature.Nominal)
	assert.True(t, mismatched.AllUnavailable())

	absent := ComputeStats(nil, feature.Continuous)
	assert.True(t, absent.AllUnavailable())
}
