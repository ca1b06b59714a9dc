package profiling

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"featurecard/domain/feature"
	domainstats "featurecard/domain/stats"
)

func TestAnalyzeCategories_ModeAndRatios(t *testing.T) {
	sample := feature.CategoricalFromCounts([]string{"A", "B", "C"}, map[string]int{"A": 10, "B": 85, "C": 5})
	result := NewCategoryAnalyzer().AnalyzeCategories(sample, feature.Nominal)

	assert.Equal(t, 3.0, result.Get(domainstats.CategoryCount).Number)
	assert.Equal(t, "B", result.Get(domainstats.ModeValue).String())
	assert.Equal(t, 85.0, result.Get(domainstats.ModeRatio).Number)
	assert.Equal(t, 0.0, result.Get(domainstats.MissingRatio).Number)
	assert.Equal(t, 0.0, result.Get(domainstats.OutlierCategories).Number)
}

func TestAnalyzeCategories_MissingEntries(t *testing.T) {
	sample := feature.CategoricalFromLabels([]string{"a", "a", "b", "", "NaN"})
	result := NewCategoryAnalyzer().AnalyzeCategories(sample, feature.Nominal)

	assert.Equal(t, 2.0, result.Get(domainstats.CategoryCount).Number)
	assert.Equal(t, 40.0, result.Get(domainstats.MissingRatio).Number)
	assert.Equal(t, 40.0, result.Get(domainstats.ModeRatio).Number)
}

func TestAnalyzeCategories_TieGoesToFirstLabel(t *testing.T) {
	sample := feature.CategoricalFromLabels([]string{"x", "y", "y", "x"})
	result := NewCategoryAnalyzer().AnalyzeCategories(sample, feature.Ordinal)

	assert.Equal(t, "x", result.Get(domainstats.ModeValue).String())
}

func TestAnalyzeCategories_OutlierCategories(t *testing.T) {
	sample := feature.CategoricalFromCounts([]string{"common", "rare", "rarer"}, map[string]int{"common": 1994, "rare": 5, "rarer": 1})
	result := NewCategoryAnalyzer().AnalyzeCategories(sample, feature.Nominal)

	assert.Equal(t, 2.0, result.Get(domainstats.OutlierCategories).Number)
}

func TestAnalyzeCategories_SingleCategoryAndEmpty(t *testing.T) {
	single := NewCategoryAnalyzer().AnalyzeCategories(feature.CategoricalFromLabels([]string{"only", "only"}), feature.Nominal)
	assert.Equal(t, 1.0, single.Get(domainstats.CategoryCount).Number)
	assert.Equal(t, 100.0, single.Get(domainstats.ModeRatio).Number)

	empty := NewCategoryAnalyzer().AnalyzeCategories(feature.CategoricalSample{}, feature.Nominal)
	assert.True(t, empty.AllUnavailable())
}

func TestMode(t *testing.T) {
	mode, count, ok := Mode([]float64{5, 1, 1, 5})
	assert.True(t, ok)
	assert.Equal(t, 5.0, mode)
	assert.Equal(t, 2, count)

	_, _, ok = Mode([]string{})
	assert.False(t, ok)
}
