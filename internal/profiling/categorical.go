package profiling

import (
	"featurecard/domain/feature"
	domainstats "featurecard/domain/stats"
)

// OutlierCategoryShare is the share of the total below which a category counts
// as an outlier category.
const OutlierCategoryShare = 0.005

// CategoryAnalyzer computes the categorical stat vocabulary
type CategoryAnalyzer struct{}

// NewCategoryAnalyzer creates a new category analyzer
func NewCategoryAnalyzer() *CategoryAnalyzer {
	return &CategoryAnalyzer{}
}

// AnalyzeCategories computes category count, mode, mode ratio, missing ratio
// and the number of outlier categories. Ratios are percentages of all entries,
// missing ones included.
func (ca *CategoryAnalyzer) AnalyzeCategories(sample feature.CategoricalSample, level feature.LevelOfMeasurement) domainstats.Descriptive {
	total := sample.Len()
	result := domainstats.NewDescriptive(level, total)
	if total == 0 {
		return result
	}

	distinct := 0
	outliers := 0
	modeLabel, modeCount := "", 0
	for _, c := range sample.Categories {
		if c.Count <= 0 {
			continue
		}
		distinct++
		if float64(c.Count)/float64(total) < OutlierCategoryShare {
			outliers++
		}
		// strict comparison keeps the first-encountered label on ties
		if c.Count > modeCount {
			modeLabel, modeCount = c.Label, c.Count
		}
	}

	result.Set(domainstats.CategoryCount, domainstats.Number(float64(distinct)))
	result.Set(domainstats.MissingRatio, domainstats.Number(float64(sample.Missing)/float64(total)*100))
	result.Set(domainstats.OutlierCategories, domainstats.Number(float64(outliers)))
	if modeCount > 0 {
		result.Set(domainstats.ModeValue, domainstats.Label(modeLabel))
		result.Set(domainstats.ModeRatio, domainstats.Number(float64(modeCount)/float64(total)*100))
	}
	return result
}
