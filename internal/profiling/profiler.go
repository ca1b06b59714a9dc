package profiling

import (
	"featurecard/domain/feature"
	domainstats "featurecard/domain/stats"
)

// DataProfiler dispatches stat computation on the level of measurement
type DataProfiler struct {
	distribution *DistributionAnalyzer
	categories   *CategoryAnalyzer
}

// NewDataProfiler creates a new data profiler
func NewDataProfiler() *DataProfiler {
	return &DataProfiler{
		distribution: NewDistributionAnalyzer(),
		categories:   NewCategoryAnalyzer(),
	}
}

// ComputeStats computes the descriptive stats of a sample. It never fails:
// absent or mismatched input yields a stat set marked unavailable.
func (dp *DataProfiler) ComputeStats(sample feature.Sample, level feature.LevelOfMeasurement) domainstats.Descriptive {
	switch s := sample.(type) {
	case feature.NumericalSample:
		if level.IsNumerical() {
			result := dp.distribution.AnalyzeDistribution(s)
			result.Level = level
			return result
		}
	case feature.CategoricalSample:
		if level.IsCategorical() {
			return dp.categories.AnalyzeCategories(s, level)
		}
	}
	return domainstats.NewDescriptive(level, 0)
}

// ProfileStacked computes stats per target class, in class order.
func (dp *DataProfiler) ProfileStacked(stacked *feature.Stacked, level feature.LevelOfMeasurement) []ClassStats {
	if stacked == nil {
		return nil
	}
	out := make([]ClassStats, 0, len(stacked.Classes))
	for _, c := range stacked.Classes {
		out = append(out, ClassStats{Class: c.Label, Stats: dp.ComputeStats(c.Sample, level)})
	}
	return out
}

// ClassStats pairs a target class with the stats of its sample.
type ClassStats struct {
	Class string                  `json:"class"`
	Stats domainstats.Descriptive `json:"stats"`
}

var defaultProfiler = NewDataProfiler()

// ComputeStats computes stats with the package-level profiler.
func ComputeStats(sample feature.Sample, level feature.LevelOfMeasurement) domainstats.Descriptive {
	return defaultProfiler.ComputeStats(sample, level)
}

// ProfileStacked computes per-class stats with the package-level profiler.
func ProfileStacked(stacked *feature.Stacked, level feature.LevelOfMeasurement) []ClassStats {
	return defaultProfiler.ProfileStacked(stacked, level)
}
