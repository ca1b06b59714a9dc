// Package cleaning implements the outlier and sparsity filters applied to a
// feature sample before stats and plots are derived.
package cleaning

import (
	"math"

	"featurecard/domain/feature"
	"featurecard/internal/profiling"
)

const (
	// OutlierLowerPercentile and OutlierUpperPercentile bound the retained band.
	OutlierLowerPercentile = 5.0
	OutlierUpperPercentile = 95.0

	// SparsityModeRatio is the mode share (percent) above which the mode is removed.
	SparsityModeRatio = 25.0
)

// CleanOutliers keeps the finite values inside [p5, p95], inclusive, in their
// original order. Bounds use the same quantile method as the stats panel.
func CleanOutliers(values []float64) []float64 {
	lower, okLow := profiling.Percentile(values, OutlierLowerPercentile)
	upper, okHigh := profiling.Percentile(values, OutlierUpperPercentile)
	if !okLow || !okHigh {
		return []float64{}
	}

	out := make([]float64, 0, len(values))
	for _, v := range values {
		if isFinite(v) && v >= lower && v <= upper {
			out = append(out, v)
		}
	}
	return out
}

// CleanSparsity removes every occurrence of the mode when its share of the
// sample exceeds SparsityModeRatio; otherwise values are returned unchanged.
func CleanSparsity[T comparable](values []T) []T {
	mode, count, ok := profiling.Mode(values)
	if !ok || ratio(count, len(values)) <= SparsityModeRatio {
		return values
	}

	out := make([]T, 0, len(values)-count)
	for _, v := range values {
		if v != mode {
			out = append(out, v)
		}
	}
	return out
}

// CleanSparsityNumerical is CleanSparsity over the finite entries of a
// numerical sample.
func CleanSparsityNumerical(values []float64) []float64 {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if isFinite(v) {
			finite = append(finite, v)
		}
	}
	return CleanSparsity(finite)
}

// CleanSparsityCounts is the mapping form of CleanSparsity: it drops the mode
// category when its share of all entries exceeds SparsityModeRatio. The view
// never calls it because sparsity cleaning is gated to numerical columns.
func CleanSparsityCounts(sample feature.CategoricalSample) feature.CategoricalSample {
	total := sample.Len()
	modeIdx, modeCount := -1, 0
	for i, c := range sample.Categories {
		if c.Count > modeCount {
			modeIdx, modeCount = i, c.Count
		}
	}
	if modeIdx < 0 || ratio(modeCount, total) <= SparsityModeRatio {
		return sample
	}

	out := feature.CategoricalSample{Missing: sample.Missing}
	for i, c := range sample.Categories {
		if i != modeIdx {
			out.Categories = append(out.Categories, c)
		}
	}
	return out
}

func ratio(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
